package notification

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// Redis bootstrap errors.
var (
	// ErrFailedToParseRedisURL is returned when the connection URL cannot
	// be parsed.
	ErrFailedToParseRedisURL = errors.New("failed to parse journal redis url")
	// ErrRedisNotReady is returned when the server does not answer a ping
	// within the configured retry budget.
	ErrRedisNotReady = errors.New("journal redis is not ready")
)

// RedisConfig holds connection settings for the Redis journal. Load it
// from the environment with config.Load.
type RedisConfig struct {
	ConnectionURL  string        `env:"JOURNAL_REDIS_URL,required" envDefault:"redis://localhost:6379/0"`
	RetryAttempts  int           `env:"JOURNAL_REDIS_RETRY_ATTEMPTS" envDefault:"3"`
	RetryInterval  time.Duration `env:"JOURNAL_REDIS_RETRY_INTERVAL" envDefault:"5s"`
	ConnectTimeout time.Duration `env:"JOURNAL_REDIS_CONNECT_TIMEOUT" envDefault:"30s"`
}

// ConnectRedis opens a client for the Redis journal and verifies it with
// a ping, retrying while the server comes up. The whole dance is bounded
// by cfg.ConnectTimeout. The returned client is ready to hand to
// NewRedisJournal.
func ConnectRedis(ctx context.Context, cfg RedisConfig) (*redis.Client, error) {
	opts, err := redis.ParseURL(cfg.ConnectionURL)
	if err != nil {
		return nil, errors.Join(ErrFailedToParseRedisURL, err)
	}

	if cfg.ConnectTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.ConnectTimeout)
		defer cancel()
	}

	attempts := max(cfg.RetryAttempts, 1)

	var lastErr error
	for i := 0; i < attempts; i++ {
		if i > 0 {
			select {
			case <-ctx.Done():
				return nil, errors.Join(ErrRedisNotReady, ctx.Err())
			case <-time.After(cfg.RetryInterval):
			}
		}

		client := redis.NewClient(opts)
		if err := client.Ping(ctx).Err(); err != nil {
			lastErr = err
			_ = client.Close()
			logConnectRetry(ctx, "redis", i+1, err)
			continue
		}
		return client, nil
	}

	return nil, errors.Join(ErrRedisNotReady, lastErr)
}

// RedisHealthcheck returns a probe reporting whether the journal Redis
// still answers, for wiring into a readiness endpoint.
func RedisHealthcheck(client redis.UniversalClient) func(context.Context) error {
	return func(ctx context.Context) error {
		return client.Ping(ctx).Err()
	}
}
