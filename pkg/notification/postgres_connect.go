package notification

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dmitrymomot/notifyhub/pkg/logger"
)

// Postgres bootstrap errors.
var (
	// ErrFailedToParseDBConfig is returned when the connection string
	// cannot be parsed.
	ErrFailedToParseDBConfig = errors.New("failed to parse journal database config")
	// ErrDBNotReady is returned when the database does not answer a ping
	// within the configured retry budget.
	ErrDBNotReady = errors.New("journal database is not ready")
)

// PostgresConfig holds connection settings for the Postgres journal.
// Load it from the environment with config.Load.
type PostgresConfig struct {
	ConnectionString  string        `env:"JOURNAL_PG_CONN_URL,required"`
	MaxOpenConns      int32         `env:"JOURNAL_PG_MAX_OPEN_CONNS" envDefault:"10"`
	MinIdleConns      int32         `env:"JOURNAL_PG_MIN_IDLE_CONNS" envDefault:"2"`
	HealthCheckPeriod time.Duration `env:"JOURNAL_PG_HEALTHCHECK_PERIOD" envDefault:"1m"`
	MaxConnIdleTime   time.Duration `env:"JOURNAL_PG_MAX_CONN_IDLE_TIME" envDefault:"10m"`
	MaxConnLifetime   time.Duration `env:"JOURNAL_PG_MAX_CONN_LIFETIME" envDefault:"30m"`
	RetryAttempts     int           `env:"JOURNAL_PG_RETRY_ATTEMPTS" envDefault:"3"`
	RetryInterval     time.Duration `env:"JOURNAL_PG_RETRY_INTERVAL" envDefault:"5s"`
}

// ConnectPostgres opens a pgx pool for the Postgres journal and verifies
// it with a ping, retrying while the database comes up. The returned pool
// is ready to hand to NewPostgresJournal.
func ConnectPostgres(ctx context.Context, cfg PostgresConfig) (*pgxpool.Pool, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.ConnectionString)
	if err != nil {
		return nil, errors.Join(ErrFailedToParseDBConfig, err)
	}

	poolCfg.MaxConns = cfg.MaxOpenConns
	poolCfg.MinConns = cfg.MinIdleConns
	poolCfg.HealthCheckPeriod = cfg.HealthCheckPeriod
	poolCfg.MaxConnIdleTime = cfg.MaxConnIdleTime
	poolCfg.MaxConnLifetime = cfg.MaxConnLifetime

	attempts := max(cfg.RetryAttempts, 1)

	var lastErr error
	for i := 0; i < attempts; i++ {
		if i > 0 {
			// Linear backoff between attempts.
			select {
			case <-ctx.Done():
				return nil, errors.Join(ErrDBNotReady, ctx.Err())
			case <-time.After(time.Duration(i) * cfg.RetryInterval):
			}
		}

		pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
		if err != nil {
			lastErr = err
			logConnectRetry(ctx, "postgres", i+1, err)
			continue
		}
		if err := pool.Ping(ctx); err != nil {
			pool.Close()
			lastErr = err
			logConnectRetry(ctx, "postgres", i+1, err)
			continue
		}
		return pool, nil
	}

	return nil, errors.Join(ErrDBNotReady, lastErr)
}

// logConnectRetry reports a failed bootstrap attempt. Connect helpers
// run before any component wiring, so they go through the default
// logger.
func logConnectRetry(ctx context.Context, backend string, attempt int, err error) {
	slog.Default().LogAttrs(ctx, slog.LevelWarn, "journal backend not ready",
		logger.Component("journal"),
		slog.String("backend", backend),
		slog.Int("attempt", attempt),
		logger.Error(err),
	)
}

// PostgresHealthcheck returns a probe reporting whether the journal
// database still answers, for wiring into a readiness endpoint.
func PostgresHealthcheck(pool *pgxpool.Pool) func(context.Context) error {
	return func(ctx context.Context) error {
		return pool.Ping(ctx)
	}
}
