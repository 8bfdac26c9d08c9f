package notification

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	defaultRedisKey = "notifyhub:deliveries"
	defaultRedisCap = 10000

	// purgeRetries bounds how often Purge re-runs its watched rewrite
	// when concurrent writers keep invalidating the snapshot.
	purgeRetries = 5
)

// RedisJournal keeps delivery events as JSON entries in a capped Redis
// list, newest first. It trades durability for shared visibility across
// processes: once the cap is reached the oldest events fall off.
type RedisJournal struct {
	client redis.UniversalClient
	key    string
	cap    int64
}

// RedisJournalOption configures a RedisJournal.
type RedisJournalOption func(*RedisJournal)

// WithRedisKey overrides the list key the journal writes to.
func WithRedisKey(key string) RedisJournalOption {
	return func(j *RedisJournal) {
		if key != "" {
			j.key = key
		}
	}
}

// WithRedisCap overrides how many events the list retains.
func WithRedisCap(n int) RedisJournalOption {
	return func(j *RedisJournal) {
		if n > 0 {
			j.cap = int64(n)
		}
	}
}

// NewRedisJournal creates a journal backed by the given Redis client.
func NewRedisJournal(client redis.UniversalClient, opts ...RedisJournalOption) *RedisJournal {
	j := &RedisJournal{
		client: client,
		key:    defaultRedisKey,
		cap:    defaultRedisCap,
	}
	for _, opt := range opts {
		opt(j)
	}
	return j
}

func (j *RedisJournal) Record(ctx context.Context, d Delivery) error {
	if err := normalize(&d); err != nil {
		return err
	}

	payload, err := json.Marshal(d)
	if err != nil {
		return errors.Join(ErrInvalidDelivery, err)
	}

	pipe := j.client.TxPipeline()
	pipe.LPush(ctx, j.key, payload)
	pipe.LTrim(ctx, j.key, 0, j.cap-1)
	if _, err := pipe.Exec(ctx); err != nil {
		return errors.Join(ErrJournalUnavailable, err)
	}
	return nil
}

// load reads the whole list. Entries that fail to decode are skipped so
// one corrupt payload does not poison every query.
func (j *RedisJournal) load(ctx context.Context) ([]Delivery, error) {
	raw, err := j.client.LRange(ctx, j.key, 0, -1).Result()
	if err != nil {
		return nil, errors.Join(ErrJournalUnavailable, err)
	}

	deliveries := make([]Delivery, 0, len(raw))
	for _, entry := range raw {
		var d Delivery
		if err := json.Unmarshal([]byte(entry), &d); err != nil {
			continue
		}
		deliveries = append(deliveries, d)
	}
	return deliveries, nil
}

func (j *RedisJournal) List(ctx context.Context, opts ListOptions) ([]Delivery, error) {
	deliveries, err := j.load(ctx)
	if err != nil {
		return nil, err
	}

	// The list is newest first already; filters and pagination apply
	// client-side, which the cap keeps affordable.
	var filtered []Delivery
	for _, d := range deliveries {
		if opts.matches(d) {
			filtered = append(filtered, d)
		}
	}

	start := opts.Offset
	if start > len(filtered) {
		return []Delivery{}, nil
	}

	end := start + opts.Limit
	if opts.Limit == 0 || end > len(filtered) {
		end = len(filtered)
	}

	return filtered[start:end], nil
}

func (j *RedisJournal) Count(ctx context.Context, outcome Outcome) (int, error) {
	if outcome == "" {
		n, err := j.client.LLen(ctx, j.key).Result()
		if err != nil {
			return 0, errors.Join(ErrJournalUnavailable, err)
		}
		return int(n), nil
	}

	deliveries, err := j.load(ctx)
	if err != nil {
		return 0, err
	}

	count := 0
	for _, d := range deliveries {
		if d.Outcome == outcome {
			count++
		}
	}
	return count, nil
}

func (j *RedisJournal) Purge(ctx context.Context, olderThan time.Time) (int, error) {
	removed := 0

	txf := func(tx *redis.Tx) error {
		raw, err := tx.LRange(ctx, j.key, 0, -1).Result()
		if err != nil {
			return err
		}

		removed = 0
		kept := make([]any, 0, len(raw))
		for _, entry := range raw {
			var d Delivery
			if err := json.Unmarshal([]byte(entry), &d); err == nil && d.At.Before(olderThan) {
				removed++
				continue
			}
			// Undecodable entries stay put; purge only removes what it
			// can date.
			kept = append(kept, entry)
		}

		// Rewrite in one transaction; RPUSH keeps the newest-first
		// order of kept.
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Del(ctx, j.key)
			if len(kept) > 0 {
				pipe.RPush(ctx, j.key, kept...)
			}
			return nil
		})
		return err
	}

	// WATCH aborts the rewrite when another writer touches the list
	// after the snapshot; retry reads a fresh snapshot, keeping
	// concurrent records intact.
	for r := 0; r < purgeRetries; r++ {
		err := j.client.Watch(ctx, txf, j.key)
		if err == nil {
			return removed, nil
		}
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		return 0, errors.Join(ErrJournalUnavailable, err)
	}
	return 0, errors.Join(ErrJournalUnavailable, redis.TxFailedErr)
}
