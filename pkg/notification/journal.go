package notification

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

// Journal errors.
var (
	// ErrInvalidDelivery is returned when a recorded event misses
	// required fields.
	ErrInvalidDelivery = errors.New("invalid delivery")
	// ErrJournalUnavailable wraps backend failures of the Redis and
	// Postgres journals.
	ErrJournalUnavailable = errors.New("journal unavailable")
)

// ListOptions filters and paginates journal queries. Zero values mean
// "no filter"; Limit 0 means no limit.
type ListOptions struct {
	MessageID string
	Channel   string
	Outcome   Outcome
	// Recipient matches the recipient's email address.
	Recipient string
	// Since keeps only events recorded at or after the given time.
	Since  time.Time
	Limit  int
	Offset int
}

// Journal is an append-only record of delivery events with queries on
// top. Implementations return events newest first.
type Journal interface {
	Recorder

	// List returns events matching opts, newest first.
	List(ctx context.Context, opts ListOptions) ([]Delivery, error)

	// Count returns the number of events with the given outcome, or of
	// all events when outcome is empty.
	Count(ctx context.Context, outcome Outcome) (int, error)

	// Purge removes events recorded before the given time and reports
	// how many were removed.
	Purge(ctx context.Context, olderThan time.Time) (int, error)
}

var (
	_ Journal = (*MemoryJournal)(nil)
	_ Journal = (*RedisJournal)(nil)
	_ Journal = (*PostgresJournal)(nil)
)

// matches reports whether d passes every filter in opts except
// pagination. Shared by the in-memory and Redis journals, which filter
// client-side.
func (opts ListOptions) matches(d Delivery) bool {
	if opts.MessageID != "" && d.MessageID != opts.MessageID {
		return false
	}
	if opts.Channel != "" && d.Channel != opts.Channel {
		return false
	}
	if opts.Outcome != "" && d.Outcome != opts.Outcome {
		return false
	}
	if opts.Recipient != "" && d.Recipient.Email != opts.Recipient {
		return false
	}
	if !opts.Since.IsZero() && d.At.Before(opts.Since) {
		return false
	}
	return true
}

// normalize fills the identity and timestamp of an event when the caller
// left them zero, and validates required fields.
func normalize(d *Delivery) error {
	if d.MessageID == "" {
		return errors.Join(ErrInvalidDelivery, errors.New("message id is required"))
	}
	if d.Channel == "" {
		return errors.Join(ErrInvalidDelivery, errors.New("channel is required"))
	}
	if d.Outcome == "" {
		return errors.Join(ErrInvalidDelivery, errors.New("outcome is required"))
	}
	if d.ID == "" {
		d.ID = uuid.New().String()
	}
	if d.At.IsZero() {
		d.At = time.Now()
	}
	return nil
}
