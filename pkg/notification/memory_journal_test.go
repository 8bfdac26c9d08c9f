package notification_test

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/notifyhub/pkg/notification"
)

func newTestDelivery(channel string, outcome notification.Outcome, at time.Time) notification.Delivery {
	return notification.Delivery{
		MessageID:   "msg-1",
		Channel:     channel,
		Destination: "luis@example.com",
		Recipient: notification.Recipient{
			Name:  "Luis",
			Email: "luis@example.com",
			Phone: "+34600111222",
		},
		Text:    "maintenance tonight",
		Outcome: outcome,
		At:      at,
	}
}

func TestMemoryJournal_Record(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("records valid delivery", func(t *testing.T) {
		t.Parallel()

		journal := notification.NewMemoryJournal()
		err := journal.Record(ctx, newTestDelivery("email", notification.OutcomeDelivered, time.Now()))
		require.NoError(t, err)

		count, err := journal.Count(ctx, "")
		require.NoError(t, err)
		assert.Equal(t, 1, count)
	})

	t.Run("fills identity and timestamp when missing", func(t *testing.T) {
		t.Parallel()

		journal := notification.NewMemoryJournal()
		d := newTestDelivery("email", notification.OutcomeDelivered, time.Time{})
		d.ID = ""
		require.NoError(t, journal.Record(ctx, d))

		stored, err := journal.List(ctx, notification.ListOptions{})
		require.NoError(t, err)
		require.Len(t, stored, 1)
		assert.NotEmpty(t, stored[0].ID)
		assert.False(t, stored[0].At.IsZero())
	})

	t.Run("rejects incomplete events", func(t *testing.T) {
		t.Parallel()

		journal := notification.NewMemoryJournal()

		cases := []struct {
			name   string
			mutate func(*notification.Delivery)
		}{
			{"missing message id", func(d *notification.Delivery) { d.MessageID = "" }},
			{"missing channel", func(d *notification.Delivery) { d.Channel = "" }},
			{"missing outcome", func(d *notification.Delivery) { d.Outcome = "" }},
		}

		for _, tc := range cases {
			t.Run(tc.name, func(t *testing.T) {
				d := newTestDelivery("email", notification.OutcomeDelivered, time.Now())
				tc.mutate(&d)
				err := journal.Record(ctx, d)
				assert.ErrorIs(t, err, notification.ErrInvalidDelivery)
			})
		}

		count, err := journal.Count(ctx, "")
		require.NoError(t, err)
		assert.Zero(t, count, "rejected events must not be stored")
	})
}

func TestMemoryJournal_List(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	base := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	seed := func(t *testing.T) *notification.MemoryJournal {
		t.Helper()
		j := notification.NewMemoryJournal()

		oldest := newTestDelivery("email", notification.OutcomeDelivered, base)
		mid := newTestDelivery("sms", notification.OutcomeFailed, base.Add(time.Minute))
		mid.Reason = "gateway timeout"
		mid.Recipient.Email = "ana@example.com"
		newest := newTestDelivery("whatsapp", notification.OutcomeUnknownChannel, base.Add(2*time.Minute))
		newest.MessageID = "msg-2"

		for _, d := range []notification.Delivery{oldest, mid, newest} {
			require.NoError(t, j.Record(ctx, d))
		}
		return j
	}

	t.Run("returns newest first", func(t *testing.T) {
		t.Parallel()

		j := seed(t)
		got, err := j.List(ctx, notification.ListOptions{})
		require.NoError(t, err)
		require.Len(t, got, 3)
		assert.Equal(t, "whatsapp", got[0].Channel)
		assert.Equal(t, "sms", got[1].Channel)
		assert.Equal(t, "email", got[2].Channel)
	})

	t.Run("filters by channel", func(t *testing.T) {
		t.Parallel()

		j := seed(t)
		got, err := j.List(ctx, notification.ListOptions{Channel: "sms"})
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, notification.OutcomeFailed, got[0].Outcome)
	})

	t.Run("filters by outcome", func(t *testing.T) {
		t.Parallel()

		j := seed(t)
		got, err := j.List(ctx, notification.ListOptions{Outcome: notification.OutcomeUnknownChannel})
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, "whatsapp", got[0].Channel)
	})

	t.Run("filters by recipient email", func(t *testing.T) {
		t.Parallel()

		j := seed(t)
		got, err := j.List(ctx, notification.ListOptions{Recipient: "ana@example.com"})
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, "sms", got[0].Channel)
	})

	t.Run("filters by message id", func(t *testing.T) {
		t.Parallel()

		j := seed(t)
		got, err := j.List(ctx, notification.ListOptions{MessageID: "msg-2"})
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, "whatsapp", got[0].Channel)
	})

	t.Run("filters by since", func(t *testing.T) {
		t.Parallel()

		j := seed(t)
		got, err := j.List(ctx, notification.ListOptions{Since: base.Add(time.Minute)})
		require.NoError(t, err)
		assert.Len(t, got, 2)
	})

	t.Run("paginates", func(t *testing.T) {
		t.Parallel()

		j := seed(t)

		page, err := j.List(ctx, notification.ListOptions{Limit: 2})
		require.NoError(t, err)
		assert.Len(t, page, 2)

		rest, err := j.List(ctx, notification.ListOptions{Limit: 2, Offset: 2})
		require.NoError(t, err)
		require.Len(t, rest, 1)
		assert.Equal(t, "email", rest[0].Channel)

		empty, err := j.List(ctx, notification.ListOptions{Offset: 10})
		require.NoError(t, err)
		assert.Empty(t, empty)
	})
}

func TestMemoryJournal_Count(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	journal := notification.NewMemoryJournal()
	now := time.Now()

	for n := 0; n < 3; n++ {
		require.NoError(t, journal.Record(ctx, newTestDelivery("email", notification.OutcomeDelivered, now)))
	}
	require.NoError(t, journal.Record(ctx, newTestDelivery("sms", notification.OutcomeFailed, now)))

	total, err := journal.Count(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, 4, total)

	delivered, err := journal.Count(ctx, notification.OutcomeDelivered)
	require.NoError(t, err)
	assert.Equal(t, 3, delivered)

	unknown, err := journal.Count(ctx, notification.OutcomeUnknownChannel)
	require.NoError(t, err)
	assert.Zero(t, unknown)
}

func TestMemoryJournal_Purge(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	journal := notification.NewMemoryJournal()
	base := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	require.NoError(t, journal.Record(ctx, newTestDelivery("email", notification.OutcomeDelivered, base)))
	require.NoError(t, journal.Record(ctx, newTestDelivery("sms", notification.OutcomeDelivered, base.Add(time.Hour))))

	removed, err := journal.Purge(ctx, base.Add(30*time.Minute))
	require.NoError(t, err)
	assert.Equal(t, 1, removed)

	left, err := journal.List(ctx, notification.ListOptions{})
	require.NoError(t, err)
	require.Len(t, left, 1)
	assert.Equal(t, "sms", left[0].Channel)
}

func TestMemoryJournal_ConcurrentAccess(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	journal := notification.NewMemoryJournal()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			d := newTestDelivery("email", notification.OutcomeDelivered, time.Now())
			d.MessageID = fmt.Sprintf("msg-%d", n)
			assert.NoError(t, journal.Record(ctx, d))

			_, err := journal.List(ctx, notification.ListOptions{Limit: 5})
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	count, err := journal.Count(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, 20, count)
}
