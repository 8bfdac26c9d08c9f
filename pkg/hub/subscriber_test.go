package hub_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/notifyhub/pkg/channel"
	"github.com/dmitrymomot/notifyhub/pkg/hub"
	"github.com/dmitrymomot/notifyhub/pkg/logger"
	"github.com/dmitrymomot/notifyhub/pkg/notification"
)

var (
	ana = notification.Recipient{
		Name:  "Ana",
		Email: "ana@example.com",
		Phone: "+34600333444",
	}
	luis = notification.Recipient{
		Name:  "Luis",
		Email: "luis@example.com",
		Phone: "+34600111222",
	}
)

func quietLogger() *slog.Logger {
	return logger.New(logger.WithOutput(io.Discard))
}

// captureRegistry returns a registry whose senders append "tag" entries
// to a shared log, preserving send order.
func captureRegistry(t *testing.T) (*channel.Registry, *[]string) {
	t.Helper()

	var (
		mu   sync.Mutex
		sent []string
	)
	reg := channel.NewRegistry(channel.WithRegistryLogger(quietLogger()))
	for _, tag := range channel.All() {
		tag := tag
		require.NoError(t, reg.Register(tag, channel.SenderFunc(
			func(_ context.Context, _ notification.Message, to notification.Recipient) error {
				mu.Lock()
				defer mu.Unlock()
				sent = append(sent, to.Name+":"+tag.String())
				return nil
			},
		)))
	}
	return reg, &sent
}

func TestNewSubscriber(t *testing.T) {
	t.Parallel()

	reg := channel.NewRegistry(channel.WithRegistryLogger(quietLogger()))

	t.Run("valid subscriber", func(t *testing.T) {
		t.Parallel()

		sub, err := hub.NewSubscriber(ana, []string{"email", "push"}, reg)
		require.NoError(t, err)
		assert.Equal(t, ana, sub.Recipient())
		assert.Equal(t, []string{"email", "push"}, sub.Channels())

		_, seen := sub.LastSeen()
		assert.False(t, seen, "fresh subscriber has no last seen message")
	})

	t.Run("missing name", func(t *testing.T) {
		t.Parallel()

		_, err := hub.NewSubscriber(notification.Recipient{Email: "x@y.z"}, nil, reg)
		assert.ErrorIs(t, err, hub.ErrMissingName)
	})

	t.Run("missing email", func(t *testing.T) {
		t.Parallel()

		_, err := hub.NewSubscriber(notification.Recipient{Name: "X"}, nil, reg)
		assert.ErrorIs(t, err, hub.ErrMissingEmail)
	})

	t.Run("nil resolver", func(t *testing.T) {
		t.Parallel()

		_, err := hub.NewSubscriber(ana, []string{"email"}, nil)
		assert.ErrorIs(t, err, hub.ErrNilResolver)
	})

	t.Run("channels are copied", func(t *testing.T) {
		t.Parallel()

		prefs := []string{"email", "sms"}
		sub, err := hub.NewSubscriber(ana, prefs, reg)
		require.NoError(t, err)

		prefs[0] = "push"
		assert.Equal(t, []string{"email", "sms"}, sub.Channels())

		got := sub.Channels()
		got[0] = "push"
		assert.Equal(t, []string{"email", "sms"}, sub.Channels())
	})
}

func TestSubscriber_Receive(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("fans out to preferred channels in order", func(t *testing.T) {
		t.Parallel()

		reg, sent := captureRegistry(t)
		sub, err := hub.NewSubscriber(luis, []string{"sms", "email"}, reg)
		require.NoError(t, err)

		sub.Receive(ctx, notification.NewMessage("service degraded"))

		assert.Equal(t, []string{"Luis:sms", "Luis:email"}, *sent)
	})

	t.Run("records the message as last seen", func(t *testing.T) {
		t.Parallel()

		reg, _ := captureRegistry(t)
		sub, err := hub.NewSubscriber(luis, nil, reg)
		require.NoError(t, err)

		first := notification.NewMessage("first")
		sub.Receive(ctx, first)

		seen, ok := sub.LastSeen()
		require.True(t, ok)
		assert.Equal(t, first.ID, seen.ID)

		second := notification.NewMessage("second")
		sub.Receive(ctx, second)

		seen, ok = sub.LastSeen()
		require.True(t, ok)
		assert.Equal(t, second.ID, seen.ID)
		assert.Equal(t, "second", seen.Text)
	})

	t.Run("unknown channel is skipped, remaining channels still deliver", func(t *testing.T) {
		t.Parallel()

		journal := notification.NewMemoryJournal()
		reg := channel.NewRegistry(
			channel.WithRegistryLogger(quietLogger()),
			channel.WithRegistryRecorder(journal),
		)

		sub, err := hub.NewSubscriber(luis, []string{"whatsapp", "email"}, reg,
			hub.WithSubscriberLogger(quietLogger()),
			hub.WithSubscriberRecorder(journal),
		)
		require.NoError(t, err)

		msg := notification.NewMessage("subscription renewed")
		sub.Receive(ctx, msg)

		skipped, err := journal.List(ctx, notification.ListOptions{Outcome: notification.OutcomeUnknownChannel})
		require.NoError(t, err)
		require.Len(t, skipped, 1)
		assert.Equal(t, "whatsapp", skipped[0].Channel, "event should carry the raw tag")
		assert.Equal(t, msg.ID, skipped[0].MessageID)
		assert.NotEmpty(t, skipped[0].Reason)

		delivered, err := journal.List(ctx, notification.ListOptions{Outcome: notification.OutcomeDelivered})
		require.NoError(t, err)
		require.Len(t, delivered, 1)
		assert.Equal(t, "email", delivered[0].Channel)
		assert.Equal(t, "luis@example.com", delivered[0].Destination)
	})

	t.Run("provider failure does not block later channels", func(t *testing.T) {
		t.Parallel()

		var (
			mu   sync.Mutex
			sent []string
		)
		reg := channel.NewRegistry(channel.WithRegistryLogger(quietLogger()))
		require.NoError(t, reg.Register(channel.TagEmail, channel.SenderFunc(
			func(context.Context, notification.Message, notification.Recipient) error {
				return errors.New("smtp unavailable")
			},
		)))
		require.NoError(t, reg.Register(channel.TagSMS, channel.SenderFunc(
			func(_ context.Context, msg notification.Message, _ notification.Recipient) error {
				mu.Lock()
				defer mu.Unlock()
				sent = append(sent, msg.Text)
				return nil
			},
		)))

		sub, err := hub.NewSubscriber(luis, []string{"email", "sms"}, reg,
			hub.WithSubscriberLogger(quietLogger()),
		)
		require.NoError(t, err)

		sub.Receive(ctx, notification.NewMessage("still delivered"))

		assert.Equal(t, []string{"still delivered"}, sent)
	})

	t.Run("duplicate preferences deliver twice", func(t *testing.T) {
		t.Parallel()

		reg, sent := captureRegistry(t)
		sub, err := hub.NewSubscriber(luis, []string{"push", "push"}, reg)
		require.NoError(t, err)

		sub.Receive(ctx, notification.NewMessage("ping"))

		assert.Equal(t, []string{"Luis:push", "Luis:push"}, *sent)
	})
}

func TestSubscriber_SubscribeUnsubscribe(t *testing.T) {
	t.Parallel()

	reg, _ := captureRegistry(t)
	h := hub.New(hub.WithHubLogger(quietLogger()))

	sub, err := hub.NewSubscriber(ana, []string{"email"}, reg)
	require.NoError(t, err)

	assert.True(t, sub.Subscribe(h))
	assert.Equal(t, 1, h.Len())

	assert.False(t, sub.Subscribe(h), "second subscribe is a no-op")
	assert.Equal(t, 1, h.Len())

	assert.True(t, sub.Unsubscribe(h))
	assert.Zero(t, h.Len())

	assert.False(t, sub.Unsubscribe(h), "second unsubscribe is safe")
}
