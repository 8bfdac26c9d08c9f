package hub

import (
	"context"
	"log/slog"
	"sync"

	"github.com/dmitrymomot/notifyhub/pkg/channel"
	"github.com/dmitrymomot/notifyhub/pkg/logger"
	"github.com/dmitrymomot/notifyhub/pkg/notification"
)

// Resolver maps a raw channel tag to a sender. *channel.Registry
// implements it; tests substitute their own.
type Resolver interface {
	Resolve(rawTag string) (channel.Sender, error)
}

// Subscriber is a hub member: an immutable recipient identity plus the
// ordered channel tags it wants messages on. The channel resolver is
// injected at construction, so a subscriber can receive messages with
// or without a hub in front of it.
type Subscriber struct {
	recipient notification.Recipient
	channels  []string
	resolver  Resolver
	log       *slog.Logger
	recorder  notification.Recorder

	mu       sync.RWMutex
	lastSeen *notification.Message
}

// SubscriberOption configures a Subscriber.
type SubscriberOption func(*Subscriber)

// WithSubscriberLogger sets the logger used for fan-out warnings.
func WithSubscriberLogger(log *slog.Logger) SubscriberOption {
	return func(s *Subscriber) {
		if log != nil {
			s.log = log
		}
	}
}

// WithSubscriberRecorder sets the recorder unknown-channel events are
// reported to. Send outcomes are recorded by the channel registry, but
// only the subscriber knows when resolution itself failed.
func WithSubscriberRecorder(rec notification.Recorder) SubscriberOption {
	return func(s *Subscriber) {
		if rec != nil {
			s.recorder = rec
		}
	}
}

// NewSubscriber creates a subscriber for the given recipient. The
// preferred channels keep their order and raw spelling; normalization
// happens at resolution time.
func NewSubscriber(recipient notification.Recipient, channels []string, resolver Resolver, opts ...SubscriberOption) (*Subscriber, error) {
	if recipient.Name == "" {
		return nil, ErrMissingName
	}
	if recipient.Email == "" {
		return nil, ErrMissingEmail
	}
	if resolver == nil {
		return nil, ErrNilResolver
	}

	s := &Subscriber{
		recipient: recipient,
		channels:  append([]string(nil), channels...),
		resolver:  resolver,
		log:       slog.Default(),
		recorder:  notification.NoopRecorder{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Recipient returns the subscriber's identity.
func (s *Subscriber) Recipient() notification.Recipient {
	return s.recipient
}

// Channels returns a copy of the preferred channel tags in order.
func (s *Subscriber) Channels() []string {
	return append([]string(nil), s.channels...)
}

// LastSeen returns the most recent message this subscriber received and
// whether any message has been received yet.
func (s *Subscriber) LastSeen() (notification.Message, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.lastSeen == nil {
		return notification.Message{}, false
	}
	return *s.lastSeen, true
}

// Receive records the message as last seen and fans it out to every
// preferred channel in order. An unknown tag or a failing provider is
// logged, reported to the recorder, and skipped: one bad preference
// must not cost the recipient the remaining channels. Errors never
// propagate to the caller.
func (s *Subscriber) Receive(ctx context.Context, msg notification.Message) {
	s.mu.Lock()
	s.lastSeen = &msg
	s.mu.Unlock()

	for _, tag := range s.channels {
		sender, err := s.resolver.Resolve(tag)
		if err != nil {
			s.log.LogAttrs(ctx, slog.LevelWarn, "skipping unknown channel",
				logger.Channel(tag),
				logger.Recipient(s.recipient.Name),
				logger.MessageID(msg.ID),
				logger.Error(err),
			)
			s.recordSkip(ctx, msg, tag, err)
			continue
		}

		if err := sender.Send(ctx, msg, s.recipient); err != nil {
			s.log.LogAttrs(ctx, slog.LevelWarn, "channel delivery failed",
				logger.Channel(tag),
				logger.Recipient(s.recipient.Name),
				logger.MessageID(msg.ID),
				logger.Error(err),
			)
		}
	}
}

// recordSkip journals a resolution failure. The raw tag goes into the
// event untouched so operators can see what the subscriber actually
// asked for.
func (s *Subscriber) recordSkip(ctx context.Context, msg notification.Message, tag string, cause error) {
	d := notification.Delivery{
		MessageID: msg.ID,
		Channel:   tag,
		Recipient: s.recipient,
		Text:      msg.Text,
		Outcome:   notification.OutcomeUnknownChannel,
		Reason:    cause.Error(),
	}
	if err := s.recorder.Record(ctx, d); err != nil {
		s.log.LogAttrs(ctx, slog.LevelWarn, "failed to record delivery event",
			logger.Channel(tag),
			logger.MessageID(msg.ID),
			logger.Error(err),
		)
	}
}

// Subscribe adds the subscriber to the given hub. Shorthand for h.Add.
func (s *Subscriber) Subscribe(h *Hub) bool {
	return h.Add(s)
}

// Unsubscribe removes the subscriber from the given hub. Shorthand for
// h.Remove.
func (s *Subscriber) Unsubscribe(h *Hub) bool {
	return h.Remove(s)
}
