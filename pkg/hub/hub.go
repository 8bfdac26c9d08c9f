package hub

import (
	"context"
	"log/slog"
	"strings"
	"sync"

	"github.com/dmitrymomot/notifyhub/pkg/logger"
	"github.com/dmitrymomot/notifyhub/pkg/notification"
)

// KeyFunc derives the membership identity of a subscriber. Two
// subscribers with the same key are the same member.
type KeyFunc func(*Subscriber) string

// DefaultKey keys membership by lowercased email.
func DefaultKey(s *Subscriber) string {
	return strings.ToLower(s.Recipient().Email)
}

// Hub holds a deduplicated, insertion-ordered set of subscribers and
// broadcasts messages to all of them synchronously.
type Hub struct {
	mu      sync.RWMutex
	subs    []*Subscriber
	members map[string]struct{}
	key     KeyFunc
	log     *slog.Logger
}

// Option configures a Hub.
type Option func(*Hub)

// WithHubLogger sets the logger for membership and broadcast events.
func WithHubLogger(log *slog.Logger) Option {
	return func(h *Hub) {
		if log != nil {
			h.log = log
		}
	}
}

// WithKeyFunc replaces the membership identity function.
func WithKeyFunc(key KeyFunc) Option {
	return func(h *Hub) {
		if key != nil {
			h.key = key
		}
	}
}

// New creates an empty hub.
func New(opts ...Option) *Hub {
	h := &Hub{
		members: make(map[string]struct{}),
		key:     DefaultKey,
		log:     slog.Default(),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Add registers a subscriber and reports whether it joined. Adding a
// member that is already present is a no-op, so callers can retry
// subscription paths without double delivery.
func (h *Hub) Add(s *Subscriber) bool {
	if s == nil {
		return false
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	key := h.key(s)
	if _, exists := h.members[key]; exists {
		h.log.LogAttrs(context.Background(), slog.LevelDebug, "subscriber already present",
			logger.Recipient(s.recipient.Name),
		)
		return false
	}

	h.members[key] = struct{}{}
	h.subs = append(h.subs, s)
	h.log.LogAttrs(context.Background(), slog.LevelInfo, "subscriber added",
		logger.Recipient(s.recipient.Name),
		logger.Subscribers(len(h.subs)),
	)
	return true
}

// Remove unregisters a subscriber and reports whether it was present.
// Removing an absent subscriber is safe.
func (h *Hub) Remove(s *Subscriber) bool {
	if s == nil {
		return false
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	key := h.key(s)
	if _, exists := h.members[key]; !exists {
		h.log.LogAttrs(context.Background(), slog.LevelDebug, "subscriber not present",
			logger.Recipient(s.recipient.Name),
		)
		return false
	}

	delete(h.members, key)
	for i, member := range h.subs {
		if h.key(member) == key {
			h.subs = append(h.subs[:i], h.subs[i+1:]...)
			break
		}
	}
	h.log.LogAttrs(context.Background(), slog.LevelInfo, "subscriber removed",
		logger.Recipient(s.recipient.Name),
		logger.Subscribers(len(h.subs)),
	)
	return true
}

// Len returns the current number of subscribers.
func (h *Hub) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs)
}

// Subscribers returns a snapshot of the members in join order.
func (h *Hub) Subscribers() []*Subscriber {
	h.mu.RLock()
	defer h.mu.RUnlock()

	subs := make([]*Subscriber, len(h.subs))
	copy(subs, h.subs)
	return subs
}

// Broadcast composes a message from the text and delivers it to every
// subscriber in join order, one at a time. The fan-out is synchronous:
// when Broadcast returns, every subscriber has been offered the
// message. The composed message is returned so callers can correlate
// journal events and subscriber state with this broadcast.
//
// Membership changes made while a broadcast is running affect only
// later broadcasts; the current one works on a snapshot.
func (h *Hub) Broadcast(ctx context.Context, text string) notification.Message {
	msg := notification.NewMessage(text)

	h.mu.RLock()
	subs := make([]*Subscriber, len(h.subs))
	copy(subs, h.subs)
	h.mu.RUnlock()

	if len(subs) == 0 {
		h.log.LogAttrs(ctx, slog.LevelInfo, "no subscribers to notify",
			logger.MessageID(msg.ID),
		)
		return msg
	}

	h.log.LogAttrs(ctx, slog.LevelInfo, "broadcasting message",
		logger.MessageID(msg.ID),
		logger.Subscribers(len(subs)),
	)

	for _, sub := range subs {
		sub.Receive(ctx, msg)
	}

	return msg
}
