package stream

import (
	"context"
	"log/slog"
	"strings"
	"sync"

	"github.com/dmitrymomot/notifyhub/pkg/logger"
	"github.com/dmitrymomot/notifyhub/pkg/notification"
)

const (
	defaultBuffer   = 32
	defaultCapacity = 1024
)

// feedSet groups the open feeds of one recipient.
type feedSet struct {
	recipient string
	feeds     map[*Feed]struct{}
}

// Hub routes published messages to the open feeds of each recipient.
// All methods are safe for concurrent use.
type Hub struct {
	mu       sync.Mutex
	index    *lruIndex
	buffer   int
	capacity int
	log      *slog.Logger
	closed   bool
	done     chan struct{}
	wg       sync.WaitGroup
}

// Option configures a Hub.
type Option func(*Hub)

// WithBuffer sets the per-feed buffer size. A minimum of 1 is enforced
// so publishing stays non-blocking.
func WithBuffer(n int) Option {
	return func(h *Hub) {
		h.buffer = max(n, 1)
	}
}

// WithCapacity caps how many recipients hold live feeds at once. Past
// the cap, the longest-idle recipient's feeds are closed.
func WithCapacity(n int) Option {
	return func(h *Hub) {
		if n > 0 {
			h.capacity = n
		}
	}
}

// WithLogger sets the logger for drop and eviction events.
// Defaults to slog.Default().
func WithLogger(log *slog.Logger) Option {
	return func(h *Hub) {
		if log != nil {
			h.log = log
		}
	}
}

// NewHub creates a feed hub ready for subscriptions.
func NewHub(opts ...Option) *Hub {
	h := &Hub{
		buffer:   defaultBuffer,
		capacity: defaultCapacity,
		log:      slog.Default(),
		done:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(h)
	}
	h.index = newLRUIndex(h.capacity)
	return h
}

// Subscribe opens a feed for the recipient. The feed closes when ctx
// is canceled, when Close is called on it, when the recipient is
// evicted, or when the hub shuts down.
func (h *Hub) Subscribe(ctx context.Context, recipient string) (*Feed, error) {
	if strings.TrimSpace(recipient) == "" {
		return nil, ErrMissingRecipient
	}

	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return nil, ErrClosed
	}

	f := newFeed(h, recipient, h.buffer)

	set, ok := h.index.get(recipient)
	if !ok {
		set = &feedSet{recipient: recipient, feeds: make(map[*Feed]struct{})}
		if evicted := h.index.put(recipient, set); evicted != nil {
			h.evict(ctx, evicted)
		}
	}
	set.feeds[f] = struct{}{}
	h.mu.Unlock()

	if ctx.Done() != nil {
		h.wg.Add(1)
		go func() {
			defer h.wg.Done()
			select {
			case <-ctx.Done():
				_ = f.Close()
			case <-h.done:
			}
		}()
	}

	return f, nil
}

// Publish delivers the message to every open feed of the recipient and
// reports how many accepted it. Feeds with full buffers drop the
// message rather than stall the caller. A recipient with no open feed
// receives nothing; that is not an error.
func (h *Hub) Publish(ctx context.Context, recipient string, msg notification.Message) (int, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return 0, ErrClosed
	}

	set, ok := h.index.get(recipient)
	if !ok {
		return 0, nil
	}

	delivered := 0
	for f := range set.feeds {
		if f.push(msg) {
			delivered++
			continue
		}
		h.log.LogAttrs(ctx, slog.LevelDebug, "dropping message for slow feed",
			logger.Recipient(recipient),
			logger.MessageID(msg.ID),
		)
	}
	return delivered, nil
}

// FeedCount returns the number of open feeds for the recipient.
func (h *Hub) FeedCount(recipient string) int {
	h.mu.Lock()
	defer h.mu.Unlock()

	set, ok := h.index.peek(recipient)
	if !ok {
		return 0
	}
	return len(set.feeds)
}

// Recipients returns recipients with open feeds, most recently active
// first.
func (h *Hub) Recipients() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.index.keys()
}

// Close shuts the hub down and closes every open feed. Idempotent.
func (h *Hub) Close() error {
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return nil
	}
	h.closed = true
	close(h.done)

	for _, set := range h.index.all() {
		for f := range set.feeds {
			f.closeInternal()
		}
	}
	h.index = newLRUIndex(h.capacity)
	h.mu.Unlock()

	h.wg.Wait()
	return nil
}

// detach removes a feed from the hub's bookkeeping when it closes.
func (h *Hub) detach(f *Feed) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return
	}
	set, ok := h.index.peek(f.recipient)
	if !ok {
		return
	}
	delete(set.feeds, f)
	if len(set.feeds) == 0 {
		h.index.remove(f.recipient)
	}
}

// evict closes the feeds of a recipient pushed out by the capacity
// cap. Must be called with the hub lock held.
func (h *Hub) evict(ctx context.Context, set *feedSet) {
	for f := range set.feeds {
		f.closeInternal()
	}
	h.log.LogAttrs(ctx, slog.LevelInfo, "evicted idle recipient feeds",
		logger.Recipient(set.recipient),
		slog.Int("feeds", len(set.feeds)),
	)
}
