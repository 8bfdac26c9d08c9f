package stream

import (
	"sync"

	"github.com/dmitrymomot/notifyhub/pkg/notification"
)

// Feed is one live subscription to a recipient's notification stream.
type Feed struct {
	recipient string
	events    chan notification.Message
	hub       *Hub

	closeOnce sync.Once
	mu        sync.RWMutex
	closed    bool
}

func newFeed(h *Hub, recipient string, buffer int) *Feed {
	return &Feed{
		recipient: recipient,
		events:    make(chan notification.Message, buffer),
		hub:       h,
	}
}

// Recipient returns the display name this feed is keyed by.
func (f *Feed) Recipient() string {
	return f.recipient
}

// Events returns the channel messages arrive on. It is closed when the
// subscription ends, so range loops terminate on their own.
func (f *Feed) Events() <-chan notification.Message {
	return f.events
}

// Close ends the subscription and closes the events channel.
// Idempotent and safe to call concurrently. Detaching happens outside
// the once guard: the hub may be closing this feed under its own lock
// at the same time, and a Do that waits for that lock would deadlock.
func (f *Feed) Close() error {
	f.hub.detach(f)
	f.closeOnce.Do(f.shut)
	return nil
}

// closeInternal shuts the feed without detaching, for eviction and hub
// shutdown paths where the hub already holds its lock.
func (f *Feed) closeInternal() {
	f.closeOnce.Do(f.shut)
}

func (f *Feed) shut() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	close(f.events)
}

// push delivers without blocking; a full buffer or a closed feed drops
// the message.
func (f *Feed) push(msg notification.Message) bool {
	f.mu.RLock()
	defer f.mu.RUnlock()

	if f.closed {
		return false
	}

	select {
	case f.events <- msg:
		return true
	default:
		return false
	}
}
