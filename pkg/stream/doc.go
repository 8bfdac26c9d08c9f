// Package stream delivers notifications to in-app feeds. Each
// recipient, keyed by display name, can hold any number of open feeds
// (one per device or browser tab); publishing fans the message out to
// all of them without ever blocking the publisher.
//
// Feeds are plain receive channels, so bridging to SSE, WebSocket, or
// a TUI is the caller's concern:
//
//	feeds := stream.NewHub()
//	defer feeds.Close()
//
//	feed, err := feeds.Subscribe(ctx, "Ana")
//	if err != nil {
//		return err
//	}
//	for msg := range feed.Events() {
//		render(msg)
//	}
//
// The feed closes, and the range loop ends, when ctx is canceled, when
// the feed or hub is closed, or when the recipient is evicted.
//
// # Backpressure and Eviction
//
// A feed that stops draining its buffer has messages dropped rather
// than stalling broadcasts. The hub also caps how many recipients hold
// live feeds at once: past the cap, the recipient idle longest is
// evicted and its feeds closed.
//
// # Channel Integration
//
//	registry.Register("push", stream.NewChannelSender(feeds))
package stream
