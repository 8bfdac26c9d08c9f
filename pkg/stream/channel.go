package stream

import (
	"context"

	"github.com/dmitrymomot/notifyhub/pkg/channel"
	"github.com/dmitrymomot/notifyhub/pkg/notification"
)

// ChannelSender adapts a feed hub to the channel.Sender capability,
// publishing broadcast messages into the recipient's in-app feed.
type ChannelSender struct {
	hub *Hub
}

var _ channel.Sender = (*ChannelSender)(nil)

// NewChannelSender wraps a feed hub for registration under the push
// channel tag.
func NewChannelSender(h *Hub) *ChannelSender {
	return &ChannelSender{hub: h}
}

// Send publishes the message into the feeds keyed by the recipient's
// display name. Hand-off succeeds whether or not the recipient holds
// an open feed at that moment.
func (s *ChannelSender) Send(ctx context.Context, msg notification.Message, to notification.Recipient) error {
	_, err := s.hub.Publish(ctx, to.Name, msg)
	return err
}
