package smsgw

import (
	"context"
	"unicode/utf8"

	"github.com/dmitrymomot/notifyhub/pkg/channel"
	"github.com/dmitrymomot/notifyhub/pkg/notification"
)

// ChannelSender adapts an SMSSender to the channel.Sender capability,
// delivering broadcast messages to the recipient's phone number.
type ChannelSender struct {
	sender SMSSender
}

var _ channel.Sender = (*ChannelSender)(nil)

// NewChannelSender wraps an SMS sender for registration under the sms
// channel tag.
func NewChannelSender(sender SMSSender) *ChannelSender {
	return &ChannelSender{sender: sender}
}

// Send texts the message to the recipient's phone number. Texts beyond
// the gateway cap are clipped rather than rejected, so an oversized
// broadcast still reaches the subscriber.
func (s *ChannelSender) Send(ctx context.Context, msg notification.Message, to notification.Recipient) error {
	text := msg.Text
	if utf8.RuneCountInString(text) > maxTextLen {
		runes := []rune(text)
		text = string(runes[:maxTextLen-3]) + "..."
	}
	return s.sender.SendSMS(ctx, SendSMSParams{
		To:   to.Phone,
		Text: text,
	})
}
