package mailer

import (
	"context"
	"strings"

	"github.com/dmitrymomot/notifyhub/pkg/channel"
	"github.com/dmitrymomot/notifyhub/pkg/notification"
)

// Subject lines stay within the classic header length.
const maxSubjectLen = 78

const defaultPostmarkTag = "notification"

// ChannelSender adapts an EmailSender to the channel.Sender capability,
// turning a broadcast message into a plain-text notification email.
type ChannelSender struct {
	sender EmailSender
	tag    string
}

var _ channel.Sender = (*ChannelSender)(nil)

// ChannelSenderOption configures a ChannelSender.
type ChannelSenderOption func(*ChannelSender)

// WithPostmarkTag sets the analytics tag stamped on outgoing emails.
func WithPostmarkTag(tag string) ChannelSenderOption {
	return func(s *ChannelSender) {
		if tag != "" {
			s.tag = tag
		}
	}
}

// NewChannelSender wraps an email sender for registration under the
// email channel tag.
func NewChannelSender(sender EmailSender, opts ...ChannelSenderOption) *ChannelSender {
	s := &ChannelSender{
		sender: sender,
		tag:    defaultPostmarkTag,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Send emails the message text to the recipient's address. The subject
// comes from the first line of the text.
func (s *ChannelSender) Send(ctx context.Context, msg notification.Message, to notification.Recipient) error {
	return s.sender.SendEmail(ctx, SendEmailParams{
		SendTo:   to.Email,
		Subject:  subjectFromText(msg.Text),
		BodyText: msg.Text,
		Tag:      s.tag,
	})
}

// subjectFromText turns message text into a one-line subject, cutting
// at a word boundary when the line runs too long.
func subjectFromText(text string) string {
	line := strings.TrimSpace(text)
	if i := strings.IndexAny(line, "\r\n"); i >= 0 {
		line = strings.TrimSpace(line[:i])
	}
	if line == "" {
		return "New notification"
	}

	runes := []rune(line)
	if len(runes) <= maxSubjectLen {
		return line
	}

	cut := string(runes[:maxSubjectLen])
	if i := strings.LastIndex(cut, " "); i > maxSubjectLen/2 {
		cut = cut[:i]
	}
	return cut + "..."
}
