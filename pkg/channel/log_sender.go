package channel

import (
	"context"
	"log/slog"

	"github.com/dmitrymomot/notifyhub/pkg/logger"
	"github.com/dmitrymomot/notifyhub/pkg/notification"
)

// LogSender implements Sender by emitting a structured log line per
// delivery instead of calling a provider. It backs fresh registries and
// local development, where seeing the send is the point.
type LogSender struct {
	tag Tag
	log *slog.Logger
}

// LogSenderOption configures a LogSender.
type LogSenderOption func(*LogSender)

// WithLogSenderLogger sets the logger deliveries are written to.
func WithLogSenderLogger(log *slog.Logger) LogSenderOption {
	return func(s *LogSender) {
		if log != nil {
			s.log = log
		}
	}
}

// NewLogSender creates a logging sender for the given tag.
func NewLogSender(tag Tag, opts ...LogSenderOption) *LogSender {
	s := &LogSender{
		tag: tag,
		log: slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Send logs the delivery and always reports success.
func (s *LogSender) Send(ctx context.Context, msg notification.Message, to notification.Recipient) error {
	s.log.LogAttrs(ctx, slog.LevelInfo, "notification delivered",
		logger.Channel(s.tag),
		logger.Destination(s.tag.Destination(to)),
		logger.Recipient(to.Name),
		logger.MessageID(msg.ID),
		slog.String("text", msg.Text),
	)
	return nil
}
