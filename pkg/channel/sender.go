package channel

import (
	"context"
	"log/slog"

	"github.com/dmitrymomot/notifyhub/pkg/logger"
	"github.com/dmitrymomot/notifyhub/pkg/notification"
)

// Sender delivers one message to one recipient over a single channel.
// Implementations pick their destination from the recipient themselves;
// Tag.Destination gives the canonical mapping.
type Sender interface {
	Send(ctx context.Context, msg notification.Message, to notification.Recipient) error
}

// SenderFunc adapts a function to the Sender interface.
type SenderFunc func(ctx context.Context, msg notification.Message, to notification.Recipient) error

func (f SenderFunc) Send(ctx context.Context, msg notification.Message, to notification.Recipient) error {
	return f(ctx, msg, to)
}

// recordedSender decorates a sender with delivery journaling. Every send
// produces exactly one event: delivered on success, failed otherwise.
type recordedSender struct {
	tag      Tag
	next     Sender
	recorder notification.Recorder
	log      *slog.Logger
}

func (s recordedSender) Send(ctx context.Context, msg notification.Message, to notification.Recipient) error {
	err := s.next.Send(ctx, msg, to)

	d := notification.Delivery{
		MessageID:   msg.ID,
		Channel:     s.tag.String(),
		Destination: s.tag.Destination(to),
		Recipient:   to,
		Text:        msg.Text,
		Outcome:     notification.OutcomeDelivered,
	}
	if err != nil {
		d.Outcome = notification.OutcomeFailed
		d.Reason = err.Error()
	}

	// Journal failures must not mask the delivery result.
	if recErr := s.recorder.Record(ctx, d); recErr != nil {
		s.log.LogAttrs(ctx, slog.LevelWarn, "failed to record delivery event",
			logger.Channel(s.tag),
			logger.MessageID(msg.ID),
			logger.Outcome(d.Outcome),
			logger.Errors(err, recErr),
		)
	}

	return err
}
