package notification

import (
	"context"
	"time"
)

// Outcome classifies a delivery event.
type Outcome string

const (
	// OutcomeDelivered means the channel sender accepted the message.
	OutcomeDelivered Outcome = "delivered"
	// OutcomeFailed means the channel sender returned an error.
	OutcomeFailed Outcome = "failed"
	// OutcomeUnknownChannel means the preferred tag did not resolve to a
	// registered sender, so no send was attempted.
	OutcomeUnknownChannel Outcome = "unknown_channel"
)

// Delivery is one observable outcome of routing a message to a single
// channel for a single recipient. Reason holds the error detail for
// failed and unknown_channel outcomes and stays empty on success.
type Delivery struct {
	ID          string    `json:"id"`
	MessageID   string    `json:"message_id"`
	Channel     string    `json:"channel"`
	Destination string    `json:"destination,omitempty"`
	Recipient   Recipient `json:"recipient"`
	Text        string    `json:"text"`
	Outcome     Outcome   `json:"outcome"`
	Reason      string    `json:"reason,omitempty"`
	At          time.Time `json:"at"`
}

// Recorder is the write-side capability of the delivery journal. Channel
// registries and subscribers report events through it without knowing
// where the events end up.
type Recorder interface {
	Record(ctx context.Context, d Delivery) error
}

// NoopRecorder discards every event. It is the default wherever a
// Recorder is optional.
type NoopRecorder struct{}

// Record implements Recorder.
func (NoopRecorder) Record(context.Context, Delivery) error { return nil }
