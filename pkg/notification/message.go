package notification

import (
	"time"

	"github.com/google/uuid"
)

// Message is a broadcast payload. The hub stamps identity and creation
// time once per broadcast so every channel delivery of the same message
// shares the same ID.
type Message struct {
	ID        string    `json:"id"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
}

// NewMessage builds a message with a fresh UUID and the current time.
func NewMessage(text string) Message {
	return Message{
		ID:        uuid.New().String(),
		Text:      text,
		CreatedAt: time.Now(),
	}
}

// Recipient carries the destination fields a channel sender picks from.
// Email doubles as the default hub membership key, so it should be
// present and unique across subscribers.
type Recipient struct {
	Name  string `json:"name"`
	Email string `json:"email,omitempty"`
	Phone string `json:"phone,omitempty"`
}
