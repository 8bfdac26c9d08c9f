package hub

import "errors"

var (
	// ErrNilResolver is returned when a subscriber is built without a
	// channel resolver.
	ErrNilResolver = errors.New("hub: nil channel resolver")

	// ErrMissingName is returned when a subscriber has no display name.
	ErrMissingName = errors.New("hub: recipient name is required")

	// ErrMissingEmail is returned when a subscriber has no email. Email
	// backs the default membership key, so it cannot be empty.
	ErrMissingEmail = errors.New("hub: recipient email is required")
)
