package stream

import "errors"

var (
	ErrClosed           = errors.New("stream: hub is closed")
	ErrMissingRecipient = errors.New("stream: recipient is required")
)
