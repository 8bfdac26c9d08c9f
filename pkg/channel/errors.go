package channel

import (
	"errors"
	"fmt"
)

// ErrNilSender is returned when registering a nil sender.
var ErrNilSender = errors.New("channel: nil sender")

// ErrUnknownChannel is returned when a preferred tag does not match any
// known channel. Tag holds the raw input so callers can surface it in
// warnings.
type ErrUnknownChannel struct {
	Tag string
}

func (e ErrUnknownChannel) Error() string {
	return fmt.Sprintf("channel: unknown channel %q", e.Tag)
}
