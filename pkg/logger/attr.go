package logger

import (
	"log/slog"
	"strconv"
)

// Errors groups multiple non-nil errors under the key "errors".
// If all errors are nil, it returns an empty Attr.
func Errors(errs ...error) slog.Attr {
	as := make([]slog.Attr, 0, len(errs))
	for i, err := range errs {
		if err != nil {
			as = append(as, slog.Any(strconv.Itoa(i), err))
		}
	}
	if len(as) == 0 {
		return slog.Attr{}
	}
	return slog.Attr{Key: "errors", Value: slog.GroupValue(as...)}
}

// Error creates an attribute for a single error under the key "error".
// If err is nil, it returns an empty Attr.
func Error(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}
	return slog.Any("error", err)
}

// Channel records a channel tag under the key "channel". Accepts any
// value so both raw strings and typed tags log the same way.
func Channel(tag any) slog.Attr {
	if tag == nil {
		return slog.Attr{}
	}
	return slog.Any("channel", tag)
}

// Destination records the per-channel address under the key "destination".
func Destination(addr string) slog.Attr {
	return slog.String("destination", addr)
}

// Recipient records the recipient's display name under the key "recipient".
func Recipient(name string) slog.Attr {
	return slog.String("recipient", name)
}

// MessageID records the message identifier under the key "message_id".
// If id is nil, it returns an empty Attr.
func MessageID(id any) slog.Attr {
	if id == nil {
		return slog.Attr{}
	}
	return slog.Any("message_id", id)
}

// Outcome records a delivery outcome under the key "outcome".
func Outcome(o any) slog.Attr {
	if o == nil {
		return slog.Attr{}
	}
	return slog.Any("outcome", o)
}

// Subscribers records a subscriber count under the key "subscribers".
func Subscribers(n int) slog.Attr {
	return slog.Int("subscribers", n)
}

// Component records the component name under the key "component".
func Component(name string) slog.Attr {
	return slog.String("component", name)
}
