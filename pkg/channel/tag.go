package channel

import (
	"strings"

	"github.com/dmitrymomot/notifyhub/pkg/notification"
)

// Tag identifies a notification channel.
type Tag string

const (
	TagEmail Tag = "email"
	TagSMS   Tag = "sms"
	TagPush  Tag = "push"
)

// All returns the known tags in canonical order.
func All() []Tag {
	return []Tag{TagEmail, TagSMS, TagPush}
}

// ParseTag normalizes a raw tag (whitespace trimmed, case folded) and
// validates it against the known set. Unknown tags yield
// ErrUnknownChannel carrying the raw input.
func ParseTag(raw string) (Tag, error) {
	switch Tag(strings.ToLower(strings.TrimSpace(raw))) {
	case TagEmail:
		return TagEmail, nil
	case TagSMS:
		return TagSMS, nil
	case TagPush:
		return TagPush, nil
	}
	return "", ErrUnknownChannel{Tag: raw}
}

func (t Tag) String() string { return string(t) }

// Destination picks the recipient field the channel delivers to.
func (t Tag) Destination(r notification.Recipient) string {
	switch t {
	case TagEmail:
		return r.Email
	case TagSMS:
		return r.Phone
	case TagPush:
		return r.Name
	}
	return ""
}
