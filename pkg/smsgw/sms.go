package smsgw

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"
)

// SMSSender sends a single text message through a gateway.
type SMSSender interface {
	SendSMS(ctx context.Context, params SendSMSParams) error
}

// Gateways concatenate longer texts into multipart messages; most cap
// the total somewhere near ten segments.
const maxTextLen = 1600

// Destination numbers must be fully qualified E.164 so routing never
// depends on a gateway-side default country.
var phoneRegex = regexp.MustCompile(`^\+[1-9]\d{1,14}$`)

// SendSMSParams carries one outbound message.
type SendSMSParams struct {
	// To is the destination number in E.164 format.
	To string `json:"to"`
	// Text is the message body.
	Text string `json:"text"`
	// From overrides the configured sender ID when set.
	From string `json:"from,omitempty"`
}

// Validate checks the parameters before any gateway call is made.
func (p SendSMSParams) Validate() error {
	if strings.TrimSpace(p.To) == "" {
		return fmt.Errorf("%w: To is required", ErrInvalidParams)
	}
	if !phoneRegex.MatchString(p.To) {
		return fmt.Errorf("%w: To must be an E.164 phone number", ErrInvalidParams)
	}
	if strings.TrimSpace(p.Text) == "" {
		return fmt.Errorf("%w: Text is required", ErrInvalidParams)
	}
	if utf8.RuneCountInString(p.Text) > maxTextLen {
		return fmt.Errorf("%w: Text exceeds %d characters", ErrInvalidParams, maxTextLen)
	}
	return nil
}
