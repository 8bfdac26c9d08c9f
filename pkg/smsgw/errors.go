package smsgw

import "errors"

// Error classification mirrors HTTP semantics: permanent failures are
// client-side problems retries cannot fix, temporary failures cover
// network errors, 5xx responses, and rate limiting.
var (
	ErrDeliveryFailed   = errors.New("sms gateway delivery failed")
	ErrInvalidConfig    = errors.New("invalid sms gateway configuration")
	ErrInvalidParams    = errors.New("invalid sms parameters")
	ErrPermanentFailure = errors.New("permanent sms gateway failure")
	ErrTemporaryFailure = errors.New("temporary sms gateway failure")
	ErrTimeout          = errors.New("sms gateway request timeout")
)
