package smsgw

import "time"

// Config holds SMS gateway settings loaded from the environment.
type Config struct {
	// EndpointURL is the gateway endpoint messages are POSTed to.
	EndpointURL string `env:"SMS_GATEWAY_URL,required"`
	// SigningSecret is the shared HMAC secret for request signatures.
	SigningSecret string `env:"SMS_GATEWAY_SIGNING_SECRET,required"`
	// SenderID is the alphanumeric or numeric originator shown to the
	// recipient. Optional; gateways fall back to their account default.
	SenderID   string        `env:"SMS_GATEWAY_SENDER_ID"`
	Timeout    time.Duration `env:"SMS_GATEWAY_TIMEOUT" envDefault:"10s"`
	MaxRetries int           `env:"SMS_GATEWAY_MAX_RETRIES" envDefault:"3"`
}
