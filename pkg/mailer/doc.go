// Package mailer sends notification emails through Postmark and adapts
// the email transport to the channel.Sender capability.
//
// # Basic Usage
//
//	var cfg mailer.Config
//	config.MustLoad(&cfg)
//
//	sender := mailer.MustNewPostmarkClient(cfg)
//	reg.Register(channel.TagEmail, mailer.NewChannelSender(sender))
//
// The channel adapter derives the subject from the first line of the
// message text, truncated to a sane header length, and sends the full
// text as the plain-text body. Postmark's per-message tag is settable
// for delivery analytics.
//
// # Errors
//
// SendEmail validates parameters before talking to Postmark and wraps
// transport failures in ErrFailedToSendEmail, including Postmark API
// errors reported with a zero transport error.
package mailer
