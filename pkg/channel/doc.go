// Package channel resolves notification channel tags to senders and
// defines the Sender capability every delivery mechanism implements.
//
// Subscribers express preferences as plain strings ("email", "SMS ").
// The registry normalizes those tags, rejects anything outside the known
// set with a typed error, and hands back the sender registered for the
// channel. Every sender resolved through a registry reports its send
// outcomes to the registry's delivery recorder.
//
// # Basic Usage
//
//	reg := channel.NewRegistry(
//	    channel.WithRegistryLogger(log),
//	)
//
//	sender, err := reg.Resolve("Email")
//	if err != nil {
//	    var unknown channel.ErrUnknownChannel
//	    if errors.As(err, &unknown) {
//	        // react to the offending tag, e.g. log unknown.Tag
//	    }
//	    return err
//	}
//	_ = sender.Send(ctx, msg, recipient)
//
// A fresh registry serves logging senders for every known tag, so it is
// usable out of the box; production wiring replaces them with real
// providers:
//
//	reg.Register(channel.TagEmail, mailerSender)
//	reg.Register(channel.TagSMS, gatewaySender)
//
// # Destinations
//
// Each tag knows which recipient field it delivers to: email uses the
// address, sms the phone number, push the display name that keys the
// in-app feed. Senders and log lines derive destinations through
// Tag.Destination so the mapping lives in one place.
package channel
