// Package hub implements publish/subscribe notification fan-out:
// subscribers carry an identity and an ordered list of preferred channel
// tags, and a hub broadcasts each message synchronously to every
// subscriber in the order they joined.
//
// # Basic Usage
//
//	reg := channel.NewRegistry()
//
//	h := hub.New()
//	ana, err := hub.NewSubscriber(
//	    notification.Recipient{Name: "Ana", Email: "ana@example.com"},
//	    []string{"email"},
//	    reg,
//	)
//	if err != nil {
//	    // handle error
//	}
//	h.Add(ana)
//
//	msg := h.Broadcast(ctx, "release 1.2.0 is out")
//
// Broadcast composes the message once, so every subscriber observes the
// same message identity, and returns it after the synchronous fan-out
// completes.
//
// # Partial Failure
//
// A subscriber preferring an unknown channel, or a channel whose
// provider fails, never blocks the rest of the fan-out. Receive logs a
// warning, records the event when a delivery recorder is attached, and
// moves on to the next preferred channel. Errors do not propagate to
// Broadcast callers.
//
// # Membership
//
// The hub deduplicates subscribers by identity key, the lowercased email
// by default. Adding an existing subscriber is a no-op, removing an
// absent one is safe, and WithKeyFunc swaps in a different identity
// scheme when email is not the right key.
package hub
