// Package notification defines the core domain model shared by the
// notifyhub packages: broadcast messages, recipients, and the delivery
// events produced while fanning a message out to notification channels.
//
// The package also provides the delivery journal — an append-only record
// of delivery events with pluggable storage backends. Components report
// events through the small Recorder capability; the journal adds querying
// on top of it.
//
// # Architecture
//
//   - Message:   a broadcast payload with identity and creation time
//   - Recipient: destination fields a channel sender picks from
//   - Delivery:  one observable outcome of a send attempt
//   - Recorder:  write-side capability implemented by every journal
//   - Journal:   Recorder plus queries (list, count, purge)
//
// # Basic Usage
//
//	journal := notification.NewMemoryJournal()
//
//	msg := notification.NewMessage("maintenance tonight at 02:00")
//	_ = journal.Record(ctx, notification.Delivery{
//	    MessageID:   msg.ID,
//	    Channel:     "email",
//	    Destination: "ana@example.com",
//	    Recipient:   notification.Recipient{Name: "Ana", Email: "ana@example.com"},
//	    Text:        msg.Text,
//	    Outcome:     notification.OutcomeDelivered,
//	})
//
//	recent, _ := journal.List(ctx, notification.ListOptions{Limit: 20})
//
// # Storage Backends
//
// Three journal implementations ship with the package:
//
//   - MemoryJournal:   mutex-guarded slice, for development and tests
//   - RedisJournal:    capped JSON list, for shared ephemeral visibility
//   - PostgresJournal: durable table managed by an embedded migration
//
// All of them satisfy the Journal interface; pick per environment and
// pass the Recorder side to the hub and channel registry.
//
// ConnectPostgres and ConnectRedis bootstrap the backing stores from
// environment-driven configs, retrying pings while the server comes up:
//
//	var cfg notification.PostgresConfig
//	config.MustLoad(&cfg)
//
//	pool, err := notification.ConnectPostgres(ctx, cfg)
//	if err != nil {
//	    return err
//	}
//	journal := notification.NewPostgresJournal(pool)
//	if err := journal.Migrate(ctx); err != nil {
//	    return err
//	}
//
// PostgresHealthcheck and RedisHealthcheck wrap the same connections as
// readiness probes.
//
// # Outcomes
//
// A delivery records one of three outcomes:
//
//   - OutcomeDelivered:      the channel sender accepted the message
//   - OutcomeFailed:         the channel sender returned an error
//   - OutcomeUnknownChannel: the preferred tag did not resolve to a sender
package notification
