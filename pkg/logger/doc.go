// Package logger builds configured slog loggers for the notifyhub
// packages, plus attribute helpers that keep log keys consistent across
// the hub, the channel registry, and the channel providers.
//
// # Basic Usage
//
//	log := logger.New(
//	    logger.WithDevelopment("notifyhub"),
//	)
//	log.InfoContext(ctx, "message broadcast",
//	    logger.MessageID(msg.ID),
//	    logger.Subscribers(3),
//	)
//
// # Context Attributes
//
// Extractors inject request-scoped values into every record without
// threading them through call sites:
//
//	type ctxKey struct{}
//
//	log := logger.New(
//	    logger.WithContextValue("broadcast_id", ctxKey{}),
//	)
//
// The extraction happens at logging time, so values set on the context
// after logger construction are still picked up.
//
// # Attribute Helpers
//
// Helpers exist for the keys the delivery pipeline logs repeatedly:
// Channel, Destination, Recipient, MessageID, Outcome, Subscribers,
// Component, Error, Errors. Prefer them over ad-hoc slog.String calls so
// dashboards can rely on stable key names.
package logger
