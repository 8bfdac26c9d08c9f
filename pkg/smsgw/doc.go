// Package smsgw provides a client for HTTP SMS gateways that accept
// signed JSON requests, plus an adapter that plugs the client into the
// notification channel registry.
//
// The client POSTs one message per request and authenticates with an
// HMAC-SHA256 signature bound to a timestamp, so the gateway can reject
// both tampered and replayed requests. Transient failures are retried
// with exponential backoff while client-side errors fail immediately.
//
// # Basic Usage
//
//	var cfg smsgw.Config
//	if err := config.Load(&cfg); err != nil {
//		log.Fatal(err)
//	}
//
//	client, err := smsgw.NewClient(cfg)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	err = client.SendSMS(ctx, smsgw.SendSMSParams{
//		To:   "+15551234567",
//		Text: "Your report is ready.",
//	})
//
// # Channel Integration
//
//	registry.Register("sms", smsgw.NewChannelSender(client))
//
// Every request carries a stable message ID header, so gateways that
// honor it deduplicate retried sends instead of delivering twice.
package smsgw
