package smsgw

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/google/uuid"

	"github.com/dmitrymomot/notifyhub/pkg/logger"
)

const (
	defaultTimeout = 10 * time.Second
	userAgent      = "notifyhub-smsgw/1.0"
)

// Client delivers messages to an HTTP SMS gateway with signed requests
// and retry on transient failures. Zero value is not usable; use
// NewClient.
type Client struct {
	cfg Config
	// client is reused across requests for connection pooling
	client     *http.Client
	log        *slog.Logger
	newBackOff func() backoff.BackOff
}

var _ SMSSender = (*Client)(nil)

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithHTTPClient replaces the default pooled HTTP client, for custom
// transports, proxies, or testing.
func WithHTTPClient(httpClient *http.Client) ClientOption {
	return func(c *Client) {
		if httpClient != nil {
			c.client = httpClient
		}
	}
}

// WithClientLogger sets the logger used for retry warnings.
// Defaults to slog.Default().
func WithClientLogger(log *slog.Logger) ClientOption {
	return func(c *Client) {
		if log != nil {
			c.log = log
		}
	}
}

// WithBackOffFactory replaces the retry schedule. The factory runs once
// per send so retry state is never shared between messages. Default is
// exponential backoff with jitter.
func WithBackOffFactory(factory func() backoff.BackOff) ClientOption {
	return func(c *Client) {
		if factory != nil {
			c.newBackOff = factory
		}
	}
}

// NewClient validates the configuration and builds a gateway client.
// Misconfiguration surfaces here, at startup, rather than as delivery
// failures under load.
func NewClient(cfg Config, opts ...ClientOption) (*Client, error) {
	if cfg.EndpointURL == "" {
		return nil, fmt.Errorf("%w: EndpointURL is required", ErrInvalidConfig)
	}
	u, err := url.Parse(cfg.EndpointURL)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("%w: only http and https endpoints are supported", ErrInvalidConfig)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("%w: endpoint host is required", ErrInvalidConfig)
	}
	if cfg.SigningSecret == "" {
		return nil, fmt.Errorf("%w: SigningSecret is required", ErrInvalidConfig)
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	if cfg.MaxRetries < 0 {
		cfg.MaxRetries = 0
	}

	c := &Client{
		cfg: cfg,
		client: &http.Client{
			Timeout: cfg.Timeout,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		log:        slog.Default(),
		newBackOff: func() backoff.BackOff { return backoff.NewExponentialBackOff() },
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// MustNewClient is like NewClient but panics on invalid configuration.
func MustNewClient(cfg Config, opts ...ClientOption) *Client {
	c, err := NewClient(cfg, opts...)
	if err != nil {
		panic(err)
	}
	return c
}

// SendSMS posts the message to the gateway, retrying transient
// failures until the retry budget runs out. Permanent failures (most
// 4xx responses) fail immediately. All attempts of one send share a
// message ID so gateways that honor it deduplicate redelivery.
func (c *Client) SendSMS(ctx context.Context, params SendSMSParams) error {
	if err := params.Validate(); err != nil {
		return err
	}
	if params.From == "" {
		params.From = c.cfg.SenderID
	}

	payload, err := json.Marshal(params)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidParams, err)
	}

	id := uuid.New().String()

	operation := func() error {
		return c.attempt(ctx, id, payload)
	}
	policy := backoff.WithContext(
		backoff.WithMaxRetries(c.newBackOff(), uint64(c.cfg.MaxRetries)),
		ctx,
	)
	notify := func(err error, next time.Duration) {
		c.log.LogAttrs(ctx, slog.LevelWarn, "retrying sms gateway request",
			logger.Error(err),
			slog.String("message_id", id),
			slog.Duration("next_attempt_in", next),
		)
	}

	if err := backoff.RetryNotify(operation, policy, notify); err != nil {
		if errors.Is(err, ErrPermanentFailure) || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return err
		}
		return fmt.Errorf("%w after %d attempts: %w", ErrDeliveryFailed, c.cfg.MaxRetries+1, err)
	}
	return nil
}

// attempt makes one signed request. Errors wrapped in
// backoff.Permanent stop the retry loop.
func (c *Client) attempt(ctx context.Context, id string, payload []byte) error {
	reqCtx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodPost, c.cfg.EndpointURL, bytes.NewReader(payload))
	if err != nil {
		return backoff.Permanent(fmt.Errorf("failed to create request: %w", err))
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", userAgent)

	// Timestamp and signature are fresh per attempt, the ID is not.
	sig, err := SignPayload(c.cfg.SigningSecret, id, payload)
	if err != nil {
		return backoff.Permanent(err)
	}
	for k, v := range sig.Headers() {
		req.Header.Set(k, v)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		if reqCtx.Err() == context.DeadlineExceeded {
			return fmt.Errorf("%w: %w", ErrTimeout, err)
		}
		return fmt.Errorf("%w: %w", ErrTemporaryFailure, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}

	// 64KB cap keeps a misbehaving gateway from exhausting memory.
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 64*1024))
	respErr := statusError(resp.StatusCode, body)

	if isPermanentStatus(resp.StatusCode) {
		return backoff.Permanent(fmt.Errorf("%w: %w", ErrPermanentFailure, respErr))
	}
	return fmt.Errorf("%w: %w", ErrTemporaryFailure, respErr)
}

// isPermanentStatus reports whether a response code will not change on
// retry. Most 4xx codes are client errors; 408, 425, and 429 signal
// server-side timing or rate limiting and stay retryable.
func isPermanentStatus(code int) bool {
	if code < 400 || code >= 500 {
		return false
	}
	switch code {
	case http.StatusRequestTimeout, http.StatusTooEarly, http.StatusTooManyRequests:
		return false
	}
	return true
}

func statusError(code int, body []byte) error {
	msg := fmt.Sprintf("gateway returned status %d", code)
	if len(body) > 0 {
		// Flatten and truncate the body so it is safe to log.
		detail := strings.ReplaceAll(string(body), "\n", " ")
		if len(detail) > 200 {
			detail = detail[:200] + "..."
		}
		msg += ": " + detail
	}
	return errors.New(msg)
}
