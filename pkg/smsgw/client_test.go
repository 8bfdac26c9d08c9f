package smsgw_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/notifyhub/pkg/smsgw"
)

const testSecret = "sms_gateway_secret"

func testConfig(url string) smsgw.Config {
	return smsgw.Config{
		EndpointURL:   url,
		SigningSecret: testSecret,
		Timeout:       5 * time.Second,
		MaxRetries:    3,
	}
}

// fastRetry keeps retry tests quick and deterministic.
func fastRetry() smsgw.ClientOption {
	return smsgw.WithBackOffFactory(func() backoff.BackOff {
		return backoff.NewConstantBackOff(time.Millisecond)
	})
}

func quietLogger() smsgw.ClientOption {
	return smsgw.WithClientLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestNewClient_Validation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		cfg  smsgw.Config
	}{
		{
			name: "missing endpoint",
			cfg:  smsgw.Config{SigningSecret: testSecret},
		},
		{
			name: "unsupported scheme",
			cfg:  smsgw.Config{EndpointURL: "ftp://gateway.example.com/send", SigningSecret: testSecret},
		},
		{
			name: "missing host",
			cfg:  smsgw.Config{EndpointURL: "https://", SigningSecret: testSecret},
		},
		{
			name: "missing signing secret",
			cfg:  smsgw.Config{EndpointURL: "https://gateway.example.com/send"},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			client, err := smsgw.NewClient(tt.cfg)
			require.Error(t, err)
			assert.ErrorIs(t, err, smsgw.ErrInvalidConfig)
			assert.Nil(t, client)
		})
	}

	t.Run("valid config", func(t *testing.T) {
		t.Parallel()

		client, err := smsgw.NewClient(smsgw.Config{
			EndpointURL:   "https://gateway.example.com/v1/messages",
			SigningSecret: testSecret,
		})
		require.NoError(t, err)
		assert.NotNil(t, client)
	})
}

func TestMustNewClient(t *testing.T) {
	t.Parallel()

	assert.Panics(t, func() {
		smsgw.MustNewClient(smsgw.Config{})
	})

	assert.NotPanics(t, func() {
		smsgw.MustNewClient(testConfig("https://gateway.example.com/v1/messages"))
	})
}

func TestClient_SendSMS_Success(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.Equal(t, "notifyhub-smsgw/1.0", r.Header.Get("User-Agent"))

		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)

		var params smsgw.SendSMSParams
		require.NoError(t, json.Unmarshal(body, &params))
		assert.Equal(t, "+15551234567", params.To)
		assert.Equal(t, "Your report is ready.", params.Text)
		assert.Equal(t, "notifyhub", params.From)

		headers, err := smsgw.ExtractSignatureHeaders(r.Header)
		require.NoError(t, err)
		assert.NotEmpty(t, headers.ID)
		assert.NoError(t, smsgw.VerifySignature(testSecret, body, headers, 5*time.Minute))

		w.WriteHeader(http.StatusAccepted)
	}))
	defer server.Close()

	cfg := testConfig(server.URL)
	cfg.SenderID = "notifyhub"
	client, err := smsgw.NewClient(cfg, quietLogger())
	require.NoError(t, err)

	err = client.SendSMS(context.Background(), smsgw.SendSMSParams{
		To:   "+15551234567",
		Text: "Your report is ready.",
	})
	assert.NoError(t, err)
}

func TestClient_SendSMS_InvalidParams(t *testing.T) {
	t.Parallel()

	var requests int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&requests, 1)
		w.WriteHeader(http.StatusAccepted)
	}))
	defer server.Close()

	client, err := smsgw.NewClient(testConfig(server.URL), quietLogger())
	require.NoError(t, err)

	tests := []struct {
		name   string
		params smsgw.SendSMSParams
	}{
		{"missing number", smsgw.SendSMSParams{Text: "hi"}},
		{"not e164", smsgw.SendSMSParams{To: "5551234567", Text: "hi"}},
		{"letters in number", smsgw.SendSMSParams{To: "+1555CALLNOW", Text: "hi"}},
		{"missing text", smsgw.SendSMSParams{To: "+15551234567"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := client.SendSMS(context.Background(), tt.params)
			require.Error(t, err)
			assert.ErrorIs(t, err, smsgw.ErrInvalidParams)
		})
	}

	assert.Equal(t, int32(0), atomic.LoadInt32(&requests), "invalid params must never reach the gateway")
}

func TestClient_SendSMS_RetriesUntilSuccess(t *testing.T) {
	t.Parallel()

	var (
		mu       sync.Mutex
		attempts int
		ids      []string
	)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		attempts++
		n := attempts
		ids = append(ids, r.Header.Get("X-Message-ID"))
		mu.Unlock()

		if n < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client, err := smsgw.NewClient(testConfig(server.URL), fastRetry(), quietLogger())
	require.NoError(t, err)

	err = client.SendSMS(context.Background(), smsgw.SendSMSParams{To: "+15551234567", Text: "hi"})
	require.NoError(t, err)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, 3, attempts)
	require.Len(t, ids, 3)
	assert.Equal(t, ids[0], ids[1], "message ID must survive retries")
	assert.Equal(t, ids[0], ids[2], "message ID must survive retries")
	assert.NotEmpty(t, ids[0])
}

func TestClient_SendSMS_PermanentFailureStopsRetrying(t *testing.T) {
	t.Parallel()

	var attempts int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&attempts, 1)
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error":"unknown destination"}`))
	}))
	defer server.Close()

	client, err := smsgw.NewClient(testConfig(server.URL), fastRetry(), quietLogger())
	require.NoError(t, err)

	err = client.SendSMS(context.Background(), smsgw.SendSMSParams{To: "+15551234567", Text: "hi"})
	require.Error(t, err)
	assert.ErrorIs(t, err, smsgw.ErrPermanentFailure)
	assert.Contains(t, err.Error(), "unknown destination")
	assert.Equal(t, int32(1), atomic.LoadInt32(&attempts), "4xx responses must not be retried")
}

func TestClient_SendSMS_RateLimitIsRetryable(t *testing.T) {
	t.Parallel()

	var attempts int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&attempts, 1) == 1 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client, err := smsgw.NewClient(testConfig(server.URL), fastRetry(), quietLogger())
	require.NoError(t, err)

	err = client.SendSMS(context.Background(), smsgw.SendSMSParams{To: "+15551234567", Text: "hi"})
	require.NoError(t, err)
	assert.Equal(t, int32(2), atomic.LoadInt32(&attempts))
}

func TestClient_SendSMS_ExhaustsRetryBudget(t *testing.T) {
	t.Parallel()

	var attempts int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&attempts, 1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	cfg := testConfig(server.URL)
	cfg.MaxRetries = 2
	client, err := smsgw.NewClient(cfg, fastRetry(), quietLogger())
	require.NoError(t, err)

	err = client.SendSMS(context.Background(), smsgw.SendSMSParams{To: "+15551234567", Text: "hi"})
	require.Error(t, err)
	assert.ErrorIs(t, err, smsgw.ErrDeliveryFailed)
	assert.ErrorIs(t, err, smsgw.ErrTemporaryFailure)
	assert.Equal(t, int32(3), atomic.LoadInt32(&attempts), "initial attempt plus two retries")
}

func TestClient_SendSMS_ContextCanceled(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	client, err := smsgw.NewClient(testConfig(server.URL), fastRetry(), quietLogger())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err = client.SendSMS(ctx, smsgw.SendSMSParams{To: "+15551234567", Text: "hi"})
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}
