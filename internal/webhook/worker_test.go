package webhook

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/communitysafe/incident-map/internal/config"
	"github.com/communitysafe/incident-map/internal/models"
)

func newTestWorker(cfg *config.Config) *AlertWorker {
	logger := logrus.New()
	logger.SetOutput(&bytes.Buffer{})
	return NewAlertWorker(nil, logger, cfg)
}

func testEventPayload(t *testing.T) (IncidentEvent, string) {
	event := IncidentEvent{
		Incident: &models.Incident{
			ID:     uuid.New(),
			Type:   "harassment",
			Status: models.StatusActive,
		},
		Timestamp: time.Now(),
	}
	raw, err := json.Marshal(event)
	require.NoError(t, err)
	return event, string(raw)
}

func TestDeliver_RetriesUntilSuccessAndSignsPayload(t *testing.T) {
	var attempts int32
	var gotSignature string
	var gotBody []byte

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&attempts, 1) == 1 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		gotSignature = r.Header.Get("X-Webhook-Signature")
		gotBody, _ = io.ReadAll(r.Body)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	cfg := &config.Config{
		WebhookURL:        server.URL,
		WebhookSecret:     "secret",
		WebhookTimeout:    time.Second,
		WebhookMaxRetries: 3,
		WebhookBaseDelay:  time.Millisecond,
	}
	worker := newTestWorker(cfg)

	event, payload := testEventPayload(t)
	worker.deliver(context.Background(), event, payload)

	require.EqualValues(t, 2, atomic.LoadInt32(&attempts))
	assert.Equal(t, payload, string(gotBody))

	mac := hmac.New(sha256.New, []byte("secret"))
	mac.Write([]byte(payload))
	assert.Equal(t, hex.EncodeToString(mac.Sum(nil)), gotSignature)
}

func TestDeliver_StopsAfterMaxRetries(t *testing.T) {
	var attempts int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&attempts, 1)
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	cfg := &config.Config{
		WebhookURL:        server.URL,
		WebhookTimeout:    time.Second,
		WebhookMaxRetries: 3,
		WebhookBaseDelay:  time.Millisecond,
	}
	worker := newTestWorker(cfg)

	event, payload := testEventPayload(t)
	worker.deliver(context.Background(), event, payload)

	assert.EqualValues(t, 3, atomic.LoadInt32(&attempts))
}

func TestDeliver_MalformedURLBacksOffBetweenAttempts(t *testing.T) {
	cfg := &config.Config{
		WebhookURL:        ":", // request construction fails on every attempt
		WebhookTimeout:    time.Second,
		WebhookMaxRetries: 3,
		WebhookBaseDelay:  20 * time.Millisecond,
	}
	worker := newTestWorker(cfg)

	event, payload := testEventPayload(t)
	start := time.Now()
	worker.deliver(context.Background(), event, payload)

	// Each failed attempt must wait out the (doubling) backoff delay instead
	// of spinning through the retry budget instantly: 20 + 40 + 80 ms.
	assert.GreaterOrEqual(t, time.Since(start), 140*time.Millisecond)
}

func TestDeliver_NoURLConfiguredSkipsDelivery(t *testing.T) {
	cfg := &config.Config{
		WebhookTimeout:    time.Second,
		WebhookMaxRetries: 3,
		WebhookBaseDelay:  time.Millisecond,
	}
	worker := newTestWorker(cfg)

	event, payload := testEventPayload(t)
	start := time.Now()
	worker.deliver(context.Background(), event, payload)

	assert.Less(t, time.Since(start), 100*time.Millisecond)
}
