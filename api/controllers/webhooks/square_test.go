package webhooks

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	squarewebhook "github.com/mateoreynoso/tripline-backend/internal/webhooks/square"
	pkgerrors "github.com/mateoreynoso/tripline-backend/pkg/errors"
)

func TestSquareWebhook_SuccessAndIdempotent(t *testing.T) {
	payload := buildPaymentEvent(t, "payment.updated", "COMPLETED")
	header := buildSquareSignature(payload, "secret")
	listener := &fakeListener{}
	guard := newGuard(t)
	handler := SquareWebhook(listener, &fakeSigningClient{secret: "secret"}, guard, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/webhooks/square", bytes.NewReader(payload))
	req.Header.Set("Square-Signature", header)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d (%s)", rec.Code, rec.Body.String())
	}
	if listener.calls != 1 {
		t.Fatalf("expected listener called once, got %d", listener.calls)
	}

	req2 := httptest.NewRequest(http.MethodPost, "/api/v1/webhooks/square", bytes.NewReader(payload))
	req2.Header.Set("Square-Signature", header)
	rec2 := httptest.NewRecorder()
	handler.ServeHTTP(rec2, req2)
	if rec2.Code != http.StatusOK {
		t.Fatalf("expected 200 on duplicate, got %d", rec2.Code)
	}
	if listener.calls != 1 {
		t.Fatalf("duplicate should not increment calls, got %d", listener.calls)
	}
}

func TestSquareWebhook_InvalidSignature(t *testing.T) {
	payload := buildPaymentEvent(t, "payment.updated", "COMPLETED")
	listener := &fakeListener{}
	handler := SquareWebhook(listener, &fakeSigningClient{secret: "secret"}, newGuard(t), nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/webhooks/square", bytes.NewReader(payload))
	req.Header.Set("Square-Signature", "invalid")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for invalid signature, got %d", rec.Code)
	}
	if listener.calls != 0 {
		t.Fatalf("listener should not be invoked on invalid signature")
	}
}

func TestSquareWebhook_MissingSignature(t *testing.T) {
	payload := buildPaymentEvent(t, "payment.created", "PENDING")
	listener := &fakeListener{}
	handler := SquareWebhook(listener, &fakeSigningClient{secret: "secret"}, newGuard(t), nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/webhooks/square", bytes.NewReader(payload))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for missing signature, got %d", rec.Code)
	}
}

func TestSquareWebhook_FailureClearsGuard(t *testing.T) {
	payload := buildPaymentEvent(t, "payment.updated", "COMPLETED")
	header := buildSquareSignature(payload, "secret")
	listener := &fakeListener{err: pkgerrors.New(pkgerrors.CodeDependency, "ledger unavailable")}
	handler := SquareWebhook(listener, &fakeSigningClient{secret: "secret"}, newGuard(t), nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/webhooks/square", bytes.NewReader(payload))
	req.Header.Set("Square-Signature", header)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503 on listener failure, got %d", rec.Code)
	}

	// The redelivery must reach the listener again.
	listener.err = nil
	retry := httptest.NewRequest(http.MethodPost, "/api/v1/webhooks/square", bytes.NewReader(payload))
	retry.Header.Set("Square-Signature", header)
	rec2 := httptest.NewRecorder()
	handler.ServeHTTP(rec2, retry)
	if rec2.Code != http.StatusOK {
		t.Fatalf("expected 200 on retry, got %d", rec2.Code)
	}
	if listener.calls != 2 {
		t.Fatalf("expected 2 listener calls, got %d", listener.calls)
	}
}

func newGuard(t *testing.T) *squarewebhook.IdempotencyGuard {
	t.Helper()
	guard, err := squarewebhook.NewIdempotencyGuard(newInMemoryStore(), time.Minute, "webhook:square")
	if err != nil {
		t.Fatalf("guard setup: %v", err)
	}
	return guard
}

func buildPaymentEvent(t *testing.T, eventType, status string) []byte {
	t.Helper()
	event := map[string]any{
		"event_id": "evt_" + uuid.NewString(),
		"type":     eventType,
		"data": map[string]any{
			"type": "payment",
			"id":   uuid.NewString(),
			"object": map[string]any{
				"payment": map[string]any{
					"id":     "pay_" + uuid.NewString(),
					"status": status,
				},
			},
		},
	}
	payload, err := json.Marshal(event)
	if err != nil {
		t.Fatalf("marshal event: %v", err)
	}
	return payload
}

func buildSquareSignature(payload []byte, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(payload)
	return hex.EncodeToString(mac.Sum(nil))
}

type fakeListener struct {
	calls int
	err   error
}

func (f *fakeListener) HandleEvent(ctx context.Context, raw []byte, event *squarewebhook.Event) error {
	f.calls++
	return f.err
}

type fakeSigningClient struct {
	secret string
}

func (c *fakeSigningClient) SigningSecret() string {
	return c.secret
}

type inMemoryStore struct {
	mu   sync.Mutex
	data map[string]string
}

func newInMemoryStore() *inMemoryStore {
	return &inMemoryStore{data: make(map[string]string)}
}

func (s *inMemoryStore) Get(ctx context.Context, key string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.data[key], nil
}

func (s *inMemoryStore) SetNX(ctx context.Context, key string, value any, ttl time.Duration) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.data[key]; exists {
		return false, nil
	}
	s.data[key] = fmt.Sprintf("%v", value)
	return true, nil
}

func (s *inMemoryStore) IdempotencyKey(scope, id string) string {
	return fmt.Sprintf("tl:idempotency:%s:%s", scope, id)
}

func (s *inMemoryStore) Del(ctx context.Context, keys ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, key := range keys {
		delete(s.data, key)
	}
	return nil
}
