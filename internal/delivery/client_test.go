package delivery

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"
)

func newTestClient(t *testing.T, override func(*ClientDeps)) ResultPoster {
	t.Helper()
	deps := ClientDeps{
		SigningSecret: []byte("delivery-secret"),
		Timeout:       2 * time.Second,
		MaxAttempts:   3,
		BackoffBase:   time.Millisecond,
		BackoffCap:    5 * time.Millisecond,
		NonceGenerator: func() string {
			return "nonce-0001"
		},
	}
	if override != nil {
		override(&deps)
	}
	poster, err := NewClient(deps)
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	return poster
}

func sampleJob(replyURL string) Job {
	return Job{
		ReplyURL: replyURL,
		Caller:   "dialect-app",
		Result: Result{
			JobID:     "tlit_01hzxcv",
			Input:     "محمد",
			Result:    "Muhammad",
			CreatedAt: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
		},
	}
}

func TestClientDeliversSignedResult(t *testing.T) {
	secret := []byte("delivery-secret")
	var gotBody []byte
	var gotReq *http.Request
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotBody, _ = io.ReadAll(r.Body)
		gotReq = r.Clone(context.Background())
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	poster := newTestClient(t, nil)
	if err := poster.Deliver(context.Background(), sampleJob(server.URL+"/callbacks/result")); err != nil {
		t.Fatalf("Deliver returned error: %v", err)
	}

	if !strings.Contains(string(gotBody), `"job_id":"tlit_01hzxcv"`) {
		t.Fatalf("unexpected body: %s", gotBody)
	}
	if got := gotReq.Header.Get("Content-Type"); got != "application/json" {
		t.Fatalf("unexpected content type %q", got)
	}

	timestamp := gotReq.Header.Get("X-Signature-Timestamp")
	nonce := gotReq.Header.Get("X-Signature-Nonce")
	if timestamp == "" || nonce != "nonce-0001" {
		t.Fatalf("missing signature metadata: timestamp=%q nonce=%q", timestamp, nonce)
	}

	bodyHash := sha256.Sum256(gotBody)
	canonical := fmt.Sprintf("%s\n%s\n%s\n%s\n%s",
		http.MethodPost, "/callbacks/result", timestamp, nonce, hex.EncodeToString(bodyHash[:]))
	mac := hmac.New(sha256.New, secret)
	mac.Write([]byte(canonical))
	want := base64.StdEncoding.EncodeToString(mac.Sum(nil))
	if got := gotReq.Header.Get("X-Signature"); got != want {
		t.Fatalf("signature mismatch: got %q want %q", got, want)
	}
}

func TestClientRetriesTransientFailures(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusAccepted)
	}))
	defer server.Close()

	poster := newTestClient(t, func(deps *ClientDeps) {
		deps.MaxAttempts = 5
	})
	if err := poster.Deliver(context.Background(), sampleJob(server.URL)); err != nil {
		t.Fatalf("Deliver returned error: %v", err)
	}
	if got := atomic.LoadInt32(&calls); got != 3 {
		t.Fatalf("expected 3 attempts, got %d", got)
	}
}

func TestClientStopsOnReceiverRejection(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusUnprocessableEntity)
	}))
	defer server.Close()

	poster := newTestClient(t, nil)
	err := poster.Deliver(context.Background(), sampleJob(server.URL))
	if !errors.Is(err, ErrDeliveryRejected) {
		t.Fatalf("expected ErrDeliveryRejected, got %v", err)
	}
	if got := atomic.LoadInt32(&calls); got != 1 {
		t.Fatalf("expected a single attempt, got %d", got)
	}
}

func TestClientExhaustsAttempts(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	poster := newTestClient(t, func(deps *ClientDeps) {
		deps.MaxAttempts = 2
		deps.BreakerMaxFailures = 10
	})
	err := poster.Deliver(context.Background(), sampleJob(server.URL))
	if !errors.Is(err, ErrDeliveryExhausted) {
		t.Fatalf("expected ErrDeliveryExhausted, got %v", err)
	}
}

func TestClientBreakerShortCircuits(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	poster := newTestClient(t, func(deps *ClientDeps) {
		deps.MaxAttempts = 4
		deps.BreakerMaxFailures = 1
		deps.BreakerOpenTimeout = time.Minute
	})
	err := poster.Deliver(context.Background(), sampleJob(server.URL))
	if !errors.Is(err, ErrDeliveryExhausted) {
		t.Fatalf("expected ErrDeliveryExhausted, got %v", err)
	}
	if got := atomic.LoadInt32(&calls); got != 1 {
		t.Fatalf("expected breaker to stop traffic after 1 call, got %d", got)
	}
}

func TestClientValidatesConstruction(t *testing.T) {
	if _, err := NewClient(ClientDeps{MaxAttempts: 3}); err == nil {
		t.Fatal("expected error for missing signing secret")
	}
	if _, err := NewClient(ClientDeps{SigningSecret: []byte("s")}); err == nil {
		t.Fatal("expected error for non-positive max attempts")
	}
}

func TestClientRejectsBlankReplyURL(t *testing.T) {
	poster := newTestClient(t, nil)
	err := poster.Deliver(context.Background(), Job{Result: Result{JobID: "tlit_x"}})
	if !errors.Is(err, ErrDeliveryRejected) {
		t.Fatalf("expected ErrDeliveryRejected, got %v", err)
	}
}
