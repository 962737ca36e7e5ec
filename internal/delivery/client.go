// Package delivery posts completed transliteration results back to the
// webhook caller's reply URL. Outgoing requests are signed with the same
// HMAC scheme the ingress side verifies, so receivers can authenticate the
// callback with the shared signing secret.
package delivery

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/sony/gobreaker"

	"github.com/achouradigital/arabic-phon-bot/internal/platform/auth"
)

const (
	deliveryEventAttempt   = "delivery.attempt"
	deliveryEventDelivered = "delivery.delivered"
	deliveryEventRejected  = "delivery.rejected"
	deliveryEventExhausted = "delivery.exhausted"
)

var (
	// ErrDeliveryExhausted indicates every attempt failed and no retries remain.
	ErrDeliveryExhausted = errors.New("delivery: attempts exhausted")
	// ErrDeliveryRejected indicates the receiver returned a non-retryable status.
	ErrDeliveryRejected = errors.New("delivery: rejected by receiver")
)

// Result is the JSON document posted to the caller's reply URL.
type Result struct {
	JobID     string    `json:"job_id"`
	Input     string    `json:"input"`
	Result    string    `json:"result"`
	Empty     bool      `json:"empty,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Job pairs a completed result with its destination.
type Job struct {
	ReplyURL string
	Caller   string
	Result   Result
}

// ResultPoster delivers a completed job to its reply URL.
type ResultPoster interface {
	Deliver(ctx context.Context, job Job) error
}

// ClientDeps enumerates collaborators required to construct the client.
type ClientDeps struct {
	SigningSecret      []byte
	HTTPClient         *http.Client
	Timeout            time.Duration
	MaxAttempts        int
	BackoffBase        time.Duration
	BackoffCap         time.Duration
	BreakerMaxFailures uint32
	BreakerOpenTimeout time.Duration
	Clock              func() time.Time
	NonceGenerator     func() string
	Logger             func(context.Context, string, map[string]any)
}

type client struct {
	secret      []byte
	httpClient  *http.Client
	timeout     time.Duration
	maxAttempts int
	backoffBase time.Duration
	backoffCap  time.Duration
	breaker     *gobreaker.CircuitBreaker
	clock       func() time.Time
	newNonce    func() string
	logger      func(context.Context, string, map[string]any)
}

// NewClient wires dependencies into a ResultPoster implementation.
func NewClient(deps ClientDeps) (ResultPoster, error) {
	if len(deps.SigningSecret) == 0 {
		return nil, errors.New("delivery client: signing secret is required")
	}
	if deps.MaxAttempts <= 0 {
		return nil, errors.New("delivery client: max attempts must be positive")
	}

	httpClient := deps.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	timeout := deps.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	backoffBase := deps.BackoffBase
	if backoffBase <= 0 {
		backoffBase = 500 * time.Millisecond
	}
	backoffCap := deps.BackoffCap
	if backoffCap < backoffBase {
		backoffCap = backoffBase
	}
	maxFailures := deps.BreakerMaxFailures
	if maxFailures == 0 {
		maxFailures = 5
	}
	openTimeout := deps.BreakerOpenTimeout
	if openTimeout <= 0 {
		openTimeout = 30 * time.Second
	}
	clock := deps.Clock
	if clock == nil {
		clock = time.Now
	}
	newNonce := deps.NonceGenerator
	if newNonce == nil {
		newNonce = func() string {
			return ulid.Make().String()
		}
	}
	logger := deps.Logger
	if logger == nil {
		logger = func(context.Context, string, map[string]any) {}
	}

	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:    "result-delivery",
		Timeout: openTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= maxFailures
		},
	})

	return &client{
		secret:      deps.SigningSecret,
		httpClient:  httpClient,
		timeout:     timeout,
		maxAttempts: deps.MaxAttempts,
		backoffBase: backoffBase,
		backoffCap:  backoffCap,
		breaker:     breaker,
		clock: func() time.Time {
			return clock().UTC()
		},
		newNonce: newNonce,
		logger:   logger,
	}, nil
}

// Deliver posts the job result, retrying transient failures with capped
// exponential backoff. A non-retryable receiver response aborts immediately.
func (c *client) Deliver(ctx context.Context, job Job) error {
	replyURL := strings.TrimSpace(job.ReplyURL)
	if replyURL == "" {
		return fmt.Errorf("%w: reply url is required", ErrDeliveryRejected)
	}

	body, err := json.Marshal(job.Result)
	if err != nil {
		return fmt.Errorf("encode result payload: %w", err)
	}

	var lastErr error
	for attempt := 1; attempt <= c.maxAttempts; attempt++ {
		c.logger(ctx, deliveryEventAttempt, map[string]any{
			"jobId":   job.Result.JobID,
			"caller":  job.Caller,
			"attempt": attempt,
		})

		status, err := c.post(ctx, replyURL, body)
		switch {
		case err == nil && status >= 200 && status < 300:
			c.logger(ctx, deliveryEventDelivered, map[string]any{
				"jobId":    job.Result.JobID,
				"caller":   job.Caller,
				"status":   status,
				"attempts": attempt,
			})
			return nil
		case err == nil && !retryableStatus(status):
			c.logger(ctx, deliveryEventRejected, map[string]any{
				"jobId":  job.Result.JobID,
				"caller": job.Caller,
				"status": status,
			})
			return fmt.Errorf("%w: status %d", ErrDeliveryRejected, status)
		case err == nil:
			lastErr = fmt.Errorf("receiver returned status %d", status)
		default:
			lastErr = err
		}

		if attempt == c.maxAttempts {
			break
		}
		if err := sleepContext(ctx, c.backoff(attempt)); err != nil {
			return err
		}
	}

	c.logger(ctx, deliveryEventExhausted, map[string]any{
		"jobId":    job.Result.JobID,
		"caller":   job.Caller,
		"attempts": c.maxAttempts,
		"error":    lastErr.Error(),
	})
	return fmt.Errorf("%w: %v", ErrDeliveryExhausted, lastErr)
}

func (c *client) post(ctx context.Context, replyURL string, body []byte) (int, error) {
	attemptCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	result, err := c.breaker.Execute(func() (any, error) {
		req, err := http.NewRequestWithContext(attemptCtx, http.MethodPost, replyURL, bytes.NewReader(body))
		if err != nil {
			return 0, err
		}
		req.Header.Set("Content-Type", "application/json")
		if err := auth.SignRequest(req, c.secret, c.newNonce(), c.clock()); err != nil {
			return 0, err
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return 0, err
		}
		io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		resp.Body.Close()

		if resp.StatusCode >= 500 {
			return resp.StatusCode, fmt.Errorf("receiver returned status %d", resp.StatusCode)
		}
		return resp.StatusCode, nil
	})
	if err != nil {
		if status, ok := result.(int); ok && status != 0 {
			return status, nil
		}
		return 0, err
	}
	return result.(int), nil
}

// backoff doubles the base delay per attempt up to the cap, then adds up to
// 50% random jitter so synchronized retries from parallel workers spread out.
func (c *client) backoff(attempt int) time.Duration {
	delay := c.backoffBase << (attempt - 1)
	if delay > c.backoffCap || delay <= 0 {
		delay = c.backoffCap
	}
	jitter := time.Duration(rand.Int63n(int64(delay)/2 + 1))
	return delay + jitter
}

func retryableStatus(status int) bool {
	if status >= 500 {
		return true
	}
	return status == http.StatusRequestTimeout || status == http.StatusTooManyRequests
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
