package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/achouradigital/arabic-phon-bot/internal/delivery"
	"github.com/achouradigital/arabic-phon-bot/internal/platform/httpx"
	"github.com/achouradigital/arabic-phon-bot/internal/services"
)

// JobEnqueuer hands completed conversions to the delivery worker pool.
type JobEnqueuer interface {
	Enqueue(ctx context.Context, job delivery.Job) error
}

// WebhookHandlers accepts asynchronous phonetization requests from
// HMAC-authenticated callers and queues result delivery to their reply URL.
type WebhookHandlers struct {
	svc          services.TransliterationService
	enqueuer     JobEnqueuer
	allowedHosts map[string]struct{}
}

// NewWebhookHandlers constructs the webhook handler set. allowedHosts lists
// the reply URL hosts callbacks may target; an empty list allows any host.
func NewWebhookHandlers(svc services.TransliterationService, enqueuer JobEnqueuer, allowedHosts []string) *WebhookHandlers {
	hosts := make(map[string]struct{}, len(allowedHosts))
	for _, host := range allowedHosts {
		host = strings.ToLower(strings.TrimSpace(host))
		if host != "" {
			hosts[host] = struct{}{}
		}
	}
	return &WebhookHandlers{
		svc:          svc,
		enqueuer:     enqueuer,
		allowedHosts: hosts,
	}
}

// Routes registers the webhook endpoints.
func (h *WebhookHandlers) Routes(r chi.Router) {
	if r == nil {
		return
	}
	r.Post("/phonetize", h.phonetize)
}

func (h *WebhookHandlers) phonetize(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if h.svc == nil || h.enqueuer == nil {
		httpx.WriteError(ctx, w, httpx.NewError("service_unavailable", "phonetization service not available", http.StatusServiceUnavailable))
		return
	}

	body, err := readLimitedBody(r, maxConvertRequestBody)
	if err != nil {
		switch {
		case errors.Is(err, errBodyTooLarge):
			httpx.WriteError(ctx, w, httpx.NewError("payload_too_large", "request body exceeds allowed size", http.StatusRequestEntityTooLarge))
		case errors.Is(err, errEmptyBody):
			httpx.WriteError(ctx, w, httpx.NewError("invalid_request", "request body is required", http.StatusBadRequest))
		default:
			httpx.WriteError(ctx, w, httpx.NewError("invalid_request", err.Error(), http.StatusBadRequest))
		}
		return
	}

	var req phonetizeRequest
	if err := json.Unmarshal(body, &req); err != nil {
		httpx.WriteError(ctx, w, httpx.NewError("invalid_request", "invalid JSON payload", http.StatusBadRequest))
		return
	}

	replyURL, err := h.validateReplyURL(req.ReplyURL)
	if err != nil {
		httpx.WriteError(ctx, w, httpx.NewError("reply_url_not_allowed", err.Error(), http.StatusBadRequest))
		return
	}

	caller := callerFromContext(ctx)
	result, err := h.svc.Convert(ctx, services.ConversionCommand{
		Text:   req.Text,
		Caller: caller,
	})
	if err != nil {
		writeTransliterationError(ctx, w, err)
		return
	}

	job := delivery.Job{
		ReplyURL: replyURL,
		Caller:   caller,
		Result: delivery.Result{
			JobID:     result.ID,
			Input:     result.Input,
			Result:    result.Result,
			Empty:     result.Empty,
			CreatedAt: result.CreatedAt,
		},
	}
	if err := h.enqueuer.Enqueue(ctx, job); err != nil {
		if errors.Is(err, delivery.ErrDeliveryQueueFull) {
			httpx.WriteError(ctx, w, httpx.NewError("delivery_queue_full", "result delivery queue is full, retry later", http.StatusServiceUnavailable))
			return
		}
		httpx.WriteError(ctx, w, httpx.NewError("delivery_unavailable", "result delivery is unavailable", http.StatusServiceUnavailable))
		return
	}

	writeJSONResponse(w, http.StatusAccepted, phonetizeResponse{
		JobID:  result.ID,
		Status: "queued",
	})
}

func (h *WebhookHandlers) validateReplyURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", errors.New("reply_url is required")
	}
	parsed, err := url.Parse(raw)
	if err != nil {
		return "", errors.New("reply_url is not a valid URL")
	}
	if parsed.Scheme != "https" && parsed.Scheme != "http" {
		return "", errors.New("reply_url must use http or https")
	}
	host := strings.ToLower(parsed.Hostname())
	if host == "" {
		return "", errors.New("reply_url host is required")
	}
	if len(h.allowedHosts) > 0 {
		if _, ok := h.allowedHosts[host]; !ok {
			return "", errors.New("reply_url host is not on the allow list")
		}
	}
	return parsed.String(), nil
}

type phonetizeRequest struct {
	Text     string `json:"text"`
	ReplyURL string `json:"reply_url"`
}

type phonetizeResponse struct {
	JobID  string `json:"job_id"`
	Status string `json:"status"`
}
