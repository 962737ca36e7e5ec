package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/achouradigital/arabic-phon-bot/internal/platform/auth"
	"github.com/achouradigital/arabic-phon-bot/internal/platform/httpx"
	"github.com/achouradigital/arabic-phon-bot/internal/services"
)

const maxConvertRequestBody = 16 * 1024

// TransliterationHandlers exposes the synchronous conversion endpoint.
type TransliterationHandlers struct {
	svc services.TransliterationService
}

// NewTransliterationHandlers constructs the transliteration handler set.
func NewTransliterationHandlers(svc services.TransliterationService) *TransliterationHandlers {
	return &TransliterationHandlers{svc: svc}
}

// Routes registers the conversion endpoint.
func (h *TransliterationHandlers) Routes(r chi.Router) {
	if r == nil {
		return
	}
	r.Post("/transliterations:convert", h.convert)
}

func (h *TransliterationHandlers) convert(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if h.svc == nil {
		httpx.WriteError(ctx, w, httpx.NewError("service_unavailable", "transliteration service not available", http.StatusServiceUnavailable))
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

	var req convertRequest
	if err := json.Unmarshal(body, &req); err != nil {
		httpx.WriteError(ctx, w, httpx.NewError("invalid_request", "invalid JSON payload", http.StatusBadRequest))
		return
	}

	cmd := services.ConversionCommand{
		Text:   req.Text,
		Caller: callerFromContext(ctx),
	}

	result, err := h.svc.Convert(ctx, cmd)
	if err != nil {
		writeTransliterationError(ctx, w, err)
		return
	}

	writeJSONResponse(w, http.StatusOK, transliterationResponse{
		Transliteration: buildTransliterationPayload(result),
	})
}

type convertRequest struct {
	Text string `json:"text"`
}

type transliterationResponse struct {
	Transliteration transliterationPayload `json:"transliteration"`
}

type transliterationPayload struct {
	ID        string `json:"id"`
	Input     string `json:"input"`
	Result    string `json:"result"`
	Empty     bool   `json:"empty,omitempty"`
	CreatedAt string `json:"created_at"`
}

func buildTransliterationPayload(t services.Transliteration) transliterationPayload {
	return transliterationPayload{
		ID:        t.ID,
		Input:     t.Input,
		Result:    t.Result,
		Empty:     t.Empty,
		CreatedAt: formatTime(t.CreatedAt),
	}
}

func callerFromContext(ctx context.Context) string {
	if meta, ok := auth.HMACMetadataFromContext(ctx); ok && meta != nil {
		if name := strings.TrimSpace(meta.SecretName); name != "" {
			return name
		}
	}
	return "anonymous"
}

func writeTransliterationError(ctx context.Context, w http.ResponseWriter, err error) {
	if err == nil {
		return
	}
	switch {
	case errors.Is(err, services.ErrTransliterationEmptyInput):
		httpx.WriteError(ctx, w, httpx.NewError("empty_input", "text is required", http.StatusBadRequest))
	case errors.Is(err, services.ErrTransliterationInvalidInput):
		httpx.WriteError(ctx, w, httpx.NewError("invalid_request", err.Error(), http.StatusBadRequest))
	case errors.Is(err, services.ErrTransliterationUnavailable):
		httpx.WriteError(ctx, w, httpx.NewError("service_unavailable", "transliteration service temporarily unavailable", http.StatusServiceUnavailable))
	default:
		httpx.WriteError(ctx, w, httpx.NewError("transliteration_error", "failed to transliterate text", http.StatusInternalServerError))
	}
}
