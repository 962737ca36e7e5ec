// Package services hosts the application services that sit between the HTTP
// handlers and the transliteration engine.
package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
)

var (
	errTransliterationEngineRequired = errors.New("transliteration: engine is required")
	errTransliterationClockRequired  = errors.New("transliteration: clock is required")
)

// ErrTransliterationEmptyInput indicates the caller submitted blank text.
var ErrTransliterationEmptyInput = errors.New("transliteration: empty input")

// ErrTransliterationInvalidInput indicates the caller provided invalid data.
var ErrTransliterationInvalidInput = errors.New("transliteration: invalid input")

// ErrTransliterationUnavailable indicates the service cannot complete the request due to missing dependencies.
var ErrTransliterationUnavailable = errors.New("transliteration: service unavailable")

const (
	defaultMaxInputLength   = 512
	transliterationIDPrefix = "tlit_"
)

// Engine produces a Latin phonetic rendering of Arabic-script text.
type Engine interface {
	Transliterate(text string) string
}

// EngineFunc adapts a plain function to the Engine interface.
type EngineFunc func(string) string

// Transliterate implements Engine.
func (f EngineFunc) Transliterate(text string) string {
	if f == nil {
		return ""
	}
	return f(text)
}

// ConversionCommand carries the caller inputs for a conversion.
type ConversionCommand struct {
	Text   string
	Caller string
}

// Transliteration records a completed conversion.
type Transliteration struct {
	ID        string
	Input     string
	Result    string
	Caller    string
	Empty     bool
	CreatedAt time.Time
}

// TransliterationService converts Arabic-script text into Latin phonetic form.
type TransliterationService interface {
	Convert(ctx context.Context, cmd ConversionCommand) (Transliteration, error)
}

// TransliterationServiceDeps wires the engine and ambient dependencies.
type TransliterationServiceDeps struct {
	Engine         Engine
	Clock          func() time.Time
	IDGenerator    func() string
	Logger         func(context.Context, string, map[string]any)
	MaxInputLength int
}

type transliterationService struct {
	engine   Engine
	now      func() time.Time
	newID    func() string
	logger   func(context.Context, string, map[string]any)
	maxInput int
}

// NewTransliterationService constructs a TransliterationService with the provided dependencies.
func NewTransliterationService(deps TransliterationServiceDeps) (TransliterationService, error) {
	if deps.Engine == nil {
		return nil, errTransliterationEngineRequired
	}

	clock := deps.Clock
	if clock == nil {
		return nil, errTransliterationClockRequired
	}

	idGen := deps.IDGenerator
	if idGen == nil {
		idGen = func() string { return ulid.Make().String() }
	}

	logger := deps.Logger
	if logger == nil {
		logger = func(context.Context, string, map[string]any) {}
	}

	maxInput := deps.MaxInputLength
	if maxInput <= 0 {
		maxInput = defaultMaxInputLength
	}

	return &transliterationService{
		engine:   deps.Engine,
		now:      func() time.Time { return clock().UTC() },
		newID:    func() string { return transliterationIDPrefix + strings.ToLower(idGen()) },
		logger:   logger,
		maxInput: maxInput,
	}, nil
}

// Convert runs the transliteration pipeline over the submitted text.
func (s *transliterationService) Convert(ctx context.Context, cmd ConversionCommand) (Transliteration, error) {
	if s == nil || s.engine == nil {
		return Transliteration{}, ErrTransliterationUnavailable
	}

	text := strings.TrimSpace(cmd.Text)
	if text == "" {
		return Transliteration{}, ErrTransliterationEmptyInput
	}
	if len([]rune(text)) > s.maxInput {
		return Transliteration{}, ErrTransliterationInvalidInput
	}

	result := s.engine.Transliterate(text)
	empty := strings.TrimSpace(result) == ""
	if empty {
		result = ""
		s.logger(ctx, "transliteration.empty_result", map[string]any{
			"caller": strings.TrimSpace(cmd.Caller),
		})
	}

	return Transliteration{
		ID:        s.newID(),
		Input:     text,
		Result:    result,
		Caller:    strings.TrimSpace(cmd.Caller),
		Empty:     empty,
		CreatedAt: s.now(),
	}, nil
}
