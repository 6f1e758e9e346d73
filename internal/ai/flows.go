package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/eunoia-app/eunoia/internal/apperr"
)

// Flows bundles the generative-model flows. A nil Generator disables the
// model entirely: every flow then returns its local fallback.
type Flows struct {
	gen    Generator
	logger *slog.Logger
}

// NewFlows creates the flow set. gen may be nil.
func NewFlows(gen Generator, logger *slog.Logger) *Flows {
	return &Flows{gen: gen, logger: logger}
}

type validator interface {
	Validate() error
}

// generate runs one flow round-trip: validate input, call the model,
// validate output. It returns false when the caller must use the fallback.
// Model-side failures are absorbed here (logged, never surfaced) so the
// user always receives a usable result.
func (f *Flows) generate(ctx context.Context, flow, prompt string, out validator) bool {
	if f.gen == nil {
		return false
	}
	if err := f.gen.GenerateJSON(ctx, prompt, out); err != nil {
		f.logger.Warn("ai: model call failed, using fallback",
			slog.String("flow", flow),
			slog.String("error", err.Error()))
		return false
	}
	if err := out.Validate(); err != nil {
		f.logger.Warn("ai: model output failed validation, using fallback",
			slog.String("flow", flow),
			slog.String("error", err.Error()))
		return false
	}
	return true
}

// invalid wraps a validation failure in the shared sentinel.
func invalid(err error) error {
	return fmt.Errorf("%w: %v", apperr.ErrInvalid, err)
}

// mustJSON renders v for prompt embedding. Inputs are plain structs, so
// marshalling cannot fail in practice.
func mustJSON(v any) string {
	data, err := json.Marshal(v)
	if err != nil {
		return "{}"
	}
	return string(data)
}
