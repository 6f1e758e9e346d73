package ai

import (
	"context"
	"fmt"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Burnout risk levels.
const (
	BurnoutLow      = "Low"
	BurnoutModerate = "Moderate"
	BurnoutHigh     = "High"
)

// BurnoutInput is the validated input of the burnout-risk flow.
type BurnoutInput struct {
	WorkShare         int     `json:"workShare"`         // Work/Career score, 0..100
	FocusAverage      float64 `json:"focusAverage"`      // 0 when no samples
	CompletedRatio    float64 `json:"completedRatio"`    // 0..1
	NegativeMoodShare float64 `json:"negativeMoodShare"` // 0..1
}

// Validate validates the flow input.
func (i BurnoutInput) Validate() error {
	return validation.ValidateStruct(&i,
		validation.Field(&i.WorkShare, validation.Min(0), validation.Max(100)),
		validation.Field(&i.FocusAverage, validation.Min(0.0), validation.Max(5.0)),
		validation.Field(&i.CompletedRatio, validation.Min(0.0), validation.Max(1.0)),
		validation.Field(&i.NegativeMoodShare, validation.Min(0.0), validation.Max(1.0)),
	)
}

// BurnoutResult is the validated output of the burnout-risk flow.
type BurnoutResult struct {
	Risk    int      `json:"risk"` // 0..100
	Level   string   `json:"level"`
	Factors []string `json:"factors,omitempty"`
}

// Validate validates the flow output.
func (r BurnoutResult) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Risk, validation.Min(0), validation.Max(100)),
		validation.Field(&r.Level, validation.Required,
			validation.In(BurnoutLow, BurnoutModerate, BurnoutHigh)),
	)
}

// Burnout estimates burnout risk from period trends. On any model failure
// it returns the local heuristic estimate.
func (f *Flows) Burnout(ctx context.Context, in BurnoutInput) (BurnoutResult, error) {
	if err := in.Validate(); err != nil {
		return BurnoutResult{}, invalid(err)
	}

	prompt := fmt.Sprintf(`Estimate burnout risk from the indicators below. Produce a JSON object
{"risk":0-100,"level":"Low|Moderate|High","factors":["..."]} where factors name the indicators
that drove the estimate.

Input: %s`, mustJSON(in))

	var out BurnoutResult
	if f.generate(ctx, "burnout", prompt, &out) {
		return out, nil
	}
	return fallbackBurnout(in), nil
}

// fallbackBurnout is a bounded additive heuristic over the four indicators.
func fallbackBurnout(in BurnoutInput) BurnoutResult {
	risk := 0
	var factors []string

	if in.WorkShare > 50 {
		risk += in.WorkShare - 50
		factors = append(factors, "work dominates tracked activity")
	}
	if in.FocusAverage > 0 && in.FocusAverage < 3 {
		risk += 20
		factors = append(factors, "low average focus")
	}
	if in.CompletedRatio < 0.5 {
		risk += 20
		factors = append(factors, "less than half of tasks completed")
	}
	if in.NegativeMoodShare > 0.3 {
		risk += 25
		factors = append(factors, "frequent negative mood entries")
	}
	if risk > 100 {
		risk = 100
	}

	level := BurnoutLow
	switch {
	case risk >= 67:
		level = BurnoutHigh
	case risk >= 34:
		level = BurnoutModerate
	}

	return BurnoutResult{Risk: risk, Level: level, Factors: factors}
}
