package ai

import (
	"context"
	"fmt"
	"math"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/eunoia-app/eunoia/internal/models"
)

// ProductivityInput is the validated input of the productivity flow.
type ProductivityInput struct {
	Scores         map[models.LifeArea]int `json:"scores"`
	FocusAverage   float64                 `json:"focusAverage"` // 0 when no samples
	CompletedTasks int                     `json:"completedTasks"`
	TotalTasks     int                     `json:"totalTasks"`
}

// Validate validates the flow input.
func (i ProductivityInput) Validate() error {
	return validation.ValidateStruct(&i,
		validation.Field(&i.FocusAverage, validation.Min(0.0), validation.Max(5.0)),
		validation.Field(&i.CompletedTasks, validation.Min(0)),
		validation.Field(&i.TotalTasks, validation.Min(0)),
	)
}

// ProductivityResult is the validated output of the productivity flow.
type ProductivityResult struct {
	Score      int      `json:"score"` // 0..100
	Narrative  string   `json:"narrative"`
	Highlights []string `json:"highlights,omitempty"`
}

// Validate validates the flow output.
func (r ProductivityResult) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Score, validation.Min(0), validation.Max(100)),
		validation.Field(&r.Narrative, validation.Required, validation.Length(1, 2000)),
	)
}

// Productivity rates the period's output and writes a short narrative.
// On any model failure it returns the locally computed score.
func (f *Flows) Productivity(ctx context.Context, in ProductivityInput) (ProductivityResult, error) {
	if err := in.Validate(); err != nil {
		return ProductivityResult{}, invalid(err)
	}

	prompt := fmt.Sprintf(`Rate the user's productivity for the period. Produce a JSON object
{"score":0-100,"narrative":"two or three sentences","highlights":["..."]}.
Base the score on task completion, focus average (1-5 scale), and balance across life areas.

Input: %s`, mustJSON(in))

	var out ProductivityResult
	if f.generate(ctx, "productivity", prompt, &out) {
		return out, nil
	}
	return fallbackProductivity(in), nil
}

// fallbackProductivity weighs task completion at 70% and focus at 30%.
// With no tasks at all the completion component counts as half credit.
func fallbackProductivity(in ProductivityInput) ProductivityResult {
	completion := 0.5
	if in.TotalTasks > 0 {
		completion = float64(in.CompletedTasks) / float64(in.TotalTasks)
	}

	focus := in.FocusAverage / 5.0
	if in.FocusAverage == 0 {
		focus = 0.5 // no samples: neutral
	}

	score := int(math.Round(completion*70 + focus*30))
	if score > 100 {
		score = 100
	}

	narrative := fmt.Sprintf(
		"You completed %d of %d tasks this period.", in.CompletedTasks, in.TotalTasks)
	if in.FocusAverage > 0 {
		narrative += fmt.Sprintf(" Average focus was %.1f out of 5.", in.FocusAverage)
	}

	return ProductivityResult{Score: score, Narrative: narrative}
}
