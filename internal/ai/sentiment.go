package ai

import (
	"context"
	"fmt"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Sentiment labels.
const (
	SentimentPositive = "Positive"
	SentimentNeutral  = "Neutral"
	SentimentNegative = "Negative"
	SentimentMixed    = "Mixed"
)

// SentimentInput is the validated input of the sentiment flow.
type SentimentInput struct {
	Entries []string `json:"entries"` // diary/notes excerpts, newest first
}

// Validate validates the flow input.
func (i SentimentInput) Validate() error {
	return validation.ValidateStruct(&i,
		validation.Field(&i.Entries, validation.Required,
			validation.Each(validation.Required, validation.Length(1, 4000))),
	)
}

// SentimentResult is the validated output of the sentiment flow.
type SentimentResult struct {
	Sentiment  string  `json:"sentiment"`
	Confidence float64 `json:"confidence"` // 0..1
	Summary    string  `json:"summary"`
}

// Validate validates the flow output.
func (r SentimentResult) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Sentiment, validation.Required,
			validation.In(SentimentPositive, SentimentNeutral, SentimentNegative, SentimentMixed)),
		validation.Field(&r.Confidence, validation.Min(0.0), validation.Max(1.0)),
		validation.Field(&r.Summary, validation.Required, validation.Length(1, 1000)),
	)
}

// Sentiment analyzes the overall tone of diary entries. On any model
// failure it returns a neutral result rather than an error.
func (f *Flows) Sentiment(ctx context.Context, in SentimentInput) (SentimentResult, error) {
	if err := in.Validate(); err != nil {
		return SentimentResult{}, invalid(err)
	}

	prompt := fmt.Sprintf(`Classify the overall sentiment of the diary entries below. Produce a JSON
object {"sentiment":"Positive|Neutral|Negative|Mixed","confidence":0.0-1.0,"summary":"one or two sentences"}.

Entries: %s`, mustJSON(in.Entries))

	var out SentimentResult
	if f.generate(ctx, "sentiment", prompt, &out) {
		return out, nil
	}
	return SentimentResult{
		Sentiment:  SentimentNeutral,
		Confidence: 0,
		Summary:    "Sentiment analysis is unavailable right now; no tone could be inferred from the entries.",
	}, nil
}
