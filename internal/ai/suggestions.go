package ai

import (
	"context"
	"fmt"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/eunoia-app/eunoia/internal/models"
)

// SuggestionsInput is the validated input of the suggestions flow.
type SuggestionsInput struct {
	Scores         map[models.LifeArea]int `json:"scores"`
	NeglectedAreas []models.LifeArea       `json:"neglectedAreas"`
	FocusAverage   float64                 `json:"focusAverage"`
}

// Validate validates the flow input.
func (i SuggestionsInput) Validate() error {
	return validation.ValidateStruct(&i,
		validation.Field(&i.Scores, validation.Required),
	)
}

// Suggestion is one actionable recommendation for a life area.
type Suggestion struct {
	Area models.LifeArea `json:"area"`
	Text string          `json:"text"`
}

// Validate validates one suggestion.
func (s Suggestion) Validate() error {
	areas := make([]interface{}, 0, len(models.Areas()))
	for _, a := range models.Areas() {
		areas = append(areas, a)
	}
	return validation.ValidateStruct(&s,
		validation.Field(&s.Area, validation.Required, validation.In(areas...)),
		validation.Field(&s.Text, validation.Required, validation.Length(1, 500)),
	)
}

// SuggestionsResult is the validated output of the suggestions flow.
type SuggestionsResult struct {
	Suggestions []Suggestion `json:"suggestions"`
}

// Validate validates the flow output.
func (r SuggestionsResult) Validate() error {
	if len(r.Suggestions) == 0 {
		return fmt.Errorf("suggestions: cannot be blank")
	}
	for i, s := range r.Suggestions {
		if err := s.Validate(); err != nil {
			return fmt.Errorf("suggestions[%d]: %w", i, err)
		}
	}
	return nil
}

var cannedSuggestions = map[models.LifeArea]string{
	models.AreaWork:    "Block thirty minutes to review your open tasks and pick tomorrow's top priority.",
	models.AreaGrowth:  "Spend fifteen minutes reading or journaling about something you want to learn.",
	models.AreaHealth:  "Take a short walk or stretch break today.",
	models.AreaSocial:  "Reach out to a friend or family member you have not spoken to this week.",
	models.AreaFinance: "Log today's expenses and glance at your spending for the week.",
	models.AreaHobbies: "Set aside time for an activity you enjoy, without a goal attached.",
	models.AreaChores:  "Knock out one small household task you have been putting off.",
}

// Suggestions recommends actions for the most neglected life areas.
// On any model failure it returns canned suggestions per neglected area.
func (f *Flows) Suggestions(ctx context.Context, in SuggestionsInput) (SuggestionsResult, error) {
	if err := in.Validate(); err != nil {
		return SuggestionsResult{}, invalid(err)
	}

	prompt := fmt.Sprintf(`You are a wellness coach. Given per-area activity scores (percent of the
user's tracked activity) and the list of neglected areas, produce a JSON object
{"suggestions":[{"area":"...","text":"..."}]} with one short, concrete suggestion per neglected
area (or per lowest-scoring area when nothing is fully neglected). Area must be one of:
Work/Career, Personal Growth, Health/Wellness, Social/Relationships, Finance, Hobbies/Leisure,
Responsibilities/Chores.

Input: %s`, mustJSON(in))

	var out SuggestionsResult
	if f.generate(ctx, "suggestions", prompt, &out) {
		return out, nil
	}
	return fallbackSuggestions(in), nil
}

func fallbackSuggestions(in SuggestionsInput) SuggestionsResult {
	areas := in.NeglectedAreas
	if len(areas) == 0 {
		// Nothing neglected: suggest for the single lowest-scoring area.
		low := models.AreaGrowth
		lowScore := 101
		for _, a := range models.Areas() {
			if s, ok := in.Scores[a]; ok && s < lowScore {
				low, lowScore = a, s
			}
		}
		areas = []models.LifeArea{low}
	}

	out := SuggestionsResult{}
	for _, a := range areas {
		text, ok := cannedSuggestions[a]
		if !ok {
			continue
		}
		out.Suggestions = append(out.Suggestions, Suggestion{Area: a, Text: text})
	}
	return out
}
