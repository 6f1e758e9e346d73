package ai

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eunoia-app/eunoia/internal/apperr"
	"github.com/eunoia-app/eunoia/internal/models"
)

// stubGen returns a fixed payload or error in place of the model.
type stubGen struct {
	payload string
	err     error
}

func (s stubGen) GenerateJSON(_ context.Context, _ string, out any) error {
	if s.err != nil {
		return s.err
	}
	return json.Unmarshal([]byte(s.payload), out)
}

func testFlows(gen Generator) *Flows {
	return NewFlows(gen, slog.Default())
}

func TestDailyPlanModelSuccess(t *testing.T) {
	payload := `{"date":"2026-08-14","blocks":[{"start":"09:00","end":"10:00","activity":"Write report","area":"Work/Career"}],"summary":"ok"}`
	f := testFlows(stubGen{payload: payload})

	got, err := f.DailyPlan(context.Background(), DailyPlanInput{Date: "2026-08-14"})
	require.NoError(t, err)
	require.Len(t, got.Blocks, 1)
	assert.Equal(t, models.AreaWork, got.Blocks[0].Area)
}

func TestDailyPlanFallbackOnModelError(t *testing.T) {
	f := testFlows(stubGen{err: errors.New("boom")})

	in := DailyPlanInput{
		Date: "2026-08-14",
		Tasks: []TaskBrief{
			{Title: "Write report", Status: string(models.TaskPending)},
			{Title: "Old task", Status: string(models.TaskCompleted)},
		},
		Events: []EventBrief{{Title: "Standup", Start: "10:00", End: "10:30"}},
	}
	got, err := f.DailyPlan(context.Background(), in)
	require.NoError(t, err)

	// Completed tasks are skipped; the event and one task remain.
	require.Len(t, got.Blocks, 2)
	assert.NoError(t, got.Validate(), "fallback output must satisfy the output schema")
	assert.True(t, got.Blocks[0].Start <= got.Blocks[1].Start, "blocks must be sorted")
}

func TestDailyPlanFallbackOnInvalidOutput(t *testing.T) {
	// Area outside the enum must be rejected and replaced by the fallback.
	payload := `{"date":"2026-08-14","blocks":[{"start":"09:00","end":"10:00","activity":"x","area":"Nonsense"}],"summary":"ok"}`
	f := testFlows(stubGen{payload: payload})

	got, err := f.DailyPlan(context.Background(), DailyPlanInput{Date: "2026-08-14"})
	require.NoError(t, err)
	assert.NoError(t, got.Validate())
	for _, b := range got.Blocks {
		assert.NotEqual(t, models.LifeArea("Nonsense"), b.Area)
	}
}

func TestDailyPlanRejectsInvalidInput(t *testing.T) {
	f := testFlows(nil)
	_, err := f.DailyPlan(context.Background(), DailyPlanInput{Date: "not-a-date"})
	assert.ErrorIs(t, err, apperr.ErrInvalid)
}

func TestSuggestionsFallbackCoversNeglectedAreas(t *testing.T) {
	f := testFlows(stubGen{err: errors.New("boom")})

	in := SuggestionsInput{
		Scores:         map[models.LifeArea]int{models.AreaWork: 100},
		NeglectedAreas: []models.LifeArea{models.AreaHealth, models.AreaSocial},
	}
	got, err := f.Suggestions(context.Background(), in)
	require.NoError(t, err)
	require.Len(t, got.Suggestions, 2)
	assert.Equal(t, models.AreaHealth, got.Suggestions[0].Area)
	assert.Equal(t, models.AreaSocial, got.Suggestions[1].Area)
	assert.NoError(t, got.Validate())
}

func TestSuggestionsFallbackWithNothingNeglected(t *testing.T) {
	f := testFlows(nil)

	in := SuggestionsInput{
		Scores: map[models.LifeArea]int{
			models.AreaWork:    40,
			models.AreaHealth:  10,
			models.AreaGrowth:  20,
			models.AreaSocial:  10,
			models.AreaFinance: 10,
			models.AreaHobbies: 5,
			models.AreaChores:  5,
		},
	}
	got, err := f.Suggestions(context.Background(), in)
	require.NoError(t, err)
	require.Len(t, got.Suggestions, 1, "lowest-scoring area only")
}

func TestSentimentFallbackIsNeutral(t *testing.T) {
	f := testFlows(stubGen{err: errors.New("boom")})

	got, err := f.Sentiment(context.Background(), SentimentInput{Entries: []string{"rough day"}})
	require.NoError(t, err)
	assert.Equal(t, SentimentNeutral, got.Sentiment)
	assert.NoError(t, got.Validate())
}

func TestSentimentRejectsOutOfRangeConfidence(t *testing.T) {
	payload := `{"sentiment":"Positive","confidence":3.5,"summary":"great"}`
	f := testFlows(stubGen{payload: payload})

	got, err := f.Sentiment(context.Background(), SentimentInput{Entries: []string{"good day"}})
	require.NoError(t, err)
	// Out-of-range confidence fails validation, so the fallback applies.
	assert.Equal(t, SentimentNeutral, got.Sentiment)
}

func TestProductivityFallbackFormula(t *testing.T) {
	f := testFlows(nil)

	got, err := f.Productivity(context.Background(), ProductivityInput{
		CompletedTasks: 3,
		TotalTasks:     4,
		FocusAverage:   4,
	})
	require.NoError(t, err)
	// 0.75*70 + 0.8*30 = 76.5, rounded half away from zero.
	assert.Equal(t, 77, got.Score)
	assert.NoError(t, got.Validate())
}

func TestBurnoutFallbackHeuristic(t *testing.T) {
	f := testFlows(nil)

	got, err := f.Burnout(context.Background(), BurnoutInput{
		WorkShare:         80,
		FocusAverage:      2,
		CompletedRatio:    0.2,
		NegativeMoodShare: 0.5,
	})
	require.NoError(t, err)
	assert.Equal(t, 95, got.Risk)
	assert.Equal(t, BurnoutHigh, got.Level)
	assert.Len(t, got.Factors, 4)

	calm, err := f.Burnout(context.Background(), BurnoutInput{
		WorkShare:      30,
		FocusAverage:   4,
		CompletedRatio: 0.9,
	})
	require.NoError(t, err)
	assert.Equal(t, BurnoutLow, calm.Level)
}
