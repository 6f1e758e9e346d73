package service

import (
	"context"
	"testing"
	"time"

	"github.com/eunoia-app/eunoia/internal/ai"
	"github.com/eunoia-app/eunoia/internal/insights"
	"github.com/eunoia-app/eunoia/internal/models"
	"github.com/eunoia-app/eunoia/internal/testutil"
)

// countingGen counts model calls; its payload is always rejected so flows
// land on their deterministic fallbacks.
type countingGen struct{ calls int }

func (g *countingGen) GenerateJSON(context.Context, string, any) error {
	g.calls++
	return ai.ErrEmptyResponse
}

func newReportService(t *testing.T) (*Service, *countingGen) {
	t.Helper()
	gen := &countingGen{}
	s := New(testutil.TestStore(t), &fakeIndex{}, ai.NewFlows(gen, testutil.Logger()), nil, testutil.Logger())
	return s, gen
}

func june(day, hour int) time.Time {
	return time.Date(2025, 6, day, hour, 0, 0, 0, time.UTC)
}

func juneRange() insights.Range {
	return insights.Range{Start: june(1, 0), End: june(30, 23)}
}

func TestReportNoDataSkipsModel(t *testing.T) {
	s, gen := newReportService(t)

	got, err := s.Report(context.Background(), juneRange())
	if err != nil {
		t.Fatalf("Report: %v", err)
	}
	if !got.NoData {
		t.Error("expected NoData")
	}
	if got.Message == "" {
		t.Error("expected a message")
	}
	if len(got.Summary.NeglectedAreas) != len(models.Areas()) {
		t.Errorf("neglected areas = %d, want %d", len(got.Summary.NeglectedAreas), len(models.Areas()))
	}
	if gen.calls != 0 {
		t.Errorf("model calls = %d, want 0", gen.calls)
	}
}

func TestReportWithData(t *testing.T) {
	s, gen := newReportService(t)
	ctx := context.Background()

	if _, err := s.CreateLog(ctx, models.LogEntry{Activity: "Worked on report with client", Date: june(10, 9)}); err != nil {
		t.Fatal(err)
	}
	if _, err := s.CreateTask(ctx, models.Task{Title: "Ship release", Status: models.TaskCompleted}); err != nil {
		t.Fatal(err)
	}

	r := insights.Range{Start: june(1, 0), End: time.Now().Add(time.Hour)}
	got, err := s.Report(ctx, r)
	if err != nil {
		t.Fatalf("Report: %v", err)
	}
	if got.NoData {
		t.Fatal("expected data")
	}
	if got.Summary.Counts[models.AreaWork] == 0 {
		t.Error("expected work activity to be counted")
	}
	if len(got.Suggestions) == 0 {
		t.Error("expected fallback suggestions")
	}
	if got.Productivity == nil || got.Productivity.Narrative == "" {
		t.Error("expected a productivity review")
	}
	if gen.calls == 0 {
		t.Error("expected the model to be consulted")
	}
}

func TestSentimentReportNoEntriesSkipsModel(t *testing.T) {
	s, gen := newReportService(t)

	got, err := s.SentimentReport(context.Background(), juneRange())
	if err != nil {
		t.Fatalf("SentimentReport: %v", err)
	}
	if got.Sentiment != ai.SentimentNeutral {
		t.Errorf("sentiment = %q, want Neutral", got.Sentiment)
	}
	if gen.calls != 0 {
		t.Errorf("model calls = %d, want 0", gen.calls)
	}
}

func TestSentimentReportCollectsDiaryEntries(t *testing.T) {
	s, gen := newReportService(t)
	ctx := context.Background()

	if _, err := s.CreateLog(ctx, models.LogEntry{
		Activity:   "Evening walk",
		Date:       june(12, 20),
		DiaryEntry: "Felt calm and rested today.",
	}); err != nil {
		t.Fatal(err)
	}

	if _, err := s.SentimentReport(ctx, juneRange()); err != nil {
		t.Fatalf("SentimentReport: %v", err)
	}
	if gen.calls != 1 {
		t.Errorf("model calls = %d, want 1", gen.calls)
	}
}

func TestBurnoutReportNoData(t *testing.T) {
	s, gen := newReportService(t)

	got, err := s.BurnoutReport(context.Background(), juneRange())
	if err != nil {
		t.Fatalf("BurnoutReport: %v", err)
	}
	if got.Risk != 0 || got.Level != ai.BurnoutLow {
		t.Errorf("risk = %d/%s, want 0/Low", got.Risk, got.Level)
	}
	if gen.calls != 0 {
		t.Errorf("model calls = %d, want 0", gen.calls)
	}
}

func TestPlanDayFallsBackWithoutModel(t *testing.T) {
	s, _ := newReportService(t)
	ctx := context.Background()

	day := june(16, 0)
	if _, err := s.CreateTask(ctx, models.Task{Title: "Prepare slides"}); err != nil {
		t.Fatal(err)
	}
	start := june(16, 10)
	end := june(16, 11)
	if _, err := s.CreateEvent(ctx, models.CalendarEvent{Title: "Team sync", Start: start, End: end}); err != nil {
		t.Fatal(err)
	}

	plan, err := s.PlanDay(ctx, day)
	if err != nil {
		t.Fatalf("PlanDay: %v", err)
	}
	if plan.Date != "2025-06-16" {
		t.Errorf("plan date = %q", plan.Date)
	}
	if len(plan.Blocks) == 0 {
		t.Fatal("expected plan blocks")
	}
	var foundEvent, foundTask bool
	for _, b := range plan.Blocks {
		if b.Activity == "Team sync" {
			foundEvent = true
		}
		if b.Activity == "Prepare slides" {
			foundTask = true
		}
	}
	if !foundEvent {
		t.Error("calendar event missing from plan")
	}
	if !foundTask {
		t.Error("open task missing from plan")
	}
}

func TestExecuteIntentAddTask(t *testing.T) {
	s, _ := newReportService(t)
	ctx := context.Background()

	res, err := s.ExecuteIntent(ctx, ai.Intent{Action: ai.ActionAddTask, Title: "buy milk"})
	if err != nil {
		t.Fatalf("ExecuteIntent: %v", err)
	}
	if !res.Executed || res.Resource != models.ColTasks || res.ID == "" {
		t.Fatalf("result = %+v", res)
	}
	if _, err := s.GetTask(ctx, res.ID); err != nil {
		t.Errorf("created task missing: %v", err)
	}
}

func TestExecuteIntentCompleteHabitByTitle(t *testing.T) {
	s, _ := newReportService(t)
	ctx := context.Background()

	h, err := s.CreateHabit(ctx, models.Habit{Title: "Meditation"})
	if err != nil {
		t.Fatal(err)
	}

	res, err := s.ExecuteIntent(ctx, ai.Intent{Action: ai.ActionCompleteHabit, Title: "meditation habit"})
	if err != nil {
		t.Fatalf("ExecuteIntent: %v", err)
	}
	if !res.Executed || res.ID != h.ID {
		t.Fatalf("result = %+v", res)
	}

	got, err := s.GetHabit(ctx, h.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.Streak != 1 {
		t.Errorf("streak = %d, want 1", got.Streak)
	}
}

func TestExecuteIntentUnknownIsNoOp(t *testing.T) {
	s, _ := newReportService(t)

	res, err := s.ExecuteIntent(context.Background(), ai.Intent{Action: ai.ActionUnknown, Title: "what is the weather"})
	if err != nil {
		t.Fatalf("ExecuteIntent: %v", err)
	}
	if res.Executed {
		t.Error("unknown intent must not execute")
	}
	if res.Message == "" {
		t.Error("expected a message")
	}
}

func TestVoiceCommandReminderFallback(t *testing.T) {
	s, _ := newReportService(t)

	res, err := s.VoiceCommand(context.Background(), "remind me to call the dentist")
	if err != nil {
		t.Fatalf("VoiceCommand: %v", err)
	}
	if !res.Executed || res.Resource != models.ColReminders {
		t.Fatalf("result = %+v", res)
	}
	rm, err := s.GetReminder(context.Background(), res.ID)
	if err != nil {
		t.Fatal(err)
	}
	if rm.Title != "call the dentist" {
		t.Errorf("reminder title = %q", rm.Title)
	}
	if rm.DateTime.IsZero() {
		t.Error("expected a default reminder time")
	}
}
