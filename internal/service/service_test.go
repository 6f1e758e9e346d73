package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/eunoia-app/eunoia/internal/ai"
	"github.com/eunoia-app/eunoia/internal/apperr"
	"github.com/eunoia-app/eunoia/internal/index"
	"github.com/eunoia-app/eunoia/internal/models"
	"github.com/eunoia-app/eunoia/internal/testutil"
)

// fakeIndex records calls so tests can assert indexing without sqlite.
type fakeIndex struct {
	upserts []string
	deletes []string
}

func (f *fakeIndex) Upsert(row index.RecordRow, _ string) error {
	f.upserts = append(f.upserts, row.Key())
	return nil
}
func (f *fakeIndex) Delete(kind, id string) error {
	f.deletes = append(f.deletes, kind+"/"+id)
	return nil
}
func (f *fakeIndex) AllChecksums() (map[string]string, error) { return nil, nil }
func (f *fakeIndex) Search(string, int) ([]index.SearchResult, error) {
	return nil, nil
}
func (f *fakeIndex) Close() error { return nil }

type sinkEvent struct{ kind, resource, id string }

type fakeSink struct{ events []sinkEvent }

func (f *fakeSink) PublishRecordEvent(kind, resource, id string) {
	f.events = append(f.events, sinkEvent{kind, resource, id})
}

func newTestService(t *testing.T) (*Service, *fakeIndex, *fakeSink) {
	t.Helper()
	idx := &fakeIndex{}
	sink := &fakeSink{}
	s := New(testutil.TestStore(t), idx, ai.NewFlows(nil, testutil.Logger()), sink, testutil.Logger())
	return s, idx, sink
}

func TestCreateTaskDefaults(t *testing.T) {
	s, idx, sink := newTestService(t)
	ctx := context.Background()

	task, err := s.CreateTask(ctx, models.Task{Title: "Write report"})
	if err != nil {
		t.Fatalf("CreateTask: %v", err)
	}
	if task.ID == "" {
		t.Error("expected generated id")
	}
	if task.Status != models.TaskPending {
		t.Errorf("status = %q, want %q", task.Status, models.TaskPending)
	}
	if task.CreatedAt.IsZero() {
		t.Error("expected createdAt to be set")
	}
	if len(idx.upserts) != 1 || idx.upserts[0] != "task/"+task.ID {
		t.Errorf("index upserts = %v", idx.upserts)
	}
	if len(sink.events) != 1 || sink.events[0] != (sinkEvent{"created", "tasks", task.ID}) {
		t.Errorf("events = %v", sink.events)
	}
}

func TestCreateTaskRequiresTitle(t *testing.T) {
	s, _, _ := newTestService(t)
	_, err := s.CreateTask(context.Background(), models.Task{Title: "  "})
	if !errors.Is(err, apperr.ErrInvalid) {
		t.Fatalf("err = %v, want ErrInvalid", err)
	}
}

func TestUpdateAndDeleteTask(t *testing.T) {
	s, idx, _ := newTestService(t)
	ctx := context.Background()

	task, err := s.CreateTask(ctx, models.Task{Title: "Draft"})
	if err != nil {
		t.Fatalf("CreateTask: %v", err)
	}

	updated, err := s.UpdateTask(ctx, task.ID, func(t *models.Task) error {
		t.Status = models.TaskCompleted
		return nil
	})
	if err != nil {
		t.Fatalf("UpdateTask: %v", err)
	}
	if updated.Status != models.TaskCompleted {
		t.Errorf("status = %q, want Completed", updated.Status)
	}

	if err := s.DeleteTask(ctx, task.ID); err != nil {
		t.Fatalf("DeleteTask: %v", err)
	}
	if _, err := s.GetTask(ctx, task.ID); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("GetTask after delete: %v, want ErrNotFound", err)
	}
	if len(idx.deletes) != 1 || idx.deletes[0] != "task/"+task.ID {
		t.Errorf("index deletes = %v", idx.deletes)
	}
}

func TestListTasksByStatus(t *testing.T) {
	s, _, _ := newTestService(t)
	ctx := context.Background()

	if _, err := s.CreateTask(ctx, models.Task{Title: "a"}); err != nil {
		t.Fatal(err)
	}
	done, err := s.CreateTask(ctx, models.Task{Title: "b", Status: models.TaskCompleted})
	if err != nil {
		t.Fatal(err)
	}

	got, err := s.ListTasks(ctx, models.TaskCompleted)
	if err != nil {
		t.Fatalf("ListTasks: %v", err)
	}
	if len(got) != 1 || got[0].ID != done.ID {
		t.Errorf("filtered tasks = %v", got)
	}

	all, err := s.ListTasks(ctx, "")
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 2 {
		t.Errorf("all tasks = %d, want 2", len(all))
	}
}

func TestMarkHabitCompleteIdempotentPerDay(t *testing.T) {
	s, _, _ := newTestService(t)
	ctx := context.Background()

	h, err := s.CreateHabit(ctx, models.Habit{Title: "Meditate"})
	if err != nil {
		t.Fatalf("CreateHabit: %v", err)
	}

	base := time.Date(2025, 6, 10, 8, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return base }

	first, changed, err := s.MarkHabitComplete(ctx, h.ID)
	if err != nil {
		t.Fatalf("MarkHabitComplete: %v", err)
	}
	if !changed || first.Streak != 1 {
		t.Fatalf("first completion: changed=%v streak=%d, want true/1", changed, first.Streak)
	}

	// Later the same day: no change.
	s.now = func() time.Time { return base.Add(10 * time.Hour) }
	second, changed, err := s.MarkHabitComplete(ctx, h.ID)
	if err != nil {
		t.Fatal(err)
	}
	if changed || second.Streak != 1 {
		t.Fatalf("same-day completion: changed=%v streak=%d, want false/1", changed, second.Streak)
	}
	if !second.LastCompleted.Equal(*first.LastCompleted) {
		t.Error("lastCompleted moved on a same-day completion")
	}

	// Next day: streak extends.
	s.now = func() time.Time { return base.AddDate(0, 0, 1) }
	third, changed, err := s.MarkHabitComplete(ctx, h.ID)
	if err != nil {
		t.Fatal(err)
	}
	if !changed || third.Streak != 2 {
		t.Fatalf("next-day completion: changed=%v streak=%d, want true/2", changed, third.Streak)
	}

	// Skip a day: a daily habit restarts at 1.
	s.now = func() time.Time { return base.AddDate(0, 0, 3) }
	fourth, _, err := s.MarkHabitComplete(ctx, h.ID)
	if err != nil {
		t.Fatal(err)
	}
	if fourth.Streak != 1 {
		t.Fatalf("streak after gap = %d, want 1", fourth.Streak)
	}
}

func TestMarkHabitCompleteWeeklyKeepsStreakAcrossGap(t *testing.T) {
	s, _, _ := newTestService(t)
	ctx := context.Background()

	h, err := s.CreateHabit(ctx, models.Habit{Title: "Review finances", Frequency: models.FreqWeekly})
	if err != nil {
		t.Fatal(err)
	}

	base := time.Date(2025, 6, 2, 9, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return base }
	if _, _, err := s.MarkHabitComplete(ctx, h.ID); err != nil {
		t.Fatal(err)
	}

	s.now = func() time.Time { return base.AddDate(0, 0, 7) }
	got, _, err := s.MarkHabitComplete(ctx, h.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.Streak != 2 {
		t.Fatalf("weekly streak = %d, want 2", got.Streak)
	}
}

func TestCreateLogValidatesFocus(t *testing.T) {
	s, _, _ := newTestService(t)
	bad := 9
	_, err := s.CreateLog(context.Background(), models.LogEntry{Activity: "Read", FocusLevel: &bad})
	if !errors.Is(err, apperr.ErrInvalid) {
		t.Fatalf("err = %v, want ErrInvalid", err)
	}
}

func TestCreateEventRejectsInvertedRange(t *testing.T) {
	s, _, _ := newTestService(t)
	start := time.Date(2025, 6, 10, 14, 0, 0, 0, time.UTC)
	_, err := s.CreateEvent(context.Background(), models.CalendarEvent{
		Title: "Standup",
		Start: start,
		End:   start.Add(-time.Hour),
	})
	if !errors.Is(err, apperr.ErrInvalid) {
		t.Fatalf("err = %v, want ErrInvalid", err)
	}
}
