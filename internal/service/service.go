// Package service coordinates storage, the search index, the SSE broker,
// and the AI flows behind the HTTP and MCP surfaces.
package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/eunoia-app/eunoia/internal/ai"
	"github.com/eunoia-app/eunoia/internal/apperr"
	"github.com/eunoia-app/eunoia/internal/index"
	"github.com/eunoia-app/eunoia/internal/models"
	"github.com/eunoia-app/eunoia/internal/store"
)

// EventSink receives record mutation events. The SSE broker implements it.
type EventSink interface {
	PublishRecordEvent(kind, resource, id string)
}

// Service is the application service layer.
type Service struct {
	st     *store.Store
	idx    index.RecordIndex
	flows  *ai.Flows
	events EventSink
	logger *slog.Logger
	now    func() time.Time
}

// New creates a Service. events may be nil when no broker is attached
// (MCP mode, tests).
func New(st *store.Store, idx index.RecordIndex, flows *ai.Flows, events EventSink, logger *slog.Logger) *Service {
	return &Service{
		st:     st,
		idx:    idx,
		flows:  flows,
		events: events,
		logger: logger,
		now:    time.Now,
	}
}

func (s *Service) publish(kind, resource, id string) {
	if s.events != nil {
		s.events.PublishRecordEvent(kind, resource, id)
	}
}

// upsertDoc indexes a searchable record. Index failures never fail the
// mutation that triggered them; the watcher resync will catch up.
func (s *Service) upsertDoc(d index.Doc) {
	if err := s.idx.Upsert(d.Row, d.Body); err != nil {
		s.logger.Warn("index upsert failed",
			slog.String("record", d.Row.Key()),
			slog.String("error", err.Error()))
	}
}

func (s *Service) deleteDoc(kind, id string) {
	if err := s.idx.Delete(kind, id); err != nil {
		s.logger.Warn("index delete failed",
			slog.String("record", kind+"/"+id),
			slog.String("error", err.Error()))
	}
}

// Search delegates full-text search to the index.
func (s *Service) Search(_ context.Context, query string, limit int) ([]index.SearchResult, error) {
	return s.idx.Search(query, limit)
}

// ---- Tasks ----

// CreateTask stores a new task.
func (s *Service) CreateTask(_ context.Context, t models.Task) (models.Task, error) {
	if strings.TrimSpace(t.Title) == "" {
		return models.Task{}, fmt.Errorf("%w: title is required", apperr.ErrInvalid)
	}
	if t.ID == "" {
		t.ID = models.NewID()
	}
	if t.Status == "" {
		t.Status = models.TaskPending
	}
	t.CreatedAt = s.now()
	if err := s.st.Tasks.Insert(t); err != nil {
		return models.Task{}, err
	}
	s.upsertDoc(index.TaskDoc(t))
	s.publish("created", models.ColTasks, t.ID)
	return t, nil
}

// GetTask returns a task by id.
func (s *Service) GetTask(_ context.Context, id string) (models.Task, error) {
	return s.st.Tasks.Get(id)
}

// ListTasks returns all tasks, optionally filtered by status.
func (s *Service) ListTasks(_ context.Context, status models.TaskStatus) ([]models.Task, error) {
	items, err := s.st.Tasks.Load()
	if err != nil {
		return nil, err
	}
	if status == "" {
		return items, nil
	}
	out := items[:0:0]
	for _, t := range items {
		if t.Status == status {
			out = append(out, t)
		}
	}
	return out, nil
}

// UpdateTask applies mutate to a task and reindexes it.
func (s *Service) UpdateTask(_ context.Context, id string, mutate func(*models.Task) error) (models.Task, error) {
	t, err := s.st.Tasks.Update(id, mutate)
	if err != nil {
		return models.Task{}, err
	}
	s.upsertDoc(index.TaskDoc(t))
	s.publish("updated", models.ColTasks, id)
	return t, nil
}

// DeleteTask removes a task.
func (s *Service) DeleteTask(_ context.Context, id string) error {
	if err := s.st.Tasks.Delete(id); err != nil {
		return err
	}
	s.deleteDoc(index.KindTask, id)
	s.publish("deleted", models.ColTasks, id)
	return nil
}

// ---- Goals ----

// CreateGoal stores a new goal.
func (s *Service) CreateGoal(_ context.Context, g models.Goal) (models.Goal, error) {
	if strings.TrimSpace(g.Title) == "" {
		return models.Goal{}, fmt.Errorf("%w: title is required", apperr.ErrInvalid)
	}
	if g.ID == "" {
		g.ID = models.NewID()
	}
	if g.Status == "" {
		g.Status = models.GoalNotStarted
	}
	now := s.now()
	g.CreatedAt = now
	g.UpdatedAt = now
	if err := s.st.Goals.Insert(g); err != nil {
		return models.Goal{}, err
	}
	s.publish("created", models.ColGoals, g.ID)
	return g, nil
}

// GetGoal returns a goal by id.
func (s *Service) GetGoal(_ context.Context, id string) (models.Goal, error) {
	return s.st.Goals.Get(id)
}

// ListGoals returns all goals.
func (s *Service) ListGoals(_ context.Context) ([]models.Goal, error) {
	return s.st.Goals.Load()
}

// UpdateGoal applies mutate to a goal and bumps its update time.
func (s *Service) UpdateGoal(_ context.Context, id string, mutate func(*models.Goal) error) (models.Goal, error) {
	g, err := s.st.Goals.Update(id, func(g *models.Goal) error {
		if err := mutate(g); err != nil {
			return err
		}
		g.UpdatedAt = s.now()
		return nil
	})
	if err != nil {
		return models.Goal{}, err
	}
	s.publish("updated", models.ColGoals, id)
	return g, nil
}

// DeleteGoal removes a goal.
func (s *Service) DeleteGoal(_ context.Context, id string) error {
	if err := s.st.Goals.Delete(id); err != nil {
		return err
	}
	s.publish("deleted", models.ColGoals, id)
	return nil
}

// ---- Habits ----

// CreateHabit stores a new habit with a zero streak.
func (s *Service) CreateHabit(_ context.Context, h models.Habit) (models.Habit, error) {
	if strings.TrimSpace(h.Title) == "" {
		return models.Habit{}, fmt.Errorf("%w: title is required", apperr.ErrInvalid)
	}
	if h.ID == "" {
		h.ID = models.NewID()
	}
	if h.Frequency == "" {
		h.Frequency = models.FreqDaily
	}
	h.Streak = 0
	h.LastCompleted = nil
	now := s.now()
	h.CreatedAt = now
	h.UpdatedAt = now
	if err := s.st.Habits.Insert(h); err != nil {
		return models.Habit{}, err
	}
	s.publish("created", models.ColHabits, h.ID)
	return h, nil
}

// GetHabit returns a habit by id.
func (s *Service) GetHabit(_ context.Context, id string) (models.Habit, error) {
	return s.st.Habits.Get(id)
}

// ListHabits returns all habits.
func (s *Service) ListHabits(_ context.Context) ([]models.Habit, error) {
	return s.st.Habits.Load()
}

// UpdateHabit applies mutate to a habit and bumps its update time.
func (s *Service) UpdateHabit(_ context.Context, id string, mutate func(*models.Habit) error) (models.Habit, error) {
	h, err := s.st.Habits.Update(id, func(h *models.Habit) error {
		if err := mutate(h); err != nil {
			return err
		}
		h.UpdatedAt = s.now()
		return nil
	})
	if err != nil {
		return models.Habit{}, err
	}
	s.publish("updated", models.ColHabits, id)
	return h, nil
}

// DeleteHabit removes a habit.
func (s *Service) DeleteHabit(_ context.Context, id string) error {
	if err := s.st.Habits.Delete(id); err != nil {
		return err
	}
	s.publish("deleted", models.ColHabits, id)
	return nil
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// MarkHabitComplete records a completion. It is idempotent within a
// calendar day: a second completion on the same day changes nothing.
// A daily habit whose chain broke (last completion before yesterday)
// restarts its streak at 1.
func (s *Service) MarkHabitComplete(_ context.Context, id string) (models.Habit, bool, error) {
	now := s.now()
	changed := false

	h, err := s.st.Habits.Update(id, func(h *models.Habit) error {
		if h.LastCompleted != nil && sameDay(*h.LastCompleted, now) {
			return nil
		}
		switch {
		case h.LastCompleted == nil:
			h.Streak = 1
		case h.Frequency == models.FreqDaily && !sameDay(*h.LastCompleted, now.AddDate(0, 0, -1)):
			h.Streak = 1
		default:
			h.Streak++
		}
		completed := now
		h.LastCompleted = &completed
		h.UpdatedAt = now
		changed = true
		return nil
	})
	if err != nil {
		return models.Habit{}, false, err
	}
	if changed {
		s.publish("updated", models.ColHabits, id)
	}
	return h, changed, nil
}

// ---- Log entries ----

// CreateLog stores a new daily-log entry.
func (s *Service) CreateLog(_ context.Context, l models.LogEntry) (models.LogEntry, error) {
	if strings.TrimSpace(l.Activity) == "" {
		return models.LogEntry{}, fmt.Errorf("%w: activity is required", apperr.ErrInvalid)
	}
	if l.FocusLevel != nil && (*l.FocusLevel < 1 || *l.FocusLevel > 5) {
		return models.LogEntry{}, fmt.Errorf("%w: focusLevel must be 1..5", apperr.ErrInvalid)
	}
	if l.ID == "" {
		l.ID = models.NewID()
	}
	if l.Date.IsZero() {
		l.Date = s.now()
	}
	if err := s.st.Logs.Insert(l); err != nil {
		return models.LogEntry{}, err
	}
	s.upsertDoc(index.LogDoc(l))
	s.publish("created", models.ColLogs, l.ID)
	return l, nil
}

// GetLog returns a log entry by id.
func (s *Service) GetLog(_ context.Context, id string) (models.LogEntry, error) {
	return s.st.Logs.Get(id)
}

// ListLogs returns all log entries.
func (s *Service) ListLogs(_ context.Context) ([]models.LogEntry, error) {
	return s.st.Logs.Load()
}

// UpdateLog applies mutate to a log entry and reindexes it.
func (s *Service) UpdateLog(_ context.Context, id string, mutate func(*models.LogEntry) error) (models.LogEntry, error) {
	l, err := s.st.Logs.Update(id, mutate)
	if err != nil {
		return models.LogEntry{}, err
	}
	s.upsertDoc(index.LogDoc(l))
	s.publish("updated", models.ColLogs, id)
	return l, nil
}

// DeleteLog removes a log entry.
func (s *Service) DeleteLog(_ context.Context, id string) error {
	if err := s.st.Logs.Delete(id); err != nil {
		return err
	}
	s.deleteDoc(index.KindLog, id)
	s.publish("deleted", models.ColLogs, id)
	return nil
}

// ---- Notes ----

// CreateNote stores a new note.
func (s *Service) CreateNote(_ context.Context, n models.Note) (models.Note, error) {
	if strings.TrimSpace(n.Title) == "" {
		return models.Note{}, fmt.Errorf("%w: title is required", apperr.ErrInvalid)
	}
	if n.ID == "" {
		n.ID = models.NewID()
	}
	now := s.now()
	n.CreatedAt = now
	n.UpdatedAt = now
	if err := s.st.Notes.Insert(n); err != nil {
		return models.Note{}, err
	}
	s.upsertDoc(index.NoteDoc(n))
	s.publish("created", models.ColNotes, n.ID)
	return n, nil
}

// GetNote returns a note by id.
func (s *Service) GetNote(_ context.Context, id string) (models.Note, error) {
	return s.st.Notes.Get(id)
}

// ListNotes returns all notes.
func (s *Service) ListNotes(_ context.Context) ([]models.Note, error) {
	return s.st.Notes.Load()
}

// UpdateNote applies mutate to a note, bumps its update time, and reindexes it.
func (s *Service) UpdateNote(_ context.Context, id string, mutate func(*models.Note) error) (models.Note, error) {
	n, err := s.st.Notes.Update(id, func(n *models.Note) error {
		if err := mutate(n); err != nil {
			return err
		}
		n.UpdatedAt = s.now()
		return nil
	})
	if err != nil {
		return models.Note{}, err
	}
	s.upsertDoc(index.NoteDoc(n))
	s.publish("updated", models.ColNotes, id)
	return n, nil
}

// DeleteNote removes a note.
func (s *Service) DeleteNote(_ context.Context, id string) error {
	if err := s.st.Notes.Delete(id); err != nil {
		return err
	}
	s.deleteDoc(index.KindNote, id)
	s.publish("deleted", models.ColNotes, id)
	return nil
}

// ---- Reminders ----

// CreateReminder stores a new reminder.
func (s *Service) CreateReminder(_ context.Context, r models.Reminder) (models.Reminder, error) {
	if strings.TrimSpace(r.Title) == "" {
		return models.Reminder{}, fmt.Errorf("%w: title is required", apperr.ErrInvalid)
	}
	if r.DateTime.IsZero() {
		return models.Reminder{}, fmt.Errorf("%w: dateTime is required", apperr.ErrInvalid)
	}
	if r.ID == "" {
		r.ID = models.NewID()
	}
	if err := s.st.Reminders.Insert(r); err != nil {
		return models.Reminder{}, err
	}
	s.publish("created", models.ColReminders, r.ID)
	return r, nil
}

// GetReminder returns a reminder by id.
func (s *Service) GetReminder(_ context.Context, id string) (models.Reminder, error) {
	return s.st.Reminders.Get(id)
}

// ListReminders returns all reminders.
func (s *Service) ListReminders(_ context.Context) ([]models.Reminder, error) {
	return s.st.Reminders.Load()
}

// UpdateReminder applies mutate to a reminder.
func (s *Service) UpdateReminder(_ context.Context, id string, mutate func(*models.Reminder) error) (models.Reminder, error) {
	r, err := s.st.Reminders.Update(id, mutate)
	if err != nil {
		return models.Reminder{}, err
	}
	s.publish("updated", models.ColReminders, id)
	return r, nil
}

// DeleteReminder removes a reminder.
func (s *Service) DeleteReminder(_ context.Context, id string) error {
	if err := s.st.Reminders.Delete(id); err != nil {
		return err
	}
	s.publish("deleted", models.ColReminders, id)
	return nil
}

// ---- Expenses ----

// CreateExpense stores a new expense.
func (s *Service) CreateExpense(_ context.Context, e models.Expense) (models.Expense, error) {
	if strings.TrimSpace(e.Description) == "" {
		return models.Expense{}, fmt.Errorf("%w: description is required", apperr.ErrInvalid)
	}
	if e.Amount < 0 {
		return models.Expense{}, fmt.Errorf("%w: amount cannot be negative", apperr.ErrInvalid)
	}
	if e.ID == "" {
		e.ID = models.NewID()
	}
	if e.Date.IsZero() {
		e.Date = s.now()
	}
	e.CreatedAt = s.now()
	if err := s.st.Expenses.Insert(e); err != nil {
		return models.Expense{}, err
	}
	s.publish("created", models.ColExpenses, e.ID)
	return e, nil
}

// GetExpense returns an expense by id.
func (s *Service) GetExpense(_ context.Context, id string) (models.Expense, error) {
	return s.st.Expenses.Get(id)
}

// ListExpenses returns all expenses.
func (s *Service) ListExpenses(_ context.Context) ([]models.Expense, error) {
	return s.st.Expenses.Load()
}

// UpdateExpense applies mutate to an expense.
func (s *Service) UpdateExpense(_ context.Context, id string, mutate func(*models.Expense) error) (models.Expense, error) {
	e, err := s.st.Expenses.Update(id, mutate)
	if err != nil {
		return models.Expense{}, err
	}
	s.publish("updated", models.ColExpenses, id)
	return e, nil
}

// DeleteExpense removes an expense.
func (s *Service) DeleteExpense(_ context.Context, id string) error {
	if err := s.st.Expenses.Delete(id); err != nil {
		return err
	}
	s.publish("deleted", models.ColExpenses, id)
	return nil
}

// ---- Calendar events ----

// CreateEvent stores a new calendar event.
func (s *Service) CreateEvent(_ context.Context, e models.CalendarEvent) (models.CalendarEvent, error) {
	if strings.TrimSpace(e.Title) == "" {
		return models.CalendarEvent{}, fmt.Errorf("%w: title is required", apperr.ErrInvalid)
	}
	if e.Start.IsZero() || e.End.IsZero() {
		return models.CalendarEvent{}, fmt.Errorf("%w: start and end are required", apperr.ErrInvalid)
	}
	if e.End.Before(e.Start) {
		return models.CalendarEvent{}, fmt.Errorf("%w: end precedes start", apperr.ErrInvalid)
	}
	if e.ID == "" {
		e.ID = models.NewID()
	}
	if err := s.st.Events.Insert(e); err != nil {
		return models.CalendarEvent{}, err
	}
	s.publish("created", models.ColEvents, e.ID)
	return e, nil
}

// GetEvent returns a calendar event by id.
func (s *Service) GetEvent(_ context.Context, id string) (models.CalendarEvent, error) {
	return s.st.Events.Get(id)
}

// ListEvents returns all calendar events.
func (s *Service) ListEvents(_ context.Context) ([]models.CalendarEvent, error) {
	return s.st.Events.Load()
}

// UpdateEvent applies mutate to a calendar event.
func (s *Service) UpdateEvent(_ context.Context, id string, mutate func(*models.CalendarEvent) error) (models.CalendarEvent, error) {
	e, err := s.st.Events.Update(id, mutate)
	if err != nil {
		return models.CalendarEvent{}, err
	}
	s.publish("updated", models.ColEvents, id)
	return e, nil
}

// DeleteEvent removes a calendar event.
func (s *Service) DeleteEvent(_ context.Context, id string) error {
	if err := s.st.Events.Delete(id); err != nil {
		return err
	}
	s.publish("deleted", models.ColEvents, id)
	return nil
}
