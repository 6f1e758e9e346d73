package api

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/eunoia-app/eunoia/internal/models"
	"github.com/eunoia-app/eunoia/internal/service"
)

// Handler holds API route handlers.
type Handler struct {
	svc *service.Service
}

// NewHandler creates a new Handler.
func NewHandler(svc *service.Service) *Handler {
	return &Handler{svc: svc}
}

func recordID(r *http.Request) string {
	return chi.URLParam(r, "id")
}

// ---- Tasks ----

// ListTasks handles GET /api/tasks.
//
//	@Summary	List tasks, optionally filtered by status
//	@Tags		tasks
//	@Produce	json
//	@Param		status	query	string	false	"Filter by status"	Enums(Pending, In Progress, Completed)
//	@Security	BearerAuth
//	@Router		/tasks [get]
func (h *Handler) ListTasks(w http.ResponseWriter, r *http.Request) {
	status := models.TaskStatus(r.URL.Query().Get("status"))
	items, err := h.svc.ListTasks(r.Context(), status)
	if err != nil {
		writeError(w, err, "list tasks")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"tasks": items, "total": len(items)})
}

// CreateTask handles POST /api/tasks.
//
//	@Summary	Create a task
//	@Tags		tasks
//	@Accept		json
//	@Produce	json
//	@Param		body	body	CreateTaskRequest	true	"Task to create"
//	@Security	BearerAuth
//	@Router		/tasks [post]
func (h *Handler) CreateTask(w http.ResponseWriter, r *http.Request) {
	var req CreateTaskRequest
	if !decode(w, r, &req) {
		return
	}
	if err := req.Validate(); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody(err.Error()))
		return
	}
	task, err := h.svc.CreateTask(r.Context(), models.Task{
		Title:       req.Title,
		Description: req.Description,
		Status:      models.TaskStatus(req.Status),
		DueDate:     req.DueDate,
	})
	if err != nil {
		writeError(w, err, "create task")
		return
	}
	writeJSON(w, http.StatusCreated, task)
}

// GetTask handles GET /api/tasks/{id}.
//
//	@Summary	Get a task
//	@Tags		tasks
//	@Produce	json
//	@Security	BearerAuth
//	@Router		/tasks/{id} [get]
func (h *Handler) GetTask(w http.ResponseWriter, r *http.Request) {
	task, err := h.svc.GetTask(r.Context(), recordID(r))
	if err != nil {
		writeError(w, err, "get task")
		return
	}
	writeJSON(w, http.StatusOK, task)
}

// UpdateTask handles PUT /api/tasks/{id}. Absent fields stay unchanged.
//
//	@Summary	Update a task
//	@Tags		tasks
//	@Accept		json
//	@Produce	json
//	@Param		body	body	UpdateTaskRequest	true	"Fields to change"
//	@Security	BearerAuth
//	@Router		/tasks/{id} [put]
func (h *Handler) UpdateTask(w http.ResponseWriter, r *http.Request) {
	var req UpdateTaskRequest
	if !decode(w, r, &req) {
		return
	}
	if err := req.Validate(); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody(err.Error()))
		return
	}
	task, err := h.svc.UpdateTask(r.Context(), recordID(r), func(t *models.Task) error {
		if req.Title != nil {
			t.Title = *req.Title
		}
		if req.Description != nil {
			t.Description = *req.Description
		}
		if req.Status != nil {
			t.Status = models.TaskStatus(*req.Status)
		}
		if req.DueDate != nil {
			t.DueDate = req.DueDate
		}
		return nil
	})
	if err != nil {
		writeError(w, err, "update task")
		return
	}
	writeJSON(w, http.StatusOK, task)
}

// DeleteTask handles DELETE /api/tasks/{id}.
//
//	@Summary	Delete a task
//	@Tags		tasks
//	@Security	BearerAuth
//	@Router		/tasks/{id} [delete]
func (h *Handler) DeleteTask(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.DeleteTask(r.Context(), recordID(r)); err != nil {
		writeError(w, err, "delete task")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ---- Goals ----

// ListGoals handles GET /api/goals.
//
//	@Summary	List goals
//	@Tags		goals
//	@Produce	json
//	@Security	BearerAuth
//	@Router		/goals [get]
func (h *Handler) ListGoals(w http.ResponseWriter, r *http.Request) {
	items, err := h.svc.ListGoals(r.Context())
	if err != nil {
		writeError(w, err, "list goals")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"goals": items, "total": len(items)})
}

// CreateGoal handles POST /api/goals.
//
//	@Summary	Create a goal
//	@Tags		goals
//	@Accept		json
//	@Produce	json
//	@Param		body	body	CreateGoalRequest	true	"Goal to create"
//	@Security	BearerAuth
//	@Router		/goals [post]
func (h *Handler) CreateGoal(w http.ResponseWriter, r *http.Request) {
	var req CreateGoalRequest
	if !decode(w, r, &req) {
		return
	}
	if err := req.Validate(); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody(err.Error()))
		return
	}
	goal, err := h.svc.CreateGoal(r.Context(), models.Goal{
		Title:       req.Title,
		Description: req.Description,
		Status:      models.GoalStatus(req.Status),
		TargetDate:  req.TargetDate,
	})
	if err != nil {
		writeError(w, err, "create goal")
		return
	}
	writeJSON(w, http.StatusCreated, goal)
}

// GetGoal handles GET /api/goals/{id}.
func (h *Handler) GetGoal(w http.ResponseWriter, r *http.Request) {
	goal, err := h.svc.GetGoal(r.Context(), recordID(r))
	if err != nil {
		writeError(w, err, "get goal")
		return
	}
	writeJSON(w, http.StatusOK, goal)
}

// UpdateGoal handles PUT /api/goals/{id}.
func (h *Handler) UpdateGoal(w http.ResponseWriter, r *http.Request) {
	var req UpdateGoalRequest
	if !decode(w, r, &req) {
		return
	}
	if err := req.Validate(); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody(err.Error()))
		return
	}
	goal, err := h.svc.UpdateGoal(r.Context(), recordID(r), func(g *models.Goal) error {
		if req.Title != nil {
			g.Title = *req.Title
		}
		if req.Description != nil {
			g.Description = *req.Description
		}
		if req.Status != nil {
			g.Status = models.GoalStatus(*req.Status)
		}
		if req.TargetDate != nil {
			g.TargetDate = req.TargetDate
		}
		return nil
	})
	if err != nil {
		writeError(w, err, "update goal")
		return
	}
	writeJSON(w, http.StatusOK, goal)
}

// DeleteGoal handles DELETE /api/goals/{id}.
func (h *Handler) DeleteGoal(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.DeleteGoal(r.Context(), recordID(r)); err != nil {
		writeError(w, err, "delete goal")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ---- Habits ----

// ListHabits handles GET /api/habits.
func (h *Handler) ListHabits(w http.ResponseWriter, r *http.Request) {
	items, err := h.svc.ListHabits(r.Context())
	if err != nil {
		writeError(w, err, "list habits")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"habits": items, "total": len(items)})
}

// CreateHabit handles POST /api/habits.
func (h *Handler) CreateHabit(w http.ResponseWriter, r *http.Request) {
	var req CreateHabitRequest
	if !decode(w, r, &req) {
		return
	}
	if err := req.Validate(); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody(err.Error()))
		return
	}
	habit, err := h.svc.CreateHabit(r.Context(), models.Habit{
		Title:       req.Title,
		Description: req.Description,
		Frequency:   models.HabitFrequency(req.Frequency),
	})
	if err != nil {
		writeError(w, err, "create habit")
		return
	}
	writeJSON(w, http.StatusCreated, habit)
}

// GetHabit handles GET /api/habits/{id}.
func (h *Handler) GetHabit(w http.ResponseWriter, r *http.Request) {
	habit, err := h.svc.GetHabit(r.Context(), recordID(r))
	if err != nil {
		writeError(w, err, "get habit")
		return
	}
	writeJSON(w, http.StatusOK, habit)
}

// UpdateHabit handles PUT /api/habits/{id}.
func (h *Handler) UpdateHabit(w http.ResponseWriter, r *http.Request) {
	var req UpdateHabitRequest
	if !decode(w, r, &req) {
		return
	}
	if err := req.Validate(); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody(err.Error()))
		return
	}
	habit, err := h.svc.UpdateHabit(r.Context(), recordID(r), func(hb *models.Habit) error {
		if req.Title != nil {
			hb.Title = *req.Title
		}
		if req.Description != nil {
			hb.Description = *req.Description
		}
		if req.Frequency != nil {
			hb.Frequency = models.HabitFrequency(*req.Frequency)
		}
		return nil
	})
	if err != nil {
		writeError(w, err, "update habit")
		return
	}
	writeJSON(w, http.StatusOK, habit)
}

// DeleteHabit handles DELETE /api/habits/{id}.
func (h *Handler) DeleteHabit(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.DeleteHabit(r.Context(), recordID(r)); err != nil {
		writeError(w, err, "delete habit")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// CompleteHabit handles POST /api/habits/{id}/complete.
//
//	@Summary	Mark a habit complete for today
//	@Tags		habits
//	@Produce	json
//	@Security	BearerAuth
//	@Router		/habits/{id}/complete [post]
func (h *Handler) CompleteHabit(w http.ResponseWriter, r *http.Request) {
	habit, changed, err := h.svc.MarkHabitComplete(r.Context(), recordID(r))
	if err != nil {
		writeError(w, err, "complete habit")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"habit": habit, "changed": changed})
}

// ---- Daily logs ----

// ListLogs handles GET /api/logs.
func (h *Handler) ListLogs(w http.ResponseWriter, r *http.Request) {
	items, err := h.svc.ListLogs(r.Context())
	if err != nil {
		writeError(w, err, "list logs")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"logs": items, "total": len(items)})
}

// CreateLog handles POST /api/logs.
func (h *Handler) CreateLog(w http.ResponseWriter, r *http.Request) {
	var req CreateLogRequest
	if !decode(w, r, &req) {
		return
	}
	if err := req.Validate(); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody(err.Error()))
		return
	}
	entry := models.LogEntry{
		Activity:   req.Activity,
		Mood:       req.Mood,
		FocusLevel: req.FocusLevel,
		Notes:      req.Notes,
		DiaryEntry: req.DiaryEntry,
	}
	if req.Date != nil {
		entry.Date = *req.Date
	}
	created, err := h.svc.CreateLog(r.Context(), entry)
	if err != nil {
		writeError(w, err, "create log")
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// GetLog handles GET /api/logs/{id}.
func (h *Handler) GetLog(w http.ResponseWriter, r *http.Request) {
	entry, err := h.svc.GetLog(r.Context(), recordID(r))
	if err != nil {
		writeError(w, err, "get log")
		return
	}
	writeJSON(w, http.StatusOK, entry)
}

// UpdateLog handles PUT /api/logs/{id}.
func (h *Handler) UpdateLog(w http.ResponseWriter, r *http.Request) {
	var req UpdateLogRequest
	if !decode(w, r, &req) {
		return
	}
	if err := req.Validate(); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody(err.Error()))
		return
	}
	entry, err := h.svc.UpdateLog(r.Context(), recordID(r), func(l *models.LogEntry) error {
		if req.Date != nil {
			l.Date = *req.Date
		}
		if req.Activity != nil {
			l.Activity = *req.Activity
		}
		if req.Mood != nil {
			l.Mood = *req.Mood
		}
		if req.FocusLevel != nil {
			l.FocusLevel = req.FocusLevel
		}
		if req.Notes != nil {
			l.Notes = *req.Notes
		}
		if req.DiaryEntry != nil {
			l.DiaryEntry = *req.DiaryEntry
		}
		return nil
	})
	if err != nil {
		writeError(w, err, "update log")
		return
	}
	writeJSON(w, http.StatusOK, entry)
}

// DeleteLog handles DELETE /api/logs/{id}.
func (h *Handler) DeleteLog(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.DeleteLog(r.Context(), recordID(r)); err != nil {
		writeError(w, err, "delete log")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ---- Notes ----

// ListNotes handles GET /api/notes.
func (h *Handler) ListNotes(w http.ResponseWriter, r *http.Request) {
	items, err := h.svc.ListNotes(r.Context())
	if err != nil {
		writeError(w, err, "list notes")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"notes": items, "total": len(items)})
}

// CreateNote handles POST /api/notes.
func (h *Handler) CreateNote(w http.ResponseWriter, r *http.Request) {
	var req CreateNoteRequest
	if !decode(w, r, &req) {
		return
	}
	if err := req.Validate(); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody(err.Error()))
		return
	}
	note, err := h.svc.CreateNote(r.Context(), models.Note{Title: req.Title, Content: req.Content})
	if err != nil {
		writeError(w, err, "create note")
		return
	}
	writeJSON(w, http.StatusCreated, note)
}

// GetNote handles GET /api/notes/{id}.
func (h *Handler) GetNote(w http.ResponseWriter, r *http.Request) {
	note, err := h.svc.GetNote(r.Context(), recordID(r))
	if err != nil {
		writeError(w, err, "get note")
		return
	}
	writeJSON(w, http.StatusOK, note)
}

// UpdateNote handles PUT /api/notes/{id}.
func (h *Handler) UpdateNote(w http.ResponseWriter, r *http.Request) {
	var req UpdateNoteRequest
	if !decode(w, r, &req) {
		return
	}
	if err := req.Validate(); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody(err.Error()))
		return
	}
	note, err := h.svc.UpdateNote(r.Context(), recordID(r), func(n *models.Note) error {
		if req.Title != nil {
			n.Title = *req.Title
		}
		if req.Content != nil {
			n.Content = *req.Content
		}
		return nil
	})
	if err != nil {
		writeError(w, err, "update note")
		return
	}
	writeJSON(w, http.StatusOK, note)
}

// DeleteNote handles DELETE /api/notes/{id}.
func (h *Handler) DeleteNote(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.DeleteNote(r.Context(), recordID(r)); err != nil {
		writeError(w, err, "delete note")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ---- Reminders ----

// ListReminders handles GET /api/reminders.
func (h *Handler) ListReminders(w http.ResponseWriter, r *http.Request) {
	items, err := h.svc.ListReminders(r.Context())
	if err != nil {
		writeError(w, err, "list reminders")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"reminders": items, "total": len(items)})
}

// CreateReminder handles POST /api/reminders.
func (h *Handler) CreateReminder(w http.ResponseWriter, r *http.Request) {
	var req CreateReminderRequest
	if !decode(w, r, &req) {
		return
	}
	if err := req.Validate(); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody(err.Error()))
		return
	}
	rem, err := h.svc.CreateReminder(r.Context(), models.Reminder{
		Title:       req.Title,
		Description: req.Description,
		DateTime:    req.DateTime,
	})
	if err != nil {
		writeError(w, err, "create reminder")
		return
	}
	writeJSON(w, http.StatusCreated, rem)
}

// GetReminder handles GET /api/reminders/{id}.
func (h *Handler) GetReminder(w http.ResponseWriter, r *http.Request) {
	rem, err := h.svc.GetReminder(r.Context(), recordID(r))
	if err != nil {
		writeError(w, err, "get reminder")
		return
	}
	writeJSON(w, http.StatusOK, rem)
}

// UpdateReminder handles PUT /api/reminders/{id}.
func (h *Handler) UpdateReminder(w http.ResponseWriter, r *http.Request) {
	var req UpdateReminderRequest
	if !decode(w, r, &req) {
		return
	}
	if err := req.Validate(); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody(err.Error()))
		return
	}
	rem, err := h.svc.UpdateReminder(r.Context(), recordID(r), func(rm *models.Reminder) error {
		if req.Title != nil {
			rm.Title = *req.Title
		}
		if req.Description != nil {
			rm.Description = *req.Description
		}
		if req.DateTime != nil {
			rm.DateTime = *req.DateTime
		}
		return nil
	})
	if err != nil {
		writeError(w, err, "update reminder")
		return
	}
	writeJSON(w, http.StatusOK, rem)
}

// DeleteReminder handles DELETE /api/reminders/{id}.
func (h *Handler) DeleteReminder(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.DeleteReminder(r.Context(), recordID(r)); err != nil {
		writeError(w, err, "delete reminder")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ---- Expenses ----

// ListExpenses handles GET /api/expenses.
func (h *Handler) ListExpenses(w http.ResponseWriter, r *http.Request) {
	items, err := h.svc.ListExpenses(r.Context())
	if err != nil {
		writeError(w, err, "list expenses")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"expenses": items, "total": len(items)})
}

// CreateExpense handles POST /api/expenses.
func (h *Handler) CreateExpense(w http.ResponseWriter, r *http.Request) {
	var req CreateExpenseRequest
	if !decode(w, r, &req) {
		return
	}
	if err := req.Validate(); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody(err.Error()))
		return
	}
	exp := models.Expense{
		Description: req.Description,
		Amount:      req.Amount,
		Category:    req.Category,
	}
	if req.Date != nil {
		exp.Date = *req.Date
	}
	created, err := h.svc.CreateExpense(r.Context(), exp)
	if err != nil {
		writeError(w, err, "create expense")
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// GetExpense handles GET /api/expenses/{id}.
func (h *Handler) GetExpense(w http.ResponseWriter, r *http.Request) {
	exp, err := h.svc.GetExpense(r.Context(), recordID(r))
	if err != nil {
		writeError(w, err, "get expense")
		return
	}
	writeJSON(w, http.StatusOK, exp)
}

// UpdateExpense handles PUT /api/expenses/{id}.
func (h *Handler) UpdateExpense(w http.ResponseWriter, r *http.Request) {
	var req UpdateExpenseRequest
	if !decode(w, r, &req) {
		return
	}
	if err := req.Validate(); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody(err.Error()))
		return
	}
	exp, err := h.svc.UpdateExpense(r.Context(), recordID(r), func(e *models.Expense) error {
		if req.Description != nil {
			e.Description = *req.Description
		}
		if req.Amount != nil {
			e.Amount = *req.Amount
		}
		if req.Category != nil {
			e.Category = *req.Category
		}
		if req.Date != nil {
			e.Date = *req.Date
		}
		return nil
	})
	if err != nil {
		writeError(w, err, "update expense")
		return
	}
	writeJSON(w, http.StatusOK, exp)
}

// DeleteExpense handles DELETE /api/expenses/{id}.
func (h *Handler) DeleteExpense(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.DeleteExpense(r.Context(), recordID(r)); err != nil {
		writeError(w, err, "delete expense")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ---- Calendar events ----

// ListEvents handles GET /api/calendar.
func (h *Handler) ListEvents(w http.ResponseWriter, r *http.Request) {
	items, err := h.svc.ListEvents(r.Context())
	if err != nil {
		writeError(w, err, "list events")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"events": items, "total": len(items)})
}

// CreateEvent handles POST /api/calendar.
func (h *Handler) CreateEvent(w http.ResponseWriter, r *http.Request) {
	var req CreateEventRequest
	if !decode(w, r, &req) {
		return
	}
	if err := req.Validate(); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody(err.Error()))
		return
	}
	ev, err := h.svc.CreateEvent(r.Context(), models.CalendarEvent{
		Title:       req.Title,
		Start:       req.Start,
		End:         req.End,
		Description: req.Description,
	})
	if err != nil {
		writeError(w, err, "create event")
		return
	}
	writeJSON(w, http.StatusCreated, ev)
}

// GetEvent handles GET /api/calendar/{id}.
func (h *Handler) GetEvent(w http.ResponseWriter, r *http.Request) {
	ev, err := h.svc.GetEvent(r.Context(), recordID(r))
	if err != nil {
		writeError(w, err, "get event")
		return
	}
	writeJSON(w, http.StatusOK, ev)
}

// UpdateEvent handles PUT /api/calendar/{id}.
func (h *Handler) UpdateEvent(w http.ResponseWriter, r *http.Request) {
	var req UpdateEventRequest
	if !decode(w, r, &req) {
		return
	}
	if err := req.Validate(); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody(err.Error()))
		return
	}
	ev, err := h.svc.UpdateEvent(r.Context(), recordID(r), func(e *models.CalendarEvent) error {
		if req.Title != nil {
			e.Title = *req.Title
		}
		if req.Start != nil {
			e.Start = *req.Start
		}
		if req.End != nil {
			e.End = *req.End
		}
		if req.Description != nil {
			e.Description = *req.Description
		}
		return nil
	})
	if err != nil {
		writeError(w, err, "update event")
		return
	}
	writeJSON(w, http.StatusOK, ev)
}

// DeleteEvent handles DELETE /api/calendar/{id}.
func (h *Handler) DeleteEvent(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.DeleteEvent(r.Context(), recordID(r)); err != nil {
		writeError(w, err, "delete event")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ---- Search ----

// Search handles GET /api/search.
//
//	@Summary	Full-text search across notes, logs, and tasks
//	@Tags		search
//	@Produce	json
//	@Param		q		query	string	true	"Search query"
//	@Param		limit	query	int		false	"Max results"
//	@Security	BearerAuth
//	@Router		/search [get]
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	if q == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("query parameter 'q' is required"))
		return
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	results, err := h.svc.Search(r.Context(), q, limit)
	if err != nil {
		writeError(w, err, "search")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"results": results})
}
