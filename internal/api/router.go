package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/eunoia-app/eunoia/internal/service"
)

// NewRouter creates a chi router with all API routes mounted.
// authEnabled controls whether Bearer token auth is enforced.
// sseHandler, if non-nil, is mounted at GET /events inside the auth group.
func NewRouter(svc *service.Service, authEnabled bool, token string, sseHandler http.Handler) chi.Router {
	h := NewHandler(svc)

	r := chi.NewRouter()
	r.Use(AuthMiddleware(authEnabled, token))

	// Tasks.
	r.Get("/tasks", h.ListTasks)
	r.Post("/tasks", h.CreateTask)
	r.Get("/tasks/{id}", h.GetTask)
	r.Put("/tasks/{id}", h.UpdateTask)
	r.Delete("/tasks/{id}", h.DeleteTask)

	// Goals.
	r.Get("/goals", h.ListGoals)
	r.Post("/goals", h.CreateGoal)
	r.Get("/goals/{id}", h.GetGoal)
	r.Put("/goals/{id}", h.UpdateGoal)
	r.Delete("/goals/{id}", h.DeleteGoal)

	// Habits.
	r.Get("/habits", h.ListHabits)
	r.Post("/habits", h.CreateHabit)
	r.Get("/habits/{id}", h.GetHabit)
	r.Put("/habits/{id}", h.UpdateHabit)
	r.Delete("/habits/{id}", h.DeleteHabit)
	r.Post("/habits/{id}/complete", h.CompleteHabit)

	// Daily logs.
	r.Get("/logs", h.ListLogs)
	r.Post("/logs", h.CreateLog)
	r.Get("/logs/{id}", h.GetLog)
	r.Put("/logs/{id}", h.UpdateLog)
	r.Delete("/logs/{id}", h.DeleteLog)

	// Notes.
	r.Get("/notes", h.ListNotes)
	r.Post("/notes", h.CreateNote)
	r.Get("/notes/{id}", h.GetNote)
	r.Put("/notes/{id}", h.UpdateNote)
	r.Delete("/notes/{id}", h.DeleteNote)

	// Reminders.
	r.Get("/reminders", h.ListReminders)
	r.Post("/reminders", h.CreateReminder)
	r.Get("/reminders/{id}", h.GetReminder)
	r.Put("/reminders/{id}", h.UpdateReminder)
	r.Delete("/reminders/{id}", h.DeleteReminder)

	// Expenses.
	r.Get("/expenses", h.ListExpenses)
	r.Post("/expenses", h.CreateExpense)
	r.Get("/expenses/{id}", h.GetExpense)
	r.Put("/expenses/{id}", h.UpdateExpense)
	r.Delete("/expenses/{id}", h.DeleteExpense)

	// Calendar events.
	r.Get("/calendar", h.ListEvents)
	r.Post("/calendar", h.CreateEvent)
	r.Get("/calendar/{id}", h.GetEvent)
	r.Put("/calendar/{id}", h.UpdateEvent)
	r.Delete("/calendar/{id}", h.DeleteEvent)

	// Search.
	r.Get("/search", h.Search)

	// Insights and AI flows.
	r.Get("/insights", h.Insights)
	r.Get("/report", h.Report)
	r.Post("/ai/plan", h.Plan)
	r.Get("/ai/sentiment", h.Sentiment)
	r.Get("/ai/burnout", h.Burnout)
	r.Post("/ai/voice", h.Voice)

	// SSE endpoint (protected by same auth middleware).
	if sseHandler != nil {
		r.Get("/events", sseHandler.ServeHTTP)
	}

	return r
}
