package api

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/eunoia-app/eunoia/internal/models"
)

var (
	taskStatuses = []interface{}{
		string(models.TaskPending), string(models.TaskInProgress), string(models.TaskCompleted),
	}
	goalStatuses = []interface{}{
		string(models.GoalNotStarted), string(models.GoalInProgress),
		string(models.GoalAchieved), string(models.GoalOnHold),
	}
	habitFrequencies = []interface{}{
		string(models.FreqDaily), string(models.FreqWeekly),
		string(models.FreqMonthly), string(models.FreqSpecificDays),
	}
)

// CreateTaskRequest is the request body for creating a task.
type CreateTaskRequest struct {
	Title       string     `json:"title" validate:"required"`
	Description string     `json:"description,omitempty"`
	Status      string     `json:"status,omitempty"`
	DueDate     *time.Time `json:"dueDate,omitempty"`
}

// Validate validates the request.
func (r CreateTaskRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Title, validation.Required, validation.Length(1, 500)),
		validation.Field(&r.Status, validation.In(taskStatuses...)),
	)
}

// UpdateTaskRequest is the request body for updating a task. Absent fields
// are left unchanged.
type UpdateTaskRequest struct {
	Title       *string    `json:"title,omitempty"`
	Description *string    `json:"description,omitempty"`
	Status      *string    `json:"status,omitempty"`
	DueDate     *time.Time `json:"dueDate,omitempty"`
}

// Validate validates the request.
func (r UpdateTaskRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Title, validation.NilOrNotEmpty),
		validation.Field(&r.Status, validation.By(inPtr(taskStatuses))),
	)
}

// CreateGoalRequest is the request body for creating a goal.
type CreateGoalRequest struct {
	Title       string     `json:"title" validate:"required"`
	Description string     `json:"description,omitempty"`
	Status      string     `json:"status,omitempty"`
	TargetDate  *time.Time `json:"targetDate,omitempty"`
}

// Validate validates the request.
func (r CreateGoalRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Title, validation.Required, validation.Length(1, 500)),
		validation.Field(&r.Status, validation.In(goalStatuses...)),
	)
}

// UpdateGoalRequest is the request body for updating a goal.
type UpdateGoalRequest struct {
	Title       *string    `json:"title,omitempty"`
	Description *string    `json:"description,omitempty"`
	Status      *string    `json:"status,omitempty"`
	TargetDate  *time.Time `json:"targetDate,omitempty"`
}

// Validate validates the request.
func (r UpdateGoalRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Title, validation.NilOrNotEmpty),
		validation.Field(&r.Status, validation.By(inPtr(goalStatuses))),
	)
}

// CreateHabitRequest is the request body for creating a habit.
type CreateHabitRequest struct {
	Title       string `json:"title" validate:"required"`
	Description string `json:"description,omitempty"`
	Frequency   string `json:"frequency,omitempty"`
}

// Validate validates the request.
func (r CreateHabitRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Title, validation.Required, validation.Length(1, 500)),
		validation.Field(&r.Frequency, validation.In(habitFrequencies...)),
	)
}

// UpdateHabitRequest is the request body for updating a habit. Streak and
// completion state change only through the complete endpoint.
type UpdateHabitRequest struct {
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
	Frequency   *string `json:"frequency,omitempty"`
}

// Validate validates the request.
func (r UpdateHabitRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Title, validation.NilOrNotEmpty),
		validation.Field(&r.Frequency, validation.By(inPtr(habitFrequencies))),
	)
}

// CreateLogRequest is the request body for creating a daily-log entry.
type CreateLogRequest struct {
	Date       *time.Time `json:"date,omitempty"`
	Activity   string     `json:"activity" validate:"required"`
	Mood       string     `json:"mood,omitempty"`
	FocusLevel *int       `json:"focusLevel,omitempty"`
	Notes      string     `json:"notes,omitempty"`
	DiaryEntry string     `json:"diaryEntry,omitempty"`
}

// Validate validates the request.
func (r CreateLogRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Activity, validation.Required, validation.Length(1, 2000)),
		validation.Field(&r.FocusLevel, validation.Min(1), validation.Max(5)),
	)
}

// UpdateLogRequest is the request body for updating a daily-log entry.
type UpdateLogRequest struct {
	Date       *time.Time `json:"date,omitempty"`
	Activity   *string    `json:"activity,omitempty"`
	Mood       *string    `json:"mood,omitempty"`
	FocusLevel *int       `json:"focusLevel,omitempty"`
	Notes      *string    `json:"notes,omitempty"`
	DiaryEntry *string    `json:"diaryEntry,omitempty"`
}

// Validate validates the request.
func (r UpdateLogRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Activity, validation.NilOrNotEmpty),
		validation.Field(&r.FocusLevel, validation.Min(1), validation.Max(5)),
	)
}

// CreateNoteRequest is the request body for creating a note.
type CreateNoteRequest struct {
	Title   string `json:"title" validate:"required"`
	Content string `json:"content,omitempty"`
}

// Validate validates the request.
func (r CreateNoteRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Title, validation.Required, validation.Length(1, 500)),
	)
}

// UpdateNoteRequest is the request body for updating a note.
type UpdateNoteRequest struct {
	Title   *string `json:"title,omitempty"`
	Content *string `json:"content,omitempty"`
}

// Validate validates the request.
func (r UpdateNoteRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Title, validation.NilOrNotEmpty),
	)
}

// CreateReminderRequest is the request body for creating a reminder.
type CreateReminderRequest struct {
	Title       string    `json:"title" validate:"required"`
	Description string    `json:"description,omitempty"`
	DateTime    time.Time `json:"dateTime" validate:"required"`
}

// Validate validates the request.
func (r CreateReminderRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Title, validation.Required, validation.Length(1, 500)),
		validation.Field(&r.DateTime, validation.Required),
	)
}

// UpdateReminderRequest is the request body for updating a reminder.
type UpdateReminderRequest struct {
	Title       *string    `json:"title,omitempty"`
	Description *string    `json:"description,omitempty"`
	DateTime    *time.Time `json:"dateTime,omitempty"`
}

// Validate validates the request.
func (r UpdateReminderRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Title, validation.NilOrNotEmpty),
	)
}

// CreateExpenseRequest is the request body for creating an expense.
type CreateExpenseRequest struct {
	Description string     `json:"description" validate:"required"`
	Amount      float64    `json:"amount" validate:"required"`
	Category    string     `json:"category,omitempty"`
	Date        *time.Time `json:"date,omitempty"`
}

// Validate validates the request.
func (r CreateExpenseRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Description, validation.Required, validation.Length(1, 500)),
		validation.Field(&r.Amount, validation.Min(0.0)),
	)
}

// UpdateExpenseRequest is the request body for updating an expense.
type UpdateExpenseRequest struct {
	Description *string    `json:"description,omitempty"`
	Amount      *float64   `json:"amount,omitempty"`
	Category    *string    `json:"category,omitempty"`
	Date        *time.Time `json:"date,omitempty"`
}

// Validate validates the request.
func (r UpdateExpenseRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Description, validation.NilOrNotEmpty),
		validation.Field(&r.Amount, validation.Min(0.0)),
	)
}

// CreateEventRequest is the request body for creating a calendar event.
type CreateEventRequest struct {
	Title       string    `json:"title" validate:"required"`
	Start       time.Time `json:"start" validate:"required"`
	End         time.Time `json:"end" validate:"required"`
	Description string    `json:"description,omitempty"`
}

// Validate validates the request.
func (r CreateEventRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Title, validation.Required, validation.Length(1, 500)),
		validation.Field(&r.Start, validation.Required),
		validation.Field(&r.End, validation.Required),
	)
}

// UpdateEventRequest is the request body for updating a calendar event.
type UpdateEventRequest struct {
	Title       *string    `json:"title,omitempty"`
	Start       *time.Time `json:"start,omitempty"`
	End         *time.Time `json:"end,omitempty"`
	Description *string    `json:"description,omitempty"`
}

// Validate validates the request.
func (r UpdateEventRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Title, validation.NilOrNotEmpty),
	)
}

// PlanRequest is the request body for the daily-plan endpoint.
type PlanRequest struct {
	Date string `json:"date" example:"2025-06-16" validate:"required"`
}

// Validate validates the request.
func (r PlanRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Date, validation.Required, validation.Date("2006-01-02")),
	)
}

// VoiceRequest is the request body for the voice-command endpoint.
type VoiceRequest struct {
	Transcript string `json:"transcript" validate:"required"`
}

// Validate validates the request.
func (r VoiceRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Transcript, validation.Required, validation.Length(1, 2000)),
	)
}

// inPtr adapts validation.In to optional string fields.
func inPtr(allowed []interface{}) validation.RuleFunc {
	return func(value interface{}) error {
		p, _ := value.(*string)
		if p == nil {
			return nil
		}
		return validation.Validate(*p, validation.In(allowed...))
	}
}
