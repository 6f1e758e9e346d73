// Package models defines the tracker's resource records and their enumerations.
//
// Every record carries a string UUID identifier and time.Time fields that
// round-trip through JSON as RFC 3339 (ISO-8601) strings.
package models

import (
	"time"

	"github.com/google/uuid"
)

// LifeArea is one of the fixed categories used to bucket user activity.
type LifeArea string

const (
	AreaWork          LifeArea = "Work/Career"
	AreaGrowth        LifeArea = "Personal Growth"
	AreaHealth        LifeArea = "Health/Wellness"
	AreaSocial        LifeArea = "Social/Relationships"
	AreaFinance       LifeArea = "Finance"
	AreaHobbies       LifeArea = "Hobbies/Leisure"
	AreaChores        LifeArea = "Responsibilities/Chores"
	AreaUncategorized LifeArea = "Uncategorized"
)

// Areas returns the seven life areas, excluding Uncategorized, in a stable order.
func Areas() []LifeArea {
	return []LifeArea{
		AreaWork, AreaGrowth, AreaHealth, AreaSocial,
		AreaFinance, AreaHobbies, AreaChores,
	}
}

// TaskStatus enumerates task lifecycle states.
type TaskStatus string

const (
	TaskPending    TaskStatus = "Pending"
	TaskInProgress TaskStatus = "In Progress"
	TaskCompleted  TaskStatus = "Completed"
)

// GoalStatus enumerates goal lifecycle states.
type GoalStatus string

const (
	GoalNotStarted GoalStatus = "Not Started"
	GoalInProgress GoalStatus = "In Progress"
	GoalAchieved   GoalStatus = "Achieved"
	GoalOnHold     GoalStatus = "On Hold"
)

// HabitFrequency enumerates habit recurrence patterns.
type HabitFrequency string

const (
	FreqDaily        HabitFrequency = "Daily"
	FreqWeekly       HabitFrequency = "Weekly"
	FreqMonthly      HabitFrequency = "Monthly"
	FreqSpecificDays HabitFrequency = "Specific Days"
)

// NewID generates a record identifier.
func NewID() string {
	return uuid.NewString()
}

// Task is a single actionable item.
type Task struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	Status      TaskStatus `json:"status"`
	DueDate     *time.Time `json:"dueDate,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
}

func (t Task) RecordID() string { return t.ID }

// Goal is a longer-horizon objective.
type Goal struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	Status      GoalStatus `json:"status"`
	TargetDate  *time.Time `json:"targetDate,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

func (g Goal) RecordID() string { return g.ID }

// Habit is a recurring practice with a streak counter.
// Streak increments at most once per calendar day.
type Habit struct {
	ID            string         `json:"id"`
	Title         string         `json:"title"`
	Description   string         `json:"description,omitempty"`
	Frequency     HabitFrequency `json:"frequency"`
	Streak        int            `json:"streak"`
	LastCompleted *time.Time     `json:"lastCompleted,omitempty"`
	CreatedAt     time.Time      `json:"createdAt"`
	UpdatedAt     time.Time      `json:"updatedAt"`
}

func (h Habit) RecordID() string { return h.ID }

// LogEntry is one daily-log record. FocusLevel, when present, is 1..5.
type LogEntry struct {
	ID         string    `json:"id"`
	Date       time.Time `json:"date"`
	Activity   string    `json:"activity"`
	Mood       string    `json:"mood,omitempty"`
	FocusLevel *int      `json:"focusLevel,omitempty"`
	Notes      string    `json:"notes,omitempty"`
	DiaryEntry string    `json:"diaryEntry,omitempty"`
}

func (l LogEntry) RecordID() string { return l.ID }

// Note is a free-form text record.
type Note struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (n Note) RecordID() string { return n.ID }

// Reminder is a one-shot dated notification.
type Reminder struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	DateTime    time.Time `json:"dateTime"`
}

func (r Reminder) RecordID() string { return r.ID }

// Expense is a single spending record.
type Expense struct {
	ID          string    `json:"id"`
	Description string    `json:"description"`
	Amount      float64   `json:"amount"`
	Category    string    `json:"category,omitempty"`
	Date        time.Time `json:"date"`
	CreatedAt   time.Time `json:"createdAt"`
}

func (e Expense) RecordID() string { return e.ID }

// CalendarEvent is a scheduled block of time.
type CalendarEvent struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Start       time.Time `json:"start"`
	End         time.Time `json:"end"`
	Description string    `json:"description,omitempty"`
}

func (c CalendarEvent) RecordID() string { return c.ID }

// Collection names used as storage keys, one JSON array file per resource.
const (
	ColTasks     = "tasks"
	ColGoals     = "goals"
	ColHabits    = "habits"
	ColLogs      = "logs"
	ColNotes     = "notes"
	ColReminders = "reminders"
	ColExpenses  = "expenses"
	ColEvents    = "events"
)
