package ai

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Intent actions a voice command can map to.
const (
	ActionAddTask       = "add_task"
	ActionAddLog        = "add_log"
	ActionAddReminder   = "add_reminder"
	ActionAddExpense    = "add_expense"
	ActionAddNote       = "add_note"
	ActionCompleteHabit = "complete_habit"
	ActionUnknown       = "unknown"
)

var intentActions = []interface{}{
	ActionAddTask, ActionAddLog, ActionAddReminder,
	ActionAddExpense, ActionAddNote, ActionCompleteHabit, ActionUnknown,
}

// IntentInput is the validated input of the voice-intent flow.
type IntentInput struct {
	Transcript string `json:"transcript"`
}

// Validate validates the flow input.
func (i IntentInput) Validate() error {
	return validation.ValidateStruct(&i,
		validation.Field(&i.Transcript, validation.Required, validation.Length(1, 2000)),
	)
}

// Intent is the validated output of the voice-intent flow.
type Intent struct {
	Action   string  `json:"action"`
	Title    string  `json:"title,omitempty"`
	DateTime string  `json:"dateTime,omitempty"` // RFC 3339, when the command names a time
	Amount   float64 `json:"amount,omitempty"`   // for add_expense
}

// Validate validates the flow output.
func (r Intent) Validate() error {
	if err := validation.ValidateStruct(&r,
		validation.Field(&r.Action, validation.Required, validation.In(intentActions...)),
		validation.Field(&r.Amount, validation.Min(0.0)),
	); err != nil {
		return err
	}
	if r.Action != ActionUnknown && r.Title == "" {
		return fmt.Errorf("title: cannot be blank for action %s", r.Action)
	}
	return nil
}

// ParsedDateTime returns the intent's time, or nil when absent or malformed.
func (r Intent) ParsedDateTime() *time.Time {
	if r.DateTime == "" {
		return nil
	}
	t, err := time.Parse(time.RFC3339, r.DateTime)
	if err != nil {
		return nil
	}
	return &t
}

// ParseIntent maps a voice transcript to a tracker action. On any model
// failure it falls back to a keyword parser.
func (f *Flows) ParseIntent(ctx context.Context, in IntentInput) (Intent, error) {
	if err := in.Validate(); err != nil {
		return Intent{}, invalid(err)
	}

	prompt := fmt.Sprintf(`Parse the voice command into a tracker action. Produce a JSON object
{"action":"add_task|add_log|add_reminder|add_expense|add_note|complete_habit|unknown",
"title":"...","dateTime":"RFC3339 if the command names a time","amount":number for expenses}.
Use "unknown" when the command does not map to any action.

Command: %q`, in.Transcript)

	var out Intent
	if f.generate(ctx, "parse_intent", prompt, &out) {
		return out, nil
	}
	return fallbackIntent(in.Transcript), nil
}

var (
	amountRe = regexp.MustCompile(`(\d+(?:\.\d+)?)`)

	// Lead-in phrases stripped from titles, longest first.
	leadIns = []string{
		"remind me to ", "remind me ", "add a task to ", "add task ", "new task ",
		"take a note ", "note that ", "note ", "log that i ", "log that ", "log ",
		"i completed my ", "completed my ", "i did my ",
	}
)

func stripLeadIn(s string) string {
	lower := strings.ToLower(s)
	for _, p := range leadIns {
		if strings.HasPrefix(lower, p) {
			return strings.TrimSpace(s[len(p):])
		}
	}
	return strings.TrimSpace(s)
}

// fallbackIntent is the deterministic keyword parser used when the model is
// unavailable. Rule order matters: reminders are checked before tasks so
// "remind me to buy milk" never becomes a task.
func fallbackIntent(transcript string) Intent {
	text := strings.TrimSpace(transcript)
	lower := strings.ToLower(text)
	if lower == "" {
		return Intent{Action: ActionUnknown}
	}

	title := stripLeadIn(text)

	switch {
	case strings.Contains(lower, "remind"):
		return Intent{Action: ActionAddReminder, Title: title}

	case strings.Contains(lower, "spent") || strings.Contains(lower, "paid") || strings.Contains(lower, "expense"):
		intent := Intent{Action: ActionAddExpense, Title: title}
		if m := amountRe.FindString(lower); m != "" {
			if amount, err := strconv.ParseFloat(m, 64); err == nil {
				intent.Amount = amount
			}
		}
		// "spent 12.50 on groceries" reads better titled by what was bought.
		if _, after, found := strings.Cut(lower, " on "); found && after != "" {
			intent.Title = strings.TrimSpace(text[len(text)-len(after):])
		}
		return intent

	case strings.Contains(lower, "task") || strings.Contains(lower, "todo") || strings.Contains(lower, "to-do"):
		return Intent{Action: ActionAddTask, Title: title}

	case strings.Contains(lower, "habit") || strings.HasPrefix(lower, "completed my") || strings.HasPrefix(lower, "i completed my") || strings.HasPrefix(lower, "i did my"):
		return Intent{Action: ActionCompleteHabit, Title: title}

	case strings.Contains(lower, "note"):
		return Intent{Action: ActionAddNote, Title: title}

	case strings.HasPrefix(lower, "log ") || strings.HasPrefix(lower, "log that"):
		return Intent{Action: ActionAddLog, Title: title}

	default:
		return Intent{Action: ActionUnknown, Title: title}
	}
}
