package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/eunoia-app/eunoia/internal/ai"
	"github.com/eunoia-app/eunoia/internal/insights"
	"github.com/eunoia-app/eunoia/internal/models"
)

const noDataMessage = "No activity recorded in this period. Start logging your days to unlock insights."

// negativeMoods are the mood labels counted toward the burnout signal.
var negativeMoods = map[string]struct{}{
	"sad": {}, "angry": {}, "stressed": {}, "anxious": {}, "tired": {}, "frustrated": {},
}

// Report is the balance report for a period: the aggregated summary plus
// model-backed suggestions and a productivity review.
type Report struct {
	Range        insights.Range         `json:"range"`
	Summary      insights.Summary       `json:"summary"`
	NoData       bool                   `json:"noData"`
	Message      string                 `json:"message,omitempty"`
	Suggestions  []ai.Suggestion        `json:"suggestions,omitempty"`
	Productivity *ai.ProductivityResult `json:"productivity,omitempty"`
}

func (s *Service) dataset() (insights.Dataset, error) {
	var ds insights.Dataset
	var err error

	if ds.Logs, err = s.st.Logs.Load(); err != nil {
		return ds, err
	}
	if ds.Tasks, err = s.st.Tasks.Load(); err != nil {
		return ds, err
	}
	if ds.Events, err = s.st.Events.Load(); err != nil {
		return ds, err
	}
	if ds.Expenses, err = s.st.Expenses.Load(); err != nil {
		return ds, err
	}
	if ds.Habits, err = s.st.Habits.Load(); err != nil {
		return ds, err
	}
	if ds.Goals, err = s.st.Goals.Load(); err != nil {
		return ds, err
	}
	return ds, nil
}

// Report builds the balance report for r. With no categorized activity in
// the period it returns the fixed no-data report without touching the model.
func (s *Service) Report(ctx context.Context, r insights.Range) (Report, error) {
	ds, err := s.dataset()
	if err != nil {
		return Report{}, err
	}
	sum := insights.Summarize(r, ds.Slice(r))

	if !sum.HasData() {
		return Report{Range: r, Summary: sum, NoData: true, Message: noDataMessage}, nil
	}

	out := Report{Range: r, Summary: sum}

	sugg, err := s.flows.Suggestions(ctx, ai.SuggestionsInput{
		Scores:         sum.Scores,
		NeglectedAreas: sum.NeglectedAreas,
		FocusAverage:   sum.FocusAverage,
	})
	if err != nil {
		return Report{}, err
	}
	out.Suggestions = sugg.Suggestions

	prod, err := s.flows.Productivity(ctx, ai.ProductivityInput{
		Scores:         sum.Scores,
		FocusAverage:   sum.FocusAverage,
		CompletedTasks: sum.CompletedTasks,
		TotalTasks:     sum.TotalTasks,
	})
	if err != nil {
		return Report{}, err
	}
	out.Productivity = &prod

	return out, nil
}

// Insights returns the bare aggregated summary for r, without flow calls.
func (s *Service) Insights(_ context.Context, r insights.Range) (insights.Summary, error) {
	ds, err := s.dataset()
	if err != nil {
		return insights.Summary{}, err
	}
	return insights.Summarize(r, ds.Slice(r)), nil
}

// dayRange spans one local calendar day.
func dayRange(date time.Time) insights.Range {
	start := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	return insights.Range{Start: start, End: start.Add(24*time.Hour - time.Nanosecond)}
}

// PlanDay asks the planning flow for a schedule covering date. Open tasks
// and that day's calendar events anchor the plan; the focus average of the
// trailing week tunes block sizing.
func (s *Service) PlanDay(ctx context.Context, date time.Time) (ai.DailyPlanResult, error) {
	day := dayRange(date)

	tasks, err := s.st.Tasks.Load()
	if err != nil {
		return ai.DailyPlanResult{}, err
	}
	var briefs []ai.TaskBrief
	for _, t := range tasks {
		if t.Status == models.TaskCompleted {
			continue
		}
		if t.DueDate != nil && t.DueDate.After(day.End) {
			continue
		}
		b := ai.TaskBrief{Title: t.Title, Status: string(t.Status)}
		if t.DueDate != nil {
			b.DueDate = t.DueDate.Format("2006-01-02")
		}
		briefs = append(briefs, b)
	}

	events, err := s.st.Events.Load()
	if err != nil {
		return ai.DailyPlanResult{}, err
	}
	var eventBriefs []ai.EventBrief
	for _, e := range events {
		if !day.Contains(e.Start) {
			continue
		}
		eventBriefs = append(eventBriefs, ai.EventBrief{
			Title: e.Title,
			Start: e.Start.Format("15:04"),
			End:   e.End.Format("15:04"),
		})
	}

	week := insights.Range{Start: day.Start.AddDate(0, 0, -7), End: day.End}
	sum, err := s.Insights(ctx, week)
	if err != nil {
		return ai.DailyPlanResult{}, err
	}

	return s.flows.DailyPlan(ctx, ai.DailyPlanInput{
		Date:         date.Format("2006-01-02"),
		Tasks:        briefs,
		Events:       eventBriefs,
		FocusAverage: sum.FocusAverage,
	})
}

// SentimentReport analyzes the tone of diary entries and notes written in
// the period. With nothing written it returns a neutral result without a
// model call.
func (s *Service) SentimentReport(ctx context.Context, r insights.Range) (ai.SentimentResult, error) {
	logs, err := s.st.Logs.Load()
	if err != nil {
		return ai.SentimentResult{}, err
	}

	var entries []string
	for _, l := range logs {
		if !r.Contains(l.Date) {
			continue
		}
		if txt := strings.TrimSpace(l.DiaryEntry); txt != "" {
			entries = append(entries, txt)
		} else if txt := strings.TrimSpace(l.Notes); txt != "" {
			entries = append(entries, txt)
		}
	}

	if len(entries) == 0 {
		return ai.SentimentResult{
			Sentiment:  ai.SentimentNeutral,
			Confidence: 0,
			Summary:    "No diary entries in this period.",
		}, nil
	}

	return s.flows.Sentiment(ctx, ai.SentimentInput{Entries: entries})
}

// BurnoutReport estimates burnout risk for the period from the work share,
// focus trend, task completion, and negative mood frequency. With no data
// the risk is zero.
func (s *Service) BurnoutReport(ctx context.Context, r insights.Range) (ai.BurnoutResult, error) {
	sum, err := s.Insights(ctx, r)
	if err != nil {
		return ai.BurnoutResult{}, err
	}
	if !sum.HasData() {
		return ai.BurnoutResult{
			Risk:    0,
			Level:   ai.BurnoutLow,
			Factors: []string{"no tracked activity in this period"},
		}, nil
	}

	completedRatio := 1.0
	if sum.TotalTasks > 0 {
		completedRatio = float64(sum.CompletedTasks) / float64(sum.TotalTasks)
	}

	negative := 0.0
	if total := moodTotal(sum.MoodCounts); total > 0 {
		n := 0
		for mood, c := range sum.MoodCounts {
			if _, ok := negativeMoods[strings.ToLower(mood)]; ok {
				n += c
			}
		}
		negative = float64(n) / float64(total)
	}

	return s.flows.Burnout(ctx, ai.BurnoutInput{
		WorkShare:         sum.Scores[models.AreaWork],
		FocusAverage:      sum.FocusAverage,
		CompletedRatio:    completedRatio,
		NegativeMoodShare: negative,
	})
}

func moodTotal(counts map[string]int) int {
	total := 0
	for _, c := range counts {
		total += c
	}
	return total
}

// VoiceResult reports what a transcript was understood as and, when the
// intent was actionable, what record it produced or touched.
type VoiceResult struct {
	Intent   ai.Intent `json:"intent"`
	Executed bool      `json:"executed"`
	Resource string    `json:"resource,omitempty"`
	ID       string    `json:"id,omitempty"`
	Message  string    `json:"message"`
}

// VoiceCommand parses a transcript into an intent and executes it.
func (s *Service) VoiceCommand(ctx context.Context, transcript string) (VoiceResult, error) {
	intent, err := s.flows.ParseIntent(ctx, ai.IntentInput{Transcript: transcript})
	if err != nil {
		return VoiceResult{}, err
	}
	return s.ExecuteIntent(ctx, intent)
}

// ExecuteIntent turns a parsed intent into the corresponding record
// mutation. Unknown intents are returned unexecuted.
func (s *Service) ExecuteIntent(ctx context.Context, intent ai.Intent) (VoiceResult, error) {
	res := VoiceResult{Intent: intent}

	switch intent.Action {
	case ai.ActionAddTask:
		t, err := s.CreateTask(ctx, models.Task{Title: intent.Title, DueDate: intent.ParsedDateTime()})
		if err != nil {
			return res, err
		}
		res.Executed = true
		res.Resource = models.ColTasks
		res.ID = t.ID
		res.Message = fmt.Sprintf("Added task %q.", t.Title)

	case ai.ActionAddLog:
		l, err := s.CreateLog(ctx, models.LogEntry{Activity: intent.Title})
		if err != nil {
			return res, err
		}
		res.Executed = true
		res.Resource = models.ColLogs
		res.ID = l.ID
		res.Message = fmt.Sprintf("Logged %q.", l.Activity)

	case ai.ActionAddReminder:
		when := intent.ParsedDateTime()
		if when == nil {
			tomorrow := s.now().AddDate(0, 0, 1)
			at := time.Date(tomorrow.Year(), tomorrow.Month(), tomorrow.Day(), 9, 0, 0, 0, tomorrow.Location())
			when = &at
		}
		rm, err := s.CreateReminder(ctx, models.Reminder{Title: intent.Title, DateTime: *when})
		if err != nil {
			return res, err
		}
		res.Executed = true
		res.Resource = models.ColReminders
		res.ID = rm.ID
		res.Message = fmt.Sprintf("Reminder %q set for %s.", rm.Title, rm.DateTime.Format(time.RFC3339))

	case ai.ActionAddExpense:
		e, err := s.CreateExpense(ctx, models.Expense{Description: intent.Title, Amount: intent.Amount})
		if err != nil {
			return res, err
		}
		res.Executed = true
		res.Resource = models.ColExpenses
		res.ID = e.ID
		res.Message = fmt.Sprintf("Recorded expense %q (%.2f).", e.Description, e.Amount)

	case ai.ActionAddNote:
		n, err := s.CreateNote(ctx, models.Note{Title: intent.Title, Content: intent.Title})
		if err != nil {
			return res, err
		}
		res.Executed = true
		res.Resource = models.ColNotes
		res.ID = n.ID
		res.Message = fmt.Sprintf("Saved note %q.", n.Title)

	case ai.ActionCompleteHabit:
		h, ok, err := s.completeHabitByTitle(ctx, intent.Title)
		if err != nil {
			return res, err
		}
		if !ok {
			res.Message = fmt.Sprintf("No habit matching %q.", intent.Title)
			return res, nil
		}
		res.Executed = true
		res.Resource = models.ColHabits
		res.ID = h.ID
		res.Message = fmt.Sprintf("Marked %q complete (streak %d).", h.Title, h.Streak)

	default:
		res.Message = "Sorry, I could not understand that."
	}

	return res, nil
}

// completeHabitByTitle finds the habit whose title matches the phrase
// (case-insensitive, either direction of containment) and completes it.
func (s *Service) completeHabitByTitle(ctx context.Context, phrase string) (models.Habit, bool, error) {
	habits, err := s.st.Habits.Load()
	if err != nil {
		return models.Habit{}, false, err
	}
	needle := strings.ToLower(strings.TrimSpace(phrase))
	if needle == "" {
		return models.Habit{}, false, nil
	}
	for _, h := range habits {
		title := strings.ToLower(h.Title)
		if strings.Contains(needle, title) || strings.Contains(title, needle) {
			updated, _, err := s.MarkHabitComplete(ctx, h.ID)
			if err != nil {
				return models.Habit{}, false, err
			}
			return updated, true, nil
		}
	}
	return models.Habit{}, false, nil
}
