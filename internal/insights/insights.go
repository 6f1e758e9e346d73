// Package insights aggregates tracker records over a date range into the
// per-area summary that feeds the AI flows.
package insights

import (
	"math"
	"time"

	"github.com/eunoia-app/eunoia/internal/categorize"
	"github.com/eunoia-app/eunoia/internal/models"
)

// Range is an inclusive date range.
type Range struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Contains reports whether t falls inside the range, bounds included.
func (r Range) Contains(t time.Time) bool {
	return !t.Before(r.Start) && !t.After(r.End)
}

// Dataset holds the heterogeneous collections considered for a period.
type Dataset struct {
	Logs     []models.LogEntry
	Tasks    []models.Task
	Events   []models.CalendarEvent
	Expenses []models.Expense
	Habits   []models.Habit
	Goals    []models.Goal
}

// Slice filters each collection to the items whose relevant date field
// falls inside r. Tasks without a due date fall back to their creation
// time; habits are included by their last completion.
func (d Dataset) Slice(r Range) Dataset {
	out := Dataset{}
	for _, l := range d.Logs {
		if r.Contains(l.Date) {
			out.Logs = append(out.Logs, l)
		}
	}
	for _, t := range d.Tasks {
		when := t.CreatedAt
		if t.DueDate != nil {
			when = *t.DueDate
		}
		if r.Contains(when) {
			out.Tasks = append(out.Tasks, t)
		}
	}
	for _, e := range d.Events {
		if r.Contains(e.Start) {
			out.Events = append(out.Events, e)
		}
	}
	for _, x := range d.Expenses {
		if r.Contains(x.Date) {
			out.Expenses = append(out.Expenses, x)
		}
	}
	for _, h := range d.Habits {
		if h.LastCompleted != nil && r.Contains(*h.LastCompleted) {
			out.Habits = append(out.Habits, h)
		}
	}
	for _, g := range d.Goals {
		if r.Contains(g.UpdatedAt) {
			out.Goals = append(out.Goals, g)
		}
	}
	return out
}

// Summary is the aggregated view of a period.
type Summary struct {
	Range            Range                    `json:"range"`
	TotalCategorized int                      `json:"totalCategorized"`
	Counts           map[models.LifeArea]int  `json:"counts"`
	Scores           map[models.LifeArea]int  `json:"scores"`
	FocusAverage     float64                  `json:"focusAverage"`
	FocusSamples     int                      `json:"focusSamples"`
	NeglectedAreas   []models.LifeArea        `json:"neglectedAreas"`
	CompletedTasks   int                      `json:"completedTasks"`
	TotalTasks       int                      `json:"totalTasks"`
	MoodCounts       map[string]int           `json:"moodCounts,omitempty"`
}

// HasData reports whether at least one item was categorized into a life area.
func (s Summary) HasData() bool { return s.TotalCategorized > 0 }

// NoData returns the fixed degenerate summary for an empty period: every
// area is neglected and no score is computed. Callers must not invoke the
// generative model for such a period.
func NoData(r Range) Summary {
	s := Summary{
		Range:  r,
		Counts: map[models.LifeArea]int{},
		Scores: map[models.LifeArea]int{},
	}
	for _, area := range models.Areas() {
		s.Counts[area] = 0
		s.Scores[area] = 0
		s.NeglectedAreas = append(s.NeglectedAreas, area)
	}
	return s
}

// Summarize tallies the dataset (already sliced to r) into per-area counts
// and normalized scores. Uncategorized items do not enter the denominator.
func Summarize(r Range, ds Dataset) Summary {
	counts := map[models.LifeArea]int{}
	for _, area := range models.Areas() {
		counts[area] = 0
	}

	tally := func(text, hint string) {
		area := categorize.Categorize(text, hint)
		if area != models.AreaUncategorized {
			counts[area]++
		}
	}

	moods := map[string]int{}
	var focusSum, focusN int
	for _, l := range ds.Logs {
		tally(l.Activity+" "+l.Notes, "")
		if l.Mood != "" {
			moods[l.Mood]++
		}
		if l.FocusLevel != nil {
			focusSum += *l.FocusLevel
			focusN++
		}
	}

	var completed int
	for _, t := range ds.Tasks {
		tally(t.Title+" "+t.Description, "")
		if t.Status == models.TaskCompleted {
			completed++
		}
	}
	for _, e := range ds.Events {
		tally(e.Title+" "+e.Description, "")
	}
	for _, x := range ds.Expenses {
		tally(x.Description, x.Category)
	}
	for _, h := range ds.Habits {
		tally(h.Title+" "+h.Description, "")
	}
	for _, g := range ds.Goals {
		tally(g.Title+" "+g.Description, "")
	}

	total := 0
	for _, n := range counts {
		total += n
	}
	if total == 0 {
		return NoData(r)
	}

	scores := map[models.LifeArea]int{}
	var neglected []models.LifeArea
	for _, area := range models.Areas() {
		scores[area] = int(math.Round(float64(counts[area]) / float64(total) * 100))
		if counts[area] == 0 {
			neglected = append(neglected, area)
		}
	}

	var focusAvg float64
	if focusN > 0 {
		focusAvg = math.Round(float64(focusSum)/float64(focusN)*10) / 10
	}

	if len(moods) == 0 {
		moods = nil
	}

	return Summary{
		Range:            r,
		TotalCategorized: total,
		Counts:           counts,
		Scores:           scores,
		FocusAverage:     focusAvg,
		FocusSamples:     focusN,
		NeglectedAreas:   neglected,
		CompletedTasks:   completed,
		TotalTasks:       len(ds.Tasks),
		MoodCounts:       moods,
	}
}
