package ai

import (
	"context"
	"fmt"
	"regexp"
	"sort"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/eunoia-app/eunoia/internal/models"
)

var clockRe = regexp.MustCompile(`^([01][0-9]|2[0-3]):[0-5][0-9]$`)

// TaskBrief is the task projection sent to the planning flow.
type TaskBrief struct {
	Title   string `json:"title"`
	Status  string `json:"status"`
	DueDate string `json:"dueDate,omitempty"`
}

// EventBrief is the calendar projection sent to the planning flow.
type EventBrief struct {
	Title string `json:"title"`
	Start string `json:"start"` // HH:MM
	End   string `json:"end"`   // HH:MM
}

// DailyPlanInput is the validated input of the daily-plan flow.
type DailyPlanInput struct {
	Date         string       `json:"date"` // YYYY-MM-DD
	Tasks        []TaskBrief  `json:"tasks"`
	Events       []EventBrief `json:"events"`
	FocusAverage float64      `json:"focusAverage"`
}

// Validate validates the flow input.
func (i DailyPlanInput) Validate() error {
	return validation.ValidateStruct(&i,
		validation.Field(&i.Date, validation.Required, validation.Date("2006-01-02")),
	)
}

// PlanBlock is a single scheduled block in a daily plan.
type PlanBlock struct {
	Start    string          `json:"start"`
	End      string          `json:"end"`
	Activity string          `json:"activity"`
	Area     models.LifeArea `json:"area"`
}

// Validate validates one block.
func (b PlanBlock) Validate() error {
	areas := make([]interface{}, 0, len(models.Areas())+1)
	for _, a := range models.Areas() {
		areas = append(areas, a)
	}
	areas = append(areas, models.AreaUncategorized)
	return validation.ValidateStruct(&b,
		validation.Field(&b.Start, validation.Required, validation.Match(clockRe)),
		validation.Field(&b.End, validation.Required, validation.Match(clockRe)),
		validation.Field(&b.Activity, validation.Required),
		validation.Field(&b.Area, validation.Required, validation.In(areas...)),
	)
}

// DailyPlanResult is the validated output of the daily-plan flow.
type DailyPlanResult struct {
	Date    string      `json:"date"`
	Blocks  []PlanBlock `json:"blocks"`
	Summary string      `json:"summary"`
}

// Validate validates the flow output.
func (r DailyPlanResult) Validate() error {
	if err := validation.ValidateStruct(&r,
		validation.Field(&r.Date, validation.Required, validation.Date("2006-01-02")),
		validation.Field(&r.Blocks, validation.Required),
	); err != nil {
		return err
	}
	for i, b := range r.Blocks {
		if err := b.Validate(); err != nil {
			return fmt.Errorf("blocks[%d]: %w", i, err)
		}
	}
	return nil
}

// DailyPlan builds a schedule for the given day around fixed events and
// pending tasks. On any model failure it returns a locally computed plan.
func (f *Flows) DailyPlan(ctx context.Context, in DailyPlanInput) (DailyPlanResult, error) {
	if err := in.Validate(); err != nil {
		return DailyPlanResult{}, invalid(err)
	}

	prompt := fmt.Sprintf(`You are a day planner. Given the JSON input below, produce a JSON object
{"date":"YYYY-MM-DD","blocks":[{"start":"HH:MM","end":"HH:MM","activity":"...","area":"..."}],"summary":"..."}
where area is one of: Work/Career, Personal Growth, Health/Wellness, Social/Relationships, Finance, Hobbies/Leisure, Responsibilities/Chores, Uncategorized.
Keep calendar events at their fixed times and schedule pending tasks around them.

Input: %s`, mustJSON(in))

	var out DailyPlanResult
	if f.generate(ctx, "daily_plan", prompt, &out) {
		return out, nil
	}
	return fallbackDailyPlan(in), nil
}

// fallbackDailyPlan slots fixed events first, then pending tasks into
// one-hour blocks starting at 09:00, skipping occupied hours.
func fallbackDailyPlan(in DailyPlanInput) DailyPlanResult {
	var blocks []PlanBlock

	occupied := map[string]bool{}
	for _, e := range in.Events {
		blocks = append(blocks, PlanBlock{
			Start:    e.Start,
			End:      e.End,
			Activity: e.Title,
			Area:     models.AreaUncategorized,
		})
		occupied[e.Start] = true
	}

	hour := 9
	for _, t := range in.Tasks {
		if t.Status == string(models.TaskCompleted) {
			continue
		}
		for hour < 18 && occupied[fmt.Sprintf("%02d:00", hour)] {
			hour++
		}
		if hour >= 18 {
			break
		}
		blocks = append(blocks, PlanBlock{
			Start:    fmt.Sprintf("%02d:00", hour),
			End:      fmt.Sprintf("%02d:00", hour+1),
			Activity: t.Title,
			Area:     models.AreaUncategorized,
		})
		hour++
	}

	sort.Slice(blocks, func(i, j int) bool { return blocks[i].Start < blocks[j].Start })

	if len(blocks) == 0 {
		blocks = append(blocks, PlanBlock{
			Start:    "09:00",
			End:      "10:00",
			Activity: "Plan your day and pick one task to start with",
			Area:     models.AreaGrowth,
		})
	}

	return DailyPlanResult{
		Date:    in.Date,
		Blocks:  blocks,
		Summary: fmt.Sprintf("Schedule for %s with %d blocks.", in.Date, len(blocks)),
	}
}
