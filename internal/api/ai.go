package api

import (
	"fmt"
	"net/http"
	"time"

	"github.com/eunoia-app/eunoia/internal/insights"
)

// parseRange reads start/end query parameters (RFC 3339 or YYYY-MM-DD).
// The default window is the trailing seven days.
func parseRange(r *http.Request) (insights.Range, error) {
	q := r.URL.Query()
	now := time.Now()
	out := insights.Range{Start: now.AddDate(0, 0, -7), End: now}

	parse := func(s string) (time.Time, error) {
		if t, err := time.Parse(time.RFC3339, s); err == nil {
			return t, nil
		}
		t, err := time.Parse("2006-01-02", s)
		if err != nil {
			return time.Time{}, fmt.Errorf("invalid time %q, want RFC 3339 or YYYY-MM-DD", s)
		}
		return t, nil
	}

	if s := q.Get("start"); s != "" {
		t, err := parse(s)
		if err != nil {
			return insights.Range{}, err
		}
		out.Start = t
	}
	if s := q.Get("end"); s != "" {
		t, err := parse(s)
		if err != nil {
			return insights.Range{}, err
		}
		// A date-only end bound covers the whole day.
		if len(s) == len("2006-01-02") {
			t = t.Add(24*time.Hour - time.Nanosecond)
		}
		out.End = t
	}
	if out.End.Before(out.Start) {
		return insights.Range{}, fmt.Errorf("end precedes start")
	}
	return out, nil
}

// Insights handles GET /api/insights.
//
//	@Summary	Aggregated life-area summary for a period
//	@Tags		insights
//	@Produce	json
//	@Param		start	query	string	false	"Period start (RFC 3339 or YYYY-MM-DD)"
//	@Param		end		query	string	false	"Period end"
//	@Security	BearerAuth
//	@Router		/insights [get]
func (h *Handler) Insights(w http.ResponseWriter, r *http.Request) {
	rng, err := parseRange(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody(err.Error()))
		return
	}
	sum, err := h.svc.Insights(r.Context(), rng)
	if err != nil {
		writeError(w, err, "insights")
		return
	}
	writeJSON(w, http.StatusOK, sum)
}

// Report handles GET /api/report: the summary plus suggestions and a
// productivity review.
//
//	@Summary	Balance report with suggestions and productivity review
//	@Tags		insights
//	@Produce	json
//	@Param		start	query	string	false	"Period start (RFC 3339 or YYYY-MM-DD)"
//	@Param		end		query	string	false	"Period end"
//	@Security	BearerAuth
//	@Router		/report [get]
func (h *Handler) Report(w http.ResponseWriter, r *http.Request) {
	rng, err := parseRange(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody(err.Error()))
		return
	}
	report, err := h.svc.Report(r.Context(), rng)
	if err != nil {
		writeError(w, err, "report")
		return
	}
	writeJSON(w, http.StatusOK, report)
}

// Plan handles POST /api/ai/plan.
//
//	@Summary	Generate a daily schedule
//	@Tags		ai
//	@Accept		json
//	@Produce	json
//	@Param		body	body	PlanRequest	true	"Day to plan"
//	@Security	BearerAuth
//	@Router		/ai/plan [post]
func (h *Handler) Plan(w http.ResponseWriter, r *http.Request) {
	var req PlanRequest
	if !decode(w, r, &req) {
		return
	}
	if err := req.Validate(); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody(err.Error()))
		return
	}
	date, err := time.ParseInLocation("2006-01-02", req.Date, time.Local)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid date"))
		return
	}
	plan, err := h.svc.PlanDay(r.Context(), date)
	if err != nil {
		writeError(w, err, "plan day")
		return
	}
	writeJSON(w, http.StatusOK, plan)
}

// Sentiment handles GET /api/ai/sentiment.
//
//	@Summary	Sentiment analysis of diary entries in a period
//	@Tags		ai
//	@Produce	json
//	@Security	BearerAuth
//	@Router		/ai/sentiment [get]
func (h *Handler) Sentiment(w http.ResponseWriter, r *http.Request) {
	rng, err := parseRange(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody(err.Error()))
		return
	}
	res, err := h.svc.SentimentReport(r.Context(), rng)
	if err != nil {
		writeError(w, err, "sentiment")
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// Burnout handles GET /api/ai/burnout.
//
//	@Summary	Burnout risk estimate for a period
//	@Tags		ai
//	@Produce	json
//	@Security	BearerAuth
//	@Router		/ai/burnout [get]
func (h *Handler) Burnout(w http.ResponseWriter, r *http.Request) {
	rng, err := parseRange(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody(err.Error()))
		return
	}
	res, err := h.svc.BurnoutReport(r.Context(), rng)
	if err != nil {
		writeError(w, err, "burnout")
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// Voice handles POST /api/ai/voice.
//
//	@Summary	Parse a voice transcript and execute the resulting intent
//	@Tags		ai
//	@Accept		json
//	@Produce	json
//	@Param		body	body	VoiceRequest	true	"Transcript"
//	@Security	BearerAuth
//	@Router		/ai/voice [post]
func (h *Handler) Voice(w http.ResponseWriter, r *http.Request) {
	var req VoiceRequest
	if !decode(w, r, &req) {
		return
	}
	if err := req.Validate(); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody(err.Error()))
		return
	}
	res, err := h.svc.VoiceCommand(r.Context(), req.Transcript)
	if err != nil {
		writeError(w, err, "voice command")
		return
	}
	writeJSON(w, http.StatusOK, res)
}
