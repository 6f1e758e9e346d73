package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/eunoia-app/eunoia/internal/ai"
	"github.com/eunoia-app/eunoia/internal/index"
	"github.com/eunoia-app/eunoia/internal/models"
	"github.com/eunoia-app/eunoia/internal/service"
	"github.com/eunoia-app/eunoia/internal/testutil"
)

// nopIndex satisfies index.RecordIndex without a database.
type nopIndex struct{}

func (nopIndex) Upsert(index.RecordRow, string) error             { return nil }
func (nopIndex) Delete(string, string) error                      { return nil }
func (nopIndex) AllChecksums() (map[string]string, error)         { return nil, nil }
func (nopIndex) Search(string, int) ([]index.SearchResult, error) { return nil, nil }
func (nopIndex) Close() error                                     { return nil }

// testEnv sets up a temp store, service, and router for testing.
// authToken="" means auth disabled.
func testEnv(t *testing.T, authToken string) (*service.Service, http.Handler) {
	t.Helper()
	svc := service.New(
		testutil.TestStore(t),
		nopIndex{},
		ai.NewFlows(nil, testutil.Logger()),
		nil,
		testutil.Logger(),
	)
	router := NewRouter(svc, authToken != "", authToken, nil)
	return svc, router
}

func doJSON(t *testing.T, router http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatal(err)
		}
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestCreateAndGetTask(t *testing.T) {
	_, router := testEnv(t, "")

	due := time.Date(2025, 7, 1, 17, 30, 0, 0, time.UTC)
	w := doJSON(t, router, http.MethodPost, "/tasks", map[string]any{
		"title":   "Write quarterly report",
		"dueDate": due.Format(time.RFC3339),
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("create status = %d, body = %s", w.Code, w.Body.String())
	}

	var created models.Task
	if err := json.Unmarshal(w.Body.Bytes(), &created); err != nil {
		t.Fatal(err)
	}
	if created.Status != models.TaskPending {
		t.Errorf("status = %q, want Pending", created.Status)
	}

	w = doJSON(t, router, http.MethodGet, "/tasks/"+created.ID, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("get status = %d", w.Code)
	}
	var got models.Task
	if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
		t.Fatal(err)
	}
	// Timestamps must survive the JSON round trip unchanged.
	if got.DueDate == nil || !got.DueDate.Equal(due) {
		t.Errorf("dueDate = %v, want %v", got.DueDate, due)
	}
	if !got.CreatedAt.Equal(created.CreatedAt) {
		t.Errorf("createdAt drifted: %v != %v", got.CreatedAt, created.CreatedAt)
	}
}

func TestCreateTaskValidation(t *testing.T) {
	_, router := testEnv(t, "")

	w := doJSON(t, router, http.MethodPost, "/tasks", map[string]any{"title": ""})
	if w.Code != http.StatusBadRequest {
		t.Errorf("empty title status = %d, want 400", w.Code)
	}

	w = doJSON(t, router, http.MethodPost, "/tasks", map[string]any{"title": "x", "status": "Bogus"})
	if w.Code != http.StatusBadRequest {
		t.Errorf("bad status status = %d, want 400", w.Code)
	}
}

func TestUpdateTaskPartial(t *testing.T) {
	_, router := testEnv(t, "")

	w := doJSON(t, router, http.MethodPost, "/tasks", map[string]any{
		"title":       "Draft",
		"description": "first pass",
	})
	var created models.Task
	if err := json.Unmarshal(w.Body.Bytes(), &created); err != nil {
		t.Fatal(err)
	}

	w = doJSON(t, router, http.MethodPut, "/tasks/"+created.ID, map[string]any{
		"status": string(models.TaskCompleted),
	})
	if w.Code != http.StatusOK {
		t.Fatalf("update status = %d, body = %s", w.Code, w.Body.String())
	}
	var updated models.Task
	if err := json.Unmarshal(w.Body.Bytes(), &updated); err != nil {
		t.Fatal(err)
	}
	if updated.Status != models.TaskCompleted {
		t.Errorf("status = %q, want Completed", updated.Status)
	}
	if updated.Description != "first pass" {
		t.Errorf("description changed on partial update: %q", updated.Description)
	}
}

func TestDeleteTask(t *testing.T) {
	_, router := testEnv(t, "")

	w := doJSON(t, router, http.MethodPost, "/tasks", map[string]any{"title": "gone soon"})
	var created models.Task
	if err := json.Unmarshal(w.Body.Bytes(), &created); err != nil {
		t.Fatal(err)
	}

	w = doJSON(t, router, http.MethodDelete, "/tasks/"+created.ID, nil)
	if w.Code != http.StatusNoContent {
		t.Fatalf("delete status = %d", w.Code)
	}

	w = doJSON(t, router, http.MethodGet, "/tasks/"+created.ID, nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("get after delete status = %d, want 404", w.Code)
	}
}

func TestGetTask_NotFound(t *testing.T) {
	_, router := testEnv(t, "")
	w := doJSON(t, router, http.MethodGet, "/tasks/nope", nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", w.Code)
	}
}

func TestCompleteHabitEndpoint(t *testing.T) {
	_, router := testEnv(t, "")

	w := doJSON(t, router, http.MethodPost, "/habits", map[string]any{"title": "Stretch"})
	if w.Code != http.StatusCreated {
		t.Fatalf("create status = %d", w.Code)
	}
	var habit models.Habit
	if err := json.Unmarshal(w.Body.Bytes(), &habit); err != nil {
		t.Fatal(err)
	}

	w = doJSON(t, router, http.MethodPost, "/habits/"+habit.ID+"/complete", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("complete status = %d, body = %s", w.Code, w.Body.String())
	}
	var first struct {
		Habit   models.Habit `json:"habit"`
		Changed bool         `json:"changed"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &first); err != nil {
		t.Fatal(err)
	}
	if !first.Changed || first.Habit.Streak != 1 {
		t.Fatalf("first completion: changed=%v streak=%d", first.Changed, first.Habit.Streak)
	}

	// Same day again: idempotent.
	w = doJSON(t, router, http.MethodPost, "/habits/"+habit.ID+"/complete", nil)
	var second struct {
		Habit   models.Habit `json:"habit"`
		Changed bool         `json:"changed"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &second); err != nil {
		t.Fatal(err)
	}
	if second.Changed || second.Habit.Streak != 1 {
		t.Errorf("second completion: changed=%v streak=%d, want false/1", second.Changed, second.Habit.Streak)
	}
}

func TestCreateEventRejectsInvertedRange(t *testing.T) {
	_, router := testEnv(t, "")

	start := time.Date(2025, 7, 2, 15, 0, 0, 0, time.UTC)
	w := doJSON(t, router, http.MethodPost, "/calendar", map[string]any{
		"title": "Review",
		"start": start.Format(time.RFC3339),
		"end":   start.Add(-time.Hour).Format(time.RFC3339),
	})
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestSearchMissingQuery(t *testing.T) {
	_, router := testEnv(t, "")
	w := doJSON(t, router, http.MethodGet, "/search", nil)
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestInsightsEmpty(t *testing.T) {
	_, router := testEnv(t, "")

	w := doJSON(t, router, http.MethodGet, "/insights?start=2025-06-01&end=2025-06-30", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var sum struct {
		TotalCategorized int      `json:"totalCategorized"`
		NeglectedAreas   []string `json:"neglectedAreas"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &sum); err != nil {
		t.Fatal(err)
	}
	if sum.TotalCategorized != 0 {
		t.Errorf("totalCategorized = %d, want 0", sum.TotalCategorized)
	}
	if len(sum.NeglectedAreas) != len(models.Areas()) {
		t.Errorf("neglected = %d, want all areas", len(sum.NeglectedAreas))
	}
}

func TestInsightsBadRange(t *testing.T) {
	_, router := testEnv(t, "")
	w := doJSON(t, router, http.MethodGet, "/insights?start=2025-06-30&end=2025-06-01", nil)
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestReportNoData(t *testing.T) {
	_, router := testEnv(t, "")

	w := doJSON(t, router, http.MethodGet, "/report?start=2025-06-01&end=2025-06-30", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var report struct {
		NoData  bool   `json:"noData"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &report); err != nil {
		t.Fatal(err)
	}
	if !report.NoData || report.Message == "" {
		t.Errorf("report = %+v, want noData with message", report)
	}
}

func TestPlanEndpoint(t *testing.T) {
	_, router := testEnv(t, "")

	w := doJSON(t, router, http.MethodPost, "/ai/plan", map[string]any{"date": "2025-06-16"})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	var plan struct {
		Date   string           `json:"date"`
		Blocks []map[string]any `json:"blocks"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &plan); err != nil {
		t.Fatal(err)
	}
	if plan.Date != "2025-06-16" || len(plan.Blocks) == 0 {
		t.Errorf("plan = %+v", plan)
	}

	w = doJSON(t, router, http.MethodPost, "/ai/plan", map[string]any{"date": "not-a-date"})
	if w.Code != http.StatusBadRequest {
		t.Errorf("bad date status = %d, want 400", w.Code)
	}
}

func TestVoiceEndpoint(t *testing.T) {
	svc, router := testEnv(t, "")

	w := doJSON(t, router, http.MethodPost, "/ai/voice", map[string]any{
		"transcript": "add task buy milk",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	var res struct {
		Executed bool   `json:"executed"`
		Resource string `json:"resource"`
		ID       string `json:"id"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &res); err != nil {
		t.Fatal(err)
	}
	if !res.Executed || res.Resource != "tasks" {
		t.Fatalf("result = %+v", res)
	}
	if _, err := svc.GetTask(context.Background(), res.ID); err != nil {
		t.Errorf("task not persisted: %v", err)
	}
}

func TestAuthMiddleware_ValidToken(t *testing.T) {
	_, router := testEnv(t, "secret")

	req := httptest.NewRequest(http.MethodGet, "/tasks", nil)
	req.Header.Set("Authorization", "Bearer secret")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", w.Code)
	}
}

func TestAuthMiddleware_MissingToken(t *testing.T) {
	_, router := testEnv(t, "secret")

	req := httptest.NewRequest(http.MethodGet, "/tasks", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", w.Code)
	}
}

func TestAuthMiddleware_WrongToken(t *testing.T) {
	_, router := testEnv(t, "secret")

	req := httptest.NewRequest(http.MethodGet, "/tasks", nil)
	req.Header.Set("Authorization", "Bearer nope")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", w.Code)
	}
}

func TestAuthMiddleware_Disabled(t *testing.T) {
	_, router := testEnv(t, "")

	req := httptest.NewRequest(http.MethodGet, "/tasks", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", w.Code)
	}
}
