package server

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/claude/liftplan/internal/catalog"
	"github.com/claude/liftplan/internal/hps"
	"github.com/claude/liftplan/internal/ledger"
	"github.com/claude/liftplan/internal/models"
	"github.com/claude/liftplan/internal/storage"
)

const testAPIKey = "test-key"

func newTestServer(t *testing.T) *Server {
	t.Helper()
	cat, err := catalog.Load()
	if err != nil {
		t.Fatalf("loading catalog: %v", err)
	}
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	return New(ledger.NewMemory(), cat, hps.DefaultSchedule(), storage.NewMemoryMaxes(), testAPIKey, log)
}

func doJSON(t *testing.T, s *Server, method, path, body string, auth bool) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if auth {
		req.Header.Set("X-API-Key", testAPIKey)
	}
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	return rec
}

// TestHandleExercises verifies the catalog endpoint with and without a
// body-part filter.
func TestHandleExercises(t *testing.T) {
	s := newTestServer(t)

	rec := doJSON(t, s, http.MethodGet, "/api/v1/exercises", "", false)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var all []models.Exercise
	if err := json.NewDecoder(rec.Body).Decode(&all); err != nil {
		t.Fatalf("decode error: %v", err)
	}
	if len(all) != 17 {
		t.Errorf("exercises = %d, want 17", len(all))
	}

	rec = doJSON(t, s, http.MethodGet, "/api/v1/exercises?body_part=back", "", false)
	var back []models.Exercise
	if err := json.NewDecoder(rec.Body).Decode(&back); err != nil {
		t.Fatalf("decode error: %v", err)
	}
	if len(back) != 3 {
		t.Errorf("back exercises = %d, want 3", len(back))
	}
}

// TestHandlePrescription verifies the calculator endpoint, including
// the exact no-over-rounding case and input rejection.
func TestHandlePrescription(t *testing.T) {
	s := newTestServer(t)

	rec := doJSON(t, s, http.MethodGet, "/api/v1/prescription?exercise=Bench+Press&max=100&week=1&type=hypertrophy", "", false)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body)
	}
	var calc models.Prescription
	if err := json.NewDecoder(rec.Body).Decode(&calc); err != nil {
		t.Fatalf("decode error: %v", err)
	}
	if calc.RecommendedWeight != 75 {
		t.Errorf("recommended weight = %g, want 75", calc.RecommendedWeight)
	}
	if calc.Sets != 5 || calc.Reps != "8" {
		t.Errorf("sets/reps = %d/%q, want 5/8", calc.Sets, calc.Reps)
	}

	// One-letter alias accepted.
	rec = doJSON(t, s, http.MethodGet, "/api/v1/prescription?exercise=Squat&max=100&week=1&type=S", "", false)
	if rec.Code != http.StatusOK {
		t.Fatalf("alias status = %d, want 200", rec.Code)
	}

	for _, q := range []string{
		"exercise=x&max=0&week=1&type=power",
		"exercise=x&max=100&week=0&type=power",
		"exercise=x&max=100&week=1&type=yoga",
		"max=100&week=1&type=power",
	} {
		rec = doJSON(t, s, http.MethodGet, "/api/v1/prescription?"+q, "", false)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("query %q: status = %d, want 400", q, rec.Code)
		}
	}
}

// TestHandleProgram verifies the 18-entry program preview.
func TestHandleProgram(t *testing.T) {
	s := newTestServer(t)

	rec := doJSON(t, s, http.MethodGet, "/api/v1/program?exercise=Squat&max=140", "", false)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var program []models.Prescription
	if err := json.NewDecoder(rec.Body).Decode(&program); err != nil {
		t.Fatalf("decode error: %v", err)
	}
	if len(program) != 18 {
		t.Errorf("program entries = %d, want 18", len(program))
	}
}

// TestHandleSchedule verifies the weekday lookup: Monday trains,
// Tuesday rests.
func TestHandleSchedule(t *testing.T) {
	s := newTestServer(t)

	rec := doJSON(t, s, http.MethodGet, "/api/v1/schedule?date=2024-06-03", "", false)
	var resp struct {
		Rest    bool   `json:"rest"`
		HPSType string `json:"hps_type"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode error: %v", err)
	}
	if resp.Rest || resp.HPSType != "hypertrophy" {
		t.Errorf("Monday = %+v, want hypertrophy", resp)
	}

	rec = doJSON(t, s, http.MethodGet, "/api/v1/schedule?date=2024-06-04", "", false)
	resp = struct {
		Rest    bool   `json:"rest"`
		HPSType string `json:"hps_type"`
	}{}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode error: %v", err)
	}
	if !resp.Rest {
		t.Error("Tuesday should be a rest day")
	}

	rec = doJSON(t, s, http.MethodGet, "/api/v1/schedule?date=junk", "", false)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("bad date status = %d, want 400", rec.Code)
	}
}

// TestSessionLifecycle verifies save, merge via second save, read,
// complete, and delete over HTTP.
func TestSessionLifecycle(t *testing.T) {
	s := newTestServer(t)

	a := `{"date":"2024-06-03","body_parts":["chest"],"hps_type":"hypertrophy",
	  "exercises":[{"entry_id":"e1","exercise":{"id":"1","name":"Bench Press","body_part":"chest","sets":3,"reps":"8-12"}}],
	  "completed":false,"duration":20}`
	rec := doJSON(t, s, http.MethodPost, "/api/v1/sessions", a, true)
	if rec.Code != http.StatusOK {
		t.Fatalf("save status = %d, want 200: %s", rec.Code, rec.Body)
	}

	b := `{"date":"2024-06-03","body_parts":["back"],"hps_type":"hypertrophy",
	  "exercises":[{"entry_id":"e2","exercise":{"id":"4","name":"Deadlift","body_part":"back","sets":3,"reps":"5-8"}}],
	  "completed":true,"duration":15}`
	rec = doJSON(t, s, http.MethodPost, "/api/v1/sessions", b, true)
	if rec.Code != http.StatusOK {
		t.Fatalf("merge status = %d, want 200: %s", rec.Code, rec.Body)
	}

	rec = doJSON(t, s, http.MethodGet, "/api/v1/sessions/2024-06-03", "", false)
	if rec.Code != http.StatusOK {
		t.Fatalf("get status = %d, want 200", rec.Code)
	}
	var merged models.WorkoutSession
	if err := json.NewDecoder(rec.Body).Decode(&merged); err != nil {
		t.Fatalf("decode error: %v", err)
	}
	if len(merged.BodyParts) != 2 || len(merged.Exercises) != 2 {
		t.Errorf("merged = %d parts / %d exercises, want 2/2", len(merged.BodyParts), len(merged.Exercises))
	}
	if merged.Duration == nil || *merged.Duration != 35 {
		t.Errorf("duration = %v, want 35", merged.Duration)
	}
	if !merged.Completed {
		t.Error("completed = false, want true")
	}

	rec = doJSON(t, s, http.MethodDelete, "/api/v1/sessions/2024-06-03", "", true)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("delete status = %d, want 204", rec.Code)
	}
	rec = doJSON(t, s, http.MethodGet, "/api/v1/sessions/2024-06-03", "", false)
	if rec.Code != http.StatusNotFound {
		t.Errorf("get after delete status = %d, want 404", rec.Code)
	}
}

// TestMutatingRoutesRequireAPIKey verifies the auth middleware guards
// writes but not reads.
func TestMutatingRoutesRequireAPIKey(t *testing.T) {
	s := newTestServer(t)

	rec := doJSON(t, s, http.MethodPost, "/api/v1/sessions", `{"date":"2024-06-03","body_parts":["abs"]}`, false)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("unauthenticated save status = %d, want 401", rec.Code)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/sessions", strings.NewReader(`{"date":"2024-06-03","body_parts":["abs"]}`))
	req.Header.Set("X-API-Key", "wrong")
	wrongRec := httptest.NewRecorder()
	s.ServeHTTP(wrongRec, req)
	if wrongRec.Code != http.StatusForbidden {
		t.Errorf("wrong key status = %d, want 403", wrongRec.Code)
	}

	rec = doJSON(t, s, http.MethodGet, "/api/v1/sessions", "", false)
	if rec.Code != http.StatusOK {
		t.Errorf("unauthenticated read status = %d, want 200", rec.Code)
	}
}

// TestHandleCalendar verifies the annotated month grid: 6 weeks of 7
// cells, with a saved session showing on its date.
func TestHandleCalendar(t *testing.T) {
	s := newTestServer(t)

	save := `{"date":"2024-06-03","body_parts":["chest"],"hps_type":"hypertrophy","completed":true}`
	if rec := doJSON(t, s, http.MethodPost, "/api/v1/sessions", save, true); rec.Code != http.StatusOK {
		t.Fatalf("save status = %d", rec.Code)
	}

	rec := doJSON(t, s, http.MethodGet, "/api/v1/calendar/2024/6", "", false)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var resp struct {
		Weeks [][]struct {
			Day     int    `json:"day"`
			Date    string `json:"date"`
			HPSType string `json:"hps_type"`
			Session *struct {
				BodyParts []string `json:"body_parts"`
				Completed bool     `json:"completed"`
			} `json:"session"`
		} `json:"weeks"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode error: %v", err)
	}
	if len(resp.Weeks) != 6 {
		t.Fatalf("weeks = %d, want 6", len(resp.Weeks))
	}

	found := false
	for _, week := range resp.Weeks {
		if len(week) != 7 {
			t.Fatalf("week length = %d, want 7", len(week))
		}
		for _, cell := range week {
			if cell.Date == "2024-06-03" {
				found = true
				if cell.HPSType != "hypertrophy" {
					t.Errorf("Monday cell type = %q, want hypertrophy", cell.HPSType)
				}
				if cell.Session == nil || !cell.Session.Completed {
					t.Errorf("Monday cell session = %+v, want completed session", cell.Session)
				}
			}
		}
	}
	if !found {
		t.Error("2024-06-03 cell not found in grid")
	}

	if rec := doJSON(t, s, http.MethodGet, "/api/v1/calendar/2024/13", "", false); rec.Code != http.StatusBadRequest {
		t.Errorf("month 13 status = %d, want 400", rec.Code)
	}
}

// TestMaxEndpoints verifies recording a 1RM and reading it back as the
// current value and in history.
func TestMaxEndpoints(t *testing.T) {
	s := newTestServer(t)

	rec := doJSON(t, s, http.MethodPut, "/api/v1/maxes/Bench%20Press", `{"weight_kg":100}`, true)
	if rec.Code != http.StatusOK {
		t.Fatalf("record status = %d, want 200: %s", rec.Code, rec.Body)
	}
	rec = doJSON(t, s, http.MethodPut, "/api/v1/maxes/Bench%20Press", `{"weight_kg":102.5}`, true)
	if rec.Code != http.StatusOK {
		t.Fatalf("record status = %d, want 200", rec.Code)
	}

	rec = doJSON(t, s, http.MethodGet, "/api/v1/maxes", "", false)
	maxes := make(map[string]float64)
	if err := json.NewDecoder(rec.Body).Decode(&maxes); err != nil {
		t.Fatalf("decode error: %v", err)
	}
	if maxes["Bench Press"] != 102.5 {
		t.Errorf("current max = %g, want 102.5", maxes["Bench Press"])
	}

	rec = doJSON(t, s, http.MethodGet, "/api/v1/maxes/Bench%20Press/history", "", false)
	var history []models.MaxRecord
	if err := json.NewDecoder(rec.Body).Decode(&history); err != nil {
		t.Fatalf("decode error: %v", err)
	}
	if len(history) != 2 {
		t.Errorf("history entries = %d, want 2", len(history))
	}

	if rec := doJSON(t, s, http.MethodPut, "/api/v1/maxes/Squat", `{"weight_kg":-5}`, true); rec.Code != http.StatusBadRequest {
		t.Errorf("negative weight status = %d, want 400", rec.Code)
	}
}
