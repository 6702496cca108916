package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/claude/liftplan/internal/calendar"
	"github.com/claude/liftplan/internal/catalog"
	"github.com/claude/liftplan/internal/hps"
	"github.com/claude/liftplan/internal/models"
	"github.com/go-chi/chi/v5"
)

func (s *Server) handleExercises(w http.ResponseWriter, r *http.Request) {
	part := r.URL.Query().Get("body_part")
	if part == "" {
		writeJSON(w, http.StatusOK, s.catalog.All())
		return
	}
	writeJSON(w, http.StatusOK, s.catalog.ForBodyPart(models.BodyPart(part)))
}

func (s *Server) handlePlan(w http.ResponseWriter, r *http.Request) {
	part := r.URL.Query().Get("body_part")
	if part == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "body_part parameter required"})
		return
	}
	difficulty := catalog.Difficulty(r.URL.Query().Get("difficulty"))
	plan := s.catalog.PlanFor(models.BodyPart(part), difficulty)
	if len(plan.Exercises) == 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "unknown body part: " + part})
		return
	}
	writeJSON(w, http.StatusOK, plan)
}

func (s *Server) handleSchedule(w http.ResponseWriter, r *http.Request) {
	date := r.URL.Query().Get("date")
	if date == "" {
		date = models.FormatDate(time.Now().UTC())
	}
	t, ok, err := s.schedule.ForDateString(date)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	resp := map[string]any{"date": date, "rest": !ok}
	if ok {
		resp["hps_type"] = t
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handlePrescription(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	exercise := q.Get("exercise")
	if exercise == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "exercise parameter required"})
		return
	}
	max, err := strconv.ParseFloat(q.Get("max"), 64)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "max parameter must be a number"})
		return
	}
	week, err := strconv.Atoi(q.Get("week"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "week parameter must be an integer"})
		return
	}
	t, err := models.ParseTrainingType(q.Get("type"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	calc, err := hps.Calculate(exercise, max, week, t)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, calc)
}

func (s *Server) handleProgram(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	exercise := q.Get("exercise")
	if exercise == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "exercise parameter required"})
		return
	}
	max, err := strconv.ParseFloat(q.Get("max"), 64)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "max parameter must be a number"})
		return
	}

	program, err := hps.Program(exercise, max)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, program)
}

func (s *Server) handleListSessions(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.ledger.All())
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	date := chi.URLParam(r, "date")
	session, ok := s.ledger.ByDate(date)
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "no session on " + date})
		return
	}
	writeJSON(w, http.StatusOK, session)
}

func (s *Server) handleSaveSession(w http.ResponseWriter, r *http.Request) {
	var session models.WorkoutSession
	if err := json.NewDecoder(r.Body).Decode(&session); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}
	if len(session.BodyParts) == 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "body_parts must not be empty"})
		return
	}

	if err := s.ledger.Save(r.Context(), session); err != nil {
		s.writeLedgerError(w, err)
		return
	}
	merged, _ := s.ledger.ByDate(session.Date)
	writeJSON(w, http.StatusOK, merged)
}

func (s *Server) handleUpdateSession(w http.ResponseWriter, r *http.Request) {
	var session models.WorkoutSession
	if err := json.NewDecoder(r.Body).Decode(&session); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}
	session.Date = chi.URLParam(r, "date")

	if err := s.ledger.Update(r.Context(), session); err != nil {
		s.writeLedgerError(w, err)
		return
	}
	updated, _ := s.ledger.ByDate(session.Date)
	writeJSON(w, http.StatusOK, updated)
}

func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	date := chi.URLParam(r, "date")
	if err := s.ledger.Delete(r.Context(), date); err != nil {
		s.writeLedgerError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleCompleteSession(w http.ResponseWriter, r *http.Request) {
	date := chi.URLParam(r, "date")
	if err := s.ledger.MarkCompleted(r.Context(), date); err != nil {
		s.writeLedgerError(w, err)
		return
	}
	if session, ok := s.ledger.ByDate(date); ok {
		writeJSON(w, http.StatusOK, session)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// calendarCell is one grid slot annotated for rendering: the scheduled
// training type and, when a session exists, its summary.
type calendarCell struct {
	calendar.Cell
	HPSType models.TrainingType `json:"hps_type,omitempty"`
	Session *sessionSummary     `json:"session,omitempty"`
}

type sessionSummary struct {
	BodyParts []models.BodyPart `json:"body_parts"`
	Completed bool              `json:"completed"`
}

func (s *Server) handleCalendar(w http.ResponseWriter, r *http.Request) {
	year, err := strconv.Atoi(chi.URLParam(r, "year"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid year"})
		return
	}
	month, err := strconv.Atoi(chi.URLParam(r, "month"))
	if err != nil || month < 1 || month > 12 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "month must be 1-12"})
		return
	}

	weeks := calendar.Monthly(year, time.Month(month))
	grid := make([][7]calendarCell, len(weeks))
	for i, week := range weeks {
		for j, cell := range week {
			annotated := calendarCell{Cell: cell}
			if !cell.Padding() {
				if d, err := models.ParseDate(cell.Date); err == nil {
					if t, ok := s.schedule.ForDate(d); ok {
						annotated.HPSType = t
					}
				}
				if session, ok := s.ledger.ByDate(cell.Date); ok {
					annotated.Session = &sessionSummary{
						BodyParts: session.BodyParts,
						Completed: session.Completed,
					}
				}
			}
			grid[i][j] = annotated
		}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"year":  year,
		"month": month,
		"weeks": grid,
	})
}

func (s *Server) handleCurrentMaxes(w http.ResponseWriter, r *http.Request) {
	maxes, err := s.maxes.CurrentMaxes(r.Context())
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, maxes)
}

func (s *Server) handleMaxHistory(w http.ResponseWriter, r *http.Request) {
	exercise := chi.URLParam(r, "exercise")
	history, err := s.maxes.MaxHistory(r.Context(), exercise)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, history)
}

func (s *Server) handleRecordMax(w http.ResponseWriter, r *http.Request) {
	exercise := chi.URLParam(r, "exercise")
	var body struct {
		WeightKg float64 `json:"weight_kg"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}
	if body.WeightKg <= 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "weight_kg must be positive"})
		return
	}

	rec, err := s.maxes.RecordMax(r.Context(), exercise, body.WeightKg)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

// writeLedgerError maps ledger failures: bad input is the caller's
// fault; anything else is a persistence failure where the in-memory
// state is already updated, so the caller is told to retry persistence
// rather than resubmit.
func (s *Server) writeLedgerError(w http.ResponseWriter, err error) {
	if errors.Is(err, models.ErrInvalidInput) {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	s.log.Error("ledger persistence error", "error", err)
	writeJSON(w, http.StatusBadGateway, map[string]string{"error": "recorded in memory but not persisted: " + err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
