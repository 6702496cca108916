// Package server exposes the planner over HTTP: catalog lookups, load
// prescriptions, the weekday schedule, the session ledger, and the
// month calendar view.
package server

import (
	"log/slog"
	"net/http"

	"github.com/claude/liftplan/internal/catalog"
	"github.com/claude/liftplan/internal/hps"
	"github.com/claude/liftplan/internal/ledger"
	"github.com/claude/liftplan/internal/storage"
	"github.com/go-chi/chi/v5"
)

// Server holds dependencies for HTTP handlers.
type Server struct {
	ledger   *ledger.Ledger
	catalog  *catalog.Catalog
	schedule hps.Schedule
	maxes    storage.MaxRepo
	log      *slog.Logger
	apiKey   string
	router   chi.Router
}

// New creates a Server with all routes configured.
func New(l *ledger.Ledger, cat *catalog.Catalog, schedule hps.Schedule, maxes storage.MaxRepo, apiKey string, log *slog.Logger) *Server {
	s := &Server{
		ledger:   l,
		catalog:  cat,
		schedule: schedule,
		maxes:    maxes,
		log:      log,
		apiKey:   apiKey,
		router:   chi.NewRouter(),
	}
	s.routes()
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes() {
	s.router.Use(RequestLogging(s.log))
	s.router.Use(CORS)

	// Read-only endpoints
	s.router.Get("/api/v1/exercises", s.handleExercises)
	s.router.Get("/api/v1/plan", s.handlePlan)
	s.router.Get("/api/v1/schedule", s.handleSchedule)
	s.router.Get("/api/v1/prescription", s.handlePrescription)
	s.router.Get("/api/v1/program", s.handleProgram)
	s.router.Get("/api/v1/sessions", s.handleListSessions)
	s.router.Get("/api/v1/sessions/{date}", s.handleGetSession)
	s.router.Get("/api/v1/calendar/{year}/{month}", s.handleCalendar)
	s.router.Get("/api/v1/maxes", s.handleCurrentMaxes)
	s.router.Get("/api/v1/maxes/{exercise}/history", s.handleMaxHistory)

	// Mutating endpoints (API key required)
	s.router.Group(func(r chi.Router) {
		r.Use(APIKeyAuth(s.apiKey))
		r.Post("/api/v1/sessions", s.handleSaveSession)
		r.Put("/api/v1/sessions/{date}", s.handleUpdateSession)
		r.Delete("/api/v1/sessions/{date}", s.handleDeleteSession)
		r.Post("/api/v1/sessions/{date}/complete", s.handleCompleteSession)
		r.Put("/api/v1/maxes/{exercise}", s.handleRecordMax)
	})
}
