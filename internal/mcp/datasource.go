package mcp

import (
	"context"

	"github.com/claude/liftplan/internal/hps"
	"github.com/claude/liftplan/internal/ledger"
	"github.com/claude/liftplan/internal/models"
	"github.com/claude/liftplan/internal/storage"
)

// DataSource abstracts the planner for MCP tools. Local (in-process
// ledger) and HTTPClient (remote via REST API) both satisfy it.
type DataSource interface {
	Prescription(ctx context.Context, exercise string, currentMax float64, week int, t models.TrainingType) (models.Prescription, error)
	Program(ctx context.Context, exercise string, currentMax float64) ([]models.Prescription, error)
	ScheduleForDate(ctx context.Context, date string) (models.TrainingType, bool, error)
	Sessions(ctx context.Context) ([]models.WorkoutSession, error)
	SessionByDate(ctx context.Context, date string) (*models.WorkoutSession, error)
	SaveSession(ctx context.Context, session models.WorkoutSession) (models.WorkoutSession, error)
	RecordMax(ctx context.Context, exercise string, weightKg float64) (models.MaxRecord, error)
	CurrentMaxes(ctx context.Context) (map[string]float64, error)
}

// Local adapts the in-process ledger, schedule, and max repo to the
// DataSource interface.
type Local struct {
	Ledger   *ledger.Ledger
	Schedule hps.Schedule
	Maxes    storage.MaxRepo
}

// Compile-time check: *Local satisfies DataSource.
var _ DataSource = (*Local)(nil)

func (l *Local) Prescription(_ context.Context, exercise string, currentMax float64, week int, t models.TrainingType) (models.Prescription, error) {
	return hps.Calculate(exercise, currentMax, week, t)
}

func (l *Local) Program(_ context.Context, exercise string, currentMax float64) ([]models.Prescription, error) {
	return hps.Program(exercise, currentMax)
}

func (l *Local) ScheduleForDate(_ context.Context, date string) (models.TrainingType, bool, error) {
	return l.Schedule.ForDateString(date)
}

func (l *Local) Sessions(_ context.Context) ([]models.WorkoutSession, error) {
	return l.Ledger.All(), nil
}

func (l *Local) SessionByDate(_ context.Context, date string) (*models.WorkoutSession, error) {
	session, ok := l.Ledger.ByDate(date)
	if !ok {
		return nil, nil
	}
	return &session, nil
}

func (l *Local) SaveSession(ctx context.Context, session models.WorkoutSession) (models.WorkoutSession, error) {
	if err := l.Ledger.Save(ctx, session); err != nil {
		return models.WorkoutSession{}, err
	}
	merged, _ := l.Ledger.ByDate(session.Date)
	return merged, nil
}

func (l *Local) RecordMax(ctx context.Context, exercise string, weightKg float64) (models.MaxRecord, error) {
	return l.Maxes.RecordMax(ctx, exercise, weightKg)
}

func (l *Local) CurrentMaxes(ctx context.Context) (map[string]float64, error) {
	return l.Maxes.CurrentMaxes(ctx)
}
