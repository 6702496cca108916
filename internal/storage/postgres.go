// Package storage provides the persistent stores behind the session
// ledger and the 1RM history: a Postgres implementation for server
// deployments and a SQLite implementation for single-user local runs.
package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/claude/liftplan/internal/models"
	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// MaxRepo records and reads per-exercise one-rep-max history.
type MaxRepo interface {
	RecordMax(ctx context.Context, exercise string, weightKg float64) (models.MaxRecord, error)
	CurrentMaxes(ctx context.Context) (map[string]float64, error)
	MaxHistory(ctx context.Context, exercise string) ([]models.MaxRecord, error)
}

// Postgres backs the ledger and max history with a pgx connection pool.
type Postgres struct {
	Pool *pgxpool.Pool
}

// NewPostgres creates a Postgres store with a connection pool.
func NewPostgres(ctx context.Context, dsn string) (*Postgres, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("creating pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}
	return &Postgres{Pool: pool}, nil
}

// Close closes the connection pool.
func (p *Postgres) Close() {
	p.Pool.Close()
}

// RunMigrations applies all pending migrations from the given directory.
func RunMigrations(dsn, migrationsPath string) error {
	m, err := migrate.New("file://"+migrationsPath, dsn)
	if err != nil {
		return fmt.Errorf("creating migrator: %w", err)
	}
	defer m.Close()

	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return fmt.Errorf("running migrations: %w", err)
	}
	return nil
}

// LoadAll returns every stored session in original insertion order.
func (p *Postgres) LoadAll(ctx context.Context) ([]models.WorkoutSession, error) {
	rows, err := p.Pool.Query(ctx,
		`SELECT id, date, body_parts, hps_type, exercises, completed, duration_min
		 FROM sessions ORDER BY seq ASC`)
	if err != nil {
		return nil, fmt.Errorf("querying sessions: %w", err)
	}
	defer rows.Close()

	var result []models.WorkoutSession
	for rows.Next() {
		var (
			s         models.WorkoutSession
			parts     []byte
			exercises []byte
		)
		if err := rows.Scan(&s.ID, &s.Date, &parts, &s.Type, &exercises, &s.Completed, &s.Duration); err != nil {
			return nil, fmt.Errorf("scanning session: %w", err)
		}
		if err := json.Unmarshal(parts, &s.BodyParts); err != nil {
			return nil, fmt.Errorf("decoding body parts for %s: %w", s.Date, err)
		}
		if err := json.Unmarshal(exercises, &s.Exercises); err != nil {
			return nil, fmt.Errorf("decoding exercises for %s: %w", s.Date, err)
		}
		result = append(result, s)
	}
	return result, rows.Err()
}

// SaveSession upserts the session row for its date. The ledger performs
// the merge; the store only persists the merged result.
func (p *Postgres) SaveSession(ctx context.Context, s models.WorkoutSession) error {
	parts, err := json.Marshal(s.BodyParts)
	if err != nil {
		return fmt.Errorf("encoding body parts: %w", err)
	}
	exercises, err := json.Marshal(s.Exercises)
	if err != nil {
		return fmt.Errorf("encoding exercises: %w", err)
	}

	_, err = p.Pool.Exec(ctx,
		`INSERT INTO sessions (id, date, body_parts, hps_type, exercises, completed, duration_min)
		 VALUES ($1,$2,$3,$4,$5,$6,$7)
		 ON CONFLICT (date) DO UPDATE SET
		   body_parts = EXCLUDED.body_parts,
		   hps_type = EXCLUDED.hps_type,
		   exercises = EXCLUDED.exercises,
		   completed = EXCLUDED.completed,
		   duration_min = EXCLUDED.duration_min`,
		s.ID, s.Date, parts, s.Type, exercises, s.Completed, s.Duration)
	if err != nil {
		return fmt.Errorf("upserting session %s: %w", s.Date, err)
	}
	return nil
}

// DeleteSession removes the row for a date. Missing rows are fine.
func (p *Postgres) DeleteSession(ctx context.Context, date string) error {
	_, err := p.Pool.Exec(ctx, `DELETE FROM sessions WHERE date = $1`, date)
	if err != nil {
		return fmt.Errorf("deleting session %s: %w", date, err)
	}
	return nil
}

// RecordMax appends a 1RM history entry for an exercise.
func (p *Postgres) RecordMax(ctx context.Context, exercise string, weightKg float64) (models.MaxRecord, error) {
	rec := models.MaxRecord{
		ID:         uuid.NewString(),
		Exercise:   exercise,
		WeightKg:   weightKg,
		RecordedAt: time.Now().UTC(),
	}
	_, err := p.Pool.Exec(ctx,
		`INSERT INTO max_weights (id, exercise, weight_kg, recorded_at) VALUES ($1,$2,$3,$4)`,
		rec.ID, rec.Exercise, rec.WeightKg, rec.RecordedAt)
	if err != nil {
		return models.MaxRecord{}, fmt.Errorf("recording max for %s: %w", exercise, err)
	}
	return rec, nil
}

// CurrentMaxes returns the most recent 1RM per exercise.
func (p *Postgres) CurrentMaxes(ctx context.Context) (map[string]float64, error) {
	rows, err := p.Pool.Query(ctx,
		`SELECT DISTINCT ON (exercise) exercise, weight_kg
		 FROM max_weights ORDER BY exercise, recorded_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("querying current maxes: %w", err)
	}
	defer rows.Close()

	maxes := make(map[string]float64)
	for rows.Next() {
		var exercise string
		var weight float64
		if err := rows.Scan(&exercise, &weight); err != nil {
			return nil, fmt.Errorf("scanning max: %w", err)
		}
		maxes[exercise] = weight
	}
	return maxes, rows.Err()
}

// MaxHistory returns the full 1RM progression for one exercise, oldest
// first.
func (p *Postgres) MaxHistory(ctx context.Context, exercise string) ([]models.MaxRecord, error) {
	rows, err := p.Pool.Query(ctx,
		`SELECT id, exercise, weight_kg, recorded_at
		 FROM max_weights WHERE exercise = $1 ORDER BY recorded_at ASC`,
		exercise)
	if err != nil {
		return nil, fmt.Errorf("querying max history: %w", err)
	}
	defer rows.Close()

	var result []models.MaxRecord
	for rows.Next() {
		var rec models.MaxRecord
		if err := rows.Scan(&rec.ID, &rec.Exercise, &rec.WeightKg, &rec.RecordedAt); err != nil {
			return nil, fmt.Errorf("scanning max record: %w", err)
		}
		result = append(result, rec)
	}
	return result, rows.Err()
}
