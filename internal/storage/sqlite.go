package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/claude/liftplan/internal/models"
	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// SQLite backs the ledger and max history with a single local database
// file. Pure-Go driver, no cgo, suited to single-user local runs.
type SQLite struct {
	db *sql.DB
}

// OpenSQLite opens (or creates) the database at the given path and
// ensures the schema exists.
func OpenSQLite(path string) (*SQLite, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating db dir %s: %w", dir, err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite db: %w", err)
	}

	schema := `
	CREATE TABLE IF NOT EXISTS sessions (
		seq          INTEGER PRIMARY KEY AUTOINCREMENT,
		id           TEXT NOT NULL,
		date         TEXT NOT NULL UNIQUE,
		body_parts   TEXT NOT NULL,
		hps_type     TEXT NOT NULL,
		exercises    TEXT NOT NULL,
		completed    INTEGER NOT NULL,
		duration_min INTEGER
	);

	CREATE TABLE IF NOT EXISTS max_weights (
		id          TEXT PRIMARY KEY,
		exercise    TEXT NOT NULL,
		weight_kg   REAL NOT NULL,
		recorded_at TIMESTAMP NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_max_weights_exercise ON max_weights(exercise, recorded_at);
	`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return &SQLite{db: db}, nil
}

// Close closes the database.
func (s *SQLite) Close() error {
	return s.db.Close()
}

// LoadAll returns every stored session in original insertion order.
func (s *SQLite) LoadAll(ctx context.Context) ([]models.WorkoutSession, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, date, body_parts, hps_type, exercises, completed, duration_min
		 FROM sessions ORDER BY seq ASC`)
	if err != nil {
		return nil, fmt.Errorf("querying sessions: %w", err)
	}
	defer rows.Close()

	var result []models.WorkoutSession
	for rows.Next() {
		var (
			sess      models.WorkoutSession
			parts     string
			exercises string
		)
		if err := rows.Scan(&sess.ID, &sess.Date, &parts, &sess.Type, &exercises, &sess.Completed, &sess.Duration); err != nil {
			return nil, fmt.Errorf("scanning session: %w", err)
		}
		if err := json.Unmarshal([]byte(parts), &sess.BodyParts); err != nil {
			return nil, fmt.Errorf("decoding body parts for %s: %w", sess.Date, err)
		}
		if err := json.Unmarshal([]byte(exercises), &sess.Exercises); err != nil {
			return nil, fmt.Errorf("decoding exercises for %s: %w", sess.Date, err)
		}
		result = append(result, sess)
	}
	return result, rows.Err()
}

// SaveSession upserts the merged session row for its date.
func (s *SQLite) SaveSession(ctx context.Context, sess models.WorkoutSession) error {
	parts, err := json.Marshal(sess.BodyParts)
	if err != nil {
		return fmt.Errorf("encoding body parts: %w", err)
	}
	exercises, err := json.Marshal(sess.Exercises)
	if err != nil {
		return fmt.Errorf("encoding exercises: %w", err)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO sessions (id, date, body_parts, hps_type, exercises, completed, duration_min)
		 VALUES (?,?,?,?,?,?,?)
		 ON CONFLICT(date) DO UPDATE SET
		   body_parts = excluded.body_parts,
		   hps_type = excluded.hps_type,
		   exercises = excluded.exercises,
		   completed = excluded.completed,
		   duration_min = excluded.duration_min`,
		sess.ID, sess.Date, string(parts), sess.Type, string(exercises), sess.Completed, sess.Duration)
	if err != nil {
		return fmt.Errorf("upserting session %s: %w", sess.Date, err)
	}
	return nil
}

// DeleteSession removes the row for a date. Missing rows are fine.
func (s *SQLite) DeleteSession(ctx context.Context, date string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM sessions WHERE date = ?`, date); err != nil {
		return fmt.Errorf("deleting session %s: %w", date, err)
	}
	return nil
}

// RecordMax appends a 1RM history entry for an exercise.
func (s *SQLite) RecordMax(ctx context.Context, exercise string, weightKg float64) (models.MaxRecord, error) {
	rec := models.MaxRecord{
		ID:         uuid.NewString(),
		Exercise:   exercise,
		WeightKg:   weightKg,
		RecordedAt: time.Now().UTC(),
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO max_weights (id, exercise, weight_kg, recorded_at) VALUES (?,?,?,?)`,
		rec.ID, rec.Exercise, rec.WeightKg, rec.RecordedAt)
	if err != nil {
		return models.MaxRecord{}, fmt.Errorf("recording max for %s: %w", exercise, err)
	}
	return rec, nil
}

// CurrentMaxes returns the most recent 1RM per exercise.
func (s *SQLite) CurrentMaxes(ctx context.Context) (map[string]float64, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT exercise, weight_kg FROM max_weights m
		 WHERE recorded_at = (SELECT MAX(recorded_at) FROM max_weights WHERE exercise = m.exercise)`)
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
func (s *SQLite) MaxHistory(ctx context.Context, exercise string) ([]models.MaxRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, exercise, weight_kg, recorded_at
		 FROM max_weights WHERE exercise = ? ORDER BY recorded_at ASC`,
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
