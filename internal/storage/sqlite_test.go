package storage

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/claude/liftplan/internal/models"
)

func openTestDB(t *testing.T) *SQLite {
	t.Helper()
	db, err := OpenSQLite(filepath.Join(t.TempDir(), "liftplan.db"))
	if err != nil {
		t.Fatalf("OpenSQLite error: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

// TestSQLiteSessionRoundTrip verifies a session survives a save and
// reload with all fields intact, including the nullable duration.
func TestSQLiteSessionRoundTrip(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	duration := 45
	sess := models.WorkoutSession{
		ID:        "session-2024-06-03",
		Date:      "2024-06-03",
		BodyParts: []models.BodyPart{models.Chest, models.Back},
		Type:      models.Hypertrophy,
		Exercises: []models.ExerciseLog{
			{
				EntryID: "e1",
				Exercise: models.Exercise{
					ID: "1", Name: "Bench Press", BodyPart: models.Chest,
					Sets: 3, Reps: "8-12", HasWeight: true,
				},
				ActualSets: 5,
				ActualReps: "8",
			},
		},
		Completed: true,
		Duration:  &duration,
	}
	if err := db.SaveSession(ctx, sess); err != nil {
		t.Fatalf("SaveSession error: %v", err)
	}

	loaded, err := db.LoadAll(ctx)
	if err != nil {
		t.Fatalf("LoadAll error: %v", err)
	}
	if len(loaded) != 1 {
		t.Fatalf("loaded %d sessions, want 1", len(loaded))
	}
	got := loaded[0]
	if got.ID != sess.ID || got.Date != sess.Date || got.Type != sess.Type {
		t.Errorf("loaded session = %+v, want %+v", got, sess)
	}
	if len(got.BodyParts) != 2 || got.BodyParts[0] != models.Chest {
		t.Errorf("body parts = %v, want [chest back]", got.BodyParts)
	}
	if len(got.Exercises) != 1 || got.Exercises[0].Exercise.Name != "Bench Press" {
		t.Errorf("exercises = %+v, want Bench Press log", got.Exercises)
	}
	if !got.Completed {
		t.Error("completed = false, want true")
	}
	if got.Duration == nil || *got.Duration != 45 {
		t.Errorf("duration = %v, want 45", got.Duration)
	}
}

// TestSQLiteSessionUpsert verifies that saving the same date twice
// keeps a single row with the newer content, and that LoadAll keeps
// first-insert order across dates.
func TestSQLiteSessionUpsert(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	first := models.WorkoutSession{
		ID: "session-2024-06-03", Date: "2024-06-03",
		BodyParts: []models.BodyPart{models.Chest},
		Type:      models.Hypertrophy,
	}
	second := models.WorkoutSession{
		ID: "session-2024-06-05", Date: "2024-06-05",
		BodyParts: []models.BodyPart{models.Legs},
		Type:      models.Power,
	}
	for _, s := range []models.WorkoutSession{first, second} {
		if err := db.SaveSession(ctx, s); err != nil {
			t.Fatalf("SaveSession(%s) error: %v", s.Date, err)
		}
	}

	first.BodyParts = append(first.BodyParts, models.Back)
	first.Completed = true
	if err := db.SaveSession(ctx, first); err != nil {
		t.Fatalf("re-save error: %v", err)
	}

	loaded, err := db.LoadAll(ctx)
	if err != nil {
		t.Fatalf("LoadAll error: %v", err)
	}
	if len(loaded) != 2 {
		t.Fatalf("loaded %d sessions, want 2", len(loaded))
	}
	if loaded[0].Date != "2024-06-03" || loaded[1].Date != "2024-06-05" {
		t.Errorf("order = [%s %s], want [2024-06-03 2024-06-05]", loaded[0].Date, loaded[1].Date)
	}
	if len(loaded[0].BodyParts) != 2 || !loaded[0].Completed {
		t.Errorf("upserted session = %+v, want chest+back completed", loaded[0])
	}
}

// TestSQLiteDeleteSession verifies delete removes the row and a delete
// of a missing date is not an error.
func TestSQLiteDeleteSession(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	sess := models.WorkoutSession{
		ID: "session-2024-06-03", Date: "2024-06-03",
		BodyParts: []models.BodyPart{models.Abs},
		Type:      models.Hypertrophy,
	}
	if err := db.SaveSession(ctx, sess); err != nil {
		t.Fatalf("SaveSession error: %v", err)
	}
	if err := db.DeleteSession(ctx, "2024-06-03"); err != nil {
		t.Fatalf("DeleteSession error: %v", err)
	}
	loaded, err := db.LoadAll(ctx)
	if err != nil {
		t.Fatalf("LoadAll error: %v", err)
	}
	if len(loaded) != 0 {
		t.Errorf("loaded %d sessions after delete, want 0", len(loaded))
	}

	if err := db.DeleteSession(ctx, "2024-01-01"); err != nil {
		t.Errorf("delete of missing date: %v, want nil", err)
	}
}

// TestSQLiteMaxHistory verifies the 1RM log: history keeps every entry
// oldest-first and CurrentMaxes reports the latest per exercise.
func TestSQLiteMaxHistory(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	for _, w := range []float64{100, 102.5, 105} {
		if _, err := db.RecordMax(ctx, "Bench Press", w); err != nil {
			t.Fatalf("RecordMax error: %v", err)
		}
	}
	if _, err := db.RecordMax(ctx, "Squat", 140); err != nil {
		t.Fatalf("RecordMax error: %v", err)
	}

	history, err := db.MaxHistory(ctx, "Bench Press")
	if err != nil {
		t.Fatalf("MaxHistory error: %v", err)
	}
	if len(history) != 3 {
		t.Fatalf("history entries = %d, want 3", len(history))
	}
	for i, want := range []float64{100, 102.5, 105} {
		if history[i].WeightKg != want {
			t.Errorf("history[%d] = %g, want %g", i, history[i].WeightKg, want)
		}
	}

	maxes, err := db.CurrentMaxes(ctx)
	if err != nil {
		t.Fatalf("CurrentMaxes error: %v", err)
	}
	if maxes["Bench Press"] != 105 {
		t.Errorf("current bench max = %g, want 105", maxes["Bench Press"])
	}
	if maxes["Squat"] != 140 {
		t.Errorf("current squat max = %g, want 140", maxes["Squat"])
	}

	empty, err := db.MaxHistory(ctx, "Deadlift")
	if err != nil {
		t.Fatalf("MaxHistory error: %v", err)
	}
	if len(empty) != 0 {
		t.Errorf("history for unrecorded exercise = %d entries, want 0", len(empty))
	}
}
