package models

import (
	"errors"
	"fmt"
	"time"
)

// ErrInvalidInput marks caller errors: non-positive maxes, malformed
// dates, unknown training types. Callers test with errors.Is.
var ErrInvalidInput = errors.New("invalid input")

// DateLayout is the calendar-day format used everywhere sessions cross
// a boundary. No time component, no timezone.
const DateLayout = "2006-01-02"

// ParseDate validates a YYYY-MM-DD string and returns it as a UTC
// midnight time.Time.
func ParseDate(s string) (time.Time, error) {
	t, err := time.ParseInLocation(DateLayout, s, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: bad date %q", ErrInvalidInput, s)
	}
	return t, nil
}

// FormatDate renders a time as a calendar-day string.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// BodyPart tags an exercise with the region it trains.
type BodyPart string

const (
	Chest     BodyPart = "chest"
	Back      BodyPart = "back"
	Shoulders BodyPart = "shoulders"
	Arms      BodyPart = "arms"
	Legs      BodyPart = "legs"
	Abs       BodyPart = "abs"
	Cardio    BodyPart = "cardio"
)

// TrainingType is one of the three HPS periodization days.
type TrainingType string

const (
	Hypertrophy TrainingType = "hypertrophy"
	Power       TrainingType = "power"
	Strength    TrainingType = "strength"
)

// TrainingTypes lists the variants in enumeration order. Program
// generation and anything else that iterates types follows this order.
var TrainingTypes = []TrainingType{Hypertrophy, Power, Strength}

// ParseTrainingType accepts full names and the one-letter H/P/S aliases.
func ParseTrainingType(s string) (TrainingType, error) {
	switch s {
	case "hypertrophy", "H", "h":
		return Hypertrophy, nil
	case "power", "P", "p":
		return Power, nil
	case "strength", "S", "s":
		return Strength, nil
	}
	return "", fmt.Errorf("%w: unknown training type %q", ErrInvalidInput, s)
}

// Exercise is a read-only catalog entry. Sets/Reps/RestSec are the
// catalog defaults; HasWeight gates participation in HPS load
// calculation.
type Exercise struct {
	ID          string   `json:"id" yaml:"id"`
	Name        string   `json:"name" yaml:"name"`
	BodyPart    BodyPart `json:"body_part" yaml:"body_part"`
	Equipment   string   `json:"equipment" yaml:"equipment"`
	Description string   `json:"description" yaml:"description"`
	Sets        int      `json:"sets" yaml:"sets"`
	Reps        string   `json:"reps" yaml:"reps"`
	RestSec     int      `json:"rest_sec" yaml:"rest_sec"`
	HasWeight   bool     `json:"has_weight" yaml:"has_weight"`
}

// ExerciseLog is a catalog entry plus what the user actually did.
// EntryID keeps repeated logs of the same exercise on the same day
// distinct through merges. ActualWeight is set only for weighted
// exercises where the user entered a value; ActualSets/ActualReps fall
// back to the catalog defaults when zero/empty.
type ExerciseLog struct {
	EntryID      string   `json:"entry_id"`
	Exercise     Exercise `json:"exercise"`
	ActualWeight *float64 `json:"actual_weight,omitempty"`
	ActualSets   int      `json:"actual_sets,omitempty"`
	ActualReps   string   `json:"actual_reps,omitempty"`
}

// WorkoutSession is one calendar day's aggregated workout record.
// At most one session exists per date; saving onto an occupied date
// merges instead of inserting.
type WorkoutSession struct {
	ID        string         `json:"id"`
	Date      string         `json:"date"`
	BodyParts []BodyPart     `json:"body_parts"`
	Type      TrainingType   `json:"hps_type"`
	Exercises []ExerciseLog  `json:"exercises"`
	Completed bool           `json:"completed"`
	Duration  *int           `json:"duration,omitempty"` // minutes
}

// SessionID derives the one-per-day session identity from its date.
func SessionID(date string) string {
	return "session-" + date
}

// Prescription is the computed load recommendation for one exercise on
// one (week, type) slot. Ephemeral, never persisted.
type Prescription struct {
	Exercise          string       `json:"exercise"`
	CurrentMax        float64      `json:"current_max"`
	Week              int          `json:"week"`
	Type              TrainingType `json:"hps_type"`
	RecommendedWeight float64      `json:"recommended_weight"`
	Sets              int          `json:"sets"`
	Reps              string       `json:"reps"`
}

// MaxRecord is one historical 1RM entry for an exercise.
type MaxRecord struct {
	ID         string    `json:"id"`
	Exercise   string    `json:"exercise"`
	WeightKg   float64   `json:"weight_kg"`
	RecordedAt time.Time `json:"recorded_at"`
}
