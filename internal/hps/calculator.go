// Package hps implements the Hypertrophy/Power/Strength periodization
// model: percentage-of-max load prescriptions over a six-week cycle and
// the weekday schedule that assigns a training type to a date.
package hps

import (
	"fmt"
	"math"

	"github.com/claude/liftplan/internal/models"
)

// maxWeek is the last defined progression step; later weeks clamp here.
const maxWeek = 6

// policy is one training type's fixed prescription: percent of 1RM per
// week, set count, and reps label. Adding a variant is a data change.
type policy struct {
	percents [maxWeek]float64
	sets     int
	reps     string
}

var policies = map[models.TrainingType]policy{
	models.Hypertrophy: {
		percents: [maxWeek]float64{0.75, 0.75, 0.75, 0.75, 0.75, 0.75},
		sets:     5,
		reps:     "8",
	},
	models.Power: {
		percents: [maxWeek]float64{0.80, 0.82, 0.84, 0.86, 0.88, 0.90},
		sets:     5,
		reps:     "1 (explosive)",
	},
	models.Strength: {
		percents: [maxWeek]float64{0.85, 0.87, 0.89, 0.91, 0.93, 0.95},
		sets:     3,
		reps:     "to failure",
	},
}

// Percentage returns the fraction of 1RM prescribed for the given type
// and week (clamped to the six-week table). ok is false for an unknown
// type or week < 1.
func Percentage(t models.TrainingType, week int) (float64, bool) {
	p, ok := policies[t]
	if !ok || week < 1 {
		return 0, false
	}
	if week > maxWeek {
		week = maxWeek
	}
	return p.percents[week-1], true
}

// roundUp2p5 rounds up to the nearest 2.5 kg plate increment. A value
// already on the increment stays put.
func roundUp2p5(w float64) float64 {
	return math.Ceil(w/2.5) * 2.5
}

// Calculate computes the load prescription for one exercise slot.
// currentMax must be positive and week >= 1; weeks past the six-week
// table clamp to week 6 rather than failing.
func Calculate(exercise string, currentMax float64, week int, t models.TrainingType) (models.Prescription, error) {
	if currentMax <= 0 {
		return models.Prescription{}, fmt.Errorf("%w: current max must be positive, got %g", models.ErrInvalidInput, currentMax)
	}
	if week < 1 {
		return models.Prescription{}, fmt.Errorf("%w: week must be >= 1, got %d", models.ErrInvalidInput, week)
	}
	p, ok := policies[t]
	if !ok {
		return models.Prescription{}, fmt.Errorf("%w: unknown training type %q", models.ErrInvalidInput, t)
	}
	clamped := week
	if clamped > maxWeek {
		clamped = maxWeek
	}
	return models.Prescription{
		Exercise:          exercise,
		CurrentMax:        currentMax,
		Week:              week,
		Type:              t,
		RecommendedWeight: roundUp2p5(currentMax * p.percents[clamped-1]),
		Sets:              p.sets,
		Reps:              p.reps,
	}, nil
}

// Program generates the full six-week HPS program for one exercise:
// 18 prescriptions, week-major, types in H, P, S order within each week.
func Program(exercise string, currentMax float64) ([]models.Prescription, error) {
	if currentMax <= 0 {
		return nil, fmt.Errorf("%w: current max must be positive, got %g", models.ErrInvalidInput, currentMax)
	}
	program := make([]models.Prescription, 0, maxWeek*len(models.TrainingTypes))
	for week := 1; week <= maxWeek; week++ {
		for _, t := range models.TrainingTypes {
			calc, err := Calculate(exercise, currentMax, week, t)
			if err != nil {
				return nil, err
			}
			program = append(program, calc)
		}
	}
	return program, nil
}
