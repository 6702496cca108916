package hps

import (
	"time"

	"github.com/claude/liftplan/internal/models"
)

// Schedule maps weekdays to training types. Days absent from the map
// are rest days. It is plain data so alternate splits can be swapped in
// without touching any lookup logic.
type Schedule map[time.Weekday]models.TrainingType

// DefaultSchedule is the classic three-day HPS split.
func DefaultSchedule() Schedule {
	return Schedule{
		time.Monday:    models.Hypertrophy,
		time.Wednesday: models.Power,
		time.Friday:    models.Strength,
	}
}

// ForDate returns the scheduled training type for a date, or ok=false
// on rest days.
func (s Schedule) ForDate(date time.Time) (models.TrainingType, bool) {
	t, ok := s[date.Weekday()]
	return t, ok
}

// ForDateString is ForDate over the YYYY-MM-DD wire convention.
func (s Schedule) ForDateString(date string) (models.TrainingType, bool, error) {
	d, err := models.ParseDate(date)
	if err != nil {
		return "", false, err
	}
	t, ok := s.ForDate(d)
	return t, ok, nil
}
