package hps

import (
	"errors"
	"testing"
	"time"

	"github.com/claude/liftplan/internal/models"
)

// TestDefaultScheduleKnownDays verifies the Mon/Wed/Fri split on known
// dates: 2024-06-03 is a Monday, 2024-06-05 a Wednesday, 2024-06-07 a
// Friday, 2024-06-04 a Tuesday.
func TestDefaultScheduleKnownDays(t *testing.T) {
	s := DefaultSchedule()

	tests := []struct {
		date     string
		wantType models.TrainingType
		wantOK   bool
	}{
		{"2024-06-03", models.Hypertrophy, true},
		{"2024-06-04", "", false},
		{"2024-06-05", models.Power, true},
		{"2024-06-06", "", false},
		{"2024-06-07", models.Strength, true},
		{"2024-06-08", "", false},
		{"2024-06-09", "", false},
	}

	for _, tc := range tests {
		got, ok, err := s.ForDateString(tc.date)
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", tc.date, err)
		}
		if ok != tc.wantOK {
			t.Errorf("%s: ok = %v, want %v", tc.date, ok, tc.wantOK)
		}
		if got != tc.wantType {
			t.Errorf("%s: type = %q, want %q", tc.date, got, tc.wantType)
		}
	}
}

// TestScheduleIsReplaceable verifies an alternate weekday policy works
// with no scheduler changes: the policy is pure data.
func TestScheduleIsReplaceable(t *testing.T) {
	s := Schedule{
		time.Tuesday:  models.Strength,
		time.Saturday: models.Hypertrophy,
	}

	got, ok, err := s.ForDateString("2024-06-04") // Tuesday
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ok || got != models.Strength {
		t.Errorf("Tuesday = (%q, %v), want (strength, true)", got, ok)
	}

	if _, ok, _ := s.ForDateString("2024-06-03"); ok { // Monday: rest in this split
		t.Error("Monday should be a rest day in the alternate schedule")
	}
}

// TestScheduleBadDate verifies malformed dates are rejected rather than
// silently coerced.
func TestScheduleBadDate(t *testing.T) {
	s := DefaultSchedule()
	for _, date := range []string{"", "06/03/2024", "2024-13-40", "yesterday"} {
		_, _, err := s.ForDateString(date)
		if err == nil {
			t.Errorf("date %q: expected error", date)
			continue
		}
		if !errors.Is(err, models.ErrInvalidInput) {
			t.Errorf("date %q: error %v is not ErrInvalidInput", date, err)
		}
	}
}
