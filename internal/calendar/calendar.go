// Package calendar builds fixed-height month grids for calendar views.
package calendar

import (
	"time"

	"github.com/claude/liftplan/internal/models"
)

// Cell is one day slot in a month grid. Padding cells (days belonging
// to an adjacent month) have Day == 0 and an empty Date.
type Cell struct {
	Day  int    `json:"day"`
	Date string `json:"date,omitempty"`
}

// Padding reports whether the cell is filler outside the target month.
func (c Cell) Padding() bool { return c.Day == 0 }

// Week is one Sunday-through-Saturday row.
type Week [7]Cell

// Monthly lays out a month as exactly six weeks of seven cells. The
// grid starts on the Sunday on or before the 1st and runs 42 days;
// cells outside the target month are padding. Pure: the same
// (year, month) always yields the same grid.
func Monthly(year int, month time.Month) []Week {
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	start := first.AddDate(0, 0, -int(first.Weekday()))

	weeks := make([]Week, 6)
	for i := 0; i < 42; i++ {
		d := start.AddDate(0, 0, i)
		if d.Month() == month {
			weeks[i/7][i%7] = Cell{Day: d.Day(), Date: models.FormatDate(d)}
		}
	}
	return weeks
}
