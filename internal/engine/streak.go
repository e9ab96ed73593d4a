package engine

import (
	"time"

	"github.com/julianstephens/objectives/internal/models"
)

// NextStreak returns the streak and anchor after a submission on today.
// Both today and anchor are calendar days (midnight UTC, see models.DayOf).
// The streak grows only when exactly one frequency unit separates the
// anchor from today; any other gap starts over at 1.
func NextStreak(f models.Frequency, previous int, anchor *time.Time, today time.Time) (int, time.Time) {
	if anchor == nil {
		return 1, today
	}
	if f.UnitsBetween(*anchor, today) == 1 {
		return previous + 1, today
	}
	return 1, today
}
