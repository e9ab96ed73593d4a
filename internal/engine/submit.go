package engine

import (
	"time"

	"github.com/julianstephens/objectives/internal/models"
)

// RejectReason says why a submission was not accepted.
type RejectReason string

const ReasonTooSoon RejectReason = "too_soon"

// SubmitResult is the outcome of a submission attempt. Exactly one of
// Accepted or a non-empty Reason is set.
type SubmitResult struct {
	Accepted bool
	// Streak is the streak after the submission, or the current streak
	// when rejected.
	Streak int
	// NextWindowOpen is when the next submission will be accepted.
	NextWindowOpen time.Time

	Reason  RejectReason
	RetryAt time.Time
}

// Err returns a *TooSoonError for a TooSoon rejection and nil otherwise.
func (r SubmitResult) Err(name string) error {
	if r.Reason == ReasonTooSoon {
		return &TooSoonError{Name: name, RetryAt: r.RetryAt}
	}
	return nil
}

// Evaluate decides a submission of obj at now without touching storage.
// When accepted it returns the objective as it must be persisted.
func (p Policy) Evaluate(obj models.Objective, now time.Time) (models.Objective, SubmitResult) {
	nextAllowed := p.NextAllowed(obj.Frequency, obj.LastSubmitted, now)
	if obj.HasSubmitted() && now.Before(nextAllowed) {
		return obj, SubmitResult{
			Streak:         obj.Streak,
			NextWindowOpen: nextAllowed,
			Reason:         ReasonTooSoon,
			RetryAt:        nextAllowed,
		}
	}

	today := models.DayOf(now, p.location())
	streak, anchor := NextStreak(obj.Frequency, obj.Streak, obj.LastStreakAnchor, today)

	submitted := now
	next := obj
	next.LastSubmitted = &submitted
	next.Streak = streak
	next.LastStreakAnchor = &anchor

	return next, SubmitResult{
		Accepted:       true,
		Streak:         streak,
		NextWindowOpen: p.NextAllowed(obj.Frequency, &submitted, now),
	}
}
