package engine

import (
	"time"

	"github.com/julianstephens/objectives/internal/constants"
	"github.com/julianstephens/objectives/internal/models"
)

// Policy holds the tunable rules for windows and reminders. The zero value
// is not useful; start from DefaultPolicy.
type Policy struct {
	// Cooldowns overrides the built-in cooldown per frequency.
	Cooldowns map[models.Frequency]time.Duration
	// StaleThreshold is how long a window may stay open before a reminder
	// is due.
	StaleThreshold time.Duration
	// Location decides which calendar day a submission falls on.
	Location *time.Location
}

// DefaultPolicy returns the built-in cooldowns, a 24h stale threshold and
// UTC calendar days.
func DefaultPolicy() Policy {
	return Policy{
		StaleThreshold: constants.DefaultStaleThreshold,
		Location:       time.UTC,
	}
}

func (p Policy) cooldown(f models.Frequency) (time.Duration, bool) {
	if d, ok := p.Cooldowns[f]; ok {
		return d, true
	}
	if !f.Valid() {
		return 0, false
	}
	return f.DefaultCooldown(), true
}

func (p Policy) location() *time.Location {
	if p.Location == nil {
		return time.UTC
	}
	return p.Location
}

// NextAllowed returns the earliest instant at which an objective with the
// given frequency and last submission may be submitted again. A missing
// last submission, or an unknown frequency, means the window is open now.
func (p Policy) NextAllowed(f models.Frequency, lastSubmitted *time.Time, now time.Time) time.Time {
	if lastSubmitted == nil {
		return now
	}
	d, ok := p.cooldown(f)
	if !ok {
		return now
	}
	return lastSubmitted.Add(d)
}

// NextAllowed is Policy.NextAllowed with the built-in cooldowns.
func NextAllowed(f models.Frequency, lastSubmitted *time.Time, now time.Time) time.Time {
	return DefaultPolicy().NextAllowed(f, lastSubmitted, now)
}

// Eligible reports whether obj is owed a reminder at now: its window has
// been open for longer than the stale threshold and nobody has reminded
// the owner since the window opened.
func (p Policy) Eligible(obj models.Objective, now time.Time) bool {
	windowOpen := p.NextAllowed(obj.Frequency, obj.LastSubmitted, now)
	if !now.After(windowOpen.Add(p.StaleThreshold)) {
		return false
	}
	return obj.LastReminded == nil || obj.LastReminded.Before(windowOpen)
}
