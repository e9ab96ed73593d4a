package models

import "time"

// Objective represents a recurring commitment owned by a single user
type Objective struct {
	ID               string     `json:"id"`
	OwnerID          string     `json:"owner_id"`
	Name             string     `json:"name"`
	Frequency        Frequency  `json:"frequency"`
	LastSubmitted    *time.Time `json:"last_submitted,omitempty"`
	Streak           int        `json:"streak"`
	LastStreakAnchor *time.Time `json:"last_streak_anchor,omitempty"` // calendar day, midnight UTC
	LastReminded     *time.Time `json:"last_reminded,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
}

// Key returns the (owner, name) identity of the objective.
func (o Objective) Key() Key {
	return Key{OwnerID: o.OwnerID, Name: o.Name}
}

// HasSubmitted reports whether any submission has ever been accepted.
func (o Objective) HasSubmitted() bool {
	return o.LastSubmitted != nil
}

// Key identifies an objective by owner and name.
type Key struct {
	OwnerID string
	Name    string
}

func (k Key) String() string {
	return k.OwnerID + "/" + k.Name
}

// DayFormat is the storage format for streak anchors
const DayFormat = "2006-01-02"

// DayOf returns the calendar day of t in loc, expressed as midnight UTC so
// that day arithmetic is free of DST shifts.
func DayOf(t time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	y, m, d := t.In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ParseDay parses a YYYY-MM-DD anchor.
func ParseDay(s string) (time.Time, error) {
	return time.ParseInLocation(DayFormat, s, time.UTC)
}
