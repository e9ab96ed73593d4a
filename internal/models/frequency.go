package models

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// Frequency is how often an objective may be submitted
type Frequency string

const (
	FrequencyDaily   Frequency = "daily"
	FrequencyWeekly  Frequency = "weekly"
	FrequencyMonthly Frequency = "monthly"
)

// frequencyRule is everything that varies per frequency class. Adding a
// class means adding a constant and one entry in frequencyRules.
type frequencyRule struct {
	// cooldown is deliberately shorter than the nominal period so that a
	// user submitting at a consistent time of day never drifts later.
	cooldown time.Duration
	// unitsBetween returns how many frequency units separate two calendar
	// days (both midnight UTC).
	unitsBetween func(from, to time.Time) int
}

var frequencyRules = map[Frequency]frequencyRule{
	FrequencyDaily: {
		cooldown:     22 * time.Hour,
		unitsBetween: daysBetween,
	},
	FrequencyWeekly: {
		cooldown: (7*24 - 6) * time.Hour,
		unitsBetween: func(from, to time.Time) int {
			return floorDiv(daysBetween(from, to), 7)
		},
	},
	FrequencyMonthly: {
		cooldown:     (30*24 - 6) * time.Hour,
		unitsBetween: monthsBetween,
	},
}

// ParseFrequency parses a frequency name, case-insensitively.
func ParseFrequency(s string) (Frequency, error) {
	f := Frequency(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := frequencyRules[f]; !ok {
		return "", fmt.Errorf("invalid frequency %q (expected one of %s)", s, strings.Join(FrequencyNames(), ", "))
	}
	return f, nil
}

// Frequencies returns every known frequency in cooldown order.
func Frequencies() []Frequency {
	out := make([]Frequency, 0, len(frequencyRules))
	for f := range frequencyRules {
		out = append(out, f)
	}
	sort.Slice(out, func(i, j int) bool {
		return frequencyRules[out[i]].cooldown < frequencyRules[out[j]].cooldown
	})
	return out
}

// FrequencyNames returns the names of Frequencies.
func FrequencyNames() []string {
	var names []string
	for _, f := range Frequencies() {
		names = append(names, string(f))
	}
	return names
}

func (f Frequency) Valid() bool {
	_, ok := frequencyRules[f]
	return ok
}

// DefaultCooldown returns the built-in cooldown for f, or zero for an
// unknown frequency.
func (f Frequency) DefaultCooldown() time.Duration {
	return frequencyRules[f].cooldown
}

// UnitsBetween returns the gap between two calendar days in units of f.
// Unknown frequencies report -1 so that nothing is ever consecutive.
func (f Frequency) UnitsBetween(from, to time.Time) int {
	rule, ok := frequencyRules[f]
	if !ok {
		return -1
	}
	return rule.unitsBetween(from, to)
}

func daysBetween(from, to time.Time) int {
	return int(dayNumber(to) - dayNumber(from))
}

// dayNumber counts whole days since the Unix epoch for a calendar day.
func dayNumber(t time.Time) int64 {
	y, m, d := t.Date()
	return floorDiv64(time.Date(y, m, d, 0, 0, 0, 0, time.UTC).Unix(), 24*60*60)
}

func monthsBetween(from, to time.Time) int {
	return (to.Year()*12 + int(to.Month())) - (from.Year()*12 + int(from.Month()))
}

func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

func floorDiv64(a, b int64) int64 {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}
