package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/julianstephens/objectives/internal/models"
)

func TestNextAllowed(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	last := time.Date(2025, 6, 1, 8, 30, 0, 0, time.UTC)

	tests := []struct {
		name string
		freq models.Frequency
		last *time.Time
		want time.Time
	}{
		{name: "never submitted", freq: models.FrequencyDaily, want: now},
		{name: "daily", freq: models.FrequencyDaily, last: &last, want: last.Add(22 * time.Hour)},
		{name: "weekly", freq: models.FrequencyWeekly, last: &last, want: last.Add(162 * time.Hour)},
		{name: "monthly", freq: models.FrequencyMonthly, last: &last, want: last.Add(714 * time.Hour)},
		{name: "unknown frequency", freq: "hourly", last: &last, want: now},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NextAllowed(tt.freq, tt.last, now))
		})
	}
}

func TestNextAllowedCooldownOverride(t *testing.T) {
	last := time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC)
	p := DefaultPolicy()
	p.Cooldowns = map[models.Frequency]time.Duration{models.FrequencyDaily: 20 * time.Hour}

	assert.Equal(t, last.Add(20*time.Hour), p.NextAllowed(models.FrequencyDaily, &last, last))
	assert.Equal(t, last.Add(162*time.Hour), p.NextAllowed(models.FrequencyWeekly, &last, last))
}

func TestEligible(t *testing.T) {
	p := DefaultPolicy()
	last := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	windowOpen := last.Add(22 * time.Hour)
	stale := windowOpen.Add(24 * time.Hour)

	before := windowOpen.Add(-time.Minute)
	after := windowOpen.Add(time.Minute)

	tests := []struct {
		name     string
		obj      models.Objective
		now      time.Time
		eligible bool
	}{
		{
			name: "never submitted",
			obj:  models.Objective{Frequency: models.FrequencyDaily},
			now:  stale.Add(1000 * time.Hour),
		},
		{
			name: "window open but not stale",
			obj:  models.Objective{Frequency: models.FrequencyDaily, LastSubmitted: &last},
			now:  stale.Add(-time.Minute),
		},
		{
			name: "exactly at threshold",
			obj:  models.Objective{Frequency: models.FrequencyDaily, LastSubmitted: &last},
			now:  stale,
		},
		{
			name:     "stale and never reminded",
			obj:      models.Objective{Frequency: models.FrequencyDaily, LastSubmitted: &last},
			now:      stale.Add(time.Minute),
			eligible: true,
		},
		{
			name:     "reminded during a previous window",
			obj:      models.Objective{Frequency: models.FrequencyDaily, LastSubmitted: &last, LastReminded: &before},
			now:      stale.Add(time.Minute),
			eligible: true,
		},
		{
			name: "already reminded this window",
			obj:  models.Objective{Frequency: models.FrequencyDaily, LastSubmitted: &last, LastReminded: &after},
			now:  stale.Add(time.Hour),
		},
		{
			name: "reminded exactly when the window opened",
			obj:  models.Objective{Frequency: models.FrequencyDaily, LastSubmitted: &last, LastReminded: &windowOpen},
			now:  stale.Add(time.Hour),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.eligible, p.Eligible(tt.obj, tt.now))
		})
	}
}
