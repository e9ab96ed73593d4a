package models

import (
	"testing"
	"time"
)

func day(s string) time.Time {
	t, err := ParseDay(s)
	if err != nil {
		panic(err)
	}
	return t
}

func TestParseFrequency(t *testing.T) {
	tests := []struct {
		input   string
		want    Frequency
		wantErr bool
	}{
		{"daily", FrequencyDaily, false},
		{"Weekly", FrequencyWeekly, false},
		{"  MONTHLY ", FrequencyMonthly, false},
		{"yearly", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseFrequency(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseFrequency(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseFrequency(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestFrequenciesOrder(t *testing.T) {
	got := FrequencyNames()
	want := []string{"daily", "weekly", "monthly"}
	if len(got) != len(want) {
		t.Fatalf("FrequencyNames() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("FrequencyNames()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestDefaultCooldown(t *testing.T) {
	tests := []struct {
		freq Frequency
		want time.Duration
	}{
		{FrequencyDaily, 22 * time.Hour},
		{FrequencyWeekly, 162 * time.Hour},
		{FrequencyMonthly, 714 * time.Hour},
		{Frequency("bogus"), 0},
	}
	for _, tt := range tests {
		if got := tt.freq.DefaultCooldown(); got != tt.want {
			t.Errorf("%s.DefaultCooldown() = %v, want %v", tt.freq, got, tt.want)
		}
	}
}

func TestUnitsBetween(t *testing.T) {
	tests := []struct {
		name string
		freq Frequency
		from string
		to   string
		want int
	}{
		{"daily next day", FrequencyDaily, "2025-03-01", "2025-03-02", 1},
		{"daily same day", FrequencyDaily, "2025-03-01", "2025-03-01", 0},
		{"daily across month", FrequencyDaily, "2025-02-28", "2025-03-01", 1},
		{"daily across leap day", FrequencyDaily, "2024-02-28", "2024-03-01", 2},
		{"daily backwards", FrequencyDaily, "2025-03-02", "2025-03-01", -1},
		{"weekly six days", FrequencyWeekly, "2025-03-01", "2025-03-07", 0},
		{"weekly seven days", FrequencyWeekly, "2025-03-01", "2025-03-08", 1},
		{"weekly thirteen days", FrequencyWeekly, "2025-03-01", "2025-03-14", 1},
		{"weekly fourteen days", FrequencyWeekly, "2025-03-01", "2025-03-15", 2},
		{"monthly next month", FrequencyMonthly, "2025-03-31", "2025-04-01", 1},
		{"monthly year rollover", FrequencyMonthly, "2024-12-15", "2025-01-10", 1},
		{"monthly same month next year", FrequencyMonthly, "2024-03-15", "2025-03-15", 12},
		{"monthly thirteen months", FrequencyMonthly, "2024-02-15", "2025-03-15", 13},
		{"unknown", Frequency("bogus"), "2025-03-01", "2025-03-02", -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.freq.UnitsBetween(day(tt.from), day(tt.to)); got != tt.want {
				t.Errorf("UnitsBetween(%s, %s) = %d, want %d", tt.from, tt.to, got, tt.want)
			}
		})
	}
}

func TestDayOf(t *testing.T) {
	ny, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Skipf("timezone data unavailable: %v", err)
	}

	instant := time.Date(2025, 1, 2, 3, 0, 0, 0, time.UTC)
	if got := DayOf(instant, time.UTC); !got.Equal(day("2025-01-02")) {
		t.Errorf("DayOf(UTC) = %v, want 2025-01-02", got)
	}
	if got := DayOf(instant, ny); !got.Equal(day("2025-01-01")) {
		t.Errorf("DayOf(New York) = %v, want 2025-01-01", got)
	}
	if got := DayOf(instant, nil); !got.Equal(day("2025-01-02")) {
		t.Errorf("DayOf(nil) = %v, want 2025-01-02", got)
	}
}

func TestParseVisibility(t *testing.T) {
	if v, err := ParseVisibility("Shared"); err != nil || v != VisibilityShared {
		t.Errorf("ParseVisibility(Shared) = %q, %v", v, err)
	}
	if _, err := ParseVisibility("public"); err == nil {
		t.Error("ParseVisibility(public) expected error")
	}
	if !DefaultPreference("u1").Ephemeral() {
		t.Error("default preference should be ephemeral")
	}
}
