package validation

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/julianstephens/objectives/internal/constants"
	"github.com/julianstephens/objectives/internal/models"
)

var (
	ErrEmptyName   = errors.New("name must not be empty")
	ErrNameTooLong = fmt.Errorf("name must be at most %d characters", constants.MaxObjectiveNameLength)
	ErrControlChar = errors.New("name must not contain control characters")
)

// ObjectiveName trims name and checks that it can be used as an objective
// name. The trimmed name is returned.
func ObjectiveName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", ErrEmptyName
	}
	if utf8.RuneCountInString(name) > constants.MaxObjectiveNameLength {
		return "", ErrNameTooLong
	}
	for _, r := range name {
		if unicode.IsControl(r) {
			return "", ErrControlChar
		}
	}
	return name, nil
}

// ConflictType represents the type of validation conflict
type ConflictType string

const (
	ConflictDuplicateName     ConflictType = "duplicate_name"
	ConflictInvalidName       ConflictType = "invalid_name"
	ConflictInvalidFrequency  ConflictType = "invalid_frequency"
	ConflictNegativeStreak    ConflictType = "negative_streak"
	ConflictMissingAnchor     ConflictType = "missing_streak_anchor"
	ConflictFutureSubmission  ConflictType = "future_submission"
	ConflictReminderNoHistory ConflictType = "reminded_without_submission"
)

// Conflict represents a problem found in stored objectives
type Conflict struct {
	Type        ConflictType
	Description string
	OwnerID     string
	Items       []string // objective names involved
}

// ValidationResult contains all detected conflicts
type ValidationResult struct {
	Conflicts []Conflict
}

// HasConflicts returns true if there are any conflicts
func (vr *ValidationResult) HasConflicts() bool {
	return len(vr.Conflicts) > 0
}

// FormatReport returns a human-readable report of all conflicts
func (vr *ValidationResult) FormatReport() string {
	if !vr.HasConflicts() {
		return "No conflicts detected."
	}

	var b strings.Builder
	b.WriteString("Conflicts detected:\n")
	for _, conflict := range vr.Conflicts {
		fmt.Fprintf(&b, "- %s\n", conflict.Description)
	}
	return b.String()
}

// Validator checks stored objectives for states the engine never produces.
type Validator struct {
	now func() time.Time
}

// New creates a Validator that compares timestamps against time.Now.
func New() *Validator {
	return &Validator{now: time.Now}
}

// WithNow returns a copy of v that uses now as the current time.
func (v *Validator) WithNow(now func() time.Time) *Validator {
	return &Validator{now: now}
}

// ValidateObjectives reports duplicate names per owner and per-record
// inconsistencies.
func (v *Validator) ValidateObjectives(objectives []models.Objective) ValidationResult {
	var result ValidationResult
	now := v.now()

	byKey := make(map[models.Key][]string)
	for _, obj := range objectives {
		key := models.Key{OwnerID: obj.OwnerID, Name: strings.ToLower(obj.Name)}
		byKey[key] = append(byKey[key], obj.Name)

		if _, err := ObjectiveName(obj.Name); err != nil {
			result.add(ConflictInvalidName, obj, fmt.Sprintf("Objective %q of %s has an invalid name: %v", obj.Name, obj.OwnerID, err))
		}
		if !obj.Frequency.Valid() {
			result.add(ConflictInvalidFrequency, obj, fmt.Sprintf("Objective %q of %s has unknown frequency %q", obj.Name, obj.OwnerID, obj.Frequency))
		}
		if obj.Streak < 0 {
			result.add(ConflictNegativeStreak, obj, fmt.Sprintf("Objective %q of %s has negative streak %d", obj.Name, obj.OwnerID, obj.Streak))
		}
		if obj.Streak > 0 && obj.LastStreakAnchor == nil {
			result.add(ConflictMissingAnchor, obj, fmt.Sprintf("Objective %q of %s has a streak of %d but no streak day", obj.Name, obj.OwnerID, obj.Streak))
		}
		if obj.LastSubmitted != nil && obj.LastSubmitted.After(now) {
			result.add(ConflictFutureSubmission, obj, fmt.Sprintf("Objective %q of %s was submitted in the future (%s)", obj.Name, obj.OwnerID, obj.LastSubmitted.Format(time.RFC3339)))
		}
		if obj.LastReminded != nil && !obj.HasSubmitted() {
			result.add(ConflictReminderNoHistory, obj, fmt.Sprintf("Objective %q of %s was reminded but never submitted", obj.Name, obj.OwnerID))
		}
	}

	keys := make([]models.Key, 0, len(byKey))
	for key, names := range byKey {
		if len(names) > 1 {
			keys = append(keys, key)
		}
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i].String() < keys[j].String() })
	for _, key := range keys {
		names := byKey[key]
		result.Conflicts = append(result.Conflicts, Conflict{
			Type:        ConflictDuplicateName,
			Description: fmt.Sprintf("Owner %s has objectives whose names differ only by case: %s", key.OwnerID, strings.Join(names, ", ")),
			OwnerID:     key.OwnerID,
			Items:       names,
		})
	}

	return result
}

func (vr *ValidationResult) add(kind ConflictType, obj models.Objective, desc string) {
	vr.Conflicts = append(vr.Conflicts, Conflict{
		Type:        kind,
		Description: desc,
		OwnerID:     obj.OwnerID,
		Items:       []string{obj.Name},
	})
}
