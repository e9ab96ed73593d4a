package models

import (
	"fmt"
	"strings"
	"time"
)

// Visibility controls whether replies to a user's commands are shown to
// the channel or only to the user.
type Visibility string

const (
	VisibilityPrivate Visibility = "private"
	VisibilityShared  Visibility = "shared"
)

// UserPreference holds per-user settings. A missing record means defaults.
type UserPreference struct {
	OwnerID    string     `json:"owner_id"`
	Visibility Visibility `json:"visibility"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

// DefaultPreference returns the preference used for owners that never
// saved one.
func DefaultPreference(ownerID string) UserPreference {
	return UserPreference{OwnerID: ownerID, Visibility: VisibilityPrivate}
}

func ParseVisibility(s string) (Visibility, error) {
	switch v := Visibility(strings.ToLower(strings.TrimSpace(s))); v {
	case VisibilityPrivate, VisibilityShared:
		return v, nil
	default:
		return "", fmt.Errorf("invalid visibility %q (expected private or shared)", s)
	}
}

// Ephemeral reports whether replies should only be visible to the owner.
func (p UserPreference) Ephemeral() bool {
	return p.Visibility != VisibilityShared
}
