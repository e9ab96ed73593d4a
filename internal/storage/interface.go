package storage

import (
	"context"
	"time"

	"github.com/julianstephens/objectives/internal/models"
)

// Provider is the durable store behind the objective engine. Every
// operation is keyed by (owner, name) or by the objective's surrogate ID.
// Implementations must make CompareAndSwapSubmission atomic so that two
// concurrent submissions for the same objective cannot both be recorded.
type Provider interface {
	// Lifecycle
	Init() error
	Load() error
	Close() error

	// Objectives
	GetObjective(ctx context.Context, ownerID, name string) (models.Objective, error)
	ListObjectives(ctx context.Context, ownerID string) ([]models.Objective, error)
	ListAllObjectives(ctx context.Context) ([]models.Objective, error)
	// CreateObjective returns ErrConflict when the owner already has an
	// objective with the same name.
	CreateObjective(ctx context.Context, obj models.Objective) error
	UpsertObjective(ctx context.Context, obj models.Objective) error
	// CompareAndSwapSubmission writes the submission fields of obj
	// (LastSubmitted, Streak, LastStreakAnchor) only if the stored
	// last-submitted instant still equals prev. It returns ErrStale when
	// another writer got there first and ErrNotFound when the row is gone.
	CompareAndSwapSubmission(ctx context.Context, obj models.Objective, prev *time.Time) error
	MarkReminded(ctx context.Context, id string, at time.Time) error
	DeleteObjective(ctx context.Context, ownerID, name string) error
	// RenameObjective returns ErrNotFound if oldName does not exist and
	// ErrConflict if newName already does; neither record changes then.
	RenameObjective(ctx context.Context, ownerID, oldName, newName string) error

	// Preferences
	// GetPreference returns ErrNotFound when the owner never saved one.
	GetPreference(ctx context.Context, ownerID string) (models.UserPreference, error)
	SavePreference(ctx context.Context, pref models.UserPreference) error
	ListPreferences(ctx context.Context) ([]models.UserPreference, error)

	// Utils
	GetConfigPath() string
	Ping(ctx context.Context) error
}
