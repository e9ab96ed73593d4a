// Package engine implements the objective lifecycle: submission windows,
// streaks, reminders and the owner-facing operations around them. It
// depends only on a storage.Provider, a clock.Clock and, for reminders, a
// Dispatcher.
package engine

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/julianstephens/objectives/internal/clock"
	"github.com/julianstephens/objectives/internal/logger"
	"github.com/julianstephens/objectives/internal/models"
	"github.com/julianstephens/objectives/internal/storage"
	"github.com/julianstephens/objectives/internal/validation"
)

// maxSubmitAttempts bounds re-reads after a lost compare-and-swap. Another
// process winning the race leaves the window closed, so the second read
// normally ends in a TooSoon rejection.
const maxSubmitAttempts = 3

// Service runs owner-facing operations against a store.
type Service struct {
	store  storage.Provider
	clock  clock.Clock
	policy Policy
	locks  *keyedMutex
}

// Option configures a Service or a Scanner.
type Option func(*options)

type options struct {
	clock           clock.Clock
	policy          Policy
	dispatchTimeout time.Duration
	compose         func(models.Objective, time.Time) string
}

func defaultOptions() options {
	return options{
		clock:  clock.Real(),
		policy: DefaultPolicy(),
	}
}

// WithClock replaces the wall clock.
func WithClock(c clock.Clock) Option {
	return func(o *options) { o.clock = c }
}

// WithPolicy replaces the cooldown table, stale threshold and location.
func WithPolicy(p Policy) Option {
	return func(o *options) { o.policy = p }
}

// NewService creates a Service backed by store.
func NewService(store storage.Provider, opts ...Option) *Service {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return &Service{
		store:  store,
		clock:  o.clock,
		policy: o.policy,
		locks:  newKeyedMutex(),
	}
}

// Policy returns the rules the service applies.
func (s *Service) Policy() Policy { return s.policy }

// now is truncated to the store's millisecond precision so that a value
// read back compares equal to the one that was written.
func (s *Service) now() time.Time {
	return s.clock.Now().UTC().Truncate(time.Millisecond)
}

// TrySubmit records a submission of the owner's objective if its window is
// open. A closed window is reported in the result, not as an error.
func (s *Service) TrySubmit(ctx context.Context, ownerID, name string) (SubmitResult, error) {
	key := models.Key{OwnerID: ownerID, Name: name}
	unlock := s.locks.Lock(key.String())
	defer unlock()

	for attempt := 1; attempt <= maxSubmitAttempts; attempt++ {
		obj, err := s.store.GetObjective(ctx, ownerID, name)
		if err != nil {
			return SubmitResult{}, s.translate(err, name)
		}

		next, result := s.policy.Evaluate(obj, s.now())
		if !result.Accepted {
			logger.Debug("Submission rejected", "objective", key, "reason", result.Reason, "retry_at", result.RetryAt)
			return result, nil
		}

		err = s.store.CompareAndSwapSubmission(ctx, next, obj.LastSubmitted)
		switch {
		case err == nil:
			logger.Info("Submission accepted", "objective", key, "streak", result.Streak)
			return result, nil
		case errors.Is(err, storage.ErrStale):
			logger.Debug("Submission lost a concurrent update, re-reading", "objective", key, "attempt", attempt)
			continue
		default:
			return SubmitResult{}, s.translate(err, name)
		}
	}
	return SubmitResult{}, fmt.Errorf("failed to submit %q: %w", name, storage.ErrStale)
}

// CreateObjective adds a never-submitted objective for the owner.
func (s *Service) CreateObjective(ctx context.Context, ownerID, name, frequency string) (models.Objective, error) {
	clean, err := validation.ObjectiveName(name)
	if err != nil {
		return models.Objective{}, fmt.Errorf("%w: %v", ErrInvalidName, err)
	}
	freq, err := models.ParseFrequency(frequency)
	if err != nil {
		return models.Objective{}, fmt.Errorf("%w: %v", ErrInvalidFrequency, err)
	}

	obj := models.Objective{
		ID:        uuid.New().String(),
		OwnerID:   ownerID,
		Name:      clean,
		Frequency: freq,
		CreatedAt: s.now(),
	}
	if err := s.store.CreateObjective(ctx, obj); err != nil {
		return models.Objective{}, s.translate(err, clean)
	}
	logger.Info("Objective created", "objective", obj.Key(), "frequency", freq)
	return obj, nil
}

// GetObjective returns one objective.
func (s *Service) GetObjective(ctx context.Context, ownerID, name string) (models.Objective, error) {
	obj, err := s.store.GetObjective(ctx, ownerID, name)
	if err != nil {
		return models.Objective{}, s.translate(err, name)
	}
	return obj, nil
}

// Status is an objective together with its window state at a given time.
type Status struct {
	models.Objective
	Available   bool
	NextAllowed time.Time
}

// ListObjectives returns the owner's objectives with their window state.
func (s *Service) ListObjectives(ctx context.Context, ownerID string) ([]Status, error) {
	objs, err := s.store.ListObjectives(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list objectives: %w", err)
	}
	now := s.now()
	out := make([]Status, 0, len(objs))
	for _, obj := range objs {
		out = append(out, s.status(obj, now))
	}
	return out, nil
}

// ListAll returns the window state of every objective of every owner.
func (s *Service) ListAll(ctx context.Context) ([]Status, error) {
	objs, err := s.store.ListAllObjectives(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list objectives: %w", err)
	}
	now := s.now()
	out := make([]Status, 0, len(objs))
	for _, obj := range objs {
		out = append(out, s.status(obj, now))
	}
	return out, nil
}

func (s *Service) status(obj models.Objective, now time.Time) Status {
	next := s.policy.NextAllowed(obj.Frequency, obj.LastSubmitted, now)
	return Status{
		Objective:   obj,
		Available:   !now.Before(next),
		NextAllowed: next,
	}
}

// DeleteObjective removes the owner's objective.
func (s *Service) DeleteObjective(ctx context.Context, ownerID, name string) error {
	unlock := s.locks.Lock(models.Key{OwnerID: ownerID, Name: name}.String())
	defer unlock()

	if err := s.store.DeleteObjective(ctx, ownerID, name); err != nil {
		return s.translate(err, name)
	}
	logger.Info("Objective deleted", "owner", ownerID, "name", name)
	return nil
}

// RenameObjective changes the name of an objective. Renaming onto an
// existing name fails with ErrConflict and leaves both objectives as they
// were.
func (s *Service) RenameObjective(ctx context.Context, ownerID, oldName, newName string) (models.Objective, error) {
	clean, err := validation.ObjectiveName(newName)
	if err != nil {
		return models.Objective{}, fmt.Errorf("%w: %v", ErrInvalidName, err)
	}

	unlock := s.locks.Lock(models.Key{OwnerID: ownerID, Name: oldName}.String())
	defer unlock()

	if err := s.store.RenameObjective(ctx, ownerID, oldName, clean); err != nil {
		switch {
		case errors.Is(err, storage.ErrNotFound):
			return models.Objective{}, fmt.Errorf("objective %q: %w", oldName, ErrNotFound)
		case errors.Is(err, storage.ErrConflict):
			return models.Objective{}, fmt.Errorf("objective %q: %w", clean, ErrConflict)
		default:
			return models.Objective{}, fmt.Errorf("failed to rename %q: %w", oldName, err)
		}
	}
	logger.Info("Objective renamed", "owner", ownerID, "from", oldName, "to", clean)
	return s.GetObjective(ctx, ownerID, clean)
}

// Preference returns the owner's saved preference, or the default one.
func (s *Service) Preference(ctx context.Context, ownerID string) (models.UserPreference, error) {
	pref, err := s.store.GetPreference(ctx, ownerID)
	if errors.Is(err, storage.ErrNotFound) {
		return models.DefaultPreference(ownerID), nil
	}
	if err != nil {
		return models.UserPreference{}, fmt.Errorf("failed to load preference: %w", err)
	}
	return pref, nil
}

// SetVisibility saves the owner's reply visibility.
func (s *Service) SetVisibility(ctx context.Context, ownerID string, v models.Visibility) (models.UserPreference, error) {
	pref := models.UserPreference{OwnerID: ownerID, Visibility: v, UpdatedAt: s.now()}
	if err := s.store.SavePreference(ctx, pref); err != nil {
		return models.UserPreference{}, fmt.Errorf("failed to save preference: %w", err)
	}
	logger.Info("Visibility updated", "owner", ownerID, "visibility", v)
	return pref, nil
}

func (s *Service) translate(err error, name string) error {
	switch {
	case errors.Is(err, storage.ErrNotFound):
		return fmt.Errorf("objective %q: %w", name, ErrNotFound)
	case errors.Is(err, storage.ErrConflict):
		return fmt.Errorf("objective %q: %w", name, ErrConflict)
	default:
		return fmt.Errorf("objective %q: %w", name, err)
	}
}
