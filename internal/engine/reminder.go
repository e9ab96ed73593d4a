package engine

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/julianstephens/objectives/internal/clock"
	"github.com/julianstephens/objectives/internal/constants"
	"github.com/julianstephens/objectives/internal/logger"
	"github.com/julianstephens/objectives/internal/models"
	"github.com/julianstephens/objectives/internal/storage"
)

// Outcome classifies a reminder delivery attempt.
type Outcome int

const (
	// Delivered means the owner received the reminder.
	Delivered Outcome = iota + 1
	// PermanentlyUndeliverable means retrying will never succeed, for
	// example because the owner blocks direct messages.
	PermanentlyUndeliverable
	// TransientFailure means the attempt may succeed on a later sweep.
	TransientFailure
)

func (o Outcome) String() string {
	switch o {
	case Delivered:
		return "delivered"
	case PermanentlyUndeliverable:
		return "permanently_undeliverable"
	case TransientFailure:
		return "transient_failure"
	default:
		return fmt.Sprintf("outcome(%d)", int(o))
	}
}

// Dispatcher delivers a reminder to an owner. Failures are reported through
// the Outcome; a Dispatcher must return once ctx is done.
type Dispatcher interface {
	Send(ctx context.Context, ownerID, message string) Outcome
}

// DispatcherFunc adapts a function to Dispatcher.
type DispatcherFunc func(ctx context.Context, ownerID, message string) Outcome

func (f DispatcherFunc) Send(ctx context.Context, ownerID, message string) Outcome {
	return f(ctx, ownerID, message)
}

// WithDispatchTimeout bounds a single reminder delivery. A delivery that
// runs out of time counts as a TransientFailure.
func WithDispatchTimeout(d time.Duration) Option {
	return func(o *options) { o.dispatchTimeout = d }
}

// WithMessage sets how a reminder text is built for an objective whose
// window opened at windowOpen.
func WithMessage(compose func(obj models.Objective, windowOpen time.Time) string) Option {
	return func(o *options) { o.compose = compose }
}

// DefaultMessage is the reminder text used when none is configured.
func DefaultMessage(obj models.Objective, _ time.Time) string {
	return fmt.Sprintf("Reminder: you haven't submitted %q yet. It's available now.", obj.Name)
}

// SweepReport counts what one sweep did.
type SweepReport struct {
	Scanned   int
	Eligible  int
	Delivered int
	Permanent int
	Transient int
	// Errors counts objectives whose reminder state could not be saved.
	Errors int
}

// Scanner finds objectives whose window has gone stale and reminds their
// owners, at most once per window.
type Scanner struct {
	store      storage.Provider
	dispatcher Dispatcher
	clock      clock.Clock
	policy     Policy
	timeout    time.Duration
	compose    func(models.Objective, time.Time) string

	// Sweeps never overlap.
	mu sync.Mutex
}

// NewScanner creates a Scanner that reads from store and sends through d.
func NewScanner(store storage.Provider, d Dispatcher, opts ...Option) *Scanner {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if o.dispatchTimeout <= 0 {
		o.dispatchTimeout = constants.DefaultDispatchTimeout
	}
	if o.compose == nil {
		o.compose = DefaultMessage
	}
	return &Scanner{
		store:      store,
		dispatcher: d,
		clock:      o.clock,
		policy:     o.policy,
		timeout:    o.dispatchTimeout,
		compose:    o.compose,
	}
}

func (s *Scanner) now() time.Time {
	return s.clock.Now().UTC().Truncate(time.Millisecond)
}

// Due returns the objectives a sweep at the current time would remind,
// without sending anything.
func (s *Scanner) Due(ctx context.Context) ([]models.Objective, error) {
	objs, err := s.store.ListAllObjectives(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list objectives: %w", err)
	}
	now := s.now()
	var due []models.Objective
	for _, obj := range objs {
		if s.policy.Eligible(obj, now) {
			due = append(due, obj)
		}
	}
	return due, nil
}

// Sweep reminds every eligible objective once. Only a failure to list
// objectives is returned; per-objective failures are logged and counted.
// Cancelling ctx stops the sweep between objectives, never in the middle
// of a delivery.
func (s *Scanner) Sweep(ctx context.Context) (SweepReport, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var report SweepReport
	objs, err := s.store.ListAllObjectives(ctx)
	if err != nil {
		return report, fmt.Errorf("failed to list objectives: %w", err)
	}

	now := s.now()
	for _, obj := range objs {
		if ctx.Err() != nil {
			logger.Info("Sweep interrupted", "remaining", len(objs)-report.Scanned)
			break
		}
		report.Scanned++
		if !s.policy.Eligible(obj, now) {
			continue
		}
		report.Eligible++
		s.remind(ctx, obj, now, &report)
	}

	logger.Info("Sweep finished",
		"scanned", report.Scanned,
		"eligible", report.Eligible,
		"delivered", report.Delivered,
		"permanent", report.Permanent,
		"transient", report.Transient,
		"errors", report.Errors)
	return report, nil
}

func (s *Scanner) remind(ctx context.Context, obj models.Objective, now time.Time, report *SweepReport) {
	// The delivery and its bookkeeping finish even if shutdown starts.
	ctx = context.WithoutCancel(ctx)

	windowOpen := s.policy.NextAllowed(obj.Frequency, obj.LastSubmitted, now)
	outcome := s.dispatch(ctx, obj, windowOpen)

	key := obj.Key()
	switch outcome {
	case Delivered:
		report.Delivered++
	case PermanentlyUndeliverable:
		report.Permanent++
		logger.Warn("Reminder cannot be delivered, not retrying this window", "objective", key)
	default:
		report.Transient++
		logger.Warn("Reminder failed, will retry next sweep", "objective", key)
		return
	}

	if err := s.store.MarkReminded(ctx, obj.ID, now); err != nil {
		report.Errors++
		logger.Error("Failed to record reminder", "objective", key, "error", err)
		return
	}
	logger.Debug("Reminder recorded", "objective", key, "outcome", outcome)
}

func (s *Scanner) dispatch(ctx context.Context, obj models.Objective, windowOpen time.Time) (outcome Outcome) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	defer func() {
		if r := recover(); r != nil {
			logger.Error("Reminder dispatcher panicked", "objective", obj.Key(), "panic", r)
			outcome = TransientFailure
		}
	}()

	// The dispatcher's verdict stands even past the deadline; a dispatcher
	// that gave up on the deadline reports TransientFailure itself.
	outcome = s.dispatcher.Send(ctx, obj.OwnerID, s.compose(obj, windowOpen))
	switch outcome {
	case Delivered, PermanentlyUndeliverable, TransientFailure:
		return outcome
	default:
		return TransientFailure
	}
}

// Run sweeps immediately and then on every interval until ctx is done.
func (s *Scanner) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	logger.Info("Reminder sweep started", "interval", interval)
	for {
		if _, err := s.Sweep(ctx); err != nil {
			logger.Error("Sweep failed", "error", err)
		}
		select {
		case <-ctx.Done():
			logger.Info("Reminder sweep stopped")
			return
		case <-ticker.C:
		}
	}
}
