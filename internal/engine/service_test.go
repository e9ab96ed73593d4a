package engine

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/julianstephens/objectives/internal/clock"
	"github.com/julianstephens/objectives/internal/models"
	"github.com/julianstephens/objectives/internal/storage/sqlite"
)

var start = time.Date(2025, 3, 3, 9, 0, 0, 0, time.UTC)

func newTestStore(t *testing.T) *sqlite.Store {
	t.Helper()
	store := sqlite.NewStore(filepath.Join(t.TempDir(), "objectives.db"))
	require.NoError(t, store.Init())
	t.Cleanup(func() { store.Close() })
	return store
}

func newTestService(t *testing.T, opts ...Option) (*Service, *clock.FakeClock) {
	t.Helper()
	c := clock.Fake(start)
	svc := NewService(newTestStore(t), append([]Option{WithClock(c)}, opts...)...)
	return svc, c
}

func TestFirstSubmissionIsAccepted(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	_, err := svc.CreateObjective(ctx, "u1", "Guitar", "daily")
	require.NoError(t, err)

	result, err := svc.TrySubmit(ctx, "u1", "Guitar")
	require.NoError(t, err)
	assert.True(t, result.Accepted)
	assert.Equal(t, 1, result.Streak)
	assert.Equal(t, start.Add(22*time.Hour), result.NextWindowOpen)

	obj, err := svc.GetObjective(ctx, "u1", "Guitar")
	require.NoError(t, err)
	require.NotNil(t, obj.LastSubmitted)
	assert.True(t, start.Equal(*obj.LastSubmitted))
	require.NotNil(t, obj.LastStreakAnchor)
	assert.Equal(t, models.DayOf(start, time.UTC), *obj.LastStreakAnchor)
}

func TestSecondSubmissionTooSoon(t *testing.T) {
	ctx := context.Background()
	svc, c := newTestService(t)
	c.Set(start.Add(123 * time.Millisecond))

	_, err := svc.CreateObjective(ctx, "u1", "Guitar", "daily")
	require.NoError(t, err)

	first, err := svc.TrySubmit(ctx, "u1", "Guitar")
	require.NoError(t, err)
	require.True(t, first.Accepted)

	c.Advance(time.Hour)
	second, err := svc.TrySubmit(ctx, "u1", "Guitar")
	require.NoError(t, err)
	assert.False(t, second.Accepted)
	assert.Equal(t, ReasonTooSoon, second.Reason)
	assert.True(t, first.NextWindowOpen.Equal(second.RetryAt), "retry at %v, want %v", second.RetryAt, first.NextWindowOpen)
	assert.Equal(t, 1, second.Streak)

	err = second.Err("Guitar")
	assert.ErrorIs(t, err, ErrTooSoon)
	var tooSoon *TooSoonError
	require.ErrorAs(t, err, &tooSoon)
	assert.True(t, tooSoon.RetryAt.Equal(first.NextWindowOpen))

	assert.NoError(t, first.Err("Guitar"))
}

func TestDailyStreaks(t *testing.T) {
	tests := []struct {
		name    string
		days    []int
		streaks []int
	}{
		{name: "consecutive", days: []int{0, 1, 2}, streaks: []int{1, 2, 3}},
		{name: "gap resets", days: []int{0, 1, 3}, streaks: []int{1, 2, 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			svc, c := newTestService(t)
			_, err := svc.CreateObjective(ctx, "u1", "Guitar", "daily")
			require.NoError(t, err)

			for i, d := range tt.days {
				c.Set(start.AddDate(0, 0, d))
				result, err := svc.TrySubmit(ctx, "u1", "Guitar")
				require.NoError(t, err)
				require.True(t, result.Accepted, "submission on day %d", d)
				assert.Equal(t, tt.streaks[i], result.Streak, "streak after day %d", d)
			}
		})
	}
}

func TestMonthlyStreakAcrossYearBoundary(t *testing.T) {
	ctx := context.Background()
	svc, c := newTestService(t)
	_, err := svc.CreateObjective(ctx, "u1", "Budget", "monthly")
	require.NoError(t, err)

	c.Set(time.Date(2024, 12, 15, 10, 0, 0, 0, time.UTC))
	result, err := svc.TrySubmit(ctx, "u1", "Budget")
	require.NoError(t, err)
	require.Equal(t, 1, result.Streak)

	c.Set(time.Date(2025, 1, 15, 10, 0, 0, 0, time.UTC))
	result, err = svc.TrySubmit(ctx, "u1", "Budget")
	require.NoError(t, err)
	require.True(t, result.Accepted)
	assert.Equal(t, 2, result.Streak)
}

func TestStreakDayUsesConfiguredLocation(t *testing.T) {
	ctx := context.Background()
	loc, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)

	p := DefaultPolicy()
	p.Location = loc
	svc, c := newTestService(t, WithPolicy(p))
	_, err = svc.CreateObjective(ctx, "u1", "Guitar", "daily")
	require.NoError(t, err)

	// 03:00 UTC on the 10th is still the evening of the 9th in New York.
	c.Set(time.Date(2025, 3, 10, 3, 0, 0, 0, time.UTC))
	_, err = svc.TrySubmit(ctx, "u1", "Guitar")
	require.NoError(t, err)

	obj, err := svc.GetObjective(ctx, "u1", "Guitar")
	require.NoError(t, err)
	require.NotNil(t, obj.LastStreakAnchor)
	assert.Equal(t, time.Date(2025, 3, 9, 0, 0, 0, 0, time.UTC), *obj.LastStreakAnchor)
}

func TestSubmitUnknownObjective(t *testing.T) {
	svc, _ := newTestService(t)
	_, err := svc.TrySubmit(context.Background(), "u1", "Nope")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestConcurrentSubmissionsAcceptOnce(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	c := clock.Fake(start)

	// Two services on one store stand in for two processes: the keyed
	// lock only covers one of them, the store covers both.
	services := []*Service{
		NewService(store, WithClock(c)),
		NewService(store, WithClock(c)),
	}
	_, err := services[0].CreateObjective(ctx, "u1", "Guitar", "daily")
	require.NoError(t, err)

	const submitters = 20
	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		accepted int
		rejected int
	)
	for i := 0; i < submitters; i++ {
		wg.Add(1)
		go func(svc *Service) {
			defer wg.Done()
			result, err := svc.TrySubmit(ctx, "u1", "Guitar")
			if !assert.NoError(t, err) {
				return
			}
			mu.Lock()
			defer mu.Unlock()
			if result.Accepted {
				accepted++
			} else {
				assert.Equal(t, ReasonTooSoon, result.Reason)
				rejected++
			}
		}(services[i%len(services)])
	}
	wg.Wait()

	assert.Equal(t, 1, accepted)
	assert.Equal(t, submitters-1, rejected)

	obj, err := services[0].GetObjective(ctx, "u1", "Guitar")
	require.NoError(t, err)
	assert.Equal(t, 1, obj.Streak)
	assert.Zero(t, services[0].locks.size()+services[1].locks.size(), "locks are released")
}

func TestCreateObjectiveValidation(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	obj, err := svc.CreateObjective(ctx, "u1", "  Guitar ", "Weekly")
	require.NoError(t, err)
	assert.Equal(t, "Guitar", obj.Name)
	assert.Equal(t, models.FrequencyWeekly, obj.Frequency)
	assert.NotEmpty(t, obj.ID)
	assert.Zero(t, obj.Streak)

	_, err = svc.CreateObjective(ctx, "u1", "Guitar", "daily")
	assert.ErrorIs(t, err, ErrConflict)

	_, err = svc.CreateObjective(ctx, "u2", "Guitar", "daily")
	assert.NoError(t, err, "names are scoped per owner")

	_, err = svc.CreateObjective(ctx, "u1", "   ", "daily")
	assert.ErrorIs(t, err, ErrInvalidName)

	_, err = svc.CreateObjective(ctx, "u1", "Piano", "hourly")
	assert.ErrorIs(t, err, ErrInvalidFrequency)
}

func TestRenameConflictLeavesBothUnchanged(t *testing.T) {
	ctx := context.Background()
	svc, c := newTestService(t)

	_, err := svc.CreateObjective(ctx, "u1", "Guitar", "daily")
	require.NoError(t, err)
	_, err = svc.CreateObjective(ctx, "u1", "Piano", "weekly")
	require.NoError(t, err)
	_, err = svc.TrySubmit(ctx, "u1", "Guitar")
	require.NoError(t, err)
	c.Advance(time.Hour)

	guitarBefore, err := svc.GetObjective(ctx, "u1", "Guitar")
	require.NoError(t, err)
	pianoBefore, err := svc.GetObjective(ctx, "u1", "Piano")
	require.NoError(t, err)

	_, err = svc.RenameObjective(ctx, "u1", "Guitar", "Piano")
	assert.ErrorIs(t, err, ErrConflict)

	guitarAfter, err := svc.GetObjective(ctx, "u1", "Guitar")
	require.NoError(t, err)
	pianoAfter, err := svc.GetObjective(ctx, "u1", "Piano")
	require.NoError(t, err)
	assert.Equal(t, guitarBefore, guitarAfter)
	assert.Equal(t, pianoBefore, pianoAfter)
}

func TestRenameOntoOwnNameConflicts(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	_, err := svc.CreateObjective(ctx, "u1", "Guitar", "daily")
	require.NoError(t, err)

	_, err = svc.RenameObjective(ctx, "u1", "Guitar", "Guitar")
	assert.ErrorIs(t, err, ErrConflict)
	_, err = svc.GetObjective(ctx, "u1", "Guitar")
	assert.NoError(t, err)
}

func TestRenameKeepsHistory(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	created, err := svc.CreateObjective(ctx, "u1", "Guitar", "daily")
	require.NoError(t, err)
	_, err = svc.TrySubmit(ctx, "u1", "Guitar")
	require.NoError(t, err)

	renamed, err := svc.RenameObjective(ctx, "u1", "Guitar", "Bass")
	require.NoError(t, err)
	assert.Equal(t, created.ID, renamed.ID)
	assert.Equal(t, "Bass", renamed.Name)
	assert.Equal(t, 1, renamed.Streak)

	_, err = svc.GetObjective(ctx, "u1", "Guitar")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = svc.RenameObjective(ctx, "u1", "Guitar", "Cello")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = svc.RenameObjective(ctx, "u1", "Bass", "")
	assert.ErrorIs(t, err, ErrInvalidName)
}

func TestListAndDelete(t *testing.T) {
	ctx := context.Background()
	svc, c := newTestService(t)

	_, err := svc.CreateObjective(ctx, "u1", "Guitar", "daily")
	require.NoError(t, err)
	c.Advance(time.Second)
	_, err = svc.CreateObjective(ctx, "u1", "Piano", "weekly")
	require.NoError(t, err)
	_, err = svc.TrySubmit(ctx, "u1", "Piano")
	require.NoError(t, err)

	statuses, err := svc.ListObjectives(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, statuses, 2)
	assert.Equal(t, "Guitar", statuses[0].Name)
	assert.True(t, statuses[0].Available)
	assert.Equal(t, "Piano", statuses[1].Name)
	assert.False(t, statuses[1].Available)
	assert.Equal(t, c.Now().Add(162*time.Hour), statuses[1].NextAllowed)

	require.NoError(t, svc.DeleteObjective(ctx, "u1", "Guitar"))
	assert.ErrorIs(t, svc.DeleteObjective(ctx, "u1", "Guitar"), ErrNotFound)

	statuses, err = svc.ListObjectives(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, statuses, 1)

	all, err := svc.ListAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestVisibility(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	pref, err := svc.Preference(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, models.VisibilityPrivate, pref.Visibility)
	assert.True(t, pref.Ephemeral())

	_, err = svc.SetVisibility(ctx, "u1", models.VisibilityShared)
	require.NoError(t, err)

	pref, err = svc.Preference(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, models.VisibilityShared, pref.Visibility)
	assert.False(t, pref.Ephemeral())

	other, err := svc.Preference(ctx, "u2")
	require.NoError(t, err)
	assert.Equal(t, models.VisibilityPrivate, other.Visibility)
}
