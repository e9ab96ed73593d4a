package objectives

import (
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/julianstephens/objectives/internal/backup"
	"github.com/julianstephens/objectives/internal/cli"
	"github.com/julianstephens/objectives/internal/config"
	"github.com/julianstephens/objectives/internal/engine"
	clierrors "github.com/julianstephens/objectives/internal/errors"
	"github.com/julianstephens/objectives/internal/models"
)

func setupTestContext(t *testing.T) *cli.Context {
	t.Helper()
	dir := t.TempDir()

	cfg := config.Default()
	cfg.Database = filepath.Join(dir, "objectives.db")
	cfg.DataDir = dir
	require.NoError(t, cfg.Validate())

	ctx, err := cli.NewContext(cfg)
	require.NoError(t, err)
	require.NoError(t, ctx.Store.Init())
	t.Cleanup(func() { ctx.Store.Close() })
	return ctx
}

func TestAddCmd(t *testing.T) {
	ctx := setupTestContext(t)

	require.NoError(t, (&AddCmd{Name: "  Read  ", Frequency: "Weekly", Owner: "u1"}).Run(ctx))

	obj, err := ctx.Service.GetObjective(context.Background(), "u1", "Read")
	require.NoError(t, err)
	assert.Equal(t, models.FrequencyWeekly, obj.Frequency)
	assert.Zero(t, obj.Streak)
	assert.Nil(t, obj.LastSubmitted)
}

func TestAddCmdUserErrors(t *testing.T) {
	ctx := setupTestContext(t)
	require.NoError(t, (&AddCmd{Name: "Read", Frequency: "daily", Owner: "u1"}).Run(ctx))

	tests := []struct {
		name string
		cmd  AddCmd
	}{
		{"missing owner", AddCmd{Name: "Write", Frequency: "daily"}},
		{"missing name", AddCmd{Frequency: "daily", Owner: "u1"}},
		{"bad frequency", AddCmd{Name: "Write", Frequency: "hourly", Owner: "u1"}},
		{"duplicate", AddCmd{Name: "Read", Frequency: "daily", Owner: "u1"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cmd.Run(ctx)
			require.Error(t, err)
			assert.True(t, clierrors.IsUser(err), "want a user error, got %v", err)
		})
	}
}

func TestSubmitCmd(t *testing.T) {
	ctx := setupTestContext(t)
	require.NoError(t, (&AddCmd{Name: "Read", Frequency: "daily", Owner: "u1"}).Run(ctx))

	require.NoError(t, (&SubmitCmd{Name: "Read", Owner: "u1"}).Run(ctx))

	err := (&SubmitCmd{Name: "Read", Owner: "u1"}).Run(ctx)
	require.Error(t, err)
	assert.True(t, clierrors.IsUser(err))
	assert.ErrorIs(t, err, engine.ErrTooSoon)

	err = (&SubmitCmd{Name: "Missing", Owner: "u1"}).Run(ctx)
	assert.ErrorIs(t, err, engine.ErrNotFound)
}

func TestRenameCmdConflict(t *testing.T) {
	ctx := setupTestContext(t)
	require.NoError(t, (&AddCmd{Name: "Read", Frequency: "daily", Owner: "u1"}).Run(ctx))
	require.NoError(t, (&AddCmd{Name: "Write", Frequency: "daily", Owner: "u1"}).Run(ctx))

	err := (&RenameCmd{Current: "Read", New: "Write", Owner: "u1"}).Run(ctx)
	assert.ErrorIs(t, err, engine.ErrConflict)

	require.NoError(t, (&RenameCmd{Current: "Read", New: "Study", Owner: "u1"}).Run(ctx))
	_, err = ctx.Service.GetObjective(context.Background(), "u1", "Study")
	assert.NoError(t, err)
}

func TestDeleteCmdBacksUpFirst(t *testing.T) {
	ctx := setupTestContext(t)
	require.NoError(t, (&AddCmd{Name: "Read", Frequency: "daily", Owner: "u1"}).Run(ctx))

	require.NoError(t, (&DeleteCmd{Name: "Read", Owner: "u1", Yes: true}).Run(ctx))

	_, err := ctx.Service.GetObjective(context.Background(), "u1", "Read")
	assert.ErrorIs(t, err, engine.ErrNotFound)

	mgr := backup.NewManager(ctx.Store.GetConfigPath(), ctx.Config.DataDir)
	backups, err := mgr.List()
	require.NoError(t, err)
	require.Len(t, backups, 1)

	count, err := mgr.Verify(context.Background(), backups[0].Path)
	require.NoError(t, err)
	assert.Equal(t, 1, count, "backup holds the deleted objective")

	err = (&DeleteCmd{Name: "Read", Owner: "u1", Yes: true}).Run(ctx)
	assert.ErrorIs(t, err, engine.ErrNotFound)
}

func TestVisibilityCmds(t *testing.T) {
	ctx := setupTestContext(t)

	require.NoError(t, (&VisibilityGetCmd{Owner: "u1"}).Run(ctx))
	require.NoError(t, (&VisibilitySetCmd{Mode: "shared", Owner: "u1"}).Run(ctx))

	pref, err := ctx.Service.Preference(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, models.VisibilityShared, pref.Visibility)

	err = (&VisibilitySetCmd{Mode: "public", Owner: "u1"}).Run(ctx)
	assert.True(t, clierrors.IsUser(err))
}

func TestRenderTable(t *testing.T) {
	now := time.Now()
	last := now.Add(-2 * time.Hour)
	statuses := []engine.Status{
		{
			Objective:   models.Objective{OwnerID: "u1", Name: "Read", Frequency: models.FrequencyDaily, Streak: 5, LastSubmitted: &last},
			NextAllowed: now.Add(16 * time.Hour),
		},
		{
			Objective: models.Objective{OwnerID: "u2", Name: "Write", Frequency: models.FrequencyWeekly},
			Available: true,
		},
	}

	out := renderTable(statuses)
	for _, want := range []string{"OWNER", "Read", "5 🔥", "reopens", "2 hours ago", "Write", "available", "never"} {
		assert.True(t, strings.Contains(out, want), "table missing %q:\n%s", want, out)
	}
}

func TestFormatStreak(t *testing.T) {
	assert.Equal(t, "3", formatStreak(3))
	assert.Equal(t, "4 🔥", formatStreak(4))
}
