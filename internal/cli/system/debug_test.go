package system

import (
	"context"
	"errors"
	"testing"

	"github.com/julianstephens/objectives/internal/engine"
	clierrors "github.com/julianstephens/objectives/internal/errors"
	"github.com/julianstephens/objectives/internal/models"
)

func TestDebugDBPathCmd(t *testing.T) {
	ctx := setupTestContext(t)

	if err := (&DebugDBPathCmd{}).Run(ctx); err != nil {
		t.Errorf("debug db-path command failed: %v", err)
	}
}

func TestDebugDumpObjectiveCmd(t *testing.T) {
	ctx := setupTestContext(t)
	if _, err := ctx.Service.CreateObjective(context.Background(), "u1", "Read", "daily"); err != nil {
		t.Fatalf("failed to create objective: %v", err)
	}

	if err := (&DebugDumpObjectiveCmd{Name: "Read", Owner: "u1"}).Run(ctx); err != nil {
		t.Errorf("dump of an existing objective failed: %v", err)
	}

	err := (&DebugDumpObjectiveCmd{Name: "Write", Owner: "u1"}).Run(ctx)
	if !errors.Is(err, engine.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if !clierrors.IsUser(err) {
		t.Errorf("missing objective should be a user error, got %v", err)
	}

	if err := (&DebugDumpObjectiveCmd{Name: "Read"}).Run(ctx); !clierrors.IsUser(err) {
		t.Errorf("missing owner should be a user error, got %v", err)
	}
}

func TestDebugDumpPreferencesCmd(t *testing.T) {
	ctx := setupTestContext(t)
	if _, err := ctx.Service.SetVisibility(context.Background(), "u1", models.VisibilityShared); err != nil {
		t.Fatalf("failed to save preference: %v", err)
	}

	if err := (&DebugDumpPreferencesCmd{}).Run(ctx); err != nil {
		t.Errorf("dump preferences failed: %v", err)
	}
}
