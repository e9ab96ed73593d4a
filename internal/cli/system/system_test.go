package system

import (
	"path/filepath"
	"testing"

	"github.com/julianstephens/objectives/internal/cli"
	"github.com/julianstephens/objectives/internal/config"
)

func setupTestContext(t *testing.T) *cli.Context {
	t.Helper()
	dir := t.TempDir()

	cfg := config.Default()
	cfg.Database = filepath.Join(dir, "objectives.db")
	cfg.DataDir = dir
	if err := cfg.Validate(); err != nil {
		t.Fatalf("invalid test config: %v", err)
	}

	ctx, err := cli.NewContext(cfg)
	if err != nil {
		t.Fatalf("failed to create context: %v", err)
	}
	if err := ctx.Store.Init(); err != nil {
		t.Fatalf("failed to initialize store: %v", err)
	}
	t.Cleanup(func() { ctx.Store.Close() })
	return ctx
}
