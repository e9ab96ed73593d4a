package backups

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/julianstephens/objectives/internal/cli"
	"github.com/julianstephens/objectives/internal/config"
	"github.com/julianstephens/objectives/internal/lockfile"
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

func TestBackupCreateListRestore(t *testing.T) {
	ctx := setupTestContext(t)
	bg := context.Background()

	if _, err := ctx.Service.CreateObjective(bg, "u1", "Read", "daily"); err != nil {
		t.Fatalf("CreateObjective failed: %v", err)
	}
	if err := (&BackupCreateCmd{}).Run(ctx); err != nil {
		t.Fatalf("BackupCreateCmd.Run() error = %v", err)
	}
	if err := (&BackupListCmd{}).Run(ctx); err != nil {
		t.Fatalf("BackupListCmd.Run() error = %v", err)
	}

	mgr, err := ctx.BackupManager()
	if err != nil {
		t.Fatalf("BackupManager() error = %v", err)
	}
	backups, err := mgr.List()
	if err != nil || len(backups) != 1 {
		t.Fatalf("List() = %v, %v; want one backup", backups, err)
	}

	if err := ctx.Service.DeleteObjective(bg, "u1", "Read"); err != nil {
		t.Fatalf("DeleteObjective failed: %v", err)
	}

	restore := &BackupRestoreCmd{BackupFile: filepath.Base(backups[0].Path), Yes: true}
	if err := restore.Run(ctx); err != nil {
		t.Fatalf("BackupRestoreCmd.Run() error = %v", err)
	}

	if err := ctx.Store.Load(); err != nil {
		t.Fatalf("Load after restore failed: %v", err)
	}
	if _, err := ctx.Service.GetObjective(bg, "u1", "Read"); err != nil {
		t.Errorf("restored objective missing: %v", err)
	}
}

func TestBackupRestoreMissingFile(t *testing.T) {
	ctx := setupTestContext(t)

	if err := (&BackupRestoreCmd{BackupFile: "nope.db", Yes: true}).Run(ctx); err == nil {
		t.Error("restoring a missing backup should fail")
	}
}

func TestBackupRestoreRefusesWhileServerRuns(t *testing.T) {
	ctx := setupTestContext(t)
	if err := (&BackupCreateCmd{}).Run(ctx); err != nil {
		t.Fatalf("BackupCreateCmd.Run() error = %v", err)
	}
	mgr, _ := ctx.BackupManager()
	backups, _ := mgr.List()
	if len(backups) != 1 {
		t.Fatalf("want one backup, got %d", len(backups))
	}

	lock, err := lockfile.Acquire(ctx.Config.DataDir)
	if err != nil {
		t.Fatalf("Acquire failed: %v", err)
	}
	defer lock.Release()

	if err := (&BackupRestoreCmd{BackupFile: backups[0].Path, Yes: true}).Run(ctx); err == nil {
		t.Error("restore should refuse while a server holds the lock")
	}
}
