package system

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/julianstephens/objectives/internal/cli"
	"github.com/julianstephens/objectives/internal/storage"
)

type InitCmd struct {
	Force  bool   `help:"Force reset by deleting existing database before initialization."`
	Source string `help:"Source database path or connection string to copy objectives and preferences from."`
}

func (c *InitCmd) Run(ctx *cli.Context) error {
	if c.Force {
		if storage.IsPostgres(ctx.Config.Database) {
			return fmt.Errorf("--force only supports SQLite storage")
		}
		dbPath := ctx.Store.GetConfigPath()
		if c.Source != "" {
			absDB, err := filepath.Abs(dbPath)
			if err == nil {
				dbPath = absDB
			}
			absSource, err := filepath.Abs(c.Source)
			if err == nil && absSource == dbPath {
				return fmt.Errorf("cannot use --force when source and destination are the same: %s", dbPath)
			}
		}
		if _, err := os.Stat(dbPath); err == nil {
			if err := ctx.Store.Close(); err != nil {
				return fmt.Errorf("failed to close existing database: %w", err)
			}
			for _, path := range []string{dbPath, dbPath + "-wal", dbPath + "-shm"} {
				if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
					return fmt.Errorf("failed to delete existing database: %w", err)
				}
			}
			fmt.Printf("Deleted existing database at: %s\n", dbPath)
		} else if !os.IsNotExist(err) {
			return fmt.Errorf("failed to access existing database: %w", err)
		}
	}

	if err := ctx.Store.Init(); err != nil {
		return err
	}
	fmt.Printf("Initialized objectives storage at: %s\n", ctx.Store.GetConfigPath())

	if c.Source != "" {
		fmt.Printf("Copying data from: %s\n", c.Source)
		if err := c.copyData(context.Background(), ctx); err != nil {
			return fmt.Errorf("copy failed: %w", err)
		}
		fmt.Println("Copy completed successfully!")
	}
	return nil
}

func (c *InitCmd) copyData(ctx context.Context, appCtx *cli.Context) error {
	source, err := cli.OpenStore(c.Source)
	if err != nil {
		return err
	}
	if err := source.Load(); err != nil {
		return fmt.Errorf("failed to load source database: %w", err)
	}
	defer source.Close()

	fmt.Println("  Copying objectives...")
	objs, err := source.ListAllObjectives(ctx)
	if err != nil {
		return fmt.Errorf("failed to list objectives from source: %w", err)
	}
	for _, obj := range objs {
		if err := appCtx.Store.UpsertObjective(ctx, obj); err != nil {
			return fmt.Errorf("failed to copy objective %s: %w", obj.Key(), err)
		}
	}
	fmt.Printf("    Copied %d objectives\n", len(objs))

	fmt.Println("  Copying preferences...")
	prefs, err := source.ListPreferences(ctx)
	if err != nil {
		return fmt.Errorf("failed to list preferences from source: %w", err)
	}
	for _, pref := range prefs {
		if err := appCtx.Store.SavePreference(ctx, pref); err != nil {
			return fmt.Errorf("failed to copy preference for %s: %w", pref.OwnerID, err)
		}
	}
	fmt.Printf("    Copied %d preferences\n", len(prefs))
	return nil
}
