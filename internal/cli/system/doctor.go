package system

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/julianstephens/objectives/internal/cli"
	"github.com/julianstephens/objectives/internal/discord"
	"github.com/julianstephens/objectives/internal/keyring"
	"github.com/julianstephens/objectives/internal/lockfile"
	"github.com/julianstephens/objectives/internal/validation"
)

type DoctorCmd struct{}

type checkLevel int

const (
	levelFail checkLevel = iota
	levelWarn
)

type check struct {
	name  string
	level checkLevel
	run   func(ctx context.Context, appCtx *cli.Context) error
	// needsDB checks are skipped when the database is not reachable.
	needsDB bool
}

var doctorChecks = []check{
	{name: "Database reachable", level: levelFail, run: checkDBReachable},
	{name: "Schema version", level: levelFail, run: checkSchemaVersion, needsDB: true},
	{name: "Migrations complete", level: levelFail, run: checkMigrationsComplete, needsDB: true},
	{name: "Backups present", level: levelWarn, run: checkBackupsPresent},
	{name: "Data validation", level: levelFail, run: checkValidation, needsDB: true},
	{name: "Clock/timezone", level: levelFail, run: checkClockTimezone},
	{name: "Bot token", level: levelWarn, run: checkBotToken},
	{name: "Discord application", level: levelWarn, run: checkDiscordApplication},
	{name: "Reminder server", level: levelWarn, run: checkReminderServer},
}

func (cmd *DoctorCmd) Run(appCtx *cli.Context) error {
	ctx := context.Background()
	fmt.Println("Running diagnostics...")
	fmt.Println()

	hasError := false
	dbReachable := true
	for _, c := range doctorChecks {
		if c.needsDB && !dbReachable {
			fmt.Printf("⊘ %s: SKIPPED (database not reachable)\n", c.name)
			continue
		}
		err := c.run(ctx, appCtx)
		switch {
		case err == nil:
			fmt.Printf("✓ %s: OK\n", c.name)
		case c.level == levelWarn:
			fmt.Printf("⚠ %s: WARNING\n", c.name)
			fmt.Printf("   %v\n", err)
		default:
			fmt.Printf("❌ %s: FAIL\n", c.name)
			fmt.Printf("   Error: %v\n", err)
			hasError = true
			if c.name == "Database reachable" {
				dbReachable = false
			}
		}
	}

	fmt.Println()
	if hasError {
		fmt.Println("Diagnostics completed with errors.")
		return fmt.Errorf("one or more health checks failed")
	}

	fmt.Println("All diagnostics passed!")
	return nil
}

func checkDBReachable(ctx context.Context, appCtx *cli.Context) error {
	if err := appCtx.Store.Load(); err != nil {
		return fmt.Errorf("failed to load database: %w", err)
	}
	if err := appCtx.Store.Ping(ctx); err != nil {
		return fmt.Errorf("failed to query database: %w", err)
	}
	return nil
}

func checkSchemaVersion(ctx context.Context, appCtx *cli.Context) error {
	runner, ok := appCtx.Runner()
	if !ok {
		return nil
	}
	return runner.Validate(ctx)
}

func checkMigrationsComplete(ctx context.Context, appCtx *cli.Context) error {
	runner, ok := appCtx.Runner()
	if !ok {
		return nil
	}
	pending, err := runner.Pending(ctx)
	if err != nil {
		return fmt.Errorf("failed to read schema version: %w", err)
	}
	if pending > 0 {
		return fmt.Errorf("%d migration(s) pending - run 'objectives migrate'", pending)
	}
	return nil
}

func checkBackupsPresent(_ context.Context, appCtx *cli.Context) error {
	mgr, err := appCtx.BackupManager()
	if errors.Is(err, cli.ErrNotSQLite) {
		return nil
	}
	if err != nil {
		return err
	}
	backups, err := mgr.List()
	if err != nil {
		return fmt.Errorf("failed to list backups: %w", err)
	}
	if len(backups) == 0 {
		return fmt.Errorf("no backups found - consider creating one with 'objectives backup create'")
	}
	return nil
}

func checkValidation(ctx context.Context, appCtx *cli.Context) error {
	objs, err := appCtx.Store.ListAllObjectives(ctx)
	if err != nil {
		return fmt.Errorf("failed to list objectives: %w", err)
	}
	result := validation.New().ValidateObjectives(objs)
	if result.HasConflicts() {
		return errors.New(result.FormatReport())
	}
	return nil
}

func checkClockTimezone(_ context.Context, appCtx *cli.Context) error {
	now := time.Now()
	if now.Year() < 2020 || now.Year() > 2100 {
		return fmt.Errorf("system time appears incorrect: %s", now.Format(time.RFC3339))
	}
	if appCtx.Config.Location() == time.UTC {
		fmt.Printf("   Note: streak days are counted in UTC\n")
	}
	return nil
}

func checkBotToken(_ context.Context, appCtx *cli.Context) error {
	if appCtx.Config.BotToken != "" {
		return nil
	}
	if _, err := keyring.GetBotToken(); err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return fmt.Errorf("no bot token in DISCORD_TOKEN or the keyring - reminders cannot be sent")
		}
		return err
	}
	return nil
}

func checkDiscordApplication(_ context.Context, appCtx *cli.Context) error {
	if appCtx.Config.ApplicationID == "" {
		return fmt.Errorf("application_id is not set - 'objectives register' will not work")
	}
	if _, err := discord.ParsePublicKey(appCtx.Config.PublicKey); err != nil {
		return fmt.Errorf("public_key: %w", err)
	}
	return nil
}

func checkReminderServer(_ context.Context, appCtx *cli.Context) error {
	owner, err := lockfile.Inspect(lockfile.Path(appCtx.Config.DataDir))
	if errors.Is(err, os.ErrNotExist) {
		fmt.Printf("   Note: no server is running\n")
		return nil
	}
	if err != nil {
		return fmt.Errorf("lockfile unreadable: %w", err)
	}
	if !owner.Running {
		return fmt.Errorf("stale lockfile from pid %d (started %s)", owner.PID, humanize.Time(owner.Started))
	}
	fmt.Printf("   Note: server running as pid %d since %s\n", owner.PID, humanize.Time(owner.Started))
	return nil
}
