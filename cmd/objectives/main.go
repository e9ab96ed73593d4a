package main

import (
	"fmt"
	"os"

	"github.com/alecthomas/kong"

	"github.com/julianstephens/objectives/internal/cli"
	"github.com/julianstephens/objectives/internal/cli/backups"
	"github.com/julianstephens/objectives/internal/cli/bot"
	"github.com/julianstephens/objectives/internal/cli/objectives"
	"github.com/julianstephens/objectives/internal/cli/system"
	"github.com/julianstephens/objectives/internal/config"
	"github.com/julianstephens/objectives/internal/constants"
	"github.com/julianstephens/objectives/internal/errors"
	"github.com/julianstephens/objectives/internal/logger"
	"github.com/julianstephens/objectives/internal/storage"
)

var CLI struct {
	Version  kong.VersionFlag
	Config   string `help:"Config file path." type:"string" default:"${config_path}"`
	Database string `help:"SQLite file path or PostgreSQL connection string. Overrides the config file. For PostgreSQL, credentials must NOT be embedded in the connection string. Use PGPASSWORD or .pgpass instead."`
	Debug    bool   `help:"Log debug output to stderr."`

	Init     system.InitCmd    `cmd:"" help:"Initialize objectives storage."`
	Migrate  system.MigrateCmd `cmd:"" help:"Run database migrations."`
	Doctor   system.DoctorCmd  `cmd:"" help:"Run health checks and diagnostics."`
	Inspect  system.DebugCmd   `cmd:"" name:"debug" help:"Debug commands for troubleshooting."`
	Tui      system.TuiCmd     `cmd:"" help:"Launch the interactive dashboard." default:"1"`
	Serve    bot.ServeCmd      `cmd:"" help:"Serve Discord interactions and send reminders."`
	Sweep    bot.SweepCmd      `cmd:"" help:"Send due reminders once."`
	Register bot.RegisterCmd   `cmd:"" help:"Install the slash commands for the Discord application."`
	Keyring  struct {
		Set    system.KeyringSetCmd    `cmd:"" help:"Store the bot token in the OS keyring."`
		Delete system.KeyringDeleteCmd `cmd:"" help:"Remove the bot token from the OS keyring."`
		Status system.KeyringStatusCmd `cmd:"" help:"Check the OS keyring and the stored token." default:"1"`
	} `cmd:"" help:"Manage the Discord bot token."`
	Objective struct {
		Add    objectives.AddCmd    `cmd:"" help:"Add a new objective."`
		List   objectives.ListCmd   `cmd:"" help:"List objectives." default:"1"`
		Submit objectives.SubmitCmd `cmd:"" help:"Record a submission."`
		Delete objectives.DeleteCmd `cmd:"" help:"Delete an objective."`
		Rename objectives.RenameCmd `cmd:"" help:"Rename an objective."`
	} `cmd:"" help:"Manage objectives."`
	Visibility struct {
		Get objectives.VisibilityGetCmd `cmd:"" help:"Show who sees replies to an owner's commands." default:"1"`
		Set objectives.VisibilitySetCmd `cmd:"" help:"Change who sees replies to an owner's commands."`
	} `cmd:"" help:"Manage reply visibility."`
	Backup struct {
		Create  backups.BackupCreateCmd  `cmd:"" help:"Create a manual backup." default:"1"`
		List    backups.BackupListCmd    `cmd:"" help:"List available backups."`
		Restore backups.BackupRestoreCmd `cmd:"" help:"Restore from a backup."`
	} `cmd:"" help:"Manage database backups."`
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name(constants.AppName),
		kong.Description("Recurring objectives with streaks and Discord reminders"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact:             true,
			NoExpandSubcommands: true,
		}),
		kong.Vars{
			"version":     constants.Version,
			"config_path": constants.DefaultConfigPath,
		},
	)

	cfg, err := config.Load(CLI.Config)
	if err != nil {
		fmt.Fprintln(os.Stderr, errors.Format(err))
		os.Exit(1)
	}
	if CLI.Database != "" {
		if storage.IsPostgres(CLI.Database) && storage.HasEmbeddedCredentials(CLI.Database) {
			fmt.Fprintf(os.Stderr, "❌ Error: PostgreSQL connection strings with embedded credentials are NOT allowed.\n")
			fmt.Fprintf(os.Stderr, "       Use one of these secure alternatives:\n")
			fmt.Fprintf(os.Stderr, "       1. Environment:   export PGPASSWORD=...\n")
			fmt.Fprintf(os.Stderr, "       2. .pgpass file:  Use connection string without password: \"postgresql://user@host:5432/objectives\"\n")
			os.Exit(1)
		}
		cfg.Database = CLI.Database
	}

	if err := logger.Init(logger.Config{Debug: CLI.Debug, DataDir: cfg.DataDir, Format: cfg.LogFormat}); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to initialize logger: %v\n", err)
	}

	appCtx, err := cli.NewContext(cfg)
	if err != nil {
		errors.Fatal(err)
	}
	appCtx.Debug = CLI.Debug
	defer appCtx.Store.Close()

	if err := ctx.Run(appCtx); err != nil {
		appCtx.Store.Close()
		errors.Fatal(err)
	}
}
