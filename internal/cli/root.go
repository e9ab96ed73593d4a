package cli

import (
	"context"
	"errors"

	"github.com/julianstephens/objectives/internal/backup"
	"github.com/julianstephens/objectives/internal/config"
	"github.com/julianstephens/objectives/internal/discord"
	"github.com/julianstephens/objectives/internal/engine"
	clierrors "github.com/julianstephens/objectives/internal/errors"
	"github.com/julianstephens/objectives/internal/keyring"
	"github.com/julianstephens/objectives/internal/logger"
	"github.com/julianstephens/objectives/internal/migration"
	"github.com/julianstephens/objectives/internal/storage"
	"github.com/julianstephens/objectives/internal/storage/postgres"
	"github.com/julianstephens/objectives/internal/storage/sqlite"
)

// ErrNotSQLite is returned by commands that only work on a SQLite file.
var ErrNotSQLite = errors.New("this command only supports SQLite storage")

type Context struct {
	Config  config.Config
	Store   storage.Provider
	Service *engine.Service
	Debug   bool
}

// NewContext opens (but does not load) the store named by cfg and builds
// the objective service on top of it.
func NewContext(cfg config.Config) (*Context, error) {
	store, err := OpenStore(cfg.Database)
	if err != nil {
		return nil, err
	}
	return &Context{
		Config:  cfg,
		Store:   store,
		Service: engine.NewService(store, engine.WithPolicy(PolicyFor(cfg))),
	}, nil
}

// OpenStore picks the backend from the shape of dsn.
func OpenStore(dsn string) (storage.Provider, error) {
	if storage.IsPostgres(dsn) {
		if err := postgres.ValidateConnString(dsn); err != nil {
			return nil, err
		}
		return postgres.New(dsn), nil
	}
	return sqlite.NewStore(dsn), nil
}

// PolicyFor builds the window policy from the configured cooldowns,
// stale threshold and timezone.
func PolicyFor(cfg config.Config) engine.Policy {
	return engine.Policy{
		Cooldowns:      cfg.CooldownTable(),
		StaleThreshold: cfg.StaleThreshold,
		Location:       cfg.Location(),
	}
}

// Runner returns the migration runner of the store, if it has one.
func (c *Context) Runner() (*migration.Runner, bool) {
	m, ok := c.Store.(interface{ Runner() *migration.Runner })
	if !ok {
		return nil, false
	}
	return m.Runner(), true
}

// BackupManager returns a backup manager for the SQLite database.
func (c *Context) BackupManager() (*backup.Manager, error) {
	if _, ok := c.Store.(*sqlite.Store); !ok {
		return nil, ErrNotSQLite
	}
	return backup.NewManager(c.Store.GetConfigPath(), c.Config.DataDir), nil
}

// PerformAutomaticBackup creates an automatic backup and silently handles errors
func (c *Context) PerformAutomaticBackup(ctx context.Context) {
	mgr, err := c.BackupManager()
	if err != nil {
		return
	}
	if _, err := mgr.Create(ctx); err != nil {
		// Log warning but don't interrupt user workflow
		logger.Warn("Automatic backup failed", "error", err)
	}
}

// DiscordClient builds a REST client with the bot token from the
// environment or the OS keyring.
func (c *Context) DiscordClient() (*discord.Client, error) {
	token, err := keyring.ResolveBotToken(c.Config.BotToken)
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return nil, clierrors.User(err, "no bot token configured. Set DISCORD_TOKEN or run 'objectives keyring set'")
		}
		return nil, err
	}
	return discord.NewClient(discord.Config{
		BaseURL: c.Config.APIBaseURL,
		Token:   token,
	})
}

// UserFacing turns engine rejections into user errors so they are
// reported without being logged as failures.
func UserFacing(err error) error {
	var tooSoon *engine.TooSoonError
	switch {
	case err == nil:
		return nil
	case errors.As(err, &tooSoon):
		return clierrors.User(err, "%q cannot be submitted again until %s", tooSoon.Name, tooSoon.RetryAt.Local().Format("2006-01-02 15:04"))
	case errors.Is(err, engine.ErrNotFound),
		errors.Is(err, engine.ErrConflict),
		errors.Is(err, engine.ErrInvalidName),
		errors.Is(err, engine.ErrInvalidFrequency):
		return clierrors.User(err, "%v", err)
	default:
		return err
	}
}

// RequireOwner fails when no Discord user id was given.
func RequireOwner(owner string) error {
	if owner == "" {
		return clierrors.User(nil, "an owner is required: pass --owner <discord user id> or set OBJECTIVES_OWNER")
	}
	return nil
}
