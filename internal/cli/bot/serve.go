// Package bot holds the commands that talk to Discord: the interactions
// server, one-off reminder sweeps and slash command registration.
package bot

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/julianstephens/objectives/internal/cli"
	"github.com/julianstephens/objectives/internal/discord"
	"github.com/julianstephens/objectives/internal/engine"
	clierrors "github.com/julianstephens/objectives/internal/errors"
	"github.com/julianstephens/objectives/internal/lockfile"
	"github.com/julianstephens/objectives/internal/logger"
	"github.com/julianstephens/objectives/internal/notifier"
	"github.com/julianstephens/objectives/internal/server"
)

type ServeCmd struct {
	Listen  string `help:"Address to listen on. Overrides the config file."`
	NoSweep bool   `help:"Answer interactions without sending reminders."`
}

func (c *ServeCmd) Run(ctx *cli.Context) error {
	cfg := ctx.Config
	if err := logger.Init(logger.Config{Debug: ctx.Debug, DataDir: cfg.DataDir, Stderr: true, Format: cfg.LogFormat}); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	if err := ctx.Store.Load(); err != nil {
		return err
	}

	publicKey, err := discord.ParsePublicKey(cfg.PublicKey)
	if err != nil {
		return clierrors.User(err, "public_key is missing or invalid: %v", err)
	}

	sigCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var wg sync.WaitGroup
	if !c.NoSweep {
		lock, err := acquireSweepLock(cfg.DataDir)
		if err != nil {
			return err
		}
		defer func() {
			if err := lock.Release(); err != nil {
				logger.Warn("Failed to release lockfile", "error", err)
			}
		}()

		scanner, err := newScanner(ctx)
		if err != nil {
			return err
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			scanner.Run(sigCtx, cfg.SweepInterval)
		}()
	}

	addr := cfg.Listen
	if c.Listen != "" {
		addr = c.Listen
	}
	srv := server.New(ctx.Service, publicKey, ctx.Store.Ping)
	err = srv.Run(sigCtx, addr)

	// The HTTP server can fail on its own; stop the sweep with it.
	stop()
	wg.Wait()
	return err
}

// newScanner wires the reminder scanner to Discord direct messages.
func newScanner(ctx *cli.Context) (*engine.Scanner, error) {
	client, err := ctx.DiscordClient()
	if err != nil {
		return nil, err
	}
	return engine.NewScanner(ctx.Store, notifier.New(client),
		engine.WithPolicy(cli.PolicyFor(ctx.Config)),
		engine.WithDispatchTimeout(ctx.Config.DispatchTimeout),
		engine.WithMessage(notifier.ReminderMessage),
	), nil
}

func acquireSweepLock(dataDir string) (*lockfile.Lock, error) {
	lock, err := lockfile.Acquire(dataDir)
	if errors.Is(err, lockfile.ErrLocked) {
		return nil, clierrors.User(err, "%v: only one process may send reminders per data directory", err)
	}
	return lock, err
}
