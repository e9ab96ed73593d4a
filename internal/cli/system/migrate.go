package system

import (
	"context"
	"fmt"

	"github.com/julianstephens/objectives/internal/cli"
)

type MigrateCmd struct{}

func (c *MigrateCmd) Run(ctx *cli.Context) error {
	if err := ctx.Store.Load(); err != nil {
		return fmt.Errorf("failed to load database: %w", err)
	}

	runner, ok := ctx.Runner()
	if !ok {
		return fmt.Errorf("storage backend does not support migrations")
	}

	count, err := runner.Apply(context.Background())
	if err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}

	if count == 0 {
		fmt.Println("No migrations to apply. Database is up to date.")
	} else {
		fmt.Printf("\nSuccessfully applied %d migration(s).\n", count)
	}
	return nil
}
