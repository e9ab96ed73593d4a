package objectives

import (
	"context"
	"fmt"

	"github.com/dustin/go-humanize"

	"github.com/julianstephens/objectives/internal/cli"
)

type SubmitCmd struct {
	Name  string `arg:"" help:"Objective name."`
	Owner string `short:"o" help:"Discord user id of the owner." env:"OBJECTIVES_OWNER"`
}

func (c *SubmitCmd) Run(ctx *cli.Context) error {
	if err := cli.RequireOwner(c.Owner); err != nil {
		return err
	}
	if err := ctx.Store.Load(); err != nil {
		return err
	}

	result, err := ctx.Service.TrySubmit(context.Background(), c.Owner, c.Name)
	if err != nil {
		return cli.UserFacing(err)
	}
	if !result.Accepted {
		return cli.UserFacing(result.Err(c.Name))
	}

	fmt.Printf("✓ Submitted %q, streak %s\n", c.Name, formatStreak(result.Streak))
	fmt.Printf("  Next submission opens %s\n", humanize.Time(result.NextWindowOpen))
	return nil
}
