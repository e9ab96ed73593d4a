package objectives

import (
	"context"
	"fmt"

	"github.com/julianstephens/objectives/internal/cli"
	clierrors "github.com/julianstephens/objectives/internal/errors"
	"github.com/julianstephens/objectives/internal/models"
)

type VisibilityGetCmd struct {
	Owner string `short:"o" help:"Discord user id of the owner." env:"OBJECTIVES_OWNER"`
}

func (c *VisibilityGetCmd) Run(ctx *cli.Context) error {
	if err := cli.RequireOwner(c.Owner); err != nil {
		return err
	}
	if err := ctx.Store.Load(); err != nil {
		return err
	}

	pref, err := ctx.Service.Preference(context.Background(), c.Owner)
	if err != nil {
		return err
	}
	fmt.Printf("Replies for %s are %s\n", c.Owner, pref.Visibility)
	return nil
}

type VisibilitySetCmd struct {
	Mode  string `arg:"" enum:"private,shared" help:"Who sees replies to the owner's commands (private|shared)."`
	Owner string `short:"o" help:"Discord user id of the owner." env:"OBJECTIVES_OWNER"`
}

func (c *VisibilitySetCmd) Run(ctx *cli.Context) error {
	if err := cli.RequireOwner(c.Owner); err != nil {
		return err
	}
	mode, err := models.ParseVisibility(c.Mode)
	if err != nil {
		return clierrors.User(err, "%v", err)
	}
	if err := ctx.Store.Load(); err != nil {
		return err
	}

	pref, err := ctx.Service.SetVisibility(context.Background(), c.Owner, mode)
	if err != nil {
		return err
	}
	fmt.Printf("✓ Replies for %s are now %s\n", c.Owner, pref.Visibility)
	return nil
}
