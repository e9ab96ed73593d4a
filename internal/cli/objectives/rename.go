package objectives

import (
	"context"
	"fmt"

	"github.com/julianstephens/objectives/internal/cli"
)

type RenameCmd struct {
	Current string `arg:"" help:"Current objective name."`
	New     string `arg:"" help:"New objective name."`
	Owner   string `short:"o" help:"Discord user id of the owner." env:"OBJECTIVES_OWNER"`
}

func (c *RenameCmd) Run(ctx *cli.Context) error {
	if err := cli.RequireOwner(c.Owner); err != nil {
		return err
	}
	if err := ctx.Store.Load(); err != nil {
		return err
	}

	obj, err := ctx.Service.RenameObjective(context.Background(), c.Owner, c.Current, c.New)
	if err != nil {
		return cli.UserFacing(err)
	}
	fmt.Printf("✓ Renamed %q to %q\n", c.Current, obj.Name)
	return nil
}
