package objectives

import (
	"context"
	"fmt"

	"github.com/charmbracelet/huh"

	"github.com/julianstephens/objectives/internal/cli"
)

type DeleteCmd struct {
	Name  string `arg:"" help:"Objective name."`
	Owner string `short:"o" help:"Discord user id of the owner." env:"OBJECTIVES_OWNER"`
	Yes   bool   `short:"y" help:"Do not ask for confirmation."`
}

func (c *DeleteCmd) Run(ctx *cli.Context) error {
	if err := cli.RequireOwner(c.Owner); err != nil {
		return err
	}
	if err := ctx.Store.Load(); err != nil {
		return err
	}

	bg := context.Background()
	obj, err := ctx.Service.GetObjective(bg, c.Owner, c.Name)
	if err != nil {
		return cli.UserFacing(err)
	}

	if !c.Yes {
		confirmed := false
		err := huh.NewConfirm().
			Title(fmt.Sprintf("Delete %q?", obj.Name)).
			Description(fmt.Sprintf("Its streak of %d will be lost.", obj.Streak)).
			Value(&confirmed).
			Run()
		if err != nil {
			return err
		}
		if !confirmed {
			fmt.Println("Delete cancelled.")
			return nil
		}
	}

	ctx.PerformAutomaticBackup(bg)

	if err := ctx.Service.DeleteObjective(bg, c.Owner, c.Name); err != nil {
		return cli.UserFacing(err)
	}
	fmt.Printf("✓ Deleted objective %q\n", obj.Name)
	return nil
}
