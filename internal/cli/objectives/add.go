// Package objectives manages objectives and preferences from the terminal
// on behalf of a Discord user.
package objectives

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/julianstephens/objectives/internal/cli"
	clierrors "github.com/julianstephens/objectives/internal/errors"
	"github.com/julianstephens/objectives/internal/models"
	"github.com/julianstephens/objectives/internal/validation"
)

type AddCmd struct {
	Name        string `arg:"" optional:"" help:"Objective name."`
	Frequency   string `short:"f" help:"How often the objective repeats (daily|weekly|monthly)." default:"daily"`
	Owner       string `short:"o" help:"Discord user id of the owner." env:"OBJECTIVES_OWNER"`
	Interactive bool   `short:"i" help:"Fill in the objective with a form."`
}

func (c *AddCmd) Run(ctx *cli.Context) error {
	if c.Interactive {
		if err := c.form().Run(); err != nil {
			return err
		}
	}
	if err := cli.RequireOwner(c.Owner); err != nil {
		return err
	}
	if strings.TrimSpace(c.Name) == "" {
		return clierrors.User(nil, "objective name is required")
	}

	if err := ctx.Store.Load(); err != nil {
		return err
	}

	obj, err := ctx.Service.CreateObjective(context.Background(), c.Owner, c.Name, c.Frequency)
	if err != nil {
		return cli.UserFacing(err)
	}

	fmt.Printf("✓ Created %s objective %q (ID: %s)\n", obj.Frequency, obj.Name, obj.ID)
	return nil
}

func (c *AddCmd) form() *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Owner").
				Description("Discord user id").
				Value(&c.Owner).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return errors.New("owner is required")
					}
					return nil
				}),
			huh.NewInput().
				Title("Name").
				Value(&c.Name).
				Validate(func(s string) error {
					_, err := validation.ObjectiveName(s)
					return err
				}),
			huh.NewSelect[string]().
				Title("Frequency").
				Options(huh.NewOptions(models.FrequencyNames()...)...).
				Value(&c.Frequency),
		),
	)
}
