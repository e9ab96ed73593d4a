package system

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/julianstephens/objectives/internal/cli"
)

type DebugCmd struct {
	DBPath          *DebugDBPathCmd          `cmd:"" help:"Show database path."`
	DumpObjective   *DebugDumpObjectiveCmd   `cmd:"" help:"Dump an objective as JSON."`
	DumpPreferences *DebugDumpPreferencesCmd `cmd:"" help:"Dump every saved user preference as JSON."`
}

type DebugDBPathCmd struct{}

func (cmd *DebugDBPathCmd) Run(ctx *cli.Context) error {
	return printJSON(map[string]string{"path": ctx.Store.GetConfigPath()})
}

type DebugDumpObjectiveCmd struct {
	Name  string `arg:"" help:"Objective name."`
	Owner string `help:"Discord user id of the owner." env:"OBJECTIVES_OWNER"`
}

func (cmd *DebugDumpObjectiveCmd) Run(ctx *cli.Context) error {
	if err := cli.RequireOwner(cmd.Owner); err != nil {
		return err
	}
	if err := ctx.Store.Load(); err != nil {
		return fmt.Errorf("failed to load database: %w", err)
	}

	obj, err := ctx.Service.GetObjective(context.Background(), cmd.Owner, cmd.Name)
	if err != nil {
		return cli.UserFacing(err)
	}
	return printJSON(obj)
}

type DebugDumpPreferencesCmd struct{}

func (cmd *DebugDumpPreferencesCmd) Run(ctx *cli.Context) error {
	if err := ctx.Store.Load(); err != nil {
		return fmt.Errorf("failed to load database: %w", err)
	}

	prefs, err := ctx.Store.ListPreferences(context.Background())
	if err != nil {
		return fmt.Errorf("failed to list preferences: %w", err)
	}
	return printJSON(prefs)
}

func printJSON(v any) error {
	jsonBytes, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}
	fmt.Println(string(jsonBytes))
	return nil
}
