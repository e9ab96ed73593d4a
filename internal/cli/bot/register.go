package bot

import (
	"context"
	"fmt"

	"github.com/julianstephens/objectives/internal/cli"
	"github.com/julianstephens/objectives/internal/discord"
	clierrors "github.com/julianstephens/objectives/internal/errors"
)

type RegisterCmd struct {
	ApplicationID string `help:"Discord application id. Overrides the config file."`
}

func (c *RegisterCmd) Run(ctx *cli.Context) error {
	appID := ctx.Config.ApplicationID
	if c.ApplicationID != "" {
		appID = c.ApplicationID
	}
	if appID == "" {
		return clierrors.User(nil, "no application id: set application_id, DISCORD_APP_ID or --application-id")
	}

	client, err := ctx.DiscordClient()
	if err != nil {
		return err
	}

	installed, err := client.InstallGlobalCommands(context.Background(), appID, discord.Commands())
	if err != nil {
		return fmt.Errorf("failed to register commands: %w", err)
	}

	for _, cmd := range installed {
		fmt.Printf("✓ /%s\n", cmd.Name)
	}
	fmt.Printf("\nRegistered %d global command(s). Discord may take a few minutes to show changes.\n", len(installed))
	return nil
}
