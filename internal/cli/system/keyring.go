package system

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/julianstephens/objectives/internal/cli"
	"github.com/julianstephens/objectives/internal/keyring"
)

// KeyringSetCmd stores the Discord bot token in the OS keyring
type KeyringSetCmd struct {
	Token string `arg:"" optional:"" help:"Bot token to store. Prompted for when omitted."`
}

func (cmd *KeyringSetCmd) Run(ctx *cli.Context) error {
	token := cmd.Token
	if token == "" {
		err := huh.NewInput().
			Title("Discord bot token").
			EchoMode(huh.EchoModePassword).
			Value(&token).
			Run()
		if err != nil {
			return err
		}
	}

	if err := keyring.SetBotToken(token); err != nil {
		return err
	}

	fmt.Println("✓ Bot token stored successfully in OS keyring")
	fmt.Println("  'objectives serve' and 'objectives register' will use it when DISCORD_TOKEN is not set")
	return nil
}

// KeyringDeleteCmd removes the bot token from the OS keyring
type KeyringDeleteCmd struct{}

func (cmd *KeyringDeleteCmd) Run(ctx *cli.Context) error {
	if err := keyring.DeleteBotToken(); err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return errors.New("no bot token found in keyring")
		}
		return err
	}

	fmt.Println("✓ Bot token deleted from OS keyring")
	return nil
}

// KeyringStatusCmd checks the availability of the OS keyring
type KeyringStatusCmd struct{}

func (cmd *KeyringStatusCmd) Run(ctx *cli.Context) error {
	if !keyring.IsAvailable() {
		fmt.Println("❌ OS keyring is not available on this system")
		return errors.New("keyring unavailable")
	}
	fmt.Println("✓ OS keyring is available")

	token, err := keyring.GetBotToken()
	switch {
	case err == nil:
		fmt.Printf("✓ Bot token is stored in keyring (%s)\n", maskToken(token))
	case errors.Is(err, keyring.ErrNotFound):
		fmt.Println("ℹ No bot token stored in keyring")
	default:
		return err
	}
	if ctx.Config.BotToken != "" {
		fmt.Println("ℹ DISCORD_TOKEN is set and takes precedence over the keyring")
	}
	return nil
}

// maskToken keeps the last four characters of a token for display
func maskToken(token string) string {
	if len(token) <= 4 {
		return "****"
	}
	return strings.Repeat("*", 8) + token[len(token)-4:]
}
