package system

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/objectives/internal/cli"
	"github.com/julianstephens/objectives/internal/tui"
)

type TuiCmd struct {
	Owner string `help:"Only show objectives of this Discord user id." env:"OBJECTIVES_OWNER"`
}

func (c *TuiCmd) Run(ctx *cli.Context) error {
	if err := ctx.Store.Load(); err != nil {
		return err
	}

	// Perform automatic backup on TUI startup (after successful load)
	ctx.PerformAutomaticBackup(context.Background())

	p := tea.NewProgram(tui.NewModel(ctx.Service, c.Owner), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("tui: %w", err)
	}
	return nil
}
