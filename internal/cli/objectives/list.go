package objectives

import (
	"context"
	"fmt"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/dustin/go-humanize"

	"github.com/julianstephens/objectives/internal/cli"
	"github.com/julianstephens/objectives/internal/constants"
	"github.com/julianstephens/objectives/internal/engine"
)

var (
	headerStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205")).Padding(0, 1)
	cellStyle      = lipgloss.NewStyle().Padding(0, 1)
	availableStyle = cellStyle.Foreground(lipgloss.Color("42"))
	waitingStyle   = cellStyle.Foreground(lipgloss.Color("240"))
)

const statusColumn = 4

type ListCmd struct {
	Owner string `short:"o" help:"Only list objectives of this Discord user id." env:"OBJECTIVES_OWNER"`
}

func (c *ListCmd) Run(ctx *cli.Context) error {
	if err := ctx.Store.Load(); err != nil {
		return err
	}

	var (
		statuses []engine.Status
		err      error
	)
	if c.Owner == "" {
		statuses, err = ctx.Service.ListAll(context.Background())
	} else {
		statuses, err = ctx.Service.ListObjectives(context.Background(), c.Owner)
	}
	if err != nil {
		return err
	}

	if len(statuses) == 0 {
		fmt.Println("No objectives found")
		return nil
	}
	fmt.Println(renderTable(statuses))
	return nil
}

func renderTable(statuses []engine.Status) string {
	rows := make([][]string, 0, len(statuses))
	for _, s := range statuses {
		rows = append(rows, []string{
			s.OwnerID,
			s.Name,
			string(s.Frequency),
			formatStreak(s.Streak),
			formatAvailability(s),
			formatLastSubmitted(s),
		})
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("238"))).
		Headers("OWNER", "NAME", "FREQUENCY", "STREAK", "STATUS", "LAST SUBMITTED").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return headerStyle
			case col == statusColumn && statuses[row].Available:
				return availableStyle
			case col == statusColumn:
				return waitingStyle
			default:
				return cellStyle
			}
		})
	return t.Render()
}

func formatStreak(streak int) string {
	if streak > constants.StreakDisplayThreshold {
		return strconv.Itoa(streak) + " 🔥"
	}
	return strconv.Itoa(streak)
}

func formatAvailability(s engine.Status) string {
	if s.Available {
		return "available"
	}
	return "reopens " + humanize.Time(s.NextAllowed)
}

func formatLastSubmitted(s engine.Status) string {
	if !s.HasSubmitted() {
		return "never"
	}
	return humanize.Time(*s.LastSubmitted)
}
