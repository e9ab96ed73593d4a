package due

import (
	"time"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/julianstephens/objectives/internal/engine"
	"github.com/julianstephens/objectives/internal/models"
)

var emptyStyle = lipgloss.NewStyle().
	Foreground(lipgloss.Color("240")).
	Italic(true)

// Model shows the objectives the next reminder sweep would pick up.
type Model struct {
	table table.Model
	count int
}

func New(width, height int) Model {
	t := table.New(
		table.WithColumns(columns(width)),
		table.WithHeight(height),
		table.WithFocused(true),
	)
	styles := table.DefaultStyles()
	styles.Header = styles.Header.Bold(true).Foreground(lipgloss.Color("205"))
	styles.Selected = styles.Selected.Foreground(lipgloss.Color("252")).Background(lipgloss.Color("236"))
	t.SetStyles(styles)
	return Model{table: t}
}

func columns(width int) []table.Column {
	name := 24
	if extra := width - 70; extra > 0 {
		name += extra
	}
	return []table.Column{
		{Title: "Owner", Width: 20},
		{Title: "Objective", Width: name},
		{Title: "Frequency", Width: 10},
		{Title: "Open since", Width: 16},
	}
}

// SetDue filters objs down to the ones eligible for a reminder at now.
func (m *Model) SetDue(objs []models.Objective, policy engine.Policy, now time.Time) {
	var rows []table.Row
	for _, obj := range objs {
		if !policy.Eligible(obj, now) {
			continue
		}
		windowOpen := policy.NextAllowed(obj.Frequency, obj.LastSubmitted, now)
		rows = append(rows, table.Row{obj.OwnerID, obj.Name, string(obj.Frequency), humanize.RelTime(windowOpen, now, "ago", "from now")})
	}
	m.count = len(rows)
	m.table.SetRows(rows)
}

// Count returns how many objectives are due.
func (m Model) Count() int {
	return m.count
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	if m.count == 0 {
		return emptyStyle.Render("\n  Nothing is due for a reminder.")
	}
	return m.table.View()
}

func (m *Model) SetSize(width, height int) {
	m.table.SetColumns(columns(width))
	m.table.SetWidth(width)
	m.table.SetHeight(height)
}
