package objectivelist

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/dustin/go-humanize"

	"github.com/julianstephens/objectives/internal/constants"
	"github.com/julianstephens/objectives/internal/engine"
)

type AddMsg struct{}

type RefreshMsg struct{}

type SubmitMsg struct {
	Status engine.Status
}

type DeleteMsg struct {
	Status engine.Status
}

type Item struct {
	Status    engine.Status
	ShowOwner bool
}

func (i Item) Title() string {
	if i.Status.Streak > constants.StreakDisplayThreshold {
		return fmt.Sprintf("%s 🔥%d", i.Status.Name, i.Status.Streak)
	}
	return i.Status.Name
}

func (i Item) Description() string {
	parts := []string{string(i.Status.Frequency), fmt.Sprintf("streak %d", i.Status.Streak)}
	if i.Status.Available {
		parts = append(parts, "available")
	} else {
		parts = append(parts, "reopens "+humanize.Time(i.Status.NextAllowed))
	}
	if i.ShowOwner {
		parts = append([]string{i.Status.OwnerID}, parts...)
	}
	return strings.Join(parts, " | ")
}

func (i Item) FilterValue() string { return i.Status.Name }

type KeyMap struct {
	Add     key.Binding
	Submit  key.Binding
	Delete  key.Binding
	Refresh key.Binding
}

func DefaultKeyMap() KeyMap {
	return KeyMap{
		Add: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "add"),
		),
		Submit: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "submit"),
		),
		Delete: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "delete"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "refresh"),
		),
	}
}

type Model struct {
	list      list.Model
	keys      KeyMap
	showOwner bool
}

// New builds the list. showOwner prefixes every row with its owner id,
// for the dashboard of all owners.
func New(statuses []engine.Status, showOwner bool, width, height int) Model {
	l := list.New(toItems(statuses, showOwner), list.NewDefaultDelegate(), width, height)
	l.Title = "Objectives"
	l.SetShowTitle(false)
	l.SetShowHelp(false) // We handle help globally in the main model

	keys := DefaultKeyMap()
	l.AdditionalShortHelpKeys = func() []key.Binding {
		return []key.Binding{keys.Add, keys.Submit, keys.Delete, keys.Refresh}
	}
	l.AdditionalFullHelpKeys = func() []key.Binding {
		return []key.Binding{keys.Add, keys.Submit, keys.Delete, keys.Refresh}
	}

	return Model{list: l, keys: keys, showOwner: showOwner}
}

func toItems(statuses []engine.Status, showOwner bool) []list.Item {
	items := make([]list.Item, len(statuses))
	for i, s := range statuses {
		items[i] = Item{Status: s, ShowOwner: showOwner}
	}
	return items
}

func (m *Model) SetStatuses(statuses []engine.Status) {
	m.list.SetItems(toItems(statuses, m.showOwner))
}

// Selected returns the highlighted objective.
func (m Model) Selected() (engine.Status, bool) {
	i, ok := m.list.SelectedItem().(Item)
	return i.Status, ok
}

// Filtering reports whether the user is typing a filter.
func (m Model) Filtering() bool {
	return m.list.FilterState() == list.Filtering
}

func (m Model) Len() int {
	return len(m.list.Items())
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.list.FilterState() == list.Filtering {
			break
		}
		switch {
		case key.Matches(msg, m.keys.Add):
			return m, func() tea.Msg { return AddMsg{} }
		case key.Matches(msg, m.keys.Refresh):
			return m, func() tea.Msg { return RefreshMsg{} }
		case key.Matches(msg, m.keys.Submit):
			if s, ok := m.Selected(); ok {
				return m, func() tea.Msg { return SubmitMsg{Status: s} }
			}
		case key.Matches(msg, m.keys.Delete):
			if s, ok := m.Selected(); ok {
				return m, func() tea.Msg { return DeleteMsg{Status: s} }
			}
		}
	}

	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	if len(m.list.Items()) == 0 && m.list.FilterState() != list.Filtering {
		return "\n  No objectives yet.\n  Press 'a' to add one."
	}
	return m.list.View()
}

func (m *Model) SetSize(width, height int) {
	m.list.SetSize(width, height)
}
