// Package tui is the terminal dashboard: every objective with its window
// state, and the objectives the next reminder sweep would pick up.
package tui

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/dustin/go-humanize"

	"github.com/julianstephens/objectives/internal/engine"
	"github.com/julianstephens/objectives/internal/models"
	"github.com/julianstephens/objectives/internal/tui/components/due"
	"github.com/julianstephens/objectives/internal/tui/components/objectivelist"
	"github.com/julianstephens/objectives/internal/validation"
)

type SessionState int

const (
	StateObjectives SessionState = iota
	StateDue
	StateAdd
	StateConfirmDelete
)

// tabCount is the number of states reachable with tab.
const tabCount = 2

type AddFormModel struct {
	Owner     string
	Name      string
	Frequency string
}

type Model struct {
	svc                 *engine.Service
	owner               string
	state               SessionState
	keys                KeyMap
	help                help.Model
	objectiveList       objectivelist.Model
	dueModel            due.Model
	form                *huh.Form
	addForm             *AddFormModel
	pendingDelete       *engine.Status
	status              string
	statusErr           error
	validationWarning   string
	validationConflicts []validation.Conflict
	quitting            bool
	width               int
	height              int
	now                 func() time.Time
}

// loadedMsg carries a fresh snapshot of the owner's objectives.
type loadedMsg struct {
	statuses []engine.Status
	err      error
}

// actionMsg reports the result of a submit, add or delete.
type actionMsg struct {
	text string
	err  error
}

// NewModel builds the dashboard. An empty owner shows every owner.
func NewModel(svc *engine.Service, owner string) Model {
	return Model{
		svc:           svc,
		owner:         owner,
		state:         StateObjectives,
		keys:          DefaultKeyMap(),
		help:          help.New(),
		objectiveList: objectivelist.New(nil, owner == "", 0, 0),
		dueModel:      due.New(0, 0),
		now:           time.Now,
	}
}

func (m Model) ShortHelp() []key.Binding {
	keys := []key.Binding{m.keys.Tab, m.keys.Quit, m.keys.Help}
	if m.state == StateObjectives {
		keys = append(keys, m.keys.Add, m.keys.Submit, m.keys.Delete)
	}
	return keys
}

func (m Model) FullHelp() [][]key.Binding {
	global := []key.Binding{m.keys.Tab, m.keys.ShiftTab, m.keys.Quit, m.keys.Help, m.keys.Refresh}
	navigation := []key.Binding{m.keys.Up, m.keys.Down}

	var actions []key.Binding
	if m.state == StateObjectives {
		actions = []key.Binding{m.keys.Add, m.keys.Submit, m.keys.Delete}
	}
	return [][]key.Binding{global, navigation, actions}
}

func (m Model) Init() tea.Cmd {
	return m.load()
}

func (m Model) load() tea.Cmd {
	svc, owner := m.svc, m.owner
	return func() tea.Msg {
		ctx := context.Background()
		var (
			statuses []engine.Status
			err      error
		)
		if owner == "" {
			statuses, err = svc.ListAll(ctx)
		} else {
			statuses, err = svc.ListObjectives(ctx, owner)
		}
		return loadedMsg{statuses: statuses, err: err}
	}
}

func (m Model) submit(s engine.Status) tea.Cmd {
	svc := m.svc
	return func() tea.Msg {
		result, err := svc.TrySubmit(context.Background(), s.OwnerID, s.Name)
		if err != nil {
			return actionMsg{err: err}
		}
		if !result.Accepted {
			return actionMsg{text: fmt.Sprintf("⏳ %q reopens %s", s.Name, humanize.Time(result.RetryAt))}
		}
		return actionMsg{text: fmt.Sprintf("✓ Submitted %q, streak %d", s.Name, result.Streak)}
	}
}

func (m Model) create(f AddFormModel) tea.Cmd {
	svc := m.svc
	return func() tea.Msg {
		obj, err := svc.CreateObjective(context.Background(), f.Owner, f.Name, f.Frequency)
		if err != nil {
			return actionMsg{err: err}
		}
		return actionMsg{text: fmt.Sprintf("✓ Created %s objective %q", obj.Frequency, obj.Name)}
	}
}

func (m Model) delete(s engine.Status) tea.Cmd {
	svc := m.svc
	return func() tea.Msg {
		if err := svc.DeleteObjective(context.Background(), s.OwnerID, s.Name); err != nil {
			return actionMsg{err: err}
		}
		return actionMsg{text: fmt.Sprintf("✓ Deleted %q", s.Name)}
	}
}

func (m *Model) newAddForm() *huh.Form {
	m.addForm = &AddFormModel{Owner: m.owner, Frequency: string(models.FrequencyDaily)}
	fields := []huh.Field{
		huh.NewInput().
			Title("Name").
			Value(&m.addForm.Name).
			Validate(func(s string) error {
				_, err := validation.ObjectiveName(s)
				return err
			}),
		huh.NewSelect[string]().
			Title("Frequency").
			Options(huh.NewOptions(models.FrequencyNames()...)...).
			Value(&m.addForm.Frequency),
	}
	if m.owner == "" {
		fields = append([]huh.Field{
			huh.NewInput().
				Title("Owner").
				Description("Discord user id").
				Value(&m.addForm.Owner).
				Validate(func(s string) error {
					if s == "" {
						return fmt.Errorf("owner is required")
					}
					return nil
				}),
		}, fields...)
	}
	return huh.NewForm(huh.NewGroup(fields...))
}

// updateValidationStatus checks the loaded objectives and updates the
// warning line.
func (m *Model) updateValidationStatus(statuses []engine.Status) {
	objs := make([]models.Objective, len(statuses))
	for i, s := range statuses {
		objs[i] = s.Objective
	}
	result := validation.New().ValidateObjectives(objs)
	m.validationConflicts = result.Conflicts
	if len(result.Conflicts) > 0 {
		m.validationWarning = fmt.Sprintf("⚠ %d validation warning(s), run 'objectives doctor'", len(result.Conflicts))
	} else {
		m.validationWarning = ""
	}
}
