package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/julianstephens/objectives/internal/models"
	"github.com/julianstephens/objectives/internal/tui/components/objectivelist"
)

// chromeHeight is the space taken by tabs, the status lines and help.
const chromeHeight = 5

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		h, v := docStyle.GetFrameSize()
		m.objectiveList.SetSize(msg.Width-h, msg.Height-v-chromeHeight)
		m.dueModel.SetSize(msg.Width-h, msg.Height-v-chromeHeight)
		return m, nil

	case loadedMsg:
		if msg.err != nil {
			m.statusErr = msg.err
			return m, nil
		}
		m.objectiveList.SetStatuses(msg.statuses)
		objs := make([]models.Objective, len(msg.statuses))
		for i, s := range msg.statuses {
			objs[i] = s.Objective
		}
		m.dueModel.SetDue(objs, m.svc.Policy(), m.now())
		m.updateValidationStatus(msg.statuses)
		return m, nil

	case actionMsg:
		m.status, m.statusErr = msg.text, msg.err
		return m, m.load()

	case objectivelist.AddMsg:
		m.form = m.newAddForm()
		m.state = StateAdd
		return m, m.form.Init()

	case objectivelist.RefreshMsg:
		return m, m.load()

	case objectivelist.SubmitMsg:
		return m, m.submit(msg.Status)

	case objectivelist.DeleteMsg:
		s := msg.Status
		m.pendingDelete = &s
		m.state = StateConfirmDelete
		return m, nil
	}

	switch m.state {
	case StateAdd:
		return m.updateForm(msg)
	case StateConfirmDelete:
		return m.updateConfirmDelete(msg)
	}

	if keyMsg, ok := msg.(tea.KeyMsg); ok && !(m.state == StateObjectives && m.objectiveList.Filtering()) {
		switch {
		case key.Matches(keyMsg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit
		case key.Matches(keyMsg, m.keys.Tab):
			m.state = (m.state + 1) % tabCount
			return m, nil
		case key.Matches(keyMsg, m.keys.ShiftTab):
			m.state = (m.state - 1 + tabCount) % tabCount
			return m, nil
		case key.Matches(keyMsg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
			return m, nil
		case m.state == StateDue && key.Matches(keyMsg, m.keys.Refresh):
			return m, m.load()
		}
	}

	var cmd tea.Cmd
	switch m.state {
	case StateObjectives:
		m.objectiveList, cmd = m.objectiveList.Update(msg)
	case StateDue:
		m.dueModel, cmd = m.dueModel.Update(msg)
	}
	return m, cmd
}

func (m Model) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
		m.state = StateObjectives
		m.form = nil
		m.status, m.statusErr = "Add cancelled", nil
		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	switch m.form.State {
	case huh.StateCompleted:
		m.state = StateObjectives
		m.form = nil
		return m, m.create(*m.addForm)
	case huh.StateAborted:
		m.state = StateObjectives
		m.form = nil
		m.status, m.statusErr = "Add cancelled", nil
		return m, nil
	}
	return m, cmd
}

func (m Model) updateConfirmDelete(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch {
	case key.Matches(keyMsg, m.keys.Confirm):
		target := *m.pendingDelete
		m.pendingDelete = nil
		m.state = StateObjectives
		return m, m.delete(target)
	case key.Matches(keyMsg, m.keys.Cancel):
		m.pendingDelete = nil
		m.state = StateObjectives
	}
	return m, nil
}
