package browser

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/irisnotes/iris-notes/pkg/models"
)

// mutationDoneMsg reports the outcome of a rename or move.
type mutationDoneMsg struct {
	err error
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case mutationDoneMsg:
		if msg.err != nil {
			m.status = msg.err.Error()
		} else {
			m.status = ""
		}
		m.rebuildRows()
		return m, nil

	case tea.KeyMsg:
		switch m.mode {
		case modeRename:
			return m.updateRename(msg)
		case modeMove:
			return m.updateMove(msg)
		default:
			return m.updateBrowse(msg)
		}
	}
	return m, nil
}

func (m Model) updateBrowse(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil

	case key.Matches(msg, m.keys.Up):
		m.moveCursor(-1)
		return m, nil

	case key.Matches(msg, m.keys.Down):
		m.moveCursor(1)
		return m, nil

	case key.Matches(msg, m.keys.GoToTop):
		m.cursor = 0
		m.scroll = 0
		return m, nil

	case key.Matches(msg, m.keys.GoToEnd):
		m.cursor = len(m.rows) - 1
		m.clampScroll()
		return m, nil

	case key.Matches(msg, m.keys.Toggle):
		if n := m.current(); n != nil && !n.IsLeaf() {
			m.collapsed[n.ID] = !m.collapsed[n.ID]
			m.rebuildRows()
		}
		return m, nil

	case key.Matches(msg, m.keys.Refresh):
		return m, m.reloadCmd()

	case key.Matches(msg, m.keys.Rename):
		if n := m.current(); n != nil {
			m.mode = modeRename
			m.input.SetValue(n.Name)
			m.input.CursorEnd()
			m.input.Focus()
			m.status = fmt.Sprintf("Renaming %q", n.Name)
		}
		return m, nil

	case key.Matches(msg, m.keys.Move):
		if n := m.current(); n != nil {
			m.mode = modeMove
			m.moveID = n.ID
			m.status = fmt.Sprintf("Moving %q: pick a category and press enter, 0 for root, esc to cancel", n.Name)
		}
		return m, nil
	}
	return m, nil
}

func (m Model) updateRename(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Cancel):
		m.mode = modeBrowse
		m.input.Blur()
		m.status = ""
		return m, nil

	case key.Matches(msg, m.keys.Confirm):
		n := m.current()
		m.mode = modeBrowse
		m.input.Blur()
		if n == nil {
			return m, nil
		}
		newName := m.input.Value()
		return m, m.renameCmd(n.ID, newName)
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) updateMove(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Cancel):
		m.mode = modeBrowse
		m.moveID = ""
		m.status = ""
		return m, nil

	case key.Matches(msg, m.keys.Up):
		m.moveCursor(-1)
		return m, nil

	case key.Matches(msg, m.keys.Down):
		m.moveCursor(1)
		return m, nil

	case key.Matches(msg, m.keys.MoveRoot):
		id := m.moveID
		m.mode = modeBrowse
		m.moveID = ""
		return m, m.moveCmd(id, nil)

	case key.Matches(msg, m.keys.Confirm):
		target := m.current()
		id := m.moveID
		m.mode = modeBrowse
		m.moveID = ""
		if target == nil {
			return m, nil
		}
		if target.Kind != models.KindCategory {
			m.status = "Notes cannot contain children; pick a category or press 0 for root"
			return m, nil
		}
		targetID := target.ID
		return m, m.moveCmd(id, &targetID)
	}
	return m, nil
}

func (m *Model) moveCursor(delta int) {
	m.cursor += delta
	if m.cursor < 0 {
		m.cursor = 0
	}
	if m.cursor >= len(m.rows) {
		m.cursor = len(m.rows) - 1
	}
	m.clampScroll()
}

func (m *Model) clampScroll() {
	visible := m.viewportHeight()
	if m.cursor < m.scroll {
		m.scroll = m.cursor
	}
	if m.cursor >= m.scroll+visible {
		m.scroll = m.cursor - visible + 1
	}
	if m.scroll < 0 {
		m.scroll = 0
	}
}

func (m Model) renameCmd(id, newName string) tea.Cmd {
	return func() tea.Msg {
		return mutationDoneMsg{err: m.svc.Session.Rename(context.Background(), id, newName)}
	}
}

func (m Model) moveCmd(id string, newParentID *string) tea.Cmd {
	return func() tea.Msg {
		return mutationDoneMsg{err: m.svc.Session.Move(context.Background(), id, newParentID, nil)}
	}
}

func (m Model) reloadCmd() tea.Cmd {
	return func() tea.Msg {
		return mutationDoneMsg{err: m.svc.Session.Load(context.Background())}
	}
}
