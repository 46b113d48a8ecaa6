// Package browser is the interactive tree browser: it renders the session's
// snapshot and translates key presses into rename and move operations.
package browser

import (
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/irisnotes/iris-notes/pkg/models"
	"github.com/irisnotes/iris-notes/pkg/service"
)

type mode int

const (
	modeBrowse mode = iota
	modeRename
	modeMove
)

// row is a single visible line of the flattened tree.
type row struct {
	node  *models.TreeNode
	depth int
}

// Model is the tree browser TUI model.
type Model struct {
	svc  *service.Service
	keys KeyMap
	help help.Model

	rows      []row
	cursor    int
	scroll    int
	collapsed map[string]bool

	mode   mode
	input  textinput.Model
	moveID string // node being moved while in modeMove

	status string
	width  int
	height int
}

// New creates a browser over an already-loaded session.
func New(svc *service.Service) Model {
	input := textinput.New()
	input.CharLimit = 200

	m := Model{
		svc:       svc,
		keys:      keys,
		help:      help.New(),
		input:     input,
		collapsed: make(map[string]bool),
	}
	m.rebuildRows()
	return m
}

func (m Model) Init() tea.Cmd {
	return nil
}

// rebuildRows flattens the current snapshot into visible lines, honoring
// collapsed state.
func (m *Model) rebuildRows() {
	m.rows = m.rows[:0]
	var walk func(nodes []*models.TreeNode, depth int)
	walk = func(nodes []*models.TreeNode, depth int) {
		for _, n := range nodes {
			m.rows = append(m.rows, row{node: n, depth: depth})
			if !n.IsLeaf() && !m.collapsed[n.ID] {
				walk(n.Children, depth+1)
			}
		}
	}
	walk(m.svc.Session.Tree(), 0)

	if m.cursor >= len(m.rows) {
		m.cursor = len(m.rows) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func (m *Model) current() *models.TreeNode {
	if m.cursor < 0 || m.cursor >= len(m.rows) {
		return nil
	}
	return m.rows[m.cursor].node
}
