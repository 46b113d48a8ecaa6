package browser

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/irisnotes/iris-notes/pkg/models"
)

var (
	headerStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	categoryStyle = lipgloss.NewStyle().Bold(true)
	cursorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))
	statusStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	movingStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("8")).Strikethrough(true)
)

func (m Model) View() string {
	if m.help.ShowAll {
		return "\n" + m.help.View(m.keys)
	}

	var b strings.Builder

	header := headerStyle.Render("Iris Notes")
	if m.mode == modeMove {
		header = headerStyle.Render("Iris Notes") + "  " + statusStyle.Render("[move]")
	}
	b.WriteString(header + "\n\n")

	if len(m.rows) == 0 {
		b.WriteString("  No notes yet.\n")
	}

	visible := m.viewportHeight()
	end := m.scroll + visible
	if end > len(m.rows) {
		end = len(m.rows)
	}
	for i := m.scroll; i < end; i++ {
		r := m.rows[i]
		cursor := "  "
		if i == m.cursor {
			cursor = cursorStyle.Render("▶ ")
		}

		label := r.node.Name
		switch {
		case r.node.ID == m.moveID:
			label = movingStyle.Render(label)
		case r.node.Kind == models.KindCategory:
			fold := "▾ "
			if m.collapsed[r.node.ID] {
				fold = "▸ "
			}
			if r.node.IsLeaf() {
				fold = "  "
			}
			label = fold + categoryStyle.Render(label)
		}

		b.WriteString(cursor + strings.Repeat("  ", r.depth) + label + "\n")
	}

	b.WriteString("\n")
	if m.mode == modeRename {
		b.WriteString(m.input.View() + "\n")
	}
	if m.status != "" {
		b.WriteString(statusStyle.Render(m.status) + "\n")
	}
	b.WriteString(m.help.View(m.keys))

	return "\n" + b.String()
}

// viewportHeight is the number of tree rows that fit on screen after the
// header, status, and help chrome.
func (m Model) viewportHeight() int {
	h := m.height - 7
	if h < 3 {
		h = 3
	}
	return h
}
