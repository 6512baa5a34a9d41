package tui

import (
	"github.com/charmbracelet/lipgloss"
)

const (
	footerHeight = 3
	helpText     = "Tab/Shift+Tab/Mouse: switch | Ctrl+L: clear | Esc: exit"
)

var (
	focusedColor = lipgloss.Color("10")
	normalColor  = lipgloss.Color("240")

	titleStyle        = lipgloss.NewStyle()
	focusedTitleStyle = lipgloss.NewStyle().Foreground(focusedColor).Bold(true)
	statusStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("244")).Italic(true)
)

// rect is a screen area in cells.
type rect struct {
	x, y, w, h int
}

func (r rect) contains(x, y int) bool {
	return x >= r.x && x < r.x+r.w && y >= r.y && y < r.y+r.h
}

// layout places the SQL and value panes side by side on the top half and
// the result below them.
type layout struct {
	panes  [paneCount]rect
	footer rect
}

func newLayout(width, height int) layout {
	body := max(height-footerHeight, 0)
	top := body / 2
	left := width / 2

	var l layout
	l.panes[PaneSQL] = rect{0, 0, left, top}
	l.panes[PaneValues] = rect{left, 0, width - left, top}
	l.panes[PaneResult] = rect{0, top, width, body - top}
	l.footer = rect{0, body, width, min(footerHeight, height)}
	return l
}

func (l layout) paneAt(x, y int) (Pane, bool) {
	for p := Pane(0); p < paneCount; p++ {
		if l.panes[p].contains(x, y) {
			return p, true
		}
	}
	return 0, false
}

// inner returns the content size of a bordered box with a title line.
func inner(r rect) (w, h int) {
	return max(r.w-2, 1), max(r.h-3, 1)
}

func (m *Model) resize(width, height int) {
	m.width, m.height = width, height
	m.layout = newLayout(width, height)

	w, h := inner(m.layout.panes[PaneSQL])
	m.sql.SetWidth(w)
	m.sql.SetHeight(h)

	w, h = inner(m.layout.panes[PaneValues])
	m.values.SetWidth(w)
	m.values.SetHeight(h)

	w, h = inner(m.layout.panes[PaneResult])
	m.result.Width = w
	m.result.Height = h
}

func (m Model) box(p Pane, content string) string {
	r := m.layout.panes[p]
	w, _ := inner(r)

	border := normalColor
	title := titleStyle
	if m.focus == p {
		border = focusedColor
		title = focusedTitleStyle
	}

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(border).
		Width(w).
		Height(max(r.h-2, 1)).
		MaxHeight(max(r.h, 1)).
		Render(lipgloss.JoinVertical(lipgloss.Left, title.Render(p.Title()), content))
}

// View renders the editor.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if m.width == 0 {
		return "loading..."
	}

	top := lipgloss.JoinHorizontal(lipgloss.Top,
		m.box(PaneSQL, m.sql.View()),
		m.box(PaneValues, m.values.View()),
	)
	result := m.box(PaneResult, m.result.View())

	footer := helpText
	if m.status != "" {
		footer += "  " + statusStyle.Render(m.status)
	}
	footerBox := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(normalColor).
		Width(max(m.width-2, 1)).
		MaxHeight(footerHeight).
		Render(footer)

	return lipgloss.JoinVertical(lipgloss.Left, top, result, footerBox)
}
