// Package tui is the interactive editor started when sqlparam runs without input.
package tui

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/ccollicutt/sqlparam/internal/clip"
	"github.com/ccollicutt/sqlparam/pkg/logparser"
	"github.com/ccollicutt/sqlparam/pkg/sqlparam"
)

// Pane identifies one of the three screen areas.
type Pane int

const (
	PaneSQL Pane = iota
	PaneValues
	PaneResult
	paneCount
)

// Title returns the pane heading.
func (p Pane) Title() string {
	switch p {
	case PaneSQL:
		return "SQL with placeholders"
	case PaneValues:
		return "Values"
	default:
		return "Result"
	}
}

// Clipboard is the clipboard the editor reads on start and writes results to.
type Clipboard interface {
	Read() (string, error)
	Write(text string) error
}

// SystemClipboard uses the OS clipboard.
type SystemClipboard struct{}

// Read returns the clipboard text.
func (SystemClipboard) Read() (string, error) { return clip.Read() }

// Write replaces the clipboard text.
func (SystemClipboard) Write(text string) error { return clip.Write(text) }

// Options configures the editor.
type Options struct {
	Substituter *sqlparam.Substituter
	Extractor   *logparser.Extractor
	Clipboard   Clipboard // nil disables clipboard use

	// Initial input. When both are empty the clipboard is parsed on start.
	SQL    string
	Values string
}

// clipboardMsg carries the clipboard text read on start.
type clipboardMsg struct {
	text string
	err  error
}

// Model is the bubbletea model of the editor.
type Model struct {
	sql      textarea.Model
	values   textarea.Model
	result   viewport.Model
	focus    Pane
	output   string
	status   string
	width    int
	height   int
	layout   layout
	sub      *sqlparam.Substituter
	ext      *logparser.Extractor
	clip     Clipboard
	quitting bool
}

func newInput(placeholder, value string) textarea.Model {
	ta := textarea.New()
	ta.Placeholder = placeholder
	ta.ShowLineNumbers = false
	ta.CharLimit = 0
	ta.MaxHeight = 0
	ta.SetValue(value)
	return ta
}

// New creates the editor model.
func New(opts Options) Model {
	if opts.Substituter == nil {
		opts.Substituter = sqlparam.New()
	}
	if opts.Extractor == nil {
		opts.Extractor = logparser.NewExtractor()
	}

	m := Model{
		sql:    newInput("SELECT * FROM t WHERE id = ?", opts.SQL),
		values: newInput("1(Integer), bob(String)", opts.Values),
		result: viewport.New(0, 0),
		sub:    opts.Substituter,
		ext:    opts.Extractor,
		clip:   opts.Clipboard,
	}
	m.sql.Focus()
	return m
}

// Init reads the clipboard when both inputs start empty.
func (m Model) Init() tea.Cmd {
	if m.clip == nil || m.sql.Value() != "" || m.values.Value() != "" {
		return textarea.Blink
	}
	cb := m.clip
	return tea.Batch(textarea.Blink, func() tea.Msg {
		text, err := cb.Read()
		return clipboardMsg{text: text, err: err}
	})
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		return m, nil

	case clipboardMsg:
		m.loadClipboard(msg)
		return m, nil

	case tea.MouseMsg:
		if msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft {
			if p, ok := m.layout.paneAt(msg.X, msg.Y); ok {
				return m, m.setFocus(p)
			}
		}
		if m.focus == PaneResult {
			var cmd tea.Cmd
			m.result, cmd = m.result.Update(msg)
			return m, cmd
		}
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			m.quitting = true
			return m, tea.Quit
		case "tab":
			return m, m.setFocus((m.focus + 1) % paneCount)
		case "shift+tab":
			return m, m.setFocus((m.focus + paneCount - 1) % paneCount)
		case "ctrl+l":
			m.clearFocused()
			return m, nil
		case "q":
			if m.focus == PaneResult {
				m.quitting = true
				return m, tea.Quit
			}
		}
	}

	var cmd tea.Cmd
	switch m.focus {
	case PaneSQL:
		m.sql, cmd = m.sql.Update(msg)
	case PaneValues:
		m.values, cmd = m.values.Update(msg)
	case PaneResult:
		m.result, cmd = m.result.Update(msg)
	}
	return m, cmd
}

func (m *Model) loadClipboard(msg clipboardMsg) {
	if msg.err != nil {
		m.status = msg.err.Error()
		return
	}
	if m.sql.Value() != "" || m.values.Value() != "" {
		return
	}

	batch, ok := m.ext.ExtractText(msg.text)
	if !ok {
		return
	}
	sql, values := batch.Joined()
	m.sql.SetValue(sql)
	m.values.SetValue(values)
	m.setFocus(PaneResult)
}

func (m *Model) setFocus(p Pane) tea.Cmd {
	m.focus = p
	m.sql.Blur()
	m.values.Blur()

	var cmd tea.Cmd
	switch p {
	case PaneSQL:
		cmd = m.sql.Focus()
	case PaneValues:
		cmd = m.values.Focus()
	}

	m.compute()
	return cmd
}

func (m *Model) clearFocused() {
	switch m.focus {
	case PaneSQL:
		m.sql.Reset()
	case PaneValues:
		m.values.Reset()
	}
}

// compute renders the inputs and copies a non-empty result to the clipboard.
func (m *Model) compute() {
	m.output = m.sub.Substitute(m.sql.Value(), m.values.Value())
	m.result.SetContent(m.output)

	if m.output == "" || m.clip == nil {
		return
	}
	if err := m.clip.Write(m.output); err != nil {
		m.status = err.Error()
		return
	}
	m.status = "copied to clipboard"
}

// Result returns the last rendered statement.
func (m Model) Result() string {
	return m.output
}

// Focus returns the focused pane.
func (m Model) Focus() Pane {
	return m.focus
}

// Inputs returns the SQL and value text.
func (m Model) Inputs() (sql, values string) {
	return m.sql.Value(), m.values.Value()
}

// Status returns the footer status message.
func (m Model) Status() string {
	return m.status
}

// Run starts the editor and blocks until it exits. It returns the last result.
func Run(ctx context.Context, opts Options) (string, error) {
	p := tea.NewProgram(
		New(opts),
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
		tea.WithContext(ctx),
	)

	final, err := p.Run()
	if err != nil {
		return "", err
	}
	if m, ok := final.(Model); ok {
		return strings.TrimSpace(m.Result()), nil
	}
	return "", nil
}
