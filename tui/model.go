package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"jsh/session"
	term "jsh/shell"
)

// exitCommand ends the REPL instead of being dispatched.
const exitCommand = "exit"

// Model is the bubbletea adapter around a Terminal. It holds nothing but the
// terminal and the line being edited.
type Model struct {
	terminal *term.Terminal
	input    textinput.Model
	keys     KeyMap

	height   int
	quitting bool
}

func NewModel(t *term.Terminal) Model {
	ti := textinput.New()
	ti.Prompt = ""
	ti.CharLimit = 1024
	ti.Focus()

	return Model{
		terminal: t,
		input:    ti,
		keys:     DefaultKeyMap(),
	}
}

// Session is the terminal's current state.
func (m Model) Session() session.Session {
	return m.terminal.Session()
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.height = msg.Height
		m.input.Width = msg.Width - len(m.promptText()) - 3
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit

		case key.Matches(msg, m.keys.Submit):
			value := m.input.Value()
			m.input.Reset()
			if strings.TrimSpace(value) == exitCommand {
				m.quitting = true
				return m, tea.Quit
			}
			m.terminal.Submit(value)
			return m, nil

		case key.Matches(msg, m.keys.Interrupt):
			m.terminal.Interrupt(m.input.Value())
			m.input.Reset()
			return m, nil

		case key.Matches(msg, m.keys.HistoryUp):
			if entry, ok := m.terminal.HistoryUp(); ok {
				m.input.SetValue(entry)
				m.input.CursorEnd()
			}
			return m, nil

		case key.Matches(msg, m.keys.HistoryDown):
			if entry, ok := m.terminal.HistoryDown(); ok {
				m.input.SetValue(entry)
				m.input.CursorEnd()
			}
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// View implements tea.Model.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	s := m.terminal.Session()
	lines := make([]string, 0, len(s.Lines)+2)
	for _, l := range s.Lines {
		lines = append(lines, m.renderLine(s, l))
	}
	// keep the newest output on screen above the prompt and help line
	if m.height > 2 && len(lines) > m.height-2 {
		lines = lines[len(lines)-(m.height-2):]
	}

	lines = append(lines, m.promptText()+m.input.View())
	lines = append(lines, HelpStyle.Render(m.keys.HelpText()))
	return strings.Join(lines, "\n")
}

func (m Model) promptText() string {
	return PromptStyle.Render(m.terminal.Prompt()+" $") + " "
}

func (m Model) renderLine(s session.Session, l session.Line) string {
	if !l.User {
		return colorize(l.Color, l.Data)
	}
	s.Directory = l.Directory
	return PromptStyle.Render(term.Prompt(s)+" $") + " " + l.Data
}
