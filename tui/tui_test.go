package tui

import (
	"bytes"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jsh/commands"
	"jsh/session"
	term "jsh/shell"
	"jsh/vfs"
)

func newTerminal(t *testing.T) *term.Terminal {
	t.Helper()
	tree, err := vfs.LoadSnapshot(strings.NewReader(`
Users:
  jack:
    a.txt: "hello\nworld"
    .hidden: ""
    Documents: {}
`))
	require.NoError(t, err)

	s := session.New(tree, "jack", time.Date(2024, time.March, 5, 9, 7, 3, 0, time.UTC))
	terminal := term.NewTerminal(term.NewDispatcher(commands.Default()), s)
	terminal.Login()
	return terminal
}

func typeText(m tea.Model, text string) tea.Model {
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(text)})
	return m
}

func press(m tea.Model, k tea.KeyType) (tea.Model, tea.Cmd) {
	return m.Update(tea.KeyMsg{Type: k})
}

func lineData(s session.Session) []string {
	out := make([]string, 0, len(s.Lines))
	for _, l := range s.Lines {
		out = append(out, l.Data)
	}
	return out
}

func TestModel_Submit(t *testing.T) {
	var m tea.Model = NewModel(newTerminal(t))

	m = typeText(m, "cat a.txt")
	m, _ = press(m, tea.KeyEnter)

	model := m.(Model)
	assert.Equal(t, "", model.input.Value())
	assert.Equal(t, []string{
		"Last login: Tue Mar 5 09:07:03",
		"You have mail.",
		"cat a.txt",
		"hello",
		"world",
	}, lineData(model.Session()))

	view := model.View()
	assert.Contains(t, view, "hello")
	assert.Contains(t, view, "cat a.txt")
}

func TestModel_Interrupt(t *testing.T) {
	var m tea.Model = NewModel(newTerminal(t))

	m = typeText(m, "rm -r ~")
	m, cmd := press(m, tea.KeyCtrlC)
	assert.Nil(t, cmd)

	model := m.(Model)
	assert.Equal(t, "", model.input.Value())
	assert.Equal(t, "rm -r ~", lineData(model.Session())[2])
	assert.Empty(t, model.Session().History())
}

func TestModel_History(t *testing.T) {
	var m tea.Model = NewModel(newTerminal(t))
	for _, cmd := range []string{"pwd", "ls"} {
		m = typeText(m, cmd)
		m, _ = press(m, tea.KeyEnter)
	}

	m, _ = press(m, tea.KeyUp)
	assert.Equal(t, "ls", m.(Model).input.Value())
	m, _ = press(m, tea.KeyUp)
	assert.Equal(t, "pwd", m.(Model).input.Value())
	m, _ = press(m, tea.KeyDown)
	assert.Equal(t, "ls", m.(Model).input.Value())
}

func TestModel_Quit(t *testing.T) {
	tests := []struct {
		name string
		keys func(tea.Model) (tea.Model, tea.Cmd)
	}{
		{name: "ctrl+d", keys: func(m tea.Model) (tea.Model, tea.Cmd) { return press(m, tea.KeyCtrlD) }},
		{name: "exit", keys: func(m tea.Model) (tea.Model, tea.Cmd) { return press(typeText(m, "exit"), tea.KeyEnter) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, cmd := tt.keys(NewModel(newTerminal(t)))
			require.NotNil(t, cmd)
			assert.IsType(t, tea.QuitMsg{}, cmd())
			assert.Equal(t, "", m.View())
			assert.Len(t, m.(Model).Session().Lines, 2)
		})
	}
}

func TestModel_ViewKeepsNewestLines(t *testing.T) {
	var m tea.Model = NewModel(newTerminal(t))
	m, _ = m.Update(tea.WindowSizeMsg{Width: 80, Height: 4})
	m = typeText(m, "cat a.txt")
	m, _ = press(m, tea.KeyEnter)

	view := m.View()
	assert.NotContains(t, view, "Last login")
	assert.Contains(t, view, "world")
	assert.Len(t, strings.Split(view, "\n"), 4)
}

func TestColorize(t *testing.T) {
	assert.Equal(t, "plain", colorize("", "plain"))
	assert.Equal(t, "plain", colorize("teal-900", "plain"))
	assert.Contains(t, colorize("purple-500", "a.txt"), "a.txt")
}

func TestRunLines(t *testing.T) {
	in := strings.NewReader("cat a.txt\nbogus\ncd documents\npwd\nclear\nls -a ~\nexit\nls\n")
	var out bytes.Buffer

	require.NoError(t, RunLines(newTerminal(t), in, &out))
	assert.Equal(t, strings.Join([]string{
		"Last login: Tue Mar 5 09:07:03",
		"You have mail.",
		"hello",
		"world",
		"jsh: command not found: bogus",
		"/Users/jack/documents",
		"-rw------- .hidden",
		"-rw------- .jsh_history",
		"drwx------ Documents",
		"-rw------- a.txt",
	}, "\n")+"\n", out.String())
}
