package shell

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jsh/commands"
	"jsh/session"
)

func newTestTerminal(t *testing.T) *Terminal {
	t.Helper()
	return NewTerminal(NewDispatcher(commands.Default()), newScenarioSession(t))
}

func TestTerminal_Login(t *testing.T) {
	s := newScenarioSession(t)
	s.LastLogin = time.Date(2024, time.March, 5, 9, 7, 3, 0, time.UTC)
	s.Lines = []session.Line{{Data: "stale"}}

	term := NewTerminal(NewDispatcher(commands.Default()), s)
	out := term.Login()

	assert.Equal(t, []string{"Last login: Tue Mar 5 09:07:03", "You have mail."}, lineData(out.Lines))
	assert.False(t, out.Lines[0].User)
	assert.Equal(t, "/Users/jack", out.Lines[0].Directory)
}

func TestTerminal_Submit(t *testing.T) {
	term := newTestTerminal(t)

	out := term.Submit("cat a.txt")
	require.Len(t, out.Lines, 3)
	assert.Equal(t, session.Line{User: true, Directory: "/Users/jack", Data: "cat a.txt"}, out.Lines[0])
	assert.Equal(t, []string{"cat a.txt", "hello", "world"}, lineData(out.Lines))

	out = term.Submit("cd /")
	assert.Equal(t, "/", out.Directory)
	assert.Equal(t, "/", term.Session().Directory)

	out = term.Submit("   ")
	assert.Equal(t, "   ", out.Lines[len(out.Lines)-1].Data, "blank input is echoed only")
}

func TestTerminal_Interrupt(t *testing.T) {
	term := newTestTerminal(t)

	out := term.Interrupt("rm -r ~")
	require.Len(t, out.Lines, 1)
	assert.True(t, out.Lines[0].User)
	assert.Equal(t, "rm -r ~", out.Lines[0].Data)
	assert.Empty(t, out.History())
}

func TestTerminal_History(t *testing.T) {
	term := newTestTerminal(t)

	_, ok := term.HistoryUp()
	assert.False(t, ok, "empty history")

	for _, in := range []string{"ls", "cat a.txt", "pwd"} {
		term.Submit(in)
	}

	steps := []struct {
		up   bool
		want string
	}{
		{up: true, want: "pwd"},
		{up: true, want: "cat a.txt"},
		{up: true, want: "ls"},
		{up: true, want: "ls"},
		{up: false, want: "cat a.txt"},
		{up: false, want: "pwd"},
		{up: false, want: "pwd"},
	}
	for i, step := range steps {
		var got string
		if step.up {
			got, ok = term.HistoryUp()
		} else {
			got, ok = term.HistoryDown()
		}
		require.True(t, ok, "step %d", i)
		assert.Equal(t, step.want, got, "step %d", i)
	}

	t.Run("unknown command keeps cursor", func(t *testing.T) {
		term.HistoryUp()
		term.Submit("nope")
		got, _ := term.HistoryUp()
		assert.Equal(t, "ls", got)
	})

	t.Run("dispatch resets cursor", func(t *testing.T) {
		term.Submit("whoami")
		got, _ := term.HistoryUp()
		assert.Equal(t, "whoami", got)
	})
}

func TestPrompt(t *testing.T) {
	s := newScenarioSession(t)

	tests := []struct {
		dir  string
		want string
	}{
		{dir: "/Users/jack", want: "~"},
		{dir: "/Users/jack/Documents", want: "~/Documents"},
		{dir: "/users/jack/a", want: "~/a"},
		{dir: "/USERS/JACK", want: "~"},
		{dir: "/Users/Jack/Documents", want: "~/Documents"},
		{dir: "/Users", want: "/Users"},
		{dir: "/", want: "/"},
	}

	for _, tt := range tests {
		t.Run(tt.dir, func(t *testing.T) {
			s.Directory = tt.dir
			assert.Equal(t, tt.want, Prompt(s))
		})
	}
}
