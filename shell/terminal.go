package shell

import (
	"strings"

	"jsh/session"
)

// LoginTimeLayout matches the "Last login:" banner of a macOS terminal.
const LoginTimeLayout = "Mon Jan 2 15:04:05"

// Terminal is the thin adapter a front end drives. It owns only the current
// session and the history cursor; every command goes through the dispatcher.
type Terminal struct {
	dispatcher *Dispatcher
	session    session.Session
	cursor     *int
}

func NewTerminal(d *Dispatcher, s session.Session) *Terminal {
	return &Terminal{dispatcher: d, session: s}
}

func (t *Terminal) Session() session.Session { return t.session }

// Login replaces the output with the login banner.
func (t *Terminal) Login() session.Session {
	s := t.session
	s.Lines = []session.Line{
		s.Line("Last login: " + s.LastLogin.Format(LoginTimeLayout)),
		s.Line("You have mail."),
	}
	t.session = s
	return s
}

// Submit echoes input as a user line and runs it.
func (t *Terminal) Submit(input string) session.Session {
	t.session = t.echo(input)

	next, dispatched := t.dispatcher.Dispatch(t.session, input)
	if dispatched {
		t.cursor = nil
	}
	t.session = next
	return next
}

// Interrupt echoes the abandoned input without running it.
func (t *Terminal) Interrupt(input string) session.Session {
	t.session = t.echo(input)
	return t.session
}

func (t *Terminal) echo(input string) session.Session {
	return t.session.WithLines(session.Line{
		User:      true,
		Directory: t.session.Directory,
		Data:      input,
	})
}

// HistoryUp moves the cursor one entry back in time and returns that entry.
func (t *Terminal) HistoryUp() (string, bool) {
	return t.moveCursor(1)
}

// HistoryDown moves the cursor one entry forward in time.
func (t *Terminal) HistoryDown() (string, bool) {
	return t.moveCursor(-1)
}

// moveCursor starts at the newest entry and clamps to the oldest one.
func (t *Terminal) moveCursor(delta int) (string, bool) {
	history := t.session.History()

	idx := 0
	if t.cursor != nil {
		idx = min(max(*t.cursor+delta, 0), max(len(history)-1, 0))
	}
	t.cursor = &idx

	pos := len(history) - 1 - idx
	if pos < 0 || pos >= len(history) {
		return "", false
	}
	return history[pos], true
}

// Prompt is the current directory with the home prefix shown as "~".
func (t *Terminal) Prompt() string {
	return Prompt(t.session)
}

// The home prefix matches in any casing, the way paths resolve.
func Prompt(s session.Session) string {
	home := s.Home()
	if len(s.Directory) >= len(home) && strings.EqualFold(s.Directory[:len(home)], home) {
		return "~" + s.Directory[len(home):]
	}
	return s.Directory
}
