package tui

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"jsh/session"
	term "jsh/shell"
)

// Run drives t until the user quits: full screen when interactive, one
// command per input line otherwise.
func Run(t *term.Terminal, in io.Reader, out io.Writer) error {
	if !IsInteractive() {
		return RunLines(t, in, out)
	}

	p := tea.NewProgram(NewModel(t), tea.WithInput(in), tea.WithOutput(out), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("terminal: %w", err)
	}
	return nil
}

// RunLines reads commands from in and writes the output lines they produce
// to out, without echoing the commands.
func RunLines(t *term.Terminal, in io.Reader, out io.Writer) error {
	sent := 0
	flush := func(s session.Session) error {
		if len(s.Lines) < sent {
			sent = 0
		}
		for _, l := range s.Lines[sent:] {
			if l.User {
				continue
			}
			if _, err := fmt.Fprintln(out, l.Data); err != nil {
				return err
			}
		}
		sent = len(s.Lines)
		return nil
	}

	if err := flush(t.Session()); err != nil {
		return err
	}

	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		line := scanner.Text()
		if strings.TrimSpace(line) == exitCommand {
			return nil
		}
		if err := flush(t.Submit(line)); err != nil {
			return err
		}
	}
	return scanner.Err()
}
