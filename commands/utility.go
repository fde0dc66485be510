package commands

import (
	"fmt"
	"strings"

	"jsh/session"
)

func Pwd(h *session.Helpers, args ...string) (*session.Session, error) {
	return h.AddLines(h.Context.Directory), nil
}

func Echo(h *session.Helpers, args ...string) (*session.Session, error) {
	return h.AddLines(strings.Join(args, " ")), nil
}

func Whoami(h *session.Helpers, args ...string) (*session.Session, error) {
	return h.AddLines(h.Context.Profile), nil
}

// History prints the history file with 1-based entry numbers.
func History(h *session.Helpers, args ...string) (*session.Session, error) {
	entries := h.Context.History()
	lines := make([]string, 0, len(entries))
	for i, e := range entries {
		lines = append(lines, fmt.Sprintf("%5d  %s", i+1, e))
	}
	return h.AddLines(lines...), nil
}

// Help lists the commands of r with their summaries.
func Help(r session.Registry) session.Handler {
	return func(h *session.Helpers, args ...string) (*session.Session, error) {
		names := r.Names()
		width := 0
		for _, name := range names {
			width = max(width, len(r[name].Usage))
		}

		lines := make([]string, 0, len(names)+1)
		lines = append(lines, "Available commands:")
		for _, name := range names {
			c := r[name]
			lines = append(lines, fmt.Sprintf("  %-*s  %s", width, c.Usage, c.Summary))
		}
		return h.AddLines(lines...), nil
	}
}
