package commands

import "jsh/session"

func Clear(h *session.Helpers, args ...string) (*session.Session, error) {
	next := h.Context
	next.Lines = []session.Line{}
	return &next, nil
}
