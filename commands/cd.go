package commands

import (
	"jsh/session"
	"jsh/vfs"
)

// Cd moves the session to a directory, home when no argument is given. The
// new directory is the path as typed, so the prompt keeps the user's casing.
func Cd(h *session.Helpers, args ...string) (*session.Session, error) {
	target := "~"
	if len(args) > 0 && args[0] != "" {
		target = args[0]
	}

	loc, info, ok := h.Lookup(target)
	name := loc.Display.Name
	if !ok {
		return nil, session.Errorf(session.KindNotFound, "no such file or directory: %s", name)
	}
	if info.Type != vfs.KindDirectory {
		return nil, session.Errorf(session.KindWrongType, "not a directory: %s", name)
	}

	next := h.Context
	next.Directory = loc.Display.Path
	return &next, nil
}
