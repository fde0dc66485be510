package commands

import (
	"jsh/session"
	"jsh/vfs"
)

// Touch creates an empty file. It refuses to touch anything that exists.
func Touch(h *session.Helpers, args ...string) (*session.Session, error) {
	if len(args) == 0 || args[0] == "" {
		return nil, session.Usage("touch [FILE]")
	}

	loc, _, exists := h.Lookup(args[0])
	name := loc.Display.Name
	if exists {
		return nil, session.FileExists(name)
	}
	if !h.Context.Filesystem.Write(loc.Resolved, vfs.NewFile("")) {
		return nil, session.NotFound(name)
	}

	next := h.Context
	return &next, nil
}
