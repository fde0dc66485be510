package commands

import (
	"strings"

	"jsh/session"
	"jsh/vfs"
)

// Cat prints a file, one output line per newline-separated segment.
func Cat(h *session.Helpers, args ...string) (*session.Session, error) {
	var target string
	if len(args) > 0 {
		target = args[0]
	}

	loc, info, ok := h.Lookup(target)
	name := loc.Display.Name
	if !ok {
		return nil, session.NotFound(name)
	}
	if info.Type != vfs.KindFile {
		return nil, session.IsADirectory(name)
	}

	return h.AddLines(strings.Split(info.Contents, "\n")...), nil
}
