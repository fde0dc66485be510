package commands

import (
	"jsh/session"
	"jsh/vfs"
)

// Rm deletes files, and directories when -r is given. Every target is
// validated before the first deletion, so a bad target leaves all of them in
// place.
func Rm(h *session.Helpers, args ...string) (*session.Session, error) {
	targets := positional(args)
	if len(targets) == 0 {
		return nil, session.Usage("rm [FILE]")
	}

	recursive := hasFlag(args, 'r', "recursive") || hasFlag(args, 'R', "recursive")
	locs := make([]vfs.Location, 0, len(targets))
	for _, target := range targets {
		loc, info, ok := h.Lookup(target)
		name := loc.Display.Name
		if !ok {
			return nil, session.NotFound(name)
		}
		if info.Type == vfs.KindDirectory && !recursive {
			return nil, session.IsADirectory(name)
		}
		locs = append(locs, loc)
	}

	tree := h.Context.Filesystem
	for _, loc := range locs {
		tree.Remove(loc.Resolved)
	}

	next := h.Context
	return &next, nil
}
