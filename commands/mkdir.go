package commands

import (
	"strings"

	"jsh/session"
	"jsh/vfs"
)

// Mkdir creates empty directories. All targets are checked before any is
// created; parents are never created implicitly.
func Mkdir(h *session.Helpers, args ...string) (*session.Session, error) {
	targets := positional(args)
	if len(targets) == 0 {
		return nil, session.Usage("mkdir [DIRECTORY]")
	}

	tree := h.Context.Filesystem
	locs := make([]vfs.Location, 0, len(targets))
	// names are matched ignoring case, so "x X" is one directory twice
	queued := make(map[string]bool, len(targets))
	for _, target := range targets {
		loc, _, exists := h.Lookup(target)
		name := loc.Display.Name
		key := strings.ToLower(loc.Resolved.Path)
		if exists || queued[key] {
			return nil, session.FileExists(name)
		}
		if _, ok := tree.Node(vfs.ParsedPath{Parent: loc.Resolved.Parent}); !ok {
			return nil, session.NotFound(name)
		}
		queued[key] = true
		locs = append(locs, loc)
	}

	for _, loc := range locs {
		tree.Write(loc.Resolved, vfs.NewDirectory())
	}

	next := h.Context
	return &next, nil
}
