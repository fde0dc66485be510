package session

import (
	"sort"

	"jsh/vfs"
)

// Helpers is what a command receives: the session it runs against plus the
// builders it returns new sessions through.
type Helpers struct {
	Context  Session
	Command  string
	resolver vfs.Resolver
}

func NewHelpers(ctx Session, command string, resolver vfs.Resolver) *Helpers {
	return &Helpers{Context: ctx, Command: command, resolver: resolver}
}

// AddLines appends one output line per string, tagged with the current
// directory.
func (h *Helpers) AddLines(lines ...string) *Session {
	records := make([]Line, 0, len(lines))
	for _, l := range lines {
		records = append(records, h.Context.Line(l))
	}
	return h.AddRecords(records...)
}

// AddRecords appends already-built lines unchanged.
func (h *Helpers) AddRecords(lines ...Line) *Session {
	next := h.Context.WithLines(lines...)
	return &next
}

// ThrowError appends "<command>: <message>". Errors are output, not panics.
func (h *Helpers) ThrowError(message string) *Session {
	return h.AddLines(h.Command + ": " + message)
}

// Resolve resolves raw against the session's directory and profile.
func (h *Helpers) Resolve(raw string) vfs.Location {
	return h.resolver.Resolve(h.Context.Filesystem, h.Context.Directory, h.Context.Profile, raw)
}

// Lookup resolves raw and looks the result up in the tree.
func (h *Helpers) Lookup(raw string) (vfs.Location, *vfs.NodeInfo, bool) {
	loc := h.Resolve(raw)
	info, ok := h.Context.Filesystem.Lookup(loc.Resolved)
	return loc, info, ok
}

// Handler runs one command. It returns the next session, or nil for "no
// change". A returned *Error is folded into an output line by the caller.
type Handler func(h *Helpers, args ...string) (*Session, error)

type Command struct {
	Name    string
	Usage   string
	Summary string
	Run     Handler
}

// Registry maps command names to commands.
type Registry map[string]Command

func (r Registry) Register(cmds ...Command) Registry {
	for _, c := range cmds {
		r[c.Name] = c
	}
	return r
}

// Merge returns a new registry holding the commands of every argument; later
// registries win on name clashes.
func Merge(registries ...Registry) Registry {
	out := Registry{}
	for _, r := range registries {
		for name, c := range r {
			out[name] = c
		}
	}
	return out
}

// Names returns the registered names sorted ascending.
func (r Registry) Names() []string {
	names := make([]string, 0, len(r))
	for name := range r {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
