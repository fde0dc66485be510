package commands

import (
	"jsh/session"
	"jsh/vfs"
)

const (
	colorHidden = "gray-500"
	colorFile   = "purple-500"
)

// Ls lists a directory, or echoes the name of a file. Dot-entries are shown
// only with -a.
func Ls(h *session.Helpers, args ...string) (*session.Session, error) {
	var target string
	if p := positional(args); len(p) > 0 {
		target = p[0]
	}

	loc, info, ok := h.Lookup(target)
	name := loc.Display.Name
	if !ok {
		return nil, session.NotFound(name)
	}
	if info.Type != vfs.KindDirectory {
		return h.AddLines(name), nil
	}

	all := hasFlag(args, 'a', "all")
	lines := make([]session.Line, 0, len(info.Items))
	for _, item := range info.Items {
		if item.Hidden && !all {
			continue
		}
		lines = append(lines, session.Line{
			Directory: h.Context.Directory,
			Data:      mode(item.Type) + " " + item.Name,
			Color:     color(item),
		})
	}
	return h.AddRecords(lines...), nil
}

func mode(k vfs.Kind) string {
	if k == vfs.KindDirectory {
		return "drwx------"
	}
	return "-rw-------"
}

func color(e vfs.Entry) string {
	switch {
	case e.Hidden:
		return colorHidden
	case e.Type == vfs.KindFile:
		return colorFile
	}
	return ""
}
