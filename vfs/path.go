package vfs

import (
	"regexp"
	"strings"
)

// UsersDir holds one home directory per profile.
const UsersDir = "/Users"

// HomeDir is the directory "~" expands to for profile.
func HomeDir(profile string) string {
	return UsersDir + "/" + profile
}

// ParsedPath splits an absolute path into its containing directory and final
// segment. Parent "" is the tree root.
type ParsedPath struct {
	Parent string `json:"parent"`
	Name   string `json:"name"`
	Path   string `json:"path"`
}

// ParsePath removes the final segment of p.
func ParsePath(p string) ParsedPath {
	i := strings.LastIndex(p, "/")
	if i < 0 {
		return ParsedPath{Name: p, Path: p}
	}
	return ParsedPath{Parent: p[:i], Name: p[i+1:], Path: p}
}

// Segments splits p on "/" and drops empty segments.
func Segments(p string) []string {
	parts := strings.Split(p, "/")
	segs := parts[:0]
	for _, s := range parts {
		if s != "" {
			segs = append(segs, s)
		}
	}
	return segs
}

// Location is the outcome of resolving one user-typed path.
//
// Display keeps the casing the user typed (with "~" expanded) and is what the
// prompt and error messages show. Resolved carries the stored casing of every
// segment that exists in the tree and is what the tree is addressed with.
type Location struct {
	Resolved ParsedPath
	Display  ParsedPath
}

var separatorRun = regexp.MustCompile(`/{2,}`)

// Resolver turns raw path arguments into Locations.
type Resolver struct {
	// StrictSeparators collapses doubled separators into one. When unset a
	// doubled separator collapses into a literal ".", which is what existing
	// sessions expect.
	StrictSeparators bool
}

// Resolve is a pure function of the tree; it never fails and may be called
// before deciding whether the target ought to exist.
func (r Resolver) Resolve(t *Tree, cwd, profile, raw string) Location {
	abs := r.Absolute(cwd, profile, raw)
	return Location{
		Resolved: ParsePath(r.Canonical(t, abs)),
		Display:  ParsePath(abs),
	}
}

// Absolute expands raw against the working directory and profile home.
func (r Resolver) Absolute(cwd, profile, raw string) string {
	p := raw
	if p == "" {
		p = cwd
	}
	if strings.HasPrefix(p, "~") {
		p = HomeDir(profile) + p[1:]
	}
	if !strings.HasPrefix(p, "/") {
		if strings.HasSuffix(cwd, "/") {
			p = cwd + p
		} else {
			p = cwd + "/" + p
		}
	}
	if r.StrictSeparators {
		p = separatorRun.ReplaceAllString(p, "/")
	} else {
		p = strings.ReplaceAll(p, "//", ".")
	}
	return cleanDots(p)
}

// Canonical walks abs from the root, replacing every segment that matches a
// stored name (ignoring case) with the stored name. Segments that do not
// exist, and everything below a file, are kept as typed.
func (r Resolver) Canonical(t *Tree, abs string) string {
	cur := t.Root()
	segs := Segments(abs)
	out := make([]string, 0, len(segs))
	for _, seg := range segs {
		if cur != nil {
			if name, child, ok := cur.Match(seg); ok {
				out = append(out, name)
				cur = child
				continue
			}
		}
		out = append(out, seg)
		cur = nil
	}
	return "/" + strings.Join(out, "/")
}

// cleanDots folds "." and ".." segments of an absolute path and drops a
// trailing separator. ".." above the root stays at the root.
func cleanDots(p string) string {
	if !strings.HasPrefix(p, "/") {
		return p
	}
	out := make([]string, 0, strings.Count(p, "/"))
	for _, seg := range strings.Split(p, "/") {
		switch seg {
		case "", ".":
		case "..":
			if len(out) > 0 {
				out = out[:len(out)-1]
			}
		default:
			out = append(out, seg)
		}
	}
	return "/" + strings.Join(out, "/")
}
