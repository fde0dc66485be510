// Package session holds the value a shell command reads and produces.
//
// A Session is treated as immutable: commands build a new Session through
// Helpers instead of editing the one they were given. The filesystem tree is
// the one exception; it is shared by reference and mutated in place by the
// vfs package, and the same reference is carried into every new Session.
package session

import (
	"time"

	"jsh/vfs"
)

// Line is one rendered record of terminal output.
type Line struct {
	User      bool   `json:"user,omitempty"`
	Directory string `json:"directory"`
	Data      string `json:"data"`
	Color     string `json:"color,omitempty"`
}

type Session struct {
	Lines      []Line    `json:"lines"`
	Directory  string    `json:"directory"`
	Profile    string    `json:"profile"`
	LastLogin  time.Time `json:"lastLogin"`
	Filesystem *vfs.Tree `json:"-"`
}

// New starts a session in the profile's home directory.
func New(tree *vfs.Tree, profile string, lastLogin time.Time) Session {
	return Session{
		Lines:      []Line{},
		Directory:  vfs.HomeDir(profile),
		Profile:    profile,
		LastLogin:  lastLogin,
		Filesystem: tree,
	}
}

// HistoryFile is kept in the profile's home, one command per line.
const HistoryFile = ".jsh_history"

// HistoryPath is the absolute path of the session's history file.
func (s Session) HistoryPath() string {
	return vfs.HomeDir(s.Profile) + "/" + HistoryFile
}

// Home is the directory "~" expands to.
func (s Session) Home() string {
	return vfs.HomeDir(s.Profile)
}

// WithLines returns a copy of s whose lines are s.Lines followed by lines.
// The receiver's backing array is never written to.
func (s Session) WithLines(lines ...Line) Session {
	merged := make([]Line, 0, len(s.Lines)+len(lines))
	merged = append(merged, s.Lines...)
	merged = append(merged, lines...)
	s.Lines = merged
	return s
}

// Line builds an output line tagged with the session's current directory.
func (s Session) Line(data string) Line {
	return Line{Directory: s.Directory, Data: data}
}
