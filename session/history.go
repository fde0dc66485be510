package session

import (
	"strings"

	"jsh/vfs"
)

func (s Session) historyPath() vfs.ParsedPath {
	return vfs.ParsePath(vfs.Resolver{}.Canonical(s.Filesystem, s.HistoryPath()))
}

// History returns the entries of the history file, oldest first.
func (s Session) History() []string {
	info, ok := s.Filesystem.Lookup(s.historyPath())
	if !ok || info.Type != vfs.KindFile || info.Contents == "" {
		return nil
	}
	return strings.Split(info.Contents, "\n")
}

// AppendHistory adds entry to the history file, creating the file when the
// home directory exists. A directory squatting on the file's name is left
// alone. It reports whether the entry was stored.
func (s Session) AppendHistory(entry string) bool {
	p := s.historyPath()
	if info, ok := s.Filesystem.Lookup(p); ok && info.Type != vfs.KindFile {
		return false
	}
	entries := append(s.History(), entry)
	return s.Filesystem.Write(p, vfs.NewFile(strings.Join(entries, "\n")))
}
