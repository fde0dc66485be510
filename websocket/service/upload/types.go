package upload

import (
	"errors"
	"hash"
	"io"

	"jsh/vfs"
)

var (
	errNotExist = errors.New("no such file or directory")
	errNotDir   = errors.New("not a directory")
)

type uploadSession struct {
	dest   string
	policy string
	hasher hash.Hash

	// path and writer of the file being received, if any
	current string
	file    io.WriteCloser
}

// chunkMeta announces the binary frame that follows a chunk message.
type chunkMeta struct {
	id       string
	progress uint
}

type uploadBackend interface {
	Stat(path string) (*vfs.Node, error)

	DeletePath(path string) error

	// MkdirAll creates path and any missing parents.
	MkdirAll(path string) error

	// OpenFile returns a writer whose content replaces the file at path
	// when it is closed.
	OpenFile(path string) (io.WriteCloser, error)
}

// Recorder counts uploaded bytes.
type Recorder interface {
	RecordUpload(n int)
}
