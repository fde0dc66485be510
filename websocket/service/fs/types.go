package fs

import "errors"

// FileSystemEntry represents common file metadata.
type FileSystemEntry struct {
	Name   string `json:"name"`
	Path   string `json:"path"`
	Size   int64  `json:"size"`
	IsDir  bool   `json:"isDir"`
	Hidden bool   `json:"hidden,omitempty"`
}

var (
	ErrNotExist    = errors.New("no such file or directory")
	ErrExist       = errors.New("target already exists")
	ErrNotDir      = errors.New("not a directory")
	ErrIsDir       = errors.New("is a directory")
	ErrInvalidName = errors.New("invalid file name")
	ErrInvalidMove = errors.New("cannot move a directory into itself")
)

// FileSystem defines the file operations the fs service exposes. Paths are
// absolute; "~" names the profile's home.
type FileSystem interface {
	GetRoot() ([]*FileSystemEntry, error)

	// List returns the directory entries at the given path. The showHidden flag indicates whether hidden files should be included.
	List(path string, showHidden bool) ([]*FileSystemEntry, error)

	// Read returns the contents of the file at path.
	Read(path string) (string, error)

	// Rename renames the file or directory at oldPath to the newName (keeping the same parent directory).
	Rename(oldPath, newName string) error

	// Create creates a new file or directory (if isDir is true) with the given name under the specified parent path.
	Create(parentPath, name string, isDir bool) error

	// Delete removes the file or directory at the given path.
	Delete(path string) error

	// Copy duplicates the file or directory from src into the directory dest.
	Copy(src, dest string) error

	// Move relocates the file or directory from src into the directory dest.
	Move(src, dest string) error
}
