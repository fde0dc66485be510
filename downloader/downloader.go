package downloader

import (
	"errors"
	"io"
)

var (
	ErrNotExist = errors.New("no such file or directory")
	ErrIsDir    = errors.New("is a directory")
	ErrNotDir   = errors.New("not a directory")
)

// FileInfo represents metadata about a tree node
type FileInfo struct {
	Name  string
	Path  string
	Size  int64
	IsDir bool
}

// Downloader defines the interface for downloading files
type Downloader interface {
	// Download streams a file from the given path
	Download(path string) (io.ReadCloser, *FileInfo, error)

	// DownloadDir streams a directory as a zip archive
	DownloadDir(path string) (io.ReadCloser, *FileInfo, error)

	// Stat returns file information without downloading
	Stat(path string) (*FileInfo, error)
}
