package downloader

import (
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/klauspost/compress/zip"

	"jsh/vfs"
)

// TreeDownloader reads files out of a tree. Paths resolve the way shell
// arguments do, relative to the root.
type TreeDownloader struct {
	tree     *vfs.Tree
	resolver vfs.Resolver
	profile  string
}

func NewTreeDownloader(tree *vfs.Tree, resolver vfs.Resolver, profile string) *TreeDownloader {
	return &TreeDownloader{tree: tree, resolver: resolver, profile: profile}
}

func (d *TreeDownloader) locate(p string) (*vfs.Node, vfs.ParsedPath, error) {
	abs := d.resolver.Absolute("/", d.profile, p)
	loc := vfs.ParsePath(d.resolver.Canonical(d.tree, abs))
	n, ok := d.tree.Node(loc)
	if !ok {
		return nil, loc, fmt.Errorf("%w: %s", ErrNotExist, p)
	}
	return n, loc, nil
}

func (d *TreeDownloader) Download(p string) (io.ReadCloser, *FileInfo, error) {
	n, loc, err := d.locate(p)
	if err != nil {
		return nil, nil, err
	}
	if n.IsDir() {
		return nil, nil, fmt.Errorf("%w: %s", ErrIsDir, p)
	}
	return io.NopCloser(strings.NewReader(n.Content())), toFileInfo(loc, n), nil
}

func (d *TreeDownloader) DownloadDir(p string) (io.ReadCloser, *FileInfo, error) {
	n, loc, err := d.locate(p)
	if err != nil {
		return nil, nil, err
	}
	if !n.IsDir() {
		return nil, nil, fmt.Errorf("%w: %s", ErrNotDir, p)
	}

	pr, pw := io.Pipe()
	go func() {
		zw := zip.NewWriter(pw)
		err := writeDir(zw, "", n)
		if cerr := zw.Close(); err == nil {
			err = cerr
		}
		pw.CloseWithError(err)
	}()

	return pr, toFileInfo(loc, n), nil
}

func (d *TreeDownloader) Stat(p string) (*FileInfo, error) {
	n, loc, err := d.locate(p)
	if err != nil {
		return nil, err
	}
	return toFileInfo(loc, n), nil
}

// writeDir adds the children of dir below prefix, directories first named
// with a trailing slash.
func writeDir(zw *zip.Writer, prefix string, dir *vfs.Node) error {
	for _, name := range dir.Names() {
		child, _ := dir.Child(name)
		entry := path.Join(prefix, name)
		if child.IsDir() {
			if _, err := zw.Create(entry + "/"); err != nil {
				return fmt.Errorf("failed to create directory in zip: %w", err)
			}
			if err := writeDir(zw, entry, child); err != nil {
				return err
			}
			continue
		}
		w, err := zw.Create(entry)
		if err != nil {
			return fmt.Errorf("failed to create file in zip: %w", err)
		}
		if _, err := io.WriteString(w, child.Content()); err != nil {
			return fmt.Errorf("failed to copy file content: %w", err)
		}
	}
	return nil
}

func toFileInfo(loc vfs.ParsedPath, n *vfs.Node) *FileInfo {
	name := loc.Name
	if name == "" {
		name = "/"
	}
	return &FileInfo{
		Name:  name,
		Path:  loc.Path,
		Size:  n.Size(),
		IsDir: n.IsDir(),
	}
}
