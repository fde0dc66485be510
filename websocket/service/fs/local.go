package fs

import (
	"fmt"
	"path"
	"strings"

	"go.uber.org/zap"

	"jsh/vfs"
	ws "jsh/websocket"
)

// LocalFileSystem serves the in-memory tree of one connection. Path segments
// match case-insensitively, the same way shell commands resolve them.
type LocalFileSystem struct {
	tree     *vfs.Tree
	resolver vfs.Resolver
	profile  string
}

func NewLocalFileSystem(tree *vfs.Tree, resolver vfs.Resolver, profile string) *LocalFileSystem {
	return &LocalFileSystem{tree: tree, resolver: resolver, profile: profile}
}

// locate resolves p against the root and returns the stored path.
func (l *LocalFileSystem) locate(p string) vfs.ParsedPath {
	abs := l.resolver.Absolute("/", l.profile, p)
	return vfs.ParsePath(l.resolver.Canonical(l.tree, abs))
}

func (l *LocalFileSystem) node(p string) (vfs.ParsedPath, *vfs.Node, error) {
	loc := l.locate(p)
	n, ok := l.tree.Node(loc)
	if !ok {
		return loc, nil, fmt.Errorf("%w: %s", ErrNotExist, p)
	}
	return loc, n, nil
}

func (l *LocalFileSystem) dir(p string) (vfs.ParsedPath, *vfs.Node, error) {
	loc, n, err := l.node(p)
	if err != nil {
		return loc, nil, err
	}
	if !n.IsDir() {
		return loc, nil, fmt.Errorf("%w: %s", ErrNotDir, p)
	}
	return loc, n, nil
}

func (l *LocalFileSystem) GetRoot() ([]*FileSystemEntry, error) {
	root := l.tree.Root()
	entry := &FileSystemEntry{
		Name:  "/",
		Path:  "/",
		IsDir: true,
		Size:  root.Size(),
	}
	return []*FileSystemEntry{entry}, nil
}

func (l *LocalFileSystem) List(dirPath string, showHidden bool) ([]*FileSystemEntry, error) {
	loc, dir, err := l.dir(dirPath)
	if err != nil {
		return nil, err
	}

	items := vfs.List(dir)
	entries := make([]*FileSystemEntry, 0, len(items))
	for _, item := range items {
		if item.Hidden && !showHidden {
			continue
		}
		child, _ := dir.Child(item.Name)
		entries = append(entries, &FileSystemEntry{
			Name:   item.Name,
			Path:   path.Join(loc.Path, item.Name),
			Size:   child.Size(),
			IsDir:  child.IsDir(),
			Hidden: item.Hidden,
		})
	}
	return entries, nil
}

func (l *LocalFileSystem) Read(p string) (string, error) {
	_, n, err := l.node(p)
	if err != nil {
		return "", err
	}
	if n.IsDir() {
		return "", fmt.Errorf("%w: %s", ErrIsDir, p)
	}
	return n.Content(), nil
}

func (l *LocalFileSystem) Create(parentPath string, name string, isDir bool) error {
	if !validName(name) {
		return fmt.Errorf("%w: %s", ErrInvalidName, name)
	}
	loc, parent, err := l.dir(parentPath)
	if err != nil {
		return err
	}
	if _, _, exists := parent.Match(name); exists {
		return fmt.Errorf("%w: %s", ErrExist, path.Join(loc.Path, name))
	}

	n := vfs.NewFile("")
	if isDir {
		n = vfs.NewDirectory()
	}
	l.tree.Write(vfs.ParsePath(path.Join(loc.Path, name)), n)
	return nil
}

func (l *LocalFileSystem) Delete(p string) error {
	loc, _, err := l.node(p)
	if err != nil {
		return err
	}
	if loc.Name == "" {
		return fmt.Errorf("%w: /", ErrInvalidName)
	}
	l.tree.Remove(loc)
	return nil
}

func (l *LocalFileSystem) Rename(oldPath string, newName string) error {
	if !validName(newName) {
		return fmt.Errorf("%w: %s", ErrInvalidName, newName)
	}
	loc, n, err := l.node(oldPath)
	if err != nil {
		return err
	}
	if loc.Name == "" {
		return fmt.Errorf("%w: /", ErrInvalidName)
	}

	parent, _ := l.tree.Node(vfs.ParsedPath{Parent: loc.Parent})
	// a case-only rename matches the node itself
	if _, other, exists := parent.Match(newName); exists && other != n {
		return fmt.Errorf("%w: %s", ErrExist, path.Join(parentPath(loc), newName))
	}

	l.tree.Remove(loc)
	l.tree.Write(vfs.ParsePath(path.Join(parentPath(loc), newName)), n)
	return nil
}

func (l *LocalFileSystem) Copy(src string, dest string) error {
	_, n, target, err := l.transfer(src, dest)
	if err != nil {
		return err
	}
	l.tree.Write(target, n.Clone())
	return nil
}

func (l *LocalFileSystem) Move(src string, dest string) error {
	from, n, target, err := l.transfer(src, dest)
	if err != nil {
		return err
	}
	if target.Parent == from.Path || strings.HasPrefix(target.Parent, from.Path+"/") {
		return fmt.Errorf("%w: %s", ErrInvalidMove, src)
	}
	l.tree.Remove(from)
	l.tree.Write(target, n)
	return nil
}

// transfer validates a copy or move of src into the directory dest. The
// target keeps the source name, with " copy" appended when taken.
func (l *LocalFileSystem) transfer(src, dest string) (vfs.ParsedPath, *vfs.Node, vfs.ParsedPath, error) {
	from, n, err := l.node(src)
	if err != nil {
		return from, nil, vfs.ParsedPath{}, err
	}
	if from.Name == "" {
		return from, nil, vfs.ParsedPath{}, fmt.Errorf("%w: /", ErrInvalidName)
	}
	to, dir, err := l.dir(dest)
	if err != nil {
		return from, nil, vfs.ParsedPath{}, err
	}

	name := from.Name
	if _, _, exists := dir.Match(name); exists {
		name += " copy"
	}
	target := vfs.ParsePath(path.Join(to.Path, name))
	if _, _, exists := dir.Match(name); exists {
		return from, nil, vfs.ParsedPath{}, fmt.Errorf("%w: %s", ErrExist, target.Path)
	}
	return from, n, target, nil
}

func parentPath(p vfs.ParsedPath) string {
	if p.Parent == "" {
		return "/"
	}
	return p.Parent
}

func validName(name string) bool {
	return name != "" && name != "." && name != ".." && !strings.Contains(name, "/")
}

// NewLocalService serves tree over the fs protocol.
func NewLocalService(tree *vfs.Tree, resolver vfs.Resolver, profile string, logger *zap.Logger) ws.Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FSService{
		FS:     NewLocalFileSystem(tree, resolver, profile),
		logger: logger,
	}
}
