package upload

import (
	"bytes"
	"fmt"
	"io"
	"path"
	"time"

	"go.uber.org/zap"

	"jsh/vfs"
	ws "jsh/websocket"
)

// localBackend writes uploads into the connection's tree. Paths resolve the
// way shell arguments do, relative to the root.
type localBackend struct {
	tree     *vfs.Tree
	resolver vfs.Resolver
	profile  string
}

func (l *localBackend) locate(p string) vfs.ParsedPath {
	abs := l.resolver.Absolute("/", l.profile, p)
	return vfs.ParsePath(l.resolver.Canonical(l.tree, abs))
}

func (l *localBackend) Stat(p string) (*vfs.Node, error) {
	n, ok := l.tree.Node(l.locate(p))
	if !ok {
		return nil, fmt.Errorf("%w: %s", errNotExist, p)
	}
	return n, nil
}

func (l *localBackend) DeletePath(p string) error {
	if !l.tree.Remove(l.locate(p)) {
		return fmt.Errorf("%w: %s", errNotExist, p)
	}
	return nil
}

func (l *localBackend) MkdirAll(p string) error {
	loc := l.locate(p)
	dir, cur := l.tree.Root(), "/"
	for _, seg := range vfs.Segments(loc.Path) {
		next := path.Join(cur, seg)
		child, ok := dir.Child(seg)
		if !ok {
			child = vfs.NewDirectory()
			l.tree.Write(vfs.ParsePath(next), child)
		} else if !child.IsDir() {
			return fmt.Errorf("%w: %s", errNotDir, next)
		}
		dir, cur = child, next
	}
	return nil
}

func (l *localBackend) OpenFile(p string) (io.WriteCloser, error) {
	loc := l.locate(p)
	if loc.Name == "" {
		return nil, fmt.Errorf("%w: %s", errNotExist, p)
	}
	parent, ok := l.tree.Node(vfs.ParsedPath{Parent: loc.Parent})
	if !ok {
		return nil, fmt.Errorf("%w: %s", errNotExist, path.Dir(loc.Path))
	}
	if existing, ok := parent.Child(loc.Name); ok && existing.IsDir() {
		return nil, fmt.Errorf("%s: is a directory", loc.Path)
	}
	return &treeFile{tree: l.tree, path: loc}, nil
}

// treeFile buffers an upload and stores it as a file when closed.
type treeFile struct {
	bytes.Buffer
	tree   *vfs.Tree
	path   vfs.ParsedPath
	closed bool
}

func (f *treeFile) Close() error {
	if f.closed {
		return nil
	}
	f.closed = true
	// a directory may have been created here since the file was opened
	if existing, ok := f.tree.Node(f.path); ok && existing.IsDir() {
		return fmt.Errorf("%s: is a directory", f.path.Path)
	}
	if !f.tree.Write(f.path, vfs.NewFile(f.String())) {
		return fmt.Errorf("%w: %s", errNotExist, f.path.Parent)
	}
	return nil
}

type Option func(*UploadService)

func WithLogger(logger *zap.Logger) Option {
	return func(s *UploadService) { s.logger = logger }
}

func WithRecorder(r Recorder) Option {
	return func(s *UploadService) { s.recorder = r }
}

func WithClock(now func() time.Time) Option {
	return func(s *UploadService) { s.now = now }
}

// NewLocalService stores uploads in tree.
func NewLocalService(tree *vfs.Tree, resolver vfs.Resolver, profile string, opts ...Option) ws.Service {
	s := newServiceBase()
	s.backend = &localBackend{tree: tree, resolver: resolver, profile: profile}
	for _, opt := range opts {
		opt(s)
	}
	return s
}
