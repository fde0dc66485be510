package shell

import (
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"jsh/session"
	term "jsh/shell"
	"jsh/vfs"
	ws "jsh/websocket"
)

// localProvider starts terminals over a tree shared by the whole connection.
type localProvider struct {
	dispatcher *term.Dispatcher
	tree       *vfs.Tree
	profile    string
	now        func() time.Time
}

func (p *localProvider) NewShell(cwd string) (Shell, error) {
	s := session.New(p.tree, p.profile, p.now())

	if cwd != "" {
		h := session.NewHelpers(s, actionStart, p.dispatcher.Resolver())
		loc, info, ok := h.Lookup(cwd)
		if !ok || info.Type != vfs.KindDirectory {
			return nil, fmt.Errorf("no such directory: %s", cwd)
		}
		s.Directory = loc.Display.Path
	}

	t := term.NewTerminal(p.dispatcher, s)
	t.Login()
	return t, nil
}

type Option func(*ShellService, *localProvider)

func WithLogger(logger *zap.Logger) Option {
	return func(s *ShellService, _ *localProvider) { s.logger = logger }
}

func WithCounter(c Counter) Option {
	return func(s *ShellService, _ *localProvider) { s.counter = c }
}

// WithClock sets the source of the "Last login" time.
func WithClock(now func() time.Time) Option {
	return func(_ *ShellService, p *localProvider) { p.now = now }
}

// NewLocalService serves terminals whose commands run against tree.
func NewLocalService(d *term.Dispatcher, tree *vfs.Tree, profile string, opts ...Option) ws.Service {
	provider := &localProvider{
		dispatcher: d,
		tree:       tree,
		profile:    profile,
		now:        time.Now,
	}
	service := &ShellService{
		shells:        make(map[string]*terminal),
		ShellProvider: provider,
		logger:        zap.NewNop(),
		RWMutex:       &sync.RWMutex{},
	}
	for _, opt := range opts {
		opt(service, provider)
	}
	return service
}
