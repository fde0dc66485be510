package shell

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"jsh/session"
	"jsh/vfs"
)

// Observer is told about every dispatched command.
type Observer interface {
	ObserveCommand(name string, kind session.ErrorKind, elapsed time.Duration)
}

type Option func(*Dispatcher)

func WithLogger(logger *zap.Logger) Option {
	return func(d *Dispatcher) { d.logger = logger }
}

func WithObserver(o Observer) Option {
	return func(d *Dispatcher) { d.observer = o }
}

func WithResolver(r vfs.Resolver) Option {
	return func(d *Dispatcher) { d.resolver = r }
}

// Dispatcher is the reducer (Session, input) -> Session. It never lets a
// handler failure escape: errors and panics become output lines.
type Dispatcher struct {
	registry session.Registry
	resolver vfs.Resolver
	logger   *zap.Logger
	observer Observer
}

func NewDispatcher(registry session.Registry, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		registry: registry,
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

func (d *Dispatcher) Registry() session.Registry { return d.registry }

func (d *Dispatcher) Resolver() vfs.Resolver { return d.resolver }

// Input is one parsed command line.
type Input struct {
	Name string
	Args []string
}

// Parse splits raw on whitespace. There is no quoting or escaping. It
// reports false for blank input.
func Parse(raw string) (Input, bool) {
	fields := strings.Fields(raw)
	if len(fields) == 0 {
		return Input{}, false
	}
	return Input{Name: fields[0], Args: fields[1:]}, true
}

// Dispatch runs raw against s and returns the next session. ok is true when
// a registered command was found and invoked; its fields, joined by single
// spaces, have then been appended to the history file.
func (d *Dispatcher) Dispatch(s session.Session, raw string) (next session.Session, ok bool) {
	in, ok := Parse(raw)
	if !ok {
		return s, false
	}

	start := time.Now()
	cmd, found := d.registry[in.Name]
	if !found {
		d.observe("", session.KindUnknownCommand, start)
		return s.WithLines(s.Line("jsh: command not found: " + in.Name)), false
	}

	// one command per history line, whatever whitespace it was typed with
	if !s.AppendHistory(strings.Join(append([]string{in.Name}, in.Args...), " ")) {
		d.logger.Debug("history not recorded", zap.String("path", s.HistoryPath()))
	}

	h := session.NewHelpers(s, in.Name, d.resolver)
	result, err := d.invoke(cmd, h, in.Args)
	kind := session.KindOf(err)
	d.observe(in.Name, kind, start)

	switch {
	case err == nil && result == nil:
		return h.Context, true
	case err == nil:
		return *result, true
	}

	var e *session.Error
	if !errors.As(err, &e) {
		d.logger.Error("command failed",
			zap.String("command", in.Name),
			zap.Strings("args", in.Args),
			zap.Error(err),
		)
	}
	return *h.ThrowError(err.Error()), true
}

func (d *Dispatcher) invoke(cmd session.Command, h *session.Helpers, args []string) (result *session.Session, err error) {
	defer func() {
		if r := recover(); r != nil {
			result, err = nil, fmt.Errorf("%v", r)
		}
	}()

	d.logger.Debug("dispatch", zap.String("command", cmd.Name), zap.Strings("args", args))
	return cmd.Run(h, args...)
}

func (d *Dispatcher) observe(name string, kind session.ErrorKind, start time.Time) {
	if d.observer != nil {
		d.observer.ObserveCommand(name, kind, time.Since(start))
	}
}
