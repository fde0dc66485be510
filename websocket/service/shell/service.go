package shell

import (
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"jsh/session"
	term "jsh/shell"
	ws "jsh/websocket"
)

const (
	actionStart     = "start"
	actionCommand   = "command"
	actionInterrupt = "interrupt"
	actionHistory   = "history"
	actionTerminate = "terminate"

	directionUp   = "up"
	directionDown = "down"
)

type commandData string
type startData struct {
	Cwd string `json:"cwd"`
}
type historyData struct {
	// req
	Direction string `json:"direction,omitempty"`
	// res
	Entry string `json:"entry"`
	Found bool   `json:"found"`
}

// frameData is what the client renders after every action. Lines holds only
// the lines it has not seen yet unless Reset is set, in which case the
// client replaces its buffer.
type frameData struct {
	Lines     []session.Line `json:"lines"`
	Reset     bool           `json:"reset,omitempty"`
	Directory string         `json:"directory"`
	Prompt    string         `json:"prompt"`
}

var errNotStarted = errors.New("terminal not started")

// Shell is one running terminal.
type Shell interface {
	Session() session.Session
	Submit(input string) session.Session
	Interrupt(input string) session.Session
	HistoryUp() (string, bool)
	HistoryDown() (string, bool)
}

// ShellProvider starts terminals, already logged in, in cwd ("" for home).
type ShellProvider interface {
	NewShell(cwd string) (Shell, error)
}

// Counter tracks live terminals.
type Counter interface {
	IncTerminals()
	DecTerminals()
}

type terminal struct {
	Shell
	// lines of the current buffer already sent to the client
	sent int
}

func (t *terminal) frame(s session.Session, reset bool) frameData {
	// Sessions only ever append, except when the buffer is replaced.
	if reset || len(s.Lines) < t.sent {
		reset = true
		t.sent = 0
	}
	lines := s.Lines[t.sent:]
	if lines == nil {
		lines = []session.Line{}
	}
	t.sent = len(s.Lines)

	return frameData{
		Lines:     lines,
		Reset:     reset,
		Directory: s.Directory,
		Prompt:    term.Prompt(s),
	}
}

type ShellService struct {
	reply  ws.Reply
	shells map[string]*terminal

	ShellProvider
	counter Counter

	logger *zap.Logger
	*sync.RWMutex
}

func (s *ShellService) Name() string {
	return "shell"
}

func (s *ShellService) Register(conn ws.Sender) {
	s.reply = ws.Reply{Service: s.Name(), Conn: conn}
}

func (s *ShellService) HandleTextMessage(id string, action string, data json.RawMessage) {
	if action == actionStart {
		s.handleStart(id, data)
		return
	}

	s.RLock()
	sh, exists := s.shells[id]
	s.RUnlock()

	if !exists {
		s.logger.Warn("received message before terminal started", zap.String("id", id), zap.String("action", action))
		s.reply.Error(id, action, errNotStarted)
		return
	}

	switch action {
	case actionCommand:
		var command commandData
		if err := json.Unmarshal(data, &command); err != nil {
			s.logger.Warn("error unmarshalling command payload", zap.String("id", id), zap.Error(err))
			return
		}
		next := sh.Submit(string(command))
		s.reply.Send(id, actionCommand, sh.frame(next, false))
	case actionInterrupt:
		var command commandData
		if len(data) > 0 {
			if err := json.Unmarshal(data, &command); err != nil {
				s.logger.Warn("error unmarshalling interrupt payload", zap.String("id", id), zap.Error(err))
				return
			}
		}
		next := sh.Interrupt(string(command))
		s.reply.Send(id, actionInterrupt, sh.frame(next, false))
	case actionHistory:
		var d historyData
		if err := json.Unmarshal(data, &d); err != nil {
			s.logger.Warn("error unmarshalling history payload", zap.String("id", id), zap.Error(err))
			return
		}
		switch d.Direction {
		case directionUp:
			d.Entry, d.Found = sh.HistoryUp()
		case directionDown:
			d.Entry, d.Found = sh.HistoryDown()
		default:
			s.reply.Error(id, actionHistory, fmt.Errorf("unknown direction: %q", d.Direction))
			return
		}
		s.reply.Send(id, actionHistory, historyData{Entry: d.Entry, Found: d.Found})
	case actionTerminate:
		s.Lock()
		delete(s.shells, id)
		s.Unlock()
		s.dec()
	default:
		s.logger.Debug("unknown action", zap.String("id", id), zap.String("action", action))
	}
}

func (s *ShellService) HandleBinaryMessage(data []byte) {}

func (s *ShellService) Cleanup(err error) {
	s.Lock()
	defer s.Unlock()

	for range s.shells {
		s.dec()
	}
	s.shells = nil
}

func (s *ShellService) handleStart(id string, data json.RawMessage) {
	var start startData
	if len(data) > 0 {
		if err := json.Unmarshal(data, &start); err != nil {
			s.logger.Warn("error unmarshalling start payload", zap.String("id", id), zap.Error(err))
			return
		}
	}
	if id == "" {
		id = uuid.NewString()
	}

	s.RLock()
	_, exists := s.shells[id]
	s.RUnlock()
	if exists {
		s.logger.Warn("received start message after terminal started", zap.String("id", id))
		return
	}

	sh, err := s.ShellProvider.NewShell(start.Cwd)
	if err != nil {
		s.logger.Info("error starting terminal", zap.String("id", id), zap.Error(err))
		s.reply.Error(id, actionStart, err)
		return
	}

	t := &terminal{Shell: sh}
	s.Lock()
	s.shells[id] = t
	s.Unlock()
	if s.counter != nil {
		s.counter.IncTerminals()
	}

	s.reply.Send(id, actionStart, t.frame(sh.Session(), true))
}

func (s *ShellService) dec() {
	if s.counter != nil {
		s.counter.DecTerminals()
	}
}
