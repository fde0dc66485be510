package websocket

import (
	"encoding/json"
	"errors"
	"net/http"
	"slices"
	"sync/atomic"
	"time"

	ws "github.com/gorilla/websocket"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const (
	defaultIdleTimeout   = time.Minute
	defaultCheckInterval = 10 * time.Second
)

var ErrRateLimited = errors.New("rate limit exceeded")

// Recorder is told about routed and throttled messages.
type Recorder interface {
	RecordWSMessage(service string)
	RecordThrottled()
}

type Option func(*Server)

func WithLogger(logger *zap.Logger) Option {
	return func(s *Server) { s.logger = logger }
}

// WithIdleTimeout closes the connection once no active service has received
// a message for d.
func WithIdleTimeout(d time.Duration) Option {
	return func(s *Server) {
		if d > 0 {
			s.idleTimeout = d
		}
	}
}

// WithRateLimit allows rps text messages per second with the given burst.
// A non-positive rps disables limiting.
func WithRateLimit(rps, burst int) Option {
	return func(s *Server) {
		if rps <= 0 {
			s.limiter = nil
			return
		}
		s.limiter = rate.NewLimiter(rate.Limit(rps), max(burst, 1))
	}
}

func WithRecorder(r Recorder) Option {
	return func(s *Server) { s.recorder = r }
}

// Server routes the messages of one connection to its services. Messages are
// handled serially on the read loop, so services sharing state need no
// locking among themselves.
type Server struct {
	conn     *Conn
	services map[string]Service
	// messages to these services keep the connection alive
	activeServices []string

	lastActive    atomic.Int64
	idleTimeout   time.Duration
	checkInterval time.Duration

	limiter  *rate.Limiter
	recorder Recorder
	logger   *zap.Logger
}

func NewServer(w http.ResponseWriter, r *http.Request, opts ...Option) (*Server, error) {
	s := newServer(opts...)
	conn, err := NewConn(w, r, s.logger)
	if err != nil {
		return nil, err
	}
	s.conn = conn
	return s, nil
}

func newServer(opts ...Option) *Server {
	s := &Server{
		services:    make(map[string]Service),
		idleTimeout: defaultIdleTimeout,
		logger:      zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.checkInterval = max(min(defaultCheckInterval, s.idleTimeout/2), time.Millisecond)
	s.touch()
	return s
}

// Register adds a service whose traffic counts as activity.
func (s *Server) Register(service Service) {
	if s.add(service) {
		s.activeServices = append(s.activeServices, service.Name())
	}
}

// RegisterPassive adds a service whose traffic does not keep the connection
// alive, such as heartbeats.
func (s *Server) RegisterPassive(service Service) {
	s.add(service)
}

func (s *Server) add(service Service) bool {
	if _, exists := s.services[service.Name()]; exists {
		s.logger.Warn("service already registered", zap.String("service", service.Name()))
		return false
	}

	service.Register(s.conn)
	s.services[service.Name()] = service
	return true
}

// Start runs the read loop until the connection fails or goes idle, then
// cleans up every service with the error that ended it.
func (s *Server) Start() error {
	done := make(chan struct{})
	go s.checkTimeout(done)

	err := s.dispatch()
	close(done)
	s.conn.Close()

	for _, service := range s.services {
		service.Cleanup(err)
	}
	return err
}

func (s *Server) touch() {
	s.lastActive.Store(time.Now().UnixNano())
}

func (s *Server) idle() time.Duration {
	return time.Since(time.Unix(0, s.lastActive.Load()))
}

func (s *Server) checkTimeout(done <-chan struct{}) {
	ticker := time.NewTicker(s.checkInterval)
	defer ticker.Stop()

	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			if s.idle() > s.idleTimeout {
				s.logger.Info("closing idle connection", zap.Duration("timeout", s.idleTimeout))
				s.conn.Close()
				return
			}
		}
	}
}

func (s *Server) dispatch() error {
	for {
		msgType, data, err := s.conn.t.ReadMessage()
		if err != nil {
			return err
		}

		if msgType == ws.BinaryMessage {
			s.handleBinary(data)
			continue
		}

		var msg ServiceMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			s.logger.Warn("error unmarshalling message", zap.Error(err))
			continue
		}
		s.handleText(&msg)
	}
}

func (s *Server) handleText(msg *ServiceMessage) {
	service, exists := s.services[msg.Service]
	if !exists {
		s.logger.Debug("message for unknown service", zap.String("service", msg.Service))
		return
	}

	if s.limiter != nil && !s.limiter.Allow() {
		if s.recorder != nil {
			s.recorder.RecordThrottled()
		}
		Reply{Service: msg.Service, Conn: s.conn}.Error(msg.Id, msg.Action, ErrRateLimited)
		return
	}

	if slices.Contains(s.activeServices, msg.Service) {
		s.touch()
	}
	if s.recorder != nil {
		s.recorder.RecordWSMessage(msg.Service)
	}

	defer s.recoverService(msg.Service, msg.Action)
	service.HandleTextMessage(msg.Id, msg.Action, msg.Data)
}

func (s *Server) handleBinary(data []byte) {
	target, err := s.conn.binaryTarget()
	if err != nil {
		s.logger.Warn("dropping binary frame", zap.Int("bytes", len(data)), zap.Error(err))
		return
	}
	service, exists := s.services[target]
	if !exists {
		return
	}

	defer s.recoverService(target, "binary")
	service.HandleBinaryMessage(data)
}

// recoverService keeps one faulty handler from taking the connection down.
func (s *Server) recoverService(service, action string) {
	if r := recover(); r != nil {
		s.logger.Error("service handler panicked",
			zap.String("service", service),
			zap.String("action", action),
			zap.Any("panic", r),
		)
	}
}
