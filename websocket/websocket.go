package websocket

import (
	"errors"
	"net/http"
	"sync"

	ws "github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// Sender is the half of a connection a service writes through.
type Sender interface {
	WriteJSON(v any) error
	// ExpectBinary routes the next binary frame to service.
	ExpectBinary(service string)
}

// transport is the subset of *ws.Conn the connection uses.
type transport interface {
	ReadMessage() (int, []byte, error)
	WriteJSON(v any) error
	Close() error
}

type Conn struct {
	t transport
	// serialises writes; gorilla allows one concurrent writer
	mu sync.Mutex

	binaryMu sync.Mutex
	expect   []string

	logger *zap.Logger
}

var ErrNoBinaryTarget = errors.New("binary frame without a pending receiver")

var upgrader = ws.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// NewConn upgrades the request to a websocket connection.
func NewConn(w http.ResponseWriter, r *http.Request, logger *zap.Logger) (*Conn, error) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Warn("websocket upgrade failed", zap.Error(err))
		return nil, err
	}
	return newConn(conn, logger), nil
}

func newConn(t transport, logger *zap.Logger) *Conn {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Conn{t: t, logger: logger}
}

func (c *Conn) WriteJSON(v any) error {
	c.mu.Lock()
	err := c.t.WriteJSON(v)
	c.mu.Unlock()

	if err != nil {
		c.logger.Debug("write json failed", zap.Error(err))
	}
	return err
}

func (c *Conn) Close() error {
	return c.t.Close()
}

func (c *Conn) ExpectBinary(service string) {
	c.binaryMu.Lock()
	c.expect = append(c.expect, service)
	c.binaryMu.Unlock()
}

// binaryTarget pops the service waiting for the next binary frame.
func (c *Conn) binaryTarget() (string, error) {
	c.binaryMu.Lock()
	defer c.binaryMu.Unlock()

	if len(c.expect) == 0 {
		return "", ErrNoBinaryTarget
	}
	target := c.expect[0]
	c.expect = c.expect[1:]
	return target, nil
}
