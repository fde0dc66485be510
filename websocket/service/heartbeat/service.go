package heartbeat

import (
	"encoding/json"

	ws "jsh/websocket"
)

// HeartbeatService echoes every message back so the client can tell the
// connection is alive. It is registered passively: pings never count as
// activity.
type HeartbeatService struct {
	conn ws.Sender
}

func (s *HeartbeatService) Name() string {
	return "heartbeat"
}

func (s *HeartbeatService) Register(conn ws.Sender) {
	s.conn = conn
}

func (s *HeartbeatService) HandleTextMessage(id, action string, data json.RawMessage) {
	s.conn.WriteJSON(&ws.ServiceMessage{Service: s.Name(), Action: action, Id: id})
}

func (s *HeartbeatService) HandleBinaryMessage(data []byte) {}

func (s *HeartbeatService) Cleanup(err error) {}

func NewService() ws.Service {
	return &HeartbeatService{}
}
