package websocket

import (
	"encoding/json"
	"fmt"
)

// Service handles the messages addressed to its name. Handlers run on the
// connection's read loop, one message at a time.
type Service interface {
	HandleTextMessage(id string, action string, data json.RawMessage)
	HandleBinaryMessage(data []byte)
	Name() string
	Cleanup(err error)
	Register(conn Sender)
}

type ServiceMessage struct {
	Service string          `json:"service"`
	Id      string          `json:"id,omitempty"`
	Action  string          `json:"action,omitempty"`
	Data    json.RawMessage `json:"data,omitempty"`
	Error   string          `json:"error,omitempty"`
}

// Reply writes messages on behalf of one service.
type Reply struct {
	Service string
	Conn    Sender
}

// Send marshals data (nil for none) into a message for id and action.
func (r Reply) Send(id, action string, data any) error {
	msg := &ServiceMessage{Service: r.Service, Id: id, Action: action}
	if data != nil {
		raw, err := json.Marshal(data)
		if err != nil {
			return fmt.Errorf("marshal %s/%s reply: %w", r.Service, action, err)
		}
		msg.Data = raw
	}
	return r.Conn.WriteJSON(msg)
}

// Error reports err to the client as the reply to id and action.
func (r Reply) Error(id, action string, err error) error {
	return r.Conn.WriteJSON(&ServiceMessage{
		Service: r.Service,
		Id:      id,
		Action:  action,
		Error:   err.Error(),
	})
}
