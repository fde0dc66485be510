package fs

import (
	"encoding/json"

	"go.uber.org/zap"

	ws "jsh/websocket"
)

const (
	actionList   = "list"
	actionRoot   = "get_root"
	actionRead   = "read"
	actionRename = "rename"
	actionCreate = "create"
	actionDelete = "delete"
	actionCopy   = "copy"
	actionMove   = "move"
)

type listData struct {
	// req
	ShowHidden bool `json:"showHidden,omitempty"`
	// res
	Entries []*FileSystemEntry `json:"entries"`
}
type readData struct {
	Content string `json:"content"`
}
type renameData struct {
	NewName string `json:"newName"`
}
type createData struct {
	Name  string `json:"name"`
	IsDir bool   `json:"isDir"`
}
type copyData struct {
	Dest string `json:"dest"`
}
type moveData struct {
	Dest string `json:"dest"`
}

// FSService exposes a FileSystem over the websocket. The message id is the
// path an action applies to.
type FSService struct {
	reply ws.Reply
	FS    FileSystem

	logger *zap.Logger
}

func (s *FSService) Name() string {
	return "fs"
}

func (s *FSService) Register(conn ws.Sender) {
	s.reply = ws.Reply{Service: s.Name(), Conn: conn}
}

func (s *FSService) HandleTextMessage(id, action string, data json.RawMessage) {
	switch action {
	case actionList:
		s.handleList(id, data)
	case actionRoot:
		s.handleGetRoot(id)
	case actionRead:
		s.handleRead(id)
	case actionRename:
		s.handleRename(id, data)
	case actionCreate:
		s.handleCreate(id, data)
	case actionDelete:
		s.handleDelete(id)
	case actionCopy:
		s.handleCopy(id, data)
	case actionMove:
		s.handleMove(id, data)
	default:
		s.logger.Debug("unknown action", zap.String("id", id), zap.String("action", action))
	}
}

func (s *FSService) HandleBinaryMessage(data []byte) {}

func (s *FSService) Cleanup(err error) {}

func (s *FSService) handleList(id string, data json.RawMessage) {
	var d listData
	if len(data) > 0 {
		if err := json.Unmarshal(data, &d); err != nil {
			s.logger.Warn("error unmarshalling fs list payload", zap.Error(err))
			return
		}
	}

	entries, err := s.FS.List(id, d.ShowHidden)
	if err != nil {
		s.handleError(id, actionList, err)
		return
	}
	d.Entries = entries
	s.reply.Send(id, actionList, d)
}

func (s *FSService) handleGetRoot(id string) {
	roots, err := s.FS.GetRoot()
	if err != nil {
		s.handleError(id, actionRoot, err)
		return
	}
	s.reply.Send(id, actionRoot, roots)
}

func (s *FSService) handleRead(id string) {
	content, err := s.FS.Read(id)
	if err != nil {
		s.handleError(id, actionRead, err)
		return
	}
	s.reply.Send(id, actionRead, readData{Content: content})
}

func (s *FSService) handleRename(id string, data json.RawMessage) {
	var d renameData
	if err := json.Unmarshal(data, &d); err != nil {
		s.logger.Warn("error unmarshalling fs rename payload", zap.Error(err))
		return
	}
	if err := s.FS.Rename(id, d.NewName); err != nil {
		s.handleError(id, actionRename, err)
		return
	}
	s.reply.Send(id, actionRename, nil)
}

func (s *FSService) handleCreate(id string, data json.RawMessage) {
	var d createData
	if err := json.Unmarshal(data, &d); err != nil {
		s.logger.Warn("error unmarshalling fs create payload", zap.Error(err))
		return
	}
	if err := s.FS.Create(id, d.Name, d.IsDir); err != nil {
		s.handleError(id, actionCreate, err)
		return
	}
	s.reply.Send(id, actionCreate, nil)
}

func (s *FSService) handleDelete(id string) {
	if err := s.FS.Delete(id); err != nil {
		s.handleError(id, actionDelete, err)
		return
	}
	s.reply.Send(id, actionDelete, nil)
}

func (s *FSService) handleCopy(id string, data json.RawMessage) {
	var d copyData
	if err := json.Unmarshal(data, &d); err != nil {
		s.logger.Warn("error unmarshalling fs copy payload", zap.Error(err))
		return
	}
	if err := s.FS.Copy(id, d.Dest); err != nil {
		s.handleError(id, actionCopy, err)
		return
	}
	s.reply.Send(id, actionCopy, nil)
}

func (s *FSService) handleMove(id string, data json.RawMessage) {
	var d moveData
	if err := json.Unmarshal(data, &d); err != nil {
		s.logger.Warn("error unmarshalling fs move payload", zap.Error(err))
		return
	}
	if err := s.FS.Move(id, d.Dest); err != nil {
		s.handleError(id, actionMove, err)
		return
	}
	s.reply.Send(id, actionMove, nil)
}

func (s *FSService) handleError(id, action string, err error) {
	s.logger.Info("fs action failed", zap.String("id", id), zap.String("action", action), zap.Error(err))
	s.reply.Error(id, action, err)
}
