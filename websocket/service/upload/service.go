package upload

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"path"
	"strings"
	"time"

	"go.uber.org/zap"

	ws "jsh/websocket"
)

const (
	actionStartSession    = "start_session"
	actionCompleteSession = "complete_session"
	actionCancelSession   = "cancel_session"
	actionStartFile       = "start_file"
	actionCompleteFile    = "complete_file"
	actionChunk           = "chunk"
	actionMkdir           = "mkdir"
	// what to do when the destination exists
	policyOverwrite = "overwrite"
	policySkip      = "skip"
	policyRename    = "rename"
)

var (
	errNoSession      = errors.New("upload session not started")
	errNoFile         = errors.New("no file in progress")
	errDigestMismatch = errors.New("upload failed: checksum mismatch")
)

type startSessionData struct {
	Policy string `json:"policy,omitempty"`

	NeedConfirm bool `json:"needConfirm"`
}
type startFileData struct {
	Path string `json:"path,omitempty"`

	Skip bool `json:"skip"`
}
type chunkData struct {
	Progress uint `json:"progress"`
}
type completeFileData struct {
	Digest string `json:"digest,omitempty"`
}

// UploadService receives files into the tree. The message id names the
// upload destination; a session may hold several files (a folder upload),
// received one at a time. Every chunk message is followed by one binary
// frame carrying its bytes.
type UploadService struct {
	reply ws.Reply
	conn  ws.Sender

	sessions map[string]*uploadSession
	pending  []*chunkMeta

	backend  uploadBackend
	recorder Recorder
	now      func() time.Time

	logger *zap.Logger
}

func (s *UploadService) Register(conn ws.Sender) {
	s.conn = conn
	s.reply = ws.Reply{Service: s.Name(), Conn: conn}
}

func (s *UploadService) Name() string {
	return "upload"
}

func (s *UploadService) HandleTextMessage(id, action string, data json.RawMessage) {
	switch action {
	case actionStartSession:
		s.handleStartSession(id, data)
	case actionCompleteSession:
		s.handleCompleteSession(id)
	case actionCancelSession:
		s.handleCancelSession(id)
	case actionStartFile:
		s.handleStartFile(id, data)
	case actionCompleteFile:
		s.handleCompleteFile(id, data)
	case actionMkdir:
		s.handleMkdir(id, data)
	case actionChunk:
		s.handleChunk(id, data)
	default:
		s.logger.Debug("unknown action", zap.String("id", id), zap.String("action", action))
	}
}

func (s *UploadService) HandleBinaryMessage(data []byte) {
	if len(s.pending) == 0 {
		s.logger.Warn("binary frame without chunk message", zap.Int("size", len(data)))
		return
	}
	meta := s.pending[0]
	s.pending = s.pending[1:]

	ss, exists := s.sessions[meta.id]
	if !exists || ss.file == nil {
		s.logger.Debug("dropping chunk for closed file", zap.String("id", meta.id))
		return
	}

	written, err := ss.file.Write(data)
	if err != nil {
		s.handleError(meta.id, actionChunk, fmt.Errorf("upload failed: %w", err))
		return
	}
	ss.hasher.Write(data[:written])
	if s.recorder != nil {
		s.recorder.RecordUpload(written)
	}

	s.reply.Send(meta.id, actionChunk, chunkData{Progress: meta.progress + uint(written)})
}

func (s *UploadService) Cleanup(err error) {
	if err != nil {
		s.logger.Debug("connection closed", zap.Error(err))
	}
	for id, ss := range s.sessions {
		s.discard(id, ss)
	}
	s.sessions = make(map[string]*uploadSession)
	s.pending = nil
}

func (s *UploadService) handleChunk(id string, data json.RawMessage) {
	var d chunkData
	if err := json.Unmarshal(data, &d); err != nil {
		s.logger.Warn("error decoding chunk data", zap.Error(err))
		return
	}

	// The frame is claimed even without an open file so it is not routed
	// elsewhere.
	s.pending = append(s.pending, &chunkMeta{id: id, progress: d.Progress})
	s.conn.ExpectBinary(s.Name())

	if ss, exists := s.sessions[id]; !exists || ss.file == nil {
		s.handleError(id, actionChunk, errNoFile)
	}
}

func (s *UploadService) handleStartSession(id string, data json.RawMessage) {
	var d startSessionData
	if len(data) > 0 {
		if err := json.Unmarshal(data, &d); err != nil {
			s.logger.Warn("error decoding start session data", zap.Error(err))
			return
		}
	}

	parent := path.Dir(strings.TrimSuffix(id, "/"))
	if dir, err := s.backend.Stat(parent); err != nil || !dir.IsDir() {
		s.handleError(id, actionStartSession, fmt.Errorf("%w: %s", errNotExist, parent))
		return
	}

	_, err := s.backend.Stat(id)

	// Destination exists, ask the client to pick a policy.
	if d.Policy == "" && err == nil {
		s.reply.Send(id, actionStartSession, startSessionData{NeedConfirm: true})
		return
	}

	dest := id
	if d.Policy == policyRename {
		dest = s.getUniqueFilename(id)
	}

	if old, exists := s.sessions[id]; exists {
		s.discard(id, old)
	}
	s.sessions[id] = &uploadSession{
		dest:   dest,
		policy: d.Policy,
		hasher: sha256.New(),
	}

	s.reply.Send(id, actionStartSession, startSessionData{NeedConfirm: false})
}

func (s *UploadService) handleCompleteSession(id string) {
	ss, exists := s.sessions[id]
	if !exists {
		s.logger.Info("session not found, cannot complete session", zap.String("id", id))
		s.reply.Error(id, actionCompleteSession, errNoSession)
		return
	}

	if ss.file != nil {
		if err := ss.file.Close(); err != nil {
			s.logger.Warn("error closing file", zap.String("path", ss.current), zap.Error(err))
		}
		ss.file = nil
	}
	delete(s.sessions, id)

	s.reply.Send(id, actionCompleteSession, nil)
}

func (s *UploadService) handleCancelSession(id string) {
	ss, exists := s.sessions[id]
	if !exists {
		s.logger.Info("session not found, cannot cancel", zap.String("id", id))
		s.reply.Error(id, actionCancelSession, errNoSession)
		return
	}

	s.discard(id, ss)
	delete(s.sessions, id)

	s.reply.Send(id, actionCancelSession, nil)
}

func (s *UploadService) handleMkdir(id string, data json.RawMessage) {
	var d string
	if err := json.Unmarshal(data, &d); err != nil {
		s.logger.Warn("error decoding mkdir data", zap.Error(err))
		return
	}
	if err := s.backend.MkdirAll(d); err != nil {
		s.handleError(id, actionMkdir, fmt.Errorf("upload failed: cannot create directory: %w", err))
		return
	}

	s.reply.Send(id, actionMkdir, nil)
}

func (s *UploadService) handleStartFile(id string, data json.RawMessage) {
	ss, exists := s.sessions[id]
	if !exists {
		s.logger.Info("session not found, cannot start file", zap.String("id", id))
		s.reply.Error(id, actionStartFile, errNoSession)
		return
	}

	if ss.file != nil {
		s.logger.Info("didn't finish previous file, cannot start new one", zap.String("id", id))
		s.reply.Error(id, actionStartFile, fmt.Errorf("file in progress: %s", ss.current))
		return
	}

	var d startFileData
	if len(data) > 0 {
		if err := json.Unmarshal(data, &d); err != nil {
			s.logger.Warn("error decoding start file data", zap.Error(err))
			return
		}
	}

	// d.Path is either relative to the destination or spelled under id.
	relPath := d.Path
	if strings.HasPrefix(d.Path, id) {
		relPath = path.Clean(strings.TrimPrefix(d.Path, id))
		relPath = strings.TrimPrefix(relPath, "/")
	}

	p := path.Join(ss.dest, relPath)

	stat, statErr := s.backend.Stat(p)
	if ss.policy == policySkip && statErr == nil {
		s.reply.Send(id, actionStartFile, startFileData{Skip: true})
		return
	}

	if err := s.backend.MkdirAll(path.Dir(p)); err != nil {
		s.handleError(id, actionStartFile, err)
		return
	}

	// An empty file name lands on a directory.
	if statErr == nil && stat.IsDir() {
		p = path.Join(p, fmt.Sprint("_", s.now().Unix()))
	}

	f, err := s.backend.OpenFile(p)
	if err != nil {
		s.handleError(id, actionStartFile, err)
		return
	}

	ss.file = f
	ss.current = p
	ss.hasher.Reset()

	s.reply.Send(id, actionStartFile, startFileData{Skip: false})
}

func (s *UploadService) handleCompleteFile(id string, data json.RawMessage) {
	ss, exists := s.sessions[id]
	if !exists {
		s.logger.Info("session not found, cannot complete file", zap.String("id", id))
		s.reply.Error(id, actionCompleteFile, errNoSession)
		return
	}
	if ss.file == nil {
		s.reply.Error(id, actionCompleteFile, errNoFile)
		return
	}

	var d completeFileData
	if len(data) > 0 {
		if err := json.Unmarshal(data, &d); err != nil {
			s.logger.Warn("error decoding complete file data", zap.Error(err))
			return
		}
	}

	if err := ss.file.Close(); err != nil {
		ss.file = nil
		s.handleError(id, actionCompleteFile, fmt.Errorf("upload failed: %w", err))
		return
	}
	ss.file = nil

	digest := hex.EncodeToString(ss.hasher.Sum(nil))
	if d.Digest != "" && !strings.EqualFold(digest, d.Digest) {
		s.logger.Info("hash mismatch", zap.String("local", digest), zap.String("peer", d.Digest))
		s.backend.DeletePath(ss.current)
		s.handleError(id, actionCompleteFile, errDigestMismatch)
		return
	}

	s.reply.Send(id, actionCompleteFile, nil)
}

func (s *UploadService) getUniqueFilename(filepath string) string {
	var baseName, suffix string
	if strings.HasSuffix(filepath, "/") {
		baseName = filepath[:len(filepath)-1]
		suffix = "/"
	} else {
		idx := strings.LastIndex(filepath, ".")
		if idx > strings.LastIndex(filepath, "/")+1 {
			baseName = filepath[:idx]
			suffix = filepath[idx:]
		} else {
			baseName = filepath
		}
	}

	var result string
	for num := 1; ; num++ {
		result = fmt.Sprintf("%s_%d%s", baseName, num, suffix)
		if _, err := s.backend.Stat(result); err != nil {
			break
		}
	}
	return result
}

// discard drops the file in progress, if any.
func (s *UploadService) discard(id string, ss *uploadSession) {
	if ss.file == nil {
		return
	}
	ss.file.Close()
	ss.file = nil
	if err := s.backend.DeletePath(ss.current); err != nil {
		s.logger.Debug("error removing partial upload", zap.String("id", id), zap.Error(err))
	}
}

func (s *UploadService) handleError(id, action string, err error) {
	s.logger.Info("upload action failed", zap.String("id", id), zap.String("action", action), zap.Error(err))
	s.reply.Error(id, action, err)

	if ss, exists := s.sessions[id]; exists {
		s.discard(id, ss)
	}
}

func newServiceBase() *UploadService {
	return &UploadService{
		sessions: make(map[string]*uploadSession),
		now:      time.Now,
		logger:   zap.NewNop(),
	}
}
