package server

import (
	"net/http"
	"sync"

	"github.com/google/uuid"

	"github.com/jonathan/resume-editor/internal/editor"
	"github.com/jonathan/resume-editor/internal/types"
)

// session is one open document. The editor serializes its own edits; the
// remaining fields are guarded by mu.
type session struct {
	id     uuid.UUID
	editor *editor.Editor

	mu         sync.Mutex
	documentID uuid.UUID
	label      string
	keywords   *types.JDKeywordSet
}

func (s *session) stored() (uuid.UUID, string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.documentID, s.label
}

func (s *session) setStored(id uuid.UUID, label string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.documentID = id
	s.label = label
}

func (s *session) cachedKeywords() *types.JDKeywordSet {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.keywords
}

func (s *session) setKeywords(set *types.JDKeywordSet) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.keywords = set
}

// prefScope is the preference scope for the session: the stored document ID
// once saved, otherwise the session ID.
func (s *session) prefScope() string {
	if id, _ := s.stored(); id != uuid.Nil {
		return id.String()
	}
	return s.id.String()
}

// sessions is the registry of open editors
type sessions struct {
	mu   sync.RWMutex
	open map[uuid.UUID]*session
}

func newSessions() *sessions {
	return &sessions{open: make(map[uuid.UUID]*session)}
}

func (r *sessions) add(ed *editor.Editor, documentID uuid.UUID, label string) *session {
	sess := &session{id: uuid.New(), editor: ed, documentID: documentID, label: label}
	r.mu.Lock()
	r.open[sess.id] = sess
	r.mu.Unlock()
	return sess
}

func (r *sessions) get(id uuid.UUID) (*session, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	sess, ok := r.open[id]
	return sess, ok
}

func (r *sessions) remove(id uuid.UUID) bool {
	r.mu.Lock()
	sess, ok := r.open[id]
	delete(r.open, id)
	r.mu.Unlock()
	if ok {
		sess.editor.Close()
	}
	return ok
}

func (r *sessions) count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.open)
}

func (r *sessions) closeAll() {
	r.mu.Lock()
	open := r.open
	r.open = make(map[uuid.UUID]*session)
	r.mu.Unlock()
	for _, sess := range open {
		sess.editor.Close()
	}
}

// session resolves the {id} path value to an open session
func (s *Server) session(r *http.Request) (*session, error) {
	raw := r.PathValue("id")
	id, err := uuid.Parse(raw)
	if err != nil {
		return nil, &ErrSessionNotFound{SessionID: raw}
	}
	sess, ok := s.sessions.get(id)
	if !ok {
		return nil, &ErrSessionNotFound{SessionID: raw}
	}
	return sess, nil
}
