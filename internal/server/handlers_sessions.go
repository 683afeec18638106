package server

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/google/uuid"

	"github.com/jonathan/resume-editor/internal/editor"
	"github.com/jonathan/resume-editor/internal/keywords"
	"github.com/jonathan/resume-editor/internal/types"
)

// maxUploadBytes bounds résumé file uploads for parsing
const maxUploadBytes = 10 << 20

// CreateSessionRequest opens a session from an inline document, a stored
// document, or nothing (an empty document)
type CreateSessionRequest struct {
	Document   json.RawMessage `json:"document,omitempty"`
	DocumentID string          `json:"document_id,omitempty" validate:"omitempty,uuid"`
}

// SessionResponse is the state of a session after a request
type SessionResponse struct {
	SessionID  string                `json:"session_id"`
	DocumentID string                `json:"document_id,omitempty"`
	Label      string                `json:"label,omitempty"`
	Document   *types.ResumeDocument `json:"document"`
	CanUndo    bool                  `json:"can_undo"`
	CanRedo    bool                  `json:"can_redo"`
}

// SaveRequest represents the request body for saving a session
type SaveRequest struct {
	Label string `json:"label,omitempty" validate:"max=200"`
}

// SaveResponse represents the response for a saved session
type SaveResponse struct {
	DocumentID string `json:"document_id"`
	Label      string `json:"label"`
}

// HighlightsResponse is keyword highlighting for every section plus coverage
type HighlightsResponse struct {
	Highlights []keywords.SectionHighlight `json:"highlights"`
	Found      []string                    `json:"found"`
	Missing    []string                    `json:"missing"`
}

func (s *Server) sessionResponse(sess *session, doc *types.ResumeDocument) SessionResponse {
	id, label := sess.stored()
	resp := SessionResponse{
		SessionID: sess.id.String(),
		Label:     label,
		Document:  doc,
		CanUndo:   sess.editor.CanUndo(),
		CanRedo:   sess.editor.CanRedo(),
	}
	if id != uuid.Nil {
		resp.DocumentID = id.String()
	}
	return resp
}

// respondDocument writes the session state with doc as the current document
func (s *Server) respondDocument(w http.ResponseWriter, sess *session, doc *types.ResumeDocument) {
	s.jsonResponse(w, http.StatusOK, s.sessionResponse(sess, doc))
}

// handleCreateSession opens a new editor session
func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	var req CreateSessionRequest
	if err := s.decodeJSON(w, r, &req); err != nil {
		s.failure(w, r, err)
		return
	}

	var (
		doc        *types.ResumeDocument
		documentID uuid.UUID
		label      string
	)
	switch {
	case req.DocumentID != "":
		if s.store == nil {
			s.failure(w, r, &ErrUnavailable{Feature: "document storage"})
			return
		}
		documentID = uuid.MustParse(req.DocumentID)
		stored, err := s.store.GetDocument(r.Context(), documentID)
		if err != nil {
			s.failure(w, r, err)
			return
		}
		if stored == nil {
			s.failure(w, r, &ErrDocumentNotFound{DocumentID: documentID})
			return
		}
		doc, label = stored.Document, stored.Label
	case len(req.Document) > 0:
		decoded, err := editor.DecodeDocument(req.Document)
		if err != nil {
			s.failure(w, r, err)
			return
		}
		doc = decoded
	}

	if s.sanitizer != nil {
		doc = editor.CleanLegacyText(doc, s.sanitizer)
	}

	ed := editor.New(doc, editor.Options{
		Logger:     s.log,
		ReplayHold: s.cfg.ReplayHold(),
	})
	sess := s.sessions.add(ed, documentID, label)
	s.log.Info().Str("session", sess.id.String()).Msg("session opened")

	s.jsonResponse(w, http.StatusCreated, s.sessionResponse(sess, ed.Document()))
}

// handleGetSession returns the current document of a session
func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	sess, err := s.session(r)
	if err != nil {
		s.failure(w, r, err)
		return
	}
	s.respondDocument(w, sess, sess.editor.Document())
}

// handleCloseSession discards a session and its history
func (s *Server) handleCloseSession(w http.ResponseWriter, r *http.Request) {
	sess, err := s.session(r)
	if err != nil {
		s.failure(w, r, err)
		return
	}
	s.sessions.remove(sess.id)
	w.WriteHeader(http.StatusNoContent)
}

// handleUndo steps back one history entry. At the oldest entry it is a no-op.
func (s *Server) handleUndo(w http.ResponseWriter, r *http.Request) {
	sess, err := s.session(r)
	if err != nil {
		s.failure(w, r, err)
		return
	}
	doc, _ := sess.editor.Undo()
	s.respondDocument(w, sess, doc)
}

// handleRedo steps forward one history entry. At the newest entry it is a no-op.
func (s *Server) handleRedo(w http.ResponseWriter, r *http.Request) {
	sess, err := s.session(r)
	if err != nil {
		s.failure(w, r, err)
		return
	}
	doc, _ := sess.editor.Redo()
	s.respondDocument(w, sess, doc)
}

// handleSaveSession persists the current document, creating it on first save
func (s *Server) handleSaveSession(w http.ResponseWriter, r *http.Request) {
	sess, err := s.session(r)
	if err != nil {
		s.failure(w, r, err)
		return
	}
	if s.store == nil {
		s.failure(w, r, &ErrUnavailable{Feature: "document storage"})
		return
	}

	var req SaveRequest
	if err := s.decodeJSON(w, r, &req); err != nil {
		s.failure(w, r, err)
		return
	}

	id, label := sess.stored()
	if req.Label != "" {
		label = req.Label
	}
	id, err = s.store.SaveDocument(r.Context(), id, label, sess.editor.Document())
	if err != nil {
		s.failure(w, r, err)
		return
	}
	sess.setStored(id, label)
	s.log.Info().Str("session", sess.id.String()).Str("document", id.String()).Msg("document saved")

	s.jsonResponse(w, http.StatusOK, SaveResponse{DocumentID: id.String(), Label: label})
}

// handleImport applies a parsed-résumé JSON body to the session as one edit
func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	sess, err := s.session(r)
	if err != nil {
		s.failure(w, r, err)
		return
	}

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	parsed, err := editor.DecodeParsedResume(body)
	if err != nil {
		s.failure(w, r, err)
		return
	}
	s.respondDocument(w, sess, sess.editor.ImportParsed(parsed))
}

// handleParse uploads a résumé file to the backend parser and imports the result
func (s *Server) handleParse(w http.ResponseWriter, r *http.Request) {
	sess, err := s.session(r)
	if err != nil {
		s.failure(w, r, err)
		return
	}
	if s.backend == nil {
		s.failure(w, r, &ErrUnavailable{Feature: "resume parsing"})
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	file, header, err := r.FormFile("file")
	if err != nil {
		s.failure(w, r, &ErrValidation{Field: "file", Message: err.Error()})
		return
	}
	defer func() { _ = file.Close() }()

	parsed, err := s.backend.ParseResume(r.Context(), header.Filename, file)
	if err != nil {
		s.failure(w, r, err)
		return
	}
	s.respondDocument(w, sess, sess.editor.ImportParsed(parsed))
}

// handleHighlights matches keywords against every bullet. An empty body uses
// the keywords from the session's last analysis, or the cached preference.
func (s *Server) handleHighlights(w http.ResponseWriter, r *http.Request) {
	sess, err := s.session(r)
	if err != nil {
		s.failure(w, r, err)
		return
	}

	var set types.JDKeywordSet
	if err := s.decodeJSON(w, r, &set); err != nil {
		s.failure(w, r, err)
		return
	}

	active := &set
	if active.IsEmpty() {
		active = s.sessionKeywords(r, sess)
	} else {
		s.rememberKeywords(r, sess, active)
	}

	doc := sess.editor.Document()
	found, missing := keywords.Coverage(doc, active)
	s.jsonResponse(w, http.StatusOK, HighlightsResponse{
		Highlights: sess.editor.Highlights(active),
		Found:      found,
		Missing:    missing,
	})
}

// sessionKeywords returns the last keyword set seen by the session, falling
// back to the preference cache. It never returns nil.
func (s *Server) sessionKeywords(r *http.Request, sess *session) *types.JDKeywordSet {
	if set := sess.cachedKeywords(); set != nil {
		return set
	}
	if s.prefs != nil {
		set, err := s.prefs.CachedKeywords(r.Context(), sess.prefScope())
		if err != nil {
			s.log.Warn().Err(err).Msg("failed to read cached keywords")
		} else if set != nil {
			sess.setKeywords(set)
			return set
		}
	}
	return &types.JDKeywordSet{}
}

// rememberKeywords caches a keyword set on the session and in preferences
func (s *Server) rememberKeywords(r *http.Request, sess *session, set *types.JDKeywordSet) {
	sess.setKeywords(set)
	if s.prefs == nil {
		return
	}
	if err := s.prefs.SetCachedKeywords(r.Context(), sess.prefScope(), set); err != nil {
		s.log.Warn().Err(err).Msg("failed to cache keywords")
	}
}
