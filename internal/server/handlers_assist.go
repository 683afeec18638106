package server

import (
	"net/http"

	"github.com/jonathan/resume-editor/internal/types"
)

// SuggestBulletsRequest asks for rewritten options of one bullet. Without
// keywords the session's cached job description keywords are used.
type SuggestBulletsRequest struct {
	SectionID types.ID `json:"section_id" validate:"required"`
	BulletID  types.ID `json:"bullet_id" validate:"required"`
	Keywords  []string `json:"keywords,omitempty" validate:"omitempty,max=20,dive,max=100"`
	Count     int      `json:"count,omitempty" validate:"omitempty,min=1,max=10"`
}

// SuggestBulletsResponse carries the generated options. Nothing is applied.
type SuggestBulletsResponse struct {
	Options []string `json:"options"`
}

// ApplySuggestionRequest writes a chosen option into a bullet
type ApplySuggestionRequest struct {
	SectionID types.ID `json:"section_id" validate:"required"`
	BulletID  types.ID `json:"bullet_id" validate:"required"`
	Text      string   `json:"text" validate:"required,max=5000"`
	Keywords  []string `json:"keywords,omitempty" validate:"omitempty,max=20,dive,max=100"`
}

// GenerateSummaryRequest asks for a professional summary
type GenerateSummaryRequest struct {
	Keywords []string `json:"keywords,omitempty" validate:"omitempty,max=20,dive,max=100"`
}

// AnalyzeRequest grades the session document against a job description
type AnalyzeRequest struct {
	JobDescription string `json:"job_description" validate:"required,max=50000"`
}

// keywordSet prefers explicit request keywords over the session cache
func (s *Server) keywordSet(r *http.Request, sess *session, explicit []string) *types.JDKeywordSet {
	if len(explicit) > 0 {
		return &types.JDKeywordSet{Priority: explicit}
	}
	return s.sessionKeywords(r, sess)
}

// handleSuggestBullets returns generated options for one bullet
func (s *Server) handleSuggestBullets(w http.ResponseWriter, r *http.Request) {
	sess, err := s.session(r)
	if err != nil {
		s.failure(w, r, err)
		return
	}
	if s.assistant == nil {
		s.failure(w, r, &ErrUnavailable{Feature: "writing assistance"})
		return
	}

	var req SuggestBulletsRequest
	if err := s.decodeJSON(w, r, &req); err != nil {
		s.failure(w, r, err)
		return
	}

	set := s.keywordSet(r, sess, req.Keywords)
	options, err := s.assistant.SuggestBullets(r.Context(), sess.editor, req.SectionID, req.BulletID, set, req.Count)
	if err != nil {
		s.failure(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, SuggestBulletsResponse{Options: options})
}

// handleApplySuggestion applies a chosen option as a single edit
func (s *Server) handleApplySuggestion(w http.ResponseWriter, r *http.Request) {
	sess, err := s.session(r)
	if err != nil {
		s.failure(w, r, err)
		return
	}
	if s.assistant == nil {
		s.failure(w, r, &ErrUnavailable{Feature: "writing assistance"})
		return
	}

	var req ApplySuggestionRequest
	if err := s.decodeJSON(w, r, &req); err != nil {
		s.failure(w, r, err)
		return
	}

	doc := s.assistant.ApplySuggestion(sess.editor, req.SectionID, req.BulletID, req.Text, req.Keywords)
	s.respondDocument(w, sess, doc)
}

// handleGenerateSummary generates and sets the summary. On failure the
// document is unchanged.
func (s *Server) handleGenerateSummary(w http.ResponseWriter, r *http.Request) {
	sess, err := s.session(r)
	if err != nil {
		s.failure(w, r, err)
		return
	}
	if s.assistant == nil {
		s.failure(w, r, &ErrUnavailable{Feature: "writing assistance"})
		return
	}

	var req GenerateSummaryRequest
	if err := s.decodeJSON(w, r, &req); err != nil {
		s.failure(w, r, err)
		return
	}

	doc, err := s.assistant.GenerateSummary(r.Context(), sess.editor, s.keywordSet(r, sess, req.Keywords))
	if err != nil {
		s.failure(w, r, err)
		return
	}
	s.respondDocument(w, sess, doc)
}

// handleAnalyze fetches job description keywords and an ATS score for the
// current document. The keywords become the session's highlight set.
func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	sess, err := s.session(r)
	if err != nil {
		s.failure(w, r, err)
		return
	}
	if s.backend == nil {
		s.failure(w, r, &ErrUnavailable{Feature: "job description analysis"})
		return
	}

	var req AnalyzeRequest
	if err := s.decodeJSON(w, r, &req); err != nil {
		s.failure(w, r, err)
		return
	}

	analysis, err := s.backend.Analyze(r.Context(), sess.editor.Document(), req.JobDescription)
	if err != nil {
		s.failure(w, r, err)
		return
	}
	if analysis.Keywords != nil {
		s.rememberKeywords(r, sess, analysis.Keywords)
	}
	s.jsonResponse(w, http.StatusOK, analysis)
}
