package server

import (
	"net/http"
	"strconv"

	"github.com/google/uuid"

	"github.com/jonathan/resume-editor/internal/db"
	"github.com/jonathan/resume-editor/internal/rendering"
)

// FormatPDF is served on demand and never stored
const FormatPDF = "pdf"

var contentTypes = map[string]string{
	db.FormatLaTeX: "application/x-latex; charset=utf-8",
	db.FormatHTML:  "text/html; charset=utf-8",
	FormatPDF:      "application/pdf",
}

// contactOrder reads the preferred contact field order for the session
func (s *Server) contactOrder(r *http.Request, sess *session) []string {
	if s.prefs == nil {
		return nil
	}
	order, err := s.prefs.ContactOrder(r.Context(), sess.prefScope())
	if err != nil {
		s.log.Warn().Err(err).Msg("failed to read contact order")
		return nil
	}
	return order
}

// handleExport renders the visible document as LaTeX, HTML or PDF. Text
// exports of saved sessions are also stored.
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	sess, err := s.session(r)
	if err != nil {
		s.failure(w, r, err)
		return
	}

	format := r.PathValue("format")
	contentType, ok := contentTypes[format]
	if !ok {
		s.failure(w, r, &ErrValidation{Field: "format", Message: "must be one of latex, html, pdf"})
		return
	}

	doc := sess.editor.Document()
	order := s.contactOrder(r, sess)

	var body []byte
	switch format {
	case FormatPDF:
		body, err = rendering.RenderPDF(r.Context(), doc, order, rendering.DefaultPDFTimeout)
	case db.FormatHTML:
		var out string
		out, err = rendering.RenderHTML(doc, order)
		body = []byte(out)
	default:
		var out string
		out, err = rendering.RenderLaTeX(doc, s.cfg.Template, order)
		body = []byte(out)
	}
	if err != nil {
		s.failure(w, r, err)
		return
	}

	if id, _ := sess.stored(); id != uuid.Nil && s.store != nil && format != FormatPDF {
		if err := s.store.SaveExport(r.Context(), id, format, string(body)); err != nil {
			s.log.Warn().Err(err).Str("document", id.String()).Str("format", format).Msg("failed to store export")
		}
	}

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Length", strconv.Itoa(len(body)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}
