package server

import (
	"net/http"
	"strconv"

	"github.com/google/uuid"
)

// documentID parses the {id} path value as a stored document ID
func documentID(r *http.Request) (uuid.UUID, error) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		return uuid.Nil, &ErrValidation{Field: "id", Message: "invalid document ID"}
	}
	return id, nil
}

// handleListDocuments returns stored documents, most recently updated first
func (s *Server) handleListDocuments(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		s.failure(w, r, &ErrUnavailable{Feature: "document storage"})
		return
	}

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			s.failure(w, r, &ErrValidation{Field: "limit", Message: "must be a non-negative integer"})
			return
		}
		limit = n
	}

	docs, err := s.store.ListDocuments(r.Context(), limit)
	if err != nil {
		s.failure(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]any{"documents": docs, "count": len(docs)})
}

// handleGetDocument returns one stored document
func (s *Server) handleGetDocument(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		s.failure(w, r, &ErrUnavailable{Feature: "document storage"})
		return
	}
	id, err := documentID(r)
	if err != nil {
		s.failure(w, r, err)
		return
	}

	stored, err := s.store.GetDocument(r.Context(), id)
	if err != nil {
		s.failure(w, r, err)
		return
	}
	if stored == nil {
		s.failure(w, r, &ErrDocumentNotFound{DocumentID: id})
		return
	}
	s.jsonResponse(w, http.StatusOK, stored)
}

// handleDeleteDocument removes a stored document and its exports
func (s *Server) handleDeleteDocument(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		s.failure(w, r, &ErrUnavailable{Feature: "document storage"})
		return
	}
	id, err := documentID(r)
	if err != nil {
		s.failure(w, r, err)
		return
	}

	deleted, err := s.store.DeleteDocument(r.Context(), id)
	if err != nil {
		s.failure(w, r, err)
		return
	}
	if !deleted {
		s.failure(w, r, &ErrDocumentNotFound{DocumentID: id})
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleGetExport returns the latest stored rendering of a document
func (s *Server) handleGetExport(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		s.failure(w, r, &ErrUnavailable{Feature: "document storage"})
		return
	}
	id, err := documentID(r)
	if err != nil {
		s.failure(w, r, err)
		return
	}

	format := r.PathValue("format")
	contentType, ok := contentTypes[format]
	if !ok || format == FormatPDF {
		s.failure(w, r, &ErrValidation{Field: "format", Message: "must be one of latex, html"})
		return
	}

	export, err := s.store.GetExport(r.Context(), id, format)
	if err != nil {
		s.failure(w, r, err)
		return
	}
	if export == nil {
		s.errorResponse(w, http.StatusNotFound, "no "+format+" export for document "+id.String())
		return
	}

	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(export.Content))
}
