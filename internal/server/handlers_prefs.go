package server

import (
	"encoding/json"
	"io"
	"net/http"
)

// prefsAvailable reports whether preferences are configured, writing 503 when not
func (s *Server) prefsAvailable(w http.ResponseWriter, r *http.Request) bool {
	if s.prefs == nil {
		s.failure(w, r, &ErrUnavailable{Feature: "preferences"})
		return false
	}
	return true
}

// handleListPrefs returns the keys stored under a scope
func (s *Server) handleListPrefs(w http.ResponseWriter, r *http.Request) {
	if !s.prefsAvailable(w, r) {
		return
	}
	keys, err := s.prefs.Keys(r.Context(), r.PathValue("scope"))
	if err != nil {
		s.failure(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]any{"keys": keys})
}

// handleGetPref returns one stored JSON value
func (s *Server) handleGetPref(w http.ResponseWriter, r *http.Request) {
	if !s.prefsAvailable(w, r) {
		return
	}

	var value json.RawMessage
	ok, err := s.prefs.Get(r.Context(), r.PathValue("scope"), r.PathValue("key"), &value)
	if err != nil {
		s.failure(w, r, err)
		return
	}
	if !ok {
		s.errorResponse(w, http.StatusNotFound, "preference not found")
		return
	}
	s.jsonResponse(w, http.StatusOK, value)
}

// handlePutPref stores any JSON value under scope and key
func (s *Server) handlePutPref(w http.ResponseWriter, r *http.Request) {
	if !s.prefsAvailable(w, r) {
		return
	}

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil || !json.Valid(body) {
		s.failure(w, r, &ErrValidation{Field: "body", Message: "must be a JSON value"})
		return
	}
	if err := s.prefs.Put(r.Context(), r.PathValue("scope"), r.PathValue("key"), json.RawMessage(body)); err != nil {
		s.failure(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleDeletePref removes one stored value
func (s *Server) handleDeletePref(w http.ResponseWriter, r *http.Request) {
	if !s.prefsAvailable(w, r) {
		return
	}
	if err := s.prefs.Delete(r.Context(), r.PathValue("scope"), r.PathValue("key")); err != nil {
		s.failure(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
