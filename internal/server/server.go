// Package server provides the HTTP REST API over resume editor sessions.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/jonathan/resume-editor/internal/assist"
	"github.com/jonathan/resume-editor/internal/config"
	"github.com/jonathan/resume-editor/internal/db"
	"github.com/jonathan/resume-editor/internal/prefs"
	"github.com/jonathan/resume-editor/internal/sanitize"
	"github.com/jonathan/resume-editor/internal/server/ratelimit"
	"github.com/jonathan/resume-editor/internal/types"
)

// maxBodyBytes bounds JSON request bodies
const maxBodyBytes = 2 << 20

// Store persists documents and their exports. *db.DB implements it.
type Store interface {
	SaveDocument(ctx context.Context, id uuid.UUID, label string, doc *types.ResumeDocument) (uuid.UUID, error)
	GetDocument(ctx context.Context, id uuid.UUID) (*db.StoredDocument, error)
	ListDocuments(ctx context.Context, limit int) ([]db.DocumentSummary, error)
	DeleteDocument(ctx context.Context, id uuid.UUID) (bool, error)
	SaveExport(ctx context.Context, documentID uuid.UUID, format, content string) error
	GetExport(ctx context.Context, documentID uuid.UUID, format string) (*db.Export, error)
}

// Backend is the external parsing and scoring service. *backend.Client implements it.
type Backend interface {
	Analyze(ctx context.Context, doc *types.ResumeDocument, jobDescription string) (*types.Analysis, error)
	ParseResume(ctx context.Context, filename string, content io.Reader) (*types.ParsedResume, error)
}

// Deps holds the server's collaborators. Every field except Logger may be
// nil; endpoints that need a missing dependency answer 503.
type Deps struct {
	Store       Store
	Prefs       *prefs.Store
	Assistant   *assist.Assistant
	Backend     Backend
	Sanitizer   sanitize.Sanitizer
	RateLimiter *ratelimit.Limiter
	Logger      zerolog.Logger
}

// Server represents the HTTP server
type Server struct {
	httpServer  *http.Server
	cfg         config.Config
	store       Store
	prefs       *prefs.Store
	assistant   *assist.Assistant
	backend     Backend
	sanitizer   sanitize.Sanitizer
	rateLimiter *ratelimit.Limiter
	sessions    *sessions
	validate    *validator.Validate
	log         zerolog.Logger
}

// New creates a new server instance
func New(cfg config.Config, deps Deps) *Server {
	s := &Server{
		cfg:         cfg,
		store:       deps.Store,
		prefs:       deps.Prefs,
		assistant:   deps.Assistant,
		backend:     deps.Backend,
		sanitizer:   deps.Sanitizer,
		rateLimiter: deps.RateLimiter,
		sessions:    newSessions(),
		validate:    validator.New(),
		log:         deps.Logger,
	}
	if s.rateLimiter == nil {
		s.rateLimiter = ratelimit.NewLimiter(ratelimit.LoadConfig())
	}

	s.httpServer = &http.Server{
		Addr:         cfg.Addr(),
		Handler:      s.Handler(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second, // Backend calls and PDF printing
		IdleTimeout:  60 * time.Second,
	}
	return s
}

// Handler returns the routed handler wrapped in the middleware chain
func (s *Server) Handler() http.Handler {
	return s.withRateLimit(s.withLogging(s.withCORS(s.routes())))
}

func (s *Server) routes() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", s.handleHealth)

	// Session lifecycle
	mux.HandleFunc("POST /sessions", s.handleCreateSession)
	mux.HandleFunc("GET /sessions/{id}", s.handleGetSession)
	mux.HandleFunc("DELETE /sessions/{id}", s.handleCloseSession)
	mux.HandleFunc("POST /sessions/{id}/undo", s.handleUndo)
	mux.HandleFunc("POST /sessions/{id}/redo", s.handleRedo)
	mux.HandleFunc("POST /sessions/{id}/save", s.handleSaveSession)

	// Top-level fields
	mux.HandleFunc("POST /sessions/{id}/fields", s.handleUpdateField)
	mux.HandleFunc("POST /sessions/{id}/fields/{field}/toggle", s.handleToggleField)

	// Sections
	mux.HandleFunc("POST /sessions/{id}/sections", s.handleAddSection)
	mux.HandleFunc("PATCH /sessions/{id}/sections/{sid}", s.handleUpdateSection)
	mux.HandleFunc("DELETE /sessions/{id}/sections/{sid}", s.handleRemoveSection)
	mux.HandleFunc("POST /sessions/{id}/sections/{sid}/move", s.handleMoveSection)
	mux.HandleFunc("POST /sessions/{id}/sections/{sid}/toggle", s.handleToggleSection)

	// Company groups
	mux.HandleFunc("GET /sessions/{id}/sections/{sid}/groups", s.handleListGroups)
	mux.HandleFunc("POST /sessions/{id}/sections/{sid}/groups/move", s.handleMoveGroup)

	// Bullets
	mux.HandleFunc("POST /sessions/{id}/sections/{sid}/bullets", s.handleAddBullet)
	mux.HandleFunc("PUT /sessions/{id}/sections/{sid}/bullets/{bid}", s.handleUpdateBullet)
	mux.HandleFunc("DELETE /sessions/{id}/sections/{sid}/bullets/{bid}", s.handleRemoveBullet)
	mux.HandleFunc("POST /sessions/{id}/sections/{sid}/bullets/{bid}/toggle", s.handleToggleBullet)

	// Import, keywords and AI assistance
	mux.HandleFunc("POST /sessions/{id}/import", s.handleImport)
	mux.HandleFunc("POST /sessions/{id}/parse", s.handleParse)
	mux.HandleFunc("POST /sessions/{id}/highlights", s.handleHighlights)
	mux.HandleFunc("POST /sessions/{id}/analyze", s.handleAnalyze)
	mux.HandleFunc("POST /sessions/{id}/assist/bullets", s.handleSuggestBullets)
	mux.HandleFunc("POST /sessions/{id}/assist/bullets/apply", s.handleApplySuggestion)
	mux.HandleFunc("POST /sessions/{id}/assist/summary", s.handleGenerateSummary)

	// Export
	mux.HandleFunc("GET /sessions/{id}/export/{format}", s.handleExport)

	// Stored documents
	mux.HandleFunc("GET /documents", s.handleListDocuments)
	mux.HandleFunc("GET /documents/{id}", s.handleGetDocument)
	mux.HandleFunc("DELETE /documents/{id}", s.handleDeleteDocument)
	mux.HandleFunc("GET /documents/{id}/exports/{format}", s.handleGetExport)

	// UI preferences
	mux.HandleFunc("GET /prefs/{scope}", s.handleListPrefs)
	mux.HandleFunc("GET /prefs/{scope}/{key}", s.handleGetPref)
	mux.HandleFunc("PUT /prefs/{scope}/{key}", s.handlePutPref)
	mux.HandleFunc("DELETE /prefs/{scope}/{key}", s.handleDeletePref)
	return mux
}

// Start begins listening for requests
func (s *Server) Start() error {
	// Graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	errCh := make(chan error, 1)
	go func() {
		s.log.Info().Str("addr", s.httpServer.Addr).Msg("server starting")
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case <-stop:
	case err := <-errCh:
		s.Close()
		return fmt.Errorf("server error: %w", err)
	}
	s.log.Info().Msg("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	s.Close()
	s.log.Info().Msg("server stopped")
	return nil
}

// Close releases open sessions and stops the rate limiter cleanup goroutine
func (s *Server) Close() {
	s.sessions.closeAll()
	if s.rateLimiter != nil {
		s.rateLimiter.Stop()
	}
}

// withCORS adds CORS headers
func (s *Server) withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// withRateLimit adds rate limiting middleware
func (s *Server) withRateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		clientID := s.extractClientID(r)

		allowed, info := s.rateLimiter.Allow(clientID, r)
		if info.Blocked {
			s.log.Warn().Str("client", clientID).Str("path", r.URL.Path).Msg("request from blocked client")
			s.errorResponse(w, http.StatusForbidden, "client is blocked")
			return
		}
		s.setRateLimitHeaders(w, info)
		if !allowed {
			s.rateLimitResponse(w, r, info)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// statusRecorder captures the response status for request logging
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// withLogging adds request logging
func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.log.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Str("remote", r.RemoteAddr).
			Int("status", rec.status).
			Dur("took", time.Since(start)).
			Msg("request")
	})
}

// handleHealth returns server health status
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]any{
		"status":   "ok",
		"sessions": s.sessions.count(),
	})
}

// jsonResponse writes a JSON response
func (s *Server) jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.log.Error().Err(err).Msg("failed to encode JSON response")
	}
}

// errorResponse writes an error JSON response
func (s *Server) errorResponse(w http.ResponseWriter, status int, message string) {
	s.jsonResponse(w, status, map[string]string{"error": message})
}

// failure maps err to a status and writes it. Server-side failures are logged.
func (s *Server) failure(w http.ResponseWriter, r *http.Request, err error) {
	status := HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		s.log.Error().Err(err).Str("path", r.URL.Path).Int("status", status).Msg("request failed")
	}
	s.errorResponse(w, status, err.Error())
}

// decodeJSON reads a JSON body into v and validates its struct tags. An empty
// body decodes as the zero value.
func (s *Server) decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	body := http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(body).Decode(v); err != nil && !errors.Is(err, io.EOF) {
		return &ErrValidation{Field: "body", Message: "invalid JSON: " + err.Error()}
	}
	if err := s.validate.Struct(v); err != nil {
		return validationError(err)
	}
	return nil
}

// extractClientID extracts the client identifier from the request.
// This uses the IP address from RemoteAddr.
func (s *Server) extractClientID(r *http.Request) string {
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}

// setRateLimitHeaders sets standard rate limit headers on the response.
func (s *Server) setRateLimitHeaders(w http.ResponseWriter, info ratelimit.Info) {
	if info.Limit > 0 {
		w.Header().Set("X-RateLimit-Limit", fmt.Sprintf("%d", info.Limit))
		w.Header().Set("X-RateLimit-Remaining", fmt.Sprintf("%d", info.Remaining))
		w.Header().Set("X-RateLimit-Reset", fmt.Sprintf("%d", info.ResetTime.Unix()))
		w.Header().Set("X-RateLimit-Policy", info.Rule)
	}
}

// rateLimitResponse writes a 429 Too Many Requests response with rate limit information.
func (s *Server) rateLimitResponse(w http.ResponseWriter, r *http.Request, info ratelimit.Info) {
	response := map[string]any{
		"error":     "rate_limit_exceeded",
		"message":   "Rate limit exceeded. Please try again later.",
		"rule":      info.Rule,
		"limit":     info.Limit,
		"remaining": info.Remaining,
		"reset_at":  info.ResetTime.Format(time.RFC3339),
	}

	if info.RetryAfter > 0 {
		seconds := int(info.RetryAfter.Seconds())
		if seconds < 1 {
			seconds = 1
		}
		response["retry_after"] = seconds
		w.Header().Set("Retry-After", fmt.Sprintf("%d", seconds))
	}

	s.log.Warn().
		Str("path", r.URL.Path).
		Str("rule", info.Rule).
		Int("limit", info.Limit).
		Time("reset", info.ResetTime).
		Msg("rate limit exceeded")

	s.jsonResponse(w, http.StatusTooManyRequests, response)
}
