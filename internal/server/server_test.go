package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/netip"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/resume-editor/internal/assist"
	"github.com/jonathan/resume-editor/internal/backend"
	"github.com/jonathan/resume-editor/internal/config"
	"github.com/jonathan/resume-editor/internal/db"
	"github.com/jonathan/resume-editor/internal/prefs"
	"github.com/jonathan/resume-editor/internal/sanitize"
	"github.com/jonathan/resume-editor/internal/server/ratelimit"
	"github.com/jonathan/resume-editor/internal/types"
)

// memStore is an in-memory Store
type memStore struct {
	mu      sync.Mutex
	docs    map[uuid.UUID]*db.StoredDocument
	exports map[string]*db.Export
}

func newMemStore() *memStore {
	return &memStore{docs: map[uuid.UUID]*db.StoredDocument{}, exports: map[string]*db.Export{}}
}

func (m *memStore) SaveDocument(_ context.Context, id uuid.UUID, label string, doc *types.ResumeDocument) (uuid.UUID, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if id == uuid.Nil {
		id = uuid.New()
	}
	m.docs[id] = &db.StoredDocument{ID: id, Label: label, Document: doc.Clone(), UpdatedAt: time.Now()}
	return id, nil
}

func (m *memStore) GetDocument(_ context.Context, id uuid.UUID) (*db.StoredDocument, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.docs[id], nil
}

func (m *memStore) ListDocuments(_ context.Context, _ int) ([]db.DocumentSummary, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []db.DocumentSummary{}
	for _, d := range m.docs {
		out = append(out, db.DocumentSummary{ID: d.ID, Label: d.Label, Name: d.Document.Name, UpdatedAt: d.UpdatedAt})
	}
	return out, nil
}

func (m *memStore) DeleteDocument(_ context.Context, id uuid.UUID) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.docs[id]
	delete(m.docs, id)
	return ok, nil
}

func (m *memStore) SaveExport(_ context.Context, id uuid.UUID, format, content string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.exports[id.String()+"/"+format] = &db.Export{DocumentID: id, Format: format, Content: content}
	return nil
}

func (m *memStore) GetExport(_ context.Context, id uuid.UUID, format string) (*db.Export, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.exports[id.String()+"/"+format], nil
}

// fakeBackend serves canned analysis and parse results
type fakeBackend struct {
	analysis *types.Analysis
	parsed   *types.ParsedResume
	err      error
	gotJD    string
	gotFile  string
}

func (f *fakeBackend) Analyze(_ context.Context, _ *types.ResumeDocument, jd string) (*types.Analysis, error) {
	f.gotJD = jd
	return f.analysis, f.err
}

func (f *fakeBackend) ParseResume(_ context.Context, filename string, content io.Reader) (*types.ParsedResume, error) {
	data, _ := io.ReadAll(content)
	f.gotFile = filename + ":" + string(data)
	return f.parsed, f.err
}

// fakeGenerator returns fixed assistant output
type fakeGenerator struct {
	options []string
	summary string
	err     error
	gotKeys []string
}

func (f *fakeGenerator) SuggestBullets(_ context.Context, req types.BulletRequest) (*types.BulletOptions, error) {
	f.gotKeys = req.Keywords
	return &types.BulletOptions{Options: f.options}, f.err
}

func (f *fakeGenerator) GenerateSummary(_ context.Context, req types.SummaryRequest) (*types.SummaryResponse, error) {
	f.gotKeys = req.Keywords
	return &types.SummaryResponse{Summary: f.summary}, f.err
}

const workDocument = `{
	"name": "Ada Lovelace",
	"title": "Engineer",
	"contact": {"email": "ada@example.com"},
	"sections": [
		{"id": "s1", "title": "Work Experience", "bullets": [
			{"id": "h1", "text": "**Acme Corp / Engineer / 2020-Present**"},
			{"id": "d1", "text": "• Built the billing pipeline"},
			{"id": "h2", "text": "**Globex / Analyst / 2018-2020**"},
			{"id": "d2", "text": "• Modeled churn"}
		]},
		{"id": "s2", "title": "Skills", "bullets": [{"id": "k1", "text": "Go, SQL"}]}
	]
}`

func newTestServer(t *testing.T, deps Deps) *Server {
	t.Helper()
	cfg := config.Defaults()
	cfg.ReplayHoldMS = 1
	if deps.RateLimiter == nil {
		deps.RateLimiter = ratelimit.NewLimiter(&ratelimit.Config{Enabled: false})
	}
	deps.Logger = zerolog.Nop()
	s := New(cfg, deps)
	t.Cleanup(s.Close)
	return s
}

func request(t *testing.T, s *Server, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)
	return w
}

func decodeBody[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

func openSession(t *testing.T, s *Server, document string) SessionResponse {
	t.Helper()
	body := `{}`
	if document != "" {
		body = `{"document": ` + document + `}`
	}
	w := request(t, s, http.MethodPost, "/sessions", body)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	return decodeBody[SessionResponse](t, w)
}

func bulletIDs(s types.Section) []string {
	out := make([]string, len(s.Bullets))
	for i, b := range s.Bullets {
		out[i] = string(b.ID)
	}
	return out
}

func TestHealthEndpoint(t *testing.T) {
	s := newTestServer(t, Deps{})

	w := request(t, s, http.MethodGet, "/health", "")

	assert.Equal(t, http.StatusOK, w.Code)
	resp := decodeBody[map[string]any](t, w)
	assert.Equal(t, "ok", resp["status"])
}

func TestCreateSession(t *testing.T) {
	s := newTestServer(t, Deps{})

	t.Run("empty", func(t *testing.T) {
		resp := openSession(t, s, "")
		assert.NotEmpty(t, resp.SessionID)
		assert.Empty(t, resp.Document.Sections)
		assert.False(t, resp.CanUndo)
	})

	t.Run("inline document", func(t *testing.T) {
		resp := openSession(t, s, workDocument)
		require.Len(t, resp.Document.Sections, 2)
		assert.Equal(t, "Ada Lovelace", resp.Document.Name)
	})

	t.Run("schema failure", func(t *testing.T) {
		w := request(t, s, http.MethodPost, "/sessions", `{"document": {"name": "no sections"}}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("invalid document id", func(t *testing.T) {
		w := request(t, s, http.MethodPost, "/sessions", `{"document_id": "nope"}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "DocumentID")
	})

	t.Run("stored document without storage", func(t *testing.T) {
		w := request(t, s, http.MethodPost, "/sessions", `{"document_id": "`+uuid.NewString()+`"}`)
		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	})
}

func TestCreateSession_SanitizesLegacyText(t *testing.T) {
	s := newTestServer(t, Deps{Sanitizer: sanitize.RegexSanitizer{}})

	resp := openSession(t, s, `{"name": "<b>Ada</b>", "sections": []}`)

	assert.Equal(t, "Ada", resp.Document.Name)
}

func TestUnknownSession(t *testing.T) {
	s := newTestServer(t, Deps{})

	for _, path := range []string{"/sessions/" + uuid.NewString(), "/sessions/not-a-uuid"} {
		w := request(t, s, http.MethodGet, path, "")
		assert.Equal(t, http.StatusNotFound, w.Code, path)
	}
}

func TestEditsAndUndoRedo(t *testing.T) {
	s := newTestServer(t, Deps{})
	sess := openSession(t, s, workDocument)
	base := "/sessions/" + sess.SessionID

	w := request(t, s, http.MethodPut, base+"/sections/s2/bullets/k1", `{"text": "Go, SQL, Kafka"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	resp := decodeBody[SessionResponse](t, w)
	assert.Equal(t, "Go, SQL, Kafka", resp.Document.Sections[1].Bullets[0].Text)
	assert.True(t, resp.CanUndo)

	w = request(t, s, http.MethodPost, base+"/undo", "")
	resp = decodeBody[SessionResponse](t, w)
	assert.Equal(t, "Go, SQL", resp.Document.Sections[1].Bullets[0].Text)
	assert.True(t, resp.CanRedo)

	w = request(t, s, http.MethodPost, base+"/redo", "")
	resp = decodeBody[SessionResponse](t, w)
	assert.Equal(t, "Go, SQL, Kafka", resp.Document.Sections[1].Bullets[0].Text)
}

func TestMissingIDsAreNoOps(t *testing.T) {
	s := newTestServer(t, Deps{})
	sess := openSession(t, s, workDocument)
	base := "/sessions/" + sess.SessionID

	w := request(t, s, http.MethodPut, base+"/sections/sectionX/bullets/missing-id", `{"text": "new text"}`)

	require.Equal(t, http.StatusOK, w.Code)
	resp := decodeBody[SessionResponse](t, w)
	assert.Equal(t, sess.Document, resp.Document)
	assert.False(t, resp.CanUndo)
}

func TestFieldsAndSections(t *testing.T) {
	s := newTestServer(t, Deps{})
	sess := openSession(t, s, workDocument)
	base := "/sessions/" + sess.SessionID

	w := request(t, s, http.MethodPost, base+"/fields", `{"field": "summary", "value": "Systems engineer"}`)
	resp := decodeBody[SessionResponse](t, w)
	assert.Equal(t, "Systems engineer", resp.Document.Summary)

	w = request(t, s, http.MethodPost, base+"/fields", `{"value": "x"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = request(t, s, http.MethodPost, base+"/fields/email/toggle", "")
	resp = decodeBody[SessionResponse](t, w)
	assert.False(t, resp.Document.IsFieldVisible("email"))

	w = request(t, s, http.MethodPost, base+"/sections", "")
	resp = decodeBody[SessionResponse](t, w)
	require.Len(t, resp.Document.Sections, 3)
	assert.Equal(t, "New Section", resp.Document.Sections[2].Title)

	w = request(t, s, http.MethodPost, base+"/sections/s2/move", `{"direction": "up"}`)
	resp = decodeBody[SessionResponse](t, w)
	assert.Equal(t, "Skills", resp.Document.Sections[0].Title)

	w = request(t, s, http.MethodPost, base+"/sections/s2/move", `{"direction": "sideways"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = request(t, s, http.MethodPatch, base+"/sections/s2", `{"title": "Technical Skills"}`)
	resp = decodeBody[SessionResponse](t, w)
	assert.Equal(t, "Technical Skills", resp.Document.Sections[0].Title)

	w = request(t, s, http.MethodPost, base+"/sections/s2/toggle", "")
	resp = decodeBody[SessionResponse](t, w)
	assert.True(t, resp.Document.Sections[0].Params.IsHidden())

	w = request(t, s, http.MethodDelete, base+"/sections/s2", "")
	resp = decodeBody[SessionResponse](t, w)
	assert.Len(t, resp.Document.Sections, 2)
}

func TestBulletsAndGroups(t *testing.T) {
	s := newTestServer(t, Deps{})
	sess := openSession(t, s, workDocument)
	base := "/sessions/" + sess.SessionID

	w := request(t, s, http.MethodGet, base+"/sections/s1/groups", "")
	require.Equal(t, http.StatusOK, w.Code)
	groups := decodeBody[map[string][]GroupResponse](t, w)["groups"]
	require.Len(t, groups, 2)
	require.NotNil(t, groups[0].Header)
	assert.Equal(t, "Acme Corp", groups[0].Header.Company)
	assert.Len(t, groups[0].Bullets, 2)

	w = request(t, s, http.MethodPost, base+"/sections/s1/bullets/h1/toggle", "")
	resp := decodeBody[SessionResponse](t, w)
	assert.Equal(t, []string{"h2", "d2", "h1", "d1"}, bulletIDs(resp.Document.Sections[0]))

	w = request(t, s, http.MethodPost, base+"/sections/s1/bullets/h1/toggle", `{"visible": true}`)
	resp = decodeBody[SessionResponse](t, w)
	assert.Equal(t, []string{"h1", "d1", "h2", "d2"}, bulletIDs(resp.Document.Sections[0]))

	w = request(t, s, http.MethodPost, base+"/sections/s1/groups/move", `{"from": 1, "to": 0}`)
	resp = decodeBody[SessionResponse](t, w)
	assert.Equal(t, []string{"h2", "d2", "h1", "d1"}, bulletIDs(resp.Document.Sections[0]))

	w = request(t, s, http.MethodPost, base+"/sections/s1/groups/move", `{"to": 0}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = request(t, s, http.MethodPost, base+"/sections/s2/bullets", `{"after": "k1"}`)
	resp = decodeBody[SessionResponse](t, w)
	require.Len(t, resp.Document.Sections[1].Bullets, 2)
	added := resp.Document.Sections[1].Bullets[1].ID

	w = request(t, s, http.MethodDelete, base+"/sections/s2/bullets/"+string(added), "")
	resp = decodeBody[SessionResponse](t, w)
	assert.Len(t, resp.Document.Sections[1].Bullets, 1)
}

func TestImport(t *testing.T) {
	s := newTestServer(t, Deps{})
	sess := openSession(t, s, workDocument)

	w := request(t, s, http.MethodPost, "/sessions/"+sess.SessionID+"/import",
		`{"name": "Grace Hopper", "jobs": [{"company": "Navy", "role": "Officer", "date": "1943", "bullets": ["Wrote compilers"]}]}`)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	resp := decodeBody[SessionResponse](t, w)
	assert.Equal(t, "Grace Hopper", resp.Document.Name)
	assert.Equal(t, "Navy", resp.Document.Sections[0].Title)

	w = request(t, s, http.MethodPost, "/sessions/"+sess.SessionID+"/import", `{"jobs": "nope"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestParse(t *testing.T) {
	fb := &fakeBackend{parsed: &types.ParsedResume{Name: "Parsed Person"}}
	s := newTestServer(t, Deps{Backend: fb})
	sess := openSession(t, s, workDocument)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", "resume.pdf")
	require.NoError(t, err)
	_, _ = part.Write([]byte("%PDF"))
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/sessions/"+sess.SessionID+"/parse", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "resume.pdf:%PDF", fb.gotFile)
	assert.Equal(t, "Parsed Person", decodeBody[SessionResponse](t, w).Document.Name)
}

func TestParse_WithoutBackend(t *testing.T) {
	s := newTestServer(t, Deps{})
	sess := openSession(t, s, "")

	w := request(t, s, http.MethodPost, "/sessions/"+sess.SessionID+"/parse", "")

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestAnalyzeThenHighlights(t *testing.T) {
	p, err := prefs.Open(prefs.MemoryPath)
	require.NoError(t, err)
	t.Cleanup(func() { _ = p.Close() })

	fb := &fakeBackend{analysis: &types.Analysis{
		Keywords: &types.JDKeywordSet{Matching: []string{"billing"}, Missing: []string{"Kafka"}},
		Score:    &types.ATSScore{Score: 72},
	}}
	s := newTestServer(t, Deps{Backend: fb, Prefs: p})
	sess := openSession(t, s, workDocument)
	base := "/sessions/" + sess.SessionID

	w := request(t, s, http.MethodPost, base+"/analyze", `{}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = request(t, s, http.MethodPost, base+"/analyze", `{"job_description": "Billing engineer with Kafka"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "Billing engineer with Kafka", fb.gotJD)
	assert.InDelta(t, 72, decodeBody[types.Analysis](t, w).Score.Score, 0.001)

	w = request(t, s, http.MethodPost, base+"/highlights", "")
	require.Equal(t, http.StatusOK, w.Code)
	hl := decodeBody[HighlightsResponse](t, w)
	require.Len(t, hl.Highlights, 2)
	assert.Equal(t, types.ID("s1"), hl.Highlights[0].SectionID)
	require.Len(t, hl.Highlights[0].Bullets, 4)
	assert.Equal(t, []string{"billing"}, hl.Highlights[0].Bullets[1].Match.Matched)
	assert.Equal(t, []string{"billing"}, hl.Found)
	assert.Equal(t, []string{"Kafka"}, hl.Missing)

	cached, err := p.CachedKeywords(context.Background(), sess.SessionID)
	require.NoError(t, err)
	require.NotNil(t, cached)
	assert.Equal(t, []string{"billing"}, cached.Matching)
}

func TestAnalyze_BackendFailure(t *testing.T) {
	fb := &fakeBackend{err: &backend.APIError{Endpoint: backend.PathATSScore, StatusCode: 500, Message: "down"}}
	s := newTestServer(t, Deps{Backend: fb})
	sess := openSession(t, s, workDocument)

	w := request(t, s, http.MethodPost, "/sessions/"+sess.SessionID+"/analyze", `{"job_description": "x"}`)

	assert.Equal(t, http.StatusBadGateway, w.Code)
}

func TestAssist(t *testing.T) {
	gen := &fakeGenerator{options: []string{"Built Kafka billing"}, summary: "Billing systems engineer"}
	s := newTestServer(t, Deps{Assistant: assist.New(gen, assist.Options{Timeout: time.Second})})
	sess := openSession(t, s, workDocument)
	base := "/sessions/" + sess.SessionID

	w := request(t, s, http.MethodPost, base+"/assist/bullets", `{"section_id": "s1", "bullet_id": "d1", "keywords": ["Kafka"]}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, []string{"Built Kafka billing"}, decodeBody[SuggestBulletsResponse](t, w).Options)
	assert.Equal(t, []string{"Kafka"}, gen.gotKeys)

	w = request(t, s, http.MethodGet, base, "")
	assert.False(t, decodeBody[SessionResponse](t, w).CanUndo, "suggesting must not edit")

	w = request(t, s, http.MethodPost, base+"/assist/bullets", `{"section_id": "s1", "bullet_id": "d1"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code, "no keywords anywhere")

	w = request(t, s, http.MethodPost, base+"/assist/bullets/apply",
		`{"section_id": "s1", "bullet_id": "d1", "text": "• Built Kafka billing", "keywords": ["Kafka"]}`)
	resp := decodeBody[SessionResponse](t, w)
	b := resp.Document.Sections[0].Bullets[1]
	assert.Equal(t, "• Built Kafka billing", b.Text)
	assert.Equal(t, []string{"Kafka"}, b.Params.GeneratedKeywords)

	w = request(t, s, http.MethodPost, base+"/assist/summary", `{"keywords": ["billing"]}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "Billing systems engineer", decodeBody[SessionResponse](t, w).Document.Summary)
}

func TestAssist_FailureLeavesDocument(t *testing.T) {
	gen := &fakeGenerator{err: context.DeadlineExceeded}
	s := newTestServer(t, Deps{Assistant: assist.New(gen, assist.Options{Timeout: time.Second})})
	sess := openSession(t, s, workDocument)
	base := "/sessions/" + sess.SessionID

	w := request(t, s, http.MethodPost, base+"/assist/summary", `{"keywords": ["billing"]}`)
	assert.Equal(t, http.StatusGatewayTimeout, w.Code)

	w = request(t, s, http.MethodGet, base, "")
	resp := decodeBody[SessionResponse](t, w)
	assert.Empty(t, resp.Document.Summary)
	assert.False(t, resp.CanUndo)
}

func TestAssist_WithoutAssistant(t *testing.T) {
	s := newTestServer(t, Deps{})
	sess := openSession(t, s, workDocument)

	w := request(t, s, http.MethodPost, "/sessions/"+sess.SessionID+"/assist/summary", "")

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestSaveReopenAndExport(t *testing.T) {
	store := newMemStore()
	s := newTestServer(t, Deps{Store: store})
	sess := openSession(t, s, workDocument)
	base := "/sessions/" + sess.SessionID

	w := request(t, s, http.MethodPost, base+"/save", `{"label": "Backend roles"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	saved := decodeBody[SaveResponse](t, w)
	assert.Equal(t, "Backend roles", saved.Label)

	w = request(t, s, http.MethodGet, base+"/export/latex", "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, w.Header().Get("Content-Type"), "latex")
	assert.Contains(t, w.Body.String(), "Acme Corp")

	w = request(t, s, http.MethodGet, "/documents/"+saved.DocumentID+"/exports/latex", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Acme Corp")

	w = request(t, s, http.MethodGet, "/documents/"+saved.DocumentID+"/exports/html", "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = request(t, s, http.MethodPost, "/sessions", `{"document_id": "`+saved.DocumentID+`"}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	reopened := decodeBody[SessionResponse](t, w)
	assert.Equal(t, saved.DocumentID, reopened.DocumentID)
	assert.Equal(t, "Backend roles", reopened.Label)
	assert.Equal(t, "Ada Lovelace", reopened.Document.Name)

	w = request(t, s, http.MethodGet, "/documents", "")
	list := decodeBody[map[string]any](t, w)
	assert.EqualValues(t, 1, list["count"])

	w = request(t, s, http.MethodDelete, "/documents/"+saved.DocumentID, "")
	assert.Equal(t, http.StatusNoContent, w.Code)
	w = request(t, s, http.MethodGet, "/documents/"+saved.DocumentID, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestExport_HTMLAndUnknownFormat(t *testing.T) {
	s := newTestServer(t, Deps{})
	sess := openSession(t, s, workDocument)
	base := "/sessions/" + sess.SessionID

	w := request(t, s, http.MethodGet, base+"/export/html", "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, w.Header().Get("Content-Type"), "text/html")
	assert.Contains(t, w.Body.String(), "Globex")

	w = request(t, s, http.MethodGet, base+"/export/docx", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCloseSession(t *testing.T) {
	s := newTestServer(t, Deps{})
	sess := openSession(t, s, "")

	w := request(t, s, http.MethodDelete, "/sessions/"+sess.SessionID, "")
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = request(t, s, http.MethodGet, "/sessions/"+sess.SessionID, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestPrefs(t *testing.T) {
	p, err := prefs.Open(prefs.MemoryPath)
	require.NoError(t, err)
	t.Cleanup(func() { _ = p.Close() })
	s := newTestServer(t, Deps{Prefs: p})

	w := request(t, s, http.MethodPut, "/prefs/doc1/contact_order", `["phone", "email"]`)
	require.Equal(t, http.StatusNoContent, w.Code, w.Body.String())

	w = request(t, s, http.MethodGet, "/prefs/doc1/contact_order", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `["phone", "email"]`, w.Body.String())

	order, err := p.ContactOrder(context.Background(), "doc1")
	require.NoError(t, err)
	assert.Equal(t, []string{"phone", "email"}, order)

	w = request(t, s, http.MethodGet, "/prefs/doc1", "")
	assert.Equal(t, []string{"contact_order"}, decodeBody[map[string][]string](t, w)["keys"])

	w = request(t, s, http.MethodPut, "/prefs/doc1/bad", `{not json`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = request(t, s, http.MethodDelete, "/prefs/doc1/contact_order", "")
	assert.Equal(t, http.StatusNoContent, w.Code)
	w = request(t, s, http.MethodGet, "/prefs/doc1/contact_order", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCORSPreflight(t *testing.T) {
	s := newTestServer(t, Deps{})

	w := request(t, s, http.MethodOptions, "/sessions", "")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestRateLimitMiddleware(t *testing.T) {
	limiter := ratelimit.NewLimiter(&ratelimit.Config{
		Enabled: true,
		Rules: []ratelimit.Rule{
			{Name: "health", Patterns: []string{"GET /health"}},
			{Name: "edit", Patterns: []string{"POST /sessions/{id}/"}, Limit: 2, Window: time.Minute, Burst: 2},
		},
	})
	s := newTestServer(t, Deps{RateLimiter: limiter})
	first := openSession(t, s, workDocument)
	second := openSession(t, s, workDocument)

	for i := 0; i < 2; i++ {
		w := request(t, s, http.MethodPost, "/sessions/"+first.SessionID+"/undo", "")
		require.NotEqual(t, http.StatusTooManyRequests, w.Code)
		assert.Equal(t, "2", w.Header().Get("X-RateLimit-Limit"))
		assert.Equal(t, "edit", w.Header().Get("X-RateLimit-Policy"))
	}

	// The edit allowance is per client, not per session
	w := request(t, s, http.MethodPost, "/sessions/"+second.SessionID+"/redo", "")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.NotEmpty(t, w.Header().Get("Retry-After"))
	resp := decodeBody[map[string]any](t, w)
	assert.Equal(t, "rate_limit_exceeded", resp["error"])
	assert.Equal(t, "edit", resp["rule"])

	w = request(t, s, http.MethodGet, "/sessions/"+second.SessionID, "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, w.Header().Get("X-RateLimit-Limit"))
	w = request(t, s, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRateLimitMiddleware_BlockedClient(t *testing.T) {
	limiter := ratelimit.NewLimiter(&ratelimit.Config{
		Enabled: true,
		Blocked: map[netip.Addr]bool{netip.MustParseAddr("192.0.2.1"): true},
	})
	s := newTestServer(t, Deps{RateLimiter: limiter})

	// httptest requests come from 192.0.2.1
	w := request(t, s, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "client is blocked", decodeBody[map[string]string](t, w)["error"])
}
