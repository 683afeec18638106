// Package backend is the HTTP client for the AI and ATS scoring service.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/sony/gobreaker/v2"

	"github.com/jonathan/resume-editor/internal/types"
)

// Endpoint paths relative to the base URL
const (
	PathGenerateBullets = "/api/generate-bullets"
	PathGenerateSummary = "/api/generate-summary"
	PathMatchKeywords   = "/api/match-keywords"
	PathATSScore        = "/api/ats-score"
	PathCoverLetter     = "/api/cover-letter"
	PathParseResume     = "/api/parse-resume"
)

// Default timeouts
const (
	DefaultTimeout     = 45 * time.Second
	DefaultLongTimeout = 65 * time.Second
)

// maxErrorBody bounds how much of an error response is kept in APIError
const maxErrorBody = 512

// Options configures a Client
type Options struct {
	HTTPClient  *http.Client
	Timeout     time.Duration // Standard calls
	LongTimeout time.Duration // Parsing, ATS scoring, cover letters
	Logger      zerolog.Logger

	// Breaker opens after this many consecutive failures and probes again after OpenFor
	MaxFailures uint32
	OpenFor     time.Duration
}

// Client calls the external backend. It is safe for concurrent use.
type Client struct {
	baseURL     string
	http        *http.Client
	timeout     time.Duration
	longTimeout time.Duration
	breaker     *gobreaker.CircuitBreaker[[]byte]
	log         zerolog.Logger
}

// NewClient creates a Client for the backend at baseURL
func NewClient(baseURL string, opts Options) (*Client, error) {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		return nil, fmt.Errorf("backend URL is required")
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = &http.Client{}
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.LongTimeout <= 0 {
		opts.LongTimeout = DefaultLongTimeout
	}
	if opts.MaxFailures == 0 {
		opts.MaxFailures = 5
	}
	if opts.OpenFor <= 0 {
		opts.OpenFor = 30 * time.Second
	}

	log := opts.Logger
	settings := gobreaker.Settings{
		Name:        "backend",
		MaxRequests: 1,
		Timeout:     opts.OpenFor,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= opts.MaxFailures
		},
		// 4xx responses and caller cancellations do not count as failures
		IsSuccessful: func(err error) bool {
			return err == nil || IsClientError(err) || errors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn().Str("breaker", name).Str("from", from.String()).Str("to", to.String()).Msg("circuit breaker state changed")
		},
	}

	return &Client{
		baseURL:     baseURL,
		http:        opts.HTTPClient,
		timeout:     opts.Timeout,
		longTimeout: opts.LongTimeout,
		breaker:     gobreaker.NewCircuitBreaker[[]byte](settings),
		log:         log,
	}, nil
}

// Healthy reports whether the circuit breaker is closed
func (c *Client) Healthy() bool {
	return c.breaker.State() == gobreaker.StateClosed
}

// SuggestBullets returns rewritten options for one bullet
func (c *Client) SuggestBullets(ctx context.Context, req types.BulletRequest) (*types.BulletOptions, error) {
	var out types.BulletOptions
	if err := c.postJSON(ctx, PathGenerateBullets, c.timeout, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GenerateSummary returns a professional summary
func (c *Client) GenerateSummary(ctx context.Context, req types.SummaryRequest) (*types.SummaryResponse, error) {
	var out types.SummaryResponse
	if err := c.postJSON(ctx, PathGenerateSummary, c.timeout, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// MatchKeywords returns the keyword analysis of a job description against a document
func (c *Client) MatchKeywords(ctx context.Context, req types.KeywordMatchRequest) (*types.JDKeywordSet, error) {
	var out types.JDKeywordSet
	if err := c.postJSON(ctx, PathMatchKeywords, c.timeout, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ScoreATS grades a document against a job description
func (c *Client) ScoreATS(ctx context.Context, req types.ATSRequest) (*types.ATSScore, error) {
	var out types.ATSScore
	if err := c.postJSON(ctx, PathATSScore, c.longTimeout, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GenerateCoverLetter writes a cover letter for a job description
func (c *Client) GenerateCoverLetter(ctx context.Context, req types.CoverLetterRequest) (*types.CoverLetter, error) {
	var out types.CoverLetter
	if err := c.postJSON(ctx, PathCoverLetter, c.longTimeout, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ParseResume uploads a resume file and returns its structured contents
func (c *Client) ParseResume(ctx context.Context, filename string, content io.Reader) (*types.ParsedResume, error) {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("file", filename)
	if err != nil {
		return nil, fmt.Errorf("failed to create form file: %w", err)
	}
	if _, err := io.Copy(part, content); err != nil {
		return nil, fmt.Errorf("failed to read resume file: %w", err)
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("failed to finish form: %w", err)
	}

	data, err := c.do(ctx, PathParseResume, c.longTimeout, mw.FormDataContentType(), body.Bytes())
	if err != nil {
		return nil, err
	}

	var out types.ParsedResume
	if err := decode(PathParseResume, data, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) postJSON(ctx context.Context, path string, timeout time.Duration, in, out any) error {
	payload, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}
	data, err := c.do(ctx, path, timeout, "application/json", payload)
	if err != nil {
		return err
	}
	return decode(path, data, out)
}

// do sends one POST through the circuit breaker and returns the response body
func (c *Client) do(ctx context.Context, path string, timeout time.Duration, contentType string, payload []byte) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	started := time.Now()
	data, err := c.breaker.Execute(func() ([]byte, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
		if err != nil {
			return nil, &APIError{Endpoint: path, Message: "failed to create request", Cause: err}
		}
		req.Header.Set("Content-Type", contentType)
		req.Header.Set("Accept", "application/json")

		resp, err := c.http.Do(req)
		if err != nil {
			return nil, &APIError{Endpoint: path, Message: "request failed", Cause: err}
		}
		defer func() { _ = resp.Body.Close() }()

		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, &APIError{Endpoint: path, StatusCode: resp.StatusCode, Message: "failed to read response", Cause: err}
		}
		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			return nil, &APIError{Endpoint: path, StatusCode: resp.StatusCode, Message: errorMessage(body)}
		}
		return body, nil
	})

	event := c.log.Debug()
	if err != nil {
		event = c.log.Warn().Err(err)
	}
	event.Str("endpoint", path).Dur("took", time.Since(started)).Msg("backend call")

	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return nil, &APIError{Endpoint: path, Message: "backend unavailable", Cause: err}
	}
	return data, err
}

func decode(path string, data []byte, out any) error {
	if err := json.Unmarshal(data, out); err != nil {
		return &APIError{Endpoint: path, Message: "malformed response", Cause: err}
	}
	return nil
}

// errorMessage extracts {"error": "..."} from a response body, falling back to the raw text
func errorMessage(body []byte) string {
	var payload struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if json.Unmarshal(body, &payload) == nil {
		if payload.Error != "" {
			return payload.Error
		}
		if payload.Message != "" {
			return payload.Message
		}
	}
	text := strings.TrimSpace(string(body))
	if len(text) > maxErrorBody {
		text = text[:maxErrorBody]
	}
	return text
}
