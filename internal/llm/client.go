package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

var (
	// ErrBlocked is returned when the provider refuses the prompt or the answer
	ErrBlocked = errors.New("response blocked by provider")
	// ErrEmptyResponse is returned when the model answers without any text
	ErrEmptyResponse = errors.New("empty model response")
)

// Error records which task and stage of a model call failed
type Error struct {
	Task  Task
	Model string
	Stage string // "generate", "extract" or "decode"
	Err   error
}

func (e *Error) Error() string {
	if e.Model != "" {
		return fmt.Sprintf("%s %s via %s: %v", e.Task, e.Stage, e.Model, e.Err)
	}
	return fmt.Sprintf("%s %s: %v", e.Task, e.Stage, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Client sends one writing task to a model and returns its JSON answer
type Client interface {
	GenerateJSON(ctx context.Context, task Task, prompt string) (string, error)
	Close() error
}

// NewClient creates a new LLM client based on configuration
func NewClient(ctx context.Context, config *Config, apiKey string) (Client, error) {
	if config == nil {
		config = DefaultConfig()
	}
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid model config: %w", err)
	}
	return NewGeminiClient(ctx, config, apiKey)
}

// generateFunc is the single provider call a GeminiClient makes
type generateFunc func(ctx context.Context, model *genai.GenerativeModel, prompt string) (*genai.GenerateContentResponse, error)

// GeminiClient implements Client for Google Gemini
type GeminiClient struct {
	client   *genai.Client
	config   *Config
	generate generateFunc
}

// NewGeminiClient creates a new Gemini client
func NewGeminiClient(ctx context.Context, config *Config, apiKey string) (*GeminiClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("API key is required")
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	return newGeminiClient(client, config, func(ctx context.Context, m *genai.GenerativeModel, prompt string) (*genai.GenerateContentResponse, error) {
		return m.GenerateContent(ctx, genai.Text(prompt))
	}), nil
}

func newGeminiClient(client *genai.Client, config *Config, generate generateFunc) *GeminiClient {
	return &GeminiClient{client: client, config: config, generate: generate}
}

// model builds a JSON-mode model handle for name with the configured sampling
func (c *GeminiClient) model(name string) *genai.GenerativeModel {
	var m *genai.GenerativeModel
	if c.client != nil {
		m = c.client.GenerativeModel(name)
	} else {
		m = &genai.GenerativeModel{}
	}
	m.SetTemperature(c.config.Temperature)
	if c.config.MaxOutputTokens > 0 {
		m.SetMaxOutputTokens(c.config.MaxOutputTokens)
	}
	m.ResponseMIMEType = "application/json"
	return m
}

// GenerateJSON implements Client
func (c *GeminiClient) GenerateJSON(ctx context.Context, task Task, prompt string) (string, error) {
	name, err := c.config.ModelFor(task)
	if err != nil {
		return "", &Error{Task: task, Stage: "generate", Err: err}
	}

	resp, err := c.generate(ctx, c.model(name), prompt)
	if err != nil {
		var blocked *genai.BlockedError
		if errors.As(err, &blocked) {
			err = fmt.Errorf("%w: %v", ErrBlocked, blocked)
		}
		return "", &Error{Task: task, Model: name, Stage: "generate", Err: err}
	}

	text, err := extractTextFromResponse(resp)
	if err != nil {
		return "", &Error{Task: task, Model: name, Stage: "extract", Err: err}
	}
	return CleanJSONBlock(text), nil
}

// Close releases resources held by the client
func (c *GeminiClient) Close() error {
	if c.client != nil {
		return c.client.Close()
	}
	return nil
}

// GenerateInto runs task on c and decodes the JSON answer into v
func GenerateInto(ctx context.Context, c Client, task Task, prompt string, v any) error {
	text, err := c.GenerateJSON(ctx, task, prompt)
	if err != nil {
		return err
	}
	if err := json.Unmarshal([]byte(text), v); err != nil {
		return &Error{Task: task, Stage: "decode", Err: err}
	}
	return nil
}

// extractTextFromResponse joins the text parts of the first candidate
func extractTextFromResponse(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil || len(resp.Candidates) == 0 {
		if resp != nil && resp.PromptFeedback != nil && resp.PromptFeedback.BlockReason != genai.BlockReasonUnspecified {
			return "", fmt.Errorf("%w: prompt %s", ErrBlocked, resp.PromptFeedback.BlockReason)
		}
		return "", fmt.Errorf("%w: no candidates", ErrEmptyResponse)
	}

	candidate := resp.Candidates[0]
	if candidate.FinishReason == genai.FinishReasonSafety {
		return "", fmt.Errorf("%w: candidate finished for safety", ErrBlocked)
	}
	if candidate.Content == nil {
		return "", fmt.Errorf("%w: no content", ErrEmptyResponse)
	}

	var sb strings.Builder
	for _, part := range candidate.Content.Parts {
		if text, ok := part.(genai.Text); ok {
			sb.WriteString(string(text))
		}
	}
	if strings.TrimSpace(sb.String()) == "" {
		return "", fmt.Errorf("%w: no text parts", ErrEmptyResponse)
	}
	return sb.String(), nil
}
