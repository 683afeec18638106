package llm

import (
	"context"
	"errors"
	"testing"

	"github.com/google/generative-ai-go/genai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func textResponse(parts ...string) *genai.GenerateContentResponse {
	content := &genai.Content{Role: "model"}
	for _, p := range parts {
		content.Parts = append(content.Parts, genai.Text(p))
	}
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{Content: content, FinishReason: genai.FinishReasonStop}},
	}
}

type recordedCall struct {
	model *genai.GenerativeModel
	input string
}

func stubClient(config *Config, resp *genai.GenerateContentResponse, err error) (*GeminiClient, *[]recordedCall) {
	var calls []recordedCall
	c := newGeminiClient(nil, config, func(_ context.Context, m *genai.GenerativeModel, prompt string) (*genai.GenerateContentResponse, error) {
		calls = append(calls, recordedCall{model: m, input: prompt})
		return resp, err
	})
	return c, &calls
}

func TestNewGeminiClient_RequiresKey(t *testing.T) {
	_, err := NewGeminiClient(context.Background(), DefaultConfig(), "")
	assert.ErrorContains(t, err, "API key is required")
}

func TestNewClient_RejectsInvalidConfig(t *testing.T) {
	config := DefaultConfig()
	config.Provider = "local"

	_, err := NewClient(context.Background(), config, "key")
	assert.ErrorContains(t, err, "invalid model config")
}

func TestGeminiClient_GenerateJSON(t *testing.T) {
	c, calls := stubClient(DefaultConfig(), textResponse("Here you go:\n```json\n{\"summary\": ", "\"Ships fast.\"}\n```"), nil)

	out, err := c.GenerateJSON(context.Background(), TaskSummary, "write a summary")
	require.NoError(t, err)

	assert.JSONEq(t, `{"summary": "Ships fast."}`, out)
	require.Len(t, *calls, 1)
	call := (*calls)[0]
	assert.Equal(t, "write a summary", call.input)
	assert.Equal(t, "application/json", call.model.ResponseMIMEType)
	require.NotNil(t, call.model.Temperature)
	assert.InDelta(t, 0.4, *call.model.Temperature, 0.0001)
	require.NotNil(t, call.model.MaxOutputTokens)
	assert.Equal(t, int32(2048), *call.model.MaxOutputTokens)
}

func TestGeminiClient_ProviderErrorCarriesTaskAndModel(t *testing.T) {
	c, _ := stubClient(DefaultConfig(), nil, errors.New("quota exceeded"))

	_, err := c.GenerateJSON(context.Background(), TaskCoverLetter, "letter")

	var llmErr *Error
	require.ErrorAs(t, err, &llmErr)
	assert.Equal(t, TaskCoverLetter, llmErr.Task)
	assert.Equal(t, "gemini-2.5-pro", llmErr.Model)
	assert.Equal(t, "generate", llmErr.Stage)
	assert.EqualError(t, err, "cover_letter generate via gemini-2.5-pro: quota exceeded")
}

func TestGeminiClient_BlockedError(t *testing.T) {
	c, _ := stubClient(DefaultConfig(), nil, &genai.BlockedError{PromptFeedback: &genai.PromptFeedback{BlockReason: genai.BlockReasonSafety}})

	_, err := c.GenerateJSON(context.Background(), TaskBullets, "bullets")
	assert.ErrorIs(t, err, ErrBlocked)
}

func TestGeminiClient_NoModelSkipsProvider(t *testing.T) {
	c, calls := stubClient(&Config{Provider: ProviderGemini}, textResponse("{}"), nil)

	_, err := c.GenerateJSON(context.Background(), TaskKeywords, "keywords")
	assert.ErrorContains(t, err, "no model configured")
	assert.Empty(t, *calls)
}

func TestExtractTextFromResponse(t *testing.T) {
	tests := []struct {
		name    string
		resp    *genai.GenerateContentResponse
		want    string
		wantErr error
	}{
		{name: "nil", resp: nil, wantErr: ErrEmptyResponse},
		{name: "no candidates", resp: &genai.GenerateContentResponse{}, wantErr: ErrEmptyResponse},
		{
			name:    "prompt blocked",
			resp:    &genai.GenerateContentResponse{PromptFeedback: &genai.PromptFeedback{BlockReason: genai.BlockReasonOther}},
			wantErr: ErrBlocked,
		},
		{
			name:    "safety finish",
			resp:    &genai.GenerateContentResponse{Candidates: []*genai.Candidate{{FinishReason: genai.FinishReasonSafety}}},
			wantErr: ErrBlocked,
		},
		{name: "whitespace only", resp: textResponse("  ", "\n"), wantErr: ErrEmptyResponse},
		{name: "joined parts", resp: textResponse(`{"a":`, `1}`), want: `{"a":1}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := extractTextFromResponse(tt.resp)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

type cannedClient struct{ text string }

func (c cannedClient) GenerateJSON(context.Context, Task, string) (string, error) { return c.text, nil }
func (cannedClient) Close() error                                               { return nil }

func TestGenerateInto_DecodeFailure(t *testing.T) {
	var out struct{ Options []string }
	err := GenerateInto(context.Background(), cannedClient{text: "not json"}, TaskBullets, "p", &out)

	var llmErr *Error
	require.ErrorAs(t, err, &llmErr)
	assert.Equal(t, "decode", llmErr.Stage)
	assert.Equal(t, TaskBullets, llmErr.Task)
}

func TestGenerateInto_Decodes(t *testing.T) {
	var out struct {
		Options []string `json:"options"`
	}
	require.NoError(t, GenerateInto(context.Background(), cannedClient{text: `{"options":["a","b"]}`}, TaskBullets, "p", &out))
	assert.Equal(t, []string{"a", "b"}, out.Options)
}
