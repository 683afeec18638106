package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig_RoutesTasks(t *testing.T) {
	config := DefaultConfig()
	require.NoError(t, config.Validate())

	tests := []struct {
		task  Task
		model string
	}{
		{TaskBullets, "gemini-2.5-flash"},
		{TaskSummary, "gemini-2.5-flash"},
		{TaskKeywords, "gemini-2.5-flash-lite"},
		{TaskCoverLetter, "gemini-2.5-pro"},
		{Task("unknown"), "gemini-2.5-flash"},
	}
	for _, tt := range tests {
		t.Run(string(tt.task), func(t *testing.T) {
			model, err := config.ModelFor(tt.task)
			require.NoError(t, err)
			assert.Equal(t, tt.model, model)
		})
	}
}

func TestModelFor_FallsBackWhenTierMissing(t *testing.T) {
	config := &Config{
		Provider: ProviderGemini,
		Models:   map[ModelTier]string{TierLite: "small", TierAdvanced: ""},
		Tasks:    map[Task]ModelTier{TaskCoverLetter: TierAdvanced},
	}

	model, err := config.ModelFor(TaskCoverLetter)
	require.NoError(t, err)
	assert.Equal(t, "small", model)
}

func TestModelFor_NoModels(t *testing.T) {
	config := &Config{Provider: ProviderGemini}

	_, err := config.ModelFor(TaskSummary)
	assert.ErrorContains(t, err, "no model configured for task summary")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"default", func(*Config) {}, ""},
		{"other provider", func(c *Config) { c.Provider = "openai" }, "unsupported provider"},
		{"no models", func(c *Config) { c.Models = nil }, "no model configured"},
		{"hot temperature", func(c *Config) { c.Temperature = 2.5 }, "temperature"},
		{"negative tokens", func(c *Config) { c.MaxOutputTokens = -1 }, "max output tokens"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := DefaultConfig()
			tt.mutate(config)
			err := config.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}

func TestWithTask_LeavesOriginalRouting(t *testing.T) {
	config := DefaultConfig()
	cheap := config.WithTask(TaskCoverLetter, TierLite).WithModel(TierLite, "tiny")

	model, err := cheap.ModelFor(TaskCoverLetter)
	require.NoError(t, err)
	assert.Equal(t, "tiny", model)

	model, err = config.ModelFor(TaskCoverLetter)
	require.NoError(t, err)
	assert.Equal(t, "gemini-2.5-pro", model)
	assert.Equal(t, "gemini-2.5-flash-lite", config.GetModel(TierLite))
	assert.Equal(t, config.MaxOutputTokens, cheap.MaxOutputTokens)
}
