// Package llm provides the model configuration and client used for AI writing assistance.
package llm

import "fmt"

// ModelTier represents the capability level of a model
type ModelTier string

const (
	// TierLite is for short, cheap tasks such as keyword suggestions
	TierLite ModelTier = "lite"
	// TierStandard is for bullet and summary generation
	TierStandard ModelTier = "standard"
	// TierAdvanced is for long-form writing such as cover letters
	TierAdvanced ModelTier = "advanced"
)

// Task names one kind of writing request sent to the model
type Task string

const (
	TaskBullets     Task = "bullets"
	TaskSummary     Task = "summary"
	TaskKeywords    Task = "keywords"
	TaskCoverLetter Task = "cover_letter"
)

// Provider represents an LLM provider
type Provider string

// ProviderGemini is the Google Gemini provider, the only one wired
const ProviderGemini Provider = "gemini"

// Config holds the model configuration
type Config struct {
	Provider Provider
	Models   map[ModelTier]string
	// Tasks routes each task to a tier. Unlisted tasks use TierStandard.
	Tasks           map[Task]ModelTier
	Temperature     float32
	MaxOutputTokens int32
}

// DefaultConfig returns the default Gemini configuration
func DefaultConfig() *Config {
	return &Config{
		Provider: ProviderGemini,
		Models: map[ModelTier]string{
			TierLite:     "gemini-2.5-flash-lite",
			TierStandard: "gemini-2.5-flash",
			TierAdvanced: "gemini-2.5-pro",
		},
		Tasks: map[Task]ModelTier{
			TaskBullets:     TierStandard,
			TaskSummary:     TierStandard,
			TaskKeywords:    TierLite,
			TaskCoverLetter: TierAdvanced,
		},
		Temperature:     0.4,
		MaxOutputTokens: 2048,
	}
}

// TierFor returns the tier a task runs on
func (c *Config) TierFor(task Task) ModelTier {
	if tier, ok := c.Tasks[task]; ok {
		return tier
	}
	return TierStandard
}

// GetModel returns the model name for a tier, falling back to standard then lite
func (c *Config) GetModel(tier ModelTier) string {
	for _, t := range []ModelTier{tier, TierStandard, TierLite} {
		if model, ok := c.Models[t]; ok && model != "" {
			return model
		}
	}
	return ""
}

// ModelFor resolves the model name a task should be sent to
func (c *Config) ModelFor(task Task) (string, error) {
	tier := c.TierFor(task)
	model := c.GetModel(tier)
	if model == "" {
		return "", fmt.Errorf("no model configured for task %s (tier %s)", task, tier)
	}
	return model, nil
}

// Validate reports configuration that would fail on the first request
func (c *Config) Validate() error {
	if c.Provider != ProviderGemini {
		return fmt.Errorf("unsupported provider %q", c.Provider)
	}
	if c.GetModel(TierStandard) == "" {
		return fmt.Errorf("no model configured")
	}
	if c.Temperature < 0 || c.Temperature > 2 {
		return fmt.Errorf("temperature %.2f out of range [0, 2]", c.Temperature)
	}
	if c.MaxOutputTokens < 0 {
		return fmt.Errorf("max output tokens must not be negative")
	}
	return nil
}

// WithModel returns a copy with a specific model for a tier
func (c *Config) WithModel(tier ModelTier, model string) *Config {
	out := c.clone()
	out.Models[tier] = model
	return out
}

// WithTask returns a copy that routes task to tier
func (c *Config) WithTask(task Task, tier ModelTier) *Config {
	out := c.clone()
	out.Tasks[task] = tier
	return out
}

func (c *Config) clone() *Config {
	out := *c
	out.Models = make(map[ModelTier]string, len(c.Models)+1)
	for k, v := range c.Models {
		out.Models[k] = v
	}
	out.Tasks = make(map[Task]ModelTier, len(c.Tasks)+1)
	for k, v := range c.Tasks {
		out.Tasks[k] = v
	}
	return &out
}
