// Package config provides configuration loading and validation for the editor.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/jonathan/resume-editor/internal/logging"
	"github.com/jonathan/resume-editor/internal/sanitize"
)

// Config represents the editor configuration that can be loaded from a JSON file.
// All fields are optional; missing values come from the environment or defaults.
type Config struct {
	// Server
	Port       int    `json:"port,omitempty"`        // HTTP listen port
	BackendURL string `json:"backend_url,omitempty"` // Base URL of the AI/ATS backend

	// Storage
	DatabaseURL string `json:"database_url,omitempty"` // PostgreSQL connection URL
	PrefsPath   string `json:"prefs_path,omitempty"`   // SQLite file for UI preferences

	// Behavior
	APIKey       string `json:"api_key,omitempty"`        // Gemini API key
	Sanitizer    string `json:"sanitizer,omitempty"`      // html, regex or auto
	LogLevel     string `json:"log_level,omitempty"`      // debug, info, warn, error
	Template     string `json:"template,omitempty"`       // Path to a LaTeX template
	ReplayHoldMS int    `json:"replay_hold_ms,omitempty"` // Undo/redo replay hold in milliseconds

	// Timeouts for outbound backend calls, in seconds
	RequestTimeoutS     int `json:"request_timeout_s,omitempty"`
	LongRequestTimeoutS int `json:"long_request_timeout_s,omitempty"`
}

// Environment variable names read by FromEnv
const (
	EnvPort                = "PORT"
	EnvBackendURL          = "BACKEND_URL"
	EnvDatabaseURL         = "DATABASE_URL"
	EnvPrefsPath           = "PREFS_PATH"
	EnvAPIKey              = "GEMINI_API_KEY"
	EnvSanitizer           = "SANITIZER"
	EnvLogLevel            = "LOG_LEVEL"
	EnvTemplate            = "RESUME_TEMPLATE"
	EnvReplayHoldMS        = "REPLAY_HOLD_MS"
	EnvRequestTimeoutS     = "REQUEST_TIMEOUT_S"
	EnvLongRequestTimeoutS = "LONG_REQUEST_TIMEOUT_S"
)

// Defaults returns the built-in configuration
func Defaults() Config {
	return Config{
		Port:                8080,
		PrefsPath:           "resume_editor_prefs.db",
		Sanitizer:           string(sanitize.ModeAuto),
		LogLevel:            "info",
		ReplayHoldMS:        100,
		RequestTimeoutS:     45,
		LongRequestTimeoutS: 65,
	}
}

// LoadConfig loads configuration from a JSON file.
// Returns an error if the file cannot be read or parsed.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	// Resolve path relative to current directory if not absolute
	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	return &cfg, nil
}

// FromEnv builds a Config from environment variables. Numeric variables that
// do not parse are left at zero.
func FromEnv() Config {
	return fromLookup(os.Getenv)
}

func fromLookup(getenv func(string) string) Config {
	return Config{
		Port:                atoi(getenv(EnvPort)),
		BackendURL:          getenv(EnvBackendURL),
		DatabaseURL:         getenv(EnvDatabaseURL),
		PrefsPath:           getenv(EnvPrefsPath),
		APIKey:              getenv(EnvAPIKey),
		Sanitizer:           getenv(EnvSanitizer),
		LogLevel:            getenv(EnvLogLevel),
		Template:            getenv(EnvTemplate),
		ReplayHoldMS:        atoi(getenv(EnvReplayHoldMS)),
		RequestTimeoutS:     atoi(getenv(EnvRequestTimeoutS)),
		LongRequestTimeoutS: atoi(getenv(EnvLongRequestTimeoutS)),
	}
}

func atoi(s string) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return n
}

// Resolve layers a config file (optional), the environment and the defaults,
// in that order of precedence, and validates the result.
func Resolve(path string) (Config, error) {
	cfg := Config{}
	if path != "" {
		loaded, err := LoadConfig(path)
		if err != nil {
			return Config{}, err
		}
		cfg = *loaded
	}

	cfg = cfg.MergeWithDefaults(FromEnv())
	cfg = cfg.MergeWithDefaults(Defaults())
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks that the configuration has valid values.
// Note: This doesn't check for required fields since each command checks
// the ones it needs.
func (c *Config) Validate() error {
	if c.Port < 0 || c.Port > 65535 {
		return fmt.Errorf("config error: 'port' must be between 0 and 65535")
	}
	if c.ReplayHoldMS < 0 {
		return fmt.Errorf("config error: 'replay_hold_ms' must be non-negative")
	}
	if c.RequestTimeoutS < 0 {
		return fmt.Errorf("config error: 'request_timeout_s' must be non-negative")
	}
	if c.LongRequestTimeoutS < 0 {
		return fmt.Errorf("config error: 'long_request_timeout_s' must be non-negative")
	}

	if c.Sanitizer != "" {
		if _, err := sanitize.New(sanitize.Mode(c.Sanitizer)); err != nil {
			return fmt.Errorf("config error: %w", err)
		}
	}
	if c.LogLevel != "" {
		if _, ok := logging.ParseLevel(c.LogLevel); !ok {
			return fmt.Errorf("config error: unknown log level %q", c.LogLevel)
		}
	}

	// Validate file paths exist (if specified)
	if c.Template != "" {
		if _, err := os.Stat(c.Template); os.IsNotExist(err) {
			return fmt.Errorf("config error: template file not found: %s", c.Template)
		}
	}

	return nil
}

// MergeWithDefaults returns a new Config with empty fields filled from defaults.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	// String fields: use default if empty
	if result.BackendURL == "" {
		result.BackendURL = defaults.BackendURL
	}
	if result.DatabaseURL == "" {
		result.DatabaseURL = defaults.DatabaseURL
	}
	if result.PrefsPath == "" {
		result.PrefsPath = defaults.PrefsPath
	}
	if result.APIKey == "" {
		result.APIKey = defaults.APIKey
	}
	if result.Sanitizer == "" {
		result.Sanitizer = defaults.Sanitizer
	}
	if result.LogLevel == "" {
		result.LogLevel = defaults.LogLevel
	}
	if result.Template == "" {
		result.Template = defaults.Template
	}

	// Int fields: use default if zero
	if result.Port == 0 {
		result.Port = defaults.Port
	}
	if result.ReplayHoldMS == 0 {
		result.ReplayHoldMS = defaults.ReplayHoldMS
	}
	if result.RequestTimeoutS == 0 {
		result.RequestTimeoutS = defaults.RequestTimeoutS
	}
	if result.LongRequestTimeoutS == 0 {
		result.LongRequestTimeoutS = defaults.LongRequestTimeoutS
	}

	return result
}

// Addr returns the listen address for the HTTP server
func (c Config) Addr() string {
	return ":" + strconv.Itoa(c.Port)
}

// ReplayHold returns the undo/redo replay hold
func (c Config) ReplayHold() time.Duration {
	return time.Duration(c.ReplayHoldMS) * time.Millisecond
}

// RequestTimeout bounds ordinary backend calls
func (c Config) RequestTimeout() time.Duration {
	return time.Duration(c.RequestTimeoutS) * time.Second
}

// LongRequestTimeout bounds slow backend calls such as cover letters and parsing
func (c Config) LongRequestTimeout() time.Duration {
	return time.Duration(c.LongRequestTimeoutS) * time.Second
}
