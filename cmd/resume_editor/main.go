// Package main provides the entry point for the resume editor CLI and HTTP API server.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/jonathan/resume-editor/internal/config"
	"github.com/jonathan/resume-editor/internal/logging"
)

var (
	configPath string
	logLevel   string
	logPretty  bool
)

var rootCmd = &cobra.Command{
	Use:          "resume_editor",
	Short:        "Resume editor CLI and HTTP API server",
	Long:         "Resume editor keeps a structured résumé document, groups work history by company, highlights job description keywords, and renders LaTeX, HTML and PDF.",
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to a JSON config file (optional)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn, error (overrides config)")
	rootCmd.PersistentFlags().BoolVar(&logPretty, "log-pretty", false, "Human-readable log output")
}

// loadConfig resolves the config file, environment and defaults, then builds the logger
func loadConfig() (config.Config, zerolog.Logger, error) {
	cfg, err := config.Resolve(configPath)
	if err != nil {
		return config.Config{}, zerolog.Nop(), err
	}
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}

	built, err := logging.NewBuilder().ToWriter(os.Stderr).Level(cfg.LogLevel).Pretty(logPretty).Make()
	if err != nil {
		return config.Config{}, zerolog.Nop(), fmt.Errorf("failed to build logger: %w", err)
	}
	return cfg, built.Logger, nil
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
