package main

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/jonathan/resume-editor/internal/assist"
	"github.com/jonathan/resume-editor/internal/backend"
	"github.com/jonathan/resume-editor/internal/config"
	"github.com/jonathan/resume-editor/internal/db"
	"github.com/jonathan/resume-editor/internal/llm"
	"github.com/jonathan/resume-editor/internal/prefs"
	"github.com/jonathan/resume-editor/internal/sanitize"
	"github.com/jonathan/resume-editor/internal/server"
	"github.com/jonathan/resume-editor/internal/server/ratelimit"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the REST API server",
	Long:  `Start an HTTP server that exposes editor sessions, stored documents and exports over REST.`,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "Port to listen on (overrides config)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(_ *cobra.Command, _ []string) error {
	cfg, log, err := loadConfig()
	if err != nil {
		return err
	}
	if servePort != 0 {
		cfg.Port = servePort
	}

	ctx := context.Background()
	deps, cleanup, err := buildDeps(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer cleanup()

	return server.New(cfg, deps).Start()
}

// buildDeps wires the optional collaborators the config enables. The returned
// cleanup releases whatever was opened.
func buildDeps(ctx context.Context, cfg config.Config, log zerolog.Logger) (server.Deps, func(), error) {
	var closers []func()
	cleanup := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	deps := server.Deps{
		Logger:      log,
		RateLimiter: ratelimit.NewLimiter(ratelimit.LoadConfig()),
	}

	sanitizer, err := sanitize.New(sanitize.Mode(cfg.Sanitizer))
	if err != nil {
		return deps, cleanup, err
	}
	deps.Sanitizer = sanitizer

	store, err := prefs.Open(cfg.PrefsPath)
	if err != nil {
		return deps, cleanup, fmt.Errorf("failed to open preferences: %w", err)
	}
	closers = append(closers, func() { _ = store.Close() })
	deps.Prefs = store

	if cfg.DatabaseURL != "" {
		database, err := db.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			cleanup()
			return deps, func() {}, fmt.Errorf("failed to connect to database: %w", err)
		}
		closers = append(closers, database.Close)
		if err := database.Migrate(ctx); err != nil {
			cleanup()
			return deps, func() {}, fmt.Errorf("failed to migrate database: %w", err)
		}
		deps.Store = database
	} else {
		log.Warn().Msg("DATABASE_URL not set, document storage disabled")
	}

	gen, err := buildGenerator(ctx, cfg, log, &deps, &closers)
	if err != nil {
		cleanup()
		return deps, func() {}, err
	}
	if gen != nil {
		deps.Assistant = assist.New(gen, assist.Options{Timeout: cfg.RequestTimeout(), Logger: log})
	} else {
		log.Warn().Msg("no backend URL or API key, writing assistance disabled")
	}

	return deps, cleanup, nil
}

// buildGenerator prefers the external backend and falls back to Gemini. It
// sets deps.Backend when a backend URL is configured.
func buildGenerator(ctx context.Context, cfg config.Config, log zerolog.Logger, deps *server.Deps, closers *[]func()) (assist.Generator, error) {
	if cfg.BackendURL != "" {
		client, err := newBackendClient(cfg, log)
		if err != nil {
			return nil, err
		}
		deps.Backend = client
		return client, nil
	}

	if cfg.APIKey != "" {
		client, err := llm.NewClient(ctx, llm.DefaultConfig(), cfg.APIKey)
		if err != nil {
			return nil, fmt.Errorf("failed to create LLM client: %w", err)
		}
		*closers = append(*closers, func() { _ = client.Close() })
		return assist.NewLLMGenerator(client), nil
	}
	return nil, nil
}

func newBackendClient(cfg config.Config, log zerolog.Logger) (*backend.Client, error) {
	client, err := backend.NewClient(cfg.BackendURL, backend.Options{
		Timeout:     cfg.RequestTimeout(),
		LongTimeout: cfg.LongRequestTimeout(),
		Logger:      log,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create backend client: %w", err)
	}
	return client, nil
}
