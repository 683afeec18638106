package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/jonathan/resume-editor/internal/editor"
	"github.com/jonathan/resume-editor/internal/types"
)

var (
	importDocumentFile string
	importParsedFile   string
	importResumeFile   string
	importOutputFile   string
)

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Apply a parsed résumé to a document",
	Long: `Replaces a document's sections with the jobs and sections of a parsed résumé.
Jobs become company groups. The parse result comes from a JSON file (--parsed)
or from sending a résumé file to the backend parser (--file, needs BACKEND_URL).`,
	RunE: runImport,
}

func init() {
	importCmd.Flags().StringVarP(&importDocumentFile, "document", "d", "", "Path to document JSON file (optional, starts empty)")
	importCmd.Flags().StringVarP(&importParsedFile, "parsed", "p", "", "Path to parsed résumé JSON file")
	importCmd.Flags().StringVar(&importResumeFile, "file", "", "Path to a résumé file to parse with the backend")
	importCmd.Flags().StringVarP(&importOutputFile, "out", "o", "", "Path to output document JSON file (required)")
	importCmd.MarkFlagsMutuallyExclusive("parsed", "file")
	importCmd.MarkFlagsOneRequired("parsed", "file")
	_ = importCmd.MarkFlagRequired("out")

	rootCmd.AddCommand(importCmd)
}

func runImport(cmd *cobra.Command, _ []string) error {
	var doc *types.ResumeDocument
	if importDocumentFile != "" {
		loaded, err := editor.LoadDocument(importDocumentFile)
		if err != nil {
			return err
		}
		doc = loaded
	}

	parsed, err := loadParsed(cmd.Context())
	if err != nil {
		return err
	}

	ed := editor.New(doc, editor.Options{})
	defer ed.Close()
	result := ed.ImportParsed(parsed)

	content, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal document: %w", err)
	}
	if err := os.WriteFile(importOutputFile, content, 0644); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Imported %d sections to %s\n", len(result.Sections), importOutputFile)
	return nil
}

func loadParsed(ctx context.Context) (*types.ParsedResume, error) {
	if importParsedFile != "" {
		content, err := os.ReadFile(importParsedFile)
		if err != nil {
			return nil, fmt.Errorf("failed to read parsed file: %w", err)
		}
		return editor.DecodeParsedResume(content)
	}

	cfg, log, err := loadConfig()
	if err != nil {
		return nil, err
	}
	if cfg.BackendURL == "" {
		return nil, fmt.Errorf("--file needs BACKEND_URL or backend_url in the config")
	}
	client, err := newBackendClient(cfg, log)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(importResumeFile)
	if err != nil {
		return nil, fmt.Errorf("failed to open resume file: %w", err)
	}
	defer func() { _ = f.Close() }()

	if ctx == nil {
		ctx = context.Background()
	}
	return client.ParseResume(ctx, filepath.Base(importResumeFile), f)
}
