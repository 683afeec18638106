package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/resume-editor/internal/editor"
	"github.com/jonathan/resume-editor/internal/keywords"
	"github.com/jonathan/resume-editor/internal/observability"
)

var (
	analyzeDocumentFile string
	analyzeJobFile      string
	analyzeKeywordsOut  string
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Match a document against a job description with the backend",
	Long:  "Sends the document and a job description to the backend for keyword matching and ATS scoring, then prints the score and highlights. Needs BACKEND_URL.",
	RunE:  runAnalyze,
}

func init() {
	analyzeCmd.Flags().StringVarP(&analyzeDocumentFile, "document", "d", "", "Path to document JSON file (required)")
	analyzeCmd.Flags().StringVarP(&analyzeJobFile, "job", "j", "", "Path to job description text file (required)")
	analyzeCmd.Flags().StringVarP(&analyzeKeywordsOut, "keywords-out", "k", "", "Path to write the matched keyword set JSON (optional)")
	_ = analyzeCmd.MarkFlagRequired("document")
	_ = analyzeCmd.MarkFlagRequired("job")

	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(cmd *cobra.Command, _ []string) error {
	cfg, log, err := loadConfig()
	if err != nil {
		return err
	}
	if cfg.BackendURL == "" {
		return fmt.Errorf("analyze needs BACKEND_URL or backend_url in the config")
	}

	doc, err := editor.LoadDocument(analyzeDocumentFile)
	if err != nil {
		return err
	}
	jd, err := os.ReadFile(analyzeJobFile)
	if err != nil {
		return fmt.Errorf("failed to read job description: %w", err)
	}

	client, err := newBackendClient(cfg, log)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.LongRequestTimeout())
	defer cancel()
	analysis, err := client.Analyze(ctx, doc, string(jd))
	if err != nil {
		return err
	}

	printer := observability.NewPrinter(cmd.OutOrStdout())
	printer.PrintATSScore(analysis.Score)
	printer.PrintCoverage(doc, analysis.Keywords)
	printer.PrintHighlights(doc, keywords.HighlightDocument(doc, analysis.Keywords))

	if analyzeKeywordsOut != "" {
		content, err := json.MarshalIndent(analysis.Keywords, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal keywords: %w", err)
		}
		if err := os.WriteFile(analyzeKeywordsOut, content, 0644); err != nil {
			return fmt.Errorf("failed to write keywords file: %w", err)
		}
	}
	return nil
}
