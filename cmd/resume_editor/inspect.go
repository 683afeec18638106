package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/resume-editor/internal/editor"
	"github.com/jonathan/resume-editor/internal/keywords"
	"github.com/jonathan/resume-editor/internal/observability"
	"github.com/jonathan/resume-editor/internal/types"
)

var (
	inspectDocumentFile string
	inspectKeywordsFile string
)

var inspectCmd = &cobra.Command{
	Use:   "inspect",
	Short: "Print a document's company groups and keyword highlights",
	Long:  "Prints the section outline with company groups and, given a job description keyword file, keyword coverage and highlighted bullets.",
	RunE:  runInspect,
}

func init() {
	inspectCmd.Flags().StringVarP(&inspectDocumentFile, "document", "d", "", "Path to document JSON file (required)")
	inspectCmd.Flags().StringVarP(&inspectKeywordsFile, "keywords", "k", "", "Path to JD keyword set JSON file (optional)")
	_ = inspectCmd.MarkFlagRequired("document")

	rootCmd.AddCommand(inspectCmd)
}

func runInspect(cmd *cobra.Command, _ []string) error {
	doc, err := editor.LoadDocument(inspectDocumentFile)
	if err != nil {
		return err
	}

	printer := observability.NewPrinter(cmd.OutOrStdout())
	printer.PrintOutline(doc)

	if inspectKeywordsFile == "" {
		return nil
	}
	set, err := loadKeywordSet(inspectKeywordsFile)
	if err != nil {
		return err
	}
	printer.PrintCoverage(doc, set)
	printer.PrintHighlights(doc, keywords.HighlightDocument(doc, set))
	return nil
}

// loadKeywordSet reads a JDKeywordSet from a JSON file
func loadKeywordSet(path string) (*types.JDKeywordSet, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read keyword file: %w", err)
	}

	var set types.JDKeywordSet
	if err := json.Unmarshal(content, &set); err != nil {
		return nil, fmt.Errorf("failed to parse keyword file: %w", err)
	}
	return &set, nil
}
