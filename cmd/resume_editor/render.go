package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jonathan/resume-editor/internal/editor"
	"github.com/jonathan/resume-editor/internal/rendering"
)

var (
	renderDocumentFile string
	renderFormat       string
	renderTemplateFile string
	renderContactOrder string
	renderOutputFile   string
)

var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Render a document as LaTeX, HTML or PDF",
	Long:  "Renders the visible parts of a document. Hidden sections, company groups, bullets and fields are left out.",
	RunE:  runRender,
}

func init() {
	renderCmd.Flags().StringVarP(&renderDocumentFile, "document", "d", "", "Path to document JSON file (required)")
	renderCmd.Flags().StringVarP(&renderFormat, "format", "f", "latex", "Output format: latex, html or pdf")
	renderCmd.Flags().StringVarP(&renderTemplateFile, "template", "t", "", "Path to a LaTeX template (defaults to the built-in template)")
	renderCmd.Flags().StringVar(&renderContactOrder, "contact-order", "", "Comma-separated contact field order, e.g. email,phone")
	renderCmd.Flags().StringVarP(&renderOutputFile, "out", "o", "", "Path to output file (required)")
	_ = renderCmd.MarkFlagRequired("document")
	_ = renderCmd.MarkFlagRequired("out")

	rootCmd.AddCommand(renderCmd)
}

func runRender(cmd *cobra.Command, _ []string) error {
	doc, err := editor.LoadDocument(renderDocumentFile)
	if err != nil {
		return err
	}
	order := splitList(renderContactOrder)

	var content []byte
	switch renderFormat {
	case "latex":
		out, err := rendering.RenderLaTeX(doc, renderTemplateFile, order)
		if err != nil {
			return err
		}
		content = []byte(out)
	case "html":
		out, err := rendering.RenderHTML(doc, order)
		if err != nil {
			return err
		}
		content = []byte(out)
	case "pdf":
		content, err = rendering.RenderPDF(context.Background(), doc, order, rendering.DefaultPDFTimeout)
		if err != nil {
			return err
		}
	default:
		return fmt.Errorf("unknown format %q: must be latex, html or pdf", renderFormat)
	}

	if err := os.WriteFile(renderOutputFile, content, 0644); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Rendered %s to %s (%d bytes)\n", renderFormat, renderOutputFile, len(content))
	return nil
}

// splitList splits a comma-separated flag value, dropping blanks
func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
