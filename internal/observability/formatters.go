// Package observability provides formatted output utilities for the CLI.
package observability

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/jonathan/resume-editor/internal/grouping"
	"github.com/jonathan/resume-editor/internal/keywords"
	"github.com/jonathan/resume-editor/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
)

// Printer handles formatted output for inspection commands
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %s │\n", pad(title))
	fmt.Fprintf(p.out, "├%s┤\n", border)

	for _, line := range strings.Split(content, "\n") {
		fmt.Fprintf(p.out, "│ %s │\n", pad(line))
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// pad truncates or right-pads a line to the inner box width, counting runes
func pad(line string) string {
	width := boxWidth - 4
	if utf8.RuneCountInString(line) > width {
		runes := []rune(line)
		line = string(runes[:width-3]) + "..."
	}
	return line + strings.Repeat(" ", width-utf8.RuneCountInString(line))
}

// PrintOutline outputs every section with its company groups, marking hidden ones.
func (p *Printer) PrintOutline(doc *types.ResumeDocument) {
	if doc == nil {
		return
	}

	var sb strings.Builder
	if doc.Name != "" {
		sb.WriteString(fmt.Sprintf("Name:  %s\n", doc.Name))
	}
	if doc.Title != "" {
		sb.WriteString(fmt.Sprintf("Title: %s\n", doc.Title))
	}
	sb.WriteString(fmt.Sprintf("Sections: %d\n", len(doc.Sections)))

	for _, section := range doc.Sections {
		sb.WriteString("\n")
		sb.WriteString(section.Title)
		if section.Params.IsHidden() {
			sb.WriteString(" (hidden)")
		}
		sb.WriteString("\n")

		groups := grouping.Partition(section.Bullets)
		for _, group := range groups {
			sb.WriteString("  ")
			sb.WriteString(groupLabel(group))
			if group.Hidden() {
				sb.WriteString(" (hidden)")
			}
			sb.WriteString("\n")
		}
	}

	p.printBox("DOCUMENT OUTLINE", strings.TrimSuffix(sb.String(), "\n"))
}

func groupLabel(group grouping.CompanyGroup) string {
	header, ok := group.Header()
	if !ok {
		if len(group.Bullets) == 0 {
			return "• (empty)"
		}
		return "• " + grouping.StripDetailMarker(group.Bullets[0].Text)
	}

	details := len(group.Bullets) - 1
	label := strings.Trim(strings.TrimSpace(header.Text), "*")
	if fields, parsed := grouping.ParseHeader(header.Text); parsed {
		label = fields.Company
		if fields.Role != "" {
			label += " / " + fields.Role
		}
	}
	return fmt.Sprintf("▸ %s [%d]", label, details)
}

// PrintCoverage outputs which job description keywords the document covers.
func (p *Printer) PrintCoverage(doc *types.ResumeDocument, set *types.JDKeywordSet) {
	if set == nil || set.IsEmpty() {
		return
	}

	found, missing := keywords.Coverage(doc, set)
	total := len(found) + len(missing)

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Covered: %d/%d\n", len(found), total))
	writeList(&sb, "Found", found)
	writeList(&sb, "Missing", missing)

	p.printBox("KEYWORD COVERAGE", strings.TrimSuffix(sb.String(), "\n"))
}

func writeList(sb *strings.Builder, label string, items []string) {
	if len(items) == 0 {
		return
	}
	sb.WriteString(fmt.Sprintf("\n%s:\n", label))
	count := min(len(items), maxItemsToShow)
	for i := 0; i < count; i++ {
		sb.WriteString(fmt.Sprintf("  • %s\n", items[i]))
	}
	if len(items) > maxItemsToShow {
		sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(items)-maxItemsToShow))
	}
}

// PrintHighlights outputs each matched bullet with its keywords in [brackets].
func (p *Printer) PrintHighlights(doc *types.ResumeDocument, highlights []keywords.SectionHighlight) {
	if doc == nil || len(highlights) == 0 {
		return
	}

	var sb strings.Builder
	matched := 0
	for _, sh := range highlights {
		if sh.Excluded {
			continue
		}
		si := doc.SectionIndex(sh.SectionID)
		if si < 0 {
			continue
		}
		wroteTitle := false
		for _, bh := range sh.Bullets {
			if bh.Match.Empty() {
				continue
			}
			if !wroteTitle {
				sb.WriteString(doc.Sections[si].Title + "\n")
				wroteTitle = true
			}
			matched++
			sb.WriteString("  " + renderSpans(bh.Spans) + "\n")
		}
	}
	if matched == 0 {
		sb.WriteString("No keyword matches\n")
	}

	p.printBox("KEYWORD HIGHLIGHTS", strings.TrimSuffix(sb.String(), "\n"))
}

func renderSpans(spans []keywords.Span) string {
	var sb strings.Builder
	for _, span := range spans {
		if span.Highlighted {
			sb.WriteString("[" + span.Text + "]")
			continue
		}
		sb.WriteString(span.Text)
	}
	return sb.String()
}

// PrintATSScore outputs the external grading result.
func (p *Printer) PrintATSScore(score *types.ATSScore) {
	if score == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Score: %.1f\n", score.Score))
	writeList(&sb, "Matched", score.MatchedKeywords)
	writeList(&sb, "Missing", score.MissingKeywords)
	writeList(&sb, "Suggestions", score.Suggestions)

	p.printBox("ATS SCORE", strings.TrimSuffix(sb.String(), "\n"))
}
