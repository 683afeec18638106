package assist

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/jonathan/resume-editor/internal/llm"
	"github.com/jonathan/resume-editor/internal/prompts"
	"github.com/jonathan/resume-editor/internal/types"
)

// LLMGenerator implements Generator directly on a model client
type LLMGenerator struct {
	client llm.Client
}

// NewLLMGenerator creates a generator backed by client
func NewLLMGenerator(client llm.Client) *LLMGenerator {
	return &LLMGenerator{client: client}
}

// SuggestBullets implements Generator
func (g *LLMGenerator) SuggestBullets(ctx context.Context, req types.BulletRequest) (*types.BulletOptions, error) {
	count := req.Count
	if count <= 0 {
		count = DefaultOptionCount
	}
	header := req.Header
	if header == "" {
		header = "(none)"
	}

	task, err := prompts.Render(prompts.GenerateBullets, prompts.Vars{
		"Section":  req.SectionTitle,
		"Header":   header,
		"Current":  req.CurrentText,
		"Keywords": strings.Join(req.Keywords, ", "),
		"Count":    strconv.Itoa(count),
	})
	if err != nil {
		return nil, err
	}

	var out types.BulletOptions
	if err := llm.GenerateInto(ctx, g.client, llm.TaskBullets, llm.BuildPrompt(task, llm.BulletOptionsSchema()), &out); err != nil {
		return nil, err
	}
	if len(out.Options) > count {
		out.Options = out.Options[:count]
	}
	return &out, nil
}

// GenerateSummary implements Generator
func (g *LLMGenerator) GenerateSummary(ctx context.Context, req types.SummaryRequest) (*types.SummaryResponse, error) {
	title := req.Title
	if title == "" {
		title = "not specified"
	}
	lines := make([]string, len(req.Experience))
	for i, line := range req.Experience {
		lines[i] = "- " + line
	}

	task, err := prompts.Render(prompts.GenerateSummary, prompts.Vars{
		"Title":      title,
		"Experience": strings.Join(lines, "\n"),
		"Keywords":   strings.Join(req.Keywords, ", "),
	})
	if err != nil {
		return nil, err
	}

	var out types.SummaryResponse
	if err := llm.GenerateInto(ctx, g.client, llm.TaskSummary, llm.BuildPrompt(task, llm.SummarySchema()), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// MatchKeywords extracts a keyword set for a job description from the model
func (g *LLMGenerator) MatchKeywords(ctx context.Context, req types.KeywordMatchRequest) (*types.JDKeywordSet, error) {
	task, err := prompts.Render(prompts.ExtractKeywords, prompts.Vars{
		"JobDescription": req.JobDescription,
		"Resume":         PlainText(req.Document),
	})
	if err != nil {
		return nil, err
	}

	var out types.JDKeywordSet
	if err := llm.GenerateInto(ctx, g.client, llm.TaskKeywords, llm.BuildPrompt(task, llm.KeywordSetSchema()), &out); err != nil {
		return nil, fmt.Errorf("keyword extraction failed: %w", err)
	}
	return &out, nil
}

// GenerateCoverLetter writes a cover letter for a job description
func (g *LLMGenerator) GenerateCoverLetter(ctx context.Context, req types.CoverLetterRequest) (*types.CoverLetter, error) {
	company := req.Company
	if company == "" {
		company = "advertised"
	}
	task, err := prompts.Render(prompts.GenerateCoverLetter, prompts.Vars{
		"Company":        company,
		"JobDescription": req.JobDescription,
		"Resume":         PlainText(req.Document),
	})
	if err != nil {
		return nil, err
	}

	var out types.CoverLetter
	if err := llm.GenerateInto(ctx, g.client, llm.TaskCoverLetter, llm.BuildPrompt(task, llm.CoverLetterSchema()), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// PlainText flattens the visible content of a document into lines of text
func PlainText(doc *types.ResumeDocument) string {
	if doc == nil {
		return ""
	}
	var sb strings.Builder
	for _, field := range []struct{ key, value string }{
		{types.FieldName, doc.Name},
		{types.FieldTitle, doc.Title},
		{types.FieldSummary, doc.Summary},
	} {
		if field.value != "" && doc.IsFieldVisible(field.key) {
			sb.WriteString(field.value)
			sb.WriteString("\n")
		}
	}
	for _, section := range doc.Sections {
		lines := visibleLines(section)
		if len(lines) == 0 {
			continue
		}
		sb.WriteString("\n")
		sb.WriteString(section.Title)
		sb.WriteString("\n")
		for _, line := range lines {
			sb.WriteString(line)
			sb.WriteString("\n")
		}
	}
	return strings.TrimSpace(sb.String())
}
