package llm

import (
	"fmt"
	"strings"
)

// ResponseSchema describes the JSON object a prompt asks the model to return.
type ResponseSchema struct {
	Name   string
	Fields []SchemaField
}

// SchemaField defines a single field in the expected output.
type SchemaField struct {
	Name        string // JSON field name
	Type        string // Type hint: "string", "[]string", "number"
	Description string
	Required    bool
}

// Instructions renders the output contract appended to a prompt.
func (s ResponseSchema) Instructions() string {
	var sb strings.Builder

	sb.WriteString("Return ONLY valid JSON matching this exact structure:\n{\n")
	for i, field := range s.Fields {
		typeHint := field.Type
		if typeHint == "" {
			typeHint = "string"
		}
		requiredHint := ""
		if field.Required {
			requiredHint = " (required)"
		}
		sb.WriteString(fmt.Sprintf("  \"%s\": %s%s", field.Name, typeHint, requiredHint))
		if field.Description != "" {
			sb.WriteString(fmt.Sprintf(" // %s", field.Description))
		}
		if i < len(s.Fields)-1 {
			sb.WriteString(",")
		}
		sb.WriteString("\n")
	}
	sb.WriteString("}\n\n")
	sb.WriteString("Return ONLY the JSON object, no markdown, no explanation, no code blocks.\n")

	return sb.String()
}

// BuildPrompt joins a task description with the schema's output contract.
func BuildPrompt(task string, schema ResponseSchema) string {
	return strings.TrimSpace(task) + "\n\n" + schema.Instructions()
}

// BulletOptionsSchema is the output contract for bullet suggestions.
func BulletOptionsSchema() ResponseSchema {
	return ResponseSchema{
		Name: "BulletOptions",
		Fields: []SchemaField{
			{Name: "options", Type: "[]string", Description: "Rewritten bullet candidates, one sentence each", Required: true},
		},
	}
}

// SummarySchema is the output contract for professional summaries.
func SummarySchema() ResponseSchema {
	return ResponseSchema{
		Name: "Summary",
		Fields: []SchemaField{
			{Name: "summary", Description: "Two to four sentence professional summary", Required: true},
		},
	}
}

// KeywordSetSchema is the output contract for job description keyword matching.
func KeywordSetSchema() ResponseSchema {
	return ResponseSchema{
		Name: "JDKeywordSet",
		Fields: []SchemaField{
			{Name: "matching", Type: "[]string", Description: "Keywords present in both the job description and the resume"},
			{Name: "missing", Type: "[]string", Description: "Keywords in the job description absent from the resume"},
			{Name: "priority", Type: "[]string", Description: "Keywords the posting marks as required or emphasizes"},
		},
	}
}

// CoverLetterSchema is the output contract for cover letters.
func CoverLetterSchema() ResponseSchema {
	return ResponseSchema{
		Name: "CoverLetter",
		Fields: []SchemaField{
			{Name: "text", Description: "Full cover letter body", Required: true},
		},
	}
}
