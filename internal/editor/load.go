package editor

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/jonathan/resume-editor/internal/sanitize"
	"github.com/jonathan/resume-editor/internal/schemas"
	"github.com/jonathan/resume-editor/internal/types"
)

// LoadDocument loads a resume document from a JSON file
func LoadDocument(path string) (*types.ResumeDocument, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, &LoadError{
			Message: fmt.Sprintf("failed to read file %s", path),
			Cause:   err,
		}
	}
	return DecodeDocument(content)
}

// DecodeDocument validates document JSON against the document schema and
// decodes it. Section and bullet IDs may be strings, numbers or null.
func DecodeDocument(data []byte) (*types.ResumeDocument, error) {
	if err := schemas.ValidateDocument(data); err != nil {
		return nil, &LoadError{
			Message: "document does not match schema",
			Cause:   err,
		}
	}

	var doc types.ResumeDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, &LoadError{
			Message: "failed to unmarshal JSON",
			Cause:   err,
		}
	}
	if doc.Sections == nil {
		doc.Sections = []types.Section{}
	}
	return &doc, nil
}

// DecodeParsedResume validates and decodes the JSON of an external parse result
func DecodeParsedResume(data []byte) (*types.ParsedResume, error) {
	if err := schemas.ValidateParsedResume(data); err != nil {
		return nil, &LoadError{
			Message: "parsed resume does not match schema",
			Cause:   err,
		}
	}

	var parsed types.ParsedResume
	if err := json.Unmarshal(data, &parsed); err != nil {
		return nil, &LoadError{
			Message: "failed to unmarshal JSON",
			Cause:   err,
		}
	}
	return &parsed, nil
}

// CleanLegacyText strips markup from the document's free text. The input is
// returned unchanged when nothing needed cleaning.
func CleanLegacyText(doc *types.ResumeDocument, s sanitize.Sanitizer) *types.ResumeDocument {
	if doc == nil || s == nil {
		return doc
	}

	next := doc.Clone()
	changed := false
	clean := func(text *string) {
		if cleaned := s.Clean(*text); cleaned != *text {
			*text = cleaned
			changed = true
		}
	}

	clean(&next.Name)
	clean(&next.Title)
	clean(&next.Summary)
	for si := range next.Sections {
		section := &next.Sections[si]
		clean(&section.Title)
		for bi := range section.Bullets {
			clean(&section.Bullets[bi].Text)
		}
	}

	if !changed {
		return doc
	}
	return next
}
