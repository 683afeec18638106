package editor

import (
	"strings"

	"github.com/jonathan/resume-editor/internal/types"
)

// DedupeSections drops every section whose trimmed, lowercased title repeats
// an earlier section's title. The first occurrence wins. Blank titles are
// compared like any other, so only the first untitled section survives.
func DedupeSections(sections []types.Section) []types.Section {
	seen := make(map[string]struct{}, len(sections))
	out := make([]types.Section, 0, len(sections))
	for _, s := range sections {
		key := titleKey(s.Title)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, s)
	}
	return out
}

// dedupeDocument returns doc unchanged when it has no duplicate titles, and
// otherwise a copy without the duplicates plus the sections that were dropped.
func dedupeDocument(doc *types.ResumeDocument) (*types.ResumeDocument, []types.Section) {
	seen := make(map[string]struct{}, len(doc.Sections))
	var dropped []types.Section
	for _, s := range doc.Sections {
		key := titleKey(s.Title)
		if _, dup := seen[key]; dup {
			dropped = append(dropped, s)
			continue
		}
		seen[key] = struct{}{}
	}
	if len(dropped) == 0 {
		return doc, nil
	}

	next := doc.Clone()
	next.Sections = DedupeSections(next.Sections)
	return next, dropped
}

// signature identifies the ordered {id, title} pairs of a document's sections
func signature(doc *types.ResumeDocument) string {
	var sb strings.Builder
	for _, s := range doc.Sections {
		sb.WriteString(string(s.ID))
		sb.WriteByte(0)
		sb.WriteString(s.Title)
		sb.WriteByte(0)
	}
	return sb.String()
}
