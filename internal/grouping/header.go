// Package grouping partitions a section's flat bullet list into company groups
// and orders those groups by visibility.
package grouping

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/jonathan/resume-editor/internal/types"
)

const (
	// HeaderMarker wraps header bullet text on both ends
	HeaderMarker = "**"
	// DetailMarker prefixes detail bullet text
	DetailMarker = "• "
	// FieldSeparator separates the fields of a header
	FieldSeparator = " / "
)

// dateLike matches a 4-digit year, a month name or its abbreviation, or an
// open-ended token. Words that merely start with a month, like Marketing, do not match.
var dateLike = regexp.MustCompile(`(?i)\b\d{4}\b|\b(jan(uary)?|feb(ruary)?|mar(ch)?|apr(il)?|may|june?|july?|aug(ust)?|sept?(ember)?|oct(ober)?|nov(ember)?|dec(ember)?)\b|\b(present|current|past|ongoing)\b`)

// IsHeader reports whether bullet text marks the start of a company entry.
//
// Two encodings are accepted: text wrapped front and back in HeaderMarker, or
// text that splits on FieldSeparator into at least two non-empty parts whose
// first two parts contain a letter and, with three or more parts, whose last
// part looks like a date. Anything else is a detail line.
func IsHeader(text string) bool {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return false
	}

	if strings.HasPrefix(trimmed, HeaderMarker) {
		if idx := strings.Index(trimmed[len(HeaderMarker):], HeaderMarker); idx > 0 {
			return true
		}
	}

	parts := splitFields(trimmed)
	if len(parts) < 2 {
		return false
	}
	if !hasLetter(parts[0]) || !hasLetter(parts[1]) {
		return false
	}
	if len(parts) >= 3 && !dateLike.MatchString(parts[len(parts)-1]) {
		return false
	}
	return true
}

// IsDetail reports whether text uses the detail marker
func IsDetail(text string) bool {
	return strings.HasPrefix(strings.TrimSpace(text), strings.TrimSpace(DetailMarker))
}

// ParseHeader decodes header text into structured fields. The three- and
// four-part encodings are told apart by field count alone:
//
//	Company / Role                       (two parts)
//	Company / Role / DateRange           (three parts)
//	Company / Location / Role / DateRange (four parts)
//
// The second return value is false when the text is not a header.
func ParseHeader(text string) (types.HeaderFields, bool) {
	if !IsHeader(text) {
		return types.HeaderFields{}, false
	}

	parts := splitFields(stripHeaderMarkers(text))
	switch len(parts) {
	case 0:
		return types.HeaderFields{}, false
	case 1:
		return types.HeaderFields{Company: parts[0]}, true
	case 2:
		return types.HeaderFields{Company: parts[0], Role: parts[1]}, true
	case 3:
		return types.HeaderFields{Company: parts[0], Role: parts[1], DateRange: parts[2]}, true
	default:
		// Anything past the fourth field belongs to the date range
		return types.HeaderFields{
			Company:   parts[0],
			Location:  parts[1],
			Role:      parts[2],
			DateRange: strings.Join(parts[3:], FieldSeparator),
		}, true
	}
}

// FormatHeader encodes structured fields as wrapped header text.
// Location is only written when present, producing the four-part form.
func FormatHeader(h types.HeaderFields) string {
	fields := make([]string, 0, 4)
	for _, f := range []string{h.Company, h.Location, h.Role, h.DateRange} {
		if f = strings.TrimSpace(f); f != "" {
			fields = append(fields, f)
		}
	}
	return HeaderMarker + strings.Join(fields, FieldSeparator) + HeaderMarker
}

// FormatDetail prefixes text with the detail marker unless it already has one
func FormatDetail(text string) string {
	text = strings.TrimSpace(text)
	if text == "" || IsDetail(text) {
		return text
	}
	return DetailMarker + text
}

// StripDetailMarker removes a leading detail marker
func StripDetailMarker(text string) string {
	trimmed := strings.TrimSpace(text)
	return strings.TrimSpace(strings.TrimPrefix(trimmed, strings.TrimSpace(DetailMarker)))
}

func stripHeaderMarkers(text string) string {
	trimmed := strings.TrimSpace(text)
	trimmed = strings.TrimPrefix(trimmed, HeaderMarker)
	trimmed = strings.TrimSuffix(trimmed, HeaderMarker)
	return strings.TrimSpace(trimmed)
}

// splitFields splits on FieldSeparator and drops empty parts
func splitFields(text string) []string {
	raw := strings.Split(text, FieldSeparator)
	parts := make([]string, 0, len(raw))
	for _, p := range raw {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}
	return parts
}

func hasLetter(s string) bool {
	for _, r := range s {
		if unicode.IsLetter(r) {
			return true
		}
	}
	return false
}
