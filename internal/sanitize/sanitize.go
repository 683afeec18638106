// Package sanitize strips HTML markup from legacy stored resume text.
//
// Two implementations share one signature: a structured parser backed by
// goquery and a regular-expression fallback. Callers pick one through New and
// never branch on which is in use.
package sanitize

import (
	"fmt"
	"strings"
)

// Sanitizer turns possibly-HTML text into plain text
type Sanitizer interface {
	Clean(text string) string
}

// Mode names a sanitizer implementation
type Mode string

const (
	// ModeAuto uses the structured parser
	ModeAuto Mode = "auto"
	// ModeHTML uses the goquery-backed parser
	ModeHTML Mode = "html"
	// ModeRegex uses the regular-expression fallback
	ModeRegex Mode = "regex"
)

// New returns the sanitizer for a mode. An empty mode behaves like ModeAuto.
func New(mode Mode) (Sanitizer, error) {
	switch Mode(strings.ToLower(string(mode))) {
	case "", ModeAuto, ModeHTML:
		return HTMLSanitizer{}, nil
	case ModeRegex:
		return RegexSanitizer{}, nil
	default:
		return nil, fmt.Errorf("unknown sanitizer mode %q", mode)
	}
}

// needsCleaning reports whether text could contain markup or entities
func needsCleaning(text string) bool {
	return strings.ContainsAny(text, "<&")
}

// collapse joins all whitespace runs into single spaces
func collapse(text string) string {
	return strings.Join(strings.Fields(text), " ")
}
