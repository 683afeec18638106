// Package keywords matches job-description keywords against resume text and
// splits text into highlighted spans for display.
package keywords

import (
	"regexp"
	"strings"
	"sync"
)

// minKeywordLength is the shortest trimmed keyword that takes part in matching.
// Single characters would otherwise match stray letters.
const minKeywordLength = 2

// MatchResult holds the keywords found in a text and their occurrence counts.
// Matched keeps the caller's original keyword casing.
type MatchResult struct {
	Matched []string       `json:"matched"`
	Counts  map[string]int `json:"counts"`
}

// Empty reports whether nothing matched
func (r MatchResult) Empty() bool {
	return len(r.Matched) == 0
}

// Match finds whole-word, case-insensitive occurrences of keywords in text.
// Keywords are de-duplicated case-insensitively with the first spelling winning.
// Empty text or an empty keyword list yields an empty result.
func Match(text string, keywords []string) MatchResult {
	result := MatchResult{Matched: []string{}, Counts: map[string]int{}}
	if strings.TrimSpace(text) == "" || len(keywords) == 0 {
		return result
	}

	seen := make(map[string]struct{}, len(keywords))
	for _, kw := range keywords {
		kw = strings.TrimSpace(kw)
		if len([]rune(kw)) < minKeywordLength {
			continue
		}
		key := strings.ToLower(kw)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}

		count := len(wordPattern(kw).FindAllStringIndex(text, -1))
		if count == 0 {
			continue
		}
		result.Matched = append(result.Matched, kw)
		result.Counts[kw] = count
	}

	return result
}

// maxCachedPatterns bounds the compiled pattern cache. The cache is reset
// when it fills.
const maxCachedPatterns = 4096

var patterns = struct {
	sync.Mutex
	byKey map[string]*regexp.Regexp
}{byKey: make(map[string]*regexp.Regexp)}

// wordPattern returns the whole-word, case-insensitive pattern for a keyword.
// Each keyword spelling is compiled once.
func wordPattern(keyword string) *regexp.Regexp {
	patterns.Lock()
	defer patterns.Unlock()
	if re, ok := patterns.byKey[keyword]; ok {
		return re
	}
	if len(patterns.byKey) >= maxCachedPatterns {
		patterns.byKey = make(map[string]*regexp.Regexp)
	}
	re := regexp.MustCompile(`(?i)\b` + regexp.QuoteMeta(keyword) + `\b`)
	patterns.byKey[keyword] = re
	return re
}

// excludedSectionMarkers are title fragments of sections that never take part
// in keyword matching.
var excludedSectionMarkers = []string{"certif", "license", "credential"}

// IsExcludedSection reports whether a section title opts the section out of
// keyword matching and highlighting.
func IsExcludedSection(title string) bool {
	lower := strings.ToLower(title)
	for _, marker := range excludedSectionMarkers {
		if strings.Contains(lower, marker) {
			return true
		}
	}
	return false
}
