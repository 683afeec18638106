// Package types provides type definitions for structured data used throughout the resume-editor system.
//
//nolint:revive // types is a standard Go package name pattern
package types

import "strings"

// HighFrequencyKeyword is a keyword that appears often in a job description
type HighFrequencyKeyword struct {
	Keyword    string `json:"keyword"`
	Frequency  int    `json:"frequency"`
	Importance string `json:"importance"`
}

// JDKeywordSet is the keyword analysis of a job description produced by the
// external matching service. It is read-only input to keyword matching.
type JDKeywordSet struct {
	Matching      []string               `json:"matching"`
	Missing       []string               `json:"missing"`
	Priority      []string               `json:"priority"`
	HighFrequency []HighFrequencyKeyword `json:"high_frequency"`
}

// All returns every keyword in the set, de-duplicated case-insensitively.
// The first spelling seen wins.
func (s *JDKeywordSet) All() []string {
	if s == nil {
		return nil
	}
	out := make([]string, 0, len(s.Matching)+len(s.Missing)+len(s.Priority)+len(s.HighFrequency))
	seen := make(map[string]struct{})
	add := func(kw string) {
		key := strings.ToLower(strings.TrimSpace(kw))
		if key == "" {
			return
		}
		if _, ok := seen[key]; ok {
			return
		}
		seen[key] = struct{}{}
		out = append(out, strings.TrimSpace(kw))
	}
	for _, kw := range s.Matching {
		add(kw)
	}
	for _, kw := range s.Missing {
		add(kw)
	}
	for _, kw := range s.Priority {
		add(kw)
	}
	for _, hf := range s.HighFrequency {
		add(hf.Keyword)
	}
	return out
}

// IsEmpty reports whether the set holds no keywords at all
func (s *JDKeywordSet) IsEmpty() bool {
	return len(s.All()) == 0
}
