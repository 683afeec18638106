// Package types provides type definitions for structured data used throughout the resume-editor system.
//
//nolint:revive // types is a standard Go package name pattern
package types

// ParsedResume is the structured result of the external resume parser
type ParsedResume struct {
	Name     string          `json:"name,omitempty"`
	Title    string          `json:"title,omitempty"`
	Summary  string          `json:"summary,omitempty"`
	Jobs     []ParsedJob     `json:"jobs"`
	Sections []ParsedSection `json:"sections"`
}

// ParsedJob is one position extracted from an uploaded resume
type ParsedJob struct {
	Company  string   `json:"company"`
	Location string   `json:"location,omitempty"`
	Role     string   `json:"role"`
	Date     string   `json:"date"`
	Bullets  []string `json:"bullets"`
}

// ParsedSection is a free-text section such as Education or Projects
type ParsedSection struct {
	Title string       `json:"title"`
	Items []ParsedItem `json:"items"`
}

// ParsedItem is one entry inside a ParsedSection
type ParsedItem struct {
	Title       string `json:"title"`
	Subtitle    string `json:"subtitle,omitempty"`
	Date        string `json:"date,omitempty"`
	Description string `json:"description,omitempty"`
}
