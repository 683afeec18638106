// Package types provides type definitions for structured data used throughout the resume-editor system.
//
//nolint:revive // types is a standard Go package name pattern
package types

// BulletRequest asks for generated bullet options for one bullet
type BulletRequest struct {
	SectionTitle string   `json:"section_title" validate:"max=200"`
	Header       string   `json:"header,omitempty" validate:"max=500"`
	CurrentText  string   `json:"current_text" validate:"max=2000"`
	Keywords     []string `json:"keywords" validate:"required,min=1,max=20,dive,min=2,max=100"`
	Count        int      `json:"count,omitempty" validate:"omitempty,min=1,max=10"`
}

// BulletOptions is the generator response for a BulletRequest
type BulletOptions struct {
	Options []string `json:"options"`
}

// SummaryRequest asks for a professional summary built from the experience in a document
type SummaryRequest struct {
	Title      string   `json:"title"`
	Experience []string `json:"experience"`
	Keywords   []string `json:"keywords,omitempty"`
}

// SummaryResponse is the generator response for a SummaryRequest
type SummaryResponse struct {
	Summary string `json:"summary"`
}

// ATSRequest asks the external service to grade a document against a job description
type ATSRequest struct {
	Document       *ResumeDocument `json:"document" validate:"required"`
	JobDescription string          `json:"job_description" validate:"required"`
}

// ATSScore is the external grading result
type ATSScore struct {
	Score           float64  `json:"score"`
	MatchedKeywords []string `json:"matched_keywords,omitempty"`
	MissingKeywords []string `json:"missing_keywords,omitempty"`
	Suggestions     []string `json:"suggestions,omitempty"`
}

// KeywordMatchRequest asks the external service for a JDKeywordSet
type KeywordMatchRequest struct {
	Document       *ResumeDocument `json:"document" validate:"required"`
	JobDescription string          `json:"job_description" validate:"required"`
}

// CoverLetterRequest asks for a cover letter tailored to a job description
type CoverLetterRequest struct {
	Document       *ResumeDocument `json:"document" validate:"required"`
	JobDescription string          `json:"job_description" validate:"required"`
	Company        string          `json:"company,omitempty"`
}

// CoverLetter is the generated cover letter text
type CoverLetter struct {
	Text string `json:"text"`
}

// Analysis combines keyword matching and ATS scoring for one job description
type Analysis struct {
	Keywords *JDKeywordSet `json:"keywords"`
	Score    *ATSScore     `json:"score"`
}
