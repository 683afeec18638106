package db

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jonathan/resume-editor/internal/types"
)

// StoredDocument is a resume document with its storage metadata
type StoredDocument struct {
	ID        uuid.UUID             `json:"id"`
	Label     string                `json:"label"`
	Document  *types.ResumeDocument `json:"document"`
	CreatedAt time.Time             `json:"created_at"`
	UpdatedAt time.Time             `json:"updated_at"`
}

// DocumentSummary is a list entry without the document body
type DocumentSummary struct {
	ID        uuid.UUID `json:"id"`
	Label     string    `json:"label"`
	Name      string    `json:"name"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Export is a rendered form of a stored document
type Export struct {
	DocumentID uuid.UUID `json:"document_id"`
	Format     string    `json:"format"`
	Content    string    `json:"content"`
	CreatedAt  time.Time `json:"created_at"`
}

// Export formats
const (
	FormatLaTeX = "latex"
	FormatHTML  = "html"
)

// DefaultListLimit caps ListDocuments when no limit is given
const DefaultListLimit = 50

// StoreError represents a failed storage operation
type StoreError struct {
	Op    string
	Cause error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("store error: %s: %v", e.Op, e.Cause)
}

func (e *StoreError) Unwrap() error {
	return e.Cause
}
