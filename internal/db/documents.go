package db

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jonathan/resume-editor/internal/types"
)

// SaveDocument inserts or replaces a document. A nil id stores a new document
// under a fresh UUID. The stored ID is returned.
func (db *DB) SaveDocument(ctx context.Context, id uuid.UUID, label string, doc *types.ResumeDocument) (uuid.UUID, error) {
	if doc == nil {
		return uuid.Nil, &StoreError{Op: "save document", Cause: errors.New("document is nil")}
	}
	if id == uuid.Nil {
		id = uuid.New()
	}

	content, err := json.Marshal(doc)
	if err != nil {
		return uuid.Nil, &StoreError{Op: "marshal document", Cause: err}
	}

	_, err = db.pool.Exec(ctx,
		`INSERT INTO resume_documents (id, label, name, content)
		 VALUES ($1, $2, $3, $4)
		 ON CONFLICT (id) DO UPDATE SET label = $2, name = $3, content = $4, updated_at = NOW()`,
		id, label, doc.Name, content,
	)
	if err != nil {
		return uuid.Nil, &StoreError{Op: "save document", Cause: err}
	}
	return id, nil
}

// GetDocument retrieves a document by ID. It returns nil when none exists.
func (db *DB) GetDocument(ctx context.Context, id uuid.UUID) (*StoredDocument, error) {
	var stored StoredDocument
	var content []byte
	err := db.pool.QueryRow(ctx,
		`SELECT id, label, content, created_at, updated_at
		 FROM resume_documents WHERE id = $1`,
		id,
	).Scan(&stored.ID, &stored.Label, &content, &stored.CreatedAt, &stored.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, &StoreError{Op: "get document", Cause: err}
	}

	var doc types.ResumeDocument
	if err := json.Unmarshal(content, &doc); err != nil {
		return nil, &StoreError{Op: "unmarshal document", Cause: err}
	}
	if doc.Sections == nil {
		doc.Sections = []types.Section{}
	}
	stored.Document = &doc
	return &stored, nil
}

// ListDocuments returns the most recently updated documents first
func (db *DB) ListDocuments(ctx context.Context, limit int) ([]DocumentSummary, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}

	rows, err := db.pool.Query(ctx,
		`SELECT id, label, name, updated_at
		 FROM resume_documents ORDER BY updated_at DESC LIMIT $1`,
		limit,
	)
	if err != nil {
		return nil, &StoreError{Op: "list documents", Cause: err}
	}
	defer rows.Close()

	summaries := []DocumentSummary{}
	for rows.Next() {
		var s DocumentSummary
		if err := rows.Scan(&s.ID, &s.Label, &s.Name, &s.UpdatedAt); err != nil {
			return nil, &StoreError{Op: "scan document", Cause: err}
		}
		summaries = append(summaries, s)
	}
	if err := rows.Err(); err != nil {
		return nil, &StoreError{Op: "list documents", Cause: err}
	}
	return summaries, nil
}

// DeleteDocument removes a document and its exports. It reports whether a
// document was deleted.
func (db *DB) DeleteDocument(ctx context.Context, id uuid.UUID) (bool, error) {
	tag, err := db.pool.Exec(ctx, `DELETE FROM resume_documents WHERE id = $1`, id)
	if err != nil {
		return false, &StoreError{Op: "delete document", Cause: err}
	}
	return tag.RowsAffected() > 0, nil
}

// SaveExport stores the latest rendering of a document in one format
func (db *DB) SaveExport(ctx context.Context, documentID uuid.UUID, format, content string) error {
	_, err := db.pool.Exec(ctx,
		`INSERT INTO resume_exports (document_id, format, content)
		 VALUES ($1, $2, $3)
		 ON CONFLICT (document_id, format) DO UPDATE SET content = $3, created_at = NOW()`,
		documentID, format, content,
	)
	if err != nil {
		return &StoreError{Op: "save export " + format, Cause: err}
	}
	return nil
}

// GetExport retrieves the latest rendering of a document. It returns nil when none exists.
func (db *DB) GetExport(ctx context.Context, documentID uuid.UUID, format string) (*Export, error) {
	var export Export
	err := db.pool.QueryRow(ctx,
		`SELECT document_id, format, content, created_at
		 FROM resume_exports WHERE document_id = $1 AND format = $2`,
		documentID, format,
	).Scan(&export.DocumentID, &export.Format, &export.Content, &export.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, &StoreError{Op: "get export " + format, Cause: err}
	}
	return &export, nil
}
