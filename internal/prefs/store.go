// Package prefs persists UI-only editor preferences in SQLite.
//
// Nothing stored here is authoritative document data. Every value can be
// discarded without losing resume content, so unreadable entries are dropped
// and read back as empty.
package prefs

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// Preference keys
const (
	KeyOpenSections   = "open_sections"
	KeyGroupExpansion = "group_expansion"
	KeyCustomFields   = "custom_fields"
	KeySectionOrder   = "section_order"
	KeyContactOrder   = "contact_order"
	KeyJDKeywords     = "jd_keywords"
)

// MemoryPath opens a private in-memory database
const MemoryPath = ":memory:"

// Store is a scoped key-value store of JSON values
type Store struct {
	db  *sql.DB
	now func() time.Time
}

// Open opens (or creates) the preference database at path
func Open(path string) (*Store, error) {
	if path != MemoryPath {
		if dir := filepath.Dir(path); dir != "" && dir != "." {
			if err := os.MkdirAll(dir, 0750); err != nil {
				return nil, fmt.Errorf("prefs: mkdir %s: %w", dir, err)
			}
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("prefs: open db: %w", err)
	}
	db.SetMaxOpenConns(1) // SQLite: single writer

	if err := initSchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("prefs: init schema: %w", err)
	}
	return &Store{db: db, now: time.Now}, nil
}

func initSchema(db *sql.DB) error {
	_, err := db.Exec(`CREATE TABLE IF NOT EXISTS preferences (
		scope      TEXT NOT NULL,
		key        TEXT NOT NULL,
		value      TEXT NOT NULL,
		updated_at TEXT NOT NULL,
		PRIMARY KEY (scope, key)
	)`)
	return err
}

// Close closes the database
func (s *Store) Close() error {
	return s.db.Close()
}

// Put stores v as JSON under (scope, key)
func (s *Store) Put(ctx context.Context, scope, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("prefs: marshal %s: %w", key, err)
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO preferences (scope, key, value, updated_at) VALUES (?, ?, ?, ?)
		 ON CONFLICT (scope, key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		scope, key, string(data), s.now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("prefs: put %s: %w", key, err)
	}
	return nil
}

// Get decodes the value under (scope, key) into v. It reports false when no
// value is stored. A stored value that no longer decodes is deleted and
// reported as missing.
func (s *Store) Get(ctx context.Context, scope, key string, v any) (bool, error) {
	var raw string
	err := s.db.QueryRowContext(ctx,
		`SELECT value FROM preferences WHERE scope = ? AND key = ?`, scope, key,
	).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("prefs: get %s: %w", key, err)
	}

	if err := json.Unmarshal([]byte(raw), v); err != nil {
		if derr := s.Delete(ctx, scope, key); derr != nil {
			return false, derr
		}
		return false, nil
	}
	return true, nil
}

// Delete removes one value
func (s *Store) Delete(ctx context.Context, scope, key string) error {
	if _, err := s.db.ExecContext(ctx,
		`DELETE FROM preferences WHERE scope = ? AND key = ?`, scope, key,
	); err != nil {
		return fmt.Errorf("prefs: delete %s: %w", key, err)
	}
	return nil
}

// Clear removes every value in a scope
func (s *Store) Clear(ctx context.Context, scope string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM preferences WHERE scope = ?`, scope); err != nil {
		return fmt.Errorf("prefs: clear %s: %w", scope, err)
	}
	return nil
}

// Keys lists the keys stored in a scope
func (s *Store) Keys(ctx context.Context, scope string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT key FROM preferences WHERE scope = ? ORDER BY key`, scope)
	if err != nil {
		return nil, fmt.Errorf("prefs: keys: %w", err)
	}
	defer rows.Close()

	keys := []string{}
	for rows.Next() {
		var k string
		if err := rows.Scan(&k); err != nil {
			return nil, fmt.Errorf("prefs: scan key: %w", err)
		}
		keys = append(keys, k)
	}
	return keys, rows.Err()
}
