// Package history keeps a bounded undo/redo log of whole-document snapshots.
package history

import (
	"github.com/jonathan/resume-editor/internal/types"
)

// MaxEntries is the number of snapshots retained; the oldest is evicted first
const MaxEntries = 50

// Record truncates any entries after index, appends doc and evicts the oldest
// entries beyond MaxEntries. It returns a new slice and the index of doc in it.
// The input slice is never modified.
func Record(entries []*types.ResumeDocument, index int, doc *types.ResumeDocument) ([]*types.ResumeDocument, int) {
	if index >= len(entries) {
		index = len(entries) - 1
	}
	keep := index + 1
	if keep < 0 {
		keep = 0
	}

	out := make([]*types.ResumeDocument, 0, keep+1)
	out = append(out, entries[:keep]...)
	out = append(out, doc)

	if over := len(out) - MaxEntries; over > 0 {
		out = out[over:]
	}

	return out, len(out) - 1
}

// Undo returns the snapshot before index and its position.
// At the oldest entry it returns the current snapshot unchanged.
func Undo(entries []*types.ResumeDocument, index int) (*types.ResumeDocument, int) {
	if len(entries) == 0 {
		return nil, 0
	}
	if index <= 0 {
		return entries[0], 0
	}
	if index >= len(entries) {
		index = len(entries) - 1
	}
	return entries[index-1], index - 1
}

// Redo returns the snapshot after index and its position.
// At the newest entry it returns the current snapshot unchanged.
func Redo(entries []*types.ResumeDocument, index int) (*types.ResumeDocument, int) {
	if len(entries) == 0 {
		return nil, 0
	}
	if index < 0 {
		index = 0
	}
	if index >= len(entries)-1 {
		return entries[len(entries)-1], len(entries) - 1
	}
	return entries[index+1], index + 1
}
