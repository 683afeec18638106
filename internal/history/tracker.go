package history

import (
	"sync"
	"time"

	"github.com/jonathan/resume-editor/internal/types"
)

// DefaultReplayHold is how long after an undo or redo an echo of the replayed
// snapshot is expected. Any other snapshot ends the hold early.
const DefaultReplayHold = 100 * time.Millisecond

// Tracker records document snapshots as they are observed and replays them on
// undo and redo. Snapshots are compared by pointer: observing the snapshot that
// is already current records nothing.
type Tracker struct {
	mu        sync.Mutex
	entries   []*types.ResumeDocument
	index     int
	replaying bool
	hold      time.Duration
	timer     *time.Timer
}

// NewTracker starts a log whose only entry is the initial document.
// A non-positive hold uses DefaultReplayHold.
func NewTracker(initial *types.ResumeDocument, hold time.Duration) *Tracker {
	if hold <= 0 {
		hold = DefaultReplayHold
	}
	return &Tracker{
		entries: []*types.ResumeDocument{initial},
		hold:    hold,
	}
}

// Observe records doc unless it is already the current entry, which covers
// the echo of a replay. A different snapshot arriving during a replay hold is
// a real edit: the hold ends and the snapshot truncates the redo future. It
// reports whether the snapshot was recorded.
func (t *Tracker) Observe(doc *types.ResumeDocument) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	if doc == nil {
		return false
	}
	if len(t.entries) > 0 && t.entries[t.index] == doc {
		return false
	}
	if t.replaying {
		t.endReplay()
	}

	t.entries, t.index = Record(t.entries, t.index, doc)
	return true
}

// Undo steps back one snapshot. It returns false when already at the oldest.
func (t *Tracker) Undo() (*types.ResumeDocument, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.index == 0 {
		return t.entries[0], false
	}
	doc, index := Undo(t.entries, t.index)
	t.index = index
	t.beginReplay()
	return doc, true
}

// Redo steps forward one snapshot. It returns false when already at the newest.
func (t *Tracker) Redo() (*types.ResumeDocument, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.index >= len(t.entries)-1 {
		return t.entries[t.index], false
	}
	doc, index := Redo(t.entries, t.index)
	t.index = index
	t.beginReplay()
	return doc, true
}

// beginReplay raises the replay flag and schedules its release.
func (t *Tracker) beginReplay() {
	t.replaying = true
	if t.timer != nil {
		t.timer.Stop()
	}
	t.timer = time.AfterFunc(t.hold, func() {
		t.mu.Lock()
		t.replaying = false
		t.mu.Unlock()
	})
}

// endReplay clears the flag and its pending release. It must be called with
// t.mu held.
func (t *Tracker) endReplay() {
	t.replaying = false
	if t.timer != nil {
		t.timer.Stop()
		t.timer = nil
	}
}

// Replaying reports whether a replay hold is active
func (t *Tracker) Replaying() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.replaying
}

// CanUndo reports whether an older snapshot exists
func (t *Tracker) CanUndo() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.index > 0
}

// CanRedo reports whether a newer snapshot exists
func (t *Tracker) CanRedo() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.index < len(t.entries)-1
}

// Len returns the number of retained snapshots
func (t *Tracker) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.entries)
}

// Index returns the position of the current snapshot
func (t *Tracker) Index() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.index
}

// Current returns the current snapshot
func (t *Tracker) Current() *types.ResumeDocument {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.entries[t.index]
}

// Close stops a pending replay timer
func (t *Tracker) Close() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.endReplay()
}
