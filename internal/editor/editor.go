package editor

import (
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/jonathan/resume-editor/internal/grouping"
	"github.com/jonathan/resume-editor/internal/history"
	"github.com/jonathan/resume-editor/internal/keywords"
	"github.com/jonathan/resume-editor/internal/types"
)

// Options configures an Editor
type Options struct {
	Logger     zerolog.Logger
	ReplayHold time.Duration
	IDs        *IDSource
}

// Editor owns one open document. It applies edits through the pure
// operations, de-duplicates section titles whenever the section list changes,
// and records each resulting snapshot in its history.
type Editor struct {
	mu sync.Mutex

	current   *types.ResumeDocument
	tracker   *history.Tracker
	ids       *IDSource
	log       zerolog.Logger
	signature string

	// suppressDedup skips the de-duplication pass for one commit
	suppressDedup bool

	// anchors maps a hidden group's header ID to the first bullet of the
	// visible group that followed it when it was hidden
	anchors map[types.ID]types.ID
}

// New opens doc for editing. A nil document starts empty. Duplicate titles in
// the loaded document are dropped before the first history entry is taken.
func New(doc *types.ResumeDocument, opts Options) *Editor {
	if doc == nil {
		doc = types.NewDocument()
	}
	ids := opts.IDs
	if ids == nil {
		ids = NewIDSource(nil)
	}
	ids.ReserveDocument(doc)

	if deduped, dropped := dedupeDocument(doc); len(dropped) > 0 {
		logDropped(opts.Logger, dropped)
		doc = deduped
	}

	return &Editor{
		current:   doc,
		tracker:   history.NewTracker(doc, opts.ReplayHold),
		ids:       ids,
		log:       opts.Logger,
		signature: signature(doc),
		anchors:   make(map[types.ID]types.ID),
	}
}

// Document returns the current snapshot. Callers must treat it as read-only.
func (e *Editor) Document() *types.ResumeDocument {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.current
}

// commit makes next the current snapshot. It must be called with e.mu held.
func (e *Editor) commit(op string, next *types.ResumeDocument) *types.ResumeDocument {
	if next == e.current {
		e.log.Debug().Str("op", op).Msg("edit had no effect")
		return e.current
	}

	sig := signature(next)
	if sig != e.signature && !e.suppressDedup {
		if deduped, dropped := dedupeDocument(next); len(dropped) > 0 {
			logDropped(e.log, dropped)
			next = deduped
			sig = signature(next)
		}
	}
	e.suppressDedup = false

	e.signature = sig
	e.current = next
	e.tracker.Observe(next)
	return next
}

func logDropped(log zerolog.Logger, dropped []types.Section) {
	for _, s := range dropped {
		log.Warn().
			Str("section_id", s.ID.String()).
			Str("title", s.Title).
			Msg("dropped section with duplicate title")
	}
}

// UpdateField replaces a top-level field
func (e *Editor) UpdateField(field, value string) *types.ResumeDocument {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.commit("update_field", UpdateField(e.current, field, value))
}

// UpdateSection merges patch into a section
func (e *Editor) UpdateSection(sectionID types.ID, patch SectionPatch) *types.ResumeDocument {
	e.mu.Lock()
	defer e.mu.Unlock()
	if patch.Bullets != nil {
		for _, b := range patch.Bullets {
			e.ids.Reserve(b.ID)
		}
	}
	return e.commit("update_section", UpdateSection(e.current, sectionID, patch))
}

// UpdateBullet replaces a bullet's text
func (e *Editor) UpdateBullet(sectionID, bulletID types.ID, text string) *types.ResumeDocument {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.commit("update_bullet", UpdateBullet(e.current, sectionID, bulletID, text))
}

// SetGeneratedBullet stores generated text and the keywords behind it
func (e *Editor) SetGeneratedBullet(sectionID, bulletID types.ID, text string, kws []string) *types.ResumeDocument {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.commit("set_generated_bullet", SetGeneratedBullet(e.current, sectionID, bulletID, text, kws))
}

// AddBullet appends an empty bullet with a fresh ID
func (e *Editor) AddBullet(sectionID types.ID) *types.ResumeDocument {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.current.SectionIndex(sectionID) < 0 {
		return e.commit("add_bullet", e.current)
	}
	return e.commit("add_bullet", AddBullet(e.current, sectionID, e.ids.Next()))
}

// InsertBulletAfter inserts an empty bullet after the anchor bullet
func (e *Editor) InsertBulletAfter(sectionID, afterID types.ID) *types.ResumeDocument {
	e.mu.Lock()
	defer e.mu.Unlock()
	if _, bi := locate(e.current, sectionID, afterID); bi < 0 {
		return e.commit("insert_bullet_after", e.current)
	}
	return e.commit("insert_bullet_after", InsertBulletAfter(e.current, sectionID, afterID, e.ids.Next()))
}

// RemoveBullet deletes a bullet
func (e *Editor) RemoveBullet(sectionID, bulletID types.ID) *types.ResumeDocument {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.commit("remove_bullet", RemoveBullet(e.current, sectionID, bulletID))
}

// RemoveSection deletes a section. The title de-duplication pass is skipped
// for this commit.
func (e *Editor) RemoveSection(sectionID types.ID) *types.ResumeDocument {
	e.mu.Lock()
	defer e.mu.Unlock()
	next := RemoveSection(e.current, sectionID)
	if next != e.current {
		e.suppressDedup = true
	}
	return e.commit("remove_section", next)
}

// AddSection appends a "New Section" holding one empty bullet
func (e *Editor) AddSection() *types.ResumeDocument {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.commit("add_section", AddSection(e.current, e.ids.Next(), e.ids.Next()))
}

// MoveSectionUp swaps a section with its predecessor
func (e *Editor) MoveSectionUp(sectionID types.ID) *types.ResumeDocument {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.commit("move_section_up", MoveSectionUp(e.current, sectionID))
}

// MoveSectionDown swaps a section with its successor
func (e *Editor) MoveSectionDown(sectionID types.ID) *types.ResumeDocument {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.commit("move_section_down", MoveSectionDown(e.current, sectionID))
}

// MoveGroup moves a company group within a section
func (e *Editor) MoveGroup(sectionID types.ID, from, to int) *types.ResumeDocument {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.commit("move_group", MoveGroup(e.current, sectionID, from, to))
}

// ToggleSectionVisibility flips a section's visibility
func (e *Editor) ToggleSectionVisibility(sectionID types.ID) *types.ResumeDocument {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.commit("toggle_section_visibility", ToggleSectionVisibility(e.current, sectionID))
}

// ToggleFieldVisibility flips a top-level field's visibility
func (e *Editor) ToggleFieldVisibility(field string) *types.ResumeDocument {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.commit("toggle_field_visibility", ToggleFieldVisibility(e.current, field))
}

// ToggleBulletVisibility flips a bullet's visibility. Hiding a header moves
// its group after the visible groups; showing it again puts the group back
// where it was when hidden, as long as the group it preceded is still visible.
func (e *Editor) ToggleBulletVisibility(sectionID, bulletID types.ID) *types.ResumeDocument {
	e.mu.Lock()
	defer e.mu.Unlock()
	si, bi := locate(e.current, sectionID, bulletID)
	if bi < 0 {
		return e.commit("toggle_bullet_visibility", e.current)
	}
	visible := e.current.Sections[si].Bullets[bi].Params.IsHidden()
	return e.commit("toggle_bullet_visibility", e.setVisibility(si, sectionID, bulletID, visible))
}

// SetBulletVisibility sets a bullet's visibility with the same group
// movement as ToggleBulletVisibility.
func (e *Editor) SetBulletVisibility(sectionID, bulletID types.ID, visible bool) *types.ResumeDocument {
	e.mu.Lock()
	defer e.mu.Unlock()
	si, bi := locate(e.current, sectionID, bulletID)
	if bi < 0 {
		return e.commit("set_bullet_visibility", e.current)
	}
	return e.commit("set_bullet_visibility", e.setVisibility(si, sectionID, bulletID, visible))
}

func (e *Editor) setVisibility(si int, sectionID, bulletID types.ID, visible bool) *types.ResumeDocument {
	groups := grouping.Partition(e.current.Sections[si].Bullets)
	gi := grouping.GroupIndexOf(groups, bulletID)
	isHeader := gi >= 0 && groups[gi].HasHeader && groups[gi].Bullets[0].ID == bulletID
	wasHidden := gi >= 0 && groups[gi].Hidden()

	next := SetBulletVisibility(e.current, sectionID, bulletID, visible)
	if !isHeader {
		return next
	}

	switch {
	case !visible && !wasHidden:
		e.anchors[bulletID] = nextVisibleHead(groups, gi)
	case visible && wasHidden:
		anchor, ok := e.anchors[bulletID]
		delete(e.anchors, bulletID)
		if ok && anchor != "" {
			restoreBefore(&next.Sections[si], bulletID, anchor)
		}
	}
	return next
}

// nextVisibleHead returns the first bullet ID of the first visible group after gi
func nextVisibleHead(groups []grouping.CompanyGroup, gi int) types.ID {
	for _, g := range groups[gi+1:] {
		if !g.Hidden() && len(g.Bullets) > 0 {
			return g.Bullets[0].ID
		}
	}
	return ""
}

// restoreBefore moves the group headed by headID to just before the visible
// group headed by anchor. The section is left alone when either is missing.
func restoreBefore(section *types.Section, headID, anchor types.ID) {
	groups := grouping.Partition(section.Bullets)
	from, to := -1, -1
	for i, g := range groups {
		if len(g.Bullets) == 0 {
			continue
		}
		switch g.Bullets[0].ID {
		case headID:
			from = i
		case anchor:
			if !g.Hidden() {
				to = i
			}
		}
	}
	if from < 0 || to < 0 || from < to {
		return
	}

	moved := groups[from]
	out := make([]grouping.CompanyGroup, 0, len(groups))
	out = append(out, groups[:to]...)
	out = append(out, moved)
	out = append(out, groups[to:from]...)
	out = append(out, groups[from+1:]...)
	section.Bullets = grouping.Flatten(out)
}

// ImportParsed replaces the sections with ones built from a parse result
func (e *Editor) ImportParsed(parsed *types.ParsedResume) *types.ResumeDocument {
	e.mu.Lock()
	defer e.mu.Unlock()
	next := HandleParsedResume(e.current, parsed, e.ids.Next)
	if next != e.current {
		e.log.Info().
			Int("jobs", len(parsed.Jobs)).
			Int("sections", len(next.Sections)).
			Msg("imported parsed resume")
	}
	return e.commit("import", next)
}

// Replace swaps in a whole new document, as when one is loaded from storage
func (e *Editor) Replace(doc *types.ResumeDocument) *types.ResumeDocument {
	if doc == nil {
		doc = types.NewDocument()
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.ids.ReserveDocument(doc)
	return e.commit("replace", doc)
}

// Undo steps back one snapshot. The restored snapshot is not de-duplicated
// and is not recorded as a new entry.
func (e *Editor) Undo() (*types.ResumeDocument, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	doc, ok := e.tracker.Undo()
	if ok {
		e.restore(doc)
	}
	return e.current, ok
}

// Redo steps forward one snapshot
func (e *Editor) Redo() (*types.ResumeDocument, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	doc, ok := e.tracker.Redo()
	if ok {
		e.restore(doc)
	}
	return e.current, ok
}

func (e *Editor) restore(doc *types.ResumeDocument) {
	e.current = doc
	e.signature = signature(doc)
	e.suppressDedup = false
}

// CanUndo reports whether Undo would change the document
func (e *Editor) CanUndo() bool {
	return e.tracker.CanUndo()
}

// CanRedo reports whether Redo would change the document
func (e *Editor) CanRedo() bool {
	return e.tracker.CanRedo()
}

// HistoryLen returns the number of retained snapshots
func (e *Editor) HistoryLen() int {
	return e.tracker.Len()
}

// Groups returns the company groups of a section in stored order
func (e *Editor) Groups(sectionID types.ID) []grouping.CompanyGroup {
	e.mu.Lock()
	defer e.mu.Unlock()
	si := e.current.SectionIndex(sectionID)
	if si < 0 {
		return nil
	}
	return grouping.Partition(e.current.Sections[si].Bullets)
}

// Highlights matches the keyword set against every section of the document
func (e *Editor) Highlights(set *types.JDKeywordSet) []keywords.SectionHighlight {
	return keywords.HighlightDocument(e.Document(), set)
}

// Close releases the history timer
func (e *Editor) Close() {
	e.tracker.Close()
}
