// Package editor applies structural edits to resume documents.
//
// The package-level operations are pure: each takes a document and returns a
// new deep copy with the edit applied, leaving the input untouched. When the
// referenced section or bullet does not exist the input pointer itself is
// returned, so callers can detect a no-op by pointer comparison. Editor wraps
// these operations with history, title de-duplication and logging.
package editor

import (
	"strconv"
	"strings"

	"github.com/jonathan/resume-editor/internal/grouping"
	"github.com/jonathan/resume-editor/internal/types"
)

// NewSectionTitle is the title given to sections created with AddSection
const NewSectionTitle = "New Section"

// SectionPatch holds the section fields to overwrite; nil fields are left alone
type SectionPatch struct {
	Title   *string        `json:"title,omitempty"`
	Visible *bool          `json:"visible,omitempty"`
	Bullets []types.Bullet `json:"bullets,omitempty"`
}

// UpdateField replaces a top-level field. name, title and summary are the
// document's own fields; any other key is stored as a contact field.
func UpdateField(doc *types.ResumeDocument, field, value string) *types.ResumeDocument {
	next := doc.Clone()
	switch field {
	case types.FieldName:
		next.Name = value
	case types.FieldTitle:
		next.Title = value
	case types.FieldSummary:
		next.Summary = value
	default:
		if next.Contact == nil {
			next.Contact = make(map[string]string)
		}
		next.Contact[field] = value
	}
	return next
}

// UpdateSection merges patch into the section with the given ID
func UpdateSection(doc *types.ResumeDocument, sectionID types.ID, patch SectionPatch) *types.ResumeDocument {
	si := doc.SectionIndex(sectionID)
	if si < 0 {
		return doc
	}

	next := doc.Clone()
	section := &next.Sections[si]
	if patch.Title != nil {
		section.Title = *patch.Title
	}
	if patch.Visible != nil {
		section.Params.Visible = types.Bool(*patch.Visible)
	}
	if patch.Bullets != nil {
		section.Bullets = make([]types.Bullet, len(patch.Bullets))
		for i, b := range patch.Bullets {
			section.Bullets[i] = b.Clone()
		}
	}
	return next
}

// UpdateBullet replaces a bullet's text. Visibility is normalized to an
// explicit true unless it was explicitly false.
func UpdateBullet(doc *types.ResumeDocument, sectionID, bulletID types.ID, text string) *types.ResumeDocument {
	si, bi := locate(doc, sectionID, bulletID)
	if bi < 0 {
		return doc
	}

	next := doc.Clone()
	bullet := &next.Sections[si].Bullets[bi]
	bullet.Text = text
	if !bullet.Params.IsHidden() {
		bullet.Params.Visible = types.Bool(true)
	}
	return next
}

// SetGeneratedBullet replaces a bullet's text with generated content and
// records the keywords it was generated from.
func SetGeneratedBullet(doc *types.ResumeDocument, sectionID, bulletID types.ID, text string, keywords []string) *types.ResumeDocument {
	si, bi := locate(doc, sectionID, bulletID)
	if bi < 0 {
		return doc
	}

	next := UpdateBullet(doc, sectionID, bulletID, text)
	bullet := &next.Sections[si].Bullets[bi]
	if len(keywords) == 0 {
		bullet.Params.GeneratedKeywords = nil
	} else {
		bullet.Params.GeneratedKeywords = append([]string(nil), keywords...)
	}
	return next
}

// AddBullet appends an empty bullet to a section
func AddBullet(doc *types.ResumeDocument, sectionID, newID types.ID) *types.ResumeDocument {
	si := doc.SectionIndex(sectionID)
	if si < 0 {
		return doc
	}

	next := doc.Clone()
	next.Sections[si].Bullets = append(next.Sections[si].Bullets, types.Bullet{ID: newID})
	return next
}

// InsertBulletAfter inserts an empty bullet directly after the anchor bullet.
// Nothing is inserted when the anchor does not exist.
func InsertBulletAfter(doc *types.ResumeDocument, sectionID, afterID, newID types.ID) *types.ResumeDocument {
	si, bi := locate(doc, sectionID, afterID)
	if bi < 0 {
		return doc
	}

	next := doc.Clone()
	bullets := next.Sections[si].Bullets
	out := make([]types.Bullet, 0, len(bullets)+1)
	out = append(out, bullets[:bi+1]...)
	out = append(out, types.Bullet{ID: newID})
	out = append(out, bullets[bi+1:]...)
	next.Sections[si].Bullets = out
	return next
}

// RemoveBullet deletes a bullet from a section
func RemoveBullet(doc *types.ResumeDocument, sectionID, bulletID types.ID) *types.ResumeDocument {
	si, bi := locate(doc, sectionID, bulletID)
	if bi < 0 {
		return doc
	}

	next := doc.Clone()
	bullets := next.Sections[si].Bullets
	next.Sections[si].Bullets = append(bullets[:bi:bi], bullets[bi+1:]...)
	return next
}

// RemoveSection deletes a section
func RemoveSection(doc *types.ResumeDocument, sectionID types.ID) *types.ResumeDocument {
	si := doc.SectionIndex(sectionID)
	if si < 0 {
		return doc
	}

	next := doc.Clone()
	next.Sections = append(next.Sections[:si:si], next.Sections[si+1:]...)
	return next
}

// AddSection appends a section titled "New Section" holding one empty bullet.
// When that title is taken the first free "New Section N" (N >= 2) is used.
func AddSection(doc *types.ResumeDocument, sectionID, bulletID types.ID) *types.ResumeDocument {
	next := doc.Clone()
	next.Sections = append(next.Sections, types.Section{
		ID:      sectionID,
		Title:   nextSectionTitle(doc.Sections),
		Bullets: []types.Bullet{{ID: bulletID}},
	})
	return next
}

func nextSectionTitle(sections []types.Section) string {
	taken := make(map[string]struct{}, len(sections))
	for _, s := range sections {
		taken[titleKey(s.Title)] = struct{}{}
	}

	if _, ok := taken[titleKey(NewSectionTitle)]; !ok {
		return NewSectionTitle
	}
	for n := 2; ; n++ {
		candidate := NewSectionTitle + " " + strconv.Itoa(n)
		if _, ok := taken[titleKey(candidate)]; !ok {
			return candidate
		}
	}
}

// MoveSectionUp swaps a section with the one before it
func MoveSectionUp(doc *types.ResumeDocument, sectionID types.ID) *types.ResumeDocument {
	si := doc.SectionIndex(sectionID)
	if si <= 0 {
		return doc
	}
	return swapSections(doc, si, si-1)
}

// MoveSectionDown swaps a section with the one after it
func MoveSectionDown(doc *types.ResumeDocument, sectionID types.ID) *types.ResumeDocument {
	si := doc.SectionIndex(sectionID)
	if si < 0 || si >= len(doc.Sections)-1 {
		return doc
	}
	return swapSections(doc, si, si+1)
}

func swapSections(doc *types.ResumeDocument, i, j int) *types.ResumeDocument {
	next := doc.Clone()
	next.Sections[i], next.Sections[j] = next.Sections[j], next.Sections[i]
	return next
}

// MoveGroup moves the company group at index from to index to within a
// section, as a drag-and-drop would. Out-of-range indexes are a no-op.
func MoveGroup(doc *types.ResumeDocument, sectionID types.ID, from, to int) *types.ResumeDocument {
	si := doc.SectionIndex(sectionID)
	if si < 0 {
		return doc
	}
	groups := grouping.Partition(doc.Sections[si].Bullets)
	if from < 0 || from >= len(groups) || to < 0 || to >= len(groups) || from == to {
		return doc
	}

	moved := groups[from]
	rest := append(groups[:from:from], groups[from+1:]...)
	reordered := make([]grouping.CompanyGroup, 0, len(groups))
	reordered = append(reordered, rest[:to]...)
	reordered = append(reordered, moved)
	reordered = append(reordered, rest[to:]...)

	next := doc.Clone()
	next.Sections[si].Bullets = cloneBullets(grouping.Flatten(reordered))
	return next
}

// ToggleBulletVisibility flips a bullet's visibility and reorders the
// section so hidden company groups sit after visible ones.
func ToggleBulletVisibility(doc *types.ResumeDocument, sectionID, bulletID types.ID) *types.ResumeDocument {
	si, bi := locate(doc, sectionID, bulletID)
	if bi < 0 {
		return doc
	}
	return SetBulletVisibility(doc, sectionID, bulletID, doc.Sections[si].Bullets[bi].Params.IsHidden())
}

// SetBulletVisibility sets a bullet's visibility and reorders the section so
// hidden company groups sit after visible ones.
func SetBulletVisibility(doc *types.ResumeDocument, sectionID, bulletID types.ID, visible bool) *types.ResumeDocument {
	si, bi := locate(doc, sectionID, bulletID)
	if bi < 0 {
		return doc
	}

	next := doc.Clone()
	section := &next.Sections[si]
	section.Bullets[bi].Params.Visible = types.Bool(visible)
	section.Bullets = grouping.Reorder(section.Bullets)
	return next
}

// ToggleSectionVisibility flips a section's visibility flag
func ToggleSectionVisibility(doc *types.ResumeDocument, sectionID types.ID) *types.ResumeDocument {
	si := doc.SectionIndex(sectionID)
	if si < 0 {
		return doc
	}

	next := doc.Clone()
	section := &next.Sections[si]
	section.Params.Visible = types.Bool(section.Params.IsHidden())
	return next
}

// ToggleFieldVisibility flips the visibility of a top-level field
func ToggleFieldVisibility(doc *types.ResumeDocument, field string) *types.ResumeDocument {
	next := doc.Clone()
	if next.FieldsVisible == nil {
		next.FieldsVisible = make(map[string]bool)
	}
	next.FieldsVisible[field] = !doc.IsFieldVisible(field)
	return next
}

// locate returns the section and bullet indexes, with bi < 0 when either is missing
func locate(doc *types.ResumeDocument, sectionID, bulletID types.ID) (si, bi int) {
	si = doc.SectionIndex(sectionID)
	if si < 0 {
		return -1, -1
	}
	return si, doc.Sections[si].BulletIndex(bulletID)
}

func cloneBullets(bullets []types.Bullet) []types.Bullet {
	out := make([]types.Bullet, len(bullets))
	for i, b := range bullets {
		out[i] = b.Clone()
	}
	return out
}

func titleKey(title string) string {
	return strings.ToLower(strings.TrimSpace(title))
}
