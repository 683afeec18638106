// Package types provides type definitions for structured data used throughout the resume-editor system.
//
//nolint:revive // types is a standard Go package name pattern
package types

import "strings"

// Params holds optional per-item flags shared by sections and bullets
type Params struct {
	Visible           *bool    `json:"visible,omitempty"`
	GeneratedKeywords []string `json:"generatedKeywords,omitempty"`
}

// IsVisible reports whether the item is shown. Only an explicit false hides it.
func (p Params) IsVisible() bool {
	return p.Visible == nil || *p.Visible
}

// IsHidden reports whether visibility was explicitly set to false
func (p Params) IsHidden() bool {
	return p.Visible != nil && !*p.Visible
}

func (p Params) clone() Params {
	out := Params{}
	if p.Visible != nil {
		v := *p.Visible
		out.Visible = &v
	}
	if p.GeneratedKeywords != nil {
		out.GeneratedKeywords = append([]string(nil), p.GeneratedKeywords...)
	}
	return out
}

// Bool returns a pointer to v
func Bool(v bool) *bool {
	return &v
}

// Bullet is a single line item inside a section. Header bullets mark the start
// of a company entry; everything else is a detail line.
type Bullet struct {
	ID     ID     `json:"id"`
	Text   string `json:"text"`
	Params Params `json:"params,omitempty"`
}

// Clone returns a deep copy of the bullet
func (b Bullet) Clone() Bullet {
	return Bullet{ID: b.ID, Text: b.Text, Params: b.Params.clone()}
}

// Section is a named, ordered group of bullets such as "Work Experience".
// Bullet order encodes both grouping and display order.
type Section struct {
	ID      ID       `json:"id"`
	Title   string   `json:"title"`
	Bullets []Bullet `json:"bullets"`
	Params  Params   `json:"params,omitempty"`
}

// Clone returns a deep copy of the section
func (s Section) Clone() Section {
	out := Section{ID: s.ID, Title: s.Title, Params: s.Params.clone()}
	if s.Bullets != nil {
		out.Bullets = make([]Bullet, len(s.Bullets))
		for i, b := range s.Bullets {
			out.Bullets[i] = b.Clone()
		}
	}
	return out
}

// BulletIndex returns the index of the bullet with the given ID, or -1
func (s Section) BulletIndex(id ID) int {
	for i := range s.Bullets {
		if s.Bullets[i].ID == id {
			return i
		}
	}
	return -1
}

// ResumeDocument is the root aggregate edited by the user
type ResumeDocument struct {
	Name          string            `json:"name"`
	Title         string            `json:"title"`
	Summary       string            `json:"summary"`
	Contact       map[string]string `json:"contact,omitempty"`
	FieldsVisible map[string]bool   `json:"fieldsVisible,omitempty"`
	Sections      []Section         `json:"sections"`
}

// Field keys for the top-level scalar fields
const (
	FieldName    = "name"
	FieldTitle   = "title"
	FieldSummary = "summary"
)

// Clone returns a deep copy sharing no mutable state with the receiver
func (d *ResumeDocument) Clone() *ResumeDocument {
	if d == nil {
		return &ResumeDocument{}
	}
	out := &ResumeDocument{
		Name:    d.Name,
		Title:   d.Title,
		Summary: d.Summary,
	}
	if d.Contact != nil {
		out.Contact = make(map[string]string, len(d.Contact))
		for k, v := range d.Contact {
			out.Contact[k] = v
		}
	}
	if d.FieldsVisible != nil {
		out.FieldsVisible = make(map[string]bool, len(d.FieldsVisible))
		for k, v := range d.FieldsVisible {
			out.FieldsVisible[k] = v
		}
	}
	if d.Sections != nil {
		out.Sections = make([]Section, len(d.Sections))
		for i, s := range d.Sections {
			out.Sections[i] = s.Clone()
		}
	}
	return out
}

// IsFieldVisible reports whether a top-level field is shown (absent means visible)
func (d *ResumeDocument) IsFieldVisible(key string) bool {
	if v, ok := d.FieldsVisible[key]; ok {
		return v
	}
	return true
}

// SectionIndex returns the index of the section with the given ID, or -1
func (d *ResumeDocument) SectionIndex(id ID) int {
	for i := range d.Sections {
		if d.Sections[i].ID == id {
			return i
		}
	}
	return -1
}

// HeaderFields is the structured form of a header bullet's text.
// Location is empty for the three-part encoding.
type HeaderFields struct {
	Company   string `json:"company"`
	Location  string `json:"location,omitempty"`
	Role      string `json:"role"`
	DateRange string `json:"date_range"`
}

// IsEmpty reports whether every field is blank
func (h HeaderFields) IsEmpty() bool {
	return strings.TrimSpace(h.Company+h.Location+h.Role+h.DateRange) == ""
}

// NewDocument returns an empty document with a non-nil section list
func NewDocument() *ResumeDocument {
	return &ResumeDocument{Sections: []Section{}}
}
