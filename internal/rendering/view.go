package rendering

import (
	"sort"
	"strings"

	"github.com/jonathan/resume-editor/internal/grouping"
	"github.com/jonathan/resume-editor/internal/types"
)

// View is the visible content of a document, ready for a template.
// Strings are raw; templates escape them for their output format.
type View struct {
	Name     string
	Title    string
	Summary  string
	Contact  []ContactField
	Sections []SectionView
}

// ContactField is one shown contact entry
type ContactField struct {
	Key   string
	Value string
}

// SectionView is a shown section
type SectionView struct {
	Title   string
	Entries []Entry
}

// Entry is one shown company group. Headerless groups have an empty Heading.
type Entry struct {
	Heading   string // Company, or the header text when it does not parse
	Location  string
	Role      string
	DateRange string
	Items     []string
}

// HasHeading reports whether the entry came from a header bullet
func (e Entry) HasHeading() bool {
	return e.Heading != "" || e.Role != "" || e.DateRange != ""
}

// BuildView collects the shown content of doc. Hidden sections, hidden
// groups, hidden bullets and hidden fields are left out. contactOrder lists
// contact keys to place first; remaining keys follow alphabetically.
func BuildView(doc *types.ResumeDocument, contactOrder []string) View {
	if doc == nil {
		return View{}
	}

	v := View{}
	if doc.IsFieldVisible(types.FieldName) {
		v.Name = strings.TrimSpace(doc.Name)
	}
	if doc.IsFieldVisible(types.FieldTitle) {
		v.Title = strings.TrimSpace(doc.Title)
	}
	if doc.IsFieldVisible(types.FieldSummary) {
		v.Summary = strings.TrimSpace(doc.Summary)
	}
	v.Contact = contactFields(doc, contactOrder)

	for _, section := range doc.Sections {
		if section.Params.IsHidden() {
			continue
		}
		sv := SectionView{Title: strings.TrimSpace(section.Title)}
		for _, group := range grouping.Partition(section.Bullets) {
			if group.Hidden() {
				continue
			}
			if entry, ok := buildEntry(group); ok {
				sv.Entries = append(sv.Entries, entry)
			}
		}
		if len(sv.Entries) > 0 || sv.Title != "" {
			v.Sections = append(v.Sections, sv)
		}
	}
	return v
}

func buildEntry(group grouping.CompanyGroup) (Entry, bool) {
	var entry Entry
	bullets := group.Bullets
	if header, ok := group.Header(); ok {
		if fields, parsed := grouping.ParseHeader(header.Text); parsed {
			entry.Heading = fields.Company
			entry.Location = fields.Location
			entry.Role = fields.Role
			entry.DateRange = fields.DateRange
		} else {
			entry.Heading = strings.TrimSpace(strings.Trim(strings.TrimSpace(header.Text), "*"))
		}
		bullets = bullets[1:]
	}

	for _, b := range bullets {
		if b.Params.IsHidden() {
			continue
		}
		if text := grouping.StripDetailMarker(b.Text); text != "" {
			entry.Items = append(entry.Items, text)
		}
	}
	return entry, entry.HasHeading() || len(entry.Items) > 0
}

func contactFields(doc *types.ResumeDocument, order []string) []ContactField {
	var out []ContactField
	seen := make(map[string]bool, len(doc.Contact))
	add := func(key string) {
		value := strings.TrimSpace(doc.Contact[key])
		if seen[key] || value == "" || !doc.IsFieldVisible(key) {
			return
		}
		seen[key] = true
		out = append(out, ContactField{Key: key, Value: value})
	}

	for _, key := range order {
		add(key)
	}
	rest := make([]string, 0, len(doc.Contact))
	for key := range doc.Contact {
		rest = append(rest, key)
	}
	sort.Strings(rest)
	for _, key := range rest {
		add(key)
	}
	return out
}
