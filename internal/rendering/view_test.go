package rendering

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/resume-editor/internal/types"
)

func hiddenParams() types.Params {
	return types.Params{Visible: types.Bool(false)}
}

func sampleDocument() *types.ResumeDocument {
	return &types.ResumeDocument{
		Name:    "Ada Lovelace",
		Title:   "Staff Engineer",
		Summary: "Builds billing systems & data pipelines.",
		Contact: map[string]string{
			"email":    "ada@example.com",
			"phone":    "555-0100",
			"website":  "ada.dev",
			"linkedin": "  ",
		},
		FieldsVisible: map[string]bool{"phone": false},
		Sections: []types.Section{
			{ID: "s1", Title: "Work Experience", Bullets: []types.Bullet{
				{ID: "h1", Text: "**Acme Corp / London / Engineer / 2020 - Present**"},
				{ID: "d1", Text: "• Cut costs by 30%"},
				{ID: "d2", Text: "• Secret", Params: hiddenParams()},
				{ID: "h2", Text: "**Globex / Analyst / 2018**", Params: hiddenParams()},
				{ID: "d3", Text: "• Hidden with its group"},
			}},
			{ID: "s2", Title: "Skills", Bullets: []types.Bullet{
				{ID: "k1", Text: "Go, Rust"},
				{ID: "k2", Text: "  "},
			}},
			{ID: "s3", Title: "Private", Params: hiddenParams(), Bullets: []types.Bullet{{ID: "p1", Text: "nope"}}},
		},
	}
}

func TestBuildView(t *testing.T) {
	v := BuildView(sampleDocument(), []string{"website"})

	assert.Equal(t, "Ada Lovelace", v.Name)
	assert.Equal(t, []ContactField{
		{Key: "website", Value: "ada.dev"},
		{Key: "email", Value: "ada@example.com"},
	}, v.Contact)

	require.Len(t, v.Sections, 2)
	work := v.Sections[0]
	require.Len(t, work.Entries, 1)
	assert.Equal(t, Entry{
		Heading:   "Acme Corp",
		Location:  "London",
		Role:      "Engineer",
		DateRange: "2020 - Present",
		Items:     []string{"Cut costs by 30%"},
	}, work.Entries[0])

	skills := v.Sections[1]
	require.Len(t, skills.Entries, 1)
	assert.False(t, skills.Entries[0].HasHeading())
	assert.Equal(t, []string{"Go, Rust"}, skills.Entries[0].Items)
}

func TestBuildView_HiddenFields(t *testing.T) {
	doc := sampleDocument()
	doc.FieldsVisible[types.FieldSummary] = false

	v := BuildView(doc, nil)
	assert.Empty(t, v.Summary)
	assert.Equal(t, "Staff Engineer", v.Title)
	assert.Equal(t, "email", v.Contact[0].Key)
}

func TestBuildView_UnparsedHeader(t *testing.T) {
	doc := &types.ResumeDocument{Sections: []types.Section{{ID: "s", Title: "Projects", Bullets: []types.Bullet{
		{ID: "h", Text: "**Open Source**"},
		{ID: "d", Text: "• Compiler"},
	}}}}

	v := BuildView(doc, nil)
	require.Len(t, v.Sections[0].Entries, 1)
	assert.Equal(t, "Open Source", v.Sections[0].Entries[0].Heading)
	assert.Equal(t, []string{"Compiler"}, v.Sections[0].Entries[0].Items)
}

func TestBuildView_Nil(t *testing.T) {
	assert.Equal(t, View{}, BuildView(nil, nil))
}
