package keywords

import (
	"testing"

	"github.com/jonathan/resume-editor/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func highlighted(spans []Span) []string {
	var out []string
	for _, s := range spans {
		if s.Highlighted {
			out = append(out, s.Text)
		}
	}
	return out
}

func joined(spans []Span) string {
	var s string
	for _, span := range spans {
		s += span.Text
	}
	return s
}

func TestHighlight_DataVersusDatabase(t *testing.T) {
	matched := []string{"data", "database"}
	counts := map[string]int{"data": 1, "database": 1}

	for i := 0; i < 5; i++ {
		spans := Highlight("database engineer", matched, counts)

		require.Len(t, spans, 2)
		assert.Equal(t, Span{Text: "database", Highlighted: true, Keyword: "database", Count: 1}, spans[0])
		assert.Equal(t, Span{Text: " engineer"}, spans[1])
	}
}

func TestHighlight_EarlierShorterKeywordBeatsLaterLongerOne(t *testing.T) {
	matched := []string{"data pipeline", "big data"}
	counts := map[string]int{"data pipeline": 1, "big data": 1}

	spans := Highlight("big data pipeline", matched, counts)

	require.Len(t, spans, 2)
	assert.Equal(t, "big data", spans[0].Text)
	assert.Equal(t, "big data", spans[0].Keyword)
	assert.True(t, spans[0].Highlighted)
	assert.Equal(t, " pipeline", spans[1].Text)
	assert.False(t, spans[1].Highlighted)
}

func TestHighlight_LongerKeywordWinsAtSameStart(t *testing.T) {
	matched := []string{"machine", "machine learning"}
	counts := map[string]int{"machine": 1, "machine learning": 1}

	spans := Highlight("machine learning engineer", matched, counts)

	assert.Equal(t, []string{"machine learning"}, highlighted(spans))
	assert.Equal(t, "machine learning", spans[0].Keyword)
}

func TestHighlight_CarriesCountsAndPreservesText(t *testing.T) {
	text := "Go services, Go tooling and Kubernetes"
	result := Match(text, []string{"go", "kubernetes"})

	spans := Highlight(text, result.Matched, result.Counts)

	assert.Equal(t, text, joined(spans))
	assert.Equal(t, []string{"Go", "Go", "Kubernetes"}, highlighted(spans))
	for _, s := range spans {
		if s.Keyword == "go" {
			assert.Equal(t, 2, s.Count)
		}
		if s.Keyword == "kubernetes" {
			assert.Equal(t, 1, s.Count)
		}
	}
}

func TestHighlight_NoMatches(t *testing.T) {
	assert.Equal(t, []Span{{Text: "plain text"}}, Highlight("plain text", nil, nil))
	assert.Empty(t, Highlight("", []string{"go"}, map[string]int{"go": 1}))
}

func TestHighlightSection_ExcludedSection(t *testing.T) {
	section := types.Section{
		ID:    "s1",
		Title: "Certifications",
		Bullets: []types.Bullet{
			{ID: "b1", Text: "AWS Certified Kubernetes Administrator"},
		},
	}
	set := &types.JDKeywordSet{Matching: []string{"Kubernetes"}}

	result := HighlightSection(section, set)

	assert.True(t, result.Excluded)
	require.Len(t, result.Bullets, 1)
	assert.True(t, result.Bullets[0].Match.Empty())
	assert.Equal(t, []Span{{Text: "AWS Certified Kubernetes Administrator"}}, result.Bullets[0].Spans)
}

func TestHighlightSection_UsesGeneratedKeywords(t *testing.T) {
	section := types.Section{
		ID:    "s1",
		Title: "Work Experience",
		Bullets: []types.Bullet{
			{
				ID:     "b1",
				Text:   "• Cut p99 latency with caching in Redis",
				Params: types.Params{GeneratedKeywords: []string{"Redis"}},
			},
		},
	}
	set := &types.JDKeywordSet{Priority: []string{"latency"}}

	result := HighlightSection(section, set)

	require.Len(t, result.Bullets, 1)
	assert.Equal(t, []string{"latency", "Redis"}, result.Bullets[0].Match.Matched)
	assert.Equal(t, []string{"latency", "Redis"}, highlighted(result.Bullets[0].Spans))
}

func TestHighlightSection_NoKeywordSetLoaded(t *testing.T) {
	section := types.Section{ID: "s1", Title: "Skills", Bullets: []types.Bullet{{ID: "b1", Text: "Go"}}}

	result := HighlightSection(section, nil)

	require.Len(t, result.Bullets, 1)
	assert.True(t, result.Bullets[0].Match.Empty())
}

func TestForBullet_MergesWithoutDuplicates(t *testing.T) {
	set := &types.JDKeywordSet{Matching: []string{"Go"}, Missing: []string{"SQL"}}
	bullet := types.Bullet{Params: types.Params{GeneratedKeywords: []string{"go", "Kafka"}}}

	assert.Equal(t, []string{"Go", "SQL", "Kafka"}, ForBullet(set, bullet))
	assert.Equal(t, []string{"Kafka"}, ForBullet(nil, types.Bullet{Params: types.Params{GeneratedKeywords: []string{"Kafka"}}}))
}

func TestCoverage(t *testing.T) {
	doc := &types.ResumeDocument{
		Summary: "Backend engineer focused on Go",
		Sections: []types.Section{
			{ID: "s1", Title: "Experience", Bullets: []types.Bullet{{ID: "b1", Text: "• Ran Kafka clusters"}}},
			{ID: "s2", Title: "Certifications", Bullets: []types.Bullet{{ID: "b2", Text: "Terraform Associate"}}},
		},
	}
	set := &types.JDKeywordSet{Matching: []string{"Go", "Kafka"}, Missing: []string{"Terraform"}}

	found, missing := Coverage(doc, set)

	assert.Equal(t, []string{"Go", "Kafka"}, found)
	assert.Equal(t, []string{"Terraform"}, missing)
}
