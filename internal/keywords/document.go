package keywords

import (
	"strings"

	"github.com/jonathan/resume-editor/internal/types"
)

// BulletHighlight is the highlighting result for one bullet
type BulletHighlight struct {
	BulletID types.ID    `json:"bullet_id"`
	Match    MatchResult `json:"match"`
	Spans    []Span      `json:"spans"`
}

// SectionHighlight is the highlighting result for one section
type SectionHighlight struct {
	SectionID types.ID          `json:"section_id"`
	Excluded  bool              `json:"excluded"`
	Bullets   []BulletHighlight `json:"bullets"`
}

// ForBullet returns the keywords to match against a bullet: the job
// description keywords followed by the keywords the bullet was generated from.
func ForBullet(set *types.JDKeywordSet, bullet types.Bullet) []string {
	base := set.All()
	out := make([]string, 0, len(base)+len(bullet.Params.GeneratedKeywords))
	seen := make(map[string]struct{}, cap(out))
	for _, kw := range append(base, bullet.Params.GeneratedKeywords...) {
		key := strings.ToLower(strings.TrimSpace(kw))
		if key == "" {
			continue
		}
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, strings.TrimSpace(kw))
	}
	return out
}

// HighlightSection matches and highlights every bullet of a section.
// Excluded sections and a nil keyword set produce plain spans only.
func HighlightSection(section types.Section, set *types.JDKeywordSet) SectionHighlight {
	result := SectionHighlight{
		SectionID: section.ID,
		Excluded:  IsExcludedSection(section.Title),
		Bullets:   make([]BulletHighlight, 0, len(section.Bullets)),
	}

	for _, bullet := range section.Bullets {
		bh := BulletHighlight{BulletID: bullet.ID}
		if result.Excluded || set == nil {
			bh.Match = MatchResult{Matched: []string{}, Counts: map[string]int{}}
		} else {
			bh.Match = Match(bullet.Text, ForBullet(set, bullet))
		}
		bh.Spans = Highlight(bullet.Text, bh.Match.Matched, bh.Match.Counts)
		result.Bullets = append(result.Bullets, bh)
	}

	return result
}

// HighlightDocument highlights every section of a document in order
func HighlightDocument(doc *types.ResumeDocument, set *types.JDKeywordSet) []SectionHighlight {
	if doc == nil {
		return []SectionHighlight{}
	}
	out := make([]SectionHighlight, 0, len(doc.Sections))
	for _, section := range doc.Sections {
		out = append(out, HighlightSection(section, set))
	}
	return out
}

// Coverage reports which keywords of the set appear anywhere in the
// non-excluded sections of a document, and which do not.
func Coverage(doc *types.ResumeDocument, set *types.JDKeywordSet) (found, missing []string) {
	all := set.All()
	if doc == nil || len(all) == 0 {
		return []string{}, all
	}

	var sb strings.Builder
	sb.WriteString(doc.Title)
	sb.WriteString("\n")
	sb.WriteString(doc.Summary)
	for _, section := range doc.Sections {
		if IsExcludedSection(section.Title) {
			continue
		}
		for _, bullet := range section.Bullets {
			sb.WriteString("\n")
			sb.WriteString(bullet.Text)
		}
	}

	result := Match(sb.String(), all)
	hit := make(map[string]struct{}, len(result.Matched))
	for _, kw := range result.Matched {
		hit[strings.ToLower(kw)] = struct{}{}
	}

	found = make([]string, 0, len(result.Matched))
	missing = make([]string, 0, len(all))
	for _, kw := range all {
		if _, ok := hit[strings.ToLower(kw)]; ok {
			found = append(found, kw)
		} else {
			missing = append(missing, kw)
		}
	}
	return found, missing
}
