package keywords

import (
	"sort"
)

// Span is a run of text that is either plain or a highlighted keyword.
// Highlighted spans carry the keyword and its occurrence count.
type Span struct {
	Text        string `json:"text"`
	Highlighted bool   `json:"highlighted"`
	Keyword     string `json:"keyword,omitempty"`
	Count       int    `json:"count,omitempty"`
}

type occurrence struct {
	start   int
	length  int
	keyword string
}

// Highlight splits text into plain and highlighted spans.
//
// Keywords are first sorted longest-first, every occurrence is collected, and
// occurrences are then stably sorted by start offset. A greedy scan keeps an
// occurrence only if it begins at or after the end of the last kept one. The
// length sort therefore only breaks ties at equal start offsets: a shorter
// keyword that starts earlier still beats a longer overlapping one.
func Highlight(text string, matched []string, counts map[string]int) []Span {
	if text == "" {
		return []Span{}
	}
	if len(matched) == 0 {
		return []Span{{Text: text}}
	}

	ordered := append([]string(nil), matched...)
	sort.SliceStable(ordered, func(i, j int) bool {
		return len(ordered[i]) > len(ordered[j])
	})

	var found []occurrence
	for _, kw := range ordered {
		if len([]rune(kw)) < minKeywordLength {
			continue
		}
		for _, loc := range wordPattern(kw).FindAllStringIndex(text, -1) {
			found = append(found, occurrence{start: loc[0], length: loc[1] - loc[0], keyword: kw})
		}
	}

	sort.SliceStable(found, func(i, j int) bool {
		return found[i].start < found[j].start
	})

	kept := make([]occurrence, 0, len(found))
	lastEnd := 0
	for _, occ := range found {
		if occ.start < lastEnd {
			continue
		}
		kept = append(kept, occ)
		lastEnd = occ.start + occ.length
	}

	spans := make([]Span, 0, 2*len(kept)+1)
	pos := 0
	for _, occ := range kept {
		if occ.start > pos {
			spans = append(spans, Span{Text: text[pos:occ.start]})
		}
		spans = append(spans, Span{
			Text:        text[occ.start : occ.start+occ.length],
			Highlighted: true,
			Keyword:     occ.keyword,
			Count:       counts[occ.keyword],
		})
		pos = occ.start + occ.length
	}
	if pos < len(text) {
		spans = append(spans, Span{Text: text[pos:]})
	}

	return spans
}
