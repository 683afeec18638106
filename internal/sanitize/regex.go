package sanitize

import (
	"html"
	"regexp"
)

var (
	scriptPattern = regexp.MustCompile(`(?is)<(script|style)[^>]*>.*?</(script|style)>`)
	breakPattern  = regexp.MustCompile(`(?i)<br\s*/?>|</?(p|div|li|ul|ol|h[1-6]|tr|td|th)(\s[^>]*)?>`)
	tagPattern    = regexp.MustCompile(`<[^>]*>`)
)

// RegexSanitizer strips tags with regular expressions. It is used where no
// structured parser is wanted.
type RegexSanitizer struct{}

// Clean removes tags, decodes entities and collapses whitespace.
// Text without markup or entities is returned unchanged.
func (RegexSanitizer) Clean(text string) string {
	if !needsCleaning(text) {
		return text
	}

	text = scriptPattern.ReplaceAllString(text, " ")
	text = breakPattern.ReplaceAllString(text, " ")
	text = tagPattern.ReplaceAllString(text, "")
	text = html.UnescapeString(text)

	return collapse(text)
}
