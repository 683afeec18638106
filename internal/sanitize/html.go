package sanitize

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// blockElements end a visual line; their text is kept apart from siblings
const blockElements = "p, div, li, ul, ol, h1, h2, h3, h4, h5, h6, tr, td, th"

// HTMLSanitizer parses text as an HTML fragment and returns its text content
type HTMLSanitizer struct{}

// Clean returns the text content of an HTML fragment with whitespace collapsed.
// Text without markup or entities is returned unchanged.
func (HTMLSanitizer) Clean(text string) string {
	if !needsCleaning(text) {
		return text
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(text))
	if err != nil {
		return RegexSanitizer{}.Clean(text)
	}

	doc.Find("script, style").Remove()
	doc.Find("br").Each(func(_ int, s *goquery.Selection) {
		s.ReplaceWithNodes(space())
	})
	doc.Find(blockElements).Each(func(_ int, s *goquery.Selection) {
		s.AppendNodes(space())
	})

	return collapse(doc.Text())
}

func space() *html.Node {
	return &html.Node{Type: html.TextNode, Data: " "}
}
