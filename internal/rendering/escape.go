package rendering

import "strings"

// latexReplacer maps LaTeX control characters and the typographic glyphs
// pasted in from word processors to their LaTeX spellings.
var latexReplacer = strings.NewReplacer(
	`\`, `\textbackslash{}`,
	`{`, `\{`,
	`}`, `\}`,
	`$`, `\$`,
	`&`, `\&`,
	`%`, `\%`,
	`#`, `\#`,
	`^`, `\textasciicircum{}`,
	`_`, `\_`,
	`~`, `\textasciitilde{}`,
	`<`, `\textless{}`,
	`>`, `\textgreater{}`,
	"•", `\textbullet{}`,
	"\u2013", `--`,
	"\u2014", `---`,
	"\u2026", `\ldots{}`,
	"\u201c", "``",
	"\u201d", "''",
)

// EscapeLaTeX escapes text for use inside a LaTeX document body.
func EscapeLaTeX(text string) string {
	return latexReplacer.Replace(text)
}
