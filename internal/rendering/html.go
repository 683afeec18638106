package rendering

import (
	"html/template"
	"strings"

	"github.com/jonathan/resume-editor/internal/types"
)

const defaultHTMLTemplate = "templates/resume.html.tmpl"

// RenderHTML renders the visible document as a standalone HTML page
func RenderHTML(doc *types.ResumeDocument, contactOrder []string) (string, error) {
	content, err := templateFiles.ReadFile(defaultHTMLTemplate)
	if err != nil {
		return "", &TemplateError{Template: defaultHTMLTemplate, Message: "failed to read", Cause: err}
	}

	tmpl, err := template.New("resume.html").Parse(string(content))
	if err != nil {
		return "", &TemplateError{Template: defaultHTMLTemplate, Message: "failed to parse", Cause: err}
	}

	var result strings.Builder
	if err := tmpl.Execute(&result, BuildView(doc, contactOrder)); err != nil {
		return "", &TemplateError{Template: defaultHTMLTemplate, Message: "failed to execute", Cause: err}
	}
	return result.String(), nil
}
