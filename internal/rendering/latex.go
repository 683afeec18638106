package rendering

import (
	"embed"
	"errors"
	"io/fs"
	"os"
	"strings"
	"text/template"

	"github.com/jonathan/resume-editor/internal/types"
)

//go:embed templates/*.tmpl
var templateFiles embed.FS

const defaultLaTeXTemplate = "templates/resume.tex.tmpl"

// RenderLaTeX renders the visible document with the LaTeX template at
// templatePath, or the built-in template when templatePath is empty.
func RenderLaTeX(doc *types.ResumeDocument, templatePath string, contactOrder []string) (string, error) {
	name := templatePath
	if name == "" {
		name = defaultLaTeXTemplate
	}

	tmpl, err := parseLaTeXTemplate(name, templatePath == "")
	if err != nil {
		return "", err
	}

	var result strings.Builder
	if err := tmpl.Execute(&result, BuildView(doc, contactOrder)); err != nil {
		return "", &TemplateError{Template: name, Message: "failed to execute", Cause: err}
	}
	return result.String(), nil
}

func parseLaTeXTemplate(name string, embedded bool) (*template.Template, error) {
	var content []byte
	var err error
	if embedded {
		content, err = templateFiles.ReadFile(name)
	} else {
		content, err = os.ReadFile(name)
	}
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, &TemplateError{Template: name, Message: "not found", Cause: err}
		}
		return nil, &TemplateError{Template: name, Message: "failed to read", Cause: err}
	}

	tmpl, err := template.New("resume").Funcs(template.FuncMap{"escape": EscapeLaTeX}).Parse(string(content))
	if err != nil {
		return nil, &TemplateError{Template: name, Message: "failed to parse", Cause: err}
	}
	return tmpl, nil
}
