// Package rendering turns the visible part of a resume document into LaTeX, HTML or PDF.
package rendering

import "fmt"

// TemplateError is returned when a template cannot be read, parsed or executed.
// Template names the embedded template or the file path.
type TemplateError struct {
	Template string
	Message  string
	Cause    error
}

func (e *TemplateError) Error() string {
	msg := fmt.Sprintf("template %s: %s", e.Template, e.Message)
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

func (e *TemplateError) Unwrap() error {
	return e.Cause
}

// RenderError is returned when an output format fails after templating,
// such as the browser step of PDF export.
type RenderError struct {
	Format  string
	Message string
	Cause   error
}

func (e *RenderError) Error() string {
	msg := fmt.Sprintf("render %s: %s", e.Format, e.Message)
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

func (e *RenderError) Unwrap() error {
	return e.Cause
}
