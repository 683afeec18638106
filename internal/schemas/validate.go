// Package schemas provides JSON Schema validation for documents and parse results.
package schemas

import (
	"embed"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

//go:embed *.schema.json
var schemaFS embed.FS

// Embedded schema names
const (
	ResumeDocument = "resume_document.schema.json"
	ParsedResume   = "parsed_resume.schema.json"
)

// ValidationError represents a schema validation error with field paths
type ValidationError struct {
	Errors []FieldError
}

// FieldError represents a single validation error at a specific field
type FieldError struct {
	Field   string
	Message string
}

// SchemaLoadError represents errors loading or parsing the schema itself
type SchemaLoadError struct {
	Path    string
	Message string
	Cause   error
}

func (e *SchemaLoadError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("failed to load schema %s: %s: %v", e.Path, e.Message, e.Cause)
	}
	return fmt.Sprintf("failed to load schema %s: %s", e.Path, e.Message)
}

func (e *SchemaLoadError) Unwrap() error {
	return e.Cause
}

func (ve *ValidationError) Error() string {
	var sb strings.Builder
	sb.WriteString("validation failed:\n")
	for i, err := range ve.Errors {
		sb.WriteString(fmt.Sprintf("  %d. %s: %s\n", i+1, err.Field, err.Message))
	}
	return sb.String()
}

// Schema returns the raw content of an embedded schema
func Schema(name string) ([]byte, error) {
	data, err := schemaFS.ReadFile(name)
	if err != nil {
		return nil, &SchemaLoadError{Path: name, Message: "unknown schema", Cause: err}
	}
	return data, nil
}

// ValidateDocument validates resume document JSON
func ValidateDocument(data []byte) error {
	return validateEmbedded(ResumeDocument, data)
}

// ValidateParsedResume validates the JSON of an external parse result
func ValidateParsedResume(data []byte) error {
	return validateEmbedded(ParsedResume, data)
}

// ValidateFile validates a JSON file against an embedded schema
func ValidateFile(schemaName, jsonPath string) error {
	absPath, err := filepath.Abs(jsonPath)
	if err != nil {
		return fmt.Errorf("failed to resolve JSON path: %w", err)
	}
	data, err := os.ReadFile(absPath)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("JSON file not found: %s", absPath)
		}
		return fmt.Errorf("failed to read JSON file: %w", err)
	}
	return validateEmbedded(schemaName, data)
}

func validateEmbedded(schemaName string, data []byte) error {
	schema, err := Schema(schemaName)
	if err != nil {
		return err
	}
	return validate(schemaName, gojsonschema.NewBytesLoader(schema), gojsonschema.NewBytesLoader(data))
}

// ValidateJSONString validates JSON string content against schema string content
func ValidateJSONString(schemaContent, jsonContent string) error {
	return validate("(string schema)", gojsonschema.NewStringLoader(schemaContent), gojsonschema.NewStringLoader(jsonContent))
}

func validate(schemaPath string, schemaLoader, documentLoader gojsonschema.JSONLoader) error {
	result, err := gojsonschema.Validate(schemaLoader, documentLoader)
	if err != nil {
		return &SchemaLoadError{
			Path:    schemaPath,
			Message: "schema validation failed during load",
			Cause:   err,
		}
	}

	if result.Valid() {
		return nil
	}

	validationErr := &ValidationError{
		Errors: make([]FieldError, 0, len(result.Errors())),
	}

	for _, desc := range result.Errors() {
		field := desc.Field()
		if field == "" {
			field = "(root)"
		}
		validationErr.Errors = append(validationErr.Errors, FieldError{
			Field:   field,
			Message: desc.Description(),
		})
	}

	return validationErr
}
