// Package schemas provides JSON Schema validation for structured pipeline artifacts.
// Schemas are embedded at compile time and selected by artifact kind.
package schemas

import (
	"embed"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

//go:embed *.schema.json
var schemaFiles embed.FS

// schemaByKind maps artifact filenames to their embedded schema file.
// Text and markdown artifacts have no schema and are not listed.
var schemaByKind = map[string]string{
	"prd_context.json": "prd_context.schema.json",
	"test_plan.json":   "test_plan.schema.json",
	"test_suite.json":  "test_suite.schema.json",
}

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

// ValidateArtifact validates artifact content against the schema registered
// for its kind. Kinds without a registered schema pass without inspection.
func ValidateArtifact(kind string, content []byte) error {
	schemaFile, ok := schemaByKind[kind]
	if !ok {
		return nil
	}

	schemaContent, err := schemaFiles.ReadFile(schemaFile)
	if err != nil {
		return &SchemaLoadError{
			Path:    schemaFile,
			Message: "failed to read embedded schema",
			Cause:   err,
		}
	}

	return ValidateJSONString(string(schemaContent), string(content))
}

// HasSchema reports whether a schema is registered for the given artifact kind.
func HasSchema(kind string) bool {
	_, ok := schemaByKind[kind]
	return ok
}

// ValidateJSONString validates JSON string content against schema string content
func ValidateJSONString(schemaContent, jsonContent string) error {
	schemaLoader := gojsonschema.NewStringLoader(schemaContent)
	documentLoader := gojsonschema.NewStringLoader(jsonContent)

	result, err := gojsonschema.Validate(schemaLoader, documentLoader)
	if err != nil {
		return &SchemaLoadError{
			Path:    "(string schema)",
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
