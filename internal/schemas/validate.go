// Package schemas provides JSON Schema validation for import documents.
package schemas

import (
	_ "embed"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

//go:embed candidates_export.schema.json
var candidatesExportSchema []byte

// ValidationError represents a schema validation error with field paths
type ValidationError struct {
	Errors []FieldError
}

// FieldError represents a single validation error at a specific field
type FieldError struct {
	Field   string
	Message string
}

func (ve *ValidationError) Error() string {
	var sb strings.Builder
	sb.WriteString("validation failed:\n")
	for i, err := range ve.Errors {
		sb.WriteString(fmt.Sprintf("  %d. %s: %s\n", i+1, err.Field, err.Message))
	}
	return sb.String()
}

// DocumentError represents a document that could not be loaded at all (e.g. not JSON).
type DocumentError struct {
	Message string
	Cause   error
}

func (e *DocumentError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("failed to load document: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("failed to load document: %s", e.Message)
}

func (e *DocumentError) Unwrap() error {
	return e.Cause
}

// ValidateCandidateImport validates a JSON import document against the candidates export schema.
func ValidateCandidateImport(document []byte) error {
	return ValidateJSONBytes(candidatesExportSchema, document)
}

// CandidatesExportSchema returns a copy of the embedded candidates export schema.
func CandidatesExportSchema() []byte {
	out := make([]byte, len(candidatesExportSchema))
	copy(out, candidatesExportSchema)
	return out
}

// ValidateJSONBytes validates JSON document content against schema content
func ValidateJSONBytes(schema, document []byte) error {
	schemaLoader := gojsonschema.NewBytesLoader(schema)
	documentLoader := gojsonschema.NewBytesLoader(document)

	result, err := gojsonschema.Validate(schemaLoader, documentLoader)
	if err != nil {
		return &DocumentError{
			Message: "document is not valid JSON or schema could not be compiled",
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
