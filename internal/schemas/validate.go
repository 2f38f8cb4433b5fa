// Package schemas validates resume documents against JSON Schemas.
package schemas

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	schemafiles "github.com/jonathan/resume-builder/schemas"
	"github.com/xeipuuv/gojsonschema"
)

// ResolveSchemaPath finds a schema file relative to the working directory or
// one or two levels above it, so commands run from cmd/ or tests still find
// repo-level schemas. Returns "" when nothing matches.
func ResolveSchemaPath(relativePath string) string {
	candidates := []string{
		relativePath,
		filepath.Join("..", relativePath),
		filepath.Join("..", "..", relativePath),
	}
	for _, candidate := range candidates {
		if absPath, err := filepath.Abs(candidate); err == nil {
			if _, err := os.Stat(absPath); err == nil {
				return absPath
			}
		}
	}
	return ""
}

// ValidationError lists every place a document breaks its schema
type ValidationError struct {
	Errors []FieldError
}

// FieldError is a single schema violation at a field path
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

// SchemaLoadError is returned when the schema itself cannot be used
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

var embeddedResumeSchema = sync.OnceValues(func() (*gojsonschema.Schema, error) {
	schema, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(schemafiles.Resume))
	if err != nil {
		return nil, &SchemaLoadError{Path: "resume.schema.json", Message: "embedded schema is invalid", Cause: err}
	}
	return schema, nil
})

// ValidateResume validates a resume document against the embedded resume schema
func ValidateResume(data []byte) error {
	schema, err := embeddedResumeSchema()
	if err != nil {
		return err
	}
	return validate(schema, data)
}

// ValidateResumeAgainst validates a resume document against the schema file
// at schemaPath, typically a stricter variant of the built-in schema
func ValidateResumeAgainst(schemaPath string, data []byte) error {
	schema, err := LoadSchema(schemaPath)
	if err != nil {
		return err
	}
	return validate(schema, data)
}

// LoadSchema compiles the schema file at path, resolving $refs relative to it
func LoadSchema(path string) (*gojsonschema.Schema, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, &SchemaLoadError{Path: path, Message: "failed to resolve path", Cause: err}
	}
	if _, err := os.Stat(absPath); os.IsNotExist(err) {
		return nil, &SchemaLoadError{Path: absPath, Message: "schema file not found"}
	}
	schema, err := gojsonschema.NewSchema(gojsonschema.NewReferenceLoader("file://" + filepath.ToSlash(absPath)))
	if err != nil {
		return nil, &SchemaLoadError{Path: absPath, Message: "invalid schema", Cause: err}
	}
	return schema, nil
}

func validate(schema *gojsonschema.Schema, data []byte) error {
	result, err := schema.Validate(gojsonschema.NewBytesLoader(data))
	if err != nil {
		// the document itself could not be parsed
		return &ValidationError{Errors: []FieldError{{Field: "(root)", Message: err.Error()}}}
	}
	if result.Valid() {
		return nil
	}

	validationErr := &ValidationError{Errors: make([]FieldError, 0, len(result.Errors()))}
	for _, desc := range result.Errors() {
		field := desc.Field()
		if field == "" {
			field = "(root)"
		}
		validationErr.Errors = append(validationErr.Errors, FieldError{Field: field, Message: desc.Description()})
	}
	return validationErr
}
