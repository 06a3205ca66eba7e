// Package jsonschema validates Go values against a JSON Schema and reports
// every violation with a dotted field path.
package jsonschema

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// FieldError is one schema violation.
type FieldError struct {
	// Path is the dotted location of the offending value, "" for the root.
	Path    string
	Message string
}

func (e FieldError) Error() string {
	if e.Path == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Path, e.Message)
}

// ValidationErrors represents a collection of validation errors
type ValidationErrors []FieldError

// Error implements the error interface for ValidationErrors
func (ve ValidationErrors) Error() string {
	if len(ve) == 0 {
		return ""
	}

	var sb strings.Builder
	for i, err := range ve {
		if i > 0 {
			sb.WriteString("; ")
		}
		sb.WriteString(err.Error())
	}
	return sb.String()
}

// Schema is a compiled JSON Schema.
type Schema struct {
	schema *jsonschema.Schema
}

// Compile parses and compiles a schema document. name identifies the
// document in error messages.
func Compile(name, schemaStr string) (*Schema, error) {
	compiler := jsonschema.NewCompiler()

	if err := compiler.AddResource(name, strings.NewReader(schemaStr)); err != nil {
		return nil, fmt.Errorf("invalid schema: %w", err)
	}

	schema, err := compiler.Compile(name)
	if err != nil {
		return nil, fmt.Errorf("invalid schema: %w", err)
	}
	return &Schema{schema: schema}, nil
}

// Validate checks v, which is first encoded as JSON so struct tags apply.
// It returns nil when v is valid, ValidationErrors when it is not, and any
// other error when v cannot be encoded.
func (s *Schema) Validate(v interface{}) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("invalid JSON: %w", err)
	}
	return s.ValidateJSON(raw)
}

// ValidateJSON checks a JSON document.
func (s *Schema) ValidateJSON(raw []byte) error {
	var doc interface{}
	if err := json.Unmarshal(raw, &doc); err != nil {
		return fmt.Errorf("invalid JSON: %w", err)
	}

	err := s.schema.Validate(doc)
	if err == nil {
		return nil
	}
	if validationErr, ok := err.(*jsonschema.ValidationError); ok {
		return extractValidationErrors(validationErr)
	}
	return err
}

// extractValidationErrors flattens the error tree into its most specific
// causes.
func extractValidationErrors(err *jsonschema.ValidationError) ValidationErrors {
	if len(err.Causes) == 0 {
		return ValidationErrors{{Path: dottedPath(err.InstanceLocation), Message: err.Message}}
	}

	var errors ValidationErrors
	for _, childErr := range err.Causes {
		errors = append(errors, extractValidationErrors(childErr)...)
	}
	return errors
}

// dottedPath turns a JSON pointer such as "/server/baseUrl" into
// "server.baseUrl".
func dottedPath(location string) string {
	return strings.ReplaceAll(strings.Trim(location, "/"), "/", ".")
}
