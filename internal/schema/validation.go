package schema

import (
	"fmt"
	"strings"
)

// ValidationError is one option that does not match its schema.
type ValidationError struct {
	Field   string // Option path, "(root)" for the document itself
	Message string
	Type    string // gojsonschema error type, e.g. "required" or "invalid_type"
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("validation error at %s: %s", e.Field, e.Message)
}

// ValidationErrors is a collection of validation errors
type ValidationErrors []ValidationError

// Error returns all validation errors formatted with clear separation
func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return "validation errors"
	}
	if len(e) == 1 {
		return e[0].Error()
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "found %d validation errors:\n", len(e))
	for i, err := range e {
		fmt.Fprintf(&sb, "  %d. %s\n", i+1, err.Error())
	}
	return sb.String()
}

// Result is the outcome of validating options against a schema.
type Result struct {
	Schema string
	Errors ValidationErrors
}

// Valid reports whether no errors were found.
func (r *Result) Valid() bool {
	return len(r.Errors) == 0
}

// Err returns the errors as an error, nil when valid.
func (r *Result) Err() error {
	if r.Valid() {
		return nil
	}
	return fmt.Errorf("invalid %s options: %w", r.Schema, r.Errors)
}
