package errs

import (
	"fmt"
	"net/http"
	"strings"
)

// FieldError describes one invalid piece of request input.
//
//	{"type": "greater_than", "loc": ["body", "price"], "msg": "Input should be greater than 0",
//	 "input": -3, "ctx": {"gt": 0}}
type FieldError struct {
	// Type is a stable machine-readable error kind (e.g. "missing", "int_parsing").
	Type string `json:"type"`

	// Loc is the path to the value: source first ("body", "query", "path",
	// "header", "cookie"), then field names and list indices.
	Loc []any `json:"loc"`

	// Msg is the human-readable message.
	Msg string `json:"msg"`

	// Input is the offending raw value (nil when absent).
	Input any `json:"input"`

	// Ctx carries the violated constraint parameters, if any.
	Ctx map[string]any `json:"ctx,omitempty"`
}

// Path renders Loc as a dotted string, e.g. "body.items.0.price".
func (f FieldError) Path() string {
	parts := make([]string, len(f.Loc))
	for i, p := range f.Loc {
		parts[i] = fmt.Sprint(p)
	}
	return strings.Join(parts, ".")
}

// ValidationError is the aggregated rejection of a request: every field
// problem found while binding, not only the first.
type ValidationError struct {
	Errors []FieldError
}

// NewValidationError wraps a list of field errors.
func NewValidationError(fieldErrors []FieldError) *ValidationError {
	return &ValidationError{Errors: fieldErrors}
}

func (e *ValidationError) Error() string {
	if len(e.Errors) == 1 {
		return fmt.Sprintf("1 validation error: %s: %s", e.Errors[0].Path(), e.Errors[0].Msg)
	}
	return fmt.Sprintf("%d validation errors", len(e.Errors))
}

// Status is always 422 Unprocessable Entity.
func (e *ValidationError) Status() int {
	return http.StatusUnprocessableEntity
}

// Body is the JSON payload written for this error.
func (e *ValidationError) Body() map[string]any {
	return map[string]any{"detail": e.Errors}
}

// Has reports whether some error sits exactly at loc.
func (e *ValidationError) Has(loc ...any) bool {
	for _, fe := range e.Errors {
		if len(fe.Loc) != len(loc) {
			continue
		}
		match := true
		for i := range loc {
			if fmt.Sprint(fe.Loc[i]) != fmt.Sprint(loc[i]) {
				match = false
				break
			}
		}
		if match {
			return true
		}
	}
	return false
}
