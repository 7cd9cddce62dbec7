// Package errs defines custom error types and utilities.
//
// Its purpose is to create specific error structures
// (ValidationError for request input, HTTPError for API responses)
// so the client receives meaningful, actionable and consistent
// error messages.
//
//   - Return consistent error shapes to API clients (JSON).
//   - Report every invalid request field at once, with its location.
//   - Translate application errors into responses in a single place (Registry).
//   - Play nicely with Go's standard errors package.
package errs

import (
	"maps"
	"net/http"
	"strings"
)

// HTTPError is the main custom error type for API responses.
//
// It renders as {"detail": Detail}. Headers are copied onto the response
// by the error handler.
type HTTPError struct {
	// Code is a machine-friendly error code (e.g. "NOT_FOUND"), used in logs.
	Code string `json:"-"`

	// Status is the HTTP status code.
	Status int `json:"-"`

	// Detail is what the client sees. Usually a string.
	Detail any `json:"detail"`

	// Override lets the error handler decide whether the detail may be
	// replaced by a generic message.
	Override bool `json:"-"`

	// Headers are extra response headers (e.g. X-Error, WWW-Authenticate).
	Headers map[string]string `json:"-"`
}

// Error makes *HTTPError satisfy the built-in `error` interface.
func (e *HTTPError) Error() string {
	if msg, ok := e.Detail.(string); ok {
		return msg
	}
	return http.StatusText(e.Status)
}

// Is reports whether target is also an *HTTPError. It does not compare
// status or detail.
func (e *HTTPError) Is(target error) bool {
	_, ok := target.(*HTTPError)
	return ok
}

// WithDetail returns a copy with Detail replaced.
func (e *HTTPError) WithDetail(detail any) *HTTPError {
	cp := *e
	cp.Detail = detail
	cp.Headers = maps.Clone(e.Headers)
	return &cp
}

// WithHeader returns a copy carrying an extra response header.
func (e *HTTPError) WithHeader(key, value string) *HTTPError {
	cp := *e
	cp.Headers = maps.Clone(e.Headers)
	if cp.Headers == nil {
		cp.Headers = make(map[string]string, 1)
	}
	cp.Headers[key] = value
	return &cp
}

// Body is the JSON payload written for this error.
func (e *HTTPError) Body() map[string]any {
	return map[string]any{"detail": e.Detail}
}

// MakeUpperCaseWithUnderscores converts a string into an UPPER_CASE_WITH_UNDERSCORES format.
//
//	"Bad Request" -> "BAD_REQUEST"
func MakeUpperCaseWithUnderscores(str string) string {
	return strings.ToUpper(strings.ReplaceAll(str, " ", "_"))
}
