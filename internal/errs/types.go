package errs

import (
	"net/http"
)

func newHTTPError(status int, detail any, override bool, code *string) *HTTPError {
	formattedCode := MakeUpperCaseWithUnderscores(http.StatusText(status))
	if code != nil {
		formattedCode = *code
	}

	return &HTTPError{
		Code:     formattedCode,
		Status:   status,
		Detail:   detail,
		Override: override,
	}
}

// NewHTTPError creates an HTTPError for any status.
func NewHTTPError(status int, detail any) *HTTPError {
	return newHTTPError(status, detail, false, nil)
}

// NewUnauthorizedError creates a 401 Unauthorized HTTPError.
func NewUnauthorizedError(detail string, override bool) *HTTPError {
	return newHTTPError(http.StatusUnauthorized, detail, override, nil)
}

// NewForbiddenError creates a 403 Forbidden HTTPError.
func NewForbiddenError(detail string, override bool) *HTTPError {
	return newHTTPError(http.StatusForbidden, detail, override, nil)
}

// NewBadRequestError creates a 400 Bad Request HTTPError.
// code may be nil, in which case it defaults to "BAD_REQUEST".
func NewBadRequestError(detail string, override bool, code *string) *HTTPError {
	return newHTTPError(http.StatusBadRequest, detail, override, code)
}

// NewNotFoundError creates a 404 Not Found HTTPError.
func NewNotFoundError(detail string, override bool, code *string) *HTTPError {
	return newHTTPError(http.StatusNotFound, detail, override, code)
}

// NewInternalServerError creates a 500 Internal Server Error HTTPError.
//
// The detail is the generic status text, never the internal error message.
func NewInternalServerError() *HTTPError {
	return newHTTPError(http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError), false, nil)
}
