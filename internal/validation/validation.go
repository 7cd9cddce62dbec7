// Package validation contains the logic for binding and validating
// request data.
//
// Request types are plain structs. Their tags are the schema: a source tag
// (`path`, `query`, `header`, `cookie`, `formData`, or `json` for body
// fields) names where each value is read from, `default` supplies the
// value used when the input is absent, and `validate` carries constraints
// enforced by the go-playground/validator library. Bind extracts, coerces,
// defaults and validates every field and reports all problems at once as an
// *errs.ValidationError.
package validation

import (
	"github.com/deppfellow/request-tour/internal/errs"
	"github.com/labstack/echo/v4"
)

// Validatable is implemented by request types with checks that span
// several fields. Validate runs only after every field bound and passed its
// own constraints.
type Validatable interface {
	Validate() error
}

// ExtraForbidder is implemented by request types that reject inputs they
// do not declare (query keys, cookies, form fields, body keys).
type ExtraForbidder interface {
	ForbidExtra() bool
}

// CustomValidationError is a single validation issue that cannot be
// expressed with validator tags.
type CustomValidationError struct {
	Source  Source
	Field   string
	Message string
}

// CustomValidationErrors is a slice of custom validation errors that satisfies error.
type CustomValidationErrors []CustomValidationError

func (c CustomValidationErrors) Error() string {
	return "Validation failed"
}

// Bind populates dst (a pointer to a request struct) from the request and
// validates it. On failure it returns *errs.ValidationError listing every
// problem found.
func Bind(c echo.Context, dst any) error {
	b, err := newBinder(c, dst)
	if err != nil {
		return err
	}

	b.bind()
	b.checkConstraints(dst)

	if len(b.errors) == 0 {
		if v, ok := dst.(Validatable); ok {
			if err := v.Validate(); err != nil {
				custom, ok := err.(CustomValidationErrors)
				if !ok {
					return err
				}
				for _, ce := range custom {
					b.fail([]any{ce.Source.locLabel(), ce.Field}, "value_error", "Value error, "+ce.Message, nil, nil)
				}
			}
		}
	}

	if len(b.errors) > 0 {
		return errs.NewValidationError(b.errors)
	}

	return nil
}
