package sqlerr

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/deppfellow/request-tour/internal/errs"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMapCode(t *testing.T) {
	assert.Equal(t, UniqueViolation, MapCode("23505"))
	assert.Equal(t, CheckViolation, MapCode("23514"))
	assert.Equal(t, ConnectionFailure, MapCode("08006"))
	assert.Equal(t, Other, MapCode("XX000"))
}

func TestMapSeverity(t *testing.T) {
	assert.Equal(t, SeverityFatal, MapSeverity("fatal"))
	assert.Equal(t, SeverityError, MapSeverity("weird"))
}

func TestHandleError_CheckViolationBecomesFieldError(t *testing.T) {
	err := HandleError(fmt.Errorf("put item: %w", &pgconn.PgError{
		Code:           "23514",
		Severity:       "ERROR",
		Message:        `new row for relation "items" violates check constraint "items_price_check"`,
		TableName:      "items",
		ConstraintName: "items_price_check",
	}))

	verr, ok := err.(*errs.ValidationError)
	require.True(t, ok, "got %T", err)
	assert.True(t, verr.Has("body", "price"))
}

func TestHandleError_UniqueViolation(t *testing.T) {
	err := HandleError(&pgconn.PgError{
		Code:           "23505",
		TableName:      "items",
		ConstraintName: "items_name_key",
	})

	httpErr, ok := err.(*errs.HTTPError)
	require.True(t, ok)
	assert.Equal(t, http.StatusBadRequest, httpErr.Status)
	assert.Equal(t, "A Item with this Name already exists", httpErr.Detail)
	assert.Equal(t, "ITEM_ALREADY_EXISTS", httpErr.Code)
}

func TestHandleError_NoRowsAndUnknown(t *testing.T) {
	notFound, ok := HandleError(pgx.ErrNoRows).(*errs.HTTPError)
	require.True(t, ok)
	assert.Equal(t, http.StatusNotFound, notFound.Status)

	internal, ok := HandleError(fmt.Errorf("boom")).(*errs.HTTPError)
	require.True(t, ok)
	assert.Equal(t, http.StatusInternalServerError, internal.Status)
	assert.Equal(t, "Internal Server Error", internal.Detail)
}

func TestHandleError_PassesAPIErrorsThrough(t *testing.T) {
	original := errs.NewNotFoundError("Item not found", false, nil)
	assert.Same(t, original, HandleError(original))
}

func TestErrCode(t *testing.T) {
	wrapped := fmt.Errorf("wrap: %w", ConvertPgError(&pgconn.PgError{Code: "23503"}))
	assert.Equal(t, ForeignKeyViolation, ErrCode(wrapped))
	assert.Equal(t, Other, ErrCode(fmt.Errorf("plain")))
}
