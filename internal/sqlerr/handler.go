package sqlerr

import (
	"database/sql"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/deppfellow/request-tour/internal/errs"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var (
	uniqueConstraintRe = regexp.MustCompile(`_([^_]+)_(?:key|ukey)$`)
	checkConstraintRe  = regexp.MustCompile(`^[^_]+_(.+)_check$`)
)

// ErrCode reports the Code of the first *Error in err's chain, or Other.
func ErrCode(err error) Code {
	var sqlErr *Error
	if errors.As(err, &sqlErr) {
		return sqlErr.Code
	}
	return Other
}

// ConvertPgError wraps a server error reported by pgx.
func ConvertPgError(src *pgconn.PgError) *Error {
	return &Error{
		Code:           MapCode(src.Code),
		Severity:       MapSeverity(src.Severity),
		DatabaseCode:   src.Code,
		Message:        src.Message,
		SchemaName:     src.SchemaName,
		TableName:      src.TableName,
		ColumnName:     src.ColumnName,
		DataTypeName:   src.DataTypeName,
		ConstraintName: src.ConstraintName,
		driverErr:      src,
	}
}

// errorCode builds a machine-readable code such as ITEM_ALREADY_EXISTS.
func errorCode(tableName string, code Code) string {
	domain := strings.ToUpper(singular(tableName))
	if domain == "" {
		domain = "RECORD"
	}

	action := "ERROR"
	switch code {
	case ForeignKeyViolation:
		action = "NOT_FOUND"
	case UniqueViolation:
		action = "ALREADY_EXISTS"
	case NotNullViolation:
		action = "REQUIRED"
	case CheckViolation, InvalidTextRep, NumericOutOfRange, StringTooLong:
		action = "INVALID"
	}

	return domain + "_" + action
}

func singular(name string) string {
	if len(name) > 1 && strings.HasSuffix(strings.ToLower(name), "s") {
		return name[:len(name)-1]
	}
	return name
}

// entityName prefers a foreign-key column ("user_id" -> "User"), then the
// singular table name, then "record".
func entityName(tableName, columnName string) string {
	if col := strings.ToLower(columnName); strings.HasSuffix(col, "_id") {
		return humanize(strings.TrimSuffix(col, "_id"))
	}
	if tableName != "" {
		return humanize(singular(tableName))
	}
	return "record"
}

// humanize turns snake_case into Title Case.
func humanize(text string) string {
	if text == "" {
		return ""
	}
	return cases.Title(language.English).String(strings.ReplaceAll(text, "_", " "))
}

// uniqueColumn guesses the column behind a unique constraint named
// unique_<table>_<column> or <table>_<column>_key.
func uniqueColumn(constraintName string) string {
	if strings.HasPrefix(constraintName, "unique_") {
		if parts := strings.Split(constraintName, "_"); len(parts) >= 3 {
			return parts[len(parts)-1]
		}
	}
	if m := uniqueConstraintRe.FindStringSubmatch(constraintName); len(m) > 1 {
		return m[1]
	}
	return ""
}

// checkColumn guesses the column behind a check constraint named
// <table>_<column>_check, the name postgres generates for column checks.
func checkColumn(sqlErr *Error) string {
	if sqlErr.ColumnName != "" {
		return sqlErr.ColumnName
	}
	if m := checkConstraintRe.FindStringSubmatch(sqlErr.ConstraintName); len(m) > 1 {
		return m[1]
	}
	return ""
}

// HandleError converts a database error into an API error.
//
//   - *errs.HTTPError and *errs.ValidationError pass through unchanged
//   - not-null and check violations become 422 field errors under "body"
//   - unique and foreign key violations become 400 with a readable message
//   - no rows becomes 404
//   - anything else becomes 500
func HandleError(err error) error {
	var httpErr *errs.HTTPError
	var validationErr *errs.ValidationError
	if errors.As(err, &httpErr) || errors.As(err, &validationErr) {
		return err
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		sqlErr := ConvertPgError(pgErr)
		code := errorCode(sqlErr.TableName, sqlErr.Code)
		entity := entityName(sqlErr.TableName, sqlErr.ColumnName)

		switch sqlErr.Code {
		case ForeignKeyViolation:
			return errs.NewBadRequestError(fmt.Sprintf("The referenced %s does not exist", entity), false, &code)

		case UniqueViolation:
			field := "identifier"
			if column := uniqueColumn(sqlErr.ConstraintName); column != "" {
				field = humanize(column)
			}
			return errs.NewBadRequestError(fmt.Sprintf("A %s with this %s already exists", entity, field), true, &code)

		case NotNullViolation:
			return errs.NewValidationError([]errs.FieldError{{
				Type: "missing",
				Loc:  []any{"body", strings.ToLower(sqlErr.ColumnName)},
				Msg:  "Field required",
			}})

		case CheckViolation:
			column := checkColumn(sqlErr)
			if column == "" {
				return errs.NewBadRequestError("One or more values do not meet required conditions", true, &code)
			}
			return errs.NewValidationError([]errs.FieldError{{
				Type: "value_error",
				Loc:  []any{"body", column},
				Msg:  fmt.Sprintf("The %s value does not meet required conditions", humanize(column)),
				Ctx:  map[string]any{"constraint": sqlErr.ConstraintName},
			}})

		default:
			return errs.NewInternalServerError()
		}
	}

	if errors.Is(err, pgx.ErrNoRows) || errors.Is(err, sql.ErrNoRows) {
		return errs.NewNotFoundError("Resource not found", false, nil)
	}

	return errs.NewInternalServerError()
}
