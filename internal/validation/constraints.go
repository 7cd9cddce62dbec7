package validation

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/deppfellow/request-tour/internal/errs"
	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	// idprefix=isbn- imdb- accepts strings starting with any listed prefix.
	if err := v.RegisterValidation("idprefix", func(fl validator.FieldLevel) bool {
		value := fl.Field().String()
		for _, prefix := range strings.Fields(fl.Param()) {
			if strings.HasPrefix(value, prefix) {
				return true
			}
		}
		return false
	}); err != nil {
		panic(err)
	}

	return v
}

// Validator exposes the shared validator so other packages (config) check
// structs with the same registered rules.
func Validator() *validator.Validate {
	return validate
}

// checkConstraints runs the validate tags over the bound struct. Errors at
// locations that already failed to bind are dropped.
func (b *binder) checkConstraints(dst any) {
	err := validate.Struct(dst)
	if err == nil {
		return
	}

	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		b.fail([]any{}, "type_error", err.Error(), nil, nil)
		return
	}

	for _, fe := range validationErrors {
		loc := b.schema.locate(fe.StructNamespace())
		if b.suppressed(loc) {
			continue
		}
		b.errors = append(b.errors, translate(fe, loc))
	}
}

// translate converts a validator error into a client-facing field error.
func translate(fe validator.FieldError, loc []any) errs.FieldError {
	out := errs.FieldError{Loc: loc, Input: fe.Value()}
	param := fe.Param()
	kind := fe.Kind()

	isText := kind == reflect.String
	isList := kind == reflect.Slice || kind == reflect.Array || kind == reflect.Map

	switch fe.Tag() {
	case "required":
		out.Type, out.Msg, out.Input = "missing", "Field required", nil

	case "gt":
		out.Type = "greater_than"
		out.Msg = "Input should be greater than " + param
		out.Ctx = map[string]any{"gt": number(param)}

	case "gte":
		out.Type = "greater_than_equal"
		out.Msg = "Input should be greater than or equal to " + param
		out.Ctx = map[string]any{"ge": number(param)}

	case "lt":
		out.Type = "less_than"
		out.Msg = "Input should be less than " + param
		out.Ctx = map[string]any{"lt": number(param)}

	case "lte":
		out.Type = "less_than_equal"
		out.Msg = "Input should be less than or equal to " + param
		out.Ctx = map[string]any{"le": number(param)}

	case "min":
		switch {
		case isText:
			out.Type = "string_too_short"
			out.Msg = fmt.Sprintf("String should have at least %s %s", param, plural(param, "character"))
			out.Ctx = map[string]any{"min_length": number(param)}
		case isList:
			out.Type = "too_short"
			out.Msg = fmt.Sprintf("List should have at least %s %s after validation", param, plural(param, "item"))
			out.Ctx = map[string]any{"min_length": number(param)}
		default:
			out.Type = "greater_than_equal"
			out.Msg = "Input should be greater than or equal to " + param
			out.Ctx = map[string]any{"ge": number(param)}
		}

	case "max":
		switch {
		case isText:
			out.Type = "string_too_long"
			out.Msg = fmt.Sprintf("String should have at most %s %s", param, plural(param, "character"))
			out.Ctx = map[string]any{"max_length": number(param)}
		case isList:
			out.Type = "too_long"
			out.Msg = fmt.Sprintf("List should have at most %s %s after validation", param, plural(param, "item"))
			out.Ctx = map[string]any{"max_length": number(param)}
		default:
			out.Type = "less_than_equal"
			out.Msg = "Input should be less than or equal to " + param
			out.Ctx = map[string]any{"le": number(param)}
		}

	case "oneof":
		expected := quoteList(strings.Fields(param), "or")
		out.Type = "enum"
		out.Msg = "Input should be " + expected
		out.Ctx = map[string]any{"expected": expected}

	case "email":
		reason := emailReason(fmt.Sprint(fe.Value()))
		out.Type = "value_error"
		out.Msg = "value is not a valid email address: " + reason
		out.Ctx = map[string]any{"reason": reason}

	case "idprefix":
		reason := "Invalid ID format, it must start with " + quoteDouble(strings.Fields(param))
		out.Type = "value_error"
		out.Msg = "Value error, " + reason
		out.Ctx = map[string]any{"error": reason}

	case "datetime":
		out.Type = "time_parsing"
		out.Msg = "Input should be in a valid time format"

	case "uuid", "uuid4":
		out.Type = "uuid_parsing"
		out.Msg = "Input should be a valid UUID"

	default:
		out.Type = fe.Tag()
		if param != "" {
			out.Msg = fmt.Sprintf("Failed %s=%s validation", fe.Tag(), param)
		} else {
			out.Msg = fmt.Sprintf("Failed %s validation", fe.Tag())
		}
	}

	return out
}

// emailReason names the first thing wrong with an address the email rule
// rejected.
func emailReason(value string) string {
	local, domain, found := strings.Cut(value, "@")
	switch {
	case !found:
		return "An email address must have an @-sign."
	case strings.Contains(domain, "@"):
		return "The email address is not valid. It must have exactly one @-sign."
	case local == "":
		return "There must be something before the @-sign."
	case domain == "":
		return "There must be something after the @-sign."
	case !strings.Contains(domain, "."):
		return "The part after the @-sign is not valid. It should have a period."
	}
	return "The email address is not valid."
}

// number renders a numeric tag parameter the way it reads in JSON.
func number(param string) any {
	if i, err := strconv.ParseInt(param, 10, 64); err == nil {
		return i
	}
	if f, err := strconv.ParseFloat(param, 64); err == nil {
		return f
	}
	return param
}

func plural(param, noun string) string {
	if param == "1" {
		return noun
	}
	return noun + "s"
}

// quoteList renders ["a", "b", "c"] as "'a', 'b' or 'c'".
func quoteList(values []string, conj string) string {
	quoted := make([]string, len(values))
	for i, v := range values {
		quoted[i] = "'" + v + "'"
	}
	return joinWith(quoted, conj)
}

// quoteDouble renders ["isbn-", "imdb-"] as `"isbn-" or "imdb-"`.
func quoteDouble(values []string) string {
	quoted := make([]string, len(values))
	for i, v := range values {
		quoted[i] = strconv.Quote(v)
	}
	return joinWith(quoted, "or")
}

func joinWith(items []string, conj string) string {
	switch len(items) {
	case 0:
		return ""
	case 1:
		return items[0]
	}
	return strings.Join(items[:len(items)-1], ", ") + " " + conj + " " + items[len(items)-1]
}
