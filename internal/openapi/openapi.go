// Package openapi builds the OpenAPI 3.1 document of the API by reflecting
// the same request and response types the binder uses. Path, query,
// header, cookie and formData tags become parameters; json fields become
// the request body.
package openapi

import (
	"net/http"
	"reflect"
	"regexp"
	"slices"
	"strings"
	"sync"

	"github.com/deppfellow/request-tour/internal/errs"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/swaggest/jsonschema-go"
	"github.com/swaggest/openapi-go"
	"github.com/swaggest/openapi-go/openapi31"
)

// HTTPValidationError documents the 422 body.
type HTTPValidationError struct {
	Detail []errs.FieldError `json:"detail"`
}

// HTTPErrorBody documents {"detail": "..."} error bodies.
type HTTPErrorBody struct {
	Detail string `json:"detail"`
}

// Operation describes one route for the document.
type Operation struct {
	Method string
	// Path uses {name} placeholders.
	Path    string
	Status  int
	Summary string
	Tags    []string

	Request  any
	Response any

	// Errors lists extra documented error statuses besides 422.
	Errors []int
}

// Document accumulates operations and renders the JSON once.
type Document struct {
	mu        sync.Mutex
	reflector *openapi31.Reflector
	logger    *zerolog.Logger

	rendered []byte
}

func New(logger *zerolog.Logger, title, version string) *Document {
	reflector := openapi31.NewReflector()
	reflector.Spec.Info.WithTitle(title).WithVersion(version)

	schemas := reflector.JSONSchemaReflector()
	schemas.DefaultOptions = append(schemas.DefaultOptions, jsonschema.InterceptProp(markRequired))

	return &Document{reflector: reflector, logger: logger}
}

// Add registers op. A type the reflector cannot describe is logged and the
// route stays undocumented; serving it is unaffected.
func (d *Document) Add(op Operation) {
	if err := d.add(op); err != nil {
		d.logger.Error().
			Err(err).
			Str("method", op.Method).
			Str("path", op.Path).
			Msg("failed to document route")
	}
}

func (d *Document) add(op Operation) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	oc, err := d.reflector.NewOperationContext(op.Method, op.Path)
	if err != nil {
		return errors.Wrap(err, "new operation")
	}

	if op.Summary != "" {
		oc.SetSummary(op.Summary)
	}
	if len(op.Tags) > 0 {
		oc.SetTags(op.Tags...)
	}

	if op.Request != nil {
		oc.AddReqStructure(op.Request)
	}
	oc.AddRespStructure(op.Response, openapi.WithHTTPStatus(op.Status))
	if op.Request != nil {
		oc.AddRespStructure(HTTPValidationError{}, openapi.WithHTTPStatus(http.StatusUnprocessableEntity))
	}
	for _, status := range op.Errors {
		oc.AddRespStructure(HTTPErrorBody{}, openapi.WithHTTPStatus(status))
	}

	if err := d.reflector.AddOperation(oc); err != nil {
		return errors.Wrap(err, "add operation")
	}

	d.rendered = nil
	return nil
}

// JSON renders the document.
func (d *Document) JSON() ([]byte, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.rendered != nil {
		return d.rendered, nil
	}

	data, err := d.reflector.Spec.MarshalJSON()
	if err != nil {
		return nil, errors.Wrap(err, "marshal OpenAPI document")
	}
	d.rendered = data
	return data, nil
}

// markRequired lists json fields as required the way the binder treats
// them: everything except pointers, free-form values and fields with a
// default or omitempty.
func markRequired(params jsonschema.InterceptPropParams) error {
	if !params.Processed || params.ParentSchema == nil {
		return nil
	}

	field := params.Field
	tag, ok := field.Tag.Lookup("json")
	if !ok || strings.Contains(tag, "omitempty") {
		return nil
	}
	if _, ok := field.Tag.Lookup("default"); ok {
		return nil
	}
	switch field.Type.Kind() {
	case reflect.Pointer, reflect.Interface:
		return nil
	}

	if !slices.Contains(params.ParentSchema.Required, params.Name) {
		params.ParentSchema.Required = append(params.ParentSchema.Required, params.Name)
	}
	return nil
}

var placeholder = regexp.MustCompile(`\{([^}/]+)\}`)

// EchoPath turns "/items/{item_id}" into echo's "/items/:item_id".
func EchoPath(path string) string {
	return placeholder.ReplaceAllString(path, ":$1")
}
