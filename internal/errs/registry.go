package errs

import (
	"net/http"

	"github.com/pkg/errors"
)

// Response is what an error turns into on the wire.
type Response struct {
	Status  int
	Body    any
	Headers map[string]string
}

// Translator converts an error into a Response. ok is false when the
// translator does not handle err.
type Translator func(err error) (resp Response, ok bool)

// Registry maps error variants to responses. It is consulted once, by the
// global error handler, so handlers only ever return errors.
type Registry struct {
	translators []Translator
}

// NewRegistry returns a registry that already knows *ValidationError and
// *HTTPError.
func NewRegistry() *Registry {
	r := &Registry{}

	Register(r, func(e *ValidationError) Response {
		return Response{Status: e.Status(), Body: e.Body()}
	})

	Register(r, func(e *HTTPError) Response {
		return Response{Status: e.Status, Body: e.Body(), Headers: e.Headers}
	})

	return r
}

// Add appends a raw translator. Translators are tried in the order added.
func (r *Registry) Add(t Translator) {
	r.translators = append(r.translators, t)
}

// Register adds a translator for every error in the chain that is a T.
//
//	errs.Register(registry, func(e *UnicornError) errs.Response { ... })
func Register[T error](r *Registry, fn func(T) Response) {
	r.Add(func(err error) (Response, bool) {
		var target T
		if errors.As(err, &target) {
			return fn(target), true
		}
		return Response{}, false
	})
}

// Translate finds the response for err. Unknown errors are reported as
// (500, {"detail": "Internal Server Error"}, false).
func (r *Registry) Translate(err error) (Response, bool) {
	for _, t := range r.translators {
		if resp, ok := t(err); ok {
			return resp, true
		}
	}

	internal := NewInternalServerError()
	return Response{Status: http.StatusInternalServerError, Body: internal.Body()}, false
}
