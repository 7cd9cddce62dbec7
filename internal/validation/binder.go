package validation

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"reflect"
	"sort"
	"strings"

	"github.com/deppfellow/request-tour/internal/errs"
	"github.com/labstack/echo/v4"
)

// maxMultipartMemory is how much of a multipart body is kept in memory
// before spilling file parts to disk.
const maxMultipartMemory = 32 << 20

type binder struct {
	c      echo.Context
	schema *Schema
	root   reflect.Value

	errors []errs.FieldError
	failed map[string]struct{}

	formLoaded bool
	formValues url.Values
	formFiles  map[string][]*multipart.FileHeader
}

func newBinder(c echo.Context, dst any) (*binder, error) {
	rv := reflect.ValueOf(dst)
	if rv.Kind() != reflect.Pointer || rv.IsNil() || rv.Elem().Kind() != reflect.Struct {
		return nil, fmt.Errorf("validation: Bind needs a non-nil pointer to a struct, got %T", dst)
	}

	schema, err := SchemaOf(rv.Elem().Type())
	if err != nil {
		return nil, err
	}

	return &binder{
		c:      c,
		schema: schema,
		root:   rv.Elem(),
		failed: map[string]struct{}{},
	}, nil
}

func (b *binder) bind() {
	for _, f := range b.schema.Fields {
		switch f.Source {
		case SourcePath:
			b.bindPath(f)
		case SourceQuery:
			b.bindText(f, b.c.QueryParams()[f.Name], true)
		case SourceHeader:
			b.bindText(f, b.c.Request().Header.Values(f.Name), false)
		case SourceCookie:
			b.bindCookie(f)
		case SourceForm:
			b.bindForm(f)
		}
	}

	b.bindBody()

	if b.schema.ForbidExtra {
		b.rejectExtras()
	}
}

// fail records one error and remembers its location so constraint
// failures at the same place are not reported twice.
func (b *binder) fail(loc []any, typ, msg string, input any, ctx map[string]any) {
	b.errors = append(b.errors, errs.FieldError{
		Type:  typ,
		Loc:   loc,
		Msg:   msg,
		Input: input,
		Ctx:   ctx,
	})
	b.failed[locKey(loc)] = struct{}{}
}

// suppressed reports whether loc, or any location enclosing it, already
// failed.
func (b *binder) suppressed(loc []any) bool {
	for i := len(loc); i > 0; i-- {
		if _, ok := b.failed[locKey(loc[:i])]; ok {
			return true
		}
	}
	return false
}

func locKey(loc []any) string {
	parts := make([]string, len(loc))
	for i, p := range loc {
		parts[i] = fmt.Sprint(p)
	}
	return strings.Join(parts, "\x00")
}

func (b *binder) missing(loc []any) {
	b.fail(loc, "missing", "Field required", nil, nil)
}

func (b *binder) field(f Field) reflect.Value {
	return b.root.FieldByIndex(f.Index)
}

func (b *binder) bindPath(f Field) {
	loc := []any{f.Source.locLabel(), f.locName()}
	for _, name := range b.c.ParamNames() {
		if name == f.Name {
			b.setText(f, loc, []string{b.c.Param(name)}, true)
			return
		}
	}
	b.absent(f, loc)
}

func (b *binder) bindCookie(f Field) {
	loc := []any{f.Source.locLabel(), f.locName()}
	cookie, err := b.c.Cookie(f.Name)
	if err != nil {
		b.absent(f, loc)
		return
	}
	b.setText(f, loc, []string{cookie.Value}, true)
}

// bindText binds query and header values. Multi-valued fields keep every
// value in arrival order; scalar query fields take the last value and
// scalar headers the first.
func (b *binder) bindText(f Field, values []string, lastWins bool) {
	loc := []any{f.Source.locLabel(), f.locName()}
	if len(values) == 0 {
		b.absent(f, loc)
		return
	}
	b.setText(f, loc, values, lastWins)
}

// absent applies the default of a field whose input is missing.
func (b *binder) absent(f Field, loc []any) {
	target := b.field(f)

	if f.HasDefault {
		if f.Type.Kind() == reflect.Slice && f.Default == "" {
			target.Set(reflect.MakeSlice(f.Type, 0, 0))
			return
		}
		v, p := parseText(f.Type, f.Default)
		if p != nil {
			// A bad default is a programming error; surface it loudly.
			panic(fmt.Sprintf("validation: bad default %q for %s: %s", f.Default, f.GoName, p.msg))
		}
		target.Set(v)
		return
	}

	if f.Required {
		b.missing(loc)
		return
	}

	if f.Type.Kind() == reflect.Slice {
		target.Set(reflect.MakeSlice(f.Type, 0, 0))
	}
}

func (b *binder) setText(f Field, loc []any, values []string, lastWins bool) {
	target := b.field(f)

	if f.Type.Kind() == reflect.Slice && f.Type.Elem().Kind() != reflect.Uint8 {
		out := reflect.MakeSlice(f.Type, 0, len(values))
		for i, raw := range values {
			v, p := parseText(f.Type.Elem(), raw)
			if p != nil {
				b.fail(append(append([]any{}, loc...), i), p.typ, p.msg, raw, nil)
				continue
			}
			out = reflect.Append(out, v)
		}
		target.Set(out)
		return
	}

	raw := values[0]
	if lastWins {
		raw = values[len(values)-1]
	}

	v, p := parseText(f.Type, raw)
	if p != nil {
		b.fail(loc, p.typ, p.msg, raw, nil)
		return
	}
	target.Set(v)
}

func (b *binder) loadForm() {
	if b.formLoaded {
		return
	}
	b.formLoaded = true
	b.formValues = url.Values{}
	b.formFiles = map[string][]*multipart.FileHeader{}

	req := b.c.Request()
	if strings.HasPrefix(req.Header.Get(echo.HeaderContentType), echo.MIMEMultipartForm) {
		if err := req.ParseMultipartForm(maxMultipartMemory); err != nil {
			b.fail([]any{"body"}, "multipart_invalid", "Unable to parse multipart form data", nil,
				map[string]any{"error": err.Error()})
			return
		}
		b.formValues = req.MultipartForm.Value
		b.formFiles = req.MultipartForm.File
		return
	}

	if err := req.ParseForm(); err != nil {
		b.fail([]any{"body"}, "form_invalid", "Unable to parse form data", nil,
			map[string]any{"error": err.Error()})
		return
	}
	b.formValues = req.PostForm
}

func (b *binder) bindForm(f Field) {
	b.loadForm()
	loc := []any{f.Source.locLabel(), f.locName()}

	if f.IsFile() {
		files := b.formFiles[f.Name]
		if len(files) == 0 {
			b.absent(f, loc)
			return
		}
		if f.Type == fileHeaderType {
			b.field(f).Set(reflect.ValueOf(files[0]))
		} else {
			b.field(f).Set(reflect.ValueOf(files))
		}
		return
	}

	values := b.formValues[f.Name]
	if len(values) == 0 {
		b.absent(f, loc)
		return
	}
	b.setText(f, loc, values, true)
}

func (b *binder) bodyFields() []Field {
	return b.schema.BySource(SourceBody)
}

func (b *binder) bindBody() {
	fields := b.bodyFields()
	if len(fields) == 0 {
		return
	}

	raw, present := b.readBody()
	if raw == nil && !present {
		for _, f := range fields {
			if f.Required {
				b.missing([]any{"body"})
				return
			}
		}
		for _, f := range fields {
			b.absent(f, []any{"body", f.Name})
		}
		return
	}

	obj, ok := raw.(map[string]any)
	if !ok {
		if present {
			b.fail([]any{"body"}, "model_attributes_type",
				"Input should be a valid dictionary or object to extract fields from", raw, nil)
		}
		return
	}

	b.decodeFields(obj, fields, b.root, []any{"body"}, b.schema.ForbidExtra)
}

// readBody decodes the JSON body once. present is false when the body is
// empty; a malformed body records a json_invalid error and returns nil,
// true.
func (b *binder) readBody() (any, bool) {
	req := b.c.Request()
	if req.Body == nil || req.Body == http.NoBody {
		return nil, false
	}

	data, err := io.ReadAll(req.Body)
	if err != nil {
		b.fail([]any{"body"}, "json_invalid", "JSON decode error", nil, map[string]any{"error": err.Error()})
		return nil, true
	}
	req.Body = io.NopCloser(bytes.NewReader(data))

	if len(bytes.TrimSpace(data)) == 0 {
		return nil, false
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var raw any
	if err := dec.Decode(&raw); err != nil {
		b.fail([]any{"body"}, "json_invalid", "JSON decode error", map[string]any{},
			map[string]any{"error": err.Error()})
		return nil, true
	}
	if err := dec.Decode(new(any)); err != io.EOF {
		b.fail([]any{"body"}, "json_invalid", "JSON decode error", map[string]any{},
			map[string]any{"error": "unexpected data after the JSON value"})
		return nil, true
	}

	return raw, true
}

// rejectExtras reports inputs the request type does not declare. Headers
// are never rejected because clients always send some.
func (b *binder) rejectExtras() {
	declared := func(src Source) map[string]struct{} {
		names := map[string]struct{}{}
		for _, f := range b.schema.BySource(src) {
			names[f.Name] = struct{}{}
		}
		return names
	}

	extra := func(src Source, values map[string][]string) {
		known := declared(src)
		keys := make([]string, 0, len(values))
		for k := range values {
			if _, ok := known[k]; !ok {
				keys = append(keys, k)
			}
		}
		sort.Strings(keys)
		for _, k := range keys {
			var input any = values[k]
			if len(values[k]) == 1 {
				input = values[k][0]
			}
			b.fail([]any{src.locLabel(), k}, "extra_forbidden", "Extra inputs are not permitted", input, nil)
		}
	}

	extra(SourceQuery, b.c.QueryParams())

	if len(b.schema.BySource(SourceCookie)) > 0 {
		cookies := map[string][]string{}
		for _, ck := range b.c.Cookies() {
			cookies[ck.Name] = append(cookies[ck.Name], ck.Value)
		}
		extra(SourceCookie, cookies)
	}

	if len(b.schema.BySource(SourceForm)) > 0 {
		b.loadForm()
		values := map[string][]string{}
		for k, v := range b.formValues {
			values[k] = v
		}
		for k, files := range b.formFiles {
			for _, fh := range files {
				values[k] = append(values[k], fh.Filename)
			}
		}
		extra(SourceForm, values)
	}
}
