package validation

import (
	"fmt"
	"mime/multipart"
	"reflect"
	"strings"
	"sync"
)

// Source is where a request field is read from.
type Source string

const (
	SourcePath   Source = "path"
	SourceQuery  Source = "query"
	SourceHeader Source = "header"
	SourceCookie Source = "cookie"
	SourceForm   Source = "formData"
	SourceBody   Source = "body"
)

// tagged sources, in precedence order. A field without any of these but
// with a json tag is a body field.
var sourceTags = []Source{SourcePath, SourceQuery, SourceHeader, SourceCookie, SourceForm}

// locLabel is the first element of an error location. Form fields are
// reported under "body" because that is where they travel.
func (s Source) locLabel() string {
	if s == SourceForm {
		return string(SourceBody)
	}
	return string(s)
}

var (
	fileHeaderType      = reflect.TypeOf((*multipart.FileHeader)(nil))
	fileHeaderSliceType = reflect.TypeOf([]*multipart.FileHeader(nil))
)

// Field describes one bindable request field.
type Field struct {
	// Name is the wire name (query key, header name, json key...).
	Name string

	GoName string
	Source Source
	Index  []int
	Type   reflect.Type

	Default    string
	HasDefault bool
	Required   bool
}

// IsFile reports whether the field holds uploaded files.
func (f Field) IsFile() bool {
	return f.Type == fileHeaderType || f.Type == fileHeaderSliceType
}

// locName is the field name as it appears in error locations.
func (f Field) locName() string {
	if f.Source == SourceHeader {
		return strings.ToLower(f.Name)
	}
	return f.Name
}

// Schema is the parsed descriptor of a request struct.
type Schema struct {
	Type        reflect.Type
	Fields      []Field
	ForbidExtra bool
}

// BySource returns the fields read from src, in declaration order.
func (s *Schema) BySource(src Source) []Field {
	var out []Field
	for _, f := range s.Fields {
		if f.Source == src {
			out = append(out, f)
		}
	}
	return out
}

var schemaCache sync.Map // reflect.Type -> *Schema

// SchemaOf returns the (cached) schema of struct type t.
func SchemaOf(t reflect.Type) (*Schema, error) {
	if cached, ok := schemaCache.Load(t); ok {
		return cached.(*Schema), nil
	}

	if t.Kind() != reflect.Struct {
		return nil, fmt.Errorf("validation: %s is not a struct", t)
	}

	s := &Schema{Type: t}
	if err := collectFields(t, nil, &s.Fields); err != nil {
		return nil, err
	}

	if ef, ok := reflect.New(t).Interface().(ExtraForbidder); ok {
		s.ForbidExtra = ef.ForbidExtra()
	}

	actual, _ := schemaCache.LoadOrStore(t, s)
	return actual.(*Schema), nil
}

func collectFields(t reflect.Type, prefix []int, out *[]Field) error {
	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		if !sf.IsExported() && !sf.Anonymous {
			continue
		}

		index := append(append([]int{}, prefix...), i)

		src, name, ok := sourceOf(sf)
		if !ok {
			if sf.Anonymous && sf.Type.Kind() == reflect.Struct {
				if err := collectFields(sf.Type, index, out); err != nil {
					return err
				}
			}
			continue
		}

		f := Field{
			Name:   name,
			GoName: sf.Name,
			Source: src,
			Index:  index,
			Type:   sf.Type,
		}
		f.Default, f.HasDefault = sf.Tag.Lookup("default")
		f.Required = isRequired(f)

		if f.IsFile() && src != SourceForm {
			return fmt.Errorf("validation: file field %s.%s must use the formData tag", t, sf.Name)
		}

		*out = append(*out, f)
	}

	return nil
}

// sourceOf resolves the source and wire name of a struct field. ok is false
// for fields that are not bound at all.
func sourceOf(sf reflect.StructField) (Source, string, bool) {
	for _, src := range sourceTags {
		if v, ok := sf.Tag.Lookup(string(src)); ok && v != "-" && v != "" {
			return src, v, true
		}
	}

	if name, ok := jsonName(sf); ok {
		return SourceBody, name, true
	}

	return "", "", false
}

// jsonName returns the json key of a field. Embedded structs without a
// json tag are flattened and have no name of their own.
func jsonName(sf reflect.StructField) (string, bool) {
	tag, ok := sf.Tag.Lookup("json")
	if !ok {
		return "", false
	}
	name := strings.Split(tag, ",")[0]
	if name == "-" {
		return "", false
	}
	if name == "" {
		if sf.Anonymous {
			return "", false
		}
		name = sf.Name
	}
	return name, true
}

// isRequired decides whether a missing input is an error. Optional inputs
// are nullable pointers, fields with a default, and multi-valued
// parameters outside the body.
func isRequired(f Field) bool {
	if f.HasDefault {
		return false
	}
	if f.IsFile() {
		return true
	}
	switch f.Type.Kind() {
	case reflect.Pointer:
		return false
	case reflect.Slice:
		return f.Source == SourceBody
	}
	return true
}

// locate maps a validator struct namespace ("Req.Offer.Items[0].Price")
// onto an error location (["body", "items", 0, "price"]).
func (s *Schema) locate(namespace string) []any {
	parts := strings.Split(namespace, ".")
	if len(parts) > 0 {
		parts = parts[1:]
	}

	t := s.Type
	var loc []any
	for _, part := range parts {
		name, indices := splitIndices(part)

		t = deref(t)
		if t.Kind() != reflect.Struct {
			loc = append(loc, name)
			continue
		}

		sf, ok := t.FieldByName(name)
		if !ok {
			loc = append(loc, name)
			continue
		}
		t = sf.Type

		if len(loc) == 0 {
			if src, wire, ok := sourceOf(sf); ok {
				if src == SourceHeader {
					wire = strings.ToLower(wire)
				}
				loc = append(loc, src.locLabel(), wire)
			}
		} else if wire, ok := jsonName(sf); ok {
			loc = append(loc, wire)
		}

		for _, idx := range indices {
			loc = append(loc, idx)
			t = deref(t)
			if t.Kind() == reflect.Slice || t.Kind() == reflect.Array {
				t = t.Elem()
			}
		}
	}

	return loc
}

// splitIndices splits "Items[0][1]" into "Items" and [0 1].
func splitIndices(part string) (string, []any) {
	open := strings.IndexByte(part, '[')
	if open < 0 {
		return part, nil
	}

	name := part[:open]
	var indices []any
	for _, chunk := range strings.Split(part[open:], "[") {
		chunk = strings.TrimSuffix(chunk, "]")
		if chunk == "" {
			continue
		}
		var n int
		if _, err := fmt.Sscanf(chunk, "%d", &n); err == nil {
			indices = append(indices, n)
		} else {
			indices = append(indices, chunk)
		}
	}
	return name, indices
}

func deref(t reflect.Type) reflect.Type {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return t
}
