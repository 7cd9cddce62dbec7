package validation

import (
	"encoding/json"
	"errors"
	"math"
	"reflect"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	timeType = reflect.TypeOf(time.Time{})
	uuidType = reflect.TypeOf(uuid.UUID{})
)

// problem is a coercion failure before it gets a location.
type problem struct {
	typ string
	msg string
}

var (
	errInt      = &problem{"int_parsing", "Input should be a valid integer, unable to parse string as an integer"}
	errIntType  = &problem{"int_type", "Input should be a valid integer"}
	errIntFrac  = &problem{"int_from_float", "Input should be a valid integer, got a number with a fractional part"}
	errFloat    = &problem{"float_parsing", "Input should be a valid number, unable to parse string as a number"}
	errFloatTyp = &problem{"float_type", "Input should be a valid number"}
	errBool     = &problem{"bool_parsing", "Input should be a valid boolean, unable to interpret input"}
	errBoolType = &problem{"bool_type", "Input should be a valid boolean"}
	errString   = &problem{"string_type", "Input should be a valid string"}
	errUUID     = &problem{"uuid_parsing", "Input should be a valid UUID, unable to parse string as a UUID"}
	errDatetime = &problem{"datetime_from_date_parsing", "Input should be a valid datetime or date, invalid character in year"}
	errList     = &problem{"list_type", "Input should be a valid list"}
	errObject   = &problem{"model_attributes_type", "Input should be a valid dictionary or object to extract fields from"}
	errInfinite = &problem{"finite_number", "Input should be a finite number"}
	errTooBig   = &problem{"int_parsing_size", "Unable to parse input string as an integer, exceeded maximum size"}
)

// parseText converts one textual input (path, query, header, cookie or form
// value) into a value of type t.
func parseText(t reflect.Type, raw string) (reflect.Value, *problem) {
	if t.Kind() == reflect.Pointer {
		inner, p := parseText(t.Elem(), raw)
		if p != nil {
			return reflect.Value{}, p
		}
		ptr := reflect.New(t.Elem())
		ptr.Elem().Set(inner)
		return ptr, nil
	}

	out := reflect.New(t).Elem()

	switch t {
	case uuidType:
		id, err := uuid.Parse(strings.TrimSpace(raw))
		if err != nil {
			return reflect.Value{}, errUUID
		}
		out.Set(reflect.ValueOf(id))
		return out, nil
	case timeType:
		ts, p := parseTime(raw)
		if p != nil {
			return reflect.Value{}, p
		}
		out.Set(reflect.ValueOf(ts))
		return out, nil
	}

	switch t.Kind() {
	case reflect.String:
		out.SetString(raw)
	case reflect.Bool:
		v, ok := parseBool(raw)
		if !ok {
			return reflect.Value{}, errBool
		}
		out.SetBool(v)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
		if err != nil {
			if ne, ok := err.(*strconv.NumError); ok && ne.Err == strconv.ErrRange {
				return reflect.Value{}, errTooBig
			}
			return reflect.Value{}, errInt
		}
		if out.OverflowInt(n) {
			return reflect.Value{}, errTooBig
		}
		out.SetInt(n)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		n, err := strconv.ParseUint(strings.TrimSpace(raw), 10, 64)
		if err != nil || out.OverflowUint(n) {
			return reflect.Value{}, errInt
		}
		out.SetUint(n)
	case reflect.Float32, reflect.Float64:
		f, p := parseFloat(raw)
		if p != nil {
			return reflect.Value{}, p
		}
		out.SetFloat(f)
	case reflect.Slice:
		if t.Elem().Kind() == reflect.Uint8 {
			out.SetBytes([]byte(raw))
			return out, nil
		}
		return reflect.Value{}, errList
	default:
		return reflect.Value{}, &problem{"type_error", "Unsupported input type " + t.String()}
	}

	return out, nil
}

func parseFloat(raw string) (float64, *problem) {
	f, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return 0, errFloat
	}
	if math.IsInf(f, 0) || math.IsNaN(f) {
		return 0, errInfinite
	}
	return f, nil
}

func parseBool(raw string) (bool, bool) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "1", "true", "t", "yes", "y", "on":
		return true, true
	case "0", "false", "f", "no", "n", "off":
		return false, true
	}
	return false, false
}

func parseTime(raw string) (time.Time, *problem) {
	raw = strings.TrimSpace(raw)
	for _, layout := range []string{time.RFC3339Nano, "2006-01-02T15:04:05", "2006-01-02"} {
		if ts, err := time.Parse(layout, raw); err == nil {
			return ts, nil
		}
	}
	return time.Time{}, errDatetime
}

// decodeFields copies the keys of obj into the matching fields of dst,
// recording an error at loc+name for every problem.
func (b *binder) decodeFields(obj map[string]any, fields []Field, dst reflect.Value, loc []any, forbidExtra bool) {
	for _, f := range fields {
		fieldLoc := append(append([]any{}, loc...), f.Name)
		raw, ok := obj[f.Name]
		if !ok {
			b.absentIn(f, dst, fieldLoc)
			continue
		}

		v, good := b.decodeJSON(raw, f.Type, fieldLoc)
		if good {
			dst.FieldByIndex(f.Index).Set(v)
		}
	}

	if !forbidExtra {
		return
	}

	known := make(map[string]struct{}, len(fields))
	for _, f := range fields {
		known[f.Name] = struct{}{}
	}
	keys := make([]string, 0, len(obj))
	for k := range obj {
		if _, ok := known[k]; !ok {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	for _, k := range keys {
		b.fail(append(append([]any{}, loc...), k), "extra_forbidden", "Extra inputs are not permitted", obj[k], nil)
	}
}

// absentIn is absent for fields of nested objects.
func (b *binder) absentIn(f Field, dst reflect.Value, loc []any) {
	target := dst.FieldByIndex(f.Index)
	switch {
	case f.HasDefault:
		if f.Type.Kind() == reflect.Slice && f.Default == "" {
			target.Set(reflect.MakeSlice(f.Type, 0, 0))
			return
		}
		if v, p := parseText(f.Type, f.Default); p == nil {
			target.Set(v)
		}
	case f.Required:
		b.missing(loc)
	}
}

// decodeJSON coerces a value produced by a UseNumber decoder into type t.
// ok is false when an error was recorded.
func (b *binder) decodeJSON(raw any, t reflect.Type, loc []any) (reflect.Value, bool) {
	if t.Kind() == reflect.Pointer {
		if raw == nil {
			return reflect.Zero(t), true
		}
		inner, ok := b.decodeJSON(raw, t.Elem(), loc)
		if !ok {
			return reflect.Value{}, false
		}
		ptr := reflect.New(t.Elem())
		ptr.Elem().Set(inner)
		return ptr, true
	}

	fail := func(p *problem) (reflect.Value, bool) {
		b.fail(loc, p.typ, p.msg, raw, nil)
		return reflect.Value{}, false
	}

	out := reflect.New(t).Elem()

	switch t {
	case uuidType:
		s, ok := raw.(string)
		if !ok {
			return fail(&problem{"uuid_type", "UUID input should be a string, bytes or UUID object"})
		}
		v, p := parseText(t, s)
		if p != nil {
			return fail(p)
		}
		return v, true
	case timeType:
		s, ok := raw.(string)
		if !ok {
			return fail(&problem{"datetime_type", "Input should be a valid datetime"})
		}
		v, p := parseText(t, s)
		if p != nil {
			return fail(p)
		}
		return v, true
	}

	switch t.Kind() {
	case reflect.String:
		s, ok := raw.(string)
		if !ok {
			return fail(errString)
		}
		out.SetString(s)

	case reflect.Bool:
		switch v := raw.(type) {
		case bool:
			out.SetBool(v)
		case string:
			parsed, ok := parseBool(v)
			if !ok {
				return fail(errBool)
			}
			out.SetBool(parsed)
		default:
			return fail(errBoolType)
		}

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		var n int64
		switch v := raw.(type) {
		case json.Number:
			i, err := v.Int64()
			if errors.Is(err, strconv.ErrRange) {
				return fail(errTooBig)
			}
			if err != nil {
				f, ferr := v.Float64()
				switch {
				case ferr != nil && errors.Is(ferr, strconv.ErrRange):
					return fail(errTooBig)
				case ferr != nil || f != math.Trunc(f):
					return fail(errIntFrac)
				case f < math.MinInt64 || f >= math.MaxInt64:
					// float64(math.MaxInt64) rounds up to 2^63, already out of range.
					return fail(errTooBig)
				}
				i = int64(f)
			}
			n = i
		case string:
			i, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
			if errors.Is(err, strconv.ErrRange) {
				return fail(errTooBig)
			}
			if err != nil {
				return fail(errInt)
			}
			n = i
		default:
			return fail(errIntType)
		}
		if out.OverflowInt(n) {
			return fail(errTooBig)
		}
		out.SetInt(n)

	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		var s string
		switch v := raw.(type) {
		case json.Number:
			s = v.String()
		case string:
			s = v
		default:
			return fail(errIntType)
		}
		n, err := strconv.ParseUint(strings.TrimSpace(s), 10, 64)
		if err != nil || out.OverflowUint(n) {
			return fail(errInt)
		}
		out.SetUint(n)

	case reflect.Float32, reflect.Float64:
		switch v := raw.(type) {
		case json.Number:
			f, err := v.Float64()
			if err != nil {
				return fail(errFloat)
			}
			out.SetFloat(f)
		case string:
			f, p := parseFloat(v)
			if p != nil {
				return fail(p)
			}
			out.SetFloat(f)
		default:
			return fail(errFloatTyp)
		}

	case reflect.Slice:
		arr, ok := raw.([]any)
		if !ok {
			return fail(errList)
		}
		// Failed elements stay zero; their locations are already recorded
		// so constraint checks skip them.
		slice := reflect.MakeSlice(t, len(arr), len(arr))
		for i, item := range arr {
			if v, ok := b.decodeJSON(item, t.Elem(), append(append([]any{}, loc...), i)); ok {
				slice.Index(i).Set(v)
			}
		}
		out.Set(slice)

	case reflect.Map:
		obj, ok := raw.(map[string]any)
		if !ok || t.Key().Kind() != reflect.String {
			return fail(&problem{"dict_type", "Input should be a valid dictionary"})
		}
		m := reflect.MakeMapWithSize(t, len(obj))
		for k, item := range obj {
			if v, ok := b.decodeJSON(item, t.Elem(), append(append([]any{}, loc...), k)); ok {
				m.SetMapIndex(reflect.ValueOf(k).Convert(t.Key()), v)
			}
		}
		out.Set(m)

	case reflect.Struct:
		obj, ok := raw.(map[string]any)
		if !ok {
			return fail(errObject)
		}
		schema, err := SchemaOf(t)
		if err != nil {
			return fail(&problem{"type_error", err.Error()})
		}
		b.decodeFields(obj, schema.Fields, out, loc, schema.ForbidExtra)

	case reflect.Interface:
		if raw != nil {
			out.Set(reflect.ValueOf(plain(raw)))
		}

	default:
		return fail(&problem{"type_error", "Unsupported input type " + t.String()})
	}

	return out, true
}

// plain turns json.Number leaves into float64 so free-form values marshal
// and compare like ordinary decoded JSON.
func plain(raw any) any {
	switch v := raw.(type) {
	case json.Number:
		if i, err := v.Int64(); err == nil {
			return i
		}
		f, _ := v.Float64()
		return f
	case []any:
		for i := range v {
			v[i] = plain(v[i])
		}
		return v
	case map[string]any:
		for k := range v {
			v[k] = plain(v[k])
		}
		return v
	}
	return raw
}
