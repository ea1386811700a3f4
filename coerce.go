package hoshi

import (
	"math"
	"reflect"
	"strconv"
	"strings"

	gojson "github.com/goccy/go-json"
	"github.com/pkg/errors"
)

// coerceScalar applies the coercion ladder of a scalar kind. It returns the
// converted value of type t, whether a ladder rule other than the direct
// match fired, and false when nothing matched.
func coerceScalar(kind Kind, t reflect.Type, raw Value) (reflect.Value, bool, bool) {
	out := reflect.New(t).Elem()
	switch kind {
	case KindBool:
		switch raw.Type() {
		case TypeBool:
			out.SetBool(raw.b)
			return out, false, true
		case TypeInt:
			out.SetBool(raw.i != 0)
			return out, true, true
		case TypeFloat:
			if i, ok := integral(raw.f); ok {
				out.SetBool(i != 0)
				return out, true, true
			}
		}
	case KindInt:
		switch raw.Type() {
		case TypeInt:
			return out, false, setInt(out, raw.i)
		case TypeFloat:
			i, ok := integral(raw.f)
			return out, true, ok && setInt(out, i)
		case TypeBool:
			if raw.b {
				setInt(out, 1)
			}
			return out, true, true
		case TypeString:
			parseIntInto(out, raw.s)
			return out, true, true
		}
	case KindFloat:
		switch raw.Type() {
		case TypeFloat:
			return out, false, setFloat(out, raw.f)
		case TypeInt:
			return out, true, setFloat(out, float64(raw.i))
		}
	case KindString:
		switch raw.Type() {
		case TypeString:
			out.SetString(raw.s)
			return out, false, true
		case TypeInt:
			out.SetString(strconv.FormatInt(raw.i, 10))
			return out, true, true
		case TypeFloat:
			if i, ok := integral(raw.f); ok {
				out.SetString(strconv.FormatInt(i, 10))
				return out, true, true
			}
		}
	}
	return out, false, false
}

// integral reports whether f is a whole number inside the int64 range.
func integral(f float64) (int64, bool) {
	if f != math.Trunc(f) || f < math.MinInt64 || f >= math.MaxInt64 {
		return 0, false
	}
	return int64(f), true
}

// setInt stores i into an integer value of any width, reporting false when
// it does not fit.
func setInt(out reflect.Value, i int64) bool {
	switch out.Kind() {
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		if i < 0 || out.OverflowUint(uint64(i)) {
			return false
		}
		out.SetUint(uint64(i))
	default:
		if out.OverflowInt(i) {
			return false
		}
		out.SetInt(i)
	}
	return true
}

func setFloat(out reflect.Value, f float64) bool {
	if out.OverflowFloat(f) {
		return false
	}
	out.SetFloat(f)
	return true
}

// parseIntInto parses a base-10 literal sized to out; a literal that does not
// parse or does not fit leaves 0.
func parseIntInto(out reflect.Value, s string) {
	bits := out.Type().Bits()
	switch out.Kind() {
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		if u, err := strconv.ParseUint(strings.TrimPrefix(s, "+"), 10, bits); err == nil {
			out.SetUint(u)
		}
	default:
		if i, err := strconv.ParseInt(s, 10, bits); err == nil {
			out.SetInt(i)
		}
	}
}

// convertStrict decodes raw into a value of type t without coercion ladders.
// Struct values inside decode leniently from their own defaults.
func convertStrict(raw Value, t reflect.Type, path string, st *decodeState) (reflect.Value, error) {
	if t == valueType {
		return reflect.ValueOf(raw), nil
	}
	if t.Kind() == reflect.Pointer {
		if raw.IsNull() {
			return reflect.Zero(t), nil
		}
		ev, err := convertStrict(raw, t.Elem(), path, st)
		if err != nil {
			return reflect.Value{}, err
		}
		p := reflect.New(t.Elem())
		p.Elem().Set(ev)
		return p, nil
	}
	if t.Kind() == reflect.Interface {
		out := reflect.New(t).Elem()
		if !raw.IsNull() {
			out.Set(reflect.ValueOf(raw.Native()))
		}
		return out, nil
	}
	if hasJSONCodec(t) {
		data, err := raw.MarshalJSON()
		if err != nil {
			return reflect.Value{}, err
		}
		p := reflect.New(t)
		if err := gojson.Unmarshal(data, p.Interface()); err != nil {
			return reflect.Value{}, errors.Wrapf(err, "decode %s", t)
		}
		return p.Elem(), nil
	}
	out := reflect.New(t).Elem()
	switch t.Kind() {
	case reflect.Bool:
		if b, ok := raw.AsBool(); ok {
			out.SetBool(b)
			return out, nil
		}
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		i, ok := raw.AsInt()
		if !ok && raw.Type() == TypeFloat {
			i, ok = integral(raw.f)
		}
		if ok && setInt(out, i) {
			return out, nil
		}
	case reflect.Float32, reflect.Float64:
		if f, ok := raw.AsFloat(); ok && setFloat(out, f) {
			return out, nil
		}
	case reflect.String:
		if s, ok := raw.AsString(); ok {
			out.SetString(s)
			return out, nil
		}
	case reflect.Struct:
		if raw.Type() == TypeObject {
			return decodeNested(t, raw.obj, path, st), nil
		}
	case reflect.Slice:
		if raw.Type() == TypeArray {
			out = reflect.MakeSlice(t, len(raw.arr), len(raw.arr))
			if err := convertElems(raw.arr, out, path, st); err != nil {
				return reflect.Value{}, err
			}
			return out, nil
		}
	case reflect.Array:
		if raw.Type() == TypeArray && len(raw.arr) == t.Len() {
			if err := convertElems(raw.arr, out, path, st); err != nil {
				return reflect.Value{}, err
			}
			return out, nil
		}
	case reflect.Map:
		if raw.Type() == TypeObject {
			out = reflect.MakeMapWithSize(t, len(raw.obj))
			for k, e := range raw.obj {
				ev, err := convertStrict(e, t.Elem(), joinPath(path, k), st)
				if err != nil {
					return reflect.Value{}, err
				}
				out.SetMapIndex(reflect.ValueOf(k).Convert(t.Key()), ev)
			}
			return out, nil
		}
	}
	return reflect.Value{}, errors.Errorf("cannot decode %s into %s", raw.Type(), t)
}

func convertElems(elems []Value, out reflect.Value, path string, st *decodeState) error {
	et := out.Type().Elem()
	for i, e := range elems {
		ev, err := convertStrict(e, et, joinPath(path, strconv.Itoa(i)), st)
		if err != nil {
			return errors.Wrapf(err, "index %d", i)
		}
		out.Index(i).Set(ev)
	}
	return nil
}
