package hoshi

import (
	"reflect"
	"sort"
	"strconv"

	gojson "github.com/goccy/go-json"
	"github.com/pkg/errors"
)

// Encode serializes v field by field in declaration order under the wire
// keys. Fields tagged nojson and nil optional fields are left out. The only
// failure is a NaN or infinite float, reported as Issues{encode_failure}.
func (s *Schema[T]) Encode(v T) ([]byte, error) {
	buf, err := s.tbl.appendStruct(make([]byte, 0, 128), reflect.ValueOf(v), "")
	if err != nil {
		return nil, err
	}
	return buf, nil
}

func (tb *table) appendStruct(buf []byte, v reflect.Value, path string) ([]byte, error) {
	buf = append(buf, '{')
	first := true
	for i := range tb.fields {
		fi := &tb.fields[i]
		if !fi.IncludeInSerialization {
			continue
		}
		fv := v.Field(fi.index)
		if fi.IsOptional && fv.IsNil() {
			continue
		}
		if !first {
			buf = append(buf, ',')
		}
		first = false
		buf = appendString(buf, fi.WireKey)
		buf = append(buf, ':')
		var err error
		if buf, err = appendReflect(buf, fv, joinPath(path, fi.WireKey)); err != nil {
			return nil, err
		}
	}
	return append(buf, '}'), nil
}

func appendReflect(buf []byte, v reflect.Value, path string) ([]byte, error) {
	t := v.Type()
	if t == valueType {
		out, err := v.Interface().(Value).appendJSON(buf)
		return out, encodeFailure(path, err)
	}
	switch t.Kind() {
	case reflect.Pointer, reflect.Interface:
		if v.IsNil() {
			return append(buf, "null"...), nil
		}
		if t.Kind() == reflect.Interface {
			dv, err := FromAny(v.Interface())
			if err != nil {
				return nil, encodeFailure(path, err)
			}
			out, err := dv.appendJSON(buf)
			return out, encodeFailure(path, err)
		}
		return appendReflect(buf, v.Elem(), path)
	}
	if hasJSONCodec(t) {
		data, err := gojson.Marshal(v.Interface())
		if err != nil {
			return nil, encodeFailure(path, err)
		}
		return append(buf, data...), nil
	}
	switch t.Kind() {
	case reflect.Bool:
		return strconv.AppendBool(buf, v.Bool()), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strconv.AppendInt(buf, v.Int(), 10), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return strconv.AppendUint(buf, v.Uint(), 10), nil
	case reflect.Float32, reflect.Float64:
		out, err := appendFloat(buf, v.Float(), t.Bits())
		return out, encodeFailure(path, err)
	case reflect.String:
		return appendString(buf, v.String()), nil
	case reflect.Struct:
		return mustTable(t).appendStruct(buf, v, path)
	case reflect.Slice, reflect.Array:
		buf = append(buf, '[')
		for i := 0; i < v.Len(); i++ {
			if i > 0 {
				buf = append(buf, ',')
			}
			var err error
			if buf, err = appendReflect(buf, v.Index(i), joinPath(path, strconv.Itoa(i))); err != nil {
				return nil, err
			}
		}
		return append(buf, ']'), nil
	case reflect.Map:
		buf = append(buf, '{')
		for i, k := range sortedKeys(v) {
			if i > 0 {
				buf = append(buf, ',')
			}
			buf = appendString(buf, k.String())
			buf = append(buf, ':')
			var err error
			if buf, err = appendReflect(buf, v.MapIndex(k), joinPath(path, k.String())); err != nil {
				return nil, err
			}
		}
		return append(buf, '}'), nil
	}
	return nil, encodeFailure(path, errors.Errorf("unsupported type %s", t))
}

func sortedKeys(m reflect.Value) []reflect.Value {
	keys := m.MapKeys()
	sort.Slice(keys, func(i, j int) bool { return keys[i].String() < keys[j].String() })
	return keys
}

func encodeFailure(path string, err error) error {
	if err == nil {
		return nil
	}
	if _, ok := AsIssues(err); ok {
		return err
	}
	return Issues{newIssue(path, CodeEncodeFailure, err)}
}
