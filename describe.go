package hoshi

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
)

// Describe renders v as Name(field: value, ...) over every declared field in
// declaration order, using the current in-memory values.
func (s *Schema[T]) Describe(v T) string {
	var b strings.Builder
	s.tbl.describeStruct(&b, reflect.ValueOf(v))
	return b.String()
}

func (tb *table) describeStruct(b *strings.Builder, v reflect.Value) {
	b.WriteString(tb.name)
	b.WriteByte('(')
	for i := range tb.fields {
		fi := &tb.fields[i]
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(fi.LocalName)
		b.WriteString(": ")
		describeReflect(b, v.Field(fi.index), true)
	}
	b.WriteByte(')')
}

// describeReflect writes one value. Strings are bare at field level and
// quoted inside collections.
func describeReflect(b *strings.Builder, v reflect.Value, top bool) {
	t := v.Type()
	if t == valueType {
		b.WriteString(v.Interface().(Value).String())
		return
	}
	switch t.Kind() {
	case reflect.Pointer, reflect.Interface:
		if v.IsNil() {
			b.WriteString("nil")
			return
		}
		if t.Kind() == reflect.Interface {
			if dv, err := FromAny(v.Interface()); err == nil {
				b.WriteString(dv.String())
				return
			}
		}
		describeReflect(b, v.Elem(), top)
		return
	}
	if hasJSONCodec(t) {
		fmt.Fprint(b, v.Interface())
		return
	}
	switch t.Kind() {
	case reflect.Bool:
		b.WriteString(strconv.FormatBool(v.Bool()))
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		b.WriteString(strconv.FormatInt(v.Int(), 10))
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		b.WriteString(strconv.FormatUint(v.Uint(), 10))
	case reflect.Float32, reflect.Float64:
		if out, err := appendFloat(nil, v.Float(), t.Bits()); err == nil {
			b.Write(out)
		} else {
			b.WriteString(strconv.FormatFloat(v.Float(), 'g', -1, t.Bits()))
		}
	case reflect.String:
		if top {
			b.WriteString(v.String())
		} else {
			b.WriteString(strconv.Quote(v.String()))
		}
	case reflect.Struct:
		mustTable(t).describeStruct(b, v)
	case reflect.Slice, reflect.Array:
		b.WriteByte('[')
		for i := 0; i < v.Len(); i++ {
			if i > 0 {
				b.WriteString(", ")
			}
			describeReflect(b, v.Index(i), false)
		}
		b.WriteByte(']')
	case reflect.Map:
		if v.Len() == 0 {
			b.WriteString("[:]")
			return
		}
		b.WriteByte('[')
		for i, k := range sortedKeys(v) {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(strconv.Quote(k.String()))
			b.WriteString(": ")
			describeReflect(b, v.MapIndex(k), false)
		}
		b.WriteByte(']')
	default:
		fmt.Fprint(b, v.Interface())
	}
}
