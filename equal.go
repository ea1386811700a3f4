package hoshi

import (
	"bytes"
	"reflect"

	"github.com/cespare/xxhash/v2"
	gojson "github.com/goccy/go-json"
)

// Equal compares the equality-eligible fields of a and b. When T embeds
// Entity the comparison is delegated to IsEqual(a, &b). A record type with
// no eligible fields compares equal to every value of its type.
func (s *Schema[T]) Equal(a, b T) bool {
	if s.tbl.hasBase {
		return s.IsEqual(a, &b)
	}
	return s.tbl.equalStruct(reflect.ValueOf(a), reflect.ValueOf(b))
}

// IsEqual reports whether other matches a. It is the one-sided comparison
// used for records with a base; a nil other never matches.
func (s *Schema[T]) IsEqual(a T, other *T) bool {
	if other == nil {
		return false
	}
	return s.tbl.equalStruct(reflect.ValueOf(a), reflect.ValueOf(*other))
}

func (tb *table) equalStruct(a, b reflect.Value) bool {
	for i := range tb.fields {
		fi := &tb.fields[i]
		if !fi.IncludeInEquality {
			continue
		}
		if !equalReflect(a.Field(fi.index), b.Field(fi.index)) {
			return false
		}
	}
	return true
}

func equalReflect(a, b reflect.Value) bool {
	t := a.Type()
	if t == valueType {
		return a.Interface().(Value).Equal(b.Interface().(Value))
	}
	switch t.Kind() {
	case reflect.Pointer:
		if a.IsNil() || b.IsNil() {
			return a.IsNil() == b.IsNil()
		}
		return equalReflect(a.Elem(), b.Elem())
	case reflect.Interface:
		if a.IsNil() || b.IsNil() {
			return a.IsNil() == b.IsNil()
		}
		av, aerr := FromAny(a.Interface())
		bv, berr := FromAny(b.Interface())
		return aerr == nil && berr == nil && av.Equal(bv)
	}
	if hasJSONCodec(t) {
		ab, aerr := gojson.Marshal(a.Interface())
		bb, berr := gojson.Marshal(b.Interface())
		return aerr == nil && berr == nil && bytes.Equal(ab, bb)
	}
	switch t.Kind() {
	case reflect.Bool:
		return a.Bool() == b.Bool()
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return a.Int() == b.Int()
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return a.Uint() == b.Uint()
	case reflect.Float32, reflect.Float64:
		return a.Float() == b.Float()
	case reflect.String:
		return a.String() == b.String()
	case reflect.Struct:
		return mustTable(t).equalStruct(a, b)
	case reflect.Slice, reflect.Array:
		// a nil slice encodes as [] and so equals an empty one
		if a.Len() != b.Len() {
			return false
		}
		for i := 0; i < a.Len(); i++ {
			if !equalReflect(a.Index(i), b.Index(i)) {
				return false
			}
		}
		return true
	case reflect.Map:
		if a.Len() != b.Len() {
			return false
		}
		iter := a.MapRange()
		for iter.Next() {
			bv := b.MapIndex(iter.Key())
			if !bv.IsValid() || !equalReflect(iter.Value(), bv) {
				return false
			}
		}
		return true
	}
	return false
}

// Fingerprint hashes the equality-eligible fields of v with xxhash. Values
// that are Equal share a fingerprint.
func (s *Schema[T]) Fingerprint(v T) uint64 {
	d := xxhash.New()
	s.tbl.hashStruct(d, reflect.ValueOf(v))
	return d.Sum64()
}

func (tb *table) hashStruct(d *xxhash.Digest, v reflect.Value) {
	for i := range tb.fields {
		fi := &tb.fields[i]
		if !fi.IncludeInEquality {
			continue
		}
		_, _ = d.WriteString(fi.WireKey)
		hashReflect(d, v.Field(fi.index))
	}
}

func hashReflect(d *xxhash.Digest, v reflect.Value) {
	t := v.Type()
	if t == valueType {
		writeUint64(d, v.Interface().(Value).Hash())
		return
	}
	switch t.Kind() {
	case reflect.Pointer, reflect.Interface:
		if v.IsNil() {
			_, _ = d.Write([]byte{0})
			return
		}
		if t.Kind() == reflect.Interface {
			dv, _ := FromAny(v.Interface())
			writeUint64(d, dv.Hash())
			return
		}
		hashReflect(d, v.Elem())
		return
	}
	if hasJSONCodec(t) {
		data, _ := gojson.Marshal(v.Interface())
		_, _ = d.Write(data)
		return
	}
	switch t.Kind() {
	case reflect.Bool:
		if v.Bool() {
			writeUint64(d, 1)
		} else {
			writeUint64(d, 0)
		}
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		writeUint64(d, uint64(v.Int()))
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		writeUint64(d, v.Uint())
	case reflect.Float32, reflect.Float64:
		writeUint64(d, floatBits(v.Float()))
	case reflect.String:
		_, _ = d.WriteString(v.String())
		_, _ = d.Write([]byte{0})
	case reflect.Struct:
		mustTable(t).hashStruct(d, v)
	case reflect.Slice, reflect.Array:
		writeUint64(d, uint64(v.Len()))
		for i := 0; i < v.Len(); i++ {
			hashReflect(d, v.Index(i))
		}
	case reflect.Map:
		writeUint64(d, uint64(v.Len()))
		var sum uint64
		iter := v.MapRange()
		for iter.Next() {
			ed := xxhash.New()
			_, _ = ed.WriteString(iter.Key().String())
			hashReflect(ed, iter.Value())
			sum += ed.Sum64()
		}
		writeUint64(d, sum)
	}
}
