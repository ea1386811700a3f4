package hoshi

import (
	"sort"
)

// Value is an immutable JSON value: null, bool, integer, float, string, array
// or object. The zero Value is null.
//
// Arrays and objects own their children. Constructors copy their arguments
// and accessors hand out copies, so a Value can be shared freely.
type Value struct {
	typ ValueType
	b   bool
	i   int64
	f   float64
	s   string
	arr []Value
	obj map[string]Value
}

// Null returns the null Value.
func Null() Value { return Value{} }

// Bool returns a boolean Value.
func Bool(b bool) Value { return Value{typ: TypeBool, b: b} }

// Int returns an integer Value.
func Int(i int64) Value { return Value{typ: TypeInt, i: i} }

// Float returns a floating-point Value.
func Float(f float64) Value { return Value{typ: TypeFloat, f: f} }

// String returns a string Value.
func String(s string) Value { return Value{typ: TypeString, s: s} }

// Array returns an array Value holding a copy of elems.
func Array(elems ...Value) Value {
	arr := make([]Value, len(elems))
	copy(arr, elems)
	return Value{typ: TypeArray, arr: arr}
}

// Object returns an object Value holding a copy of m.
func Object(m map[string]Value) Value {
	obj := make(map[string]Value, len(m))
	for k, v := range m {
		obj[k] = v
	}
	return Value{typ: TypeObject, obj: obj}
}

// Type reports the active variant.
func (v Value) Type() ValueType { return v.typ }

// IsNull reports whether v is null.
func (v Value) IsNull() bool { return v.typ == TypeNull }

// AsBool returns the boolean payload.
func (v Value) AsBool() (bool, bool) { return v.b, v.typ == TypeBool }

// AsInt returns the integer payload.
func (v Value) AsInt() (int64, bool) { return v.i, v.typ == TypeInt }

// AsFloat returns the numeric payload as float64 for both Int and Float.
func (v Value) AsFloat() (float64, bool) {
	switch v.typ {
	case TypeFloat:
		return v.f, true
	case TypeInt:
		return float64(v.i), true
	default:
		return 0, false
	}
}

// AsString returns the string payload.
func (v Value) AsString() (string, bool) { return v.s, v.typ == TypeString }

// AsArray returns a copy of the array elements.
func (v Value) AsArray() ([]Value, bool) {
	if v.typ != TypeArray {
		return nil, false
	}
	out := make([]Value, len(v.arr))
	copy(out, v.arr)
	return out, true
}

// AsObject returns a copy of the object members.
func (v Value) AsObject() (map[string]Value, bool) {
	if v.typ != TypeObject {
		return nil, false
	}
	out := make(map[string]Value, len(v.obj))
	for k, e := range v.obj {
		out[k] = e
	}
	return out, true
}

// Len returns the number of elements of an array or members of an object.
func (v Value) Len() int {
	switch v.typ {
	case TypeArray:
		return len(v.arr)
	case TypeObject:
		return len(v.obj)
	default:
		return 0
	}
}

// Index returns the i-th array element.
func (v Value) Index(i int) (Value, bool) {
	if v.typ != TypeArray || i < 0 || i >= len(v.arr) {
		return Value{}, false
	}
	return v.arr[i], true
}

// Get returns the object member stored under key.
func (v Value) Get(key string) (Value, bool) {
	if v.typ != TypeObject {
		return Value{}, false
	}
	e, ok := v.obj[key]
	return e, ok
}

// Keys returns the object keys in ascending order.
func (v Value) Keys() []string {
	if v.typ != TypeObject {
		return nil
	}
	keys := make([]string, 0, len(v.obj))
	for k := range v.obj {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Equal compares variant and payload recursively. Different variants are
// never equal, so Int(1) and Float(1) differ. Object key order is irrelevant.
func (v Value) Equal(o Value) bool {
	if v.typ != o.typ {
		return false
	}
	switch v.typ {
	case TypeNull:
		return true
	case TypeBool:
		return v.b == o.b
	case TypeInt:
		return v.i == o.i
	case TypeFloat:
		return v.f == o.f
	case TypeString:
		return v.s == o.s
	case TypeArray:
		if len(v.arr) != len(o.arr) {
			return false
		}
		for i := range v.arr {
			if !v.arr[i].Equal(o.arr[i]) {
				return false
			}
		}
		return true
	case TypeObject:
		if len(v.obj) != len(o.obj) {
			return false
		}
		for k, e := range v.obj {
			oe, ok := o.obj[k]
			if !ok || !e.Equal(oe) {
				return false
			}
		}
		return true
	}
	return false
}

// Native converts v into plain Go values: nil, bool, int64, float64, string,
// []any and map[string]any.
func (v Value) Native() any {
	switch v.typ {
	case TypeBool:
		return v.b
	case TypeInt:
		return v.i
	case TypeFloat:
		return v.f
	case TypeString:
		return v.s
	case TypeArray:
		out := make([]any, len(v.arr))
		for i, e := range v.arr {
			out[i] = e.Native()
		}
		return out
	case TypeObject:
		out := make(map[string]any, len(v.obj))
		for k, e := range v.obj {
			out[k] = e.Native()
		}
		return out
	default:
		return nil
	}
}

// String renders v as JSON text. Values that cannot be serialized (NaN or
// infinite floats) render through their Go formatting instead.
func (v Value) String() string {
	b, err := v.MarshalJSON()
	if err != nil {
		return v.debugString()
	}
	return string(b)
}
