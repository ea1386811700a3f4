package hoshi

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"reflect"
	"strconv"
	"strings"

	gojson "github.com/goccy/go-json"
	"github.com/pkg/errors"

	eng "github.com/reoring/hoshi/internal/engine"
)

// Parse decodes exactly one strict JSON document (no comments, no trailing
// commas, nothing after the root value). Integer literals that fit int64
// become Int, every other number becomes Float.
func Parse(b []byte, opts ...ParseOpt) (Value, error) {
	opt := lastOpt(opts)
	if opt.MaxBytes > 0 && int64(len(b)) > opt.MaxBytes {
		return Value{}, Issues{newIssue("/", CodeTruncated, nil)}
	}
	return ParseFrom(JSONBytes(b), opt)
}

// ParseString is Parse for text input.
func ParseString(s string, opts ...ParseOpt) (Value, error) {
	return Parse([]byte(s), opts...)
}

// ParseReader reads r to the end and parses it.
func ParseReader(r io.Reader, opts ...ParseOpt) (Value, error) {
	opt := lastOpt(opts)
	if opt.MaxBytes > 0 {
		r = io.LimitReader(r, opt.MaxBytes+1)
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return Value{}, errors.Wrap(err, "hoshi: read document")
	}
	return Parse(data, opt)
}

// ParseFrom consumes a single document from src.
func ParseFrom(src Source, opts ...ParseOpt) (Value, error) {
	raw, err := eng.DecodeDocument(EnforceSource(src, lastOpt(opts)))
	if err != nil {
		return Value{}, toIssues(err)
	}
	return fromDecoded(raw)
}

func lastOpt(opts []ParseOpt) ParseOpt {
	if len(opts) == 0 {
		return ParseOpt{}
	}
	return opts[len(opts)-1]
}

func toIssues(err error) Issues {
	if ii, ok := AsIssues(err); ok {
		return ii
	}
	var ie eng.IssueError
	if errors.As(err, &ie) {
		return Issues{Issue{Path: ie.Path, Code: ie.Code, Message: ie.Message, Cause: err}}
	}
	return Issues{newIssue("/", CodeParseError, err)}
}

// fromDecoded converts the engine's any tree (json.Number numbers).
func fromDecoded(raw any) (Value, error) {
	switch t := raw.(type) {
	case nil:
		return Value{}, nil
	case bool:
		return Bool(t), nil
	case string:
		return String(t), nil
	case json.Number:
		return numberValue(string(t))
	case []any:
		arr := make([]Value, len(t))
		for i, e := range t {
			v, err := fromDecoded(e)
			if err != nil {
				return Value{}, err
			}
			arr[i] = v
		}
		return Value{typ: TypeArray, arr: arr}, nil
	case map[string]any:
		obj := make(map[string]Value, len(t))
		for k, e := range t {
			v, err := fromDecoded(e)
			if err != nil {
				return Value{}, err
			}
			obj[k] = v
		}
		return Value{typ: TypeObject, obj: obj}, nil
	default:
		return Value{}, errors.Errorf("hoshi: unexpected decoded type %T", raw)
	}
}

func numberValue(lit string) (Value, error) {
	if !strings.ContainsAny(lit, ".eE") {
		if i, err := strconv.ParseInt(lit, 10, 64); err == nil {
			return Int(i), nil
		}
	}
	f, err := strconv.ParseFloat(lit, 64)
	if err != nil {
		return Value{}, Issues{newIssue("/", CodeParseError, err)}
	}
	return Float(f), nil
}

// Serialize renders v as canonical JSON (object keys sorted). It returns
// nil when v holds a NaN or infinite float; use MarshalJSON to see the error.
func (v Value) Serialize() []byte {
	b, err := v.MarshalJSON()
	if err != nil {
		return nil
	}
	return b
}

// MarshalJSON implements json.Marshaler.
func (v Value) MarshalJSON() ([]byte, error) {
	return v.appendJSON(make([]byte, 0, 64))
}

// UnmarshalJSON implements json.Unmarshaler.
func (v *Value) UnmarshalJSON(b []byte) error {
	pv, err := Parse(b)
	if err != nil {
		return err
	}
	*v = pv
	return nil
}

func (v Value) appendJSON(buf []byte) ([]byte, error) {
	switch v.typ {
	case TypeNull:
		return append(buf, "null"...), nil
	case TypeBool:
		return strconv.AppendBool(buf, v.b), nil
	case TypeInt:
		return strconv.AppendInt(buf, v.i, 10), nil
	case TypeFloat:
		return appendFloat(buf, v.f, 64)
	case TypeString:
		return appendString(buf, v.s), nil
	case TypeArray:
		buf = append(buf, '[')
		for i, e := range v.arr {
			if i > 0 {
				buf = append(buf, ',')
			}
			var err error
			if buf, err = e.appendJSON(buf); err != nil {
				return nil, err
			}
		}
		return append(buf, ']'), nil
	case TypeObject:
		buf = append(buf, '{')
		for i, k := range v.Keys() {
			if i > 0 {
				buf = append(buf, ',')
			}
			buf = appendString(buf, k)
			buf = append(buf, ':')
			var err error
			if buf, err = v.obj[k].appendJSON(buf); err != nil {
				return nil, err
			}
		}
		return append(buf, '}'), nil
	}
	return nil, errors.Errorf("hoshi: invalid value type %d", v.typ)
}

// appendFloat always emits a fraction or an exponent so the text parses back
// as a float.
func appendFloat(buf []byte, f float64, bits int) ([]byte, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return nil, errors.Wrapf(ErrUnsupportedNumber, "%v", f)
	}
	format := byte('f')
	if abs := math.Abs(f); abs != 0 && (abs < 1e-6 || abs >= 1e21) {
		format = 'e'
	}
	start := len(buf)
	buf = strconv.AppendFloat(buf, f, format, -1, bits)
	if format == 'f' && bytes.IndexByte(buf[start:], '.') < 0 {
		buf = append(buf, ".0"...)
	}
	return buf, nil
}

// appendString quotes s with go-json, leaving <, > and & unescaped.
func appendString(buf []byte, s string) []byte {
	q, err := gojson.MarshalWithOption(s, gojson.DisableHTMLEscape())
	if err != nil {
		return strconv.AppendQuote(buf, s)
	}
	return append(buf, q...)
}

func (v Value) debugString() string {
	switch v.typ {
	case TypeFloat:
		return strconv.FormatFloat(v.f, 'g', -1, 64)
	case TypeArray:
		parts := make([]string, len(v.arr))
		for i, e := range v.arr {
			parts[i] = e.String()
		}
		return "[" + strings.Join(parts, ",") + "]"
	case TypeObject:
		keys := v.Keys()
		parts := make([]string, len(keys))
		for i, k := range keys {
			parts[i] = strconv.Quote(k) + ":" + v.obj[k].String()
		}
		return "{" + strings.Join(parts, ",") + "}"
	}
	return fmt.Sprint(v.Native())
}

// FromAny builds a Value from literal and native forms: nil, bool, every Go
// integer width, float32/64, string, json.Number, Value, []Value,
// map[string]Value, []any and map[string]any. Any other value is marshaled
// with go-json and parsed back.
func FromAny(x any) (Value, error) {
	switch t := x.(type) {
	case nil:
		return Value{}, nil
	case Value:
		return t, nil
	case *Value:
		if t == nil {
			return Value{}, nil
		}
		return *t, nil
	case bool:
		return Bool(t), nil
	case int:
		return Int(int64(t)), nil
	case int8:
		return Int(int64(t)), nil
	case int16:
		return Int(int64(t)), nil
	case int32:
		return Int(int64(t)), nil
	case int64:
		return Int(t), nil
	case uint8:
		return Int(int64(t)), nil
	case uint16:
		return Int(int64(t)), nil
	case uint32:
		return Int(int64(t)), nil
	case uint:
		return uintValue(uint64(t))
	case uint64:
		return uintValue(t)
	case float32:
		return Float(float64(t)), nil
	case float64:
		return Float(t), nil
	case string:
		return String(t), nil
	case json.Number:
		return numberValue(string(t))
	case []Value:
		return Array(t...), nil
	case map[string]Value:
		return Object(t), nil
	case []any:
		arr := make([]Value, len(t))
		for i, e := range t {
			v, err := FromAny(e)
			if err != nil {
				return Value{}, err
			}
			arr[i] = v
		}
		return Value{typ: TypeArray, arr: arr}, nil
	case map[string]any:
		obj := make(map[string]Value, len(t))
		for k, e := range t {
			v, err := FromAny(e)
			if err != nil {
				return Value{}, err
			}
			obj[k] = v
		}
		return Value{typ: TypeObject, obj: obj}, nil
	}
	if rv := reflect.ValueOf(x); rv.Kind() == reflect.Slice && rv.IsNil() {
		return Value{}, nil
	}
	data, err := gojson.Marshal(x)
	if err != nil {
		return Value{}, errors.Wrapf(err, "hoshi: cannot convert %T", x)
	}
	return Parse(data)
}

// MustValue is FromAny for literals known to convert; it panics otherwise.
func MustValue(x any) Value {
	v, err := FromAny(x)
	if err != nil {
		panic(err)
	}
	return v
}

func uintValue(u uint64) (Value, error) {
	if u > math.MaxInt64 {
		return Float(float64(u)), nil
	}
	return Int(int64(u)), nil
}
