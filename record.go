package hoshi

import (
	"io"
	"time"

	"github.com/jinzhu/copier"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// Record is a decoded record together with its decode metadata.
//
// Records built from a JSON string, bytes, a mapping or YAML retain their
// input. JSON, ToMapping and Copy then reproduce that input instead of
// re-encoding Value, so changes made to Value after construction do not show
// up there. Use Detach to get a record that encodes its live value.
// Description always reflects the live value.
type Record[T any] struct {
	Value    T
	Presence PresenceMap
	Issues   Issues

	schema *Schema[T]
	orig   []byte
}

// Default returns a record holding the default value.
func (s *Schema[T]) Default() *Record[T] {
	return &Record[T]{Value: s.New(), schema: s}
}

// FromJSONString decodes a JSON text. It never fails: malformed input yields
// the default record with a parse_error issue.
func (s *Schema[T]) FromJSONString(text string, opts ...ParseOpt) *Record[T] {
	return s.FromBytes([]byte(text), opts...)
}

// FromBytes decodes a JSON document and retains it verbatim when it is an
// object.
func (s *Schema[T]) FromBytes(b []byte, opts ...ParseOpt) *Record[T] {
	doc, err := Parse(b, opts...)
	if err != nil {
		return s.malformed(err)
	}
	r := s.fromDocument(doc)
	if doc.Type() == TypeObject {
		r.orig = append([]byte(nil), b...)
	}
	return r
}

// FromReader reads r fully and decodes it like FromBytes. Only read errors
// are returned.
func (s *Schema[T]) FromReader(rd io.Reader, opts ...ParseOpt) (*Record[T], error) {
	data, err := io.ReadAll(rd)
	if err != nil {
		return nil, errors.Wrap(err, "hoshi: read document")
	}
	return s.FromBytes(data, opts...), nil
}

// FromMapping decodes a native mapping and retains its canonical
// serialization.
func (s *Schema[T]) FromMapping(m map[string]any) *Record[T] {
	doc, err := FromAny(m)
	if err != nil {
		return s.malformed(err)
	}
	return s.retainCanonical(doc)
}

// FromYAML decodes the first YAML document and retains its canonical JSON
// serialization.
func (s *Schema[T]) FromYAML(b []byte) *Record[T] {
	doc, err := ParseYAML(b)
	if err != nil {
		return s.malformed(err)
	}
	return s.retainCanonical(doc)
}

// FromValue decodes an already parsed document. Nothing is retained.
func (s *Schema[T]) FromValue(doc Value) *Record[T] {
	return s.fromDocument(doc)
}

func (s *Schema[T]) fromDocument(doc Value) *Record[T] {
	d := s.DecodeWithMeta(doc, s.New())
	return &Record[T]{Value: d.Value, Presence: d.Presence, Issues: d.Issues, schema: s}
}

func (s *Schema[T]) retainCanonical(doc Value) *Record[T] {
	r := s.fromDocument(doc)
	if doc.Type() == TypeObject {
		r.orig = doc.Serialize()
	}
	return r
}

func (s *Schema[T]) malformed(err error) *Record[T] {
	Logger().Debug("hoshi: malformed document, using defaults",
		zap.String("record", s.tbl.name), zap.Error(err))
	r := s.Default()
	if ii, ok := AsIssues(err); ok {
		r.Issues = AppendIssues(r.Issues, ii...)
	} else {
		r.Issues = AppendIssues(r.Issues, newIssue("/", CodeParseError, err))
	}
	return r
}

// Retained reports whether the record reproduces its construction input.
func (r *Record[T]) Retained() bool { return r.orig != nil }

// JSON returns the retained input, or the encoding of Value. A value that
// cannot be encoded yields ErrorSentinel.
func (r *Record[T]) JSON() []byte {
	if r.orig != nil {
		return append([]byte(nil), r.orig...)
	}
	b, err := r.schema.Encode(r.Value)
	if err != nil {
		Logger().Warn("hoshi: encode failed",
			zap.String("record", r.schema.Name()), zap.Error(err))
		return []byte(ErrorSentinel)
	}
	return b
}

// JSONString is JSON as text.
func (r *Record[T]) JSONString() string { return string(r.JSON()) }

// ToMapping returns JSON as an object.
func (r *Record[T]) ToMapping() map[string]Value {
	v, err := Parse(r.JSON())
	if m, ok := v.AsObject(); err == nil && ok {
		return m
	}
	return map[string]Value{"error": String(ErrorText)}
}

// Copy decodes the record's own JSON into a fresh record. With retention
// active the copy reflects the original input, not later changes to Value.
func (r *Record[T]) Copy() *Record[T] {
	return r.schema.FromBytes(r.JSON())
}

// Detach deep-copies the live value into a record without retention.
func (r *Record[T]) Detach() (*Record[T], error) {
	var out T
	err := copier.CopyWithOption(&out, &r.Value, copier.Option{
		DeepCopy:   true,
		Converters: opaqueConverters,
	})
	if err != nil {
		return nil, errors.Wrap(err, "hoshi: detach")
	}
	return &Record[T]{Value: out, schema: r.schema}, nil
}

// Value and time.Time keep their state in unexported fields; both are
// immutable and copied as a whole.
var opaqueConverters = []copier.TypeConverter{
	{SrcType: Value{}, DstType: Value{}, Fn: func(src any) (any, error) { return src, nil }},
	{SrcType: time.Time{}, DstType: time.Time{}, Fn: func(src any) (any, error) { return src, nil }},
}

// Equal compares the records' values with the schema's equality.
func (r *Record[T]) Equal(other *Record[T]) bool {
	if other == nil {
		return false
	}
	return r.schema.Equal(r.Value, other.Value)
}

// Fingerprint hashes the value with the schema's equality fields.
func (r *Record[T]) Fingerprint() uint64 { return r.schema.Fingerprint(r.Value) }

// Description lists every declared field's current value.
func (r *Record[T]) Description() string { return r.schema.Describe(r.Value) }

func (r *Record[T]) String() string { return r.Description() }

// Lookup evaluates a gjson path against JSON. With retention it reaches keys
// the record type does not declare.
func (r *Record[T]) Lookup(path string) (Value, bool) {
	return LookupBytes(r.JSON(), path)
}
