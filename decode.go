package hoshi

import (
	"reflect"

	"go.uber.org/zap"

	eng "github.com/reoring/hoshi/internal/engine"
)

type decodeState struct {
	presence PresenceMap
	issues   Issues
}

func newDecodeState() *decodeState {
	return &decodeState{presence: PresenceMap{}}
}

func (st *decodeState) mark(path string, p Presence) {
	if st == nil {
		return
	}
	st.presence[internString(path)] |= p
}

func (st *decodeState) miss(path string, fd *fieldInfo, got Value) {
	if st != nil {
		st.presence[internString(path)] |= PresenceDefaultApplied
		st.issues = append(st.issues, newIssue(path, CodeInvalidType, nil))
	}
	Logger().Debug("hoshi: field kept its default",
		zap.String("path", path),
		zap.Stringer("kind", fd.Kind),
		zap.Stringer("got", got.Type()))
}

func (st *decodeState) merge(o *decodeState) {
	if st == nil || o == nil {
		return
	}
	for k, v := range o.presence {
		st.presence[k] |= v
	}
	st.issues = append(st.issues, o.issues...)
}

// Decode applies doc onto defaults field by field and never fails. A doc that
// is not an object yields defaults unchanged (apart from the base
// initializer).
func (s *Schema[T]) Decode(doc Value, defaults T) T {
	return s.decode(doc, defaults, nil).Value
}

// DecodeValue decodes doc onto the default record.
func (s *Schema[T]) DecodeValue(doc Value) T {
	return s.Decode(doc, s.New())
}

// DecodeWithMeta is Decode that also reports presence per wire key and the
// issues met on the way.
func (s *Schema[T]) DecodeWithMeta(doc Value, defaults T) Decoded[T] {
	return s.decode(doc, defaults, newDecodeState())
}

func (s *Schema[T]) decode(doc Value, defaults T, st *decodeState) Decoded[T] {
	out := defaults
	rv := reflect.ValueOf(&out).Elem()
	if doc.Type() != TypeObject {
		if st != nil {
			st.issues = append(st.issues, newIssue("/", CodeParseError, nil))
		}
		Logger().Debug("hoshi: document is not an object, using defaults",
			zap.String("record", s.tbl.name),
			zap.Stringer("got", doc.Type()))
	} else {
		s.tbl.decodeFields(rv, doc.obj, "", st)
	}
	s.tbl.initBase(rv)
	d := Decoded[T]{Value: out}
	if st != nil {
		d.Presence = st.presence
		d.Issues = st.issues
	}
	return d
}

// decodeFields assigns every decodable field of dst from obj.
func (tb *table) decodeFields(dst reflect.Value, obj map[string]Value, path string, st *decodeState) {
	for i := range tb.fields {
		fi := &tb.fields[i]
		if fi.SkipDecode {
			continue
		}
		key := joinPath(path, fi.WireKey)
		raw, ok := obj[fi.WireKey]
		if !ok {
			st.mark(key, PresenceDefaultApplied)
			continue
		}
		st.mark(key, PresenceSeen)
		if raw.IsNull() {
			st.mark(key, PresenceWasNull|PresenceDefaultApplied)
			continue
		}
		fv := dst.Field(fi.index)
		switch fi.Kind {
		case KindBool, KindInt, KindFloat, KindString:
			v, coerced, ok := coerceScalar(fi.Kind, fi.elem, raw)
			if !ok {
				st.miss(key, fi, raw)
				continue
			}
			assign(fv, v, fi.IsOptional)
			if coerced {
				st.mark(key, PresenceCoerced)
			}
		case KindNested:
			if raw.Type() != TypeObject {
				st.miss(key, fi, raw)
				continue
			}
			assign(fv, decodeNested(fi.elem, raw.obj, key, st), fi.IsOptional)
		default:
			local := childState(st)
			v, err := convertStrict(raw, fi.typ, key, local)
			if err != nil {
				st.miss(key, fi, raw)
				continue
			}
			fv.Set(v)
			st.merge(local)
		}
	}
}

func joinPath(base, token string) string { return eng.JoinPointer(base, token) }

func childState(st *decodeState) *decodeState {
	if st == nil {
		return nil
	}
	return newDecodeState()
}

// decodeNested runs a lenient decode of obj onto a fresh default of t.
// Nested records never retain their input.
func decodeNested(t reflect.Type, obj map[string]Value, path string, st *decodeState) reflect.Value {
	tb := mustTable(t)
	nv := tb.newDefault()
	tb.decodeFields(nv, obj, path, st)
	tb.initBase(nv)
	return nv
}

func assign(dst, v reflect.Value, optional bool) {
	if optional {
		p := reflect.New(v.Type())
		p.Elem().Set(v)
		dst.Set(p)
		return
	}
	dst.Set(v)
}
