package hoshi

import (
	"encoding/json"
	"reflect"
	"sync"

	"github.com/pkg/errors"
)

// FieldDescriptor is the static metadata of one record field.
type FieldDescriptor struct {
	LocalName string // Go field name.
	WireKey   string // JSON key.
	Kind      Kind
	// IsOptional is set for pointer fields; a nil value is omitted on encode.
	IsOptional             bool
	IncludeInEquality      bool
	IncludeInSerialization bool
	// SkipDecode leaves the field at its default during decode.
	SkipDecode bool
	// Default is the field value in the default record.
	Default any
}

type fieldInfo struct {
	FieldDescriptor
	index int
	typ   reflect.Type // declared field type
	elem  reflect.Type // typ without the optional pointer
}

// table is the descriptor table of one struct type. Tables are immutable once
// stored in the registry.
type table struct {
	typ     reflect.Type
	name    string
	fields  []fieldInfo
	byLocal map[string]int
	hasBase bool
}

var (
	registry sync.Map // reflect.Type -> *table
	buildMu  sync.Mutex

	marshalerType   = reflect.TypeOf((*json.Marshaler)(nil)).Elem()
	unmarshalerType = reflect.TypeOf((*json.Unmarshaler)(nil)).Elem()
)

// tableFor returns the registered table of a struct type, building it on
// first use. Types reached from a Schema are always registered by NewSchema.
func tableFor(t reflect.Type) (*table, error) {
	if tb, ok := registry.Load(t); ok {
		return tb.(*table), nil
	}
	buildMu.Lock()
	defer buildMu.Unlock()
	b := &tableBuilder{visiting: map[reflect.Type]bool{}, built: map[reflect.Type]*table{}}
	tb, err := b.build(t)
	if err != nil {
		return nil, err
	}
	for bt, btb := range b.built {
		registry.LoadOrStore(bt, btb)
	}
	return tb, nil
}

func mustTable(t reflect.Type) *table {
	tb, err := tableFor(t)
	if err != nil {
		panic(err)
	}
	return tb
}

type tableBuilder struct {
	visiting map[reflect.Type]bool
	built    map[reflect.Type]*table
}

func violation(format string, args ...any) error {
	return errors.Wrapf(ErrSchemaViolation, format, args...)
}

func (b *tableBuilder) build(t reflect.Type) (*table, error) {
	if tb, ok := registry.Load(t); ok {
		return tb.(*table), nil
	}
	if tb, ok := b.built[t]; ok {
		return tb, nil
	}
	if t.Kind() != reflect.Struct {
		return nil, violation("%s is not a struct", t)
	}
	b.visiting[t] = true
	defer delete(b.visiting, t)

	tb := &table{typ: t, name: t.Name(), byLocal: map[string]int{}}
	if tb.name == "" {
		tb.name = t.String()
	}
	wire := map[string]string{}
	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		if sf.Anonymous {
			if sf.Type == entityType {
				tb.hasBase = true
				continue
			}
			return nil, violation("%s embeds %s; only hoshi.Entity may be embedded", t, sf.Type)
		}
		if !sf.IsExported() {
			continue
		}
		tag := parseFieldTag(sf)
		if tag.skip {
			continue
		}
		kind, optional, err := b.kindOf(sf.Type)
		if err != nil {
			return nil, errors.Wrapf(err, "field %s.%s", t, sf.Name)
		}
		fi := fieldInfo{
			FieldDescriptor: FieldDescriptor{
				LocalName:              sf.Name,
				WireKey:                tag.name,
				Kind:                   kind,
				IsOptional:             optional,
				IncludeInEquality:      !tag.noEqual,
				IncludeInSerialization: !tag.noJSON,
				SkipDecode:             tag.noJSON,
			},
			index: i,
			typ:   sf.Type,
			elem:  sf.Type,
		}
		if optional {
			fi.elem = sf.Type.Elem()
		}
		if prev, dup := wire[fi.WireKey]; dup {
			return nil, violation("%s: fields %s and %s share wire key %q", t, prev, sf.Name, fi.WireKey)
		}
		wire[fi.WireKey] = sf.Name
		tb.byLocal[sf.Name] = len(tb.fields)
		tb.fields = append(tb.fields, fi)
	}
	tb.fillDefaults(tb.newDefault())
	b.built[t] = tb
	return tb, nil
}

func (tb *table) fillDefaults(def reflect.Value) {
	for i := range tb.fields {
		tb.fields[i].Default = def.Field(tb.fields[i].index).Interface()
	}
}

// kindOf classifies a field type. Struct types met on the way are built so
// that violations in nested records surface at schema build time.
func (b *tableBuilder) kindOf(t reflect.Type) (Kind, bool, error) {
	if t.Kind() == reflect.Pointer {
		if t.Elem().Kind() == reflect.Pointer {
			return 0, false, violation("pointer to pointer %s", t)
		}
		k, _, err := b.kindOf(t.Elem())
		return k, true, err
	}
	if isDynamic(t) {
		return KindDynamic, false, nil
	}
	switch t.Kind() {
	case reflect.Bool:
		return KindBool, false, nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return KindInt, false, nil
	case reflect.Float32, reflect.Float64:
		return KindFloat, false, nil
	case reflect.String:
		return KindString, false, nil
	case reflect.Struct:
		return KindNested, false, b.visitStruct(t)
	case reflect.Slice, reflect.Array:
		return KindList, false, b.checkElem(t.Elem())
	case reflect.Map:
		if t.Key().Kind() != reflect.String {
			return 0, false, violation("map key of %s must be a string", t)
		}
		return KindMap, false, b.checkElem(t.Elem())
	case reflect.Interface:
		return 0, false, violation("interface %s has methods", t)
	}
	return 0, false, violation("unsupported type %s", t)
}

func (b *tableBuilder) checkElem(t reflect.Type) error {
	_, _, err := b.kindOf(t)
	return err
}

func (b *tableBuilder) visitStruct(t reflect.Type) error {
	if b.visiting[t] {
		return nil
	}
	_, err := b.build(t)
	return err
}

// isDynamic reports types carried as arbitrary JSON: Value, empty interfaces
// and types with their own JSON codec (time.Time for example).
func isDynamic(t reflect.Type) bool {
	if t == valueType {
		return true
	}
	if t.Kind() == reflect.Interface {
		return t.NumMethod() == 0
	}
	return hasJSONCodec(t)
}

func hasJSONCodec(t reflect.Type) bool {
	return t.Implements(marshalerType) && reflect.PointerTo(t).Implements(unmarshalerType)
}

// newDefault returns an addressable zero value with defaults applied and the
// base initializer run.
func (tb *table) newDefault() reflect.Value {
	p := reflect.New(tb.typ)
	if d, ok := p.Interface().(Defaulter); ok {
		d.SetDefaults()
	}
	tb.initBase(p.Elem())
	return p.Elem()
}

func (tb *table) initBase(v reflect.Value) {
	if !tb.hasBase || !v.CanAddr() {
		return
	}
	if in, ok := v.Addr().Interface().(Initializer); ok {
		in.InitEntity()
	}
}

func (tb *table) clone() *table {
	c := *tb
	c.fields = make([]fieldInfo, len(tb.fields))
	copy(c.fields, tb.fields)
	c.byLocal = make(map[string]int, len(tb.byLocal))
	for k, v := range tb.byLocal {
		c.byLocal[k] = v
	}
	return &c
}

// Schema is the compiled descriptor table of record type T together with the
// engine operations over it. A Schema is immutable and safe for concurrent
// use.
type Schema[T any] struct {
	tbl      *table
	defaults func() T
}

// Option configures NewSchema.
type Option func(*schemaConfig)

type schemaConfig struct {
	name     string
	defaults any
	renames  map[string]string
}

// WithDefaults supplies the default record. It overrides a Defaulter
// implementation on T.
func WithDefaults[T any](fn func() T) Option {
	return func(c *schemaConfig) { c.defaults = fn }
}

// WithName sets the name used by descriptions and JSON Schema titles.
func WithName(name string) Option {
	return func(c *schemaConfig) { c.name = name }
}

// WithRename overrides the wire key of the field named localName.
func WithRename(localName, wireKey string) Option {
	return func(c *schemaConfig) {
		if c.renames == nil {
			c.renames = map[string]string{}
		}
		c.renames[localName] = wireKey
	}
}

// NewSchema builds the descriptor table of T. Errors wrap ErrSchemaViolation.
func NewSchema[T any](opts ...Option) (*Schema[T], error) {
	var cfg schemaConfig
	for _, o := range opts {
		o(&cfg)
	}
	typ := reflect.TypeOf((*T)(nil)).Elem()
	base, err := tableFor(typ)
	if err != nil {
		return nil, err
	}
	s := &Schema[T]{tbl: base}
	if cfg.defaults != nil {
		fn, ok := cfg.defaults.(func() T)
		if !ok {
			return nil, violation("WithDefaults for %s got %T", typ, cfg.defaults)
		}
		s.defaults = fn
	}
	if cfg.name == "" && len(cfg.renames) == 0 && s.defaults == nil {
		return s, nil
	}
	tb := base.clone()
	if cfg.name != "" {
		tb.name = cfg.name
	}
	if len(cfg.renames) > 0 {
		for local, key := range cfg.renames {
			i, ok := tb.byLocal[local]
			if !ok {
				return nil, violation("%s has no field %s", typ, local)
			}
			tb.fields[i].WireKey = key
		}
		seen := map[string]string{}
		for _, f := range tb.fields {
			if prev, dup := seen[f.WireKey]; dup {
				return nil, violation("%s: fields %s and %s share wire key %q", typ, prev, f.LocalName, f.WireKey)
			}
			seen[f.WireKey] = f.LocalName
		}
	}
	s.tbl = tb
	if s.defaults != nil {
		v := s.New()
		tb.fillDefaults(reflect.ValueOf(&v).Elem())
	}
	return s, nil
}

// MustSchema is NewSchema for package-level schema variables; it panics on a
// schema violation.
func MustSchema[T any](opts ...Option) *Schema[T] {
	s, err := NewSchema[T](opts...)
	if err != nil {
		panic(err)
	}
	return s
}

// Name returns the record type name.
func (s *Schema[T]) Name() string { return s.tbl.name }

// HasBase reports whether T embeds Entity.
func (s *Schema[T]) HasBase() bool { return s.tbl.hasBase }

// Fields returns the descriptors in declaration order.
func (s *Schema[T]) Fields() []FieldDescriptor {
	out := make([]FieldDescriptor, len(s.tbl.fields))
	for i, f := range s.tbl.fields {
		out[i] = f.FieldDescriptor
	}
	return out
}

// Field returns the descriptor of the Go field named localName.
func (s *Schema[T]) Field(localName string) (FieldDescriptor, bool) {
	i, ok := s.tbl.byLocal[localName]
	if !ok {
		return FieldDescriptor{}, false
	}
	return s.tbl.fields[i].FieldDescriptor, true
}

// New returns the default record value with the base initializer run.
func (s *Schema[T]) New() T {
	if s.defaults == nil {
		return s.tbl.newDefault().Interface().(T)
	}
	v := s.defaults()
	s.tbl.initBase(reflect.ValueOf(&v).Elem())
	return v
}
