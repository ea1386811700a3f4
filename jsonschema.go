package hoshi

import (
	"reflect"

	"github.com/reoring/hoshi/jsonschema"
)

// JSONSchema projects the descriptor table onto a JSON Schema. Scalar fields
// list every wire type their coercion ladder accepts, and no property is
// required since absent keys keep their defaults. nojson fields are left out.
func (s *Schema[T]) JSONSchema() *jsonschema.Schema {
	return s.tbl.jsonSchema(map[reflect.Type]bool{})
}

func (tb *table) jsonSchema(stack map[reflect.Type]bool) *jsonschema.Schema {
	out := &jsonschema.Schema{Title: tb.name, Type: "object", Properties: map[string]*jsonschema.Schema{}}
	if stack[tb.typ] {
		return out
	}
	stack[tb.typ] = true
	defer delete(stack, tb.typ)
	for i := range tb.fields {
		fi := &tb.fields[i]
		if !fi.IncludeInSerialization {
			continue
		}
		var ps *jsonschema.Schema
		switch fi.Kind {
		case KindBool:
			ps = anyOf("boolean", "integer")
		case KindInt:
			ps = anyOf("integer", "boolean", "string")
		case KindFloat:
			ps = jsonschema.Of("number")
		case KindString:
			ps = anyOf("string", "integer")
		default:
			ps = typeSchema(fi.elem, stack)
		}
		if fi.Kind <= KindString && !fi.IsOptional && fi.Default != nil {
			ps.Default = fi.Default
		}
		if fi.IsOptional {
			ps = jsonschema.Nullable(ps)
		}
		out.Properties[fi.WireKey] = ps
	}
	return out
}

func anyOf(types ...string) *jsonschema.Schema {
	s := &jsonschema.Schema{}
	for _, t := range types {
		s.AnyOf = append(s.AnyOf, jsonschema.Of(t))
	}
	return s
}

// typeSchema describes the strict shape accepted for container fields.
func typeSchema(t reflect.Type, stack map[reflect.Type]bool) *jsonschema.Schema {
	if t.Kind() == reflect.Pointer {
		return jsonschema.Nullable(typeSchema(t.Elem(), stack))
	}
	if isDynamic(t) {
		return &jsonschema.Schema{}
	}
	switch t.Kind() {
	case reflect.Bool:
		return jsonschema.Of("boolean")
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return jsonschema.Of("integer")
	case reflect.Float32, reflect.Float64:
		return jsonschema.Of("number")
	case reflect.String:
		return jsonschema.Of("string")
	case reflect.Struct:
		return mustTable(t).jsonSchema(stack)
	case reflect.Slice:
		return &jsonschema.Schema{Type: "array", Items: typeSchema(t.Elem(), stack)}
	case reflect.Array:
		n := t.Len()
		return &jsonschema.Schema{Type: "array", Items: typeSchema(t.Elem(), stack), MinItems: &n, MaxItems: &n}
	case reflect.Map:
		return &jsonschema.Schema{Type: "object", AdditionalProperties: typeSchema(t.Elem(), stack)}
	}
	return &jsonschema.Schema{}
}
