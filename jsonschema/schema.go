// Package jsonschema holds the minimal JSON Schema shape used to export record
// schemas.
package jsonschema

// Schema is a minimal JSON Schema representation used for export.
type Schema struct {
	Title   string `json:"title,omitempty"`
	Type    string `json:"type,omitempty"`
	Default any    `json:"default,omitempty"`

	// Object
	Properties           map[string]*Schema `json:"properties,omitempty"`
	Required             []string           `json:"required,omitempty"`
	AdditionalProperties *Schema            `json:"additionalProperties,omitempty"`

	// Array
	Items    *Schema `json:"items,omitempty"`
	MinItems *int    `json:"minItems,omitempty"`
	MaxItems *int    `json:"maxItems,omitempty"`

	// Lenient fields accept more than one wire type.
	AnyOf []*Schema `json:"anyOf,omitempty"`
}

// Of returns a schema with only a type set.
func Of(typ string) *Schema { return &Schema{Type: typ} }

// Nullable wraps s so that null is accepted as well.
func Nullable(s *Schema) *Schema {
	return &Schema{AnyOf: []*Schema{s, Of("null")}}
}
