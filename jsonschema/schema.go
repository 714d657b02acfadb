package jsonschema

import (
	"bytes"
	"slices"

	gojson "github.com/goccy/go-json"
)

// Schema is a minimal JSON Schema representation used for export.
type Schema struct {
	// Core
	Type    string `json:"type,omitempty"`
	Format  string `json:"format,omitempty"`
	Default any    `json:"default,omitempty"`

	// Number
	Minimum          *float64 `json:"minimum,omitempty"`
	Maximum          *float64 `json:"maximum,omitempty"`
	ExclusiveMinimum *float64 `json:"exclusiveMinimum,omitempty"`
	ExclusiveMaximum *float64 `json:"exclusiveMaximum,omitempty"`

	// String
	MinLength *int `json:"minLength,omitempty"`
	MaxLength *int `json:"maxLength,omitempty"`

	// Array
	Items    *Schema `json:"items,omitempty"`
	MinItems *int    `json:"minItems,omitempty"`
	MaxItems *int    `json:"maxItems,omitempty"`

	// Object. PropertyOrder lists Properties keys in declaration order and
	// drives the order of "properties" in MarshalJSON.
	Properties           map[string]*Schema `json:"properties,omitempty"`
	PropertyOrder        []string           `json:"-"`
	Required             []string           `json:"required,omitempty"`
	AdditionalProperties any                `json:"additionalProperties,omitempty"`

	// Composition
	AllOf []*Schema `json:"allOf,omitempty"`
	AnyOf []*Schema `json:"anyOf,omitempty"`
}

// Float returns a pointer to f for the numeric bound fields.
func Float(f float64) *float64 { return &f }

// Int returns a pointer to i for the length fields.
func Int(i int) *int { return &i }

// Null is the schema accepting only JSON null.
func Null() *Schema { return &Schema{Type: "null"} }

// MarshalJSON writes "properties" last, in PropertyOrder followed by any
// remaining keys sorted.
func (s Schema) MarshalJSON() ([]byte, error) {
	type plain Schema
	p := plain(s)
	p.Properties = nil
	b, err := gojson.Marshal(p)
	if err != nil || len(s.Properties) == 0 {
		return b, err
	}

	var buf bytes.Buffer
	buf.Write(b[:len(b)-1])
	if len(b) > 2 {
		buf.WriteByte(',')
	}
	buf.WriteString(`"properties":{`)
	for i, k := range s.propertyKeys() {
		if i > 0 {
			buf.WriteByte(',')
		}
		kb, err := gojson.Marshal(k)
		if err != nil {
			return nil, err
		}
		vb, err := gojson.Marshal(s.Properties[k])
		if err != nil {
			return nil, err
		}
		buf.Write(kb)
		buf.WriteByte(':')
		buf.Write(vb)
	}
	buf.WriteString("}}")
	return buf.Bytes(), nil
}

func (s Schema) propertyKeys() []string {
	keys := make([]string, 0, len(s.Properties))
	seen := make(map[string]bool, len(s.Properties))
	for _, k := range s.PropertyOrder {
		if _, ok := s.Properties[k]; ok && !seen[k] {
			keys = append(keys, k)
			seen[k] = true
		}
	}
	var rest []string
	for k := range s.Properties {
		if !seen[k] {
			rest = append(rest, k)
		}
	}
	slices.Sort(rest)
	return append(keys, rest...)
}
