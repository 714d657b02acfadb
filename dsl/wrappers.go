package dsl

import (
	"context"

	js "github.com/JorikSchellekens/zod/jsonschema"
)

// OptionalSchema lets a property be absent. Present values, including JSON
// null, still go through the inner Field.
type OptionalSchema struct{ inner Field }

// Optional wraps f so that objects accept the property being absent.
func Optional(f Field) *OptionalSchema {
	if o, ok := f.(*OptionalSchema); ok {
		return o
	}
	return &OptionalSchema{inner: f}
}

func (o *OptionalSchema) ParseAny(ctx context.Context, v any) (any, error) {
	return o.inner.ParseAny(ctx, v)
}

func (o *OptionalSchema) AcceptsMissing() bool { return true }

func (o *OptionalSchema) JSONSchema() (*js.Schema, error) { return o.inner.JSONSchema() }

// Unwrap returns the wrapped Field.
func (o *OptionalSchema) Unwrap() Field { return o.inner }

// NullableSchema accepts JSON null in addition to the inner Field's values.
type NullableSchema struct{ inner Field }

// Nullable wraps f to accept nil. Absence is still decided by f.
func Nullable(f Field) *NullableSchema {
	if n, ok := f.(*NullableSchema); ok {
		return n
	}
	return &NullableSchema{inner: f}
}

func (n *NullableSchema) ParseAny(ctx context.Context, v any) (any, error) {
	if v == nil {
		return nil, nil
	}
	return n.inner.ParseAny(ctx, v)
}

func (n *NullableSchema) AcceptsMissing() bool { return n.inner.AcceptsMissing() }

func (n *NullableSchema) JSONSchema() (*js.Schema, error) {
	inner, err := n.inner.JSONSchema()
	if err != nil {
		return nil, err
	}
	if inner == nil {
		inner = &js.Schema{}
	}
	return &js.Schema{AnyOf: []*js.Schema{inner, js.Null()}}, nil
}

// Unwrap returns the wrapped Field.
func (n *NullableSchema) Unwrap() Field { return n.inner }
