package dsl

import (
	"context"
	"errors"
	"fmt"
)

// ErrInvalidField is returned by Build for an empty property name or nil Field.
var ErrInvalidField = errors.New("dsl: invalid field")

// ObjectBuilder assembles an ObjectSchema. Builders are not safe for
// concurrent use; the schemas they build are.
type ObjectBuilder struct {
	shape  Shape
	strict bool
	checks []Check
	errs   []error
}

type fieldStep struct {
	b    *ObjectBuilder
	name string
}

// Object creates a new object builder with safe defaults (strict).
func Object() *ObjectBuilder {
	return &ObjectBuilder{shape: newShape(0), strict: true}
}

// Field registers a property. Registering a name again replaces its Field.
func (b *ObjectBuilder) Field(name string, f Field) *fieldStep {
	if name == "" || f == nil {
		b.errs = append(b.errs, fmt.Errorf("%w: %q", ErrInvalidField, name))
	} else {
		b.shape.set(name, f)
	}
	return &fieldStep{b: b, name: name}
}

// Optional wraps the current property with Optional.
func (f *fieldStep) Optional() *ObjectBuilder {
	if cur, ok := f.b.shape.Get(f.name); ok {
		f.b.shape.set(f.name, Optional(cur))
	}
	return f.b
}

// Nullable wraps the current property with Nullable.
func (f *fieldStep) Nullable() *ObjectBuilder {
	if cur, ok := f.b.shape.Get(f.name); ok {
		f.b.shape.set(f.name, Nullable(cur))
	}
	return f.b
}

func (f *fieldStep) Field(name string, fd Field) *fieldStep { return f.b.Field(name, fd) }
func (f *fieldStep) Strict() *ObjectBuilder                 { return f.b.Strict() }
func (f *fieldStep) NonStrict() *ObjectBuilder              { return f.b.NonStrict() }
func (f *fieldStep) Check(name string, fn func(context.Context, map[string]any) error) *ObjectBuilder {
	return f.b.Check(name, fn)
}
func (f *fieldStep) Build() (*ObjectSchema, error) { return f.b.Build() }
func (f *fieldStep) MustBuild() *ObjectSchema      { return f.b.MustBuild() }

// Strict rejects keys that are not declared (the default).
func (b *ObjectBuilder) Strict() *ObjectBuilder {
	b.strict = true
	return b
}

// NonStrict passes undeclared keys through to the parsed output.
func (b *ObjectBuilder) NonStrict() *ObjectBuilder {
	b.strict = false
	return b
}

// Check adds an object-level rule executed after structural validation.
func (b *ObjectBuilder) Check(name string, fn func(context.Context, map[string]any) error) *ObjectBuilder {
	if fn == nil {
		return b
	}
	b.checks = append(b.checks, Check{Name: name, Fn: fn})
	return b
}

// Build validates the builder and returns an ObjectSchema independent of any
// later builder calls.
func (b *ObjectBuilder) Build() (*ObjectSchema, error) {
	if len(b.errs) > 0 {
		return nil, errors.Join(b.errs...)
	}
	checks := make([]Check, len(b.checks))
	copy(checks, b.checks)
	return &ObjectSchema{shape: fixedShape(b.shape.clone(0)), strict: b.strict, checks: checks}, nil
}

// MustBuild is like Build but panics on error.
func (b *ObjectBuilder) MustBuild() *ObjectSchema {
	s, err := b.Build()
	if err != nil {
		panic(err)
	}
	return s
}

// ObjectOf returns a strict object schema over an existing Shape.
func ObjectOf(s Shape) *ObjectSchema {
	return &ObjectSchema{shape: fixedShape(s), strict: true}
}
