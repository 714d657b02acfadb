package zod

import (
	"context"

	js "github.com/JorikSchellekens/zod/jsonschema"
)

// Schema surfaces construction, type checking, value validation, and typed
// validation for a single accepted shape.
type Schema[T any] interface {
	// Parse transforms an unknown input into T (TypeCheck -> field parsing ->
	// checks). It returns Issues when validation fails.
	Parse(ctx context.Context, v any) (T, error)

	// TypeCheck verifies the top-level kind of v (object, string, number...).
	TypeCheck(ctx context.Context, v any) error

	// RuleCheck runs the remaining validations (fields, unknown keys, bounds,
	// checks) assuming TypeCheck already succeeded.
	RuleCheck(ctx context.Context, v any) error

	// Validate composes TypeCheck followed by RuleCheck.
	Validate(ctx context.Context, v any) error

	// ValidateValue verifies a value already typed as T without any conversion.
	ValidateValue(ctx context.Context, v T) error

	// JSONSchema projects the schema into a JSON Schema representation.
	JSONSchema() (*js.Schema, error)
}

// SafeParse parses v into T, returning (zero, false) on validation error.
func SafeParse[T any](ctx context.Context, s Schema[T], v any) (T, bool) {
	val, err := s.Parse(ctx, v)
	if err != nil {
		var zero T
		return zero, false
	}
	return val, true
}

// Is returns true if v conforms to the schema s (TypeCheck+RuleCheck).
func Is[T any](ctx context.Context, s Schema[T], v any) bool {
	return s.Validate(ctx, v) == nil
}

type contextKey int

const (
	_ctxKeyFailFast contextKey = iota
)

// WithFailFast returns a child context that marks fail-fast parsing behavior.
// ParseFrom sets it from ParseOpt.FailFast; schema implementations consume it.
func WithFailFast(ctx context.Context, enabled bool) context.Context {
	return context.WithValue(ctx, _ctxKeyFailFast, enabled)
}

// IsFailFast reports whether the current parse should stop on the first issue.
func IsFailFast(ctx context.Context) bool {
	v := ctx.Value(_ctxKeyFailFast)
	b, _ := v.(bool)
	return b
}
