package dsl

import (
	"context"

	zod "github.com/JorikSchellekens/zod"
	js "github.com/JorikSchellekens/zod/jsonschema"
)

// IntersectionSchema accepts exactly the values both sides accept.
//
// Acceptance is a plain conjunction, so nesting is associative and
// commutative: Intersection(x, Intersection(y, z)) accepts the same values as
// Intersection(Intersection(x, y), z).
type IntersectionSchema struct {
	left, right Field
}

var (
	_ Field           = (*IntersectionSchema)(nil)
	_ zod.Schema[any] = (*IntersectionSchema)(nil)
)

// Intersection returns a Field requiring conformance to both a and b.
func Intersection(a, b Field) *IntersectionSchema {
	return &IntersectionSchema{left: a, right: b}
}

// Left returns the first operand.
func (s *IntersectionSchema) Left() Field { return s.left }

// Right returns the second operand.
func (s *IntersectionSchema) Right() Field { return s.right }

// ParseAny runs both sides and reports the issues of both, left first. The
// result is the left value; when both sides yield objects their keys are
// combined, see combine.
func (s *IntersectionSchema) ParseAny(ctx context.Context, v any) (any, error) {
	lv, lerr := s.left.ParseAny(ctx, v)
	if lerr != nil && zod.IsFailFast(ctx) {
		return nil, lerr
	}
	rv, rerr := s.right.ParseAny(ctx, v)
	if lerr != nil || rerr != nil {
		var iss zod.Issues
		iss = appendErr(iss, lerr)
		iss = appendErr(iss, rerr)
		return nil, iss
	}
	return combine(s.left, s.right, lv, rv), nil
}

// combine merges two parsed forms of the same input. Shared keys take the
// left value unless only the right side declares the key; a non-strict left
// object holds such keys as unparsed input. Nested objects combine
// recursively. lf or rf may be nil for a passthrough value.
func combine(lf, rf Field, lv, rv any) any {
	lm, lok := lv.(map[string]any)
	rm, rok := rv.(map[string]any)
	if !lok || !rok {
		return lv
	}
	out := make(map[string]any, len(lm)+len(rm))
	for k, x := range rm {
		out[k] = x
	}
	for k, x := range lm {
		y, shared := rm[k]
		if !shared {
			out[k] = x
			continue
		}
		lsub, rsub := fieldAt(lf, k), fieldAt(rf, k)
		if lsub == nil && rsub != nil {
			out[k] = y
			continue
		}
		out[k] = combine(lsub, rsub, x, y)
	}
	return out
}

// fieldAt returns the Field f declares for property k, or nil.
func fieldAt(f Field, k string) Field {
	switch t := f.(type) {
	case *ObjectSchema:
		sub, _ := t.Shape().Get(k)
		return sub
	case *OptionalSchema:
		return fieldAt(t.inner, k)
	case *NullableSchema:
		return fieldAt(t.inner, k)
	case *IntersectionSchema:
		l, r := fieldAt(t.left, k), fieldAt(t.right, k)
		switch {
		case l == nil:
			return r
		case r == nil:
			return l
		}
		return Intersection(l, r)
	}
	return nil
}

// AcceptsMissing is true only when both sides accept absence.
func (s *IntersectionSchema) AcceptsMissing() bool {
	return s.left.AcceptsMissing() && s.right.AcceptsMissing()
}

func (s *IntersectionSchema) JSONSchema() (*js.Schema, error) {
	l, err := s.left.JSONSchema()
	if err != nil {
		return nil, err
	}
	r, err := s.right.JSONSchema()
	if err != nil {
		return nil, err
	}
	return &js.Schema{AllOf: []*js.Schema{orEmpty(l), orEmpty(r)}}, nil
}

func (s *IntersectionSchema) Parse(ctx context.Context, v any) (any, error) {
	return s.ParseAny(ctx, v)
}

func (s *IntersectionSchema) TypeCheck(ctx context.Context, v any) error { return nil }

func (s *IntersectionSchema) RuleCheck(ctx context.Context, v any) error {
	_, err := s.ParseAny(ctx, v)
	return err
}

func (s *IntersectionSchema) Validate(ctx context.Context, v any) error { return s.RuleCheck(ctx, v) }

func (s *IntersectionSchema) ValidateValue(ctx context.Context, v any) error {
	return s.RuleCheck(ctx, v)
}

func appendErr(dst zod.Issues, err error) zod.Issues {
	if err == nil {
		return dst
	}
	if iss, ok := zod.AsIssues(err); ok {
		return zod.AppendIssues(dst, iss...)
	}
	return zod.AppendIssues(dst, zod.Issue{Path: "/", Code: zod.CodeParseError, Message: err.Error(), Cause: err, Offset: -1})
}

func orEmpty(s *js.Schema) *js.Schema {
	if s == nil {
		return &js.Schema{}
	}
	return s
}
