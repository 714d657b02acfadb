package dsl

import (
	"context"
	"sort"
	"sync"

	zod "github.com/JorikSchellekens/zod"
	"github.com/JorikSchellekens/zod/i18n"
	js "github.com/JorikSchellekens/zod/jsonschema"
)

// Check is an object-level rule run after structural validation succeeds.
// Returning Issues keeps their paths; any other error becomes a "custom"
// issue at the root.
type Check struct {
	Name string
	Fn   func(ctx context.Context, v map[string]any) error
}

// ObjectSchema validates objects against a Shape. It is immutable; every
// derived schema (Merge, Extend, Partial...) is a new value.
type ObjectSchema struct {
	shape  func() Shape
	strict bool
	checks []Check
}

var (
	_ zod.Schema[map[string]any] = (*ObjectSchema)(nil)
	_ Field                      = (*ObjectSchema)(nil)
)

// LazyObject returns a strict object schema whose shape is produced by fn on
// first use, which allows self-referencing schemas. fn runs at most once.
func LazyObject(fn func() Shape) *ObjectSchema {
	return &ObjectSchema{shape: sync.OnceValue(fn), strict: true}
}

func fixedShape(s Shape) func() Shape { return func() Shape { return s } }

// Shape returns the property map.
func (o *ObjectSchema) Shape() Shape { return o.shape() }

// IsStrict reports whether unknown keys are rejected.
func (o *ObjectSchema) IsStrict() bool { return o.strict }

// Checks returns the object-level checks in execution order. The slice is a
// copy.
func (o *ObjectSchema) Checks() []Check {
	out := make([]Check, len(o.checks))
	copy(out, o.checks)
	return out
}

// RequiredKeys lists, in shape order, the properties that must be present.
func (o *ObjectSchema) RequiredKeys() []string { return o.keysWhere(false) }

// OptionalKeys lists, in shape order, the properties that may be absent.
func (o *ObjectSchema) OptionalKeys() []string { return o.keysWhere(true) }

func (o *ObjectSchema) keysWhere(missingOK bool) []string {
	var out []string
	for k, f := range o.Shape().All() {
		if f.AcceptsMissing() == missingOK {
			out = append(out, k)
		}
	}
	return out
}

func (o *ObjectSchema) Parse(ctx context.Context, v any) (map[string]any, error) {
	src, ok := v.(map[string]any)
	if !ok {
		return nil, invalidType("object")
	}
	shape := o.Shape()
	out, iss := o.collectKnown(ctx, shape, src)
	if len(iss) > 0 && zod.IsFailFast(ctx) {
		return nil, iss
	}
	iss = zod.AppendIssues(iss, o.collectUnknown(shape, src, out)...)
	if len(iss) > 0 {
		return nil, iss
	}
	if err := o.runChecks(ctx, out); err != nil {
		return nil, err
	}
	return out, nil
}

// collectKnown parses declared properties in shape order. Absent properties
// are skipped when their Field accepts absence and reported as required
// otherwise.
func (o *ObjectSchema) collectKnown(ctx context.Context, shape Shape, src map[string]any) (map[string]any, zod.Issues) {
	out := make(map[string]any, len(src))
	var iss zod.Issues
	for k, f := range shape.All() {
		path := zod.Root().Field(k)
		val, present := src[k]
		if !present {
			if f.AcceptsMissing() {
				continue
			}
			it := zod.IssueAt(path, zod.CodeRequired, i18n.T(zod.CodeRequired, nil), nil)
			it.Hint = "required property missing"
			iss = zod.AppendIssues(iss, it)
			if zod.IsFailFast(ctx) {
				return out, iss
			}
			continue
		}
		parsed, err := f.ParseAny(ctx, val)
		if err != nil {
			iss = zod.AppendIssues(iss, zod.RebaseIssues(path.Pointer(), err)...)
			if zod.IsFailFast(ctx) {
				return out, iss
			}
			continue
		}
		out[k] = parsed
	}
	return out, iss
}

// collectUnknown rejects unknown keys (strict) or copies them into out.
func (o *ObjectSchema) collectUnknown(shape Shape, src, out map[string]any) zod.Issues {
	var unknown []string
	for k := range src {
		if !shape.Has(k) {
			unknown = append(unknown, k)
		}
	}
	if len(unknown) == 0 {
		return nil
	}
	sort.Strings(unknown)
	var iss zod.Issues
	for _, k := range unknown {
		if o.strict {
			iss = zod.AppendIssues(iss, zod.IssueAt(zod.Root().Field(k), zod.CodeUnknownKey, i18n.T(zod.CodeUnknownKey, nil), map[string]any{"key": k}))
			continue
		}
		out[k] = src[k]
	}
	return iss
}

func (o *ObjectSchema) runChecks(ctx context.Context, v map[string]any) error {
	var iss zod.Issues
	for _, c := range o.checks {
		if c.Fn == nil {
			continue
		}
		err := c.Fn(ctx, v)
		if err == nil {
			continue
		}
		if i2, ok := zod.AsIssues(err); ok {
			iss = zod.AppendIssues(iss, i2...)
		} else {
			iss = zod.AppendIssues(iss, zod.Issue{Path: "/", Code: zod.CodeCustom, Message: err.Error(), Cause: err, Rule: c.Name, Offset: -1})
		}
		if zod.IsFailFast(ctx) {
			return iss
		}
	}
	if len(iss) > 0 {
		return iss
	}
	return nil
}

func (o *ObjectSchema) TypeCheck(ctx context.Context, v any) error {
	if _, ok := v.(map[string]any); !ok {
		return invalidType("object")
	}
	return nil
}

func (o *ObjectSchema) RuleCheck(ctx context.Context, v any) error {
	m, ok := v.(map[string]any)
	if !ok {
		return nil
	}
	return o.ValidateValue(ctx, m)
}

func (o *ObjectSchema) Validate(ctx context.Context, v any) error {
	if err := o.TypeCheck(ctx, v); err != nil {
		return err
	}
	return o.RuleCheck(ctx, v)
}

func (o *ObjectSchema) ValidateValue(ctx context.Context, v map[string]any) error {
	_, err := o.Parse(ctx, v)
	return err
}

func (o *ObjectSchema) JSONSchema() (*js.Schema, error) {
	shape := o.Shape()
	props := make(map[string]*js.Schema, shape.Len())
	for k, f := range shape.All() {
		ps, err := f.JSONSchema()
		if err != nil {
			return nil, err
		}
		props[k] = orEmpty(ps)
	}
	var additional any = true
	if o.strict {
		additional = false
	}
	return &js.Schema{
		Type:                 "object",
		Properties:           props,
		PropertyOrder:        shape.Keys(),
		Required:             o.RequiredKeys(),
		AdditionalProperties: additional,
	}, nil
}

func (o *ObjectSchema) ParseAny(ctx context.Context, v any) (any, error) { return o.Parse(ctx, v) }

// AcceptsMissing is false: wrap with Optional to allow absence.
func (o *ObjectSchema) AcceptsMissing() bool { return false }
