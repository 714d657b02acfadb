package dsl

import (
	"context"
	"strconv"

	zod "github.com/JorikSchellekens/zod"
	"github.com/JorikSchellekens/zod/i18n"
	js "github.com/JorikSchellekens/zod/jsonschema"
)

// ArraySchema validates JSON arrays whose elements all satisfy one Field.
type ArraySchema struct {
	elem   Field
	minLen int
	maxLen int
}

var (
	_ zod.Schema[[]any] = (*ArraySchema)(nil)
	_ Field             = (*ArraySchema)(nil)
)

// Array returns a schema accepting arrays of elem.
func Array(elem Field) *ArraySchema { return &ArraySchema{elem: elem, minLen: -1, maxLen: -1} }

// Elem returns the element Field.
func (a *ArraySchema) Elem() Field { return a.elem }

// Min requires at least n elements.
func (a *ArraySchema) Min(n int) *ArraySchema {
	c := *a
	c.minLen = n
	return &c
}

// Max allows at most n elements.
func (a *ArraySchema) Max(n int) *ArraySchema {
	c := *a
	c.maxLen = n
	return &c
}

// NonEmpty is Min(1).
func (a *ArraySchema) NonEmpty() *ArraySchema { return a.Min(1) }

func (a *ArraySchema) Parse(ctx context.Context, v any) ([]any, error) {
	src, ok := v.([]any)
	if !ok {
		return nil, invalidType("array")
	}
	iss := a.lengthIssues(len(src))
	if len(iss) > 0 && zod.IsFailFast(ctx) {
		return nil, iss
	}
	out := make([]any, len(src))
	for i, ev := range src {
		pv, err := a.elem.ParseAny(ctx, ev)
		if err != nil {
			iss = zod.AppendIssues(iss, zod.RebaseIssues(zod.Root().Index(i).Pointer(), err)...)
			if zod.IsFailFast(ctx) {
				return nil, iss
			}
			continue
		}
		out[i] = pv
	}
	if len(iss) > 0 {
		return nil, iss
	}
	return out, nil
}

func (a *ArraySchema) lengthIssues(n int) zod.Issues {
	var iss zod.Issues
	if a.minLen >= 0 && n < a.minLen {
		it := issue(zod.CodeTooShort, map[string]any{"minItems": a.minLen, "got": n}, nil)
		it.Message = i18n.T("too_few_items", map[string]string{"min": strconv.Itoa(a.minLen)})
		iss = zod.AppendIssues(iss, it)
	}
	if a.maxLen >= 0 && n > a.maxLen {
		it := issue(zod.CodeTooLong, map[string]any{"maxItems": a.maxLen, "got": n}, nil)
		it.Message = i18n.T("too_many_items", map[string]string{"max": strconv.Itoa(a.maxLen)})
		iss = zod.AppendIssues(iss, it)
	}
	return iss
}

func (a *ArraySchema) TypeCheck(ctx context.Context, v any) error {
	if _, ok := v.([]any); !ok {
		return invalidType("array")
	}
	return nil
}

func (a *ArraySchema) RuleCheck(ctx context.Context, v any) error {
	arr, ok := v.([]any)
	if !ok {
		return nil
	}
	return a.ValidateValue(ctx, arr)
}

func (a *ArraySchema) Validate(ctx context.Context, v any) error {
	if err := a.TypeCheck(ctx, v); err != nil {
		return err
	}
	return a.RuleCheck(ctx, v)
}

func (a *ArraySchema) ValidateValue(ctx context.Context, v []any) error {
	_, err := a.Parse(ctx, v)
	return err
}

func (a *ArraySchema) JSONSchema() (*js.Schema, error) {
	items, err := a.elem.JSONSchema()
	if err != nil {
		return nil, err
	}
	s := &js.Schema{Type: "array", Items: orEmpty(items)}
	if a.minLen >= 0 {
		s.MinItems = js.Int(a.minLen)
	}
	if a.maxLen >= 0 {
		s.MaxItems = js.Int(a.maxLen)
	}
	return s, nil
}

func (a *ArraySchema) ParseAny(ctx context.Context, v any) (any, error) { return a.Parse(ctx, v) }

// AcceptsMissing is false: wrap with Optional to allow absence.
func (a *ArraySchema) AcceptsMissing() bool { return false }
