package dsl

import (
	"context"
	"strconv"

	zod "github.com/JorikSchellekens/zod"
	"github.com/JorikSchellekens/zod/i18n"
	js "github.com/JorikSchellekens/zod/jsonschema"
)

// Field is a validator usable as an object property.
//
// Implementations are immutable and compared by identity: merging two
// object schemas keeps the very same Field value for keys that only one side
// declares.
type Field interface {
	// ParseAny validates v and returns the parsed value, or Issues.
	ParseAny(ctx context.Context, v any) (any, error)
	// AcceptsMissing reports whether the property may be absent. It decides
	// whether the property is optional or required in parsed output.
	AcceptsMissing() bool
	// JSONSchema describes the accepted values.
	JSONSchema() (*js.Schema, error)
}

// SchemaOf adapts a typed zod.Schema into a Field.
func SchemaOf[T any](s zod.Schema[T]) Field { return &schemaField[T]{s: s} }

type schemaField[T any] struct{ s zod.Schema[T] }

func (f *schemaField[T]) ParseAny(ctx context.Context, v any) (any, error) {
	out, err := f.s.Parse(ctx, v)
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (f *schemaField[T]) AcceptsMissing() bool { return false }

func (f *schemaField[T]) JSONSchema() (*js.Schema, error) { return f.s.JSONSchema() }

// Unwrap returns the adapted schema.
func (f *schemaField[T]) Unwrap() zod.Schema[T] { return f.s }

// ---- issue helpers ----

func issue(code string, params map[string]any, data map[string]string) zod.Issue {
	return zod.Issue{Path: "/", Code: code, Message: i18n.T(code, data), Params: params, Offset: -1}
}

func invalidType(expected string) zod.Issues {
	it := issue(zod.CodeInvalidType, map[string]any{"expected": expected}, nil)
	it.Hint = "expected " + expected
	return zod.Issues{it}
}

func fmtFloat(f float64) string { return strconv.FormatFloat(f, 'g', -1, 64) }

// checkIssues runs a value through rules, honoring fail-fast.
func checkIssues[T any](ctx context.Context, v T, rules []rule[T]) zod.Issues {
	var iss zod.Issues
	for _, r := range rules {
		if it, bad := r.check(v); bad {
			it.Rule = r.name
			iss = zod.AppendIssues(iss, it)
			if zod.IsFailFast(ctx) {
				return iss
			}
		}
	}
	return iss
}

// rule is a single refinement on a primitive value. check returns the issue
// and true when v is rejected.
type rule[T any] struct {
	name  string
	check func(v T) (zod.Issue, bool)
	json  func(s *js.Schema)
}

// withRule returns a copy of rules with r appended.
func withRule[T any](rules []rule[T], r rule[T]) []rule[T] {
	out := make([]rule[T], 0, len(rules)+1)
	out = append(out, rules...)
	return append(out, r)
}
