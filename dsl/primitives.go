package dsl

import (
	"context"
	"encoding/json"
	"math"
	"net/mail"
	"strconv"
	"time"
	"unicode/utf8"

	zod "github.com/JorikSchellekens/zod"
	js "github.com/JorikSchellekens/zod/jsonschema"
)

// ---- string ----

// StringSchema validates strings. Refinements return new schemas.
type StringSchema struct{ rules []rule[string] }

var (
	_ zod.Schema[string] = (*StringSchema)(nil)
	_ Field              = (*StringSchema)(nil)
)

// String returns a schema accepting any string.
func String() *StringSchema { return &StringSchema{} }

// Min requires at least n characters.
func (s *StringSchema) Min(n int) *StringSchema {
	return &StringSchema{rules: withRule(s.rules, rule[string]{
		name: "min",
		check: func(v string) (zod.Issue, bool) {
			got := utf8.RuneCountInString(v)
			return issue(zod.CodeTooShort, map[string]any{"min": n, "got": got}, map[string]string{"min": strconv.Itoa(n)}), got < n
		},
		json: func(sc *js.Schema) { sc.MinLength = js.Int(n) },
	})}
}

// Max allows at most n characters.
func (s *StringSchema) Max(n int) *StringSchema {
	return &StringSchema{rules: withRule(s.rules, rule[string]{
		name: "max",
		check: func(v string) (zod.Issue, bool) {
			got := utf8.RuneCountInString(v)
			return issue(zod.CodeTooLong, map[string]any{"max": n, "got": got}, map[string]string{"max": strconv.Itoa(n)}), got > n
		},
		json: func(sc *js.Schema) { sc.MaxLength = js.Int(n) },
	})}
}

// NonEmpty is Min(1).
func (s *StringSchema) NonEmpty() *StringSchema { return s.Min(1) }

// Email requires an RFC 5322 address without display name.
func (s *StringSchema) Email() *StringSchema {
	return &StringSchema{rules: withRule(s.rules, rule[string]{
		name: "email",
		check: func(v string) (zod.Issue, bool) {
			a, err := mail.ParseAddress(v)
			bad := err != nil || a.Address != v
			return issue(zod.CodeInvalidFormat, map[string]any{"format": "email"}, map[string]string{"format": "email"}), bad
		},
		json: func(sc *js.Schema) { sc.Format = "email" },
	})}
}

// DateTime requires an RFC 3339 timestamp. The parsed value stays a string.
func (s *StringSchema) DateTime() *StringSchema {
	return &StringSchema{rules: withRule(s.rules, rule[string]{
		name: "date-time",
		check: func(v string) (zod.Issue, bool) {
			_, err := time.Parse(time.RFC3339Nano, v)
			return issue(zod.CodeInvalidFormat, map[string]any{"format": "date-time"}, map[string]string{"format": "date-time"}), err != nil
		},
		json: func(sc *js.Schema) { sc.Format = "date-time" },
	})}
}

func (s *StringSchema) Parse(ctx context.Context, v any) (string, error) {
	str, ok := v.(string)
	if !ok {
		return "", invalidType("string")
	}
	if err := s.ValidateValue(ctx, str); err != nil {
		return "", err
	}
	return str, nil
}

func (s *StringSchema) TypeCheck(ctx context.Context, v any) error {
	if _, ok := v.(string); !ok {
		return invalidType("string")
	}
	return nil
}

func (s *StringSchema) RuleCheck(ctx context.Context, v any) error {
	str, ok := v.(string)
	if !ok {
		return nil
	}
	return s.ValidateValue(ctx, str)
}

func (s *StringSchema) Validate(ctx context.Context, v any) error {
	if err := s.TypeCheck(ctx, v); err != nil {
		return err
	}
	return s.RuleCheck(ctx, v)
}

func (s *StringSchema) ValidateValue(ctx context.Context, v string) error {
	if iss := checkIssues(ctx, v, s.rules); len(iss) > 0 {
		return iss
	}
	return nil
}

func (s *StringSchema) JSONSchema() (*js.Schema, error) {
	out := &js.Schema{Type: "string"}
	for _, r := range s.rules {
		r.json(out)
	}
	return out, nil
}

func (s *StringSchema) ParseAny(ctx context.Context, v any) (any, error) { return s.Parse(ctx, v) }
func (s *StringSchema) AcceptsMissing() bool                             { return false }

// ---- number ----

// NumberSchema validates numbers and parses them as float64. It accepts
// float64, json.Number and Go integer/float kinds.
type NumberSchema struct{ rules []rule[float64] }

var (
	_ zod.Schema[float64] = (*NumberSchema)(nil)
	_ Field               = (*NumberSchema)(nil)
)

// Number returns a schema accepting any finite number.
func Number() *NumberSchema { return &NumberSchema{} }

func (s *NumberSchema) with(r rule[float64]) *NumberSchema {
	return &NumberSchema{rules: withRule(s.rules, r)}
}

// Min requires v >= n.
func (s *NumberSchema) Min(n float64) *NumberSchema {
	return s.with(rule[float64]{
		name: "min",
		check: func(v float64) (zod.Issue, bool) {
			return issue(zod.CodeTooSmall, map[string]any{"min": n, "got": v}, map[string]string{"min": fmtFloat(n)}), v < n
		},
		json: func(sc *js.Schema) { sc.Minimum = js.Float(n) },
	})
}

// Max requires v <= n.
func (s *NumberSchema) Max(n float64) *NumberSchema {
	return s.with(rule[float64]{
		name: "max",
		check: func(v float64) (zod.Issue, bool) {
			return issue(zod.CodeTooBig, map[string]any{"max": n, "got": v}, map[string]string{"max": fmtFloat(n)}), v > n
		},
		json: func(sc *js.Schema) { sc.Maximum = js.Float(n) },
	})
}

// Positive requires v > 0.
func (s *NumberSchema) Positive() *NumberSchema {
	return s.with(rule[float64]{
		name: "positive",
		check: func(v float64) (zod.Issue, bool) {
			return issue(zod.CodeTooSmall, map[string]any{"exclusiveMin": 0, "got": v}, map[string]string{"min": "0"}), v <= 0
		},
		json: func(sc *js.Schema) { sc.ExclusiveMinimum = js.Float(0) },
	})
}

// Negative requires v < 0.
func (s *NumberSchema) Negative() *NumberSchema {
	return s.with(rule[float64]{
		name: "negative",
		check: func(v float64) (zod.Issue, bool) {
			return issue(zod.CodeTooBig, map[string]any{"exclusiveMax": 0, "got": v}, map[string]string{"max": "0"}), v >= 0
		},
		json: func(sc *js.Schema) { sc.ExclusiveMaximum = js.Float(0) },
	})
}

// Nonnegative is Min(0).
func (s *NumberSchema) Nonnegative() *NumberSchema { return s.Min(0) }

// Int requires an integral value.
func (s *NumberSchema) Int() *NumberSchema {
	return s.with(rule[float64]{
		name: "int",
		check: func(v float64) (zod.Issue, bool) {
			return issue(zod.CodeNotInteger, map[string]any{"got": v}, nil), v != math.Trunc(v)
		},
		json: func(sc *js.Schema) { sc.Type = "integer" },
	})
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case json.Number:
		f, err := strconv.ParseFloat(string(n), 64)
		return f, err == nil
	}
	return 0, false
}

func (s *NumberSchema) Parse(ctx context.Context, v any) (float64, error) {
	f, ok := toFloat(v)
	if !ok || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, invalidType("number")
	}
	if err := s.ValidateValue(ctx, f); err != nil {
		return 0, err
	}
	return f, nil
}

func (s *NumberSchema) TypeCheck(ctx context.Context, v any) error {
	if f, ok := toFloat(v); !ok || math.IsNaN(f) || math.IsInf(f, 0) {
		return invalidType("number")
	}
	return nil
}

func (s *NumberSchema) RuleCheck(ctx context.Context, v any) error {
	f, ok := toFloat(v)
	if !ok {
		return nil
	}
	return s.ValidateValue(ctx, f)
}

func (s *NumberSchema) Validate(ctx context.Context, v any) error {
	if err := s.TypeCheck(ctx, v); err != nil {
		return err
	}
	return s.RuleCheck(ctx, v)
}

func (s *NumberSchema) ValidateValue(ctx context.Context, v float64) error {
	if iss := checkIssues(ctx, v, s.rules); len(iss) > 0 {
		return iss
	}
	return nil
}

func (s *NumberSchema) JSONSchema() (*js.Schema, error) {
	out := &js.Schema{Type: "number"}
	for _, r := range s.rules {
		r.json(out)
	}
	return out, nil
}

func (s *NumberSchema) ParseAny(ctx context.Context, v any) (any, error) { return s.Parse(ctx, v) }
func (s *NumberSchema) AcceptsMissing() bool                             { return false }

// ---- bool ----

// BoolSchema validates booleans.
type BoolSchema struct{}

var (
	_ zod.Schema[bool] = (*BoolSchema)(nil)
	_ Field            = (*BoolSchema)(nil)
)

// Bool returns a schema accepting true and false.
func Bool() *BoolSchema { return &BoolSchema{} }

func (s *BoolSchema) Parse(ctx context.Context, v any) (bool, error) {
	b, ok := v.(bool)
	if !ok {
		return false, invalidType("boolean")
	}
	return b, nil
}

func (s *BoolSchema) TypeCheck(ctx context.Context, v any) error {
	if _, ok := v.(bool); !ok {
		return invalidType("boolean")
	}
	return nil
}

func (s *BoolSchema) RuleCheck(ctx context.Context, v any) error       { return nil }
func (s *BoolSchema) Validate(ctx context.Context, v any) error        { return s.TypeCheck(ctx, v) }
func (s *BoolSchema) ValidateValue(ctx context.Context, v bool) error  { return nil }
func (s *BoolSchema) JSONSchema() (*js.Schema, error)                  { return &js.Schema{Type: "boolean"}, nil }
func (s *BoolSchema) ParseAny(ctx context.Context, v any) (any, error) { return s.Parse(ctx, v) }
func (s *BoolSchema) AcceptsMissing() bool                             { return false }
