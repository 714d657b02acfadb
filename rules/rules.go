// Package rules provides reusable object-level checks for dsl object schemas.
//
// Rules read the parsed object by JSON Pointer and report Issues. Wrap a Rule
// with Check to attach it to a builder:
//
//	signup := dsl.Object().
//	    Field("password", dsl.String()).
//	    Field("confirm", dsl.String()).
//	    Check(rules.Check("confirm", rules.Equal("/password", "/confirm"))).
//	    MustBuild()
package rules

import (
	"context"
	"encoding/json"
	"fmt"
	"reflect"
	"strconv"
	"strings"

	zod "github.com/JorikSchellekens/zod"
	"github.com/JorikSchellekens/zod/dsl"
)

// Rule inspects a parsed object and returns the issues it finds.
type Rule func(ctx context.Context, v map[string]any) []zod.Issue

// Check adapts a Rule to dsl.Check so it can be passed to a builder's Check
// method as Check(rules.Check(...)). Issues are tagged with name.
func Check(name string, r Rule) (string, func(context.Context, map[string]any) error) {
	return name, func(ctx context.Context, v map[string]any) error {
		iss := r(ctx, v)
		if len(iss) == 0 {
			return nil
		}
		out := make(zod.Issues, len(iss))
		for i, it := range iss {
			if it.Rule == "" {
				it.Rule = name
			}
			out[i] = it
		}
		return out
	}
}

// AsCheck returns r as a dsl.Check value.
func AsCheck(name string, r Rule) dsl.Check {
	n, fn := Check(name, r)
	return dsl.Check{Name: n, Fn: fn}
}

// Op defines simple comparison operators for If(...).Then(...)
type Op int

const (
	Eq Op = iota
	Ne
	Lt
	Le
	Gt
	Ge
)

// Conditional composes conditional execution of rules.
type Conditional struct {
	path string
	op   Op
	want any
	all  []Conditional // composite AND
	any  []Conditional // composite OR
}

// If builds a conditional comparing the value at path (a JSON Pointer) with
// want. An absent value never satisfies the condition.
func If(path string, op Op, want any) Conditional {
	return Conditional{path: normalizePath(path), op: op, want: want}
}

// IfAll builds a conditional that requires all conditions to hold.
func IfAll(conds ...Conditional) Conditional { return Conditional{all: conds} }

// IfAny builds a conditional that requires any condition to hold.
func IfAny(conds ...Conditional) Conditional { return Conditional{any: conds} }

// And combines the receiver with additional conditions using logical AND.
func (c Conditional) And(others ...Conditional) Conditional {
	return IfAll(append([]Conditional{c}, others...)...)
}

// Or combines the receiver with additional conditions using logical OR.
func (c Conditional) Or(others ...Conditional) Conditional {
	return IfAny(append([]Conditional{c}, others...)...)
}

// Then runs rules only when the condition holds.
func (c Conditional) Then(rules ...Rule) Rule {
	all := And(rules...)
	return func(ctx context.Context, v map[string]any) []zod.Issue {
		if !c.eval(v) {
			return nil
		}
		return all(ctx, v)
	}
}

func (c Conditional) eval(v map[string]any) bool {
	if len(c.all) > 0 {
		for _, it := range c.all {
			if !it.eval(v) {
				return false
			}
		}
		return true
	}
	if len(c.any) > 0 {
		for _, it := range c.any {
			if it.eval(v) {
				return true
			}
		}
		return false
	}
	cur, ok := valueAt(v, c.path)
	if !ok {
		return false
	}
	return compare(cur, c.op, c.want)
}

// Present requires every path to hold a non-null value.
func Present(paths ...string) Rule {
	return func(ctx context.Context, v map[string]any) []zod.Issue {
		var out []zod.Issue
		for _, p := range paths {
			p = normalizePath(p)
			if cur, ok := valueAt(v, p); !ok || cur == nil {
				it := zod.At(p).Issue(zod.CodeRequired, "value is required")
				out = append(out, it)
				if zod.IsFailFast(ctx) {
					return out
				}
			}
		}
		return out
	}
}

// Equal requires the values at paths a and b to be equal. The issue is
// reported at b.
func Equal(a, b string) Rule {
	a, b = normalizePath(a), normalizePath(b)
	return func(ctx context.Context, v map[string]any) []zod.Issue {
		av, _ := valueAt(v, a)
		bv, _ := valueAt(v, b)
		if compare(bv, Eq, av) {
			return nil
		}
		return []zod.Issue{zod.At(b).Issue(zod.CodeCustom, "must equal "+a, "other", a)}
	}
}

// AtLeastOne ensures the array at collectionPath has at least one element.
func AtLeastOne(collectionPath string) Rule {
	p := normalizePath(collectionPath)
	return func(ctx context.Context, v map[string]any) []zod.Issue {
		val, ok := valueAt(v, p)
		if !ok {
			return nil
		}
		if arr, isArr := val.([]any); isArr && len(arr) == 0 {
			return []zod.Issue{zod.At(p).Issue(zod.CodeTooShort, "at least 1 item is required", "minItems", 1)}
		}
		return nil
	}
}

// UniqueBy ensures elements of the array at collectionPath have distinct
// values at keyPath (relative to each element).
func UniqueBy(collectionPath, keyPath string) Rule {
	cp := normalizePath(collectionPath)
	kp := strings.TrimPrefix(keyPath, "/")
	return func(ctx context.Context, v map[string]any) []zod.Issue {
		val, ok := valueAt(v, cp)
		if !ok {
			return nil
		}
		arr, ok := val.([]any)
		if !ok {
			return nil
		}
		seen := map[string]int{}
		var out []zod.Issue
		for i, elem := range arr {
			kv, ok := valueWithin(elem, kp)
			if !ok {
				continue
			}
			key := fmt.Sprint(kv)
			if j, dup := seen[key]; dup {
				out = append(out, zod.At(cp).Index(i).Field(kp).Issue(
					zod.CodeCustom,
					"duplicate value",
					"first", j, "dup", i, "key", key,
				))
				continue
			}
			seen[key] = i
		}
		return out
	}
}

// And executes all rules and concatenates their issues, stopping early in
// fail-fast mode.
func And(rules ...Rule) Rule {
	return func(ctx context.Context, v map[string]any) []zod.Issue {
		var out []zod.Issue
		for _, r := range rules {
			if r == nil {
				continue
			}
			if iss := r(ctx, v); len(iss) > 0 {
				out = append(out, iss...)
				if zod.IsFailFast(ctx) {
					return out
				}
			}
		}
		return out
	}
}

// Or succeeds if any rule returns no issues. When all fail it returns the
// branch with the fewest issues.
func Or(rules ...Rule) Rule {
	return func(ctx context.Context, v map[string]any) []zod.Issue {
		var best []zod.Issue
		bestSet := false
		for _, r := range rules {
			if r == nil {
				continue
			}
			iss := r(ctx, v)
			if len(iss) == 0 {
				return nil
			}
			if !bestSet || len(iss) < len(best) {
				best = iss
				bestSet = true
			}
		}
		return best
	}
}

// ------- helpers -------

func normalizePath(p string) string {
	if p == "" || p == "/" {
		return "/"
	}
	if p[0] != '/' {
		return "/" + p
	}
	return p
}

var pointerUnescaper = strings.NewReplacer("~1", "/", "~0", "~")

func valueAt(v map[string]any, pointer string) (any, bool) {
	return valueWithin(v, strings.TrimPrefix(pointer, "/"))
}

func valueWithin(v any, rel string) (any, bool) {
	if rel == "" {
		return v, true
	}
	cur := v
	for _, seg := range strings.Split(rel, "/") {
		seg = pointerUnescaper.Replace(seg)
		switch c := cur.(type) {
		case map[string]any:
			next, ok := c[seg]
			if !ok {
				return nil, false
			}
			cur = next
		case []any:
			idx, err := strconv.Atoi(seg)
			if err != nil || idx < 0 || idx >= len(c) {
				return nil, false
			}
			cur = c[idx]
		default:
			return nil, false
		}
	}
	return cur, true
}

func compare(cur any, op Op, want any) bool {
	if a, ok := number(cur); ok {
		if b, ok := number(want); ok {
			return compareFloat(a, op, b)
		}
	}
	switch op {
	case Eq:
		return reflect.DeepEqual(cur, want)
	case Ne:
		return !reflect.DeepEqual(cur, want)
	default:
		return false
	}
}

func compareFloat(a float64, op Op, b float64) bool {
	switch op {
	case Eq:
		return a == b
	case Ne:
		return a != b
	case Lt:
		return a < b
	case Le:
		return a <= b
	case Gt:
		return a > b
	case Ge:
		return a >= b
	}
	return false
}

func number(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case int32:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	}
	return 0, false
}
