package rules_test

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"

	zod "github.com/JorikSchellekens/zod"
	"github.com/JorikSchellekens/zod/dsl"
	"github.com/JorikSchellekens/zod/rules"
)

func paths(iss []zod.Issue) []string {
	var out []string
	for _, it := range iss {
		out = append(out, it.Path)
	}
	return out
}

func TestPresent(t *testing.T) {
	ctx := context.Background()
	r := rules.Present("/a", "b", "/c/d")
	iss := r(ctx, map[string]any{"a": 1, "b": nil, "c": map[string]any{}})
	if diff := cmp.Diff([]string{"/b", "/c/d"}, paths(iss)); diff != "" {
		t.Fatalf("paths (-want +got):\n%s", diff)
	}
	if iss[0].Code != zod.CodeRequired {
		t.Fatalf("want required, got %s", iss[0].Code)
	}

	iss = r(zod.WithFailFast(ctx, true), map[string]any{})
	if diff := cmp.Diff([]string{"/a"}, paths(iss)); diff != "" {
		t.Fatalf("fail-fast paths (-want +got):\n%s", diff)
	}
}

func TestEqual(t *testing.T) {
	ctx := context.Background()
	r := rules.Equal("/password", "/confirm")
	if iss := r(ctx, map[string]any{"password": "x", "confirm": "x"}); len(iss) != 0 {
		t.Fatalf("equal values should pass: %v", iss)
	}
	iss := r(ctx, map[string]any{"password": "x", "confirm": "y"})
	if len(iss) != 1 || iss[0].Path != "/confirm" || iss[0].Params["other"] != "/password" {
		t.Fatalf("want issue at /confirm, got %v", iss)
	}
	if iss := r(ctx, map[string]any{"password": 1, "confirm": 1.0}); len(iss) != 0 {
		t.Fatalf("numbers compare by value: %v", iss)
	}
}

func TestAtLeastOne(t *testing.T) {
	ctx := context.Background()
	r := rules.AtLeastOne("/items")
	if iss := r(ctx, map[string]any{}); len(iss) != 0 {
		t.Fatalf("absent collection is left to the field schema: %v", iss)
	}
	iss := r(ctx, map[string]any{"items": []any{}})
	if len(iss) != 1 || iss[0].Code != zod.CodeTooShort || iss[0].Path != "/items" {
		t.Fatalf("want too_short at /items, got %v", iss)
	}
}

func TestUniqueBy(t *testing.T) {
	r := rules.UniqueBy("/items", "/sku")
	v := map[string]any{"items": []any{
		map[string]any{"sku": "a"},
		map[string]any{"sku": "b"},
		map[string]any{"sku": "a"},
		map[string]any{},
		map[string]any{"sku": "b"},
	}}
	iss := r(context.Background(), v)
	if diff := cmp.Diff([]string{"/items/2/sku", "/items/4/sku"}, paths(iss)); diff != "" {
		t.Fatalf("paths (-want +got):\n%s", diff)
	}
	if iss[0].Params["first"] != 0 || iss[1].Params["first"] != 1 {
		t.Fatalf("first index mismatch: %v", iss)
	}
}

func TestConditional(t *testing.T) {
	ctx := context.Background()
	r := rules.If("/kind", rules.Eq, "company").Then(rules.Present("/vat"))

	if iss := r(ctx, map[string]any{"kind": "person"}); len(iss) != 0 {
		t.Fatalf("condition false should skip rules: %v", iss)
	}
	if iss := r(ctx, map[string]any{}); len(iss) != 0 {
		t.Fatalf("absent value never satisfies the condition: %v", iss)
	}
	if iss := r(ctx, map[string]any{"kind": "company"}); len(iss) != 1 {
		t.Fatalf("condition true should run rules: %v", iss)
	}

	cases := []struct {
		name string
		cond rules.Conditional
		want bool
	}{
		{"ge", rules.If("/n", rules.Ge, 3), true},
		{"lt", rules.If("/n", rules.Lt, 3), false},
		{"ne string", rules.If("/s", rules.Ne, "y"), true},
		{"and", rules.If("/n", rules.Gt, 1).And(rules.If("/s", rules.Eq, "x")), true},
		{"and fails", rules.If("/n", rules.Gt, 1).And(rules.If("/s", rules.Eq, "y")), false},
		{"or", rules.If("/n", rules.Gt, 10).Or(rules.If("/s", rules.Eq, "x")), true},
		{"any none", rules.IfAny(rules.If("/n", rules.Gt, 10), rules.If("/missing", rules.Eq, 1)), false},
	}
	v := map[string]any{"n": 3.0, "s": "x"}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ran := false
			probe := func(context.Context, map[string]any) []zod.Issue {
				ran = true
				return nil
			}
			tc.cond.Then(probe)(ctx, v)
			if ran != tc.want {
				t.Fatalf("condition = %v, want %v", ran, tc.want)
			}
		})
	}
}

func TestAndOr(t *testing.T) {
	ctx := context.Background()
	v := map[string]any{}
	both := rules.And(rules.Present("/a"), nil, rules.Present("/b"))
	if diff := cmp.Diff([]string{"/a", "/b"}, paths(both(ctx, v))); diff != "" {
		t.Fatalf("And paths (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"/a"}, paths(both(zod.WithFailFast(ctx, true), v))); diff != "" {
		t.Fatalf("And fail-fast paths (-want +got):\n%s", diff)
	}

	either := rules.Or(rules.Present("/a", "/b"), rules.Present("/c"))
	if diff := cmp.Diff([]string{"/c"}, paths(either(ctx, v))); diff != "" {
		t.Fatalf("Or should return the smallest failing branch (-want +got):\n%s", diff)
	}
	if iss := either(ctx, map[string]any{"c": 1}); len(iss) != 0 {
		t.Fatalf("Or should pass when any branch passes: %v", iss)
	}
}

func TestCheck_TagsIssuesWithName(t *testing.T) {
	signup := dsl.Object().
		Field("password", dsl.String()).
		Field("confirm", dsl.String()).
		Check(rules.Check("confirm", rules.Equal("/password", "/confirm"))).
		MustBuild()
	_, err := signup.Parse(context.Background(), map[string]any{"password": "a", "confirm": "b"})
	iss, ok := zod.AsIssues(err)
	if !ok || len(iss) != 1 || iss[0].Rule != "confirm" || iss[0].Path != "/confirm" {
		t.Fatalf("want issue tagged confirm at /confirm, got %v", err)
	}

	c := rules.AsCheck("nonempty", rules.AtLeastOne("/items"))
	if c.Name != "nonempty" {
		t.Fatalf("AsCheck name = %q", c.Name)
	}
	if err := c.Fn(context.Background(), map[string]any{"items": []any{1}}); err != nil {
		t.Fatalf("passing rule should return nil error, got %v", err)
	}
}
