package zod_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	zod "github.com/JorikSchellekens/zod"
	"github.com/JorikSchellekens/zod/dsl"
)

// TestErrorModel_CollectVsFailFast_And_AsIssues compares Collect versus
// Fail-Fast behavior and exercises both AsIssues and errors.As helpers.
func TestErrorModel_CollectVsFailFast_And_AsIssues(t *testing.T) {
	ctx := context.Background()
	user := dsl.Object().
		Field("id", dsl.String()).
		Field("email", dsl.String()).
		MustBuild()

	data := []byte(`{"email": 1, "zzz": true}`)

	_, err := zod.ParseFrom[map[string]any](ctx, user, zod.JSONBytes(data))
	var iss zod.Issues
	if !errors.As(err, &iss) {
		t.Fatalf("expected errors.As to extract Issues, got: %v", err)
	}
	if len(iss) != 3 {
		t.Fatalf("expected 3 issues, got: %v", iss)
	}

	_, err = zod.ParseFrom[map[string]any](ctx, user, zod.JSONBytes(data), zod.ParseOpt{FailFast: true})
	iss2, ok := zod.AsIssues(err)
	if !ok || len(iss2) != 1 {
		t.Fatalf("expected exactly one fail-fast issue, got: %v", err)
	}
	if iss2[0].Path != "/id" || iss2[0].Code != zod.CodeRequired {
		t.Fatalf("fail-fast should stop at the first declared field, got %+v", iss2[0])
	}
}

// TestErrorModel_DeterministicOrder checks that required issues follow shape
// order and unknown-key issues follow sorted key order.
func TestErrorModel_DeterministicOrder(t *testing.T) {
	ctx := context.Background()
	obj := dsl.Object().
		Field("c", dsl.String()).
		Field("a", dsl.String()).
		Field("b", dsl.String()).
		MustBuild()

	data := []byte(`{"zzz":1,"yyy":2}`)
	for range 5 {
		_, err := zod.ParseFrom[map[string]any](ctx, obj, zod.JSONBytes(data))
		iss, _ := zod.AsIssues(err)
		var got []string
		for _, it := range iss {
			got = append(got, it.Code+" "+it.Path)
		}
		want := []string{
			"required /c",
			"required /a",
			"required /b",
			"unknown_key /yyy",
			"unknown_key /zzz",
		}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Fatalf("issue order (-want +got):\n%s", diff)
		}
	}
}

func TestRebaseIssues(t *testing.T) {
	child := zod.Issues{
		{Path: "/", Code: zod.CodeTooSmall},
		{Path: "/x", Code: zod.CodeRequired},
		{Path: "y", Code: zod.CodeRequired},
	}
	got := zod.RebaseIssues("/user", child)
	var paths []string
	for _, it := range got {
		paths = append(paths, it.Path)
	}
	if diff := cmp.Diff([]string{"/user", "/user/x", "/user/y"}, paths); diff != "" {
		t.Fatalf("paths (-want +got):\n%s", diff)
	}

	plain := zod.RebaseIssues("/user", errors.New("boom"))
	if len(plain) != 1 || plain[0].Code != zod.CodeParseError || plain[0].Path != "/user" {
		t.Fatalf("plain error not wrapped: %+v", plain)
	}
	if zod.RebaseIssues("/user", nil) != nil {
		t.Fatalf("nil error should rebase to nil")
	}
}

func TestPathRef(t *testing.T) {
	p := zod.Root().Field("a/b").Index(2).Field("c~d")
	if got, want := p.Pointer(), "/a~1b/2/c~0d"; got != want {
		t.Fatalf("got %q want %q", got, want)
	}
	if zod.Root().Pointer() != "/" || zod.At("").Pointer() != "/" {
		t.Fatalf("root pointer should be /")
	}
	it := zod.At("/items/0").Field("id").Issue(zod.CodeCustom, "bad", "key", "k1")
	if it.Path != "/items/0/id" || it.Params["key"] != "k1" || it.Offset != -1 {
		t.Fatalf("unexpected issue: %+v", it)
	}
}
