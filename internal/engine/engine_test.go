package engine_test

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	eng "github.com/JorikSchellekens/zod/internal/engine"
	"github.com/JorikSchellekens/zod/source/gojson"
)

func TestDecodeAny(t *testing.T) {
	v, err := eng.DecodeAny(gojson.NewBytes([]byte(`{"a":[1,"x",true,null],"b":{"c":2.5}}`)), nil)
	if err != nil {
		t.Fatalf("DecodeAny: %v", err)
	}
	want := map[string]any{
		"a": []any{json.Number("1"), "x", true, nil},
		"b": map[string]any{"c": json.Number("2.5")},
	}
	if diff := cmp.Diff(want, v); diff != "" {
		t.Fatalf("value (-want +got):\n%s", diff)
	}

	v, err = eng.DecodeAny(gojson.NewBytes([]byte(`[1, 2.5]`)), eng.AsFloat64)
	if err != nil {
		t.Fatalf("DecodeAny: %v", err)
	}
	if diff := cmp.Diff([]any{float64(1), 2.5}, v); diff != "" {
		t.Fatalf("value (-want +got):\n%s", diff)
	}
}

func TestEnforce_Duplicates(t *testing.T) {
	in := []byte(`{"a":{"b":1,"b":2},"c":[{"d":1,"d":2}]}`)

	var fatalWarned []string
	_, err := eng.DecodeAny(eng.WrapWithEnforcement(gojson.NewBytes(in), eng.EnforceOptions{
		OnDuplicate: eng.DupError,
		OnWarning:   func(si eng.SimpleIssue) { fatalWarned = append(fatalWarned, si.Path) },
	}), nil)
	if len(fatalWarned) != 0 {
		t.Fatalf("fatal duplicates must not reach OnWarning: %v", fatalWarned)
	}
	var ie eng.IssueError
	if !errors.As(err, &ie) || ie.Code != "duplicate_key" || ie.Path != "/a/b" {
		t.Fatalf("want duplicate_key at /a/b, got %v", err)
	}

	var warned []string
	src := eng.WrapWithEnforcement(gojson.NewBytes(in), eng.EnforceOptions{
		OnDuplicate: eng.DupWarn,
		OnWarning:   func(si eng.SimpleIssue) { warned = append(warned, si.Path) },
	})
	v, err := eng.DecodeAny(src, nil)
	if err != nil {
		t.Fatalf("warn should not fail: %v", err)
	}
	if diff := cmp.Diff([]string{"/a/b", "/c/0/d"}, warned); diff != "" {
		t.Fatalf("warned paths (-want +got):\n%s", diff)
	}
	if got := v.(map[string]any)["a"].(map[string]any)["b"]; got != json.Number("2") {
		t.Fatalf("last value should win, got %v", got)
	}
}

func TestEnforce_MaxDepth(t *testing.T) {
	src := eng.WrapWithEnforcement(gojson.NewBytes([]byte(`{"a":[{"b":{}}]}`)), eng.EnforceOptions{MaxDepth: 3})
	err := eng.Drain(src)
	var ie eng.IssueError
	if !errors.As(err, &ie) || ie.Path != "/a/0/b" {
		t.Fatalf("want depth issue at /a/0/b, got %v", err)
	}
}

func TestCollectDuplicates(t *testing.T) {
	in := []byte(`{"a":1,"a":2,"a":3,"b":{"x":1,"x":2}}`)
	cases := []struct {
		max  int
		want []string
	}{
		{-1, []string{"/a", "/a", "/b/x"}},
		{2, []string{"/a", "/a"}},
		{0, nil},
	}
	for _, tc := range cases {
		got, err := eng.CollectDuplicates(gojson.NewBytes(in), tc.max)
		if err != nil {
			t.Fatalf("max=%d: %v", tc.max, err)
		}
		var paths []string
		for _, si := range got {
			paths = append(paths, si.Path)
		}
		if diff := cmp.Diff(tc.want, paths); diff != "" {
			t.Fatalf("max=%d (-want +got):\n%s", tc.max, diff)
		}
	}
}

func TestJoinPointer(t *testing.T) {
	if got := eng.JoinPointer("/a", "b/c~d"); got != "/a/b~1c~0d" {
		t.Fatalf("JoinPointer = %q", got)
	}
}
