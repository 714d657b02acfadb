package zod_test

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	zod "github.com/JorikSchellekens/zod"
	"github.com/JorikSchellekens/zod/dsl"
	js "github.com/JorikSchellekens/zod/jsonschema"
)

// anySchema accepts any input and returns it unchanged.
type anySchema struct{}

func (anySchema) Parse(ctx context.Context, v any) (any, error)  { return v, nil }
func (anySchema) TypeCheck(ctx context.Context, v any) error     { return nil }
func (anySchema) RuleCheck(ctx context.Context, v any) error     { return nil }
func (anySchema) Validate(ctx context.Context, v any) error      { return nil }
func (anySchema) ValidateValue(ctx context.Context, v any) error { return nil }
func (anySchema) JSONSchema() (*js.Schema, error)                { return &js.Schema{}, nil }

func TestStreamParse_DuplicateKey_Error(t *testing.T) {
	jsb := []byte(`{"a":1,"a":2}`)
	opt := zod.ParseOpt{OnDuplicateKey: zod.Error}
	_, err := zod.StreamParse[any](context.Background(), anySchema{}, bytes.NewReader(jsb), opt)
	iss, ok := zod.AsIssues(err)
	if !ok || len(iss) == 0 {
		t.Fatalf("expected Issues error, got: %v", err)
	}
	if iss[0].Code != zod.CodeDuplicateKey || iss[0].Path != "/a" {
		t.Fatalf("expected duplicate_key at /a, got: %+v", iss[0])
	}
}

func TestStreamParse_DuplicateKey_NestedPath(t *testing.T) {
	jsb := []byte(`[{"a":1,"a":2}]`)
	opt := zod.ParseOpt{OnDuplicateKey: zod.Error}
	_, err := zod.StreamParse[any](context.Background(), anySchema{}, bytes.NewReader(jsb), opt)
	iss, ok := zod.AsIssues(err)
	if !ok || len(iss) == 0 {
		t.Fatalf("expected Issues, got: %v", err)
	}
	if iss[0].Path != "/0/a" {
		t.Fatalf("expected path=/0/a, got: %s", iss[0].Path)
	}
}

func TestStreamParse_DuplicateKey_IgnoreKeepsLast(t *testing.T) {
	v, err := zod.StreamParse[any](context.Background(), anySchema{}, strings.NewReader(`{"a":1,"a":2}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := v.(map[string]any)["a"]; got != json.Number("2") {
		t.Fatalf("want last value 2, got %#v", got)
	}
}

func TestParseFrom_DuplicateKey_WarnReportsAndContinues(t *testing.T) {
	var warnings []zod.Issue
	opt := zod.ParseOpt{
		OnDuplicateKey: zod.Warn,
		OnWarning:      func(it zod.Issue) { warnings = append(warnings, it) },
	}
	v, err := zod.ParseFrom[any](context.Background(), anySchema{}, zod.JSONBytes([]byte(`{"a":1,"a":2,"b":[{"c":1,"c":2}]}`)), opt)
	if err != nil {
		t.Fatalf("warn should not fail: %v", err)
	}
	if got := v.(map[string]any)["a"]; got != json.Number("2") {
		t.Fatalf("want last value 2, got %#v", got)
	}
	var paths []string
	for _, it := range warnings {
		if it.Code != zod.CodeDuplicateKey {
			t.Fatalf("unexpected warning code %s", it.Code)
		}
		paths = append(paths, it.Path)
	}
	if strings.Join(paths, ",") != "/a,/b/0/c" {
		t.Fatalf("warning paths = %v", paths)
	}

	warnings = nil
	opt.OnDuplicateKey = zod.Error
	if _, err := zod.ParseFrom[any](context.Background(), anySchema{}, zod.JSONBytes([]byte(`{"a":1,"a":2}`)), opt); err == nil {
		t.Fatalf("error policy should fail")
	}
	if len(warnings) != 0 {
		t.Fatalf("fatal duplicates are not warnings: %v", warnings)
	}
}

func TestStreamParse_MaxDepth_Exceeded(t *testing.T) {
	// depth = 3 for { a: { b: { c: 1 } } }
	jsb := []byte(`{"a":{"b":{"c":1}}}`)
	opt := zod.ParseOpt{MaxDepth: 2}
	_, err := zod.StreamParse[any](context.Background(), anySchema{}, bytes.NewReader(jsb), opt)
	iss, ok := zod.AsIssues(err)
	if !ok || len(iss) == 0 || iss[0].Path != "/a/b" {
		t.Fatalf("expected path=/a/b for max depth, got: %v", err)
	}
}

func TestStreamParse_MaxBytes_Exceeded(t *testing.T) {
	data := append([]byte("{}"), bytes.Repeat([]byte("x"), 1024)...)
	opt := zod.ParseOpt{MaxBytes: 2}
	_, err := zod.StreamParse[any](context.Background(), anySchema{}, bytes.NewReader(data), opt)
	iss, ok := zod.AsIssues(err)
	if !ok || len(iss) == 0 || iss[0].Code != zod.CodeTruncated {
		t.Fatalf("expected truncated issue, got: %v", err)
	}
	if iss[0].Path != "/" {
		t.Fatalf("expected truncated at root, got: %s", iss[0].Path)
	}
}

func TestStreamParse_ObjectSchema(t *testing.T) {
	item := dsl.Object().
		Field("id", dsl.String()).
		Field("qty", dsl.Number().Int().Positive()).
		MustBuild()
	v, err := zod.StreamParse[map[string]any](context.Background(), item, strings.NewReader(`{"id":"a","qty":3}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v["qty"] != float64(3) {
		t.Fatalf("qty should parse to float64, got %#v", v["qty"])
	}
	_, err = zod.StreamParse[map[string]any](context.Background(), item, strings.NewReader(`{"id":1,"qty":0}`))
	iss, _ := zod.AsIssues(err)
	if len(iss) != 2 || iss[0].Path != "/id" || iss[1].Path != "/qty" {
		t.Fatalf("want issues at /id and /qty, got %v", err)
	}
}

func TestParseFrom_MalformedJSON(t *testing.T) {
	_, err := zod.ParseFrom[any](context.Background(), anySchema{}, zod.JSONBytes([]byte(`{"a":`)))
	iss, ok := zod.AsIssues(err)
	if !ok || len(iss) == 0 || iss[0].Code != zod.CodeParseError {
		t.Fatalf("expected parse_error, got: %v", err)
	}
}

func TestParseFrom_NumberMode(t *testing.T) {
	ctx := context.Background()
	v, err := zod.ParseFrom[any](ctx, anySchema{}, zod.JSONBytes([]byte(`{"n":1.5}`)))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := v.(map[string]any)["n"].(json.Number); !ok {
		t.Fatalf("default mode should keep json.Number, got %T", v.(map[string]any)["n"])
	}
	src := zod.WithNumberMode(zod.JSONBytes([]byte(`{"n":1.5}`)), zod.NumberFloat64)
	v, err = zod.ParseFrom[any](ctx, anySchema{}, src)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v.(map[string]any)["n"] != 1.5 {
		t.Fatalf("float mode should yield float64, got %#v", v.(map[string]any)["n"])
	}
}

func TestParseFrom_YAML(t *testing.T) {
	person := dsl.Object().
		Field("name", dsl.String().NonEmpty()).
		Field("age", dsl.Number().Int()).
		Field("tags", dsl.Optional(dsl.SchemaOf[any](anySchema{}))).
		MustBuild()
	doc := "name: Ada\nage: 36\ntags: [a, b]\n"
	v, err := zod.ParseFrom[map[string]any](context.Background(), person, zod.YAMLBytes([]byte(doc)))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v["name"] != "Ada" || v["age"] != float64(36) {
		t.Fatalf("unexpected value: %#v", v)
	}
	if tags, ok := v["tags"].([]any); !ok || len(tags) != 2 {
		t.Fatalf("tags should decode as a list, got %#v", v["tags"])
	}
}

func TestParseFrom_YAMLDuplicateKey(t *testing.T) {
	doc := "a: 1\na: 2\n"
	_, err := zod.ParseFrom[any](context.Background(), anySchema{}, zod.YAMLBytes([]byte(doc)), zod.ParseOpt{OnDuplicateKey: zod.Error})
	iss, ok := zod.AsIssues(err)
	if !ok || len(iss) == 0 || iss[0].Code != zod.CodeDuplicateKey {
		t.Fatalf("expected duplicate_key, got: %v", err)
	}
}
