package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	gojson "github.com/goccy/go-json"

	"github.com/JorikSchellekens/zod/dsl"
	"github.com/JorikSchellekens/zod/middleware"
)

func newHandler() http.Handler {
	person := dsl.Object().
		Field("name", dsl.String().NonEmpty()).
		MustBuild()
	contact := dsl.Object().
		Field("email", dsl.String().Email()).Optional().
		NonStrict().
		MustBuild()
	profile := person.Merge(contact)

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		v, ok := middleware.ValueFromContext[map[string]any](r.Context())
		if !ok {
			http.Error(w, "missing value", http.StatusInternalServerError)
			return
		}
		_, _ = w.Write([]byte(v["name"].(string)))
	})
	return middleware.Validate[map[string]any](profile, middleware.DefaultParseOpt(), next)
}

func TestValidate_PassesParsedValue(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"Ada","extra":true}`))
	newHandler().ServeHTTP(rec, req)
	if rec.Code != http.StatusOK || rec.Body.String() != "Ada" {
		t.Fatalf("got %d %q", rec.Code, rec.Body.String())
	}
}

func TestValidate_RejectsWithIssues(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"","email":"x"}`))
	newHandler().ServeHTTP(rec, req)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("want 422, got %d", rec.Code)
	}
	var body struct {
		Issues []struct {
			Path string `json:"path"`
			Code string `json:"code"`
		} `json:"issues"`
	}
	if err := gojson.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(body.Issues) != 2 || body.Issues[0].Path != "/name" || body.Issues[1].Path != "/email" {
		t.Fatalf("unexpected issues: %+v", body.Issues)
	}
}

func TestValidate_DuplicateKeyAndSize(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"a","name":"b"}`))
	newHandler().ServeHTTP(rec, req)
	if rec.Code != http.StatusUnprocessableEntity || !strings.Contains(rec.Body.String(), "duplicate_key") {
		t.Fatalf("want duplicate_key 422, got %d %s", rec.Code, rec.Body.String())
	}

	rec = httptest.NewRecorder()
	big := `{"name":"` + strings.Repeat("x", 2<<20) + `"}`
	req = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(big))
	newHandler().ServeHTTP(rec, req)
	if rec.Code != http.StatusRequestEntityTooLarge {
		t.Fatalf("want 413, got %d", rec.Code)
	}
}
