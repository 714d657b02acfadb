// Package middleware validates HTTP request bodies against a schema before
// they reach a handler.
package middleware

import (
	"context"
	"net/http"

	gojson "github.com/goccy/go-json"

	zod "github.com/JorikSchellekens/zod"
)

// ctxKeyValue is a typed context key for storing a parsed T.
// Using a generic struct type ensures uniqueness per T.
type ctxKeyValue[T any] struct{}

// ContextWithValue attaches a parsed value to the context.
func ContextWithValue[T any](ctx context.Context, v T) context.Context {
	return context.WithValue(ctx, ctxKeyValue[T]{}, v)
}

// ValueFromContext retrieves the value stored by ContextWithValue or Validate.
func ValueFromContext[T any](ctx context.Context) (T, bool) {
	v, ok := ctx.Value(ctxKeyValue[T]{}).(T)
	return v, ok
}

// DefaultParseOpt returns a recommended default for HTTP JSON boundaries.
// - Duplicate keys are errors
// - Bodies are capped at 1 MiB
func DefaultParseOpt() zod.ParseOpt {
	return zod.ParseOpt{
		OnDuplicateKey: zod.Error,
		MaxBytes:       1 << 20,
	}
}

// issuePayload is the JSON form of one Issue.
type issuePayload struct {
	Path    string         `json:"path"`
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Params  map[string]any `json:"params,omitempty"`
	Rule    string         `json:"rule,omitempty"`
}

// ErrorPayload shapes Issues for JSON responses.
func ErrorPayload(issues []zod.Issue) map[string]any {
	out := make([]issuePayload, len(issues))
	for i, it := range issues {
		out[i] = issuePayload{Path: it.Path, Code: it.Code, Message: it.Message, Params: it.Params, Rule: it.Rule}
	}
	return map[string]any{"issues": out}
}

// Validate parses the request body with s. Valid bodies are stored in the
// request context (see ValueFromContext) and next is called; invalid bodies
// are answered with 422 and an ErrorPayload. Oversized bodies get 413.
func Validate[T any](s zod.Schema[T], opt zod.ParseOpt, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		v, err := zod.StreamParse[T](r.Context(), s, r.Body, opt)
		if err != nil {
			iss, ok := zod.AsIssues(err)
			if !ok {
				iss = zod.Issues{{Path: "/", Code: zod.CodeParseError, Message: err.Error(), Offset: -1}}
			}
			status := http.StatusUnprocessableEntity
			if len(iss) > 0 && iss[0].Code == zod.CodeTruncated {
				status = http.StatusRequestEntityTooLarge
			}
			WriteIssues(w, status, iss)
			return
		}
		next.ServeHTTP(w, r.WithContext(ContextWithValue(r.Context(), v)))
	})
}

// WriteIssues writes issues as a JSON ErrorPayload with the given status.
func WriteIssues(w http.ResponseWriter, status int, issues []zod.Issue) {
	b, err := gojson.Marshal(ErrorPayload(issues))
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(b)
}
