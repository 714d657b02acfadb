package engine

import (
	"strconv"
	"strings"
)

// DuplicatePolicy controls duplicate key handling.
type DuplicatePolicy int

const (
	DupIgnore DuplicatePolicy = iota
	DupWarn
	DupError
)

// SimpleIssue is a minimal issue representation used by the engine.
type SimpleIssue struct {
	Code    string
	Path    string
	Message string
}

// IssueError is a lightweight error carrying a SimpleIssue.
type IssueError struct{ SimpleIssue }

func (e IssueError) Error() string { return e.SimpleIssue.Message }

// EnforceOptions controls runtime enforcement behavior.
type EnforceOptions struct {
	OnDuplicate DuplicatePolicy
	MaxDepth    int
	MaxBytes    int64
	// IssueSink optionally receives every issue, including non-fatal duplicate
	// warnings.
	IssueSink func(SimpleIssue)
	// OnWarning receives only the issues that do not stop decoding.
	OnWarning func(SimpleIssue)
	// FailFast turns duplicate warnings into errors.
	FailFast bool
}

type containerKind int

const (
	kindObject containerKind = iota
	kindArray
)

type frame struct {
	kind       containerKind
	keys       map[string]struct{}
	path       string
	nextIndex  int
	pendingKey string
	hasKey     bool
}

// WrapWithEnforcement returns a TokenSource that enforces the duplicate key
// policy, maximum nesting depth, and maximum consumed bytes.
func WrapWithEnforcement(inner TokenSource, opt EnforceOptions) TokenSource {
	return &enforcingTokenSource{inner: inner, opt: opt}
}

type enforcingTokenSource struct {
	inner TokenSource
	opt   EnforceOptions
	stack []frame
}

func (e *enforcingTokenSource) NextToken() (Token, error) {
	tok, err := e.inner.NextToken()
	if err != nil {
		return Token{}, err
	}

	switch tok.Kind {
	case KindBeginObject, KindBeginArray:
		path := e.valuePath()
		f := frame{kind: kindArray, path: path}
		if tok.Kind == KindBeginObject {
			f.kind = kindObject
			f.keys = make(map[string]struct{})
		}
		e.stack = append(e.stack, f)
		if e.opt.MaxDepth > 0 && len(e.stack) > e.opt.MaxDepth {
			return Token{}, e.fail(SimpleIssue{Code: "parse_error", Path: rootIfEmpty(path), Message: "max depth exceeded"})
		}
	case KindEndObject, KindEndArray:
		if n := len(e.stack); n > 0 {
			e.stack = e.stack[:n-1]
		}
		e.valueDone()
	case KindKey:
		if n := len(e.stack); n > 0 && e.stack[n-1].kind == kindObject {
			top := &e.stack[n-1]
			if _, dup := top.keys[tok.String]; dup && e.opt.OnDuplicate != DupIgnore {
				si := SimpleIssue{Code: "duplicate_key", Path: JoinPointer(top.path, tok.String), Message: "key '" + tok.String + "' duplicated"}
				if e.opt.OnDuplicate == DupError || e.opt.FailFast {
					return Token{}, e.fail(si)
				}
				if e.opt.IssueSink != nil {
					e.opt.IssueSink(si)
				}
				if e.opt.OnWarning != nil {
					e.opt.OnWarning(si)
				}
			}
			top.keys[tok.String] = struct{}{}
			top.pendingKey = tok.String
			top.hasKey = true
		}
	default:
		e.valuePath()
		e.valueDone()
	}

	if e.opt.MaxBytes > 0 {
		if off := e.Location(); off >= 0 && off > e.opt.MaxBytes {
			return Token{}, e.fail(SimpleIssue{Code: "truncated", Path: "/", Message: "max bytes exceeded"})
		}
	}
	return tok, nil
}

// valuePath returns the pointer of the value that starts at the current token
// and advances array indices.
func (e *enforcingTokenSource) valuePath() string {
	n := len(e.stack)
	if n == 0 {
		return ""
	}
	top := &e.stack[n-1]
	if top.kind == kindArray {
		p := JoinPointer(top.path, strconv.Itoa(top.nextIndex))
		top.nextIndex++
		return p
	}
	if top.hasKey {
		return JoinPointer(top.path, top.pendingKey)
	}
	return top.path
}

// valueDone clears the pending key once the value for it is complete.
func (e *enforcingTokenSource) valueDone() {
	if n := len(e.stack); n > 0 && e.stack[n-1].kind == kindObject {
		e.stack[n-1].hasKey = false
		e.stack[n-1].pendingKey = ""
	}
}

func (e *enforcingTokenSource) fail(si SimpleIssue) error {
	if e.opt.IssueSink != nil {
		e.opt.IssueSink(si)
	}
	return IssueError{si}
}

func (e *enforcingTokenSource) Location() int64 { return e.inner.Location() }

func rootIfEmpty(p string) string {
	if p == "" {
		return "/"
	}
	return p
}

var pointerEscaper = strings.NewReplacer("~", "~0", "/", "~1")

// JoinPointer appends an escaped token to a JSON Pointer.
func JoinPointer(base, token string) string {
	return base + "/" + pointerEscaper.Replace(token)
}

// CollectDuplicates drains src and reports duplicate keys. maxIssues < 0 means
// unlimited; 0 disables detection.
func CollectDuplicates(src TokenSource, maxIssues int) ([]SimpleIssue, error) {
	if maxIssues == 0 {
		return nil, nil
	}
	var out []SimpleIssue
	enforced := WrapWithEnforcement(src, EnforceOptions{
		OnDuplicate: DupWarn,
		IssueSink: func(si SimpleIssue) {
			if maxIssues < 0 || len(out) < maxIssues {
				out = append(out, si)
			}
		},
	})
	if err := Drain(enforced); err != nil {
		return out, err
	}
	return out, nil
}
