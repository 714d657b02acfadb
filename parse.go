package zod

import (
	"context"
	"errors"
	"io"

	eng "github.com/JorikSchellekens/zod/internal/engine"
)

// ParseFrom is the primary entry point. It consumes tokens from the Source,
// builds an any value under the enforcement options, and delegates
// validation to the Schema.
func ParseFrom[T any](ctx context.Context, s Schema[T], src Source, opts ...ParseOpt) (T, error) {
	var zero T
	if s == nil {
		return zero, singleIssue(CodeParseError, "nil schema")
	}
	var opt ParseOpt
	if len(opts) > 0 {
		opt = opts[len(opts)-1]
	}
	if opt.FailFast {
		ctx = WithFailFast(ctx, true)
	}
	v, err := decodeAnyFromSource(src, opt)
	if err != nil {
		return zero, toIssues(err)
	}
	return s.Parse(ctx, v)
}

// StreamParse validates input read from r as JSON. When MaxBytes is set it
// enforces the size cap up front, otherwise it streams through ParseFrom.
func StreamParse[T any](ctx context.Context, s Schema[T], r io.Reader, opts ...ParseOpt) (T, error) {
	if len(opts) > 0 && opts[len(opts)-1].MaxBytes > 0 {
		limit := opts[len(opts)-1].MaxBytes
		data, err := io.ReadAll(io.LimitReader(r, limit+1))
		if err != nil {
			var zero T
			return zero, singleIssue(CodeParseError, err.Error())
		}
		if int64(len(data)) > limit {
			var zero T
			return zero, AppendIssues(nil, Issue{Path: "/", Code: CodeTruncated, Message: "max bytes exceeded", Offset: limit})
		}
		return ParseFrom[T](ctx, s, JSONBytes(data), opts...)
	}
	return ParseFrom[T](ctx, s, JSONReader(r), opts...)
}

func decodeAnyFromSource(src Source, opt ParseOpt) (any, error) {
	eo := eng.EnforceOptions{
		OnDuplicate: toEngineDup(opt.OnDuplicateKey),
		MaxDepth:    opt.MaxDepth,
		MaxBytes:    opt.MaxBytes,
		FailFast:    opt.FailFast,
	}
	if opt.OnWarning != nil {
		eo.OnWarning = func(si eng.SimpleIssue) {
			opt.OnWarning(Issue{Path: si.Path, Code: si.Code, Message: si.Message, Offset: -1})
		}
	}
	enforced := eng.WrapWithEnforcement(tokenSource(src), eo)
	conv := eng.AsJSONNumber
	if src.NumberMode() == NumberFloat64 {
		conv = eng.AsFloat64
	}
	return eng.DecodeAny(enforced, conv)
}

func toIssues(err error) Issues {
	if err == nil {
		return nil
	}
	if ii, ok := AsIssues(err); ok {
		return ii
	}
	var ie eng.IssueError
	if errors.As(err, &ie) {
		return AppendIssues(nil, Issue{Code: ie.Code, Path: ie.Path, Message: ie.Message, Offset: -1})
	}
	return AppendIssues(nil, Issue{Path: "/", Code: CodeParseError, Message: err.Error(), Cause: err, Offset: -1})
}

func singleIssue(code, msg string) Issues {
	return AppendIssues(nil, Issue{Path: "/", Code: code, Message: msg, Offset: -1})
}

func toEngineDup(s Severity) eng.DuplicatePolicy {
	switch s {
	case Error:
		return eng.DupError
	case Warn:
		return eng.DupWarn
	default:
		return eng.DupIgnore
	}
}
