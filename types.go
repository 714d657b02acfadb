package zod

// NumberMode dictates how numbers are interpreted.
type NumberMode int

const (
	NumberFloat64    NumberMode = iota // Fast mode (with potential precision loss).
	NumberJSONNumber                   // Preserve json.Number.
)

// Severity expresses the severity level for issues.
type Severity int

const (
	Ignore Severity = iota
	Warn
	Error
)

// ParseOpt bundles parsing options.
type ParseOpt struct {
	OnDuplicateKey Severity // Warn or Error (duplicate object keys).
	MaxDepth       int
	MaxBytes       int64
	FailFast       bool
	// OnWarning receives non-fatal issues, such as duplicate keys under Warn.
	OnWarning func(Issue)
}
