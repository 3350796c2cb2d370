package diagnostics

import (
	"errors"

	"github.com/thrushlang/thrushc/internal/span"
)

// Severity classifies an Issue per spec.md §7.
type Severity int

const (
	// Warning is advisory; it is collected and printed last and never
	// halts the pipeline.
	Warning Severity = iota
	// Error is a user-visible problem. Errors are batched per phase; a
	// non-empty error set at a phase boundary skips subsequent phases.
	Error
	// FrontEndBug means an internal invariant was violated. It aborts
	// compilation of the unit immediately.
	FrontEndBug
)

func (s Severity) String() string {
	switch s {
	case Warning:
		return "warning"
	case Error:
		return "error"
	case FrontEndBug:
		return "front-end bug"
	default:
		return "unknown"
	}
}

// Issue is a CompilationIssue per spec.md §3.1: a tagged variant with kind,
// code, message, optional hint, and span.
type Issue struct {
	Kind    Severity
	Code    string
	Message string
	Hint    string
	Span    span.Span

	// File/Line identify the compiler source location that raised a
	// FrontEndBug, mirroring abort_codegen's (file, line) parameters.
	File string
	Line int
}

func NewError(code, message string, sp span.Span) Issue {
	return Issue{Kind: Error, Code: code, Message: message, Span: sp}
}

func NewWarning(code, message string, sp span.Span) Issue {
	return Issue{Kind: Warning, Code: code, Message: message, Span: sp}
}

func NewBug(code, message string, sp span.Span, file string, line int) Issue {
	return Issue{Kind: FrontEndBug, Code: code, Message: message, Span: sp, File: file, Line: line}
}

func (i Issue) WithHint(hint string) Issue {
	i.Hint = hint
	return i
}

// Report is the canonical structured form of an Issue, suitable for JSON
// emission via `-emit diagnostics-json`.
type Report struct {
	Schema  string     `json:"schema"`
	Code    string     `json:"code"`
	Phase   string     `json:"phase"`
	Kind    string     `json:"kind"`
	Message string     `json:"message"`
	Span    *span.Span `json:"span,omitempty"`
	Hint    string     `json:"hint,omitempty"`
}

const SchemaV1 = "thrushc.diagnostic/v1"

func (i Issue) ToReport(phase string) *Report {
	r := &Report{
		Schema:  SchemaV1,
		Code:    i.Code,
		Phase:   phase,
		Kind:    i.Kind.String(),
		Message: i.Message,
		Hint:    i.Hint,
	}
	if !i.Span.IsZero() {
		sp := i.Span
		r.Span = &sp
	}
	return r
}

// ReportError wraps a Report as an error so structured diagnostics survive
// errors.As() unwrapping through ordinary Go error-returning functions.
type ReportError struct {
	Rep *Report
}

func (e *ReportError) Error() string {
	if e.Rep == nil {
		return "unknown diagnostic"
	}
	return e.Rep.Code + ": " + e.Rep.Message
}

func WrapReport(r *Report) error {
	if r == nil {
		return nil
	}
	return &ReportError{Rep: r}
}

func AsReport(err error) (*Report, bool) {
	var re *ReportError
	if errors.As(err, &re) {
		return re.Rep, true
	}
	return nil, false
}
