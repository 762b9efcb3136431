package errors

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/sablelang/sablec/internal/ast"
)

// Report is the canonical structured error type for sablec.
// All error builders return a *Report, which is wrapped as a ReportError
// so it survives errors.As() unwrapping across ordinary Go error chains.
type Report struct {
	Schema  string         `json:"schema"`         // Always "sable.error/v1"
	Code    string         `json:"code"`           // Error code (TC001, DI003, ...)
	Phase   string         `json:"phase"`          // "typecheck", "di", "codegen", ...
	Message string         `json:"message"`        // Human-readable message
	Span    *ast.Span      `json:"span,omitempty"` // Source location (optional)
	Data    map[string]any `json:"data,omitempty"` // Structured data (sorted keys on encode)
	Fix     *Fix           `json:"fix,omitempty"`  // Suggested fix (optional)
}

// Fix describes a suggested remediation for a diagnostic.
type Fix struct {
	Description string `json:"description"`
	Replacement string `json:"replacement,omitempty"`
}

// ReportError wraps a Report as an error.
type ReportError struct {
	Rep *Report
}

func (e *ReportError) Error() string {
	if e.Rep == nil {
		return "unknown error"
	}
	loc := ""
	if e.Rep.Span != nil {
		loc = fmt.Sprintf(" at %s", e.Rep.Span.Start)
	}
	return fmt.Sprintf("%s: %s%s", e.Rep.Code, e.Rep.Message, loc)
}

// AsReport attempts to extract a Report from an error chain.
func AsReport(err error) (*Report, bool) {
	var re *ReportError
	if errors.As(err, &re) {
		return re.Rep, true
	}
	return nil, false
}

// WrapReport wraps a Report as a ReportError. Call sites return
// errors.WrapReport(report) to preserve structure through the Go error
// interface.
func WrapReport(r *Report) error {
	if r == nil {
		return nil
	}
	return &ReportError{Rep: r}
}

// ToJSON converts a Report to JSON (deterministic, sorted keys).
func (r *Report) ToJSON(compact bool) (string, error) {
	var data []byte
	var err error

	if compact {
		data, err = json.Marshal(r)
	} else {
		data, err = json.MarshalIndent(r, "", "  ")
	}
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// New builds a Report for the given code, looking up its phase from the
// registry, and wraps it as an error in one step.
func New(code, message string, span *ast.Span, data map[string]any) error {
	phase := "unknown"
	if info, ok := GetErrorInfo(code); ok {
		phase = info.Phase
	}
	return WrapReport(&Report{
		Schema:  "sable.error/v1",
		Code:    code,
		Phase:   phase,
		Message: message,
		Span:    span,
		Data:    data,
	})
}

// NewGeneric creates a generic error report for an arbitrary wrapped error.
func NewGeneric(phase string, err error) *Report {
	return &Report{
		Schema:  "sable.error/v1",
		Code:    "RUNTIME",
		Phase:   phase,
		Message: err.Error(),
		Data:    map[string]any{},
	}
}
