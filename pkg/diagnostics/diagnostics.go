// Package diagnostics defines babu diagnostic types for syntax, lint and runtime errors.
package diagnostics

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/babushona/babu/pkg/ast"
)

// Diagnostic code constants.
const (
	ELex       = "E_LEX"
	EParse     = "E_PARSE"
	EUndefined = "E_UNDEFINED"
	EArith     = "E_ARITH"
	EType      = "E_TYPE"
	EIO        = "E_IO"
	EBudget    = "E_BUDGET"
	EConfig    = "E_CONFIG"
	EUsage     = "E_USAGE"

	WLoopStep   = "W_LOOP_STEP"
	WLoopShadow = "W_LOOP_SHADOW"
	WUnassigned = "W_UNASSIGNED"
)

// Severity levels.
const (
	SeverityError   = "error"
	SeverityWarning = "warning"
)

// Diagnostic represents a syntax, lint, or runtime diagnostic.
type Diagnostic struct {
	Code     string    `json:"code"`
	Severity string    `json:"severity"`
	Message  string    `json:"message"`
	Span     *ast.Span `json:"span,omitempty"`
	Hint     string    `json:"hint,omitempty"`
}

// MakeDiag creates a new error Diagnostic.
func MakeDiag(code, message string, span *ast.Span, hint string) Diagnostic {
	return Diagnostic{
		Code:     code,
		Severity: SeverityError,
		Message:  message,
		Span:     span,
		Hint:     hint,
	}
}

// MakeWarning creates a warning Diagnostic. Warnings never stop a run.
func MakeWarning(code, message string, span *ast.Span, hint string) Diagnostic {
	d := MakeDiag(code, message, span, hint)
	d.Severity = SeverityWarning
	return d
}

// HasErrors reports whether any diagnostic has error severity.
func HasErrors(diags []Diagnostic) bool {
	for _, d := range diags {
		if d.Severity != SeverityWarning {
			return true
		}
	}
	return false
}

// FormatDiagnostic formats a single diagnostic for display.
func FormatDiagnostic(d Diagnostic, pretty bool) string {
	if !pretty {
		b, _ := json.Marshal(d)
		return string(b)
	}
	severity := d.Severity
	if severity == "" {
		severity = SeverityError
	}
	out := fmt.Sprintf("%s[%s]: %s", severity, d.Code, d.Message)
	if d.Span != nil {
		out += fmt.Sprintf("\n  --> %s:%d:%d", d.Span.File, d.Span.StartLine, d.Span.StartCol)
	}
	if d.Hint != "" {
		out += fmt.Sprintf("\n  hint: %s", d.Hint)
	}
	return out
}

// FormatDiagnostics formats a slice of diagnostics for display.
func FormatDiagnostics(diags []Diagnostic, pretty bool) string {
	if !pretty {
		b, _ := json.Marshal(diags)
		return string(b)
	}
	parts := make([]string, len(diags))
	for i, d := range diags {
		parts[i] = FormatDiagnostic(d, true)
	}
	return strings.Join(parts, "\n\n")
}
