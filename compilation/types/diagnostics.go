package types

import (
	"fmt"
	"strings"
)

// Severity describes how serious a single compiler diagnostic is.
type Severity string

const (
	// SeverityError describes a diagnostic which prevented a binary module from being emitted.
	SeverityError Severity = "error"

	// SeverityWarning describes a diagnostic which did not prevent emission on its own.
	SeverityWarning Severity = "warning"

	// SeverityInfo describes an informational diagnostic, such as a note attached to an error.
	SeverityInfo Severity = "info"
)

// Diagnostic describes a single structured message produced by a compiler backend while
// attempting to emit a compilation unit. Diagnostics preserve the position information the
// underlying compiler reported, when it reported any.
type Diagnostic struct {
	// Severity describes how serious the diagnostic is.
	Severity Severity `json:"severity"`

	// Message describes the message text produced by the compiler.
	Message string `json:"message"`

	// File describes the file the diagnostic refers to, if known.
	File string `json:"file,omitempty"`

	// Line describes the one-based line the diagnostic refers to. Zero when unknown.
	Line int `json:"line,omitempty"`

	// Column describes the one-based column the diagnostic refers to. Zero when unknown.
	Column int `json:"column,omitempty"`
}

// String returns a single-line rendering of the diagnostic in the familiar
// file:line:column form, omitting position components the compiler did not report.
func (d Diagnostic) String() string {
	if d.File == "" {
		return fmt.Sprintf("%s: %s", d.Severity, d.Message)
	}
	if d.Column == 0 {
		return fmt.Sprintf("%s:%d: %s: %s", d.File, d.Line, d.Severity, d.Message)
	}
	return fmt.Sprintf("%s:%d:%d: %s: %s", d.File, d.Line, d.Column, d.Severity, d.Message)
}

// CompilationError describes a compilation attempt which did not produce a binary module. It
// carries every diagnostic the underlying compiler produced, errors and warnings merged, in
// the order they were produced.
type CompilationError struct {
	// Diagnostics describes the ordered list of diagnostics produced by the compile step.
	Diagnostics []Diagnostic
}

// NewCompilationError creates a CompilationError from the provided diagnostics. A failure is
// never silent: if the compiler produced no diagnostics at all, a placeholder diagnostic is
// recorded so the resulting error still describes what happened.
func NewCompilationError(diagnostics []Diagnostic) *CompilationError {
	if len(diagnostics) == 0 {
		diagnostics = []Diagnostic{
			{
				Severity: SeverityError,
				Message:  "compilation failed but the compiler produced no diagnostics",
			},
		}
	}
	return &CompilationError{Diagnostics: diagnostics}
}

// Error returns the newline-joined rendering of every diagnostic carried by the failure,
// implementing the error interface.
func (e *CompilationError) Error() string {
	messages := make([]string, len(e.Diagnostics))
	for i, diagnostic := range e.Diagnostics {
		messages[i] = diagnostic.String()
	}
	return strings.Join(messages, "\n")
}

// ErrorCount returns the number of diagnostics carrying an error severity.
func (e *CompilationError) ErrorCount() int {
	count := 0
	for _, diagnostic := range e.Diagnostics {
		if diagnostic.Severity == SeverityError {
			count++
		}
	}
	return count
}

// HasErrors returns a boolean indicating whether at least one diagnostic carries an error
// severity, rather than only warnings or notes.
func (e *CompilationError) HasErrors() bool {
	return e.ErrorCount() > 0
}
