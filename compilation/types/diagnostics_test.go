package types

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestDiagnosticString tests that diagnostics render position information only when it was
// reported by the compiler.
func TestDiagnosticString(t *testing.T) {
	// Verify a diagnostic without a file renders severity and message only.
	diagnostic := Diagnostic{Severity: SeverityError, Message: "undefined: foo"}
	assert.Equal(t, "error: undefined: foo", diagnostic.String())

	// Verify a diagnostic without a column omits the column.
	diagnostic = Diagnostic{Severity: SeverityWarning, Message: "unused variable", File: "main.go", Line: 4}
	assert.Equal(t, "main.go:4: warning: unused variable", diagnostic.String())

	// Verify a fully positioned diagnostic renders file, line and column.
	diagnostic = Diagnostic{Severity: SeverityError, Message: "syntax error", File: "main.go", Line: 2, Column: 7}
	assert.Equal(t, "main.go:2:7: error: syntax error", diagnostic.String())
}

// TestCompilationErrorJoinsDiagnostics tests that a compilation error renders as the
// newline-joined list of every diagnostic it carries, in their original order.
func TestCompilationErrorJoinsDiagnostics(t *testing.T) {
	diagnostics := []Diagnostic{
		{Severity: SeverityError, Message: "undefined: foo", File: "main.go", Line: 3, Column: 2},
		{Severity: SeverityWarning, Message: "unused import", File: "main.go", Line: 1, Column: 8},
		{Severity: SeverityError, Message: "missing return"},
	}
	err := NewCompilationError(diagnostics)

	// Verify every diagnostic appears on its own line, in order.
	lines := strings.Split(err.Error(), "\n")
	assert.Equal(t, len(diagnostics), len(lines))
	for i, diagnostic := range diagnostics {
		assert.Equal(t, diagnostic.String(), lines[i])
	}

	// Verify severity counting reflects the mixed diagnostics.
	assert.True(t, err.HasErrors())
	assert.Equal(t, 2, err.ErrorCount())
}

// TestCompilationErrorNeverEmpty tests that a compilation failure reported without any
// diagnostics still produces a descriptive error rather than an empty message.
func TestCompilationErrorNeverEmpty(t *testing.T) {
	err := NewCompilationError(nil)
	assert.NotEmpty(t, err.Error())
	assert.Len(t, err.Diagnostics, 1)
	assert.True(t, err.HasErrors())
}
