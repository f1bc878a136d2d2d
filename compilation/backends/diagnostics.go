package backends

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/kilnworks/kiln/compilation/types"
)

// positionedDiagnosticPattern matches the file:line[:column]: message form the go toolchain
// reports source diagnostics in, e.g. "./gen.go:4:2: undefined: fmt".
var positionedDiagnosticPattern = regexp.MustCompile(`^([^\s:][^:]*):(\d+)(?::(\d+))?: (.+)$`)

// ParseToolchainDiagnostics converts raw toolchain stderr output into structured
// diagnostics, preserving the order the compiler produced them in. Lines which do not match
// any known form are kept as position-less diagnostics, so no compiler output is ever
// silently dropped.
func ParseToolchainDiagnostics(output string) []types.Diagnostic {
	diagnostics := make([]types.Diagnostic, 0)
	for _, line := range strings.Split(output, "\n") {
		line = strings.TrimRight(line, "\r")
		if line == "" {
			continue
		}

		// Skip package grouping headers such as "# generatedassembly".
		if strings.HasPrefix(line, "#") {
			continue
		}

		// Indented lines continue the previous diagnostic, e.g. the have/want elaborations
		// the type checker prints under a mismatch error.
		if strings.HasPrefix(line, "\t") && len(diagnostics) > 0 {
			last := &diagnostics[len(diagnostics)-1]
			last.Message = last.Message + " " + strings.TrimSpace(line)
			continue
		}

		// Module resolution failures are reported by the go command itself.
		if message, found := strings.CutPrefix(line, "go: "); found {
			diagnostics = append(diagnostics, types.Diagnostic{
				Severity: classifySeverity(message),
				Message:  message,
			})
			continue
		}

		// Positioned source diagnostics.
		if match := positionedDiagnosticPattern.FindStringSubmatch(line); match != nil {
			lineNumber, _ := strconv.Atoi(match[2])
			columnNumber := 0
			if match[3] != "" {
				columnNumber, _ = strconv.Atoi(match[3])
			}
			diagnostics = append(diagnostics, types.Diagnostic{
				Severity: classifySeverity(match[4]),
				Message:  match[4],
				File:     match[1],
				Line:     lineNumber,
				Column:   columnNumber,
			})
			continue
		}

		// Anything else is kept verbatim rather than dropped.
		diagnostics = append(diagnostics, types.Diagnostic{
			Severity: classifySeverity(line),
			Message:  line,
		})
	}
	return diagnostics
}

// classifySeverity infers a diagnostic's severity from its message text. The go compiler
// treats almost everything as an error; warnings and notes are prefixed when they occur.
func classifySeverity(message string) types.Severity {
	if strings.HasPrefix(message, "warning:") {
		return types.SeverityWarning
	}
	if strings.HasPrefix(message, "note:") {
		return types.SeverityInfo
	}
	return types.SeverityError
}
