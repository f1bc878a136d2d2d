package formatters

import (
	"fmt"
	"strings"

	"github.com/kilnworks/kiln/compilation/types"
	"github.com/kilnworks/kiln/logging/colors"
)

// severityColor maps a diagnostic severity to the color its label is rendered with for
// console output.
func severityColor(severity types.Severity) colors.Color {
	switch severity {
	case types.SeverityError:
		return colors.RED
	case types.SeverityWarning:
		return colors.YELLOW
	default:
		return colors.CYAN
	}
}

// DiagnosticsFormatter will colorize and update the format of a diagnostic list for console output. Each diagnostic
// is rendered on its own line with a colorized severity label and a dimmed source position, when one was reported.
func DiagnosticsFormatter(diagnostics []types.Diagnostic) string {
	lines := make([]string, len(diagnostics))
	for i, diagnostic := range diagnostics {
		// Colorize the severity label, e.g. [ERROR] in bold red.
		label := colors.Colorize(colors.Colorize(fmt.Sprintf("[%s]", strings.ToUpper(string(diagnostic.Severity))), severityColor(diagnostic.Severity)), colors.BOLD)

		// Render the source position dimmed, when the compiler reported one.
		if diagnostic.File == "" {
			lines[i] = fmt.Sprintf("%s %s", label, diagnostic.Message)
			continue
		}
		position := fmt.Sprintf("%s:%d", diagnostic.File, diagnostic.Line)
		if diagnostic.Column > 0 {
			position = fmt.Sprintf("%s:%d", position, diagnostic.Column)
		}
		lines[i] = fmt.Sprintf("%s %s %s", label, colors.DarkGray(position), diagnostic.Message)
	}
	return strings.Join(lines, "\n")
}

// DiagnosticsSummaryFormatter will colorize a short summary of a diagnostic list, rendering
// the number of errors and warnings it carries for console output.
func DiagnosticsSummaryFormatter(diagnostics []types.Diagnostic) string {
	errorCount := 0
	warningCount := 0
	for _, diagnostic := range diagnostics {
		switch diagnostic.Severity {
		case types.SeverityError:
			errorCount++
		case types.SeverityWarning:
			warningCount++
		}
	}
	errorString := colors.Colorize(colors.Colorize(errorCount, colors.RED), colors.BOLD)
	warningString := colors.Colorize(colors.Colorize(warningCount, colors.YELLOW), colors.BOLD)
	return fmt.Sprintf("compilation produced %s errors and %s warnings", errorString, warningString)
}
