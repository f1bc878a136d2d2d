package backends

import (
	"testing"

	"github.com/kilnworks/kiln/compilation/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestParseToolchainDiagnosticsPositioned ensures positioned compiler output is parsed into
// diagnostics carrying the file, line, and column the compiler reported.
func TestParseToolchainDiagnosticsPositioned(t *testing.T) {
	output := "# generatedassembly\n" +
		"./probe.go:7:2: undefined: fmtz\n" +
		"./probe.go:9:14: cannot use x (variable of type string) as int value\n"

	diagnostics := ParseToolchainDiagnostics(output)
	require.Len(t, diagnostics, 2)

	assert.Equal(t, types.SeverityError, diagnostics[0].Severity)
	assert.Equal(t, "./probe.go", diagnostics[0].File)
	assert.Equal(t, 7, diagnostics[0].Line)
	assert.Equal(t, 2, diagnostics[0].Column)
	assert.Equal(t, "undefined: fmtz", diagnostics[0].Message)

	assert.Equal(t, "./probe.go", diagnostics[1].File)
	assert.Equal(t, 9, diagnostics[1].Line)
	assert.Equal(t, 14, diagnostics[1].Column)
}

// TestParseToolchainDiagnosticsContinuations ensures indented elaboration lines are folded
// into the diagnostic they continue rather than reported separately.
func TestParseToolchainDiagnosticsContinuations(t *testing.T) {
	output := "# generatedassembly\n" +
		"./probe.go:5:10: not enough arguments in call to add\n" +
		"\thave (number)\n" +
		"\twant (number, number)\n"

	diagnostics := ParseToolchainDiagnostics(output)
	require.Len(t, diagnostics, 1)
	assert.Equal(t, "not enough arguments in call to add have (number) want (number, number)", diagnostics[0].Message)
	assert.Equal(t, 5, diagnostics[0].Line)
}

// TestParseToolchainDiagnosticsModuleErrors ensures errors reported by the go command itself
// are kept as position-less diagnostics.
func TestParseToolchainDiagnosticsModuleErrors(t *testing.T) {
	output := "go: module example.com/nowhere: module lookup disabled by GOPROXY=off\n"

	diagnostics := ParseToolchainDiagnostics(output)
	require.Len(t, diagnostics, 1)
	assert.Equal(t, types.SeverityError, diagnostics[0].Severity)
	assert.Equal(t, "module example.com/nowhere: module lookup disabled by GOPROXY=off", diagnostics[0].Message)
	assert.Empty(t, diagnostics[0].File)
	assert.Zero(t, diagnostics[0].Line)
}

// TestParseToolchainDiagnosticsFallback ensures unrecognized lines are retained verbatim
// instead of being dropped.
func TestParseToolchainDiagnosticsFallback(t *testing.T) {
	output := "package probe: build constraints exclude all Go files in /tmp/workspace\n"

	diagnostics := ParseToolchainDiagnostics(output)
	require.Len(t, diagnostics, 1)
	assert.Equal(t, types.SeverityError, diagnostics[0].Severity)
	assert.Equal(t, "package probe: build constraints exclude all Go files in /tmp/workspace", diagnostics[0].Message)
	assert.Empty(t, diagnostics[0].File)
}

// TestParseToolchainDiagnosticsSeverity ensures warning and note prefixes downgrade the
// severity of the resulting diagnostic.
func TestParseToolchainDiagnosticsSeverity(t *testing.T) {
	output := "./probe.go:3:1: warning: unreachable code\n" +
		"./probe.go:4:1: note: inlining call\n" +
		"./probe.go:5:1: undefined: x\n"

	diagnostics := ParseToolchainDiagnostics(output)
	require.Len(t, diagnostics, 3)
	assert.Equal(t, types.SeverityWarning, diagnostics[0].Severity)
	assert.Equal(t, types.SeverityInfo, diagnostics[1].Severity)
	assert.Equal(t, types.SeverityError, diagnostics[2].Severity)
}

// TestParseToolchainDiagnosticsOrderAndNoise ensures diagnostics keep compiler order while
// blank lines, carriage returns, and grouping headers are discarded.
func TestParseToolchainDiagnosticsOrderAndNoise(t *testing.T) {
	output := "\n# generatedassembly\n" +
		"./a.go:1:1: first\r\n" +
		"\n" +
		"go: second\n" +
		"./a.go:2:2: third\n"

	diagnostics := ParseToolchainDiagnostics(output)
	require.Len(t, diagnostics, 3)
	assert.Equal(t, "first", diagnostics[0].Message)
	assert.Equal(t, "second", diagnostics[1].Message)
	assert.Equal(t, "third", diagnostics[2].Message)
}

// TestParseToolchainDiagnosticsEmpty ensures empty output parses to no diagnostics.
func TestParseToolchainDiagnosticsEmpty(t *testing.T) {
	assert.Empty(t, ParseToolchainDiagnostics(""))
}
