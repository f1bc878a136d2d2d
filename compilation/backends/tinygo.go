package backends

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/Masterminds/semver"
	"github.com/kilnworks/kiln/compilation/types"
	"github.com/kilnworks/kiln/utils"
	"github.com/pkg/errors"
	"golang.org/x/exp/slices"
)

// minimumTinyGoVersion describes the lowest tinygo version the backend supports. Older
// releases lack the wasi target behavior the backend relies on.
var minimumTinyGoVersion = semver.MustParse("0.30.0")

// TinyGoConfig represents the configuration for the tinygo backend, which produces
// WebAssembly artifacts. The standard go toolchain is still used to resolve the module
// graph, while tinygo performs the build itself.
type TinyGoConfig struct {
	// Toolchain describes the tinygo command to invoke.
	Toolchain string `json:"toolchain"`

	// GoToolchain describes the go command used to resolve the module graph before the
	// tinygo build runs.
	GoToolchain string `json:"goToolchain"`

	// Target describes the tinygo compilation target, e.g. "wasi".
	Target string `json:"target"`

	// GoLanguageVersion describes the go.mod language version synthesized modules declare
	// when the unit does not request one. TinyGo trails the mainline toolchain, so this
	// stays at the newest version tinygo is known to support.
	GoLanguageVersion string `json:"goLanguageVersion"`

	// BuildDirectory describes the directory scratch workspaces are created under. If empty,
	// the operating system temporary directory is used.
	BuildDirectory string `json:"buildDirectory,omitempty"`

	// KeepWorkspace indicates whether scratch workspaces should be retained after
	// compilation rather than deleted.
	KeepWorkspace bool `json:"keepWorkspace,omitempty"`
}

// NewTinyGoConfig returns a TinyGoConfig with default values.
func NewTinyGoConfig() *TinyGoConfig {
	return &TinyGoConfig{
		Toolchain:         "tinygo",
		GoToolchain:       "go",
		Target:            "wasi",
		GoLanguageVersion: "1.21",
	}
}

// Backend returns the backend name for this configuration.
func (t *TinyGoConfig) Backend() string {
	return "tinygo"
}

// GetToolchain obtains the toolchain command this backend invokes.
func (t *TinyGoConfig) GetToolchain() string {
	return t.Toolchain
}

// SetToolchain sets the toolchain command this backend invokes.
func (t *TinyGoConfig) SetToolchain(toolchain string) {
	t.Toolchain = toolchain
}

// GetToolchainVersion obtains the semantic version of the configured tinygo toolchain.
func (t *TinyGoConfig) GetToolchainVersion() (*semver.Version, error) {
	out, err := exec.Command(t.Toolchain, "version").CombinedOutput()
	if err != nil {
		return nil, errors.Errorf("could not invoke tinygo '%s' to detect its version: %v", t.Toolchain, err)
	}
	return ParseToolchainVersion(string(out))
}

// Compile compiles the provided unit into a WebAssembly artifact using tinygo.
// Returns the artifact, the raw toolchain output, or an error. Compiler rejections are
// reported as a *types.CompilationError carrying the parsed diagnostics.
func (t *TinyGoConfig) Compile(ctx context.Context, unit *types.CompilationUnit) (*types.Artifact, string, error) {
	if err := unit.Options.Validate(); err != nil {
		return nil, "", err
	}
	if unit.Options.BuildMode != types.BuildModeWASM {
		return nil, "", errors.Errorf("the tinygo backend only supports the '%s' build mode, not '%s'", types.BuildModeWASM, unit.Options.BuildMode)
	}

	version, err := t.GetToolchainVersion()
	if err != nil {
		return nil, "", err
	}
	if version.LessThan(minimumTinyGoVersion) {
		return nil, "", errors.Errorf("tinygo version %s is older than the minimum supported version %s", version, minimumTinyGoVersion)
	}

	workspace, err := createWorkspace(t.BuildDirectory)
	if err != nil {
		return nil, "", err
	}
	if !t.KeepWorkspace {
		defer func() {
			_ = utils.DeleteDirectory(workspace)
		}()
	}

	metadata := &types.ArtifactMetadata{
		ModuleName:      unit.ModuleName,
		GoVersion:       unit.References.GoVersion(),
		Backend:         t.Backend(),
		CompilerVersion: version.String(),
	}
	if err = writeUnitInputs(workspace, unit, resolveLanguageVersion(unit, t.GoLanguageVersion), metadata); err != nil {
		return nil, "", err
	}

	environment := hermeticBuildEnvironment()
	tidyOutput, err := t.runToolchain(ctx, workspace, environment, t.GoToolchain, "mod", "tidy")
	if err != nil {
		return nil, tidyOutput, err
	}

	buildOutput, err := t.runToolchain(ctx, workspace, environment, t.Toolchain,
		"build", "-o", outputFileName(unit), "-target", t.Target, ".")
	rawOutput := strings.Join([]string{tidyOutput, buildOutput}, "\n")
	if err != nil {
		return nil, rawOutput, err
	}

	binary, err := os.ReadFile(filepath.Join(workspace, outputFileName(unit)))
	if err != nil {
		return nil, rawOutput, errors.Errorf("could not read the compiled binary: %v", err)
	}

	artifact := &types.Artifact{
		ModuleName: unit.ModuleName,
		BuildMode:  unit.Options.BuildMode,
		Binary:     binary,
		Resources:  slices.Clone(unit.Resources),
	}
	return artifact, rawOutput, nil
}

// runToolchain invokes a toolchain command in the given workspace and returns its combined
// output, converting failures into *types.CompilationError values.
func (t *TinyGoConfig) runToolchain(ctx context.Context, workspace string, environment []string, toolchain string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, toolchain, args...)
	cmd.Dir = workspace
	cmd.Env = environment
	_, cmdStderr, cmdCombined, err := utils.RunCommandWithOutputAndError(cmd)
	if err != nil {
		if ctx.Err() != nil {
			return string(cmdCombined), ctx.Err()
		}
		return string(cmdCombined), types.NewCompilationError(ParseToolchainDiagnostics(string(cmdStderr)))
	}
	return string(cmdCombined), nil
}
