package backends

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/Masterminds/semver"
	"github.com/kilnworks/kiln/compilation/types"
	"github.com/kilnworks/kiln/utils"
	"github.com/pkg/errors"
	"golang.org/x/exp/slices"
)

// minimumGoToolchainVersion describes the lowest go toolchain version the backend supports.
// Older toolchains predate the workspace and toolchain selection behavior the backend
// depends on for hermetic builds.
var minimumGoToolchainVersion = semver.MustParse("1.21.0")

// toolchainVersionPattern extracts a semantic version from toolchain version output such as
// "go1.23.3" or "tinygo version 0.31.2 linux/amd64".
var toolchainVersionPattern = regexp.MustCompile(`\d+\.\d+(\.\d+)?`)

// GoToolchainConfig represents the configuration for the standard go toolchain backend,
// which compiles units by synthesizing a module in a scratch workspace and invoking the
// go command against it.
type GoToolchainConfig struct {
	// Toolchain describes the go command to invoke. It may be a bare command name resolved
	// through PATH or an absolute path to a specific toolchain.
	Toolchain string `json:"toolchain"`

	// BuildDirectory describes the directory scratch workspaces are created under. If empty,
	// the operating system temporary directory is used.
	BuildDirectory string `json:"buildDirectory,omitempty"`

	// KeepWorkspace indicates whether scratch workspaces should be retained after
	// compilation rather than deleted. This is primarily useful when debugging build
	// failures.
	KeepWorkspace bool `json:"keepWorkspace,omitempty"`
}

// NewGoToolchainConfig returns a GoToolchainConfig with default values.
func NewGoToolchainConfig() *GoToolchainConfig {
	return &GoToolchainConfig{
		Toolchain: "go",
	}
}

// Backend returns the backend name for this configuration.
func (g *GoToolchainConfig) Backend() string {
	return "gotoolchain"
}

// GetToolchain obtains the toolchain command this backend invokes.
func (g *GoToolchainConfig) GetToolchain() string {
	return g.Toolchain
}

// SetToolchain sets the toolchain command this backend invokes.
func (g *GoToolchainConfig) SetToolchain(toolchain string) {
	g.Toolchain = toolchain
}

// GetToolchainVersion obtains the semantic version of the configured go toolchain.
// Returns the version, or an error if the toolchain could not be invoked or its output
// could not be parsed.
func (g *GoToolchainConfig) GetToolchainVersion() (*semver.Version, error) {
	out, err := exec.Command(g.Toolchain, "env", "GOVERSION").CombinedOutput()
	if err != nil {
		return nil, errors.Errorf("could not invoke the go toolchain '%s' to detect its version: %v", g.Toolchain, err)
	}
	return ParseToolchainVersion(string(out))
}

// ParseToolchainVersion extracts a semantic version from raw toolchain version output.
// Returns the parsed version, or an error if no version could be located in the output.
func ParseToolchainVersion(output string) (*semver.Version, error) {
	versionString := toolchainVersionPattern.FindString(output)
	if versionString == "" {
		return nil, errors.Errorf("could not parse a toolchain version out of output: %q", strings.TrimSpace(output))
	}
	version, err := semver.NewVersion(versionString)
	if err != nil {
		return nil, errors.Errorf("could not parse toolchain version '%s': %v", versionString, err)
	}
	return version, nil
}

// Compile compiles the provided unit into a binary artifact using the go toolchain.
// Returns the artifact, the raw toolchain output, or an error. Compiler rejections are
// reported as a *types.CompilationError carrying the parsed diagnostics.
func (g *GoToolchainConfig) Compile(ctx context.Context, unit *types.CompilationUnit) (*types.Artifact, string, error) {
	if err := unit.Options.Validate(); err != nil {
		return nil, "", err
	}
	if unit.Options.BuildMode == types.BuildModePlugin && utils.IsWindowsEnvironment() {
		return nil, "", errors.New("the go toolchain does not support plugin builds on windows")
	}

	// Verify the toolchain is recent enough before doing any work on its behalf.
	version, err := g.GetToolchainVersion()
	if err != nil {
		return nil, "", err
	}
	if version.LessThan(minimumGoToolchainVersion) {
		return nil, "", errors.Errorf("go toolchain version %s is older than the minimum supported version %s", version, minimumGoToolchainVersion)
	}

	workspace, err := createWorkspace(g.BuildDirectory)
	if err != nil {
		return nil, "", err
	}
	if !g.KeepWorkspace {
		defer func() {
			_ = utils.DeleteDirectory(workspace)
		}()
	}

	metadata := &types.ArtifactMetadata{
		ModuleName:      unit.ModuleName,
		GoVersion:       unit.References.GoVersion(),
		Backend:         g.Backend(),
		CompilerVersion: version.String(),
	}
	languageVersion := resolveLanguageVersion(unit, defaultLanguageVersion(version))
	if err = writeUnitInputs(workspace, unit, languageVersion, metadata); err != nil {
		return nil, "", err
	}

	environment := hermeticBuildEnvironment()
	if unit.Options.BuildMode == types.BuildModeWASM {
		environment = append(environment, "GOOS=wasip1", "GOARCH=wasm")
	}

	// Resolve the module graph against the local cache only. Network access stays disabled
	// so identical inputs either build identically or fail identically.
	tidyOutput, err := g.runToolchain(ctx, workspace, environment, "mod", "tidy")
	if err != nil {
		return nil, tidyOutput, err
	}

	buildOutput, err := g.runToolchain(ctx, workspace, environment, buildArguments(unit)...)
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

// runToolchain invokes the configured toolchain in the given workspace and returns its
// combined output. Toolchain failures are converted into a *types.CompilationError carrying
// the diagnostics parsed from stderr.
func (g *GoToolchainConfig) runToolchain(ctx context.Context, workspace string, environment []string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, g.Toolchain, args...)
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

// buildArguments constructs the go build argument list for the provided unit.
func buildArguments(unit *types.CompilationUnit) []string {
	args := []string{"build", "-trimpath", "-o", outputFileName(unit)}
	switch unit.Options.BuildMode {
	case types.BuildModePlugin:
		args = append(args, "-buildmode=plugin")
	case types.BuildModeArchive:
		args = append(args, "-buildmode=archive")
	}
	if unit.Options.Optimization == types.OptimizationDebug {
		args = append(args, "-gcflags", "all=-N -l")
	}
	return append(args, ".")
}

// hermeticBuildEnvironment returns the process environment extended with the variables
// which pin module resolution to the local cache and the invoked toolchain.
func hermeticBuildEnvironment() []string {
	return append(os.Environ(),
		"GO111MODULE=on",
		"GOFLAGS=-mod=mod",
		"GOWORK=off",
		"GOPROXY=off",
		"GOSUMDB=off",
		"GOTOOLCHAIN=local",
	)
}

// defaultLanguageVersion derives the go.mod language version from a toolchain version.
func defaultLanguageVersion(version *semver.Version) string {
	segments := strings.SplitN(version.String(), ".", 3)
	return segments[0] + "." + segments[1]
}
