package backends

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
	"strings"
	"testing"

	"github.com/Masterminds/semver"
	"github.com/kilnworks/kiln/compilation/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// requireGoToolchain skips the calling test when no go toolchain is installed.
func requireGoToolchain(t *testing.T) {
	if _, err := exec.LookPath("go"); err != nil {
		t.Skip("no go toolchain available on PATH")
	}
}

// TestGoToolchainConfigDefaults ensures the default configuration invokes the go command
// found on PATH.
func TestGoToolchainConfigDefaults(t *testing.T) {
	config := NewGoToolchainConfig()
	assert.Equal(t, "gotoolchain", config.Backend())
	assert.Equal(t, "go", config.GetToolchain())

	config.SetToolchain("/opt/go/bin/go")
	assert.Equal(t, "/opt/go/bin/go", config.GetToolchain())
}

// TestParseToolchainVersion ensures versions are extracted from the version output shapes
// the supported toolchains produce.
func TestParseToolchainVersion(t *testing.T) {
	version, err := ParseToolchainVersion("go1.23.3")
	require.NoError(t, err)
	assert.Equal(t, "1.23.3", version.String())

	version, err = ParseToolchainVersion("go1.21")
	require.NoError(t, err)
	assert.Equal(t, "1.21.0", version.String())

	version, err = ParseToolchainVersion("go version go1.22.1 linux/amd64")
	require.NoError(t, err)
	assert.Equal(t, "1.22.1", version.String())

	version, err = ParseToolchainVersion("tinygo version 0.31.2 linux/amd64 (using go version go1.22.1)")
	require.NoError(t, err)
	assert.Equal(t, "0.31.2", version.String())

	_, err = ParseToolchainVersion("devel")
	assert.Error(t, err)

	_, err = ParseToolchainVersion("")
	assert.Error(t, err)
}

// TestDefaultLanguageVersion ensures the go.mod language version derived from a toolchain
// version drops the patch component.
func TestDefaultLanguageVersion(t *testing.T) {
	assert.Equal(t, "1.23", defaultLanguageVersion(semver.MustParse("1.23.3")))
	assert.Equal(t, "1.21", defaultLanguageVersion(semver.MustParse("1.21.0")))
}

// TestBuildArguments ensures the build invocation carries the flags each build mode and
// optimization level requires.
func TestBuildArguments(t *testing.T) {
	unit := &types.CompilationUnit{ModuleName: "probe", Options: types.DefaultCompilationOptions()}

	args := buildArguments(unit)
	assert.Equal(t, "build", args[0])
	assert.Contains(t, args, "-trimpath")
	assert.Contains(t, args, "-buildmode=plugin")
	assert.NotContains(t, args, "-gcflags")
	assert.Equal(t, ".", args[len(args)-1])

	unit.Options.BuildMode = types.BuildModeExe
	unit.Options.Optimization = types.OptimizationDebug
	args = buildArguments(unit)
	assert.NotContains(t, args, "-buildmode=plugin")
	assert.NotContains(t, args, "-buildmode=archive")
	assert.Contains(t, args, "-gcflags")
	assert.Contains(t, args, "all=-N -l")

	unit.Options.BuildMode = types.BuildModeArchive
	args = buildArguments(unit)
	assert.Contains(t, args, "-buildmode=archive")
}

// TestHermeticBuildEnvironment ensures the build environment pins module resolution to the
// local cache and the invoked toolchain.
func TestHermeticBuildEnvironment(t *testing.T) {
	environment := hermeticBuildEnvironment()
	assert.Contains(t, environment, "GO111MODULE=on")
	assert.Contains(t, environment, "GOFLAGS=-mod=mod")
	assert.Contains(t, environment, "GOWORK=off")
	assert.Contains(t, environment, "GOPROXY=off")
	assert.Contains(t, environment, "GOSUMDB=off")
	assert.Contains(t, environment, "GOTOOLCHAIN=local")
}

// TestGoToolchainCompileValidatesOptions ensures malformed options are rejected before any
// toolchain work happens.
func TestGoToolchainCompileValidatesOptions(t *testing.T) {
	config := NewGoToolchainConfig()
	unit := &types.CompilationUnit{
		ModuleName: "probe",
		Source:     "package main\n",
		Options:    types.CompilationOptions{BuildMode: "dll"},
	}

	_, _, err := config.Compile(context.Background(), unit)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid build mode")

	var compilationErr *types.CompilationError
	assert.False(t, errors.As(err, &compilationErr))
}

// TestGoToolchainVersionDetection ensures the installed toolchain's version is detected and
// parsed.
func TestGoToolchainVersionDetection(t *testing.T) {
	requireGoToolchain(t)

	version, err := NewGoToolchainConfig().GetToolchainVersion()
	require.NoError(t, err)
	require.NotNil(t, version)
	assert.True(t, version.Major() >= 1)
}

// TestGoToolchainCompileExecutable compiles a unit with an embedded resource into an
// executable and verifies the resource and build metadata land inside the binary.
func TestGoToolchainCompileExecutable(t *testing.T) {
	requireGoToolchain(t)

	config := NewGoToolchainConfig()
	config.BuildDirectory = t.TempDir()

	payload := []byte("kiln integration probe payload v1")
	options := types.DefaultCompilationOptions()
	options.BuildMode = types.BuildModeExe
	unit := &types.CompilationUnit{
		ModuleName:  "probe",
		PackageName: "main",
		Source: "package main\n\n" +
			"import \"fmt\"\n\n" +
			"func main() {\n" +
			"\tdata, err := KilnResource(\"greeting.txt\")\n" +
			"\tif err != nil {\n" +
			"\t\tpanic(err)\n" +
			"\t}\n" +
			"\tfmt.Println(string(data))\n" +
			"}\n",
		Resources: []types.EmbeddedResource{
			{Name: "greeting.txt", Data: payload, Public: true},
		},
		References: types.NewReferenceSet("1.21.0", nil),
		Options:    options,
	}

	artifact, rawOutput, err := config.Compile(context.Background(), unit)
	require.NoError(t, err, rawOutput)
	require.NotNil(t, artifact)

	assert.Equal(t, "probe", artifact.ModuleName)
	assert.Equal(t, types.BuildModeExe, artifact.BuildMode)
	assert.NotEmpty(t, artifact.Binary)

	// The embedded resource bytes must land in the binary verbatim.
	assert.True(t, bytes.Contains(artifact.Binary, payload))

	// The build metadata rides inside the binary as an internal resource.
	metadata := types.ExtractArtifactMetadata(artifact.Binary)
	require.NotNil(t, metadata)
	assert.Equal(t, "probe", metadata.ModuleName)
	assert.Equal(t, "gotoolchain", metadata.Backend)
	assert.NotEmpty(t, metadata.CompilerVersion)

	// Only the caller's resources appear on the artifact itself.
	assert.NotNil(t, artifact.Resource("greeting.txt"))
	assert.Nil(t, artifact.Resource(types.MetadataResourceName))
}

// TestGoToolchainCompileDeterministic ensures compiling the same unit twice produces
// artifacts with identical digests.
func TestGoToolchainCompileDeterministic(t *testing.T) {
	requireGoToolchain(t)

	config := NewGoToolchainConfig()
	config.BuildDirectory = t.TempDir()

	options := types.DefaultCompilationOptions()
	options.BuildMode = types.BuildModeExe
	unit := &types.CompilationUnit{
		ModuleName:  "probe",
		PackageName: "main",
		Source:      "package main\n\nfunc main() {}\n",
		References:  types.NewReferenceSet("1.21.0", nil),
		Options:     options,
	}

	first, rawOutput, err := config.Compile(context.Background(), unit)
	require.NoError(t, err, rawOutput)
	second, rawOutput, err := config.Compile(context.Background(), unit)
	require.NoError(t, err, rawOutput)

	firstDigest, err := first.Digest()
	require.NoError(t, err)
	secondDigest, err := second.Digest()
	require.NoError(t, err)
	assert.Equal(t, firstDigest, secondDigest)
}

// TestGoToolchainCompileTypeErrorDiagnostics ensures compiler rejections surface as a
// compilation error carrying positioned diagnostics.
func TestGoToolchainCompileTypeErrorDiagnostics(t *testing.T) {
	requireGoToolchain(t)

	config := NewGoToolchainConfig()
	config.BuildDirectory = t.TempDir()

	options := types.DefaultCompilationOptions()
	options.BuildMode = types.BuildModeExe
	unit := &types.CompilationUnit{
		ModuleName:  "broken",
		PackageName: "main",
		Source:      "package main\n\nfunc main() {\n\tundeclaredIdentifier()\n}\n",
		References:  types.NewReferenceSet("1.21.0", nil),
		Options:     options,
	}

	artifact, _, err := config.Compile(context.Background(), unit)
	require.Error(t, err)
	assert.Nil(t, artifact)

	var compilationErr *types.CompilationError
	require.True(t, errors.As(err, &compilationErr))
	require.True(t, compilationErr.HasErrors())
	assert.Contains(t, err.Error(), "undefined: undeclaredIdentifier")

	// At least one diagnostic must point into the unit's source file.
	positioned := false
	for _, diagnostic := range compilationErr.Diagnostics {
		if strings.HasSuffix(diagnostic.File, "broken.go") && diagnostic.Line == 4 {
			positioned = true
		}
	}
	assert.True(t, positioned)
}

// TestGoToolchainCompileCanceledContext ensures an already canceled context aborts the
// compilation with the context's error rather than a diagnostics error.
func TestGoToolchainCompileCanceledContext(t *testing.T) {
	requireGoToolchain(t)

	config := NewGoToolchainConfig()
	config.BuildDirectory = t.TempDir()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	options := types.DefaultCompilationOptions()
	options.BuildMode = types.BuildModeExe
	unit := &types.CompilationUnit{
		ModuleName:  "probe",
		PackageName: "main",
		Source:      "package main\n\nfunc main() {}\n",
		References:  types.NewReferenceSet("1.21.0", nil),
		Options:     options,
	}

	_, _, err := config.Compile(ctx, unit)
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
}
