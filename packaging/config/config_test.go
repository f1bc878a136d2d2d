package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/kilnworks/kiln/compilation"
	"github.com/kilnworks/kiln/compilation/backends"
	"github.com/kilnworks/kiln/compilation/types"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestGetDefaultProjectConfig ensures the default configuration is complete and valid for a
// supported backend.
func TestGetDefaultProjectConfig(t *testing.T) {
	projectConfig, err := GetDefaultProjectConfig("gotoolchain")
	require.NoError(t, err)

	require.NotNil(t, projectConfig.Compilation)
	assert.Equal(t, "gotoolchain", projectConfig.Compilation.Backend)
	assert.Equal(t, types.BuildModePlugin, projectConfig.Packaging.BuildMode)
	assert.Equal(t, types.OptimizationRelease, projectConfig.Packaging.Optimization)
	assert.Equal(t, types.IdentityExact, projectConfig.Packaging.IdentityPolicy)
	assert.Equal(t, compilation.ReferenceModeHost, projectConfig.Packaging.References.Mode)
	assert.Equal(t, zerolog.InfoLevel, projectConfig.Logging.Level)

	assert.NoError(t, projectConfig.Validate())
}

// TestGetDefaultProjectConfigWithoutBackend ensures an empty backend produces a
// configuration which cannot validate until a compilation configuration is attached.
func TestGetDefaultProjectConfigWithoutBackend(t *testing.T) {
	projectConfig, err := GetDefaultProjectConfig("")
	require.NoError(t, err)
	assert.Nil(t, projectConfig.Compilation)
	assert.Error(t, projectConfig.Validate())
}

// TestGetDefaultProjectConfigUnknownBackend ensures unknown backends are rejected.
func TestGetDefaultProjectConfigUnknownBackend(t *testing.T) {
	_, err := GetDefaultProjectConfig("roslyn")
	assert.Error(t, err)
}

// TestProjectConfigReadWriteRoundTrip ensures a configuration written to file reads back
// with equivalent contents.
func TestProjectConfigReadWriteRoundTrip(t *testing.T) {
	projectConfig, err := GetDefaultProjectConfig("gotoolchain")
	require.NoError(t, err)
	projectConfig.Packaging.BuildMode = types.BuildModeWASM
	projectConfig.Packaging.LanguageVersion = "1.21"
	projectConfig.Logging.LogDirectory = "logs"

	path := filepath.Join(t.TempDir(), "kiln.json")
	require.NoError(t, projectConfig.WriteToFile(path))

	read, err := ReadProjectConfigFromFile(path)
	require.NoError(t, err)

	assert.Equal(t, projectConfig.Packaging, read.Packaging)
	assert.Equal(t, projectConfig.Logging, read.Logging)

	require.NotNil(t, read.Compilation)
	assert.Equal(t, "gotoolchain", read.Compilation.Backend)

	// The backend configuration must survive the round trip semantically.
	backendConfig, err := read.Compilation.GetBackendConfig()
	require.NoError(t, err)
	goConfig, ok := backendConfig.(*backends.GoToolchainConfig)
	require.True(t, ok)
	assert.Equal(t, "go", goConfig.Toolchain)
}

// TestReadProjectConfigOverlaysDefaults ensures fields absent from the file keep their
// default values.
func TestReadProjectConfigOverlaysDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "kiln.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"packaging": {"buildMode": "exe"}}`), 0644))

	read, err := ReadProjectConfigFromFile(path)
	require.NoError(t, err)

	// The file's setting wins; everything else keeps its default.
	assert.Equal(t, types.BuildModeExe, read.Packaging.BuildMode)
	assert.Equal(t, zerolog.InfoLevel, read.Logging.Level)

	// No compilation configuration was provided, so the result cannot validate.
	assert.Nil(t, read.Compilation)
	assert.Error(t, read.Validate())
}

// TestReadProjectConfigMissingFile ensures a missing configuration file surfaces as a
// not-exist error.
func TestReadProjectConfigMissingFile(t *testing.T) {
	_, err := ReadProjectConfigFromFile(filepath.Join(t.TempDir(), "missing.json"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, fs.ErrNotExist))
}

// TestProjectConfigValidate exercises the configuration consistency rules.
func TestProjectConfigValidate(t *testing.T) {
	// An unsupported backend identifier is rejected.
	projectConfig, err := GetDefaultProjectConfig("gotoolchain")
	require.NoError(t, err)
	projectConfig.Compilation = &compilation.CompilationConfig{Backend: "roslyn"}
	assert.Error(t, projectConfig.Validate())

	// Invalid emission options are rejected.
	projectConfig, err = GetDefaultProjectConfig("gotoolchain")
	require.NoError(t, err)
	projectConfig.Packaging.Optimization = "fastest"
	assert.Error(t, projectConfig.Validate())

	// Inconsistent reference configurations are rejected.
	projectConfig, err = GetDefaultProjectConfig("gotoolchain")
	require.NoError(t, err)
	projectConfig.Packaging.References.Mode = "bogus"
	assert.Error(t, projectConfig.Validate())
}
