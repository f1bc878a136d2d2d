package compilation

import (
	"context"
	"testing"

	"github.com/kilnworks/kiln/compilation/backends"
	"github.com/kilnworks/kiln/compilation/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestNewCompilationConfig ensures a default configuration round-trips through its raw
// backend configuration into the concrete backend type.
func TestNewCompilationConfig(t *testing.T) {
	config, err := NewCompilationConfig("gotoolchain")
	require.NoError(t, err)
	assert.Equal(t, "gotoolchain", config.Backend)

	backendConfig, err := config.GetBackendConfig()
	require.NoError(t, err)

	goConfig, ok := backendConfig.(*backends.GoToolchainConfig)
	require.True(t, ok)
	assert.Equal(t, "go", goConfig.Toolchain)
}

// TestNewCompilationConfigUnsupported ensures unknown backends are rejected.
func TestNewCompilationConfigUnsupported(t *testing.T) {
	_, err := NewCompilationConfig("roslyn")
	assert.Error(t, err)
}

// TestNewCompilationConfigFromBackendConfig ensures a concrete backend configuration is
// preserved through serialization.
func TestNewCompilationConfigFromBackendConfig(t *testing.T) {
	tinygoConfig := backends.NewTinyGoConfig()
	tinygoConfig.Target = "wasip1"

	config, err := NewCompilationConfigFromBackendConfig(tinygoConfig)
	require.NoError(t, err)
	assert.Equal(t, "tinygo", config.Backend)

	backendConfig, err := config.GetBackendConfig()
	require.NoError(t, err)
	roundTripped, ok := backendConfig.(*backends.TinyGoConfig)
	require.True(t, ok)
	assert.Equal(t, "wasip1", roundTripped.Target)
}

// TestSetBackendConfig ensures updating the backend configuration rewrites both the raw
// configuration and the backend identifier.
func TestSetBackendConfig(t *testing.T) {
	config, err := NewCompilationConfig("gotoolchain")
	require.NoError(t, err)

	backendConfig, err := config.GetBackendConfig()
	require.NoError(t, err)
	goConfig := backendConfig.(*backends.GoToolchainConfig)
	goConfig.BuildDirectory = "/var/kiln/builds"
	require.NoError(t, config.SetBackendConfig(goConfig))

	backendConfig, err = config.GetBackendConfig()
	require.NoError(t, err)
	assert.Equal(t, "/var/kiln/builds", backendConfig.(*backends.GoToolchainConfig).BuildDirectory)

	// Swapping in a different backend's configuration also updates the identifier.
	require.NoError(t, config.SetBackendConfig(backends.NewTinyGoConfig()))
	assert.Equal(t, "tinygo", config.Backend)
}

// TestGetBackendConfigUnsupported ensures configurations referencing unknown backends
// cannot be resolved or compiled with.
func TestGetBackendConfigUnsupported(t *testing.T) {
	config := &CompilationConfig{Backend: "roslyn"}

	_, err := config.GetBackendConfig()
	assert.Error(t, err)

	_, _, err = config.Compile(context.Background(), &types.CompilationUnit{ModuleName: "probe"})
	assert.Error(t, err)
}
