package compilation

import (
	"context"
	"testing"

	"github.com/kilnworks/kiln/compilation/backends"
	"github.com/kilnworks/kiln/compilation/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testBackendConfig is a minimal backend configuration used to exercise registry behavior.
type testBackendConfig struct {
	Id        string `json:"id"`
	Toolchain string `json:"toolchain"`
}

func (c *testBackendConfig) Compile(_ context.Context, _ *types.CompilationUnit) (*types.Artifact, string, error) {
	return nil, "", nil
}

func (c *testBackendConfig) Backend() string {
	return c.Id
}

func (c *testBackendConfig) GetToolchain() string {
	return c.Toolchain
}

func (c *testBackendConfig) SetToolchain(toolchain string) {
	c.Toolchain = toolchain
}

// TestGetSupportedCompilationBackends ensures the built-in backends are registered and
// reported in sorted order.
func TestGetSupportedCompilationBackends(t *testing.T) {
	supported := GetSupportedCompilationBackends()
	assert.Contains(t, supported, "gotoolchain")
	assert.Contains(t, supported, "tinygo")
	assert.IsIncreasing(t, supported)
}

// TestIsSupportedCompilationBackend ensures backend support checks match the registry.
func TestIsSupportedCompilationBackend(t *testing.T) {
	assert.True(t, IsSupportedCompilationBackend("gotoolchain"))
	assert.True(t, IsSupportedCompilationBackend("tinygo"))
	assert.False(t, IsSupportedCompilationBackend("roslyn"))
	assert.False(t, IsSupportedCompilationBackend(""))
}

// TestGetDefaultBackendConfig ensures default configurations are generated per backend and
// unknown backends yield nothing.
func TestGetDefaultBackendConfig(t *testing.T) {
	config := GetDefaultBackendConfig("gotoolchain")
	require.NotNil(t, config)
	assert.Equal(t, "gotoolchain", config.Backend())

	// Each call generates a fresh configuration.
	other := GetDefaultBackendConfig("gotoolchain")
	config.SetToolchain("/nowhere/go")
	assert.NotEqual(t, config.GetToolchain(), other.GetToolchain())

	assert.Nil(t, GetDefaultBackendConfig("roslyn"))
}

// TestRegisterCompilationBackendRejectsDuplicates ensures a backend identifier cannot be
// claimed by more than one provider.
func TestRegisterCompilationBackendRejectsDuplicates(t *testing.T) {
	assert.Panics(t, func() {
		RegisterCompilationBackend(func() backends.BackendConfig {
			return &testBackendConfig{Id: "gotoolchain"}
		})
	})
}
