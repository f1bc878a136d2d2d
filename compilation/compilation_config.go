package compilation

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/kilnworks/kiln/compilation/backends"
	"github.com/kilnworks/kiln/compilation/types"
)

// CompilationConfig describes the configuration options used to emit a binary module from a
// compilation unit.
type CompilationConfig struct {
	// Backend references an identifier indicating which compilation backend to use.
	// BackendConfig is a structure dependent on the defined Backend.
	Backend string `json:"backend"`

	// BackendConfig describes the Backend-specific configuration needed to compile.
	BackendConfig *json.RawMessage `json:"backendConfig"`
}

// NewCompilationConfig returns a CompilationConfig with default values for a given backend identifier.
// If an error occurs, it is returned instead.
func NewCompilationConfig(backend string) (*CompilationConfig, error) {
	// Verify the backend is valid
	if !IsSupportedCompilationBackend(backend) {
		return nil, fmt.Errorf("could not get default compilation configs: backend '%s' is unsupported", backend)
	}

	// Wrap a default config for our backend
	return NewCompilationConfigFromBackendConfig(defaultBackendConfigGenerator[backend]())
}

// NewCompilationConfigFromBackendConfig takes a backends.BackendConfig and wraps it in a generic
// CompilationConfig. This allows many backend config types to be serialized/deserialized to their appropriate
// types and supported generally.
func NewCompilationConfigFromBackendConfig(backendConfig backends.BackendConfig) (*CompilationConfig, error) {
	// Marshal our config to a raw message
	b, err := json.Marshal(backendConfig)
	if err != nil {
		return nil, err
	}
	backendConfigMsg := (*json.RawMessage)(&b)

	// Return the compilation configs containing our backend-specific configs
	return &CompilationConfig{Backend: backendConfig.Backend(), BackendConfig: backendConfigMsg}, nil
}

// GetBackendConfig deserializes the inner backends.BackendConfig into its concrete backend
// type and returns it, or an error if one occurs.
func (c *CompilationConfig) GetBackendConfig() (backends.BackendConfig, error) {
	// Verify the backend is valid
	if !IsSupportedCompilationBackend(c.Backend) {
		return nil, fmt.Errorf("could not obtain backend configs: backend '%s' is unsupported", c.Backend)
	}

	// Allocate a backend config given our backend string in our compilation config
	// It is necessary to do so as json.Unmarshal needs a concrete structure to populate
	backendConfig := defaultBackendConfigGenerator[c.Backend]()
	if c.BackendConfig != nil {
		err := json.Unmarshal(*c.BackendConfig, &backendConfig)
		if err != nil {
			return nil, err
		}
	}
	return backendConfig, nil
}

// SetBackendConfig re-serializes the provided backend config into the generic wrapper,
// updating the backend identifier alongside it. This is used when command-line flags
// override individual backend settings.
func (c *CompilationConfig) SetBackendConfig(backendConfig backends.BackendConfig) error {
	// Marshal our config to a raw message
	b, err := json.Marshal(backendConfig)
	if err != nil {
		return err
	}

	// Update the wrapper in place
	c.Backend = backendConfig.Backend()
	c.BackendConfig = (*json.RawMessage)(&b)
	return nil
}

// Compile takes a generic CompilationConfig and deserializes the inner backends.BackendConfig, which
// is then used to emit the provided compilation unit. Returns the emitted artifact or an error, either of which may
// be accompanied by raw toolchain output for display.
func (c *CompilationConfig) Compile(ctx context.Context, unit *types.CompilationUnit) (*types.Artifact, string, error) {
	// Obtain the concrete backend config
	backendConfig, err := c.GetBackendConfig()
	if err != nil {
		return nil, "", err
	}

	// Compile using our backend configs
	return backendConfig.Compile(ctx, unit)
}
