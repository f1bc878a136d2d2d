package compilation

import (
	"fmt"

	"github.com/kilnworks/kiln/compilation/backends"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// defaultBackendConfigGenerator is a mapping of backend identifier to generator functions which can be used to create
// a default configuration for the given backend. Each backend which provides a generator in this mapping will be
// considered a supported compilation backend for a CompilationConfig. Items are populated in the init method.
var defaultBackendConfigGenerator map[string]func() backends.BackendConfig

// init is called once per inclusion of a package. This method is used on startup to populate
// defaultBackendConfigGenerator and add supported backends.
func init() {
	// Initialize our backend config generator.
	defaultBackendConfigGenerator = make(map[string]func() backends.BackendConfig)

	// Register the generators for every built-in backend.
	RegisterCompilationBackend(func() backends.BackendConfig { return backends.NewGoToolchainConfig() })
	RegisterCompilationBackend(func() backends.BackendConfig { return backends.NewTinyGoConfig() })
}

// RegisterCompilationBackend registers a generator for a backend's default configuration,
// making the backend usable through a CompilationConfig. Backend identifiers must be unique:
// registering the same identifier from more than one provider panics.
func RegisterCompilationBackend(generator func() backends.BackendConfig) {
	// Generate a default config to obtain the backend id for it.
	backendId := generator().Backend()

	// If this backend already exists in our mapping, panic. Each backend should have a unique identifier.
	if _, backendIdExists := defaultBackendConfigGenerator[backendId]; backendIdExists {
		panic(fmt.Errorf("the compilation backend '%s' is registered with more than one provider", backendId))
	}

	// Add this entry to our mapping
	defaultBackendConfigGenerator[backendId] = generator
}

// GetSupportedCompilationBackends obtains a sorted list of strings which represent backend identifiers supported by
// methods in this package.
func GetSupportedCompilationBackends() []string {
	backendIds := maps.Keys(defaultBackendConfigGenerator)
	slices.Sort(backendIds)
	return backendIds
}

// IsSupportedCompilationBackend returns a boolean status indicating if a backend identifier is supported within this
// package.
func IsSupportedCompilationBackend(backend string) bool {
	// Verify the backend is in our supported map
	_, ok := defaultBackendConfigGenerator[backend]
	return ok
}

// GetDefaultBackendConfig returns a new default configuration for the provided backend
// identifier, or nil if the backend is unsupported.
func GetDefaultBackendConfig(backend string) backends.BackendConfig {
	generator, ok := defaultBackendConfigGenerator[backend]
	if !ok {
		return nil
	}
	return generator()
}
