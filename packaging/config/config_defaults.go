package config

import (
	"github.com/kilnworks/kiln/compilation"
	"github.com/kilnworks/kiln/compilation/types"
	"github.com/rs/zerolog"
)

// GetDefaultProjectConfig obtains a default project configuration for the provided
// compilation backend. If the backend is an empty string, no compilation configuration is
// attached and one must be supplied before the configuration validates.
func GetDefaultProjectConfig(backend string) (*ProjectConfig, error) {
	var (
		compilationConfig *compilation.CompilationConfig
		err               error
	)
	if backend != "" {
		compilationConfig, err = compilation.NewCompilationConfig(backend)
		if err != nil {
			return nil, err
		}
	}

	// Create a project configuration
	projectConfig := &ProjectConfig{
		Packaging: PackagingConfig{
			BuildMode:       types.BuildModePlugin,
			Optimization:    types.OptimizationRelease,
			LanguageVersion: "",
			IdentityPolicy:  types.IdentityExact,
			References:      compilation.DefaultReferenceConfig(),
		},
		Compilation: compilationConfig,
		Logging: LoggingConfig{
			Level:        zerolog.InfoLevel,
			LogDirectory: "",
			NoColor:      false,
		},
	}

	// Return the project configuration
	return projectConfig, nil
}
