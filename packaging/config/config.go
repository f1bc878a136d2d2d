package config

import (
	"encoding/json"
	"os"

	"github.com/kilnworks/kiln/compilation"
	"github.com/kilnworks/kiln/compilation/types"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

// ProjectConfig describes the project configuration a compilation service is constructed
// from.
type ProjectConfig struct {
	// Packaging describes the options used when compiling and packaging modules.
	Packaging PackagingConfig `json:"packaging"`

	// Compilation describes the backend configuration used to perform compilations.
	Compilation *compilation.CompilationConfig `json:"compilation"`

	// Logging describes the configuration used for logging to file and console.
	Logging LoggingConfig `json:"logging"`
}

// PackagingConfig describes the emission options fixed at service construction. Every
// compilation the service performs uses these options.
type PackagingConfig struct {
	// BuildMode describes the kind of binary module emitted by the service.
	BuildMode types.BuildMode `json:"buildMode"`

	// Optimization describes how aggressively emitted code is optimized.
	Optimization types.OptimizationLevel `json:"optimization"`

	// LanguageVersion describes the language version source is compiled as. If empty, the
	// newest version the backend toolchain supports is used.
	LanguageVersion string `json:"languageVersion,omitempty"`

	// IdentityPolicy describes how reference versions are carried into emitted modules.
	IdentityPolicy types.IdentityPolicy `json:"identityPolicy"`

	// References describes how the service's immutable reference set is resolved at
	// construction time.
	References compilation.ReferenceConfig `json:"references"`
}

// Options returns the compilation options fixed by this configuration.
func (c *PackagingConfig) Options() types.CompilationOptions {
	return types.CompilationOptions{
		BuildMode:       c.BuildMode,
		Optimization:    c.Optimization,
		LanguageVersion: c.LanguageVersion,
		IdentityPolicy:  c.IdentityPolicy,
	}
}

// LoggingConfig describes the configuration used for logging to file and console.
type LoggingConfig struct {
	// Level describes whether logs of certain severity levels (eg info, warning, etc.) are
	// emitted or discarded.
	Level zerolog.Level `json:"level"`

	// LogDirectory describes what directory log files should be output in. A non-empty
	// string enables logging to file.
	LogDirectory string `json:"logDirectory"`

	// NoColor indicates whether log messages should be displayed without colors.
	NoColor bool `json:"noColor"`
}

// ReadProjectConfigFromFile reads a JSON-serialized project configuration from a provided
// file path. Fields the file does not set keep their default values.
// Returns the project configuration, or an error if one occurs.
func ReadProjectConfigFromFile(path string) (*ProjectConfig, error) {
	// Read our project configuration file data
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	// Overlay the file's contents onto a default project configuration
	projectConfig, err := GetDefaultProjectConfig("")
	if err != nil {
		return nil, err
	}
	err = json.Unmarshal(b, projectConfig)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	return projectConfig, nil
}

// WriteToFile writes the ProjectConfig to a provided file path in a JSON-serialized format.
// Returns an error if one occurs.
func (p *ProjectConfig) WriteToFile(path string) error {
	// Serialize the configuration
	b, err := json.MarshalIndent(p, "", "\t")
	if err != nil {
		return errors.WithStack(err)
	}

	// Save it to the provided output path and return the result
	err = os.WriteFile(path, b, 0644)
	if err != nil {
		return errors.WithStack(err)
	}

	return nil
}

// Validate validates that the ProjectConfig meets certain requirements.
// Returns an error if one occurs.
func (p *ProjectConfig) Validate() error {
	// Verify a compilation backend was configured.
	if p.Compilation == nil {
		return errors.New("project configuration must specify a compilation configuration")
	}
	if !compilation.IsSupportedCompilationBackend(p.Compilation.Backend) {
		return errors.Errorf("project configuration references unsupported compilation backend '%s'", p.Compilation.Backend)
	}

	// Verify the fixed emission options describe a supported configuration.
	if err := p.Packaging.Options().Validate(); err != nil {
		return err
	}

	// Verify the reference resolution configuration is consistent.
	if err := p.Packaging.References.Validate(); err != nil {
		return err
	}
	return nil
}
