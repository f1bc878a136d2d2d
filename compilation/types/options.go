package types

import (
	"github.com/pkg/errors"
)

// BuildMode describes the kind of binary module a compilation backend emits.
type BuildMode string

const (
	// BuildModePlugin describes emission of a shared object the host process can load and
	// resolve symbols from at runtime.
	BuildModePlugin BuildMode = "plugin"

	// BuildModeExe describes emission of a standalone executable.
	BuildModeExe BuildMode = "exe"

	// BuildModeArchive describes emission of a non-executable archive for later linking.
	BuildModeArchive BuildMode = "archive"

	// BuildModeWASM describes emission of a WebAssembly module.
	BuildModeWASM BuildMode = "wasm"
)

// OptimizationLevel describes how aggressively a backend optimizes emitted code.
type OptimizationLevel string

const (
	// OptimizationRelease describes fully optimized emission.
	OptimizationRelease OptimizationLevel = "release"

	// OptimizationDebug describes emission with optimizations and inlining disabled, keeping
	// the binary friendly to debuggers.
	OptimizationDebug OptimizationLevel = "debug"
)

// IdentityPolicy describes how the versions carried by a reference set are interpreted when
// the backend resolves imports for a compilation unit.
type IdentityPolicy string

const (
	// IdentityExact pins every reference at the exact version the host resolved, carrying
	// replacement directives so compiled code links the same module bodies the host did.
	IdentityExact IdentityPolicy = "exact"

	// IdentityMinimum treats the host-resolved versions as minimums, allowing standard
	// version resolution to select newer compatible versions when the unit requires them.
	// Replacement directives from the host build are not carried.
	IdentityMinimum IdentityPolicy = "minimum"
)

// CompilationOptions describes the fixed emission configuration a compilation service is
// constructed with. Options are set once and shared, unchanged, by every compilation the
// service performs for its whole lifetime.
type CompilationOptions struct {
	// BuildMode describes the kind of binary module to emit.
	BuildMode BuildMode `json:"buildMode"`

	// Optimization describes the optimization level modules are emitted with.
	Optimization OptimizationLevel `json:"optimization"`

	// LanguageVersion describes the language version source text is compiled as, e.g.
	// "1.23". An empty string selects the latest version the backend toolchain supports.
	LanguageVersion string `json:"languageVersion"`

	// IdentityPolicy describes how reference versions are interpreted during import
	// resolution.
	IdentityPolicy IdentityPolicy `json:"identityPolicy"`
}

// DefaultCompilationOptions returns the options a service uses when a project does not
// override them: optimized shared objects, latest language version, exact reference
// identity.
func DefaultCompilationOptions() CompilationOptions {
	return CompilationOptions{
		BuildMode:       BuildModePlugin,
		Optimization:    OptimizationRelease,
		LanguageVersion: "",
		IdentityPolicy:  IdentityExact,
	}
}

// Validate validates the options describe a supported emission configuration, returning an
// error if they do not.
func (o CompilationOptions) Validate() error {
	switch o.BuildMode {
	case BuildModePlugin, BuildModeExe, BuildModeArchive, BuildModeWASM:
	default:
		return errors.Errorf("invalid build mode '%s'", o.BuildMode)
	}
	switch o.Optimization {
	case OptimizationRelease, OptimizationDebug:
	default:
		return errors.Errorf("invalid optimization level '%s'", o.Optimization)
	}
	switch o.IdentityPolicy {
	case IdentityExact, IdentityMinimum:
	default:
		return errors.Errorf("invalid identity policy '%s'", o.IdentityPolicy)
	}
	return nil
}
