package compilation

import (
	"runtime"
	"runtime/debug"
	"strings"

	"github.com/kilnworks/kiln/compilation/types"
	"github.com/kilnworks/kiln/utils"
	"github.com/pkg/errors"
	"golang.org/x/exp/slices"
)

// ReferenceResolutionError describes a fatal failure to gather reference metadata when a
// compilation service is constructed. Reference resolution happens exactly once, so this
// error is surfaced at construction time rather than on a later compile call.
type ReferenceResolutionError struct {
	// Reason describes why reference metadata could not be gathered.
	Reason string
}

// Error implements the error interface and returns the reason resolution failed.
func (e *ReferenceResolutionError) Error() string {
	return "could not resolve compilation references: " + e.Reason
}

// ReferenceMode describes the strategy used to build a service's reference set.
type ReferenceMode string

const (
	// ReferenceModeHost gathers references from the host process's own resolved dependency
	// closure, so compiled code can link the same libraries the host links.
	ReferenceModeHost ReferenceMode = "host"

	// ReferenceModeExplicit uses only the references listed in the configuration.
	ReferenceModeExplicit ReferenceMode = "explicit"
)

// ReferenceConfig describes how the immutable reference set of a compilation service is
// built at construction time.
type ReferenceConfig struct {
	// Mode describes the resolution strategy. An empty mode defaults to host resolution.
	Mode ReferenceMode `json:"mode"`

	// Explicit describes the references used when Mode is ReferenceModeExplicit.
	Explicit []types.Reference `json:"explicit,omitempty"`

	// ExcludePaths describes module paths stripped from the resolved set, e.g. host-only
	// tooling that compiled code should never link against.
	ExcludePaths []string `json:"excludePaths,omitempty"`
}

// DefaultReferenceConfig returns a ReferenceConfig resolving references from the host
// process's dependency closure.
func DefaultReferenceConfig() ReferenceConfig {
	return ReferenceConfig{
		Mode:         ReferenceModeHost,
		Explicit:     nil,
		ExcludePaths: nil,
	}
}

// Validate validates the reference configuration, returning an error if it is inconsistent.
func (c *ReferenceConfig) Validate() error {
	switch c.Mode {
	case "", ReferenceModeHost, ReferenceModeExplicit:
	default:
		return errors.Errorf("invalid reference resolution mode '%s'", c.Mode)
	}
	if c.Mode == ReferenceModeExplicit && len(c.Explicit) == 0 {
		return errors.New("explicit reference resolution requires at least one reference")
	}
	for _, reference := range c.Explicit {
		if reference.Path == "" {
			return errors.New("explicit references must carry a module path")
		}
	}
	return nil
}

// ResolveReferences builds the immutable reference set a compilation service will share
// across every compilation it performs, according to the provided configuration. A
// configuration which yields no usable reference metadata returns a
// *ReferenceResolutionError rather than an empty set.
func ResolveReferences(config ReferenceConfig) (*types.ReferenceSet, error) {
	switch config.Mode {
	case "", ReferenceModeHost:
		return resolveHostReferences(config.ExcludePaths)
	case ReferenceModeExplicit:
		return resolveExplicitReferences(config.Explicit, config.ExcludePaths)
	default:
		return nil, &ReferenceResolutionError{Reason: "unsupported resolution mode '" + string(config.Mode) + "'"}
	}
}

// resolveHostReferences reads the host process's embedded build information and converts its
// resolved dependency closure into a reference set.
func resolveHostReferences(excludePaths []string) (*types.ReferenceSet, error) {
	// Read the build information embedded into the host binary. This is unavailable when
	// the host was built outside of module mode.
	buildInfo, ok := debug.ReadBuildInfo()
	if !ok {
		return nil, &ReferenceResolutionError{Reason: "the host binary carries no build information (it was not built in module mode)"}
	}

	// Convert every resolved dependency into a reference handle, capturing any replacement
	// directives in effect so exact-identity compilations can honor them.
	references := make([]types.Reference, 0, len(buildInfo.Deps))
	for _, dep := range buildInfo.Deps {
		reference := types.Reference{
			Path:    dep.Path,
			Version: dep.Version,
		}
		if dep.Replace != nil {
			reference.ReplacePath = dep.Replace.Path
			reference.ReplaceVersion = dep.Replace.Version
		}
		references = append(references, reference)
	}
	references = excludeReferences(references, excludePaths)
	if len(references) == 0 {
		return nil, &ReferenceResolutionError{Reason: "the host dependency closure yielded no reference metadata"}
	}

	return types.NewReferenceSet(hostGoVersion(buildInfo), references), nil
}

// resolveExplicitReferences builds a reference set directly from configured references.
func resolveExplicitReferences(explicit []types.Reference, excludePaths []string) (*types.ReferenceSet, error) {
	references := excludeReferences(slices.Clone(explicit), excludePaths)
	if len(references) == 0 {
		return nil, &ReferenceResolutionError{Reason: "the configuration lists no references to resolve against"}
	}
	for _, reference := range references {
		if reference.Path == "" {
			return nil, &ReferenceResolutionError{Reason: "explicit references must carry a module path"}
		}
	}
	return types.NewReferenceSet(strings.TrimPrefix(runtime.Version(), "go"), references), nil
}

// excludeReferences strips references whose module paths appear in the exclusion list.
func excludeReferences(references []types.Reference, excludePaths []string) []types.Reference {
	if len(excludePaths) == 0 {
		return references
	}
	return utils.SliceWhere(references, func(reference types.Reference) bool {
		return !slices.Contains(excludePaths, reference.Path)
	})
}

// hostGoVersion extracts the host runtime version from build information, without the "go"
// prefix, falling back to the running toolchain version when unset.
func hostGoVersion(buildInfo *debug.BuildInfo) string {
	version := buildInfo.GoVersion
	if version == "" {
		version = runtime.Version()
	}
	return strings.TrimPrefix(version, "go")
}
