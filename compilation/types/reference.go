package types

import (
	"golang.org/x/exp/slices"
)

// Reference describes a single opaque reference handle: one module requirement the compiled
// code may resolve its imports against.
type Reference struct {
	// Path describes the module path of the reference.
	Path string `json:"path"`

	// Version describes the module version the host resolved for this reference.
	Version string `json:"version"`

	// ReplacePath describes the module path of a replacement in effect in the host build, if
	// any. Empty when the reference is not replaced.
	ReplacePath string `json:"replacePath,omitempty"`

	// ReplaceVersion describes the version of the replacement module, if any.
	ReplaceVersion string `json:"replaceVersion,omitempty"`
}

// IsReplaced returns a boolean indicating whether a replacement directive was in effect for
// this reference in the host build.
func (r Reference) IsReplaced() bool {
	return r.ReplacePath != ""
}

// ReferenceSet describes every library a compilation unit may resolve its imports against,
// along with the runtime version compiled code must target. A set is assembled once, when a
// compilation service is constructed, and is never mutated afterwards: every accessor
// returns copies so callers cannot reach the underlying storage.
type ReferenceSet struct {
	// goVersion describes the version of the Go runtime the reference metadata was resolved
	// against, without the "go" prefix, e.g. "1.23.3".
	goVersion string

	// references describes the ordered, path-deduplicated reference handles within the set.
	references []Reference
}

// NewReferenceSet creates a ReferenceSet from the provided runtime version and reference
// handles. References are deduplicated by module path, keeping the first occurrence, and
// their relative order is preserved.
func NewReferenceSet(goVersion string, references []Reference) *ReferenceSet {
	deduplicated := make([]Reference, 0, len(references))
	seen := make(map[string]struct{}, len(references))
	for _, reference := range references {
		if _, ok := seen[reference.Path]; ok {
			continue
		}
		seen[reference.Path] = struct{}{}
		deduplicated = append(deduplicated, reference)
	}
	return &ReferenceSet{
		goVersion:  goVersion,
		references: deduplicated,
	}
}

// GoVersion returns the version of the Go runtime the reference metadata was resolved
// against.
func (s *ReferenceSet) GoVersion() string {
	return s.goVersion
}

// Count returns the number of reference handles within the set.
func (s *ReferenceSet) Count() int {
	return len(s.references)
}

// References returns a copy of the ordered reference handles within the set.
func (s *ReferenceSet) References() []Reference {
	return slices.Clone(s.references)
}

// ContainsPath returns a boolean indicating whether the set carries a reference for the
// provided module path.
func (s *ReferenceSet) ContainsPath(path string) bool {
	return slices.ContainsFunc(s.references, func(reference Reference) bool {
		return reference.Path == path
	})
}
