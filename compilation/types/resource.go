package types

import (
	"strings"

	"github.com/pkg/errors"
)

// PackageDescriptorSuffix describes the suffix appended to a package name to form the
// canonical name of the descriptor resource embedded in a compiled package module.
const PackageDescriptorSuffix = ".package.xml"

// EmbeddedResource describes a named blob of data carried inside an emitted binary module.
// Resources are written into the scratch workspace and embedded verbatim at build time, so
// their bytes can later be recovered from the module without re-reading the original input.
type EmbeddedResource struct {
	// Name describes the name the resource is embedded under. Names are flat: they must not
	// contain path separators or relative path components.
	Name string `json:"name"`

	// Data describes the raw contents of the resource.
	Data []byte `json:"data"`

	// Public describes whether the resource is reachable through an exported identifier of
	// the emitted module, rather than kept internal to it.
	Public bool `json:"public"`
}

// PackageDescriptorName returns the canonical name of the descriptor resource embedded in a
// compiled package module for the given package name.
func PackageDescriptorName(packageName string) string {
	return packageName + PackageDescriptorSuffix
}

// Validate validates the resource name is usable as an embedded file name, returning an
// error if it is not.
func (r *EmbeddedResource) Validate() error {
	if r.Name == "" {
		return errors.New("embedded resource names cannot be empty")
	}
	if strings.ContainsAny(r.Name, `/\`) {
		return errors.Errorf("embedded resource name '%s' cannot contain path separators", r.Name)
	}
	if r.Name == "." || r.Name == ".." {
		return errors.Errorf("embedded resource name '%s' is not a valid file name", r.Name)
	}
	// Embedding skips files whose names begin with these characters, so the resource would
	// silently vanish from the emitted module.
	if strings.HasPrefix(r.Name, ".") || strings.HasPrefix(r.Name, "_") {
		return errors.Errorf("embedded resource name '%s' cannot begin with a dot or underscore", r.Name)
	}
	return nil
}
