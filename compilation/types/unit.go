package types

import (
	"regexp"
	"strings"

	"github.com/pkg/errors"
)

// moduleNamePattern describes the module names accepted for compilation units. Names become
// module directives and file names in scratch workspaces, so path separators, whitespace and
// leading punctuation are rejected.
var moduleNamePattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._-]*$`)

// ValidateModuleName validates the provided name is usable as the module identity of an
// emitted binary, returning an error if it is not.
func ValidateModuleName(name string) error {
	if name == "" {
		return errors.New("module names cannot be empty")
	}
	if !moduleNamePattern.MatchString(name) {
		return errors.Errorf("invalid module name '%s': names must begin with a letter or digit and may only contain letters, digits, dots, dashes and underscores", name)
	}
	return nil
}

// CompilationUnit describes the in-memory representation of a single ad-hoc compilation: the
// source text to compile, the resources to embed, the reference set imports are resolved
// against, and the fixed options the unit is emitted with. Units are self-contained and
// independent of one another, so concurrent compilations never share mutable state.
type CompilationUnit struct {
	// ModuleName describes the module identity the emitted binary is compiled under.
	ModuleName string

	// PackageName describes the package clause parsed out of the source text.
	PackageName string

	// Source describes the complete source text of the unit. Units are single-file: there is
	// no project or workspace surrounding them.
	Source string

	// Resources describes the resources embedded into the emitted module, in order.
	Resources []EmbeddedResource

	// References describes the reference set the unit resolves external imports against.
	References *ReferenceSet

	// Options describes the fixed options the unit is emitted with.
	Options CompilationOptions
}

// SourceFileName returns the file name the unit's source text is parsed and compiled as.
// Parsing and emission use the same name so diagnostic positions always refer to one file.
func (u *CompilationUnit) SourceFileName() string {
	return strings.ToLower(u.ModuleName) + ".go"
}
