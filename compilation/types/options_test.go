package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestCompilationOptionsValidation tests that only supported emission configurations pass
// validation.
func TestCompilationOptionsValidation(t *testing.T) {
	// Verify the defaults validate.
	options := DefaultCompilationOptions()
	assert.NoError(t, options.Validate())
	assert.Equal(t, BuildModePlugin, options.BuildMode)
	assert.Equal(t, OptimizationRelease, options.Optimization)
	assert.Equal(t, IdentityExact, options.IdentityPolicy)

	// Verify every supported build mode validates.
	for _, mode := range []BuildMode{BuildModePlugin, BuildModeExe, BuildModeArchive, BuildModeWASM} {
		options = DefaultCompilationOptions()
		options.BuildMode = mode
		assert.NoError(t, options.Validate())
	}

	// Verify unsupported values are rejected.
	options = DefaultCompilationOptions()
	options.BuildMode = "shared"
	assert.Error(t, options.Validate())

	options = DefaultCompilationOptions()
	options.Optimization = "fast"
	assert.Error(t, options.Validate())

	options = DefaultCompilationOptions()
	options.IdentityPolicy = "loose"
	assert.Error(t, options.Validate())
}

// TestModuleNameValidation tests module identity validation for compilation units.
func TestModuleNameValidation(t *testing.T) {
	// Verify reasonable module names are accepted.
	for _, name := range []string{"generatedassembly", "Foo", "my-module.v2", "pkg_7"} {
		assert.NoError(t, ValidateModuleName(name), "expected module name to be accepted: %s", name)
	}

	// Verify names which would break scratch workspace layout are rejected.
	for _, name := range []string{"", ".", "..", "-lead", ".hidden", "a/b", `a\b`, "a b", "a\nb"} {
		assert.Error(t, ValidateModuleName(name), "expected module name to be rejected: %q", name)
	}
}

// TestResourceNameValidation tests embedded resource name validation.
func TestResourceNameValidation(t *testing.T) {
	// Verify the canonical descriptor name validates.
	resource := EmbeddedResource{Name: PackageDescriptorName("Foo"), Data: []byte("<package/>"), Public: true}
	assert.Equal(t, "Foo.package.xml", resource.Name)
	assert.NoError(t, resource.Validate())

	// Verify names which cannot be embedded are rejected.
	for _, name := range []string{"", ".", "..", "a/b", `a\b`, ".hidden", "_internal"} {
		resource = EmbeddedResource{Name: name}
		assert.Error(t, resource.Validate(), "expected resource name to be rejected: %q", name)
	}
}
