package backends

import (
	"context"

	"github.com/kilnworks/kiln/compilation/types"
)

// BackendConfig describes the interface all compilation backend configs must implement.
type BackendConfig interface {
	// Compile emits the provided compilation unit as a binary module artifact. It returns
	// the artifact and any raw toolchain output captured for display. Failures caused by
	// the source text are returned as a *types.CompilationError carrying the compiler's
	// diagnostics; failures invoking the toolchain itself are returned as plain errors.
	Compile(ctx context.Context, unit *types.CompilationUnit) (*types.Artifact, string, error)

	// Backend returns the unique identifier of the backend.
	Backend() string

	// GetToolchain returns the toolchain executable the backend invokes.
	GetToolchain() string

	// SetToolchain sets a new toolchain executable for the backend to invoke.
	SetToolchain(string)
}
