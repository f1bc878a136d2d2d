package testutils

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// WriteSourceFile writes the provided source text into an ephemeral directory used for unit
// tests and returns the absolute path of the written file. The directory is cleaned up when
// the test completes.
func WriteSourceFile(t *testing.T, fileName string, sourceCode string) string {
	// Obtain an isolated test directory path.
	targetPath := filepath.Join(t.TempDir(), fileName)

	// Write our source text to the target destination.
	err := os.WriteFile(targetPath, []byte(sourceCode), 0644)
	require.NoError(t, err)

	// Get a normalized absolute path.
	targetPath, err = filepath.Abs(targetPath)
	require.NoError(t, err)
	return targetPath
}
