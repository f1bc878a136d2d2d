package types

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestArtifactDigestDeterminism tests that artifacts with identical contents share a digest
// and that any content difference changes it.
func TestArtifactDigestDeterminism(t *testing.T) {
	artifact := &Artifact{
		ModuleName: "generatedassembly",
		BuildMode:  BuildModePlugin,
		Binary:     []byte{0x7f, 0x45, 0x4c, 0x46, 0x01, 0x02},
		Resources: []EmbeddedResource{
			{Name: "Foo.package.xml", Data: []byte("<package/>"), Public: true},
		},
	}

	// Verify an identical artifact produces an identical digest.
	identical := &Artifact{
		ModuleName: "generatedassembly",
		BuildMode:  BuildModePlugin,
		Binary:     []byte{0x7f, 0x45, 0x4c, 0x46, 0x01, 0x02},
		Resources: []EmbeddedResource{
			{Name: "Foo.package.xml", Data: []byte("<package/>"), Public: true},
		},
	}
	digest, err := artifact.Digest()
	assert.NoError(t, err)
	identicalDigest, err := identical.Digest()
	assert.NoError(t, err)
	assert.Equal(t, digest, identicalDigest)
	assert.Len(t, digest, 64)

	// Verify changing the binary changes the digest.
	identical.Binary[0] = 0x00
	changedDigest, err := identical.Digest()
	assert.NoError(t, err)
	assert.NotEqual(t, digest, changedDigest)
}

// TestArtifactResourceLookup tests resource lookup by name.
func TestArtifactResourceLookup(t *testing.T) {
	artifact := &Artifact{
		ModuleName: "Foo",
		BuildMode:  BuildModePlugin,
		Binary:     []byte{0x01},
		Resources: []EmbeddedResource{
			{Name: PackageDescriptorName("Foo"), Data: []byte("<package/>"), Public: true},
		},
	}

	resource := artifact.Resource("Foo.package.xml")
	assert.NotNil(t, resource)
	assert.True(t, resource.Public)
	assert.Equal(t, []byte("<package/>"), resource.Data)
	assert.Nil(t, artifact.Resource("missing.bin"))
}

// TestArtifactWriteToFile tests that writing an artifact to disk persists the emitted binary
// byte for byte.
func TestArtifactWriteToFile(t *testing.T) {
	artifact := &Artifact{
		ModuleName: "generatedassembly",
		BuildMode:  BuildModeExe,
		Binary:     []byte{0xca, 0xfe, 0xba, 0xbe},
	}

	// Write the binary out and read it back.
	path := filepath.Join(t.TempDir(), "generatedassembly.bin")
	err := artifact.WriteToFile(path)
	assert.NoError(t, err)
	written, err := os.ReadFile(path)
	assert.NoError(t, err)
	assert.Equal(t, artifact.Binary, written)
	assert.Equal(t, len(artifact.Binary), artifact.Size())

	// Verify the reader streams the same bytes.
	streamed, err := io.ReadAll(artifact.Reader())
	assert.NoError(t, err)
	assert.Equal(t, artifact.Binary, streamed)
}
