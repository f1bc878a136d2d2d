package types

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestArtifactMetadataRoundTrip tests that metadata embedded in the middle of arbitrary
// binary content can be located and decoded again.
func TestArtifactMetadataRoundTrip(t *testing.T) {
	metadata := ArtifactMetadata{
		ModuleName:      "generatedassembly",
		GoVersion:       "1.23.3",
		Backend:         "gotoolchain",
		CompilerVersion: "0.3.0",
	}
	encoded, err := EncodeArtifactMetadata(metadata)
	assert.NoError(t, err)

	// Surround the encoded metadata with unrelated binary content, the way it sits inside
	// an emitted module's read-only data.
	binary := append([]byte{0x7f, 0x45, 0x4c, 0x46, 0x00, 0x01}, encoded...)
	binary = append(binary, []byte("trailing rodata")...)

	extracted := ExtractArtifactMetadata(binary)
	assert.NotNil(t, extracted)
	assert.Equal(t, metadata, *extracted)
}

// TestArtifactMetadataAbsent tests that binaries without embedded metadata report none
// rather than erroring.
func TestArtifactMetadataAbsent(t *testing.T) {
	assert.Nil(t, ExtractArtifactMetadata([]byte("no metadata in here")))
	assert.Nil(t, ExtractArtifactMetadata(nil))
}

// TestArtifactMetadataCorrupt tests that a marker followed by undecodable bytes is treated
// as absent metadata.
func TestArtifactMetadataCorrupt(t *testing.T) {
	binary := append(bytes.Clone(artifactMetadataMarker), 0xff, 0xff, 0xff)
	assert.Nil(t, ExtractArtifactMetadata(binary))
}
