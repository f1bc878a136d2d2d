package types

import (
	"bytes"

	"github.com/fxamacker/cbor"
)

// MetadataResourceName describes the name of the internal resource backends embed build
// metadata under. The resource is never listed on the artifact; it exists so an emitted
// module can be identified later without loading or executing it.
const MetadataResourceName = "kiln.metadata.cbor"

// artifactMetadataMarker describes the byte sequence prefixed to the CBOR-encoded metadata
// embedded within emitted binaries. Embedded resource bytes land verbatim in the binary, so
// extraction scans for this sequence from the end of the module. The NUL framing keeps the
// marker from colliding with ordinary embedded text.
var artifactMetadataMarker = []byte{0x00, 'k', 'i', 'l', 'n', ':', 'm', 'e', 't', 'a', 0x00}

// ArtifactMetadata is a CBOR-encoded structure describing build information which is
// embedded within binary modules emitted by compilation backends.
type ArtifactMetadata struct {
	// ModuleName describes the module identity the binary was compiled under.
	ModuleName string `cbor:"moduleName"`

	// GoVersion describes the toolchain version that emitted the module.
	GoVersion string `cbor:"goVersion"`

	// Backend describes the identifier of the backend that emitted the module.
	Backend string `cbor:"backend"`

	// CompilerVersion describes the version of this compiler that requested emission.
	CompilerVersion string `cbor:"compilerVersion"`
}

// EncodeArtifactMetadata encodes the provided metadata into its marker-prefixed canonical
// CBOR form, suitable for embedding into an emitted module as an internal resource.
func EncodeArtifactMetadata(metadata ArtifactMetadata) ([]byte, error) {
	encoded, err := cbor.Marshal(metadata, cbor.CanonicalEncOptions())
	if err != nil {
		return nil, err
	}
	return append(bytes.Clone(artifactMetadataMarker), encoded...), nil
}

// ExtractArtifactMetadata extracts build metadata from the provided binary module and
// returns it. If no metadata could be located or decoded, nil is returned.
func ExtractArtifactMetadata(binary []byte) *ArtifactMetadata {
	// Metadata is embedded near read-only data, so search for the marker from the end.
	metadataOffset := bytes.LastIndex(binary, artifactMetadataMarker)
	if metadataOffset == -1 {
		return nil
	}

	// Decode the metadata following the marker. The decoder reads a single CBOR item and
	// ignores whatever binary content follows it.
	var metadata ArtifactMetadata
	err := cbor.Unmarshal(binary[metadataOffset+len(artifactMetadataMarker):], &metadata)
	if err != nil {
		return nil
	}
	return &metadata
}
