package types

import (
	"bytes"
	"encoding/hex"
	"os"

	"github.com/fxamacker/cbor"
	"golang.org/x/crypto/sha3"
)

// Artifact describes a successfully emitted binary module, along with the resources that
// were embedded into it. Artifacts are plain values: they hold the emitted bytes in memory
// and are only written to disk when a caller explicitly asks for it.
type Artifact struct {
	// ModuleName describes the module identity the binary was compiled under.
	ModuleName string `json:"moduleName"`

	// BuildMode describes the kind of binary module that was emitted.
	BuildMode BuildMode `json:"buildMode"`

	// Binary describes the raw bytes of the emitted module.
	Binary []byte `json:"binary"`

	// Resources describes the resources embedded in the module, in embedding order.
	Resources []EmbeddedResource `json:"resources,omitempty"`
}

// artifactDigestEnvelope describes the canonical encoding an artifact digest is computed
// over. Field order is irrelevant as encoding is canonical, but the envelope keeps the
// digest independent of any fields later added to Artifact for bookkeeping.
type artifactDigestEnvelope struct {
	ModuleName string             `cbor:"moduleName"`
	BuildMode  string             `cbor:"buildMode"`
	Binary     []byte             `cbor:"binary"`
	Resources  []EmbeddedResource `cbor:"resources"`
}

// Reader returns a reader over the emitted binary, for callers which stream the module
// rather than holding their own copy of the bytes.
func (a *Artifact) Reader() *bytes.Reader {
	return bytes.NewReader(a.Binary)
}

// Size returns the size of the emitted binary in bytes.
func (a *Artifact) Size() int {
	return len(a.Binary)
}

// Resource returns the embedded resource with the provided name, or nil if the artifact
// carries no resource under that name.
func (a *Artifact) Resource(name string) *EmbeddedResource {
	for i := range a.Resources {
		if a.Resources[i].Name == name {
			return &a.Resources[i]
		}
	}
	return nil
}

// WriteToFile writes the emitted binary to the provided path, creating or truncating the
// file. Any error encountered while writing is returned exactly as the platform produced
// it.
func (a *Artifact) WriteToFile(path string) error {
	return os.WriteFile(path, a.Binary, 0644)
}

// Digest computes a deterministic hex-encoded SHA3-256 digest of the artifact. The digest is
// computed over a canonical CBOR encoding of the module name, build mode, binary and
// embedded resources, so two artifacts with identical contents always share a digest
// regardless of where or when they were emitted.
func (a *Artifact) Digest() (string, error) {
	encoded, err := cbor.Marshal(artifactDigestEnvelope{
		ModuleName: a.ModuleName,
		BuildMode:  string(a.BuildMode),
		Binary:     a.Binary,
		Resources:  a.Resources,
	}, cbor.CanonicalEncOptions())
	if err != nil {
		return "", err
	}
	hash := sha3.Sum256(encoded)
	return hex.EncodeToString(hash[:]), nil
}
