package dirhash

import (
	"bytes"
	"encoding/hex"
)

// Digest is the fixed-size output of a hash function. Digests are immutable
// once produced; the canonical lowercase hex form is used for ordering and
// serialization.
type Digest []byte

// Hex returns the canonical lowercase hexadecimal representation.
func (d Digest) Hex() string {
	return hex.EncodeToString(d)
}

// Equal reports whether two digests have identical byte sequences.
func (d Digest) Equal(other Digest) bool {
	return bytes.Equal(d, other)
}

// ParseDigest decodes a canonical hex string back into a Digest.
func ParseDigest(s string) (Digest, error) {
	b, err := hex.DecodeString(s)
	if err != nil {
		return nil, err
	}
	return Digest(b), nil
}
