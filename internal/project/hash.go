package project

import (
	"crypto/sha256"
)

// Digest is a 256-bit content hash.
type Digest [32]byte

// HashContent digests the raw bytes of a unit file.
func HashContent(content []byte) Digest {
	return sha256.Sum256(content)
}

// Combine builds a unit hash: H(content || dep1 || dep2 ...). deps must
// come in a deterministic order.
func Combine(content Digest, deps ...Digest) Digest {
	h := sha256.New()
	_, _ = h.Write(content[:])
	for _, d := range deps {
		_, _ = h.Write(d[:])
	}
	var out Digest
	copy(out[:], h.Sum(nil))
	return out
}
