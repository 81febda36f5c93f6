package util

import (
	"crypto/sha256"
	"strings"
)

// Digest is the fixed-width content hash used for record deduplication.
type Digest [sha256.Size]byte

// HashValues computes the SHA-256 digest of the given values joined with a
// pipe delimiter. Callers are responsible for passing fields in a stable,
// canonical order: identical value sequences always produce identical
// digests, which is what lets records arriving via different API paths be
// recognised as the same record.
func HashValues(values ...string) Digest {
	return sha256.Sum256([]byte(strings.Join(values, "|")))
}
