package project

import (
	"crypto/sha256"
	"encoding/hex"
)

// Digest is a SHA-256 of a module's text or of the settings that shaped its
// analysis.
type Digest [sha256.Size]byte

func Hash(data []byte) Digest { return sha256.Sum256(data) }

// Combine derives a cache key from content and parts, fed in order: the same
// inputs in another order give another key.
func Combine(content Digest, parts ...Digest) Digest {
	buf := make([]byte, 0, sha256.Size*(len(parts)+1))
	buf = append(buf, content[:]...)
	for _, p := range parts {
		buf = append(buf, p[:]...)
	}
	return sha256.Sum256(buf)
}

func (d Digest) IsZero() bool { return d == Digest{} }

func (d Digest) String() string { return hex.EncodeToString(d[:]) }
