package core

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
)

// Hash represents a cryptographic hash
type Hash string

// NewHash creates a new hash from data
func NewHash(data []byte) Hash {
	sum := sha256.Sum256(data)
	return Hash(hex.EncodeToString(sum[:]))
}

// String returns the string representation
func (h Hash) String() string {
	return string(h)
}

// IsEmpty checks if the hash is empty
func (h Hash) IsEmpty() bool {
	return h == ""
}

// ComputeFingerprint hashes an ordered list of determinism parameters.
// Identical inputs always yield the identical fingerprint, which lets a
// caller verify that a stored run can be replayed bit-for-bit.
func ComputeFingerprint(parts ...interface{}) Hash {
	var data strings.Builder
	for _, p := range parts {
		data.WriteString(fmt.Sprintf("%v|", p))
	}
	return NewHash([]byte(data.String()))
}
