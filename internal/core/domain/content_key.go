package domain

import (
	"crypto/sha256"
	"encoding/hex"
)

// ContentKey identifies a code unit by the SHA-256 digest of its exact bytes, hex encoded.
type ContentKey string

// NewContentKey derives the content key of the given code.
// Byte-identical inputs always yield the same key, across processes.
func NewContentKey(code string) ContentKey {
	sum := sha256.Sum256([]byte(code))
	return ContentKey(hex.EncodeToString(sum[:]))
}

// String returns the hex form of the key.
func (k ContentKey) String() string {
	return string(k)
}

// Short returns an abbreviated form of the key for display.
func (k ContentKey) Short() string {
	const n = 12
	if len(k) <= n {
		return string(k)
	}
	return string(k[:n])
}
