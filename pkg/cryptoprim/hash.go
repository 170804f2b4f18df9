package cryptoprim

import "crypto/sha256"

// HashSize is the SHA-256 digest length in bytes (spec Section 4.2, HASH_SIZE).
const HashSize = 32

// SHA256 computes the SHA-256 digest of data (spec Section 4.2, sha256(data) -> digest[32]).
func SHA256(data []byte) [HashSize]byte {
	return sha256.Sum256(data)
}

// SHA256Slice is a convenience wrapper returning the digest as a slice.
func SHA256Slice(data []byte) []byte {
	h := sha256.Sum256(data)
	return h[:]
}
