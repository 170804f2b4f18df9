// Package trng stands in for the vendor hardware TRNG driver (spec
// Section 1, "Out of scope") that seeds both the RSA blinding RNG and the
// nonce PRNG (spec Section 4.2, rng_fill). It is a thin wrapper — the
// real entropy source is the Go runtime's crypto/rand, which on every
// supported OS is itself backed by a hardware RNG.
package trng

import "crypto/rand"

// Reader returns the process-wide TRNG entropy source.
func Reader() *trngReader {
	return &trngReader{}
}

type trngReader struct{}

// Read implements io.Reader, filling p with hardware-backed entropy.
func (trngReader) Read(p []byte) (int, error) {
	return rand.Read(p)
}
