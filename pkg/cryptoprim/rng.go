package cryptoprim

import "io"

// RNG fills byte slices from an entropy source (spec Section 4.2,
// rng_fill). Construction is left to the caller: internal/trng provides
// the hardware-backed implementation used by the AP/Component binaries,
// while tests typically pass crypto/rand.Reader directly.
type RNG struct {
	source io.Reader
}

// NewRNG wraps an entropy source as an RNG.
func NewRNG(source io.Reader) RNG {
	return RNG{source: source}
}

// Fill reads exactly len(out) bytes of entropy into out.
func (r RNG) Fill(out []byte) error {
	_, err := io.ReadFull(r.source, out)
	return err
}

// Reader exposes the underlying entropy source, e.g. to pass directly as
// the rand.Reader argument of RSAPublicEncrypt.
func (r RNG) Reader() io.Reader {
	return r.source
}
