package nonce

import "math/rand"

// SeededPRNG is a PRNG seeded once from a build-time constant (AP_SEED or
// COMP_SEED, spec Section 6), mirroring the original's one-shot
// `srand((unsigned int)AP_SEED)` at boot. It is not used for anything
// security-critical on its own — only as one of the two inputs hashed
// together to build a nonce.
type SeededPRNG struct {
	r *rand.Rand
}

// NewSeededPRNG seeds a PRNG from seed.
func NewSeededPRNG(seed int64) *SeededPRNG {
	return &SeededPRNG{r: rand.New(rand.NewSource(seed))}
}

// Uint32 returns the next pseudo-random 32-bit value.
func (s *SeededPRNG) Uint32() uint32 {
	return s.r.Uint32()
}
