// Package nonce generates the 64-bit freshness challenges used by the
// handshake engine (spec Section 4.5, "Nonce service").
package nonce

import (
	"encoding/binary"
	"time"

	"github.com/SFSU-Cyber-Security-Club/eCTF-Monorepo-2024/pkg/cryptoprim"
)

// PRNG supplies the pseudo-random half of a nonce. It is seeded once at
// startup from the build-time AP_SEED/COMP_SEED (spec Section 6) and
// never reseeded, matching the original's use of the C library rand().
type PRNG interface {
	Uint32() uint32
}

// Service produces fresh nonces on demand. A Service must never be
// shared in a way that lets two concurrent handshakes observe the same
// nonce — spec Section 5 notes the bus already serializes this.
type Service struct {
	prng PRNG
	now  func() time.Time
}

// New creates a nonce service backed by prng. now defaults to time.Now
// when nil.
func New(prng PRNG, now func() time.Time) *Service {
	if now == nil {
		now = time.Now
	}
	return &Service{prng: prng, now: now}
}

// Fresh generates a new nonce by hashing (PRNG output, wall clock
// seconds) and truncating to the first 8 bytes of the digest (spec
// Section 4.5). It must be called fresh for every handshake message;
// nonces are never cached or persisted.
func (s *Service) Fresh() uint64 {
	var plain [8]byte
	binary.LittleEndian.PutUint32(plain[0:4], s.prng.Uint32())
	binary.LittleEndian.PutUint32(plain[4:8], uint32(s.now().Unix()))

	digest := cryptoprim.SHA256(plain[:])
	return binary.LittleEndian.Uint64(digest[:8])
}
