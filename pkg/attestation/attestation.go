// Package attestation implements a Component's release of its Location,
// Date, and Customer attestation fields to the AP (spec Section 4.6,
// "Attestation release"). The three fields are individually RSA-
// encrypted under the AP's public attestation key at startup, and
// released together with a single SHA-256 digest covering all three
// plaintexts concatenated, so the AP can detect any frame dropped or
// altered in transit.
package attestation

import (
	"bytes"
	"crypto/rsa"
	"crypto/subtle"
	"errors"
	"io"

	"github.com/SFSU-Cyber-Security-Club/eCTF-Monorepo-2024/internal/transport"
	"github.com/SFSU-Cyber-Security-Club/eCTF-Monorepo-2024/pkg/cryptoprim"
)

// ErrIntegrity is returned when the digest the AP recomputes over the
// three recovered plaintexts does not match the digest the Component
// sent (spec Section 4.6, "Integrity of the release").
var ErrIntegrity = errors.New("attestation: digest mismatch over released fields")

// fieldCount is the number of attestation fields released, in order:
// Customer, Location, Date (spec Section 3, "Attestation record").
const fieldCount = 3

// Record holds a Component's attestation data pre-encrypted under the
// AP's public key, computed once at startup (spec Section 4.6, "encrypt
// at boot, release on demand" — the original's encrypt_AT(), called once
// from main() before the Component ever answers a command).
type Record struct {
	customer []byte
	location []byte
	date     []byte
	digest   [cryptoprim.HashSize]byte
}

// Seed holds the plaintext fields a Component is provisioned with.
type Seed struct {
	Customer string
	Location string
	Date     string
}

// Encrypt builds a Record by RSA-encrypting each field under apPublicKey
// and computing the digest over their concatenated plaintexts (spec
// Section 4.6 step 1). rnd supplies PKCS#1 v1.5 padding randomness.
func Encrypt(rnd io.Reader, apPublicKey *rsa.PublicKey, seed Seed) (*Record, error) {
	// Wire order (frame send order) is Customer, Location, Date; the
	// digest is computed over a different concatenation order, Location
	// || Date || Customer (spec Section 4.8), so the two are kept
	// explicitly separate rather than reusing one slice for both.
	plains := [fieldCount][]byte{[]byte(seed.Customer), []byte(seed.Location), []byte(seed.Date)}

	cipherFields := make([][]byte, fieldCount)
	for i, plain := range plains {
		cipher, err := cryptoprim.RSAPublicEncrypt(rnd, apPublicKey, plain)
		if err != nil {
			return nil, err
		}
		cipherFields[i] = cipher
	}

	var concatenated bytes.Buffer
	concatenated.Write(plains[1]) // Location
	concatenated.Write(plains[2]) // Date
	concatenated.Write(plains[0]) // Customer

	return &Record{
		customer: cipherFields[0],
		location: cipherFields[1],
		date:     cipherFields[2],
		digest:   cryptoprim.SHA256(concatenated.Bytes()),
	}, nil
}

// Release sends the four attestation frames over link in order: Customer
// ciphertext, Location ciphertext, Date ciphertext, digest (spec Section
// 4.6 step 2, the original's process_attest DATA[4] loop). Each frame is
// a single raw transport frame; unlike the command channel, individual
// fields are not re-digested — only the final frame, covering all three,
// provides integrity.
func (r *Record) Release(link transport.Link) error {
	for _, frame := range [][]byte{r.customer, r.location, r.date} {
		if _, err := link.Send(frame); err != nil {
			return err
		}
	}
	_, err := link.Send(r.digest[:])
	return err
}

// Collected holds the AP's view of an attested Component after
// decryption and integrity verification.
type Collected struct {
	Customer string
	Location string
	Date     string
}

// Collect receives the four attestation frames from link and decrypts
// each field under apPrivateKey, verifying the trailing digest covers
// exactly the recovered plaintexts (spec Section 4.6 step 3, the
// original's attest_component loop plus its memcmp of hash_test against
// HASH_DIGEST).
func Collect(link transport.Link, apPrivateKey *rsa.PrivateKey) (Collected, error) {
	var plains [fieldCount][]byte
	buf := make([]byte, transport.MaxFrameLen)

	for i := 0; i < fieldCount; i++ {
		n, err := link.Receive(buf)
		if err != nil {
			return Collected{}, err
		}
		plain, err := cryptoprim.RSAPrivateDecrypt(apPrivateKey, buf[:n])
		if err != nil {
			return Collected{}, err
		}
		plains[i] = plain
	}

	n, err := link.Receive(buf)
	if err != nil {
		return Collected{}, err
	}
	if n != cryptoprim.HashSize {
		return Collected{}, ErrIntegrity
	}
	gotDigest := append([]byte(nil), buf[:n]...)

	// plains is in wire order (Customer, Location, Date); the digest
	// covers Location || Date || Customer, matching Encrypt.
	var concatenated bytes.Buffer
	concatenated.Write(plains[1]) // Location
	concatenated.Write(plains[2]) // Date
	concatenated.Write(plains[0]) // Customer
	want := cryptoprim.SHA256(concatenated.Bytes())
	if subtle.ConstantTimeCompare(gotDigest, want[:]) != 1 {
		return Collected{}, ErrIntegrity
	}

	return Collected{
		Customer: string(plains[0]),
		Location: string(plains[1]),
		Date:     string(plains[2]),
	}, nil
}
