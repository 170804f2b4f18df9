// AES-128-ECB single-block primitive for the eCTF secure core.
//
// Spec Section 4.2 specifies this as a pure byte-in/byte-out block cipher
// primitive, "used only as a primitive; not directly invoked by the
// handshake in the current design" — it exists because the vendor crypto
// library (wolfSSL) exposes it and some deployments build additional
// record formats on top of it. This package keeps the primitive available
// without wiring it into the handshake or secure channel, matching the
// original.
package cryptoprim

import (
	"crypto/aes"
	"errors"
)

// AES128KeySize is the AES-128 key size in bytes.
const AES128KeySize = 16

// AESBlockSize is the AES block size in bytes.
const AESBlockSize = 16

// Errors for AES-ECB block operations.
var (
	ErrAESInvalidKeySize   = errors.New("cryptoprim: invalid AES-128 key size, must be 16 bytes")
	ErrAESInvalidBlockSize = errors.New("cryptoprim: invalid AES block, must be 16 bytes")
)

// AES128EncryptBlock encrypts a single 16-byte block under an AES-128 key
// using the raw block cipher (no mode, no padding) — the ECB primitive
// from spec Section 4.2.
func AES128EncryptBlock(key, block []byte) ([]byte, error) {
	if len(key) != AES128KeySize {
		return nil, ErrAESInvalidKeySize
	}
	if len(block) != AESBlockSize {
		return nil, ErrAESInvalidBlockSize
	}
	c, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	out := make([]byte, AESBlockSize)
	c.Encrypt(out, block)
	return out, nil
}

// AES128DecryptBlock decrypts a single 16-byte block under an AES-128 key.
func AES128DecryptBlock(key, block []byte) ([]byte, error) {
	if len(key) != AES128KeySize {
		return nil, ErrAESInvalidKeySize
	}
	if len(block) != AESBlockSize {
		return nil, ErrAESInvalidBlockSize
	}
	c, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	out := make([]byte, AESBlockSize)
	c.Decrypt(out, block)
	return out, nil
}
