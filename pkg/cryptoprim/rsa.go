package cryptoprim

import (
	"crypto/rand"
	"crypto/rsa"
	"errors"
	"io"
)

// Errors for RSA operations (spec Section 7, "CryptoError").
var (
	ErrPlaintextTooLong      = errors.New("cryptoprim: plaintext too long for RSA modulus")
	ErrCiphertextWrongLength = errors.New("cryptoprim: ciphertext length does not match modulus")
)

// RSAKeyLength returns the modulus length in bytes of pub. For RSA-2048
// this is 256, the spec's RSA_KEY_LENGTH.
func RSAKeyLength(pub *rsa.PublicKey) int {
	return pub.Size()
}

// RSAPublicEncrypt encrypts plain under the peer's public key, returning
// exactly RSAKeyLength(key) bytes of ciphertext (spec Section 4.2,
// rsa_public_encrypt). rnd supplies the randomness for PKCS#1 v1.5
// padding; pass a TRNG-backed reader in production (see pkg/cryptoprim
// RNG and internal/trng), crypto/rand.Reader is fine for tests.
func RSAPublicEncrypt(rnd io.Reader, key *rsa.PublicKey, plain []byte) ([]byte, error) {
	maxLen := key.Size() - 11 // PKCS#1 v1.5 padding overhead
	if len(plain) > maxLen {
		return nil, ErrPlaintextTooLong
	}
	return rsa.EncryptPKCS1v15(rnd, key, plain)
}

// RSAPrivateDecrypt decrypts cipher under key, returning the recovered
// plaintext (spec Section 4.2, rsa_private_decrypt). cipher must be
// exactly RSAKeyLength(&key.PublicKey) bytes.
func RSAPrivateDecrypt(key *rsa.PrivateKey, cipher []byte) ([]byte, error) {
	if len(cipher) != key.Size() {
		return nil, ErrCiphertextWrongLength
	}
	return rsa.DecryptPKCS1v15(rand.Reader, key, cipher)
}
