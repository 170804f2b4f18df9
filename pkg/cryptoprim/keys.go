package cryptoprim

import (
	"crypto/rsa"
	"crypto/x509"
	"errors"
)

// ErrNotRSAKey is returned when a parsed public key is not an RSA key.
var ErrNotRSAKey = errors.New("cryptoprim: key is not an RSA public key")

// ParseRSAPrivateKeyDER parses a DER-encoded RSA private key (PKCS#1),
// the format build-time parameters carry for AP_PRIV_AT and COMP1_PRIV
// (spec Section 6, "Build-time parameters").
func ParseRSAPrivateKeyDER(der []byte) (*rsa.PrivateKey, error) {
	if key, err := x509.ParsePKCS1PrivateKey(der); err == nil {
		return key, nil
	}
	key, err := x509.ParsePKCS8PrivateKey(der)
	if err != nil {
		return nil, err
	}
	rsaKey, ok := key.(*rsa.PrivateKey)
	if !ok {
		return nil, ErrNotRSAKey
	}
	return rsaKey, nil
}

// ParseRSAPublicKeyDER parses a DER-encoded RSA public key (PKIX or
// PKCS#1), the format build-time parameters carry for AP_PUB_AT and
// COMP1_PUB.
func ParseRSAPublicKeyDER(der []byte) (*rsa.PublicKey, error) {
	if key, err := x509.ParsePKCS1PublicKey(der); err == nil {
		return key, nil
	}
	pub, err := x509.ParsePKIXPublicKey(der)
	if err != nil {
		return nil, err
	}
	rsaKey, ok := pub.(*rsa.PublicKey)
	if !ok {
		return nil, ErrNotRSAKey
	}
	return rsaKey, nil
}
