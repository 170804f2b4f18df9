package cryptoprim

import (
	"bytes"
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/hex"
	"testing"
)

func TestAESECBRoundTrip(t *testing.T) {
	key := bytes.Repeat([]byte{0x42}, AES128KeySize)
	block := bytes.Repeat([]byte{0x01}, AESBlockSize)

	ct, err := AES128EncryptBlock(key, block)
	if err != nil {
		t.Fatalf("encrypt: %v", err)
	}
	pt, err := AES128DecryptBlock(key, ct)
	if err != nil {
		t.Fatalf("decrypt: %v", err)
	}
	if !bytes.Equal(pt, block) {
		t.Fatalf("round trip mismatch: got %x want %x", pt, block)
	}
}

func TestAESECBInvalidSizes(t *testing.T) {
	if _, err := AES128EncryptBlock([]byte{1, 2, 3}, make([]byte, AESBlockSize)); err != ErrAESInvalidKeySize {
		t.Fatalf("err = %v, want ErrAESInvalidKeySize", err)
	}
	if _, err := AES128EncryptBlock(make([]byte, AES128KeySize), []byte{1, 2, 3}); err != ErrAESInvalidBlockSize {
		t.Fatalf("err = %v, want ErrAESInvalidBlockSize", err)
	}
}

func TestSHA256KnownVector(t *testing.T) {
	got := SHA256([]byte("abc"))
	want, _ := hex.DecodeString("ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad")
	if !bytes.Equal(got[:], want) {
		t.Fatalf("SHA256(abc) = %x, want %x", got, want)
	}
}

func TestRSARoundTrip(t *testing.T) {
	priv, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatalf("GenerateKey: %v", err)
	}

	msg := []byte("McLean")
	ct, err := RSAPublicEncrypt(rand.Reader, &priv.PublicKey, msg)
	if err != nil {
		t.Fatalf("RSAPublicEncrypt: %v", err)
	}
	if len(ct) != RSAKeyLength(&priv.PublicKey) {
		t.Fatalf("ciphertext length = %d, want %d", len(ct), RSAKeyLength(&priv.PublicKey))
	}

	pt, err := RSAPrivateDecrypt(priv, ct)
	if err != nil {
		t.Fatalf("RSAPrivateDecrypt: %v", err)
	}
	if !bytes.Equal(pt, msg) {
		t.Fatalf("decrypted = %q, want %q", pt, msg)
	}
}

func TestRSAPlaintextTooLong(t *testing.T) {
	priv, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatalf("GenerateKey: %v", err)
	}
	big := bytes.Repeat([]byte{1}, 256)
	if _, err := RSAPublicEncrypt(rand.Reader, &priv.PublicKey, big); err != ErrPlaintextTooLong {
		t.Fatalf("err = %v, want ErrPlaintextTooLong", err)
	}
}

func TestRSADecryptWrongLength(t *testing.T) {
	priv, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatalf("GenerateKey: %v", err)
	}
	if _, err := RSAPrivateDecrypt(priv, []byte{1, 2, 3}); err != ErrCiphertextWrongLength {
		t.Fatalf("err = %v, want ErrCiphertextWrongLength", err)
	}
}

func TestParseRSAKeysDER(t *testing.T) {
	priv, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatalf("GenerateKey: %v", err)
	}

	privDER := x509.MarshalPKCS1PrivateKey(priv)
	parsedPriv, err := ParseRSAPrivateKeyDER(privDER)
	if err != nil {
		t.Fatalf("ParseRSAPrivateKeyDER: %v", err)
	}
	if parsedPriv.N.Cmp(priv.N) != 0 {
		t.Fatalf("parsed private key modulus mismatch")
	}

	pubDER := x509.MarshalPKCS1PublicKey(&priv.PublicKey)
	parsedPub, err := ParseRSAPublicKeyDER(pubDER)
	if err != nil {
		t.Fatalf("ParseRSAPublicKeyDER: %v", err)
	}
	if parsedPub.N.Cmp(priv.PublicKey.N) != 0 {
		t.Fatalf("parsed public key modulus mismatch")
	}
}

func TestRNGFill(t *testing.T) {
	r := NewRNG(rand.Reader)
	out := make([]byte, 32)
	if err := r.Fill(out); err != nil {
		t.Fatalf("Fill: %v", err)
	}
	if bytes.Equal(out, make([]byte, 32)) {
		t.Fatalf("Fill did not populate buffer")
	}
}
