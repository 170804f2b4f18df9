// Package securechannel implements the per-packet RSA "secure channel"
// described in spec Section 4.2: every message is individually encrypted
// under the recipient's RSA public key and decrypted with its private
// key. There is no session key and no forward secrecy — each packet
// stands alone, exactly as the protocol specifies.
package securechannel

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/subtle"
	"io"

	"github.com/pion/logging"

	"github.com/SFSU-Cyber-Security-Club/eCTF-Monorepo-2024/internal/transport"
	"github.com/SFSU-Cyber-Security-Club/eCTF-Monorepo-2024/pkg/cryptoprim"
)

// Channel sends and receives messages over a transport.Link, encrypting
// every outbound message under PeerPublicKey and decrypting every inbound
// message with LocalPrivateKey. Which key pair plays which role depends
// on direction: the AP's channel to a Component encrypts under that
// Component's public key and decrypts with the AP's own attestation
// private key, and vice versa on the Component side (spec Section 4.2).
type Channel struct {
	link         transport.Link
	localPrivate *rsa.PrivateKey
	peerPublic   *rsa.PublicKey
	rnd          io.Reader
	log          logging.LeveledLogger
}

// Config configures a Channel.
type Config struct {
	// Link is the underlying frame transport.
	Link transport.Link

	// LocalPrivateKey decrypts inbound messages.
	LocalPrivateKey *rsa.PrivateKey

	// PeerPublicKey encrypts outbound messages.
	PeerPublicKey *rsa.PublicKey

	// Rand supplies randomness for PKCS#1 v1.5 padding. If nil,
	// crypto/rand.Reader is used.
	Rand io.Reader

	// LoggerFactory creates the channel's logger. If nil, logging is
	// disabled.
	LoggerFactory logging.LoggerFactory
}

// New creates a Channel from cfg.
func New(cfg Config) *Channel {
	rnd := cfg.Rand
	if rnd == nil {
		rnd = rand.Reader
	}
	c := &Channel{
		link:         cfg.Link,
		localPrivate: cfg.LocalPrivateKey,
		peerPublic:   cfg.PeerPublicKey,
		rnd:          rnd,
	}
	if cfg.LoggerFactory != nil {
		c.log = cfg.LoggerFactory.NewLogger("securechannel")
	} else {
		c.log = logging.NewDefaultLoggerFactory().NewLogger("securechannel")
	}
	return c
}

// Send encrypts plaintext under the peer's public key and transmits it
// as two frames: the RSA ciphertext, followed by a SHA-256 digest of the
// plaintext (spec Section 4.2 step sequence; Section 4.6 step 4 — the
// digest frame the source this is derived from only ever computed and
// then skipped via `goto skip`, which this implementation does not
// reproduce: the digest is always sent and always checked).
func (c *Channel) Send(plaintext []byte) error {
	cipher, err := cryptoprim.RSAPublicEncrypt(c.rnd, c.peerPublic, plaintext)
	if err != nil {
		return err
	}
	if len(cipher) > transport.MaxFrameLen {
		return ErrPayloadTooLarge
	}
	if _, err := c.link.Send(cipher); err != nil {
		c.log.Debugf("securechannel: send ciphertext failed: %v", err)
		return ErrTransport
	}

	digest := cryptoprim.SHA256(plaintext)
	if _, err := c.link.Send(digest[:]); err != nil {
		c.log.Debugf("securechannel: send digest failed: %v", err)
		return ErrTransport
	}
	return nil
}

// Receive blocks for a ciphertext frame and its trailing digest frame,
// decrypts the ciphertext with the local private key, and verifies the
// digest before returning the plaintext.
func (c *Channel) Receive() ([]byte, error) {
	cipherBuf := make([]byte, transport.MaxFrameLen)
	n, err := c.link.Receive(cipherBuf)
	if err != nil {
		return nil, ErrTransport
	}
	if n > cryptoprim.RSAKeyLength(&c.localPrivate.PublicKey) {
		return nil, ErrFrameTooLarge
	}
	cipher := cipherBuf[:n]

	plaintext, err := cryptoprim.RSAPrivateDecrypt(c.localPrivate, cipher)
	if err != nil {
		c.log.Debugf("securechannel: decrypt failed: %v", err)
		return nil, err
	}

	digestBuf := make([]byte, transport.MaxFrameLen)
	dn, err := c.link.Receive(digestBuf)
	if err != nil {
		return nil, ErrTransport
	}
	if dn != cryptoprim.HashSize {
		return nil, ErrIntegrity
	}

	want := cryptoprim.SHA256(plaintext)
	if subtle.ConstantTimeCompare(digestBuf[:dn], want[:]) != 1 {
		c.log.Errorf("securechannel: digest mismatch")
		return nil, ErrIntegrity
	}
	return plaintext, nil
}
