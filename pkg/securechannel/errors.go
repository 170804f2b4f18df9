package securechannel

import "errors"

// Errors returned by the secure channel (spec Section 7).
var (
	// ErrPayloadTooLarge is returned by Send when the RSA ciphertext is
	// longer than one transport frame (transport.MaxFrameLen). A plaintext
	// too long for the peer's key fails earlier, with
	// cryptoprim.ErrPlaintextTooLong.
	ErrPayloadTooLarge = errors.New("securechannel: payload too large for RSA_KEY_LENGTH")

	// ErrFrameTooLarge is returned by Receive when an inbound ciphertext
	// frame exceeds the decryption buffer.
	ErrFrameTooLarge = errors.New("securechannel: received frame exceeds buffer")

	// ErrIntegrity is returned by Receive when the trailing digest frame
	// does not match the recovered plaintext (spec Section 4.6 step 4,
	// the digest the original elides behind `goto skip`).
	ErrIntegrity = errors.New("securechannel: plaintext digest mismatch")

	// ErrTransport is returned when the underlying transport fails to send
	// or receive a frame. The transport's own error is not wrapped.
	ErrTransport = errors.New("securechannel: transport error")
)
