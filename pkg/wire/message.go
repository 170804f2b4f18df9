package wire

import (
	"encoding/binary"
	"errors"
)

// MaxI2CMessageLen is the largest frame the I²C transport will carry in one
// packet (spec Section 6, "I²C bus"). A Command payload therefore has at
// most MaxI2CMessageLen-1 bytes available after the opcode byte.
const MaxI2CMessageLen = 255

// NonceSize is the wire width of a nonce (spec Section 3, "Nonce").
const NonceSize = 8

// ErrPayloadTooLarge is returned when a Command's payload would not fit in
// a single frame.
var ErrPayloadTooLarge = errors.New("wire: command payload exceeds MAX_I2C_MESSAGE_LEN-1")

// ErrShortBuffer is returned when decoding from a buffer too small to hold
// the wire format being parsed.
var ErrShortBuffer = errors.New("wire: buffer too short")

// Command is the single opcode byte plus payload that the AP sends to a
// Component (spec Section 3, "Command message").
type Command struct {
	Opcode  Opcode
	Payload []byte
}

// Encode serializes the command as opcode||payload.
func (c Command) Encode() ([]byte, error) {
	if len(c.Payload) > MaxI2CMessageLen-1 {
		return nil, ErrPayloadTooLarge
	}
	buf := make([]byte, 1+len(c.Payload))
	buf[0] = byte(c.Opcode)
	copy(buf[1:], c.Payload)
	return buf, nil
}

// DecodeCommand parses a Command from a received frame.
func DecodeCommand(buf []byte) (Command, error) {
	if len(buf) < 1 {
		return Command{}, ErrShortBuffer
	}
	return Command{
		Opcode:  Opcode(buf[0]),
		Payload: append([]byte(nil), buf[1:]...),
	}, nil
}

// NonceCommand builds a Command whose payload is exactly one 8-byte
// little-endian nonce. SCAN, VALIDATE, and BOOT all follow this fixed
// envelope (see original_source application_processor.c issue_cmd, which
// always sends sizeof(nonce_t)+1 bytes regardless of opcode).
func NonceCommand(op Opcode, nonce uint64) Command {
	payload := make([]byte, NonceSize)
	binary.LittleEndian.PutUint64(payload, nonce)
	return Command{Opcode: op, Payload: payload}
}

// Nonce extracts the 8-byte little-endian nonce from a command payload.
func (c Command) Nonce() (uint64, error) {
	if len(c.Payload) < NonceSize {
		return 0, ErrShortBuffer
	}
	return binary.LittleEndian.Uint64(c.Payload[:NonceSize]), nil
}

// ValidateMessage is the Component's reply to SCAN/VALIDATE (spec Section
// 3, "Validate message"): its own ID plus the echoed nonce1, and (for
// VALIDATE only) the freshly generated nonce2.
type ValidateMessage struct {
	ComponentID uint32
	Nonce1      uint64
	Nonce2      uint64
}

// validateMessageSize is the encoded wire size: 4 + 8 + 8 bytes.
const validateMessageSize = 4 + NonceSize + NonceSize

// Encode serializes the validate message as componentID||nonce1||nonce2,
// all little-endian, matching the original's packed C struct layout.
func (v ValidateMessage) Encode() []byte {
	buf := make([]byte, validateMessageSize)
	binary.LittleEndian.PutUint32(buf[0:4], v.ComponentID)
	binary.LittleEndian.PutUint64(buf[4:12], v.Nonce1)
	binary.LittleEndian.PutUint64(buf[12:20], v.Nonce2)
	return buf
}

// DecodeValidateMessage parses a ValidateMessage from a decrypted payload.
func DecodeValidateMessage(buf []byte) (ValidateMessage, error) {
	if len(buf) < validateMessageSize {
		return ValidateMessage{}, ErrShortBuffer
	}
	return ValidateMessage{
		ComponentID: binary.LittleEndian.Uint32(buf[0:4]),
		Nonce1:      binary.LittleEndian.Uint64(buf[4:12]),
		Nonce2:      binary.LittleEndian.Uint64(buf[12:20]),
	}, nil
}
