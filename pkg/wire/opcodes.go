// Package wire defines the on-bus message formats exchanged between the
// Application Processor and a Component: the command envelope and the
// validate-message payload. See spec Section 3 "Data model" and Section
// 4.1 "Transport".
package wire

// Opcode identifies the kind of command carried in a Command message.
type Opcode uint8

// Component command opcodes.
const (
	OpcodeNone     Opcode = 0
	OpcodeScan     Opcode = 1
	OpcodeValidate Opcode = 2
	OpcodeBoot     Opcode = 3
	OpcodeAttest   Opcode = 4
)

// String returns a human-readable opcode name, used in log lines.
func (o Opcode) String() string {
	switch o {
	case OpcodeNone:
		return "NONE"
	case OpcodeScan:
		return "SCAN"
	case OpcodeValidate:
		return "VALIDATE"
	case OpcodeBoot:
		return "BOOT"
	case OpcodeAttest:
		return "ATTEST"
	default:
		return "UNKNOWN"
	}
}
