package handshake

import (
	"github.com/pion/logging"

	"github.com/SFSU-Cyber-Security-Club/eCTF-Monorepo-2024/internal/transport"
	"github.com/SFSU-Cyber-Security-Club/eCTF-Monorepo-2024/pkg/attestation"
	"github.com/SFSU-Cyber-Security-Club/eCTF-Monorepo-2024/pkg/nonce"
	"github.com/SFSU-Cyber-Security-Club/eCTF-Monorepo-2024/pkg/securechannel"
	"github.com/SFSU-Cyber-Security-Club/eCTF-Monorepo-2024/pkg/wire"
)

// Component is the single-slot command dispatcher a Component runs for
// its entire lifetime (spec Section 4.5, "Component state machine"). It
// holds exactly one outstanding VALIDATE nonce2 at a time, matching the
// original's `static nonce_t nonce2` in component_process_cmd — there is
// no queue and no per-session state beyond that one value.
type Component struct {
	id          uint32
	bootMessage string
	channel     *securechannel.Channel
	link        transport.Link
	record      *attestation.Record
	nonces      *nonce.Service
	nonce2      uint64 // 0 means "no outstanding VALIDATE", like the original's sentinel
	booted      bool
	log         logging.LeveledLogger
}

// ComponentConfig configures a Component.
type ComponentConfig struct {
	ComponentID uint32
	BootMessage string

	// Channel carries SCAN/VALIDATE/BOOT command traffic, digest-paired
	// per message.
	Channel *securechannel.Channel

	// Link is the raw transport the attestation release rides on
	// (spec Section 4.6 — not digest-paired per frame).
	Link transport.Link

	// Record is this Component's pre-encrypted attestation data (spec
	// Section 4.6 step 1). Nil if the Component carries no attestation
	// data — ATTEST will then return ErrUnknownOpcode.
	Record *attestation.Record

	Nonces *nonce.Service

	// LoggerFactory creates the Component's logger. If nil, logging is
	// disabled.
	LoggerFactory logging.LoggerFactory
}

// NewComponent creates a Component from cfg.
func NewComponent(cfg ComponentConfig) *Component {
	var log logging.LeveledLogger
	if cfg.LoggerFactory != nil {
		log = cfg.LoggerFactory.NewLogger("handshake-component")
	} else {
		log = logging.NewDefaultLoggerFactory().NewLogger("handshake-component")
	}
	return &Component{
		id:          cfg.ComponentID,
		bootMessage: cfg.BootMessage,
		channel:     cfg.Channel,
		link:        cfg.Link,
		record:      cfg.Record,
		nonces:      cfg.Nonces,
		log:         log,
	}
}

// Booted reports whether this Component has completed a BOOT exchange.
func (c *Component) Booted() bool {
	return c.booted
}

// ServeOne blocks for one command, dispatches it, and returns. A
// Component's main loop calls this forever (spec Section 4.1, the
// original's `while (1) { secure_receive(...); component_process_cmd(); }`).
func (c *Component) ServeOne() error {
	plaintext, err := c.channel.Receive()
	if err != nil {
		return err
	}
	cmd, err := wire.DecodeCommand(plaintext)
	if err != nil {
		return err
	}

	switch cmd.Opcode {
	case wire.OpcodeScan:
		return c.processScan(cmd)
	case wire.OpcodeValidate:
		return c.processValidate(cmd)
	case wire.OpcodeBoot:
		return c.processBoot(cmd)
	case wire.OpcodeAttest:
		return c.processAttest()
	default:
		c.log.Errorf("unrecognized command opcode %d", cmd.Opcode)
		return ErrUnknownOpcode
	}
}

// processScan answers a SCAN with this Component's ID and the echoed
// nonce1, without touching the outstanding VALIDATE state (spec Section
// 4.5, the original's process_scan).
func (c *Component) processScan(cmd wire.Command) error {
	nonce1, err := cmd.Nonce()
	if err != nil {
		return err
	}
	reply := wire.ValidateMessage{ComponentID: c.id, Nonce1: nonce1}
	return c.channel.Send(reply.Encode())
}

// processValidate generates a fresh nonce2, remembers it as the single
// outstanding challenge, and answers with ID, nonce1, and nonce2 (spec
// Section 4.5, the original's process_validate — nonce2 is regenerated
// on every VALIDATE call, overwriting any previous one).
func (c *Component) processValidate(cmd wire.Command) error {
	nonce1, err := cmd.Nonce()
	if err != nil {
		return err
	}
	c.nonce2 = c.nonces.Fresh()
	reply := wire.ValidateMessage{ComponentID: c.id, Nonce1: nonce1, Nonce2: c.nonce2}
	return c.channel.Send(reply.Encode())
}

// processBoot checks the BOOT command's nonce against the outstanding
// nonce2 and, on success, answers with the boot banner and marks the
// Component booted (spec Section 4.5, the original's process_boot).
func (c *Component) processBoot(cmd wire.Command) error {
	if c.nonce2 == 0 {
		return ErrBootBeforeValidate
	}
	got, err := cmd.Nonce()
	if err != nil {
		return err
	}
	if got != c.nonce2 {
		return ErrBootNonceMismatch
	}

	if err := c.channel.Send([]byte(c.bootMessage)); err != nil {
		return err
	}
	c.booted = true
	return nil
}

// processAttest releases this Component's attestation record over the
// raw link (spec Section 4.6 step 2). It requires no prior VALIDATE —
// the original's process_attest never checks nonce2.
func (c *Component) processAttest() error {
	if c.record == nil {
		return ErrUnknownOpcode
	}
	return c.record.Release(c.link)
}
