// Package handshake implements the mutual nonce challenge the AP and its
// Components run before any Component is allowed to boot (spec Section
// 4.5, "Handshake: SCAN, VALIDATE, BOOT").
package handshake

import (
	"crypto/rsa"

	"github.com/pion/logging"

	"github.com/SFSU-Cyber-Security-Club/eCTF-Monorepo-2024/internal/addr"
	"github.com/SFSU-Cyber-Security-Club/eCTF-Monorepo-2024/internal/transport"
	"github.com/SFSU-Cyber-Security-Club/eCTF-Monorepo-2024/pkg/attestation"
	"github.com/SFSU-Cyber-Security-Club/eCTF-Monorepo-2024/pkg/nonce"
	"github.com/SFSU-Cyber-Security-Club/eCTF-Monorepo-2024/pkg/securechannel"
	"github.com/SFSU-Cyber-Security-Club/eCTF-Monorepo-2024/pkg/wire"
)

// Endpoint is everything the AP needs to reach one provisioned
// Component: its address, the secure channel encrypted under that
// Component's public key, and the raw link attestation release rides on.
type Endpoint struct {
	ComponentID uint32
	Address     byte
	Channel     *securechannel.Channel
	Link        transport.Link
}

// AP orchestrates SCAN, VALIDATE, and BOOT across a fixed set of
// provisioned Components (spec Section 4.1, "Boot sequence").
type AP struct {
	components []Endpoint
	nonces     *nonce.Service
	privateKey *rsa.PrivateKey
	log        logging.LeveledLogger
}

// Config configures an AP orchestrator.
type Config struct {
	// Components are the currently provisioned endpoints, in the order
	// scan_components/validate_components/boot_components iterate them.
	Components []Endpoint

	// Nonces generates the freshness challenges for SCAN and VALIDATE.
	Nonces *nonce.Service

	// PrivateKey is the AP's own attestation private key, used to
	// decrypt attestation fields released by Attest (spec Section 4.6,
	// AP_PRIV_AT).
	PrivateKey *rsa.PrivateKey

	// LoggerFactory creates the orchestrator's logger. If nil, logging
	// is disabled.
	LoggerFactory logging.LoggerFactory
}

// NewAP creates an AP orchestrator from cfg.
func NewAP(cfg Config) *AP {
	var log logging.LeveledLogger
	if cfg.LoggerFactory != nil {
		log = cfg.LoggerFactory.NewLogger("handshake-ap")
	} else {
		log = logging.NewDefaultLoggerFactory().NewLogger("handshake-ap")
	}
	return &AP{
		components: cfg.Components,
		nonces:     cfg.Nonces,
		privateKey: cfg.PrivateKey,
		log:        log,
	}
}

// ScanEntry reports the result of SCANning one provisioned Component.
type ScanEntry struct {
	ComponentID uint32
	Skipped     bool // address fell on the I²C blacklist
	Responded   bool
	RespondedID uint32
	Err         error
}

// Scan issues SCAN to every provisioned Component and reports which ones
// answered with a matching ID (spec Section 4.5 step 1, the original's
// scan_components). Unlike Validate, a single unresponsive Component does
// not abort the scan — every Component is still attempted, and the
// overall failure is reported once all have been tried.
func (a *AP) Scan() ([]ScanEntry, error) {
	entries := make([]ScanEntry, 0, len(a.components))
	okCount := 0

	for _, comp := range a.components {
		entry := ScanEntry{ComponentID: comp.ComponentID}

		if addr.IsBlacklisted(comp.Address) {
			entry.Skipped = true
			entries = append(entries, entry)
			continue
		}

		n1 := a.nonces.Fresh()
		reply, err := a.issue(comp, wire.NonceCommand(wire.OpcodeScan, n1))
		if err != nil {
			a.log.Debugf("scan: component 0x%08x: %v", comp.ComponentID, err)
			entry.Err = err
			entries = append(entries, entry)
			continue
		}

		vm, err := wire.DecodeValidateMessage(reply)
		if err != nil || vm.Nonce1 != n1 {
			entry.Err = ErrNonceMismatch
			entries = append(entries, entry)
			continue
		}

		entry.Responded = true
		entry.RespondedID = vm.ComponentID
		entries = append(entries, entry)
		if vm.ComponentID == comp.ComponentID {
			okCount++
		}
	}

	if okCount != len(a.components) {
		return entries, ErrComponentUnresponsive
	}
	return entries, nil
}

// Validate issues VALIDATE to every provisioned Component in order and
// collects each one's nonce2, aborting on the first failure (spec
// Section 4.5 step 2, the original's validate_components — it returns
// ERROR_RETURN immediately rather than continuing to the next
// Component).
func (a *AP) Validate() ([]uint64, error) {
	nonces2 := make([]uint64, len(a.components))

	for i, comp := range a.components {
		n1 := a.nonces.Fresh()
		reply, err := a.issue(comp, wire.NonceCommand(wire.OpcodeValidate, n1))
		if err != nil {
			return nil, err
		}

		vm, err := wire.DecodeValidateMessage(reply)
		if err != nil || vm.Nonce1 != n1 {
			return nil, ErrNonceMismatch
		}
		if vm.ComponentID != comp.ComponentID {
			return nil, ErrUnexpectedComponentID
		}
		nonces2[i] = vm.Nonce2
	}
	return nonces2, nil
}

// BootResult is one Component's post-BOOT banner.
type BootResult struct {
	ComponentID uint32
	Message     string
}

// Boot issues BOOT to every provisioned Component, echoing back the
// nonce2 Validate collected for it, and returns each Component's boot
// banner (spec Section 4.5 step 3, the original's boot_components). It
// aborts on the first failure — a partially booted system is never
// handed off to the post-boot loop.
func (a *AP) Boot(nonces2 []uint64) ([]BootResult, error) {
	if len(nonces2) != len(a.components) {
		return nil, ErrComponentUnresponsive
	}

	results := make([]BootResult, 0, len(a.components))
	for i, comp := range a.components {
		reply, err := a.issue(comp, wire.NonceCommand(wire.OpcodeBoot, nonces2[i]))
		if err != nil {
			return nil, err
		}
		results = append(results, BootResult{
			ComponentID: comp.ComponentID,
			Message:     decodeCString(reply),
		})
	}
	return results, nil
}

// Attest triggers attestation release on componentID and returns its
// decrypted, integrity-checked record (spec Section 4.6, the original's
// attest_component). Unlike Scan/Validate/Boot, the ATTEST command is
// sent once with no paired reply — the four attestation frames that
// follow are collected directly off the raw link, not through the
// digest-paired secure channel.
func (a *AP) Attest(componentID uint32) (attestation.Collected, error) {
	comp, ok := a.find(componentID)
	if !ok {
		return attestation.Collected{}, ErrUnexpectedComponentID
	}

	buf, err := wire.Command{Opcode: wire.OpcodeAttest}.Encode()
	if err != nil {
		return attestation.Collected{}, err
	}
	if err := comp.Channel.Send(buf); err != nil {
		return attestation.Collected{}, err
	}

	return attestation.Collect(comp.Link, a.privateKey)
}

func (a *AP) find(componentID uint32) (Endpoint, bool) {
	for _, comp := range a.components {
		if comp.ComponentID == componentID {
			return comp, true
		}
	}
	return Endpoint{}, false
}

// issue sends cmd over comp's secure channel and returns the reply
// plaintext (spec Section 4.1, issue_cmd).
func (a *AP) issue(comp Endpoint, cmd wire.Command) ([]byte, error) {
	buf, err := cmd.Encode()
	if err != nil {
		return nil, err
	}
	if err := comp.Channel.Send(buf); err != nil {
		return nil, err
	}
	return comp.Channel.Receive()
}

// decodeCString trims the trailing NUL the original's fixed-size C
// buffers always carry after a short message.
func decodeCString(buf []byte) string {
	for i, b := range buf {
		if b == 0 {
			return string(buf[:i])
		}
	}
	return string(buf)
}
