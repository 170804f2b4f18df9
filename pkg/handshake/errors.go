package handshake

import "errors"

// Errors returned by the AP-side orchestrator (spec Section 4.1, "Boot
// sequence" and Section 4.5, "Handshake: SCAN, VALIDATE, BOOT").
var (
	// ErrComponentUnresponsive is returned by Scan when not every
	// provisioned Component answered SCAN with its own ID, and by Boot
	// when the nonce2 list does not have one entry per provisioned
	// Component. Validate returns the failing exchange's own error
	// instead.
	ErrComponentUnresponsive = errors.New("handshake: component did not respond")

	// ErrUnexpectedComponentID is returned when a VALIDATE reply names a
	// Component ID other than the one addressed (spec Section 4.5 step
	// 3, validate_components ID check).
	ErrUnexpectedComponentID = errors.New("handshake: validate reply had unexpected component id")

	// ErrNonceMismatch is returned when a SCAN or VALIDATE reply cannot
	// be decoded or echoes a nonce1 different from the one the AP issued
	// (spec Section 4.5 step 3).
	ErrNonceMismatch = errors.New("handshake: validate reply echoed wrong nonce")

	// ErrBootBannerMismatch reports a Component's post-BOOT banner that
	// differs from its expected build-time boot message. AP.Boot does not
	// compare banners and never returns this error; it passes each banner
	// through as received.
	ErrBootBannerMismatch = errors.New("handshake: unexpected boot message")
)

// Errors returned by the Component-side state machine (spec Section 4.5,
// "Component state machine").
var (
	// ErrBootBeforeValidate is returned when BOOT arrives while the
	// Component is Idle — it has no nonce2 to check against (spec
	// Section 4.5, "BOOT while Idle is rejected").
	ErrBootBeforeValidate = errors.New("handshake: boot received before validate")

	// ErrBootNonceMismatch is returned when a BOOT command's nonce does
	// not match the nonce2 issued in the prior VALIDATE exchange (spec
	// Section 4.5 step 4, boot_components nonce2 check).
	ErrBootNonceMismatch = errors.New("handshake: boot nonce does not match issued nonce2")

	// ErrUnknownOpcode is returned for a Command opcode the Component
	// does not recognize (spec Section 4.1, component_process_cmd
	// default case).
	ErrUnknownOpcode = errors.New("handshake: unknown opcode")
)
