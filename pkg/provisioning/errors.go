package provisioning

import "errors"

// Errors returned by the provisioning store (spec Section 7).
var (
	// ErrUnknownComponent is returned by Replace when the outgoing ID is
	// not in the provisioning record.
	ErrUnknownComponent = errors.New("provisioning: component not provisioned")

	// ErrTooManyComponents is returned when seeding with more than
	// MaxComponents IDs.
	ErrTooManyComponents = errors.New("provisioning: component count exceeds maximum")
)
