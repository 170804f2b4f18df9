package credential

import "errors"

// Errors returned by the credential gate (spec Section 7, "BadCredential").
var (
	// ErrBadCredential is returned when a PIN or token digest does not
	// match the compiled-in reference.
	ErrBadCredential = errors.New("credential: invalid PIN or token")

	// ErrRateLimited is returned when attempts are arriving faster than
	// the configured limiter allows (spec Section 9 hardening note).
	ErrRateLimited = errors.New("credential: too many attempts, slow down")
)
