package services

import (
	"errors"
	"fmt"
)

// Sentinel errors for caller input and lookup failures. Validation errors
// are returned before any store access.
var (
	ErrMissingClaimCode = errors.New("missing claim code")
	ErrMissingEmail     = errors.New("missing email address")
	ErrInvalidEmail     = errors.New("invalid email address")
	ErrNoBehaviors      = errors.New("no behaviors to credit")
	ErrInvalidBehavior  = errors.New("invalid behavior shortname")
	ErrUnknownClaimCode = errors.New("unknown claim code")
	ErrUnknownBadge     = errors.New("unknown badge")
	ErrBadgeExists      = errors.New("badge shortname already exists")

	// ErrStoreUnavailable wraps any underlying store failure. Callers own
	// the retry policy; nothing is retried internally.
	ErrStoreUnavailable = errors.New("store unavailable")
)

// AlreadyClaimedError reports a redemption attempt against a spent claim
// code. ClaimedBy identifies who used it, for diagnostics only; it is not
// disclosed to the redeeming caller.
type AlreadyClaimedError struct {
	Code      string
	ClaimedBy string
}

func (e *AlreadyClaimedError) Error() string {
	return fmt.Sprintf("claim code `%s` has already been used", e.Code)
}

func storeError(err error) error {
	return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
}
