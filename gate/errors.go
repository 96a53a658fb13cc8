package gate

import "errors"

// Sentinel errors returned by ProfileGate.Authorize.
var (
	ErrUnauthorized = errors.New("unauthorized")
	ErrNotApproved  = errors.New("account not approved")
	ErrForbidden    = errors.New("forbidden")
)
