package errors

import "errors"

var (
	ErrAlreadyExists       = errors.New("already exists")
	ErrNotFound            = errors.New("not found")
	ErrInvalidMessage      = errors.New("invalid inbound message")
	ErrMalformedCandidate  = errors.New("malformed extraction candidate")
	ErrNotPurchaseOrder    = errors.New("message is not a purchase order")
	ErrDuplicate           = errors.New("message already reconciled")
	ErrResolutionAmbiguous = errors.New("client resolution ambiguous")
	ErrInvalidTransition   = errors.New("invalid order transition")
	ErrPersistenceConflict = errors.New("persistence conflict")
	ErrValidatorRequired   = errors.New("validator identity required")
	ErrReasonRequired      = errors.New("rejection reason required")
	ErrOracleUnavailable   = errors.New("extraction oracle unavailable")
	ErrOracleDisabled      = errors.New("extraction oracle not configured")
)
