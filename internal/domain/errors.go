package domain

import "errors"

// Failure taxonomy surfaced to callers. Every error leaves the record in its
// prior valid state; nothing is retried below the transport layer.
var (
	ErrNotFound              = errors.New("record not found")
	ErrUnresolvableLocation  = errors.New("unresolvable location")
	ErrInvalidPassengerCount = errors.New("invalid passenger count")
	ErrIllegalTransition     = errors.New("illegal status transition")
	ErrMissingAssignment     = errors.New("pilot and helicopter are both required")
	ErrInsufficientFunds     = errors.New("insufficient balance")
	ErrDuplicateApproval     = errors.New("transaction already processed")
	ErrAlreadyPaid           = errors.New("booking already paid")
)
