package errs

import "errors"

// Common sentinel errors for cross-layer signaling.
var (
	ErrNotFound = errors.New("not_found")
	ErrConflict = errors.New("conflict")
	ErrInvalid  = errors.New("invalid")
)

// Ledger errors. Handlers and callers match them with errors.Is.
var (
	// ErrAccountConflict: the client already holds an ACTIVA account with saldo > 0.
	ErrAccountConflict = errors.New("account_conflict")
	// ErrAccountNotActive: the target account is missing or CERRADA.
	ErrAccountNotActive = errors.New("account_not_active")
	ErrAccountNotFound  = errors.New("account_not_found")
	ErrMovementNotFound = errors.New("movement_not_found")
	ErrClientNotFound   = errors.New("client_not_found")
	// ErrInvalidAmount covers non-positive amounts and balance changes that would leave saldo < 0.
	ErrInvalidAmount = errors.New("invalid_amount")
)
