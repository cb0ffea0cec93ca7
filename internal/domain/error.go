package domain

import "errors"

var (
	// Common domain errors
	ErrNotFound        = errors.New("entity not found")
	ErrAlreadyExists   = errors.New("entity already exists")
	ErrInvalidArgument = errors.New("invalid argument")

	// Form flow
	ErrStepInvalid        = errors.New("current step is not valid")
	ErrInvalidState       = errors.New("operation not allowed in current phase")
	ErrSubmissionInFlight = errors.New("submission already in progress")
	ErrUnknownChannel     = errors.New("unknown payment channel")

	// Infrastructure
	ErrOperationFailed     = errors.New("operation failed")
	ErrInvalidExecContext  = errors.New("invalid execution context")
	ErrReadDatabaseRow     = errors.New("failed to read database row")
	ErrRateLimited         = errors.New("too many requests")
	ErrFallbackUnavailable = errors.New("fallback store unavailable")
)
