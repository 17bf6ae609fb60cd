package domain

import "errors"

var (
	// Common domain errors
	ErrNotFound           = errors.New("entity not found")
	ErrAlreadyExists      = errors.New("entity already exists")
	ErrInvalidArgument    = errors.New("invalid argument")
	ErrBookingConflict    = errors.New("date already has an active booking")
	ErrBookingLockTimeout = errors.New("booking date lock not acquired")
	ErrWebhookValidation  = errors.New("webhook event failed validation")
	ErrTenantInactive     = errors.New("tenant is not accepting bookings")

	// Infra-boundary errors surfaced by repositories
	ErrInvalidExecContext = errors.New("invalid executor context")
	ErrOperationFailed    = errors.New("database operation failed")
	ErrReadDatabaseRow    = errors.New("failed to read database row")
)
