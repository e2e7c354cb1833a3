package domain

import "errors"

var (
	// Common domain errors
	ErrNotFound           = errors.New("entity not found")
	ErrAlreadyExists      = errors.New("entity already exists")
	ErrInvalidArgument    = errors.New("invalid argument")
	ErrReadDatabaseRow    = errors.New("failed to read database row")
	ErrInvalidExecContext = errors.New("invalid executor context")

	// Entitlement & redemption errors
	ErrAccountNotFound = errors.New("account not found")
	ErrCodeNotFound    = errors.New("reward code not found")
	ErrCodeAlreadyUsed = errors.New("reward code already used")
	ErrCodeExpired     = errors.New("reward code expired")
	ErrInvalidPlan     = errors.New("unknown purchase plan")
	ErrSpinLimit       = errors.New("daily spin limit reached")
)
