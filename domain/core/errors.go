package core

import (
	"errors"
	"fmt"
)

// Domain errors - centralized error definitions
var (
	// Configuration errors (rejected before any computation)
	ErrConfiguration = errors.New("invalid configuration")

	// Input shape errors
	ErrShapeMismatch = errors.New("group assignment does not match matrix shape")
	ErrColumnUnknown = fmt.Errorf("%w: unknown column", ErrShapeMismatch)
	ErrColumnOverlap = fmt.Errorf("%w: column assigned to multiple groups", ErrShapeMismatch)
	ErrGroupEmpty    = fmt.Errorf("%w: group has no columns", ErrShapeMismatch)

	// Boundary errors
	ErrAllMissing         = errors.New("matrix contains no observed values")
	ErrDegenerateBoundary = errors.New("degenerate MNAR boundary (up_mnar == d_min)")

	// Persistence errors
	ErrRunNotFound = errors.New("imputation run not found")
)

// Error constructors with context
func NewConfigurationError(param string, reason string) error {
	return fmt.Errorf("%w: %s %s", ErrConfiguration, param, reason)
}

func NewColumnUnknownError(group, column string) error {
	return fmt.Errorf("%w: group %q references %q", ErrColumnUnknown, group, column)
}

func NewColumnOverlapError(column, groupA, groupB string) error {
	return fmt.Errorf("%w: %q appears in %q and %q", ErrColumnOverlap, column, groupA, groupB)
}

// Error checking helpers
func IsConfigurationError(err error) bool {
	return errors.Is(err, ErrConfiguration)
}

func IsShapeMismatchError(err error) bool {
	return errors.Is(err, ErrShapeMismatch)
}

func IsBoundaryError(err error) bool {
	return errors.Is(err, ErrAllMissing) ||
		errors.Is(err, ErrDegenerateBoundary)
}
