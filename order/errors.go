package order

import (
	"errors"
	"fmt"
)

// Sentinel errors for machine operations.
var (
	ErrNotFound = errors.New("order not found")
	ErrExists   = errors.New("order already exists")
	ErrEmptyID  = errors.New("order id must not be empty")
)

// InvalidTransitionError reports a rejected lifecycle transition.
//
// It carries both endpoints so callers can tell an attempt to skip a
// stage apart from an attempt to leave a terminal status.
type InvalidTransitionError struct {
	From Status
	To   Status
}

// Error implements the error interface.
func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("invalid transition from %s to %s", e.From, e.To)
}
