package store

import "errors"

// Sentinel errors for store operations. Load and save I/O faults are
// wrapped in ErrLoadFailed/ErrSaveFailed at the store boundary.
var (
	ErrKeyNotFound = errors.New("key not found")
	ErrLoadFailed  = errors.New("load failed")
	ErrSaveFailed  = errors.New("save failed")
)
