package sentinel

import "errors"

// Sentinel errors for storage facts. Stores return these (optionally wrapped) so
// services can translate them into domain errors.
//
//   - ErrNotFound: entity does not exist in store
//   - ErrAlreadyUsed: a unique key (person name, duty start date) is taken
//   - ErrInconsistent: stored rows violate an invariant the caller relies on
//   - ErrUnavailable: backing service temporarily unavailable (lock holder, broker)
//
// For validation errors (bad input, missing fields), use pkg/domain-errors directly.
var (
	ErrNotFound     = errors.New("not found")
	ErrAlreadyUsed  = errors.New("already used")
	ErrInconsistent = errors.New("inconsistent state")
	ErrUnavailable  = errors.New("unavailable")
)
