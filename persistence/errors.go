package persistence

import "errors"

// Sentinel errors comprising the PersistError/RecoveryError taxonomies.
// Call sites wrap these with fmt.Errorf("%w: ...") so errors.Is still
// matches the sentinel.
var (
	// ErrInvalidSelection indicates a SelectionCriteria was constructed
	// with min > max or min == max.
	ErrInvalidSelection = errors.New("invalid selection criteria")

	// ErrNotCompatible indicates a journal or snapshot payload's
	// registry_key has no registered resolver for the actor type being
	// recovered.
	ErrNotCompatible = errors.New("payload not compatible with recovery mapping")

	// ErrRecoveryFailed wraps any error a resolver returns while
	// applying a snapshot or journal entry during recovery.
	ErrRecoveryFailed = errors.New("recovery failed")

	// ErrNoStateRecovered indicates spawn_with_recovery produced no
	// state from the journal/snapshot providers and the caller supplied
	// no seed to fall back on.
	ErrNoStateRecovered = errors.New("no state recovered and no seed provided")

	// ErrPersistExhausted indicates persist or snapshot exhausted its
	// configured retry budget against the provider.
	ErrPersistExhausted = errors.New("persist retries exhausted")

	// ErrDuplicateSequence indicates a journal or snapshot insert
	// collided with an entry already stored at the same
	// (persistence_id, version, seq) coordinate, violating SequenceId's
	// strictly-increases-by-one invariant. A provider surfaces this
	// instead of a raw unique-constraint error so callers can
	// distinguish "this seq was already written" from other storage
	// failures.
	ErrDuplicateSequence = errors.New("duplicate sequence for persistence stream")
)
