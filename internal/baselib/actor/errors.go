package actor

import "errors"

// Sentinel errors comprising the ActorError taxonomy. Call sites wrap these
// with identifying context via fmt.Errorf("%w: ...") so that errors.Is
// still matches against the sentinel.
var (
	// ErrAlreadySpawned indicates a registry collision: an Active entry
	// already exists under the requested id.
	ErrAlreadySpawned = errors.New("actor already spawned")

	// ErrNotFoundActor indicates a lookup, deregister, or shutdown of an
	// id with no registry entry.
	ErrNotFoundActor = errors.New("actor not found")

	// ErrActorTerminated indicates a Tell or Ask failed because the
	// target actor's mailbox was already closed or closed during the
	// send (the "TransportError" kind).
	ErrActorTerminated = errors.New("actor terminated")

	// ErrDownCastFromAny indicates an AnyRef was stored under a
	// different concrete ActorRef[M, R] than the one requested.
	ErrDownCastFromAny = errors.New("downcast from AnyRef failed")

	// ErrMissingExtension indicates a requested extension type was never
	// installed on the System.
	ErrMissingExtension = errors.New("missing extension")

	// ErrFailedActivation indicates an actor's activation hook, or
	// persistence recovery, failed during spawn.
	ErrFailedActivation = errors.New("actor activation failed")
)
