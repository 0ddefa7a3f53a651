package persistence

import (
	"fmt"

	"github.com/lightningnetwork/lnd/fn/v2"
)

// resolvedSnapshot pairs a snapshot payload with the resolver that can
// apply it, prepared ahead of the Apply step so resolution failures
// surface during fixture-building, not mid-apply.
type resolvedSnapshot[A any] struct {
	resolver SnapshotResolver[A]
	payload  SnapShotPayload
}

// resolvedJournalEntry pairs a journal payload with its resolver.
type resolvedJournalEntry[A any] struct {
	resolver JournalResolver[A]
	payload  JournalPayload
}

// Fixture is a prepared sequence of a decoded snapshot (0 or 1) followed by
// decoded journal entries (0..N, ascending by seq) that, applied in order
// to a freshly constructed actor, reconstructs its state. Building a
// Fixture never mutates the target actor; only Apply does.
type Fixture[A any] struct {
	snapshot fn.Option[resolvedSnapshot[A]]
	journal  []resolvedJournalEntry[A]
}

// IsEmpty reports whether this fixture has nothing to apply, i.e. neither
// a snapshot nor any journal entries were found for the stream.
func (f Fixture[A]) IsEmpty() bool {
	return f.snapshot.IsNone() && len(f.journal) == 0
}

// BatchRecoverer is an optional interface a recoverable state can
// implement to consume an activation's journal entries in a single call
// instead of one resolver invocation per entry. Implementations take over
// decoding: payloads arrive raw, ascending by seq, and the per-entry
// resolvers registered in the RecoveryMapping are bypassed entirely (they
// are still consulted to build the fixture, so unknown registry keys fail
// before the batch ever runs).
type BatchRecoverer interface {
	RecoverBatch(payloads []JournalPayload) error
}

// Apply runs the fixture's snapshot resolver (if present) followed by each
// journal resolver in ascending seq order, against target. It returns the
// last applied sequence (the context resumes one past it): the snapshot's
// seq if only a
// snapshot applied, the last journal entry's seq if any journal entries
// applied, or MinSequenceId if the fixture was empty.
func (f Fixture[A]) Apply(target A) (SequenceId, error) {
	seq := MinSequenceId

	if f.snapshot.IsSome() {
		snap := f.snapshot.UnwrapOr(resolvedSnapshot[A]{})
		if err := snap.resolver(target, snap.payload); err != nil {
			return seq, fmt.Errorf("%w: snapshot seq %d: %v",
				ErrRecoveryFailed, snap.payload.Seq, err)
		}
		seq = snap.payload.Seq
	}

	if batcher, ok := any(target).(BatchRecoverer); ok && len(f.journal) > 0 {
		payloads := make([]JournalPayload, len(f.journal))
		for i, entry := range f.journal {
			payloads[i] = entry.payload
		}

		if err := batcher.RecoverBatch(payloads); err != nil {
			return seq, fmt.Errorf("%w: batch of %d entries: %v",
				ErrRecoveryFailed, len(payloads), err)
		}

		return payloads[len(payloads)-1].Seq, nil
	}

	for _, entry := range f.journal {
		if err := entry.resolver(target, entry.payload); err != nil {
			return seq, fmt.Errorf("%w: journal seq %d: %v",
				ErrRecoveryFailed, entry.payload.Seq, err)
		}
		seq = entry.payload.Seq
	}

	return seq, nil
}
