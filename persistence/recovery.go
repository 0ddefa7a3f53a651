package persistence

import (
	"context"

	"github.com/lightningnetwork/lnd/fn/v2"
)

// BuildFixture runs steps 1-3 of the recovery algorithm: it builds the
// snapshot fixture (if the mapping has snapshot resolvers) and the journal
// fixture (if the mapping has journal resolvers), without applying
// anything to an actor instance. Applying the result is a separate step
// (Fixture.Apply) so callers can inspect what would be recovered before
// committing it.
func BuildFixture[A any](ctx context.Context, id PersistenceId,
	version Version, mapping *RecoveryMapping[A],
	journals JournalProvider, snapshots SnapShotProvider,
) (Fixture[A], error) {

	var fixture Fixture[A]

	if mapping.IsEmpty() {
		return fixture, nil
	}

	// Step 2: snapshot fixture.
	snapshotBaseline := fn.None[SequenceId]()
	if mapping.HasSnapshot() {
		latest, err := snapshots.Select(ctx, id, version, MaxSequenceId)
		if err != nil {
			return fixture, err
		}

		if latest.IsSome() {
			payload := latest.UnwrapOr(SnapShotPayload{})

			resolver, err := mapping.resolveSnapshot(payload.RegistryKey)
			if err != nil {
				return fixture, err
			}

			fixture.snapshot = fn.Some(resolvedSnapshot[A]{
				resolver: resolver,
				payload:  payload,
			})
			snapshotBaseline = fn.Some(payload.Seq)
		}
	}

	// Step 3: journal fixture.
	if mapping.HasJournal() {
		var criteria SelectionCriteria
		if snapshotBaseline.IsSome() {
			criteria = FromSequence(snapshotBaseline.UnwrapOr(MinSequenceId))
		} else {
			criteria = AllSequences()
		}

		payloads, err := journals.SelectMany(ctx, id, version, criteria)
		if err != nil {
			return fixture, err
		}

		entries := make([]resolvedJournalEntry[A], 0, len(payloads))
		for _, payload := range payloads {
			resolver, err := mapping.resolveJournal(payload.RegistryKey)
			if err != nil {
				return fixture, err
			}

			entries = append(entries, resolvedJournalEntry[A]{
				resolver: resolver,
				payload:  payload,
			})
		}

		fixture.journal = entries
	}

	return fixture, nil
}

// Recover runs the full recovery algorithm (steps 1-4: build the fixture,
// then apply it to target) and returns the last applied SequenceId (the
// actor's context resumes one past it), or None if the fixture was empty
// (no snapshot and no
// journal entries existed for the stream), distinct from a fixture that
// resolved to seq 0 legitimately. Step 5 (the actor's post-recovery hook)
// is the caller's responsibility; see PersistentBehavior.
func Recover[A any](ctx context.Context, id PersistenceId, version Version,
	mapping *RecoveryMapping[A], journals JournalProvider,
	snapshots SnapShotProvider, target A,
) (fn.Option[SequenceId], error) {

	fixture, err := BuildFixture(ctx, id, version, mapping, journals, snapshots)
	if err != nil {
		return fn.None[SequenceId](), err
	}

	if fixture.IsEmpty() {
		return fn.None[SequenceId](), nil
	}

	log.DebugS(ctx, "Applying recovery fixture",
		"persistence_id", id, "version", version,
		"journal_entries", len(fixture.journal),
		"has_snapshot", fixture.snapshot.IsSome())

	seq, err := fixture.Apply(target)
	if err != nil {
		return fn.None[SequenceId](), err
	}

	return fn.Some(seq), nil
}
