package persistence

import (
	"context"

	"github.com/lightningnetwork/lnd/fn/v2"
)

// JournalProvider is a host-supplied capability for durably storing and
// retrieving an ordered event log per (PersistenceId, Version) stream.
// Implementations must be safe to call concurrently from multiple actors.
type JournalProvider interface {
	// Insert durably appends payload at seq for id/version.
	Insert(ctx context.Context, id PersistenceId, version Version,
		seq SequenceId, payload JournalPayload) error

	// SelectOne fetches the single entry at seq, if any.
	SelectOne(ctx context.Context, id PersistenceId, version Version,
		seq SequenceId) (fn.Option[JournalPayload], error)

	// SelectMany fetches every entry whose seq falls within criteria,
	// ascending by seq. A stream with no matching entries returns an
	// empty slice, not an error.
	SelectMany(ctx context.Context, id PersistenceId, version Version,
		criteria SelectionCriteria) ([]JournalPayload, error)
}

// SnapShotProvider is a host-supplied capability for durably storing and
// retrieving point-in-time snapshots per (PersistenceId, Version) stream.
type SnapShotProvider interface {
	// Insert durably stores payload as the snapshot taken at its own
	// Seq for id/version.
	Insert(ctx context.Context, id PersistenceId, version Version,
		seq SequenceId, payload SnapShotPayload) error

	// Select returns the snapshot with the greatest seq <= the
	// requested bound, if any. Passing MaxSequenceId fetches the latest
	// snapshot for the stream.
	Select(ctx context.Context, id PersistenceId, version Version,
		seq SequenceId) (fn.Option[SnapShotPayload], error)
}
