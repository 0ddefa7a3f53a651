// Package sqlitejournal is a sqlite3-backed implementation of
// persistence.JournalProvider and persistence.SnapShotProvider, built on
// internal/db's generic transaction-retry and migration infrastructure.
package sqlitejournal

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/lightningnetwork/lnd/fn/v2"
	"github.com/roasbeef/lutetium/internal/db"
	"github.com/roasbeef/lutetium/persistence"
)

// Provider is a single sqlite-backed store implementing both
// persistence.JournalProvider and persistence.SnapShotProvider, sharing one
// underlying database connection and retrying writes on serialization or
// deadlock errors the way internal/db/tx_executor.go retries any other
// transaction.
type Provider struct {
	*db.SqliteStore

	txExecutor *db.TransactionExecutor[*Queries]
}

// NewProvider opens (and, unless skipped, migrates) a sqlite database at
// cfg.DatabaseFileName and returns a Provider ready to be installed as both
// journal and snapshot extensions on an actor.System.
func NewProvider(cfg *db.SqliteConfig, log *slog.Logger) (*Provider, error) {
	source := db.MigrationSource{
		FS:            sqlSchemas,
		Path:          "migrations",
		LatestVersion: LatestMigrationVersion,
	}

	store, err := db.NewSqliteStore(cfg, source, log)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite journal store: %w", err)
	}

	createQuery := func(tx *sql.Tx) *Queries { return New(tx) }

	return &Provider{
		SqliteStore: store,
		txExecutor: db.NewTransactionExecutor(
			store.BaseDB, createQuery, log,
		),
	}, nil
}

// Ensure both provider facades satisfy their interfaces at compile time.
var (
	_ persistence.JournalProvider  = (*Provider)(nil)
	_ persistence.SnapShotProvider = (*snapshotAdapter)(nil)
)

// Insert implements persistence.JournalProvider.
func (p *Provider) Insert(ctx context.Context, id persistence.PersistenceId,
	version persistence.Version, seq persistence.SequenceId,
	payload persistence.JournalPayload) error {

	row := JournalEntryRow{
		PersistenceID: string(id),
		Version:       string(version),
		Seq:           int64(seq),
		RegistryKey:   payload.RegistryKey,
		Payload:       payload.Bytes,
		InsertedAt:    nowUnix(),
	}

	return p.txExecutor.ExecTx(ctx, db.WriteTxOption(), func(q *Queries) error {
		if err := q.InsertJournalEntry(ctx, row); err != nil {
			return mapWriteError(err)
		}
		return nil
	})
}

// SelectOne implements persistence.JournalProvider.
func (p *Provider) SelectOne(ctx context.Context, id persistence.PersistenceId,
	version persistence.Version, seq persistence.SequenceId,
) (fn.Option[persistence.JournalPayload], error) {

	var result fn.Option[persistence.JournalPayload]

	err := p.txExecutor.ExecTx(ctx, db.ReadTxOption(), func(q *Queries) error {
		row, err := q.SelectJournalEntry(
			ctx, string(id), string(version), int64(seq),
		)
		if errors.Is(err, sql.ErrNoRows) {
			return nil
		}
		if err != nil {
			return db.MapSQLError(err)
		}

		result = fn.Some(journalPayloadFromRow(row))
		return nil
	})

	return result, err
}

// SelectMany implements persistence.JournalProvider. A stream with no
// matching entries returns an empty, non-nil slice.
func (p *Provider) SelectMany(ctx context.Context, id persistence.PersistenceId,
	version persistence.Version, criteria persistence.SelectionCriteria,
) ([]persistence.JournalPayload, error) {

	var payloads []persistence.JournalPayload

	err := p.txExecutor.ExecTx(ctx, db.ReadTxOption(), func(q *Queries) error {
		rows, err := q.SelectJournalEntries(
			ctx, string(id), string(version),
			int64(criteria.Min), int64(criteria.Max),
		)
		if err != nil {
			return db.MapSQLError(err)
		}

		payloads = make([]persistence.JournalPayload, 0, len(rows))
		for _, row := range rows {
			payloads = append(payloads, journalPayloadFromRow(row))
		}
		return nil
	})

	return payloads, err
}

// Snapshots returns a persistence.SnapShotProvider view onto the same
// underlying database connection. Go has no method overloading, so the
// journal's Insert/Select and the snapshot's Insert/Select can't both live
// directly on Provider; Snapshots wraps it in a distinctly-named adapter
// instead, giving one connection two provider facades.
func (p *Provider) Snapshots() persistence.SnapShotProvider {
	return (*snapshotAdapter)(p)
}

// snapshotAdapter is Provider under a different method set, implementing
// persistence.SnapShotProvider.
type snapshotAdapter Provider

func (p *snapshotAdapter) Insert(ctx context.Context,
	id persistence.PersistenceId, version persistence.Version,
	seq persistence.SequenceId, payload persistence.SnapShotPayload) error {

	return (*Provider)(p).insertSnapshot(ctx, id, version, seq, payload)
}

func (p *snapshotAdapter) Select(ctx context.Context,
	id persistence.PersistenceId, version persistence.Version,
	seq persistence.SequenceId,
) (fn.Option[persistence.SnapShotPayload], error) {

	return (*Provider)(p).selectSnapshot(ctx, id, version, seq)
}

// insertSnapshot is the concrete snapshot-write path shared by snapshotAdapter.
func (p *Provider) insertSnapshot(ctx context.Context,
	id persistence.PersistenceId, version persistence.Version,
	seq persistence.SequenceId, payload persistence.SnapShotPayload) error {

	row := SnapshotRow{
		PersistenceID: string(id),
		Version:       string(version),
		Seq:           int64(seq),
		RegistryKey:   payload.RegistryKey,
		Payload:       payload.Bytes,
		InsertedAt:    nowUnix(),
	}

	return p.txExecutor.ExecTx(ctx, db.WriteTxOption(), func(q *Queries) error {
		if err := q.InsertSnapshot(ctx, row); err != nil {
			return mapWriteError(err)
		}
		return nil
	})
}

// mapWriteError classifies a journal/snapshot insert failure. A unique (or
// primary key) constraint violation on the (persistence_id, version, seq)
// key means an entry already exists at that coordinate, which the
// persistence package surfaces as persistence.ErrDuplicateSequence rather
// than a raw SQL error; anything else is mapped generically.
func mapWriteError(err error) error {
	mapped := db.MapSQLError(err)
	if db.IsUniqueConstraintViolation(mapped) {
		return fmt.Errorf("%w: %v", persistence.ErrDuplicateSequence, mapped)
	}
	return mapped
}

// selectSnapshot is the concrete snapshot-read path shared by snapshotAdapter.
func (p *Provider) selectSnapshot(ctx context.Context,
	id persistence.PersistenceId, version persistence.Version,
	seq persistence.SequenceId,
) (fn.Option[persistence.SnapShotPayload], error) {

	var result fn.Option[persistence.SnapShotPayload]

	err := p.txExecutor.ExecTx(ctx, db.ReadTxOption(), func(q *Queries) error {
		row, err := q.SelectLatestSnapshot(
			ctx, string(id), string(version), int64(seq),
		)
		if errors.Is(err, sql.ErrNoRows) {
			return nil
		}
		if err != nil {
			return db.MapSQLError(err)
		}

		result = fn.Some(persistence.SnapShotPayload{
			PersistenceId: persistence.PersistenceId(row.PersistenceID),
			RegistryKey:   row.RegistryKey,
			Seq:           persistence.SequenceId(row.Seq),
			Bytes:         row.Payload,
		})
		return nil
	})

	return result, err
}

func journalPayloadFromRow(row JournalEntryRow) persistence.JournalPayload {
	return persistence.JournalPayload{
		Seq:         persistence.SequenceId(row.Seq),
		RegistryKey: row.RegistryKey,
		Bytes:       row.Payload,
	}
}
