package sqlitejournal

import (
	"context"
	"database/sql"
)

// DBTX is the minimal surface Queries needs from either a *sql.DB or a
// *sql.Tx, mirroring the narrow interface a sqlc-generated Queries type is
// built against. This package hand-writes that interface and its query
// methods directly: the schema is small and fixed (two tables), and
// running the sqlc code generator is out of scope for this module.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Queries is the query surface over the journal_entries and snapshots
// tables created by this package's migrations.
type Queries struct {
	db DBTX
}

// New wraps db (a *sql.DB or a transaction-scoped *sql.Tx) in a Queries.
func New(db DBTX) *Queries {
	return &Queries{db: db}
}

// JournalEntryRow is one row of the journal_entries table.
type JournalEntryRow struct {
	PersistenceID string
	Version       string
	Seq           int64
	RegistryKey   string
	Payload       []byte
	InsertedAt    int64
}

// SnapshotRow is one row of the snapshots table.
type SnapshotRow struct {
	PersistenceID string
	Version       string
	Seq           int64
	RegistryKey   string
	Payload       []byte
	InsertedAt    int64
}

const insertJournalEntryQuery = `
INSERT INTO journal_entries (
	persistence_id, version, seq, registry_key, payload, inserted_at
) VALUES (?, ?, ?, ?, ?, ?)
`

// InsertJournalEntry durably appends one journal row. A conflict on the
// (persistence_id, version, seq) primary key surfaces as a unique
// constraint violation via db.MapSQLError.
func (q *Queries) InsertJournalEntry(ctx context.Context,
	row JournalEntryRow) error {

	_, err := q.db.ExecContext(ctx, insertJournalEntryQuery,
		row.PersistenceID, row.Version, row.Seq, row.RegistryKey,
		row.Payload, row.InsertedAt)
	return err
}

const selectJournalEntryQuery = `
SELECT persistence_id, version, seq, registry_key, payload, inserted_at
FROM journal_entries
WHERE persistence_id = ? AND version = ? AND seq = ?
`

// SelectJournalEntry fetches the single journal row at seq, or
// sql.ErrNoRows if none exists.
func (q *Queries) SelectJournalEntry(ctx context.Context, persistenceID,
	version string, seq int64) (JournalEntryRow, error) {

	var row JournalEntryRow
	err := q.db.QueryRowContext(
		ctx, selectJournalEntryQuery, persistenceID, version, seq,
	).Scan(
		&row.PersistenceID, &row.Version, &row.Seq, &row.RegistryKey,
		&row.Payload, &row.InsertedAt,
	)
	return row, err
}

const selectJournalEntriesQuery = `
SELECT persistence_id, version, seq, registry_key, payload, inserted_at
FROM journal_entries
WHERE persistence_id = ? AND version = ? AND seq >= ? AND seq <= ?
ORDER BY seq ASC
`

// SelectJournalEntries fetches every journal row in [minSeq, maxSeq],
// ascending by seq.
func (q *Queries) SelectJournalEntries(ctx context.Context, persistenceID,
	version string, minSeq, maxSeq int64) ([]JournalEntryRow, error) {

	rows, err := q.db.QueryContext(ctx, selectJournalEntriesQuery,
		persistenceID, version, minSeq, maxSeq)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []JournalEntryRow
	for rows.Next() {
		var row JournalEntryRow
		if err := rows.Scan(&row.PersistenceID, &row.Version, &row.Seq,
			&row.RegistryKey, &row.Payload, &row.InsertedAt); err != nil {

			return nil, err
		}
		entries = append(entries, row)
	}

	return entries, rows.Err()
}

const insertSnapshotQuery = `
INSERT INTO snapshots (
	persistence_id, version, seq, registry_key, payload, inserted_at
) VALUES (?, ?, ?, ?, ?, ?)
`

// InsertSnapshot durably stores one snapshot row.
func (q *Queries) InsertSnapshot(ctx context.Context, row SnapshotRow) error {
	_, err := q.db.ExecContext(ctx, insertSnapshotQuery,
		row.PersistenceID, row.Version, row.Seq, row.RegistryKey,
		row.Payload, row.InsertedAt)
	return err
}

const selectLatestSnapshotQuery = `
SELECT persistence_id, version, seq, registry_key, payload, inserted_at
FROM snapshots
WHERE persistence_id = ? AND version = ? AND seq <= ?
ORDER BY seq DESC
LIMIT 1
`

// SelectLatestSnapshot fetches the snapshot row with the greatest seq <=
// maxSeq, or sql.ErrNoRows if none exists.
func (q *Queries) SelectLatestSnapshot(ctx context.Context, persistenceID,
	version string, maxSeq int64) (SnapshotRow, error) {

	var row SnapshotRow
	err := q.db.QueryRowContext(
		ctx, selectLatestSnapshotQuery, persistenceID, version, maxSeq,
	).Scan(
		&row.PersistenceID, &row.Version, &row.Seq, &row.RegistryKey,
		&row.Payload, &row.InsertedAt,
	)
	return row, err
}
