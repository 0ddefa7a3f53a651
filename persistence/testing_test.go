package persistence

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/lightningnetwork/lnd/fn/v2"
)

// errTransientWrite simulates a provider error that alwaysFailJournal
// returns until its failCount is exhausted.
var errTransientWrite = errors.New("simulated transient write failure")

// The in-memory providers must satisfy the same contracts
// sqlitejournal.Provider does against a real database.
var (
	_ JournalProvider  = (*memoryJournal)(nil)
	_ SnapShotProvider = (*memorySnapshot)(nil)
)

// memoryJournal is an in-memory JournalProvider used across this package's
// tests, grounded on the same fixture-building contract
// sqlitejournal.Provider satisfies against a real database.
type memoryJournal struct {
	mu      sync.Mutex
	entries map[string][]JournalPayload
}

func newMemoryJournal() *memoryJournal {
	return &memoryJournal{entries: make(map[string][]JournalPayload)}
}

func streamKey(id PersistenceId, version Version) string {
	return string(id) + "/" + string(version)
}

func (m *memoryJournal) Insert(_ context.Context, id PersistenceId,
	version Version, _ SequenceId, payload JournalPayload) error {

	m.mu.Lock()
	defer m.mu.Unlock()

	key := streamKey(id, version)
	m.entries[key] = append(m.entries[key], payload)
	sort.Slice(m.entries[key], func(i, j int) bool {
		return m.entries[key][i].Seq < m.entries[key][j].Seq
	})

	return nil
}

func (m *memoryJournal) SelectOne(_ context.Context, id PersistenceId,
	version Version, seq SequenceId) (fn.Option[JournalPayload], error) {

	m.mu.Lock()
	defer m.mu.Unlock()

	for _, entry := range m.entries[streamKey(id, version)] {
		if entry.Seq == seq {
			return fn.Some(entry), nil
		}
	}

	return fn.None[JournalPayload](), nil
}

func (m *memoryJournal) SelectMany(_ context.Context, id PersistenceId,
	version Version, criteria SelectionCriteria) ([]JournalPayload, error) {

	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]JournalPayload, 0)
	for _, entry := range m.entries[streamKey(id, version)] {
		if entry.Seq >= criteria.Min && entry.Seq <= criteria.Max {
			out = append(out, entry)
		}
	}

	return out, nil
}

// memorySnapshot is an in-memory SnapShotProvider used across this
// package's tests.
type memorySnapshot struct {
	mu      sync.Mutex
	entries map[string][]SnapShotPayload
}

func newMemorySnapshot() *memorySnapshot {
	return &memorySnapshot{entries: make(map[string][]SnapShotPayload)}
}

func (m *memorySnapshot) Insert(_ context.Context, id PersistenceId,
	version Version, _ SequenceId, payload SnapShotPayload) error {

	m.mu.Lock()
	defer m.mu.Unlock()

	key := streamKey(id, version)
	m.entries[key] = append(m.entries[key], payload)
	sort.Slice(m.entries[key], func(i, j int) bool {
		return m.entries[key][i].Seq < m.entries[key][j].Seq
	})

	return nil
}

func (m *memorySnapshot) Select(_ context.Context, id PersistenceId,
	version Version, seq SequenceId) (fn.Option[SnapShotPayload], error) {

	m.mu.Lock()
	defer m.mu.Unlock()

	var best fn.Option[SnapShotPayload]
	for _, entry := range m.entries[streamKey(id, version)] {
		if entry.Seq <= seq {
			best = fn.Some(entry)
		}
	}

	return best, nil
}

// alwaysFailJournal is a JournalProvider whose Insert fails until failCount
// attempts have been made (forever if failCount is negative), used to
// exercise PersistentContext's retry-then-give-up path. Every attempted
// seq is recorded so tests can assert the context's sequence did (or did
// not) advance between writes.
type alwaysFailJournal struct {
	*memoryJournal

	failCount int
	calls     int
	seqs      []SequenceId
}

func (f *alwaysFailJournal) Insert(ctx context.Context, id PersistenceId,
	version Version, seq SequenceId, payload JournalPayload) error {

	f.calls++
	f.seqs = append(f.seqs, seq)
	if f.failCount < 0 || f.calls <= f.failCount {
		return errTransientWrite
	}

	return f.memoryJournal.Insert(ctx, id, version, seq, payload)
}
