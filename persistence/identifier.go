// Package persistence augments a subset of actors ("persistent actors")
// with event-sourced state reconstruction: a journal of ordered events plus
// optional point-in-time snapshots, replayed during activation to rebuild
// in-memory state before the actor's mailbox is ever consumed.
package persistence

import (
	"math"

	"github.com/roasbeef/lutetium/internal/baselib/actor"
)

// PersistenceId addresses a stream in journal/snapshot storage. It shares
// ActorId's shape and is freely convertible both ways, but the two are kept
// as distinct types: an actor's identity in the Registry and its identity
// as a durable stream are conceptually separate, even though most actors
// use the same string for both.
type PersistenceId string

// FromActorId converts an ActorId to the PersistenceId of the same stream.
func FromActorId(id actor.ActorId) PersistenceId {
	return PersistenceId(id.String())
}

// ActorId converts back to the ActorId of the same stream.
func (p PersistenceId) ActorId() actor.ActorId {
	return actor.ActorId(p)
}

// String implements fmt.Stringer.
func (p PersistenceId) String() string {
	return string(p)
}

// SequenceId is a monotonically increasing, signed 64-bit event counter. It
// starts at 0 on a fresh actor, increases by exactly one per persisted
// event, and may be assigned directly from a snapshot's seq during
// recovery.
type SequenceId int64

const (
	// MinSequenceId is the lower sentinel for selection bounds and the
	// starting sequence of a fresh actor.
	MinSequenceId SequenceId = 0

	// MaxSequenceId is the upper sentinel for selection bounds; querying
	// a snapshot at MaxSequenceId means "the latest snapshot, whatever
	// its seq".
	MaxSequenceId SequenceId = math.MaxInt64
)

// Next returns the sequence that immediately follows s.
func (s SequenceId) Next() SequenceId {
	return s + 1
}

// Version is a compile-time string attached per persistent actor type.
// Journal and snapshot payloads are partitioned by version so a type can
// change schema without colliding with older streams under the same
// PersistenceId.
type Version string
