package persistence

import (
	"fmt"
	"reflect"
)

// JournalResolver decodes a journal payload's bytes and applies the
// decoded event to actor. A is the concrete recoverable actor state type,
// not the ActorBehavior wrapper.
type JournalResolver[A any] func(actor A, payload JournalPayload) error

// SnapshotResolver decodes a snapshot payload's bytes and applies the
// decoded state to actor.
type SnapshotResolver[A any] func(actor A, payload SnapShotPayload) error

// RecoveryKey compounds the actor's static type with a payload's
// registry_key. The type parameter on RecoveryMapping[A] already separates
// one persistent actor type's resolvers from another's, so the
// reflect.Type half of the key is carried for diagnostics (error messages,
// logging) rather than as a second map dimension.
type RecoveryKey struct {
	ActorType   reflect.Type
	RegistryKey string
}

func (k RecoveryKey) String() string {
	return fmt.Sprintf("%s/%s", k.ActorType, k.RegistryKey)
}

// RecoveryMapping indexes journal and snapshot resolvers by registry_key
// for one persistent actor type A. A persistent actor type builds its
// mapping once (typically in a package-level var or in its constructor)
// and reuses it across every instance and recovery.
type RecoveryMapping[A any] struct {
	actorType reflect.Type
	journal   map[string]JournalResolver[A]
	snapshot  map[string]SnapshotResolver[A]
}

// NewRecoveryMapping creates an empty RecoveryMapping for actor type A.
func NewRecoveryMapping[A any]() *RecoveryMapping[A] {
	return &RecoveryMapping[A]{
		actorType: reflect.TypeOf((*A)(nil)).Elem(),
		journal:   make(map[string]JournalResolver[A]),
		snapshot:  make(map[string]SnapshotResolver[A]),
	}
}

// RegisterJournal installs the resolver for journal payloads carrying
// registryKey. Returns the mapping for chaining.
func (m *RecoveryMapping[A]) RegisterJournal(registryKey string,
	resolver JournalResolver[A]) *RecoveryMapping[A] {

	m.journal[registryKey] = resolver
	return m
}

// RegisterSnapshot installs the resolver for snapshot payloads carrying
// registryKey. Returns the mapping for chaining.
func (m *RecoveryMapping[A]) RegisterSnapshot(registryKey string,
	resolver SnapshotResolver[A]) *RecoveryMapping[A] {

	m.snapshot[registryKey] = resolver
	return m
}

// IsEmpty reports whether neither journal nor snapshot resolvers have been
// registered, in which case recovery is a no-op.
func (m *RecoveryMapping[A]) IsEmpty() bool {
	return len(m.journal) == 0 && len(m.snapshot) == 0
}

// HasJournal reports whether any journal resolver has been registered.
func (m *RecoveryMapping[A]) HasJournal() bool {
	return len(m.journal) != 0
}

// HasSnapshot reports whether any snapshot resolver has been registered.
func (m *RecoveryMapping[A]) HasSnapshot() bool {
	return len(m.snapshot) != 0
}

// resolveJournal looks up the resolver for a journal payload's
// registry_key, failing with ErrNotCompatible if none was registered.
func (m *RecoveryMapping[A]) resolveJournal(
	registryKey string) (JournalResolver[A], error) {

	resolver, ok := m.journal[registryKey]
	if !ok {
		key := RecoveryKey{ActorType: m.actorType, RegistryKey: registryKey}
		return nil, fmt.Errorf("%w: %s", ErrNotCompatible, key)
	}

	return resolver, nil
}

// resolveSnapshot looks up the resolver for a snapshot payload's
// registry_key, failing with ErrNotCompatible if none was registered.
func (m *RecoveryMapping[A]) resolveSnapshot(
	registryKey string) (SnapshotResolver[A], error) {

	resolver, ok := m.snapshot[registryKey]
	if !ok {
		key := RecoveryKey{ActorType: m.actorType, RegistryKey: registryKey}
		return nil, fmt.Errorf("%w: %s", ErrNotCompatible, key)
	}

	return resolver, nil
}
