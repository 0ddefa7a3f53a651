package actor

import (
	"context"
	"fmt"
	"sync"
)

// Registry is the concurrent `ActorId -> AnyRef` directory shared by a
// System. At most one live entry exists per id at any time; entries are
// removed only by the owning lifecycle task on loop exit (see Actor.process),
// never by a deregistrar, closing the window in which a new spawn under the
// same id could race with the old lifecycle still draining.
type Registry struct {
	mu      sync.RWMutex
	entries map[ActorId]AnyRef
}

func newRegistry() *Registry {
	return &Registry{entries: make(map[ActorId]AnyRef)}
}

// find returns the AnyRef registered under id, if any.
func (r *Registry) find(id ActorId) (AnyRef, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ref, ok := r.entries[id]
	return ref, ok
}

// tryInsert inserts ref under id. If an Active entry already exists, it
// fails with ErrAlreadySpawned. If a prior entry exists but has already
// transitioned to Shutdown, it is overwritten; this is logged as a warning,
// not an error, since the old lifecycle is guaranteed to be on its way out.
func (r *Registry) tryInsert(id ActorId, ref AnyRef) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if existing, ok := r.entries[id]; ok {
		if existing.State() == StateActive {
			return fmt.Errorf("%w: %s", ErrAlreadySpawned, id)
		}

		log.WarnS(context.Background(),
			"actor during shutdown was overwritten", nil,
			"actor_id", id)
	}

	r.entries[id] = ref
	return nil
}

// remove deletes the entry for id. Called only by Actor.process on its own
// exit.
func (r *Registry) remove(id ActorId) {
	r.mu.Lock()
	delete(r.entries, id)
	r.mu.Unlock()
}

// deregister signals shutdown for the actor registered under id without
// removing the registry entry; the owning lifecycle task removes itself on
// exit.
func (r *Registry) deregister(id ActorId) error {
	r.mu.RLock()
	ref, ok := r.entries[id]
	r.mu.RUnlock()

	if !ok {
		return fmt.Errorf("%w: %s", ErrNotFoundActor, id)
	}

	ref.Shutdown()
	return nil
}

// shutdownAll triggers shutdown on a snapshot of every registered entry.
// Errors are not possible at this level (Shutdown never fails); callers
// that need to wait for drain should track actor goroutines themselves
// (see System.ShutdownAll).
func (r *Registry) shutdownAll() {
	r.mu.RLock()
	refs := make([]AnyRef, 0, len(r.entries))
	for _, ref := range r.entries {
		refs = append(refs, ref)
	}
	r.mu.RUnlock()

	for _, ref := range refs {
		ref.Shutdown()
	}
}

// Find returns the AnyRef registered under id without attempting a
// downcast. Most callers want the generic Find[M, R] function instead.
func (r *Registry) Find(id ActorId) (AnyRef, bool) {
	return r.find(id)
}

// Find looks up id in sys's registry and downcasts the stored AnyRef to
// ActorRef[M, R]. This is a package-level generic function because Go
// methods cannot carry their own type parameters.
func Find[M Message, R any](sys *System, id ActorId) (ActorRef[M, R], error) {
	anyRef, ok := sys.registry.find(id)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFoundActor, id)
	}

	typed, ok := anyRef.(ActorRef[M, R])
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrDownCastFromAny, id)
	}

	return typed, nil
}

// FindOr looks up id and returns its ActorRef if present; otherwise it
// spawns a new actor built by build and returns its ref. build runs only
// when no entry exists.
func FindOr[M Message, R any](sys *System, id ActorId,
	build func() ActorBehavior[M, R], opts ...SpawnOption,
) (ActorRef[M, R], error) {

	if ref, err := Find[M, R](sys, id); err == nil {
		return ref, nil
	}

	return Spawn[M, R](sys, id, build(), opts...)
}
