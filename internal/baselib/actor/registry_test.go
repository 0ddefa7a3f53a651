package actor

import (
	"testing"

	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

// fakeDynRef is a minimal AnyRef stub for exercising Registry in isolation,
// without spinning up a real Actor lifecycle goroutine.
type fakeDynRef struct {
	id    ActorId
	state RunningState
}

func (f *fakeDynRef) ID() ActorId         { return f.id }
func (f *fakeDynRef) Shutdown()           { f.state = StateShutdown }
func (f *fakeDynRef) State() RunningState { return f.state }

// registryOp is one step of the generated operation sequence driving
// TestRegistryAtMostOneActiveEntryInvariant: either insert a fresh Active
// entry under id, or shut down the entry already registered under id.
type registryOp struct {
	insert bool
}

// TestRegistryAtMostOneActiveEntryInvariant checks, over generated
// sequences of insert/shutdown operations against a single id, that
// Registry never holds two simultaneously-Active entries for that id:
// tryInsert either installs the new entry or fails with
// ErrAlreadySpawned, and a successful insert is only ever possible when
// the previous occupant (if any) has already transitioned to
// StateShutdown.
func TestRegistryAtMostOneActiveEntryInvariant(t *testing.T) {
	t.Parallel()

	rapid.Check(t, func(t *rapid.T) {
		reg := newRegistry()
		id := ActorId("probe")

		var current *fakeDynRef

		numOps := rapid.IntRange(1, 30).Draw(t, "numOps")
		for i := 0; i < numOps; i++ {
			op := registryOp{insert: rapid.Bool().Draw(t, "insert")}

			if op.insert {
				next := &fakeDynRef{id: id, state: StateActive}
				err := reg.tryInsert(id, next)

				if current != nil && current.State() == StateActive {
					require.ErrorIs(t, err, ErrAlreadySpawned)

					ref, ok := reg.find(id)
					require.True(t, ok)
					require.Same(t, current, ref.(*fakeDynRef))
				} else {
					require.NoError(t, err)
					current = next
				}
			} else if current != nil {
				current.Shutdown()
			}

			if current != nil {
				require.LessOrEqual(t,
					activeCount(reg, id), 1)
			}
		}
	})
}

// activeCount returns 1 if id's registry entry is currently Active, 0
// otherwise (0 or 1 is all the invariant under test permits).
func activeCount(reg *Registry, id ActorId) int {
	ref, ok := reg.find(id)
	if !ok || ref.State() != StateActive {
		return 0
	}
	return 1
}
