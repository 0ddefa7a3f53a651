package persistence

import (
	"math"
	"testing"

	"github.com/roasbeef/lutetium/internal/baselib/actor"
	"github.com/stretchr/testify/require"
)

func TestPersistenceIdActorIdRoundTrip(t *testing.T) {
	t.Parallel()

	id := actor.ActorId("worker-1")
	pid := FromActorId(id)
	require.Equal(t, PersistenceId("worker-1"), pid)
	require.Equal(t, id, pid.ActorId())
	require.Equal(t, "worker-1", pid.String())
}

func TestSequenceIdNextIncrements(t *testing.T) {
	t.Parallel()

	var seq SequenceId = 41
	require.Equal(t, SequenceId(42), seq.Next())
}

func TestSequenceIdSentinels(t *testing.T) {
	t.Parallel()

	require.Equal(t, SequenceId(0), MinSequenceId)
	require.Equal(t, SequenceId(math.MaxInt64), MaxSequenceId)
	require.True(t, MinSequenceId < MaxSequenceId)
}
