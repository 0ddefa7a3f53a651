package persistence

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRecoveryMappingEmptyByDefault(t *testing.T) {
	t.Parallel()

	mapping := NewRecoveryMapping[*kvState]()
	require.True(t, mapping.IsEmpty())
	require.False(t, mapping.HasJournal())
	require.False(t, mapping.HasSnapshot())
}

func TestRecoveryMappingRegisterJournalMarksNonEmpty(t *testing.T) {
	t.Parallel()

	mapping := NewRecoveryMapping[*kvState]()
	mapping.RegisterJournal("added", func(*kvState, JournalPayload) error {
		return nil
	})

	require.False(t, mapping.IsEmpty())
	require.True(t, mapping.HasJournal())
	require.False(t, mapping.HasSnapshot())
}

func TestRecoveryMappingRegisterSnapshotMarksNonEmpty(t *testing.T) {
	t.Parallel()

	mapping := NewRecoveryMapping[*kvState]()
	mapping.RegisterSnapshot("state", func(*kvState, SnapShotPayload) error {
		return nil
	})

	require.False(t, mapping.IsEmpty())
	require.False(t, mapping.HasJournal())
	require.True(t, mapping.HasSnapshot())
}

func TestRecoveryMappingResolveUnknownKeyFails(t *testing.T) {
	t.Parallel()

	mapping := NewRecoveryMapping[*kvState]()
	mapping.RegisterJournal("added", func(*kvState, JournalPayload) error {
		return nil
	})

	_, err := mapping.resolveJournal("removed")
	require.ErrorIs(t, err, ErrNotCompatible)

	_, err = mapping.resolveSnapshot("state")
	require.ErrorIs(t, err, ErrNotCompatible)
}

func TestRecoveryMappingRegisterReturnsSelfForChaining(t *testing.T) {
	t.Parallel()

	mapping := NewRecoveryMapping[*kvState]()
	returned := mapping.RegisterJournal("added",
		func(*kvState, JournalPayload) error { return nil })

	require.Same(t, mapping, returned)
}
