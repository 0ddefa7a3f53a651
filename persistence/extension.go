package persistence

import (
	"github.com/lightningnetwork/lnd/fn/v2"
	"github.com/roasbeef/lutetium/internal/baselib/actor"
)

// journalExtension and snapshotExtension wrap providers in concrete types
// so extension lookup (which is keyed by dynamic type) stays deterministic
// no matter which provider implementation a host installs.
type journalExtension struct {
	provider JournalProvider
}

type snapshotExtension struct {
	provider SnapShotProvider
}

// WithJournalProvider installs p as the system-wide JournalProvider
// extension, retrievable later via JournalFromSystem.
func WithJournalProvider(p JournalProvider) actor.SystemOption {
	return actor.WithExtension(journalExtension{provider: p})
}

// WithSnapShotProvider installs p as the system-wide SnapShotProvider
// extension, retrievable later via SnapshotsFromSystem.
func WithSnapShotProvider(p SnapShotProvider) actor.SystemOption {
	return actor.WithExtension(snapshotExtension{provider: p})
}

// JournalFromSystem retrieves the JournalProvider installed on sys via
// WithJournalProvider, or ErrMissingExtension if none was installed.
func JournalFromSystem(sys *actor.System) (JournalProvider, error) {
	ext, err := actor.Extension[journalExtension](sys.Extensions())
	if err != nil {
		return nil, err
	}
	return ext.provider, nil
}

// SnapshotsFromSystem retrieves the SnapShotProvider installed on sys via
// WithSnapShotProvider, or ErrMissingExtension if none was installed.
func SnapshotsFromSystem(sys *actor.System) (SnapShotProvider, error) {
	ext, err := actor.Extension[snapshotExtension](sys.Extensions())
	if err != nil {
		return nil, err
	}
	return ext.provider, nil
}

// SpawnWithRecoveryFromSystem is SpawnWithRecovery for hosts that installed
// their providers as extensions at system build time instead of threading
// them through every spawn call. Provider lookup failures surface as
// actor.ErrMissingExtension before any recovery work runs.
func SpawnWithRecoveryFromSystem[A any, M actor.Message, R any](
	sys *actor.System, id PersistenceId, version Version,
	seed fn.Option[A], mapping *RecoveryMapping[A], target A,
	inner PersistentBehavior[M, R], opts ...PersistOption,
) (actor.ActorRef[M, R], error) {

	journals, err := JournalFromSystem(sys)
	if err != nil {
		return nil, err
	}

	snapshots, err := SnapshotsFromSystem(sys)
	if err != nil {
		return nil, err
	}

	return SpawnWithRecovery(sys, id, version, seed, mapping, journals,
		snapshots, target, inner, opts...)
}
