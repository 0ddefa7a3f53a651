package demoledger

import (
	"context"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/lightningnetwork/lnd/fn/v2"
	"github.com/roasbeef/lutetium/internal/baselib/actor"
	"github.com/roasbeef/lutetium/internal/db"
	"github.com/roasbeef/lutetium/persistence"
	"github.com/roasbeef/lutetium/persistence/sqlitejournal"
	"github.com/stretchr/testify/require"
)

func newTestSystem(t *testing.T) (*actor.System, *sqlitejournal.Provider) {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "ledger.db")
	provider, err := sqlitejournal.NewProvider(
		&db.SqliteConfig{DatabaseFileName: dbPath}, slog.Default(),
	)
	require.NoError(t, err)
	t.Cleanup(func() { provider.Close() })

	return actor.NewSystem(), provider
}

func spawnLedger(t *testing.T, sys *actor.System,
	provider *sqlitejournal.Provider, id persistence.PersistenceId,
) actor.ActorRef[Message, Reply] {

	t.Helper()

	state := NewLedger()
	ref, err := persistence.SpawnWithRecovery[*Ledger, Message, Reply](
		sys, id, Version, fn.Some(state), Mapping(),
		provider, provider.Snapshots(), state, NewBehavior(state),
	)
	require.NoError(t, err)

	return ref
}

func TestLedgerDepositWithdrawBalance(t *testing.T) {
	t.Parallel()

	sys, provider := newTestSystem(t)
	ref := spawnLedger(t, sys, provider, "acct-1")
	t.Cleanup(func() { _ = sys.ShutdownAll(context.Background()) })

	ctx := context.Background()

	reply, err := ref.Ask(ctx, Deposit{Account: "alice", Amount: 100}).
		Await(ctx).Unpack()
	require.NoError(t, err)
	require.Equal(t, int64(100), reply.Balance)

	reply, err = ref.Ask(ctx, Withdraw{Account: "alice", Amount: 40}).
		Await(ctx).Unpack()
	require.NoError(t, err)
	require.Equal(t, int64(60), reply.Balance)

	reply, err = ref.Ask(ctx, Balance{Account: "alice"}).Await(ctx).Unpack()
	require.NoError(t, err)
	require.Equal(t, int64(60), reply.Balance)
}

func TestLedgerWithdrawInsufficientBalanceFails(t *testing.T) {
	t.Parallel()

	sys, provider := newTestSystem(t)
	ref := spawnLedger(t, sys, provider, "acct-2")
	t.Cleanup(func() { _ = sys.ShutdownAll(context.Background()) })

	ctx := context.Background()

	_, err := ref.Ask(ctx, Withdraw{Account: "bob", Amount: 1}).
		Await(ctx).Unpack()
	require.ErrorIs(t, err, ErrInsufficientBalance)
}

func TestLedgerRecoversAfterRestart(t *testing.T) {
	t.Parallel()

	sys, provider := newTestSystem(t)
	ctx := context.Background()

	ref := spawnLedger(t, sys, provider, "acct-3")
	_, err := ref.Ask(ctx, Deposit{Account: "carol", Amount: 50}).
		Await(ctx).Unpack()
	require.NoError(t, err)
	require.NoError(t, sys.ShutdownAll(ctx))

	sys2 := actor.NewSystem()
	state := NewLedger()
	ref2, err := persistence.SpawnWithRecovery[*Ledger, Message, Reply](
		sys2, "acct-3", Version, fn.None[*Ledger](), Mapping(),
		provider, provider.Snapshots(), state, NewBehavior(state),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = sys2.ShutdownAll(context.Background()) })

	reply, err := ref2.Ask(ctx, Balance{Account: "carol"}).Await(ctx).Unpack()
	require.NoError(t, err)
	require.Equal(t, int64(50), reply.Balance)
}

func TestLedgerSnapshotThenRecoverUsesLatestSnapshot(t *testing.T) {
	t.Parallel()

	sys, provider := newTestSystem(t)
	ctx := context.Background()

	ref := spawnLedger(t, sys, provider, "acct-4")
	_, err := ref.Ask(ctx, Deposit{Account: "dave", Amount: 200}).
		Await(ctx).Unpack()
	require.NoError(t, err)

	_, err = ref.Ask(ctx, Snapshot{}).Await(ctx).Unpack()
	require.NoError(t, err)

	_, err = ref.Ask(ctx, Deposit{Account: "dave", Amount: 25}).
		Await(ctx).Unpack()
	require.NoError(t, err)
	require.NoError(t, sys.ShutdownAll(ctx))

	sys2 := actor.NewSystem()
	state := NewLedger()
	ref2, err := persistence.SpawnWithRecovery[*Ledger, Message, Reply](
		sys2, "acct-4", Version, fn.None[*Ledger](), Mapping(),
		provider, provider.Snapshots(), state, NewBehavior(state),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = sys2.ShutdownAll(context.Background()) })

	reply, err := ref2.Ask(ctx, Balance{Account: "dave"}).Await(ctx).Unpack()
	require.NoError(t, err)
	require.Equal(t, int64(225), reply.Balance)
}
