package commands

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/lightningnetwork/lnd/fn/v2"
	"github.com/roasbeef/lutetium/internal/baselib/actor"
	"github.com/roasbeef/lutetium/internal/db"
	"github.com/roasbeef/lutetium/internal/demoledger"
	"github.com/roasbeef/lutetium/persistence"
	"github.com/roasbeef/lutetium/persistence/sqlitejournal"
)

// openJournal opens (creating and migrating if necessary) the sqlite
// journal/snapshot database at dbPath. dbLogger is wired by initLogging
// before any command runs, so migration/connection-pool events land in the
// same dual console+file stream as the actor and persistence subsystems.
func openJournal() (*sqlitejournal.Provider, error) {
	provider, err := sqlitejournal.NewProvider(
		&db.SqliteConfig{DatabaseFileName: dbPath}, dbLogger,
	)
	if err != nil {
		return nil, fmt.Errorf("opening journal at %s: %w", dbPath, err)
	}

	return provider, nil
}

// spawnLedger recovers (or creates) the demo ledger actor identified by
// actorId against provider, registering it with sys.
func spawnLedger(sys *actor.System, provider *sqlitejournal.Provider,
	id string) (actor.ActorRef[demoledger.Message, demoledger.Reply], error) {

	state := demoledger.NewLedger()

	ref, err := persistence.SpawnWithRecovery[*demoledger.Ledger,
		demoledger.Message, demoledger.Reply](
		sys, persistence.PersistenceId(id), demoledger.Version,
		fn.Some(state), demoledger.Mapping(), provider,
		provider.Snapshots(), state, demoledger.NewBehavior(state),
	)
	if err != nil {
		return nil, fmt.Errorf("spawning actor %s: %w", id, err)
	}

	return ref, nil
}

// withLedger opens the journal, spawns the demo actor, runs fn against it,
// and shuts the system back down before returning.
func withLedger(fn func(ctx context.Context,
	ref actor.ActorRef[demoledger.Message, demoledger.Reply]) error) error {

	ctx := context.Background()

	provider, err := openJournal()
	if err != nil {
		return err
	}
	defer provider.Close()

	sys := actor.NewSystem()
	defer sys.ShutdownAll(ctx)

	ref, err := spawnLedger(sys, provider, actorId)
	if err != nil {
		return err
	}

	return fn(ctx, ref)
}

// outputReply prints a demoledger.Reply in the configured output format.
func outputReply(reply demoledger.Reply) error {
	if outputFormat == "json" {
		return outputJSON(reply)
	}

	if reply.Account == "" {
		fmt.Println("ok")
		return nil
	}

	fmt.Printf("%s: %d\n", reply.Account, reply.Balance)
	return nil
}

// outputJSON marshals v as indented JSON to stdout.
func outputJSON(v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(data))
	return nil
}
