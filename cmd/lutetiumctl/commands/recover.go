package commands

import (
	"context"
	"fmt"

	"github.com/roasbeef/lutetium/internal/demoledger"
	"github.com/roasbeef/lutetium/persistence"
	"github.com/spf13/cobra"
)

// recoverCmd runs persistence.Recover directly against the journal,
// bypassing actor.Spawn, and reports the last applied sequence id and
// recovered balances. Useful for inspecting a journal without running it
// through the actor runtime.
var recoverCmd = &cobra.Command{
	Use:   "recover",
	Short: "Replay the journal for the demo ledger actor and print its state",
	RunE:  runRecover,
}

type recoverResult struct {
	LastSequence int64            `json:"last_sequence"`
	Recovered    bool             `json:"recovered"`
	Balances     map[string]int64 `json:"balances"`
}

func runRecover(cmd *cobra.Command, args []string) error {
	provider, err := openJournal()
	if err != nil {
		return err
	}
	defer provider.Close()

	ctx := context.Background()

	state := demoledger.NewLedger()
	seq, err := persistence.Recover[*demoledger.Ledger](ctx,
		persistence.PersistenceId(actorId), demoledger.Version,
		demoledger.Mapping(), provider, provider.Snapshots(), state)
	if err != nil {
		return fmt.Errorf("recovering %s: %w", actorId, err)
	}

	result := recoverResult{
		Recovered: seq.IsSome(),
		Balances:  state.Balances,
	}
	if seq.IsSome() {
		result.LastSequence = int64(seq.UnwrapOr(persistence.MinSequenceId))
	}

	if outputFormat == "json" {
		return outputJSON(result)
	}

	if !result.Recovered {
		fmt.Println("no prior journal entries")
		return nil
	}

	fmt.Printf("last sequence: %d\n", result.LastSequence)
	for account, balance := range result.Balances {
		fmt.Printf("%s: %d\n", account, balance)
	}

	return nil
}
