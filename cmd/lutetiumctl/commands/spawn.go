package commands

import (
	"context"
	"fmt"

	"github.com/roasbeef/lutetium/internal/actorutil"
	"github.com/roasbeef/lutetium/internal/baselib/actor"
	"github.com/roasbeef/lutetium/internal/demoledger"
	"github.com/spf13/cobra"
)

var spawnAccount string

// spawnCmd recovers (or creates) the demo ledger actor and reports its
// recovered balance for --account, demonstrating that persistence.Recover
// runs transparently as part of actor.Spawn.
var spawnCmd = &cobra.Command{
	Use:   "spawn",
	Short: "Spawn (recovering from the journal if present) the demo ledger actor",
	RunE:  runSpawn,
}

func init() {
	spawnCmd.Flags().StringVar(&spawnAccount, "account", "",
		"Account to report the recovered balance for")
}

func runSpawn(cmd *cobra.Command, args []string) error {
	return withLedger(func(ctx context.Context,
		ref actor.ActorRef[demoledger.Message, demoledger.Reply]) error {

		fmt.Printf("actor %s recovered\n", actorId)

		if spawnAccount == "" {
			return nil
		}

		reply, err := actorutil.AskAwait[demoledger.Message](
			ctx, ref, demoledger.Balance{Account: spawnAccount},
		)
		if err != nil {
			return err
		}

		return outputReply(reply)
	})
}
