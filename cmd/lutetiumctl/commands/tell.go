package commands

import (
	"context"
	"fmt"

	"github.com/roasbeef/lutetium/internal/baselib/actor"
	"github.com/roasbeef/lutetium/internal/demoledger"
	"github.com/spf13/cobra"
)

var (
	tellOp      string
	tellAccount string
	tellAmount  int64
)

// tellCmd sends a fire-and-forget-shaped message to the demo ledger actor,
// discarding its reply value, demonstrating ActorRef.Tell.
var tellCmd = &cobra.Command{
	Use:   "tell",
	Short: "Tell the demo ledger actor to apply an operation (deposit, withdraw, snapshot)",
	RunE:  runTell,
}

func init() {
	tellCmd.Flags().StringVar(&tellOp, "op", "deposit",
		"Operation: deposit, withdraw, snapshot")
	tellCmd.Flags().StringVar(&tellAccount, "account", "",
		"Account the operation applies to")
	tellCmd.Flags().Int64Var(&tellAmount, "amount", 0,
		"Amount for deposit/withdraw")
}

func runTell(cmd *cobra.Command, args []string) error {
	msg, err := buildLedgerMessage(tellOp, tellAccount, tellAmount)
	if err != nil {
		return err
	}

	return withLedger(func(ctx context.Context,
		ref actor.ActorRef[demoledger.Message, demoledger.Reply]) error {

		if err := ref.Tell(ctx, msg); err != nil {
			return err
		}

		fmt.Println("ok")
		return nil
	})
}
