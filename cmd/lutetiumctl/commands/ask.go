package commands

import (
	"context"
	"fmt"

	"github.com/roasbeef/lutetium/internal/actorutil"
	"github.com/roasbeef/lutetium/internal/baselib/actor"
	"github.com/roasbeef/lutetium/internal/demoledger"
	"github.com/spf13/cobra"
)

var (
	askOp      string
	askAccount string
	askAmount  int64
)

// askCmd sends a request/response message to the demo ledger actor and
// prints its reply, demonstrating ActorRef.Ask.
var askCmd = &cobra.Command{
	Use:   "ask",
	Short: "Ask the demo ledger actor for a response (deposit, withdraw, balance, snapshot)",
	RunE:  runAsk,
}

func init() {
	askCmd.Flags().StringVar(&askOp, "op", "balance",
		"Operation: deposit, withdraw, balance, snapshot")
	askCmd.Flags().StringVar(&askAccount, "account", "",
		"Account the operation applies to")
	askCmd.Flags().Int64Var(&askAmount, "amount", 0,
		"Amount for deposit/withdraw")
}

func buildLedgerMessage(op, account string, amount int64) (demoledger.Message,
	error) {

	switch op {
	case "deposit":
		return demoledger.Deposit{Account: account, Amount: amount}, nil
	case "withdraw":
		return demoledger.Withdraw{Account: account, Amount: amount}, nil
	case "balance":
		return demoledger.Balance{Account: account}, nil
	case "snapshot":
		return demoledger.Snapshot{}, nil
	default:
		return nil, fmt.Errorf("unknown op %q", op)
	}
}

func runAsk(cmd *cobra.Command, args []string) error {
	msg, err := buildLedgerMessage(askOp, askAccount, askAmount)
	if err != nil {
		return err
	}

	return withLedger(func(ctx context.Context,
		ref actor.ActorRef[demoledger.Message, demoledger.Reply]) error {

		reply, err := actorutil.AskAwait(ctx, ref, msg)
		if err != nil {
			return err
		}

		return outputReply(reply)
	})
}
