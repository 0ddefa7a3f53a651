package commands

import (
	"context"
	"fmt"

	"github.com/roasbeef/lutetium/internal/baselib/actor"
	"github.com/spf13/cobra"
)

// shutdownCmd spawns the demo ledger actor and immediately shuts the
// system down, demonstrating System.ShutdownAll draining outstanding
// actors before returning.
var shutdownCmd = &cobra.Command{
	Use:   "shutdown",
	Short: "Spawn the demo ledger actor, then drain and shut the system down",
	RunE:  runShutdown,
}

func runShutdown(cmd *cobra.Command, args []string) error {
	provider, err := openJournal()
	if err != nil {
		return err
	}
	defer provider.Close()

	sys := actor.NewSystem()

	if _, err := spawnLedger(sys, provider, actorId); err != nil {
		return err
	}

	if err := sys.ShutdownAll(context.Background()); err != nil {
		return fmt.Errorf("shutting down: %w", err)
	}

	fmt.Println("ok")
	return nil
}
