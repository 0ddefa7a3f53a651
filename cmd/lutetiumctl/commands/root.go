package commands

import (
	"github.com/roasbeef/lutetium/internal/build"
	"github.com/spf13/cobra"
)

var (
	// dbPath is the path to the SQLite journal/snapshot database.
	dbPath string

	// actorId is the persistence id of the demo ledger actor operated on.
	actorId string

	// outputFormat controls output format (text, json).
	outputFormat string
)

// rootCmd is the base command for the CLI.
var rootCmd = &cobra.Command{
	Use:   "lutetiumctl",
	Short: "Drive a sqlite-backed persistent actor from the command line",
	Long: `lutetiumctl exercises the actor runtime and event-sourced
persistence layer end to end: every subcommand opens (or creates) a
sqlite-backed journal, recovers a demo ledger actor against it, and
performs one operation before shutting the actor system back down.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return initLogging()
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		return closeLogging()
	},
}

// Execute runs the CLI.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(
		&dbPath, "db", "lutetiumctl.db",
		"Path to the SQLite journal/snapshot database",
	)
	rootCmd.PersistentFlags().StringVar(
		&actorId, "id", "ledger",
		"Persistence id of the demo ledger actor",
	)
	rootCmd.PersistentFlags().StringVar(
		&outputFormat, "format", "text",
		"Output format: text, json",
	)
	rootCmd.PersistentFlags().StringVar(
		&logDir, "log-dir", "",
		"Directory for rotating log files (empty disables file logging)",
	)
	rootCmd.PersistentFlags().IntVar(
		&maxLogFiles, "max-log-files", build.DefaultMaxLogFiles,
		"Maximum number of rotated log files to keep",
	)
	rootCmd.PersistentFlags().IntVar(
		&maxLogFileSize, "max-log-file-size", build.DefaultMaxLogFileSize,
		"Maximum log file size in MB before rotation",
	)

	rootCmd.AddCommand(spawnCmd)
	rootCmd.AddCommand(askCmd)
	rootCmd.AddCommand(tellCmd)
	rootCmd.AddCommand(shutdownCmd)
	rootCmd.AddCommand(recoverCmd)
}
