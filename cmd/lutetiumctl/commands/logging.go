package commands

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/btcsuite/btclog/v2"
	"github.com/roasbeef/lutetium/internal/baselib/actor"
	"github.com/roasbeef/lutetium/internal/build"
	"github.com/roasbeef/lutetium/persistence"
)

var (
	// logDir is the directory rotated log files are written to; empty
	// disables file logging.
	logDir string

	// maxLogFiles is the maximum number of rotated log files to keep.
	maxLogFiles int

	// maxLogFileSize is the maximum log file size in MB before rotation.
	maxLogFileSize int

	// logRotator is the file sink backing the file half of the dual
	// console+file handler, non-nil only once initLogging has run with
	// logDir set.
	logRotator *build.RotatingLogWriter

	// dbLogger is handed to sqlitejournal.NewProvider so migration and
	// connection-pool events land in the same dual console+file stream
	// as the actor and persistence subsystem logs.
	dbLogger *slog.Logger
)

// initLogging wires the actor and persistence packages' subsystem loggers
// to a dual console+file btclog.HandlerSet, matching the daemon's
// console-plus-rotating-file pattern. Called once via rootCmd's
// PersistentPreRunE, before any subcommand opens the journal or spawns an
// actor.
func initLogging() error {
	handlers := []btclog.Handler{btclog.NewDefaultHandler(os.Stderr)}

	if logDir != "" {
		logRotator = build.NewRotatingLogWriter()
		err := logRotator.InitLogRotator(&build.LogRotatorConfig{
			LogDir:         logDir,
			MaxLogFiles:    maxLogFiles,
			MaxLogFileSize: maxLogFileSize,
		})
		if err != nil {
			logRotator = nil
			fmt.Fprintf(os.Stderr,
				"failed to init log rotator: %v "+
					"(continuing without file logging)\n",
				err)
		} else {
			handlers = append(handlers,
				btclog.NewDefaultHandler(logRotator))
		}
	}

	combined := build.NewHandlerSet(handlers...)

	actorLogger := btclog.NewSLogger(combined)
	actor.UseLogger(actorLogger.WithPrefix(actor.Subsystem))

	persistLogger := btclog.NewSLogger(combined)
	persistence.UseLogger(persistLogger.WithPrefix(persistence.Subsystem))

	dbLogger = slog.New(combined)

	return nil
}

// closeLogging flushes and closes the rotating log file, if one was
// opened.
func closeLogging() error {
	if logRotator == nil {
		return nil
	}
	return logRotator.Close()
}
