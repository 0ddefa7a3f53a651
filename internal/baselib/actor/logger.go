package actor

import (
	"github.com/btcsuite/btclog/v2"
)

// Subsystem is the tag this package registers under with a host's log
// rotator (see internal/build.HandlerSet).
const Subsystem = "ACTR"

// log is the package-wide subsystem logger. It discards everything until a
// host wires a real implementation via UseLogger.
var log = btclog.Disabled

// UseLogger sets the subsystem logger used by this package. Hosts should
// call this once during startup, before spawning any actors.
func UseLogger(logger btclog.Logger) {
	log = logger
}

// DisableLog disables all logging output from this package.
func DisableLog() {
	log = btclog.Disabled
}
