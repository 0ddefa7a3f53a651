package sqlitejournal

import "time"

// nowUnix returns the current time as a unix timestamp, used only for the
// inserted_at bookkeeping column; it plays no part in recovery or ordering,
// which are governed entirely by seq.
func nowUnix() int64 {
	return time.Now().Unix()
}
