package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/corey/rfcguide/internal/app"
)

// isDBLockError returns true if the error chain contains a bbolt lock timeout.
// bbolt returns the string "timeout" when it cannot acquire the file lock
// within the configured deadline.
func isDBLockError(err error) bool {
	if err == nil {
		return false
	}
	return strings.Contains(err.Error(), "timeout")
}

// diagnoseDBLock returns actionable guidance when opening the usage database
// fails on lock contention. It distinguishes a live server, a stale port file
// and an unknown lock holder.
func diagnoseDBLock(paths *app.Paths) string {
	if discoverServer(paths) != nil {
		return "usage database is locked by the running server\n" +
			"  → stats and reset go through it automatically when it is reachable\n" +
			"  → or stop it first (Ctrl-C in its terminal) and retry"
	}

	if _, err := os.Stat(paths.PortFile); err == nil {
		return fmt.Sprintf("usage database is locked; a port file exists but the server is not responding\n"+
			"  → a previous server may have crashed\n"+
			"  → find the process:  ps aux | grep 'rfcguide serve'\n"+
			"  → kill it:           kill <PID>\n"+
			"  → clean up:          rm %s", paths.PortFile)
	}

	return "usage database is locked by another process\n" +
		"  → find the process:  ps aux | grep 'rfcguide'\n" +
		"  → kill it:           kill <PID>\n" +
		"  → then retry your command"
}
