//go:build deadlock

// Package syncutil provides the mutex used by screen drivers. Build with -tags=deadlock
// to swap in a deadlock detecting implementation while developing.
package syncutil

import (
	"time"

	deadlock "github.com/sasha-s/go-deadlock"
)

// DeadlockEnabled is true if the deadlock detector is enabled.
const DeadlockEnabled = true

func init() {
	// A full-canvas blit holds the lock for the whole transfer.
	deadlock.Opts.DeadlockTimeout = 2 * time.Minute
}

// A Mutex is a mutual exclusion lock.
type Mutex struct {
	deadlock.Mutex
}
