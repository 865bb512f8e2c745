//go:build !deadlock

// Package syncutil provides the mutex used by screen drivers. Build with -tags=deadlock
// to swap in a deadlock detecting implementation while developing.
package syncutil

import "sync"

// DeadlockEnabled is true if the deadlock detector is enabled.
const DeadlockEnabled = false

// A Mutex is a mutual exclusion lock.
type Mutex struct {
	sync.Mutex
}
