// File: api/latch.go
// Package api defines the per-process wait primitive.
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package api

import "time"

// Latch is the per-process event-wait primitive the arrival hook kicks so
// that a main loop blocked between units of work notices pending
// interrupts promptly.
type Latch interface {
	// Set fires the latch. Safe to call from the signal-receipt path:
	// never blocks, never allocates, idempotent while the latch is set.
	Set()

	// Wait blocks until the latch is set or the timeout elapses.
	// It returns true when the latch fired, false on timeout.
	// A zero or negative timeout waits indefinitely.
	Wait(timeout time.Duration) bool

	// Reset re-arms the latch after a wakeup has been consumed.
	Reset()

	// Close releases the latch; subsequent Wait calls return immediately.
	Close() error
}
