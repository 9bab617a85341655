// File: internal/dispatch/holdoff.go
// Package dispatch implements the interrupt holdoff bracket.
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package dispatch

import "sync/atomic"

// Holdoff is the counting guard the safe-point check consults before
// entering interrupt processing. The dispatch loop holds it for the
// duration of a scan so that safe-point checks reached from inside a
// handler do not re-enter the generic processing path while the outer
// scan's bookkeeping is in flight.
//
// Holdoff does not serialize direct RunPendingHandlers calls: a handler
// that performs its own nested dispatch pass is allowed to, and only the
// per-reason processing flags guard against same-reason re-entry.
type Holdoff struct {
	depth atomic.Int32
}

// Hold increments the holdoff depth.
func (h *Holdoff) Hold() {
	h.depth.Add(1)
}

// Resume decrements the holdoff depth. Unbalanced Resume panics: a
// negative depth means a Hold/Resume bracket was broken.
func (h *Holdoff) Resume() {
	if h.depth.Add(-1) < 0 {
		panic("dispatch: holdoff resume without hold")
	}
}

// Held reports whether any hold bracket is open.
func (h *Holdoff) Held() bool {
	return h.depth.Load() > 0
}

// Depth returns the current nesting depth, for debug probes.
func (h *Holdoff) Depth() int {
	return int(h.depth.Load())
}
