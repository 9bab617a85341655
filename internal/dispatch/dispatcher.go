// File: internal/dispatch/dispatcher.go
// Package dispatch implements arrival bookkeeping and the handler loop.
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package dispatch

import (
	"sync/atomic"

	"github.com/momentics/procsig/api"
	"github.com/momentics/procsig/internal/registry"
)

// Dispatcher tracks per-process delivery state for all custom reasons
// and drives handler execution at safe points.
//
// The flag tables are private to the process; cross-process state lives
// entirely in the Transport. pending[slot] is set only by the arrival
// hook and cleared only by the dispatch loop; processing[slot] is owned
// exclusively by the dispatch loop.
type Dispatcher struct {
	reg       *registry.Registry
	transport api.Transport
	latch     api.Latch

	pending    [api.MaxCustomReasons]atomic.Bool
	processing [api.MaxCustomReasons]atomic.Bool

	// interruptPending is the generic "some interrupt awaits" indicator
	// the safe-point check consumes before scanning individual flags.
	interruptPending atomic.Bool

	holdoff Holdoff

	// Counters exported through control probes.
	notifications atomic.Uint64 // pending flags raised by the arrival hook
	dispatched    atomic.Uint64 // handler invocations completed or unwound
	wakeups       atomic.Uint64 // arrival hook invocations
}

// New creates a dispatcher over the given registry, transport and latch.
// The flag tables are sized at compile time; no allocation happens after
// construction.
func New(reg *registry.Registry, tr api.Transport, latch api.Latch) *Dispatcher {
	return &Dispatcher{reg: reg, transport: tr, latch: latch}
}

// OnNotificationReceived is the arrival hook, called from the low-level
// signal-receipt path after built-in reasons have been checked.
//
// For every allocated custom reason it asks the transport's
// test-and-clear primitive; on a hit it sets the local pending flag and
// raises the generic interrupt indicator. The latch is set on every call
// even when nothing was pending, matching the signal handler's standing
// obligation to re-arm the process wait. Only simple flag writes happen
// here; handlers never run in this context.
func (d *Dispatcher) OnNotificationReceived() {
	d.wakeups.Add(1)
	n := d.reg.Allocated()
	for slot := 0; slot < n; slot++ {
		if d.transport.ConsumePending(api.CustomReasonFirst + api.Reason(slot)) {
			d.pending[slot].Store(true)
			d.interruptPending.Store(true)
			d.notifications.Add(1)
		}
	}
	d.latch.Set()
}

// RunPendingHandlers is the safe-point dispatch loop.
//
// The whole scan runs inside a holdoff bracket so the generic safe-point
// check does not re-enter interrupt processing from within a handler.
// Slots are scanned in ascending order, deterministically. For each slot
// that is pending and not already processing: the pending flag is
// cleared, the processing flag is set, the bound handler runs, and the
// processing flag is cleared again. Slots already processing are skipped
// with their pending flags left intact; a later pass picks them up.
//
// Handler failures are not caught here. The processing flag and the
// holdoff bracket are released on every unwind path so an error escaping
// a handler to a higher-level recovery boundary cannot permanently block
// the reason or the safe-point check.
func (d *Dispatcher) RunPendingHandlers() {
	d.holdoff.Hold()
	defer d.holdoff.Resume()

	n := d.reg.Allocated()
	for slot := 0; slot < n; slot++ {
		if !d.pending[slot].Load() || d.processing[slot].Load() {
			continue
		}
		d.pending[slot].Store(false)
		d.invoke(slot)
	}
}

// invoke runs one handler under the processing guard. The deferred clear
// keeps the guard scoped-release: it drops on panic unwinds too.
func (d *Dispatcher) invoke(slot int) {
	d.processing[slot].Store(true)
	defer d.processing[slot].Store(false)

	h := d.reg.HandlerAt(slot)
	if h == nil {
		// Unreachable once registered; checked defensively.
		return
	}
	d.dispatched.Add(1)
	h()
}

// InterruptPending reports whether the generic indicator is raised.
func (d *Dispatcher) InterruptPending() bool {
	return d.interruptPending.Load()
}

// ConsumeInterruptFlag clears the generic indicator and reports whether
// it was raised. The safe-point check calls it before scanning.
func (d *Dispatcher) ConsumeInterruptFlag() bool {
	return d.interruptPending.Swap(false)
}

// Holdoff exposes the holdoff guard to the safe-point check.
func (d *Dispatcher) Holdoff() *Holdoff {
	return &d.holdoff
}

// PendingSnapshot copies the pending flags of allocated slots, for debug
// probes and tests. Not part of the hot path.
func (d *Dispatcher) PendingSnapshot() []bool {
	n := d.reg.Allocated()
	out := make([]bool, n)
	for slot := 0; slot < n; slot++ {
		out[slot] = d.pending[slot].Load()
	}
	return out
}

// Processing reports the processing flag for one slot, for tests.
func (d *Dispatcher) Processing(slot int) bool {
	if slot < 0 || slot >= api.MaxCustomReasons {
		return false
	}
	return d.processing[slot].Load()
}

// Stats returns dispatch counters keyed for the metrics registry.
func (d *Dispatcher) Stats() map[string]any {
	return map[string]any{
		"dispatch.wakeups":       d.wakeups.Load(),
		"dispatch.notifications": d.notifications.Load(),
		"dispatch.handlers_run":  d.dispatched.Load(),
		"dispatch.holdoff_depth": d.holdoff.Depth(),
	}
}
