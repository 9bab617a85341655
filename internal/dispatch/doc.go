// File: internal/dispatch/doc.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Package dispatch owns the per-process delivery state of custom
// interrupt reasons: the pending/processing flag tables, the arrival
// hook invoked from the signal-receipt path, and the safe-point
// dispatch loop that runs registered handlers.
//
// The arrival side is async-signal-safe by construction: fixed-size
// atomic flag arrays sized at compile time, no allocation, no locking,
// no calls beyond the transport's test-and-clear primitive and the
// latch kick. All handler execution happens in RunPendingHandlers,
// never in the arrival hook.
package dispatch
