// File: api/handler.go
// Package api defines the interrupt handler contract.
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package api

// InterruptHandler is the callback bound to a custom reason. It takes no
// arguments and returns nothing; any state it needs must be captured at
// registration time.
//
// Handlers run at safe points only, never in signal-receipt context, so
// they may allocate, lock, and block. A handler is never re-entered for
// its own reason within one process: a notification arriving while the
// handler runs stays pending until a later dispatch pass. Handlers for
// *other* reasons may run from nested safe-point checks inside a handler.
//
// The registry holds only a reference; the registering extension owns the
// handler for the life of the process.
type InterruptHandler func()
