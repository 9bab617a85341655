// File: api/transport.go
// Package api defines the cross-process delivery transport contract.
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package api

// Transport is the delivery collaborator that carries reason notifications
// between processes. procsig does not own the shared pending-bit storage or
// the OS wakeup mechanism; it consumes them through this interface.
type Transport interface {
	// Notify marks reason pending for the process identified by pid and
	// wakes it. Used by extensions to target a peer process; the local
	// dispatch core never calls it.
	Notify(pid int, reason Reason) error

	// ConsumePending reports whether reason is pending for the calling
	// process and atomically clears the shared flag (test-and-clear).
	// Implementations must be async-signal-safe: no allocation, no locks,
	// no blocking. Called from the arrival hook once per allocated reason.
	ConsumePending(reason Reason) bool

	// Close detaches from the shared delivery medium.
	Close() error

	// Features describes transport capabilities.
	Features() TransportFeatures
}

// TransportFeatures describes capabilities of a Transport implementation.
type TransportFeatures struct {
	CrossProcess bool     // true when notifications cross OS process boundaries
	SharedMemory bool     // backed by a shared-memory segment
	SignalWakeup bool     // wakes targets via an OS signal
	LockFree     bool     // ConsumePending takes no locks
	OS           []string // supported platforms
}
