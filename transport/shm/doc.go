// File: transport/shm/doc.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Package shm implements the cross-process delivery transport over an
// mmapped shared file and SIGUSR1 wakeups (Linux).
//
// The segment holds a fixed table of process slots; each slot is the
// owner's pid plus one 32-bit pending word per reason. Notify CASes the
// target's word and kills the target with SIGUSR1; ConsumePending swaps
// the caller's word back to zero. Both paths are single atomic
// operations on pre-mapped memory: no allocation, no locks.
//
// Signal receipt stays with the host process: it installs its SIGUSR1
// handling (os/signal.Notify or the server's existing handler) and calls
// the core's OnNotificationReceived from there. This package only moves
// bits and raises the signal.
package shm
