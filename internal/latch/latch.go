// File: internal/latch/latch.go
// Package latch implements the per-process event-wait primitive.
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// A ProcessLatch is the wakeup target of the arrival hook: Set is a
// single atomic transition plus a non-blocking channel send, safe to
// call from the signal-receipt path; Wait parks the main loop until
// the next wakeup or timeout.

package latch

import (
	"sync/atomic"
	"time"

	"github.com/momentics/procsig/api"
)

// ProcessLatch implements api.Latch. The zero value is not usable;
// construct with New.
type ProcessLatch struct {
	fired  atomic.Bool
	wake   chan struct{} // capacity 1, collapses concurrent Sets
	closed atomic.Bool
	done   chan struct{}
}

// New creates an armed, unset latch.
func New() *ProcessLatch {
	return &ProcessLatch{
		wake: make(chan struct{}, 1),
		done: make(chan struct{}),
	}
}

var _ api.Latch = (*ProcessLatch)(nil)

// Set fires the latch. Non-blocking and idempotent: repeated Sets before
// the waiter consumes the wakeup collapse into one.
func (l *ProcessLatch) Set() {
	if l.closed.Load() {
		return
	}
	if l.fired.CompareAndSwap(false, true) {
		select {
		case l.wake <- struct{}{}:
		default:
		}
	}
}

// Wait blocks until the latch fires or timeout elapses. Zero or negative
// timeout waits indefinitely. Returns true when the latch fired.
func (l *ProcessLatch) Wait(timeout time.Duration) bool {
	if l.fired.Load() {
		return true
	}
	if timeout <= 0 {
		select {
		case <-l.wake:
			return true
		case <-l.done:
			return false
		}
	}
	timer := time.NewTimer(timeout)
	defer timer.Stop()
	select {
	case <-l.wake:
		return true
	case <-l.done:
		return false
	case <-timer.C:
		return l.fired.Load()
	}
}

// Reset re-arms the latch, draining an unconsumed wakeup.
func (l *ProcessLatch) Reset() {
	l.fired.Store(false)
	select {
	case <-l.wake:
	default:
	}
}

// Close releases all waiters. Subsequent Set calls are no-ops.
func (l *ProcessLatch) Close() error {
	if l.closed.CompareAndSwap(false, true) {
		close(l.done)
	}
	return nil
}
