// Package fake
// Author: momentics <momentics@gmail.com>
//
// Fake implementations for testing and development.
// Provides predictable, controllable behavior for the delivery transport.

package fake

import (
	"sync"

	"github.com/eapache/queue"
	"github.com/momentics/procsig/api"
)

// NotifyRecord is one journaled Notify call.
type NotifyRecord struct {
	PID    int
	Reason api.Reason
}

// Transport is a fake implementation of api.Transport for testing. It
// keeps a local pending set scripted by the test and journals every
// Notify call in FIFO order.
//
// The real transports are async-signal-safe; the fake trades that for
// controllability and uses a plain mutex.
type Transport struct {
	mu          sync.Mutex
	pending     map[api.Reason]bool
	journal     *queue.Queue // of NotifyRecord
	closed      bool
	notifyError error
	wake        func(pid int)
}

// NewTransport creates a fake transport with nothing pending.
func NewTransport() *Transport {
	return &Transport{
		pending: make(map[api.Reason]bool),
		journal: queue.New(),
	}
}

var _ api.Transport = (*Transport)(nil)

// Notify journals the call and, when a wake callback is installed,
// invokes it with the target pid.
func (t *Transport) Notify(pid int, reason api.Reason) error {
	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		return api.ErrTransportClosed
	}
	if t.notifyError != nil {
		err := t.notifyError
		t.mu.Unlock()
		return err
	}
	t.journal.Add(NotifyRecord{PID: pid, Reason: reason})
	wake := t.wake
	t.mu.Unlock()
	if wake != nil {
		wake(pid)
	}
	return nil
}

// ConsumePending implements the test-and-clear primitive over the
// scripted pending set.
func (t *Transport) ConsumePending(reason api.Reason) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed || !t.pending[reason] {
		return false
	}
	delete(t.pending, reason)
	return true
}

// Close implements api.Transport.Close.
func (t *Transport) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.closed = true
	return nil
}

// Features implements api.Transport.Features.
func (t *Transport) Features() api.TransportFeatures {
	return api.TransportFeatures{
		CrossProcess: false,
		SharedMemory: false,
		SignalWakeup: false,
		LockFree:     false,
		OS:           []string{"fake"},
	}
}

// MarkPending scripts reason as pending for the calling process, as the
// shared-memory bit array would after a peer's Notify.
func (t *Transport) MarkPending(reason api.Reason) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.pending[reason] = true
}

// SetNotifyError configures Notify to fail.
func (t *Transport) SetNotifyError(err error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.notifyError = err
}

// SetWake installs a callback invoked after each successful Notify,
// standing in for the OS-level wakeup of the target process.
func (t *Transport) SetWake(fn func(pid int)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.wake = fn
}

// DrainJournal returns and clears the journaled Notify calls in order.
func (t *Transport) DrainJournal() []NotifyRecord {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]NotifyRecord, 0, t.journal.Length())
	for t.journal.Length() > 0 {
		out = append(out, t.journal.Remove().(NotifyRecord))
	}
	return out
}
