// File: transport/inproc/inproc.go
// Package inproc implements the in-process delivery hub.
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package inproc

import (
	"sync"
	"sync/atomic"

	"github.com/momentics/procsig/api"
)

// DefaultSlots is the default number of endpoints a Hub can host.
const DefaultSlots = 128

// endpointState is one simulated process's share of the "shared memory":
// a fixed array of per-reason pending words plus the wake callback.
type endpointState struct {
	pending  [api.NumReasons]atomic.Uint32
	wake     func()
	attached atomic.Bool
}

// Hub routes notifications between endpoints. It stands in for the
// shared-memory segment plus OS signalling of a real worker pool.
type Hub struct {
	mu    sync.Mutex // guards attach/detach only, not the bit path
	slots []*endpointState
	byID  map[int]*endpointState
}

// NewHub creates a hub with capacity for maxSlots endpoints.
// maxSlots <= 0 selects DefaultSlots.
func NewHub(maxSlots int) *Hub {
	if maxSlots <= 0 {
		maxSlots = DefaultSlots
	}
	h := &Hub{
		slots: make([]*endpointState, 0, maxSlots),
		byID:  make(map[int]*endpointState, maxSlots),
	}
	return h
}

// Attach claims an endpoint for the given id (the simulated pid). The
// wake callback runs whenever a peer notifies this endpoint; it stands
// in for the signal-receipt path and should call the process core's
// OnNotificationReceived.
func (h *Hub) Attach(id int, wake func()) (*Endpoint, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, dup := h.byID[id]; dup {
		return nil, api.ErrInvalidArgument
	}
	if len(h.slots) == cap(h.slots) {
		return nil, api.ErrSlotTableFull
	}
	st := &endpointState{wake: wake}
	st.attached.Store(true)
	h.slots = append(h.slots, st)
	h.byID[id] = st
	return &Endpoint{hub: h, id: id, state: st}, nil
}

// detach releases the endpoint's id for reuse.
func (h *Hub) detach(id int, st *endpointState) {
	h.mu.Lock()
	defer h.mu.Unlock()
	st.attached.Store(false)
	delete(h.byID, id)
}

// lookup finds the target endpoint state by id.
func (h *Hub) lookup(id int) *endpointState {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.byID[id]
}

// Endpoint is one worker's handle on the hub, implementing
// api.Transport for that worker.
type Endpoint struct {
	hub   *Hub
	id    int
	state *endpointState
}

var _ api.Transport = (*Endpoint)(nil)

// ID returns the endpoint's id within the hub.
func (e *Endpoint) ID() int { return e.id }

// Notify sets the reason bit of the target endpoint and invokes its
// wake callback. Duplicate notifications before the target consumes the
// bit coalesce.
func (e *Endpoint) Notify(pid int, reason api.Reason) error {
	if !e.state.attached.Load() {
		return api.ErrTransportClosed
	}
	if !reason.IsValid() {
		return api.ErrInvalidArgument
	}
	target := e.hub.lookup(pid)
	if target == nil {
		return api.ErrUnknownProcess
	}
	target.pending[reason].Store(1)
	if target.wake != nil {
		target.wake()
	}
	return nil
}

// ConsumePending atomically tests and clears this endpoint's bit for
// the reason. Lock-free: a single swap on a pre-sized word.
func (e *Endpoint) ConsumePending(reason api.Reason) bool {
	if !reason.IsValid() || !e.state.attached.Load() {
		return false
	}
	return e.state.pending[reason].Swap(0) == 1
}

// Close detaches the endpoint from the hub.
func (e *Endpoint) Close() error {
	if e.state.attached.Load() {
		e.hub.detach(e.id, e.state)
	}
	return nil
}

// Features implements api.Transport.Features.
func (e *Endpoint) Features() api.TransportFeatures {
	return api.TransportFeatures{
		CrossProcess: false,
		SharedMemory: false,
		SignalWakeup: false,
		LockFree:     true,
		OS:           []string{"any"},
	}
}
