// File: internal/registry/registry.go
// Package registry implements the fixed-capacity custom reason pool.
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Allocation is monotonic: reasons are claimed during the preload phase,
// never freed, and the table is frozen by Seal for the rest of the
// process lifetime. The read side is lock-free: handler slots are
// published by the atomic store of the allocated watermark, so readers
// that load the watermark first observe fully written slots.

package registry

import (
	"sync/atomic"

	"github.com/momentics/procsig/api"
)

// Registry maps allocated custom reasons to their handlers.
//
// Registration is single-threaded by contract: extensions register
// sequentially while their initialization code runs during preload.
// Reads (dispatch, arrival hook) may come from any goroutine once the
// watermark covers the slot.
type Registry struct {
	handlers  [api.MaxCustomReasons]api.InterruptHandler
	allocated atomic.Int32 // publication watermark, slots below are readable
	sealed    atomic.Bool
}

// New creates an empty, unsealed registry.
func New() *Registry {
	return &Registry{}
}

// Register binds h to the first free custom reason slot, scanning in
// ascending order, and returns the allocated reason.
//
// When every slot is taken it returns ReasonInvalid and
// ErrReasonPoolExhausted; the caller decides whether that is fatal.
// Calling Register after Seal panics with ErrRegistrySealed without
// touching the table: a registry that differs between already-running
// and later-started processes is unsafe to continue with.
func (r *Registry) Register(h api.InterruptHandler) (api.Reason, error) {
	if r.sealed.Load() {
		panic(api.ErrRegistrySealed)
	}
	if h == nil {
		return api.ReasonInvalid, api.ErrInvalidArgument
	}
	n := int(r.allocated.Load())
	for slot := 0; slot < api.MaxCustomReasons; slot++ {
		if r.handlers[slot] != nil {
			continue
		}
		r.handlers[slot] = h
		if slot >= n {
			r.allocated.Store(int32(slot + 1))
		}
		return api.CustomReasonFirst + api.Reason(slot), nil
	}
	return api.ReasonInvalid, api.ErrReasonPoolExhausted
}

// Seal ends the preload phase. The registry is read-only afterwards.
// Seal is idempotent.
func (r *Registry) Seal() {
	r.sealed.Store(true)
}

// Sealed reports whether the preload phase has ended.
func (r *Registry) Sealed() bool {
	return r.sealed.Load()
}

// Allocated returns the number of claimed slots. The arrival hook and
// dispatch loop iterate slots [0, Allocated).
func (r *Registry) Allocated() int {
	return int(r.allocated.Load())
}

// HandlerAt returns the handler bound to the given custom slot, or nil
// when the slot lies above the watermark.
func (r *Registry) HandlerAt(slot int) api.InterruptHandler {
	if slot < 0 || slot >= int(r.allocated.Load()) {
		return nil
	}
	return r.handlers[slot]
}
