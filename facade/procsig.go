// File: facade/procsig.go
// Unified facade layer for the procsig library.
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// This file defines the ProcSignal struct, one instance per worker
// process, which aggregates the custom-reason registry, the local flag
// tables and dispatch loop, the process latch, the delivery transport,
// and the control interface. The facade owns the preload-phase lifecycle:
// extensions register handlers between New and Start, Start seals the
// registry, and the host's signal-receipt and safe-point paths call
// OnNotificationReceived and CheckForInterrupts afterwards.

package facade

import (
	"log"
	"sync"
	"time"

	"github.com/momentics/procsig/adapters"
	"github.com/momentics/procsig/api"
	"github.com/momentics/procsig/internal/dispatch"
	"github.com/momentics/procsig/internal/latch"
	"github.com/momentics/procsig/internal/registry"
)

// Config holds parameters immutable per run.
type Config struct {
	Transport     api.Transport // delivery collaborator; required
	Latch         api.Latch     // process wait primitive; nil selects the built-in latch
	EnableMetrics bool          // attach dispatch counters to Control stats
	EnableDebug   bool          // register debug probes (pending flags, holdoff depth)
	LogPrefix     string        // prefix for lifecycle log lines
}

// DefaultConfig returns default configuration values. The Transport
// field has no default: the caller must attach one of transport/shm,
// transport/inproc, or its own implementation.
func DefaultConfig() *Config {
	return &Config{
		EnableMetrics: true,
		EnableDebug:   true,
		LogPrefix:     "[procsig] ",
	}
}

// ProcSignal is the main facade type. One instance exists per worker
// process; its registry must be populated identically in every process
// of the pool (same extensions, same order) before Start.
//
// It implements api.GracefulShutdown for unified teardown.
type ProcSignal struct {
	registry   *registry.Registry
	dispatcher *dispatch.Dispatcher
	transport  api.Transport
	latch      api.Latch
	control    *adapters.ControlAdapter

	config   *Config
	mu       sync.RWMutex // protects started flag
	started  bool
	ownLatch bool // latch was created here and is closed on Shutdown
}

var _ api.GracefulShutdown = (*ProcSignal)(nil)

// New constructs a ProcSignal over the given configuration. The
// registry opens in the preload phase: Register is permitted until
// Start is called.
func New(cfg *Config) (*ProcSignal, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if cfg.Transport == nil {
		return nil, api.NewError(api.ErrCodeInvalidArgument, "facade requires a delivery transport")
	}

	p := &ProcSignal{
		registry:  registry.New(),
		transport: cfg.Transport,
		latch:     cfg.Latch,
		control:   adapters.NewControlAdapter(),
		config:    cfg,
	}
	if p.latch == nil {
		p.latch = latch.New()
		p.ownLatch = true
	}
	p.dispatcher = dispatch.New(p.registry, p.transport, p.latch)

	p.control.SetConfig(map[string]any{
		"reasons.capacity":   api.MaxCustomReasons,
		"metrics.enabled":    cfg.EnableMetrics,
		"debug.enabled":      cfg.EnableDebug,
		"transport.lockfree": p.transport.Features().LockFree,
	})
	return p, nil
}

// Register binds handler to the next free custom reason. Permitted only
// during the preload phase (before Start); later calls panic with
// api.ErrRegistrySealed, because a registry diverging between processes
// is a startup-configuration defect.
//
// On pool exhaustion it returns api.ReasonInvalid with
// api.ErrReasonPoolExhausted; the extension decides whether to degrade
// or escalate.
func (p *ProcSignal) Register(handler api.InterruptHandler) (api.Reason, error) {
	return p.registry.Register(handler)
}

// Start ends the preload phase: the registry is sealed read-only and
// the control plane is wired. Idempotent Start attempts return
// api.ErrAlreadyStarted.
func (p *ProcSignal) Start() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.started {
		return api.ErrAlreadyStarted
	}
	p.registry.Seal()

	if p.config.EnableMetrics {
		p.control.SetMetric("registry.allocated", p.registry.Allocated())
		p.control.AddMetricSource(p.dispatcher.Stats)
	}
	if p.config.EnableDebug {
		p.control.RegisterDebugProbe("dispatch.pending", func() any {
			return p.dispatcher.PendingSnapshot()
		})
		p.control.RegisterDebugProbe("dispatch.holdoff_depth", func() any {
			return p.dispatcher.Holdoff().Depth()
		})
		p.control.RegisterDebugProbe("registry.allocated", func() any {
			return p.registry.Allocated()
		})
	}

	p.started = true
	log.Printf("%sstarted: %d custom reasons registered", p.config.LogPrefix, p.registry.Allocated())
	return nil
}

// OnNotificationReceived is called by the host's low-level
// signal-receipt routine after it has checked all built-in reasons.
// Only flag writes and a latch kick happen here.
func (p *ProcSignal) OnNotificationReceived() {
	p.dispatcher.OnNotificationReceived()
}

// RunPendingHandlers runs the safe-point dispatch loop directly,
// bypassing the holdoff gate. The generic interrupt processor calls it
// after handling built-in interrupt kinds; handlers performing their own
// nested safe-point pass may also call it (same-reason re-entry stays
// blocked by the processing flags).
func (p *ProcSignal) RunPendingHandlers() {
	p.dispatcher.RunPendingHandlers()
}

// CheckForInterrupts is the generic safe-point helper: it does nothing
// while a dispatch pass holds interrupts, otherwise consumes the
// pending-interrupt indicator and runs pending handlers. Returns true
// when a dispatch pass ran.
func (p *ProcSignal) CheckForInterrupts() bool {
	if p.dispatcher.Holdoff().Held() {
		return false
	}
	if !p.dispatcher.ConsumeInterruptFlag() {
		return false
	}
	p.dispatcher.RunPendingHandlers()
	return true
}

// InterruptPending reports whether the generic indicator is raised.
func (p *ProcSignal) InterruptPending() bool {
	return p.dispatcher.InterruptPending()
}

// WaitForWork parks the caller on the process latch until the next
// wakeup or timeout, then re-arms the latch. Returns true on wakeup.
func (p *ProcSignal) WaitForWork(timeout time.Duration) bool {
	fired := p.latch.Wait(timeout)
	if fired {
		p.latch.Reset()
	}
	return fired
}

// Control returns the dynamic config/metrics/probe interface.
func (p *ProcSignal) Control() api.Control { return p.control }

// Latch returns the process wait primitive.
func (p *ProcSignal) Latch() api.Latch { return p.latch }

// Transport returns the delivery collaborator.
func (p *ProcSignal) Transport() api.Transport { return p.transport }

// Started reports whether the preload phase has ended.
func (p *ProcSignal) Started() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.started
}

// Shutdown releases the latch (when owned) and closes the transport.
func (p *ProcSignal) Shutdown() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	var first error
	if p.ownLatch {
		if err := p.latch.Close(); err != nil {
			first = err
		}
	}
	if err := p.transport.Close(); err != nil && first == nil {
		first = err
	}
	p.started = false
	log.Printf("%sshut down", p.config.LogPrefix)
	return first
}
