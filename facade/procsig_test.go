package facade_test

import (
	"errors"
	"testing"
	"time"

	"github.com/momentics/procsig/api"
	"github.com/momentics/procsig/facade"
	"github.com/momentics/procsig/fake"
)

func newFacade(t *testing.T) (*facade.ProcSignal, *fake.Transport) {
	t.Helper()
	tr := fake.NewTransport()
	cfg := facade.DefaultConfig()
	cfg.Transport = tr
	p, err := facade.New(cfg)
	if err != nil {
		t.Fatal(err)
	}
	return p, tr
}

// Full lifecycle: preload registration, Start, delivery, safe-point
// dispatch, control plane, shutdown.
func TestProcSignalFullLifecycle(t *testing.T) {
	p, tr := newFacade(t)

	calls := 0
	r, err := p.Register(func() { calls++ })
	if err != nil {
		t.Fatal(err)
	}
	if err := p.Start(); err != nil {
		t.Fatal(err)
	}
	if err := p.Start(); !errors.Is(err, api.ErrAlreadyStarted) {
		t.Errorf("second Start: err = %v, want ErrAlreadyStarted", err)
	}

	// A peer marks our reason pending; the signal path runs the hook.
	tr.MarkPending(r)
	p.OnNotificationReceived()

	if !p.InterruptPending() {
		t.Error("interrupt indicator not raised")
	}
	if !p.WaitForWork(time.Second) {
		t.Error("latch not kicked by arrival")
	}
	if !p.CheckForInterrupts() {
		t.Error("safe-point check did not dispatch")
	}
	if calls != 1 {
		t.Errorf("handler ran %d times, want 1", calls)
	}
	if p.CheckForInterrupts() {
		t.Error("safe-point check dispatched with nothing pending")
	}

	stats := p.Control().Stats()
	if stats["dispatch.handlers_run"].(uint64) != 1 {
		t.Errorf("handlers_run = %v, want 1", stats["dispatch.handlers_run"])
	}
	if _, ok := stats["debug.dispatch.holdoff_depth"]; !ok {
		t.Error("holdoff probe not registered")
	}

	if err := p.Shutdown(); err != nil {
		t.Error(err)
	}
}

func TestNewRequiresTransport(t *testing.T) {
	cfg := facade.DefaultConfig()
	if _, err := facade.New(cfg); err == nil {
		t.Fatal("New accepted a nil transport")
	}
}

func TestRegisterAfterStartPanics(t *testing.T) {
	p, _ := newFacade(t)
	if err := p.Start(); err != nil {
		t.Fatal(err)
	}
	defer func() {
		v := recover()
		err, ok := v.(error)
		if !ok || !errors.Is(err, api.ErrRegistrySealed) {
			t.Fatalf("panic value = %v, want ErrRegistrySealed", v)
		}
	}()
	p.Register(func() {})
}

func TestCheckForInterruptsBlockedWhileHeld(t *testing.T) {
	p, tr := newFacade(t)
	var r0, r1 api.Reason
	var r1Calls int
	checkedInside := false
	var err error
	r0, err = p.Register(func() {
		// The generic safe-point path must refuse to re-enter while the
		// outer dispatch pass holds interrupts...
		tr.MarkPending(r1)
		p.OnNotificationReceived()
		if p.CheckForInterrupts() {
			t.Error("CheckForInterrupts dispatched inside a held bracket")
		}
		// ...but a direct nested dispatch pass runs other reasons.
		p.RunPendingHandlers()
		if r1Calls != 1 {
			t.Error("nested RunPendingHandlers did not run the other reason")
		}
		checkedInside = true
	})
	if err != nil {
		t.Fatal(err)
	}
	r1, err = p.Register(func() { r1Calls++ })
	if err != nil {
		t.Fatal(err)
	}
	if err := p.Start(); err != nil {
		t.Fatal(err)
	}

	tr.MarkPending(r0)
	p.OnNotificationReceived()
	if !p.CheckForInterrupts() {
		t.Fatal("outer safe-point check did not dispatch")
	}
	if !checkedInside {
		t.Fatal("handler body did not run")
	}
}

func TestPoolExhaustionSurfacesThroughFacade(t *testing.T) {
	p, _ := newFacade(t)
	for i := 0; i < api.MaxCustomReasons; i++ {
		if _, err := p.Register(func() {}); err != nil {
			t.Fatal(err)
		}
	}
	r, err := p.Register(func() {})
	if r != api.ReasonInvalid || !errors.Is(err, api.ErrReasonPoolExhausted) {
		t.Errorf("got (%v, %v), want (ReasonInvalid, ErrReasonPoolExhausted)", r, err)
	}
}

func TestControlConfigSeeded(t *testing.T) {
	p, _ := newFacade(t)
	cfg := p.Control().GetConfig()
	if cfg["reasons.capacity"] != api.MaxCustomReasons {
		t.Errorf("reasons.capacity = %v", cfg["reasons.capacity"])
	}
}
