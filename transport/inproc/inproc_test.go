package inproc_test

import (
	"errors"
	"testing"

	"github.com/momentics/procsig/api"
	"github.com/momentics/procsig/transport/inproc"
)

func TestNotifyCrossEndpointAndConsume(t *testing.T) {
	hub := inproc.NewHub(4)
	wokeB := 0
	a, err := hub.Attach(1, nil)
	if err != nil {
		t.Fatal(err)
	}
	b, err := hub.Attach(2, func() { wokeB++ })
	if err != nil {
		t.Fatal(err)
	}

	r := api.CustomReasonFirst
	if err := a.Notify(2, r); err != nil {
		t.Fatal(err)
	}
	if wokeB != 1 {
		t.Errorf("target woken %d times, want 1", wokeB)
	}
	if a.ConsumePending(r) {
		t.Error("sender observed the target's pending bit")
	}
	if !b.ConsumePending(r) {
		t.Error("target did not observe pending bit")
	}
	if b.ConsumePending(r) {
		t.Error("test-and-clear did not clear")
	}
}

func TestDuplicateNotifiesCoalesceOnBit(t *testing.T) {
	hub := inproc.NewHub(4)
	a, _ := hub.Attach(1, nil)
	b, _ := hub.Attach(2, nil)

	r := api.CustomReasonFirst + 3
	for i := 0; i < 4; i++ {
		if err := a.Notify(2, r); err != nil {
			t.Fatal(err)
		}
	}
	if !b.ConsumePending(r) {
		t.Fatal("pending bit lost")
	}
	if b.ConsumePending(r) {
		t.Error("duplicate notifies queued instead of coalescing")
	}
}

func TestNotifyUnknownTarget(t *testing.T) {
	hub := inproc.NewHub(4)
	a, _ := hub.Attach(1, nil)
	if err := a.Notify(99, api.CustomReasonFirst); !errors.Is(err, api.ErrUnknownProcess) {
		t.Errorf("err = %v, want ErrUnknownProcess", err)
	}
}

func TestNotifyInvalidReason(t *testing.T) {
	hub := inproc.NewHub(4)
	a, _ := hub.Attach(1, nil)
	hub.Attach(2, nil)
	if err := a.Notify(2, api.ReasonInvalid); !errors.Is(err, api.ErrInvalidArgument) {
		t.Errorf("err = %v, want ErrInvalidArgument", err)
	}
}

func TestSlotTableCapacity(t *testing.T) {
	hub := inproc.NewHub(2)
	if _, err := hub.Attach(1, nil); err != nil {
		t.Fatal(err)
	}
	if _, err := hub.Attach(2, nil); err != nil {
		t.Fatal(err)
	}
	if _, err := hub.Attach(3, nil); !errors.Is(err, api.ErrSlotTableFull) {
		t.Errorf("err = %v, want ErrSlotTableFull", err)
	}
}

func TestDuplicateIDRejected(t *testing.T) {
	hub := inproc.NewHub(4)
	hub.Attach(1, nil)
	if _, err := hub.Attach(1, nil); !errors.Is(err, api.ErrInvalidArgument) {
		t.Errorf("err = %v, want ErrInvalidArgument", err)
	}
}

func TestCloseDetachesAndFreesID(t *testing.T) {
	hub := inproc.NewHub(4)
	a, _ := hub.Attach(1, nil)
	b, _ := hub.Attach(2, nil)
	if err := b.Close(); err != nil {
		t.Fatal(err)
	}
	if err := a.Notify(2, api.CustomReasonFirst); !errors.Is(err, api.ErrUnknownProcess) {
		t.Errorf("notify to closed endpoint: err = %v, want ErrUnknownProcess", err)
	}
	if err := b.Notify(1, api.CustomReasonFirst); !errors.Is(err, api.ErrTransportClosed) {
		t.Errorf("notify from closed endpoint: err = %v, want ErrTransportClosed", err)
	}
}
