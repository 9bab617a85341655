//go:build linux
// +build linux

package shm_test

import (
	"errors"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"testing"

	"github.com/momentics/procsig/api"
	"github.com/momentics/procsig/transport/shm"
)

func testConfig(t *testing.T) *shm.Config {
	t.Helper()
	return &shm.Config{
		Path:     filepath.Join(t.TempDir(), "procsig.shm"),
		MaxSlots: 4,
	}
}

// SIGUSR1's default disposition terminates the process, so the tests
// that Notify our own pid must ignore it first.
func ignoreSIGUSR1(t *testing.T) {
	t.Helper()
	// signal.Ignore is process-global; scope it to this test.
	signal.Ignore(syscall.SIGUSR1)
	t.Cleanup(func() { signal.Reset(syscall.SIGUSR1) })
}

func TestSelfNotifyRoundTrip(t *testing.T) {
	ignoreSIGUSR1(t)
	tr, err := shm.Open(testConfig(t))
	if err != nil {
		t.Fatal(err)
	}
	defer tr.Close()

	r := api.CustomReasonFirst + 2
	if tr.ConsumePending(r) {
		t.Fatal("fresh slot reports pending")
	}
	if err := tr.Notify(os.Getpid(), r); err != nil {
		t.Fatal(err)
	}
	if !tr.ConsumePending(r) {
		t.Fatal("pending word not visible after Notify")
	}
	if tr.ConsumePending(r) {
		t.Error("test-and-clear did not clear")
	}
}

func TestDuplicateNotifiesCoalesce(t *testing.T) {
	ignoreSIGUSR1(t)
	tr, err := shm.Open(testConfig(t))
	if err != nil {
		t.Fatal(err)
	}
	defer tr.Close()

	r := api.CustomReasonFirst
	for i := 0; i < 3; i++ {
		if err := tr.Notify(os.Getpid(), r); err != nil {
			t.Fatal(err)
		}
	}
	if !tr.ConsumePending(r) {
		t.Fatal("pending word lost")
	}
	if tr.ConsumePending(r) {
		t.Error("duplicate notifies queued instead of coalescing")
	}
}

func TestTwoAttachmentsShareSegment(t *testing.T) {
	ignoreSIGUSR1(t)
	cfg := testConfig(t)
	a, err := shm.Open(cfg)
	if err != nil {
		t.Fatal(err)
	}
	defer a.Close()
	// Second attachment simulates a peer process mapping the same file;
	// it claims a distinct slot even with an identical pid.
	b, err := shm.Open(cfg)
	if err != nil {
		t.Fatal(err)
	}
	defer b.Close()

	r := api.CustomReasonFirst + 1
	// findSlot resolves our pid to the first attachment's slot.
	if err := b.Notify(os.Getpid(), r); err != nil {
		t.Fatal(err)
	}
	if !a.ConsumePending(r) {
		t.Error("peer attachment's notify not visible through the segment")
	}
}

func TestNotifyUnknownPid(t *testing.T) {
	tr, err := shm.Open(testConfig(t))
	if err != nil {
		t.Fatal(err)
	}
	defer tr.Close()
	// No slot carries this pid; no signal is raised.
	if err := tr.Notify(1<<22+12345, api.CustomReasonFirst); !errors.Is(err, api.ErrUnknownProcess) {
		t.Errorf("err = %v, want ErrUnknownProcess", err)
	}
}

func TestSlotTableExhaustion(t *testing.T) {
	cfg := testConfig(t)
	cfg.MaxSlots = 1
	a, err := shm.Open(cfg)
	if err != nil {
		t.Fatal(err)
	}
	defer a.Close()
	if _, err := shm.Open(cfg); !errors.Is(err, api.ErrSlotTableFull) {
		t.Errorf("err = %v, want ErrSlotTableFull", err)
	}
}

func TestCloseReleasesSlot(t *testing.T) {
	cfg := testConfig(t)
	cfg.MaxSlots = 1
	a, err := shm.Open(cfg)
	if err != nil {
		t.Fatal(err)
	}
	if err := a.Close(); err != nil {
		t.Fatal(err)
	}
	b, err := shm.Open(cfg)
	if err != nil {
		t.Fatalf("slot not released by Close: %v", err)
	}
	b.Close()
}
