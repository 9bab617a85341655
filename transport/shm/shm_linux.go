// File: transport/shm/shm_linux.go
//go:build linux
// +build linux

//
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Linux shared-memory transport: mmapped slot table plus SIGUSR1 wakeup.

package shm

import (
	"fmt"
	"os"
	"sync/atomic"
	"unsafe"

	"github.com/momentics/procsig/api"
	"golang.org/x/sys/unix"
)

const (
	segmentMagic = 0x70736967 // "psig"

	// Segment layout, in 32-bit words:
	// [0] magic, [1] slot count, then slotCount slots of slotStride words.
	headerWords = 2
	slotStride  = 1 + api.NumReasons // pid word + one pending word per reason
)

// Config holds immutable transport parameters.
type Config struct {
	Path     string // backing file for the shared segment
	MaxSlots int    // process slot table capacity
}

// DefaultConfig returns defaults suitable for a modest worker pool.
func DefaultConfig() *Config {
	return &Config{
		Path:     os.TempDir() + "/procsig.shm",
		MaxSlots: 128,
	}
}

// Transport is the calling process's attachment to the shared segment.
type Transport struct {
	mem      []byte
	words    []uint32
	fd       int
	selfSlot int
	selfPID  uint32
	closed   atomic.Bool
}

var _ api.Transport = (*Transport)(nil)

// Open maps the segment (creating and sizing it on first use) and
// claims a free process slot for the calling process.
func Open(cfg *Config) (*Transport, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if cfg.MaxSlots <= 0 {
		return nil, api.ErrInvalidArgument
	}
	size := (headerWords + cfg.MaxSlots*slotStride) * 4

	fd, err := unix.Open(cfg.Path, unix.O_RDWR|unix.O_CREAT, 0o600)
	if err != nil {
		return nil, fmt.Errorf("shm open %s: %w", cfg.Path, err)
	}
	if err := unix.Ftruncate(fd, int64(size)); err != nil {
		unix.Close(fd)
		return nil, fmt.Errorf("shm ftruncate: %w", err)
	}
	mem, err := unix.Mmap(fd, 0, size, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED)
	if err != nil {
		unix.Close(fd)
		return nil, fmt.Errorf("shm mmap: %w", err)
	}

	t := &Transport{
		mem:     mem,
		words:   unsafe.Slice((*uint32)(unsafe.Pointer(&mem[0])), size/4),
		fd:      fd,
		selfPID: uint32(os.Getpid()),
	}
	if err := t.initHeader(uint32(cfg.MaxSlots)); err != nil {
		t.unmap()
		return nil, err
	}
	if err := t.claimSlot(); err != nil {
		t.unmap()
		return nil, err
	}
	return t, nil
}

// initHeader publishes the header on first attach and validates it on
// later ones.
func (t *Transport) initHeader(slots uint32) error {
	// Slot count is published before the magic word so peers that
	// observe the magic never read a zero-sized table.
	atomic.CompareAndSwapUint32(&t.words[1], 0, slots)
	if atomic.CompareAndSwapUint32(&t.words[0], 0, segmentMagic) {
		return nil
	}
	if atomic.LoadUint32(&t.words[0]) != segmentMagic {
		return api.NewError(api.ErrCodeInternal, "shm segment has foreign contents").
			WithContext("magic", atomic.LoadUint32(&t.words[0]))
	}
	if atomic.LoadUint32(&t.words[1]) != slots {
		return api.NewError(api.ErrCodeInvalidArgument, "shm slot table size mismatch").
			WithContext("have", atomic.LoadUint32(&t.words[1])).
			WithContext("want", slots)
	}
	return nil
}

// claimSlot CASes the calling pid into the first free pid word.
func (t *Transport) claimSlot() error {
	slots := int(atomic.LoadUint32(&t.words[1]))
	for slot := 0; slot < slots; slot++ {
		pidWord := &t.words[headerWords+slot*slotStride]
		if atomic.CompareAndSwapUint32(pidWord, 0, t.selfPID) {
			t.selfSlot = slot
			// A slot inherited from a dead pid may carry stale bits.
			for r := 0; r < api.NumReasons; r++ {
				atomic.StoreUint32(&t.words[headerWords+slot*slotStride+1+r], 0)
			}
			return nil
		}
	}
	return api.ErrSlotTableFull
}

// findSlot locates the slot owned by pid, or -1.
func (t *Transport) findSlot(pid uint32) int {
	slots := int(atomic.LoadUint32(&t.words[1]))
	for slot := 0; slot < slots; slot++ {
		if atomic.LoadUint32(&t.words[headerWords+slot*slotStride]) == pid {
			return slot
		}
	}
	return -1
}

// Notify sets the target's pending word for reason and raises SIGUSR1
// at the target pid. Duplicate notifies before the target consumes the
// word coalesce on the set bit.
func (t *Transport) Notify(pid int, reason api.Reason) error {
	if t.closed.Load() {
		return api.ErrTransportClosed
	}
	if !reason.IsValid() || pid <= 0 {
		return api.ErrInvalidArgument
	}
	slot := t.findSlot(uint32(pid))
	if slot < 0 {
		return api.ErrUnknownProcess
	}
	atomic.StoreUint32(&t.words[headerWords+slot*slotStride+1+int(reason)], 1)
	if err := unix.Kill(pid, unix.SIGUSR1); err != nil {
		return fmt.Errorf("kill %d: %w", pid, err)
	}
	return nil
}

// ConsumePending atomically tests and clears the caller's pending word.
// One atomic swap on mapped memory; safe from the signal-receipt path.
func (t *Transport) ConsumePending(reason api.Reason) bool {
	if t.closed.Load() || !reason.IsValid() {
		return false
	}
	w := &t.words[headerWords+t.selfSlot*slotStride+1+int(reason)]
	return atomic.SwapUint32(w, 0) == 1
}

// Close releases the process slot and unmaps the segment. The backing
// file stays for the rest of the pool.
func (t *Transport) Close() error {
	if !t.closed.CompareAndSwap(false, true) {
		return nil
	}
	pidWord := &t.words[headerWords+t.selfSlot*slotStride]
	atomic.CompareAndSwapUint32(pidWord, t.selfPID, 0)
	return t.unmap()
}

func (t *Transport) unmap() error {
	var first error
	if err := unix.Munmap(t.mem); err != nil {
		first = fmt.Errorf("shm munmap: %w", err)
	}
	if err := unix.Close(t.fd); err != nil && first == nil {
		first = fmt.Errorf("shm close: %w", err)
	}
	return first
}

// Features implements api.Transport.Features.
func (t *Transport) Features() api.TransportFeatures {
	return api.TransportFeatures{
		CrossProcess: true,
		SharedMemory: true,
		SignalWakeup: true,
		LockFree:     true,
		OS:           []string{"linux"},
	}
}
