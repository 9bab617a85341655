// File: api/reason.go
// Package api defines the interrupt reason space.
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package api

import "fmt"

// Reason identifies one class of asynchronous interrupt a process can
// receive. The reason space is a closed range of NumReasons slots shared
// by every process in the pool. The low subrange is reserved for the host
// server's built-in reasons; the remainder is the custom pool allocated
// through the registry at preload time.
type Reason int

const (
	// NumReasons is the total size of the reason space.
	NumReasons = 64

	// CustomReasonFirst is the first reason slot available for dynamic
	// allocation. Slots below it belong to the host server.
	CustomReasonFirst Reason = 16

	// CustomReasonLast is the last allocatable reason slot.
	CustomReasonLast Reason = NumReasons - 1

	// MaxCustomReasons is the capacity of the custom reason pool.
	MaxCustomReasons = int(CustomReasonLast-CustomReasonFirst) + 1
)

// ReasonInvalid is returned by registration when the custom pool is
// exhausted. It is never a member of the reason space.
const ReasonInvalid Reason = -1

// IsValid reports whether r lies inside the reason space.
func (r Reason) IsValid() bool {
	return r >= 0 && r < NumReasons
}

// IsCustom reports whether r belongs to the dynamically allocated range.
func (r Reason) IsCustom() bool {
	return r >= CustomReasonFirst && r <= CustomReasonLast
}

// CustomSlot returns the zero-based index of r within the custom pool,
// or -1 if r is not a custom reason. Flag tables are indexed by slot.
func (r Reason) CustomSlot() int {
	if !r.IsCustom() {
		return -1
	}
	return int(r - CustomReasonFirst)
}

// String renders the reason for logs and debug probes.
func (r Reason) String() string {
	switch {
	case r == ReasonInvalid:
		return "invalid"
	case r.IsCustom():
		return fmt.Sprintf("custom(%d)", r.CustomSlot())
	case r.IsValid():
		return fmt.Sprintf("builtin(%d)", int(r))
	default:
		return fmt.Sprintf("out-of-range(%d)", int(r))
	}
}
