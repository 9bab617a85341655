// File: transport/inproc/doc.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Package inproc implements the delivery transport inside a single OS
// process: a Hub holds a fixed table of endpoint pending-bit arrays, one
// per simulated worker process, and Notify flips the target's bit and
// invokes its wake callback in place of an OS signal.
//
// The hub exists for tests, examples, and single-binary simulations of
// the worker pool. Bit semantics match the shared-memory transport:
// duplicate notifications coalesce on the set bit, and ConsumePending
// is an atomic test-and-clear.
package inproc
