// File: api/doc.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Package api defines the public contracts of the procsig library:
// the interrupt reason space, handler callbacks, the cross-process
// delivery transport, the per-process latch, control/introspection
// interfaces, and structured error types.
//
// procsig lets extensions of a multi-process server claim a custom
// asynchronous interrupt reason during the process preload phase and
// receive a callback at the next safe point after any process in the
// pool targets that reason at this process. The arrival side of the
// contract is async-signal-safe by construction: fixed-size atomic
// flag tables, no allocation, no locking. Handler execution happens
// later, at a safe point, under per-reason reentrancy protection.
package api
