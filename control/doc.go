// Package control
// Author: momentics <momentics@gmail.com>
//
// Runtime metrics, configuration control, and debug introspection for
// the procsig core.
//
// Provides concurrent-safe state handling primitives including:
//   - Immutable snapshot config reads and atomic updates
//   - Runtime observers for hot-reload
//   - Dispatch telemetry counters surfaced as metric snapshots
//   - Debug hooks and probe registration (pending flags, holdoff depth,
//     allocated reasons)
//
// Nothing in this package is reachable from the signal-receipt path; all
// probes and metric reads happen at control-plane pace.
package control
