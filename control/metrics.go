// control/metrics.go
// Author: momentics <momentics@gmail.com>
//
// Runtime metrics collector for dispatch-level monitoring.
// Exposes counters in a thread-safe map with dynamic registration.

package control

import (
	"sync"
	"time"
)

// MetricsRegistry holds mutable metrics plus pull-style sources.
type MetricsRegistry struct {
	mu      sync.RWMutex
	metrics map[string]any
	sources []func() map[string]any
	updated time.Time
}

// NewMetricsRegistry creates an empty registry.
func NewMetricsRegistry() *MetricsRegistry {
	return &MetricsRegistry{
		metrics: make(map[string]any),
	}
}

// Set sets or updates a metric key.
func (mr *MetricsRegistry) Set(key string, value any) {
	mr.mu.Lock()
	mr.metrics[key] = value
	mr.updated = time.Now()
	mr.mu.Unlock()
}

// AddSource registers a pull-style metric source, polled on every
// snapshot. The dispatcher's counter block is attached this way so
// snapshots always reflect the live atomics.
func (mr *MetricsRegistry) AddSource(fn func() map[string]any) {
	mr.mu.Lock()
	defer mr.mu.Unlock()
	mr.sources = append(mr.sources, fn)
}

// GetSnapshot returns the latest metrics, merging pull sources over the
// stored keys.
func (mr *MetricsRegistry) GetSnapshot() map[string]any {
	mr.mu.RLock()
	defer mr.mu.RUnlock()
	out := make(map[string]any, len(mr.metrics))
	for k, v := range mr.metrics {
		out[k] = v
	}
	for _, src := range mr.sources {
		for k, v := range src() {
			out[k] = v
		}
	}
	return out
}
