// File: transport/shm/shm_stub.go
//go:build !linux
// +build !linux

//
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Stub for platforms without the shared-memory + SIGUSR1 transport.

package shm

import (
	"os"

	"github.com/momentics/procsig/api"
)

// Config holds immutable transport parameters.
type Config struct {
	Path     string
	MaxSlots int
}

// DefaultConfig returns defaults suitable for a modest worker pool.
func DefaultConfig() *Config {
	return &Config{
		Path:     os.TempDir() + "/procsig.shm",
		MaxSlots: 128,
	}
}

// Transport is unavailable on this platform.
type Transport struct{}

var _ api.Transport = (*Transport)(nil)

// Open reports that the transport is unsupported here.
func Open(cfg *Config) (*Transport, error) {
	return nil, api.ErrNotSupported
}

func (t *Transport) Notify(pid int, reason api.Reason) error { return api.ErrNotSupported }
func (t *Transport) ConsumePending(reason api.Reason) bool   { return false }
func (t *Transport) Close() error                            { return nil }

// Features implements api.Transport.Features.
func (t *Transport) Features() api.TransportFeatures {
	return api.TransportFeatures{OS: []string{}}
}
