// Copyright (c) 2025 Nishisan. All rights reserved.
// Use of this source code is governed by the N-Backup License (Non-Commercial Evaluation)
// that can be found in the LICENSE file.

// Package hostname resolves the optional host identity attached to EXEC
// events and exposes a gopsutil-backed process liveness check used by
// execsource.Runner to disambiguate an ambiguous try_wait result (spec.md §9
// Open Question #1).
package hostname

import (
	"os"

	"github.com/shirou/gopsutil/v3/process"
)

// Provider returns an optional host name.
type Provider interface {
	Hostname() (string, bool)
}

// OSProvider resolves the host name via os.Hostname, caching the result: the
// host name cannot change for the lifetime of the process.
type OSProvider struct {
	name string
	ok   bool
}

// NewOSProvider resolves the current host name once.
func NewOSProvider() *OSProvider {
	name, err := os.Hostname()
	if err != nil || name == "" {
		return &OSProvider{}
	}
	return &OSProvider{name: name, ok: true}
}

// Hostname implements Provider.
func (p *OSProvider) Hostname() (string, bool) {
	return p.name, p.ok
}

// ProcessAlive reports whether pid refers to a currently running process.
// It is best-effort: a false result on a platform gopsutil cannot introspect
// must not be read as "the process exited".
func ProcessAlive(pid int32) bool {
	running, err := process.PidExists(pid)
	if err != nil {
		return false
	}
	return running
}
