// Copyright (c) 2025 Nishisan. All rights reserved.
// Use of this source code is governed by the N-Backup License (Non-Commercial Evaluation)
// that can be found in the LICENSE file.

package tcpsource

import (
	"sync/atomic"

	"github.com/hsinghkalsi/ingestcore/internal/telemetry"
)

// ConnectionGauge is a process-wide counter of currently-open connections,
// incremented on Acquire and decremented on Release, following the
// atomic.Int64 connection-count idiom. Every change emits ConnectionOpen
// carrying the post-change count.
type ConnectionGauge struct {
	count   atomic.Int64
	emitter telemetry.Emitter
}

// NewConnectionGauge creates a ConnectionGauge starting at zero.
func NewConnectionGauge(emitter telemetry.Emitter) *ConnectionGauge {
	return &ConnectionGauge{emitter: emitter}
}

// Count returns the current open-connection count.
func (g *ConnectionGauge) Count() int64 {
	return g.count.Load()
}

// Acquire increments the gauge, emits ConnectionOpen, and returns a token
// whose Release decrements it and emits the change again.
func (g *ConnectionGauge) Acquire() *GaugeToken {
	n := g.count.Add(1)
	g.emitter.EmitConnectionOpen(n)
	return &GaugeToken{gauge: g}
}

// GaugeToken represents one held slot in a ConnectionGauge.
type GaugeToken struct {
	gauge    *ConnectionGauge
	released bool
}

// Release decrements the gauge. It is safe to call more than once; only
// the first call has an effect.
func (t *GaugeToken) Release() {
	if t.released {
		return
	}
	t.released = true
	n := t.gauge.count.Add(-1)
	t.gauge.emitter.EmitConnectionOpen(n)
}
