// Copyright (c) 2025 Nishisan. All rights reserved.
// Use of this source code is governed by the N-Backup License (Non-Commercial Evaluation)
// that can be found in the LICENSE file.

package tcpsource

import (
	"time"

	"github.com/hsinghkalsi/ingestcore/internal/shutdown"
)

// Tripwire is the two-stage drain future of spec.md §9: it waits for
// shutdown, then sleeps timeout, then fires. Every handler races its read
// loop against the same Tripwire's Done channel — closing a channel
// broadcasts to every receiver, so no per-handler clone is needed the way
// an async-Rust shared future would require.
type Tripwire struct {
	done chan struct{}
}

// NewTripwire starts the two-stage timer against sig, firing Done() after
// sig fires plus timeout elapses.
func NewTripwire(sig shutdown.Signal, timeout time.Duration) *Tripwire {
	t := &Tripwire{done: make(chan struct{})}
	go func() {
		<-sig.Done()
		timer := time.NewTimer(timeout)
		defer timer.Stop()
		<-timer.C
		close(t.done)
	}()
	return t
}

// Done returns the channel that closes once the drain deadline passes.
func (t *Tripwire) Done() <-chan struct{} {
	return t.done
}
