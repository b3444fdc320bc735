// Copyright (c) 2025 Nishisan. All rights reserved.
// Use of this source code is governed by the N-Backup License (Non-Commercial Evaluation)
// that can be found in the LICENSE file.

// Package shutdown provides the broadcastable, forkable, pollable one-shot
// cancellation token both ingestion sources observe at every loop head. It is
// a thin vocabulary wrapper around context.Context: cancellation in this
// codebase is always context-based, so Signal adds nothing new at runtime,
// only names matching the collaborator described for the two sources.
package shutdown

import "context"

// Signal is a cloneable, awaitable shutdown notification.
type Signal struct {
	ctx context.Context
}

// New wraps ctx as a Signal.
func New(ctx context.Context) Signal {
	return Signal{ctx: ctx}
}

// Done returns a channel that closes once shutdown is requested.
func (s Signal) Done() <-chan struct{} {
	return s.ctx.Done()
}

// Poll reports whether shutdown has already been requested, without blocking.
func (s Signal) Poll() bool {
	select {
	case <-s.ctx.Done():
		return true
	default:
		return false
	}
}

// Fork derives a child Signal that fires when either s fires or the returned
// cancel function is called. The caller owns the cancel function and must
// call it to release resources.
func (s Signal) Fork() (Signal, context.CancelFunc) {
	ctx, cancel := context.WithCancel(s.ctx)
	return Signal{ctx: ctx}, cancel
}

// Context exposes the underlying context.Context for call sites that need to
// pass it through to stdlib or ecosystem APIs expecting one.
func (s Signal) Context() context.Context {
	return s.ctx
}
