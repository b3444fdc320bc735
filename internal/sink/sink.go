// Copyright (c) 2025 Nishisan. All rights reserved.
// Use of this source code is governed by the N-Backup License (Non-Commercial Evaluation)
// that can be found in the LICENSE file.

// Package sink defines the downstream event consumer contract shared by both
// ingestion sources. Concrete sink implementations (files, brokers, HTTP
// collectors, ...) are out of scope per spec.md; this package only holds the
// interface plus two trivial sinks: an in-memory one used by every package's
// tests, and a JSON-lines stdout sink wired by the demo binaries under
// cmd/.
package sink

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"sync"

	"github.com/hsinghkalsi/ingestcore/internal/logevent"
)

// ErrClosed is returned by Send once the sink can no longer accept events.
var ErrClosed = errors.New("sink: closed")

// Sink is an ordered, fallible downstream event consumer.
type Sink interface {
	Send(ctx context.Context, event logevent.Event) error
	Flush(ctx context.Context) error
}

// Memory is a Sink that appends accepted events to an in-memory slice. It is
// safe for concurrent use and is the sink used by every package's tests.
type Memory struct {
	mu     sync.Mutex
	events []logevent.Event
	closed bool
}

// NewMemory creates an open Memory sink.
func NewMemory() *Memory {
	return &Memory{}
}

// Send appends event, or returns ErrClosed if Close was called.
func (m *Memory) Send(_ context.Context, event logevent.Event) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return ErrClosed
	}
	m.events = append(m.events, event)
	return nil
}

// Flush is a no-op; Memory has no buffering to drain.
func (m *Memory) Flush(_ context.Context) error {
	return nil
}

// Close marks the sink closed; subsequent Send calls return ErrClosed.
func (m *Memory) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
}

// Events returns a snapshot of the events accepted so far.
func (m *Memory) Events() []logevent.Event {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]logevent.Event, len(m.events))
	copy(out, m.events)
	return out
}

// Stdout is a Sink that writes each event as one JSON line to w. It is the
// sink the demo binaries under cmd/ wire by default.
type Stdout struct {
	mu  sync.Mutex
	w   io.Writer
	enc *json.Encoder
}

// NewStdout creates a Stdout sink writing to w.
func NewStdout(w io.Writer) *Stdout {
	return &Stdout{w: w, enc: json.NewEncoder(w)}
}

// Send writes event as a JSON line. Byte-slice fields (the message) are
// base64-encoded by encoding/json, which is acceptable for a demo sink since
// no downstream consumer depends on this wire shape.
func (s *Stdout) Send(_ context.Context, event logevent.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.enc.Encode(event)
}

// Flush is a no-op; Stdout writes synchronously on every Send.
func (s *Stdout) Flush(_ context.Context) error {
	return nil
}
