// Copyright (c) 2025 Nishisan. All rights reserved.
// Use of this source code is governed by the N-Backup License (Non-Commercial Evaluation)
// that can be found in the LICENSE file.

package tcpsource

import (
	"log/slog"
	"time"

	"github.com/hsinghkalsi/ingestcore/internal/backoff"
	"github.com/hsinghkalsi/ingestcore/internal/fdtable"
	"github.com/hsinghkalsi/ingestcore/internal/shutdown"
	"github.com/hsinghkalsi/ingestcore/internal/sink"
	"github.com/hsinghkalsi/ingestcore/internal/telemetry"
	"github.com/hsinghkalsi/ingestcore/internal/tlsconfig"
)

// acceptBackoffInterval paces repeated Accept errors, following
// internal/server/server.go's consecutive-error backoff but via
// internal/backoff.Limiter instead of a hand-rolled ramp.
const acceptBackoffInterval = 100 * time.Millisecond

// Supervisor accepts connections, spawns handlers, and tracks the
// open-connection gauge (spec.md §4.H).
type Supervisor struct {
	cfg     Config
	binder  tlsconfig.Binder
	fdTable fdtable.Table
	factory DecoderFactory
	lifter  EventLifter
	sink    sink.Sink
	emitter telemetry.Emitter
	logger  *slog.Logger
}

// NewSupervisor builds a Supervisor.
func NewSupervisor(cfg Config, binder tlsconfig.Binder, fdTable fdtable.Table, factory DecoderFactory, lifter EventLifter, sk sink.Sink, emitter telemetry.Emitter, logger *slog.Logger) *Supervisor {
	return &Supervisor{
		cfg:     cfg,
		binder:  binder,
		fdTable: fdTable,
		factory: factory,
		lifter:  lifter,
		sink:    sk,
		emitter: emitter,
		logger:  logger,
	}
}

// Run builds the listener and accepts connections until sig fires.
func (s *Supervisor) Run(sig shutdown.Signal) {
	ln, ok := buildListener(sig.Context(), s.cfg, s.binder, s.fdTable, s.logger)
	if !ok {
		return
	}
	defer ln.Close()
	s.logger.Info("tcp source listening", "address", ln.Addr().String())

	tripwire := NewTripwire(sig, s.cfg.ShutdownTimeoutResolved())
	gauge := NewConnectionGauge(s.emitter)

	go func() {
		<-sig.Done()
		ln.Close()
	}()

	limiter := backoff.NewLimiter(acceptBackoffInterval)
	deps := handlerDeps{
		binder:  s.binder,
		factory: s.factory,
		lifter:  s.lifter,
		sink:    s.sink,
		emitter: s.emitter,
		logger:  s.logger,
		cfg:     s.cfg,
	}

	for {
		conn, err := ln.Accept()
		if err != nil {
			if sig.Poll() {
				return
			}
			s.logger.Warn("tcp accept failed", "error", err)
			if waitErr := limiter.Wait(sig.Context()); waitErr != nil {
				return
			}
			continue
		}

		token := gauge.Acquire()
		go func() {
			defer token.Release()
			handleConnection(sig, conn, tripwire, deps)
		}()
	}
}
