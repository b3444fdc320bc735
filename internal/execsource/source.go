// Copyright (c) 2025 Nishisan. All rights reserved.
// Use of this source code is governed by the N-Backup License (Non-Commercial Evaluation)
// that can be found in the LICENSE file.

package execsource

import (
	"log/slog"

	"github.com/hsinghkalsi/ingestcore/internal/hostname"
	"github.com/hsinghkalsi/ingestcore/internal/logevent"
	"github.com/hsinghkalsi/ingestcore/internal/shutdown"
	"github.com/hsinghkalsi/ingestcore/internal/sink"
	"github.com/hsinghkalsi/ingestcore/internal/telemetry"
)

// Source is the top-level EXEC ingestion core: a validated Config wired to
// a Runner and driven by a Supervisor.
type Source struct {
	supervisor *Supervisor
}

// New validates cfg and wires a Source against sk. schema and hostProvider
// may be nil, resolving to logevent.DefaultSchema and no host field
// respectively. emitter is typically logging.NewLogger's second return
// value, sharing logger's handler.
func New(cfg Config, sk sink.Sink, schema logevent.Schema, hostProvider hostname.Provider, emitter telemetry.Emitter, logger *slog.Logger) (*Source, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	runner := NewRunner(cfg, sk, emitter, hostProvider, schema, logger)
	supervisor := NewSupervisor(cfg, runner, emitter, logger)

	return &Source{supervisor: supervisor}, nil
}

// Run blocks until sig fires, driving ingestion per the configured mode.
func (s *Source) Run(sig shutdown.Signal) {
	s.supervisor.Run(sig)
}
