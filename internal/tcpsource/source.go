// Copyright (c) 2025 Nishisan. All rights reserved.
// Use of this source code is governed by the N-Backup License (Non-Commercial Evaluation)
// that can be found in the LICENSE file.

package tcpsource

import (
	"log/slog"

	"github.com/hsinghkalsi/ingestcore/internal/fdtable"
	"github.com/hsinghkalsi/ingestcore/internal/logevent"
	"github.com/hsinghkalsi/ingestcore/internal/shutdown"
	"github.com/hsinghkalsi/ingestcore/internal/sink"
	"github.com/hsinghkalsi/ingestcore/internal/telemetry"
	"github.com/hsinghkalsi/ingestcore/internal/tlsconfig"
)

// Source is the top-level TCP ingestion core.
type Source struct {
	supervisor *Supervisor
}

// New wires a Source against cfg. fdTable may be nil (resolves to
// fdtable.NewEnvTable()); schema may be nil (resolves to
// logevent.DefaultSchema). emitter is typically logging.NewLogger's second
// return value, sharing logger's handler.
func New(cfg Config, sk sink.Sink, schema logevent.Schema, fdTable fdtable.Table, emitter telemetry.Emitter, logger *slog.Logger) (*Source, error) {
	binder, err := tlsconfig.NewBinder(cfg.TLS)
	if err != nil {
		return nil, err
	}
	if fdTable == nil {
		fdTable = fdtable.NewEnvTable()
	}

	factory := newDecoderFactory(cfg)
	lifter := NewDefaultLifter(schema)

	supervisor := NewSupervisor(cfg, binder, fdTable, factory, lifter, sk, emitter, logger)
	return &Source{supervisor: supervisor}, nil
}

func newDecoderFactory(cfg Config) DecoderFactory {
	maxLength := cfg.MaxFrameLengthResolved()
	if !cfg.EventPerLineResolved() {
		return BlobDecoderFactory{MaxLength: maxLength}
	}
	if cfg.Compressed {
		return CompressedLineDecoderFactory{MaxLength: maxLength}
	}
	return LineDecoderFactory{MaxLength: maxLength}
}

// Run blocks until sig fires, serving connections per the configured
// listener and decoder.
func (s *Source) Run(sig shutdown.Signal) {
	s.supervisor.Run(sig)
}
