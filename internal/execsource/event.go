// Copyright (c) 2025 Nishisan. All rights reserved.
// Use of this source code is governed by the N-Backup License (Non-Commercial Evaluation)
// that can be found in the LICENSE file.

package execsource

import (
	"time"

	"github.com/hsinghkalsi/ingestcore/internal/hostname"
	"github.com/hsinghkalsi/ingestcore/internal/logevent"
	"github.com/hsinghkalsi/ingestcore/internal/telemetry"
)

// eventBuilder attaches provenance metadata (message, timestamp, source
// type, stream, pid, host, command) to a decoded frame.
type eventBuilder struct {
	builder      logevent.Builder
	command      []string
	hostProvider hostname.Provider
	emitter      telemetry.Emitter
}

func newEventBuilder(schema logevent.Schema, command []string, hostProvider hostname.Provider, emitter telemetry.Emitter) eventBuilder {
	return eventBuilder{
		builder:      logevent.NewBuilder(schema, "exec"),
		command:      command,
		hostProvider: hostProvider,
		emitter:      emitter,
	}
}

// build constructs the event for f and emits ExecEventReceived.
func (b eventBuilder) build(f frame, pid int64, hasPID bool) logevent.Event {
	opts := logevent.Options{
		Stream:  f.stream,
		HasPID:  hasPID,
		PID:     pid,
		Command: b.command,
	}
	if b.hostProvider != nil {
		if h, ok := b.hostProvider.Hostname(); ok {
			opts.Host = h
			opts.HasHost = true
		}
	}

	ev := b.builder.Build(f.bytes, time.Now(), opts)
	b.emitter.EmitExecEventReceived(b.command, len(f.bytes))
	return ev
}
