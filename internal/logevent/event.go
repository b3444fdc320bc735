// Copyright (c) 2025 Nishisan. All rights reserved.
// Use of this source code is governed by the N-Backup License (Non-Commercial Evaluation)
// that can be found in the LICENSE file.

// Package logevent defines the event shape produced by both ingestion
// sources and the schema collaborator used to name its fields.
package logevent

import "time"

// Schema resolves the externally-configured field names used when building
// events. The literal fields (stream, pid, command) are not configurable.
type Schema interface {
	MessageKey() string
	TimestampKey() string
	SourceTypeKey() string
	HostKey() string
}

// DefaultSchema is the conventional field-name mapping used by the demo
// binaries and by tests; hosts embedding these sources may supply their own.
type DefaultSchema struct{}

func (DefaultSchema) MessageKey() string    { return "message" }
func (DefaultSchema) TimestampKey() string  { return "timestamp" }
func (DefaultSchema) SourceTypeKey() string { return "source_type" }
func (DefaultSchema) HostKey() string       { return "host" }

// Literal field names, not resolved through the schema.
const (
	StreamField  = "stream"
	PIDField     = "pid"
	CommandField = "command"
)

// Event is a named-field event. It is backed by a map so hosts with a
// different schema still get a well-shaped payload, but only populated
// categories are ever set — field count equals the number of populated
// categories, per the event-shape invariant.
type Event map[string]any

// Fields returns the number of populated categories in the event.
func (e Event) Fields() int {
	return len(e)
}

// Builder constructs Events against a Schema, attaching fields in the fixed
// order: message, timestamp, source_type, stream, pid, host, command.
type Builder struct {
	schema     Schema
	sourceType string
}

// NewBuilder creates a Builder for a given source_type constant (e.g. "exec").
func NewBuilder(schema Schema, sourceType string) Builder {
	if schema == nil {
		schema = DefaultSchema{}
	}
	return Builder{schema: schema, sourceType: sourceType}
}

// Options carries the optional per-event fields a caller may supply.
type Options struct {
	Stream  string
	HasPID  bool
	PID     int64
	Host    string
	HasHost bool
	Command []string
}

// Build assembles an Event from message bytes, the current time, and the
// supplied optional fields.
func (b Builder) Build(message []byte, now time.Time, opts Options) Event {
	ev := make(Event, 7)
	ev[b.schema.MessageKey()] = message
	ev[b.schema.TimestampKey()] = now.UTC()
	ev[b.schema.SourceTypeKey()] = b.sourceType

	if opts.Stream != "" {
		ev[StreamField] = opts.Stream
	}
	if opts.HasPID {
		ev[PIDField] = opts.PID
	}
	if opts.HasHost {
		ev[b.schema.HostKey()] = opts.Host
	}
	if len(opts.Command) > 0 {
		ev[CommandField] = append([]string(nil), opts.Command...)
	}

	return ev
}
