// Copyright (c) 2025 Nishisan. All rights reserved.
// Use of this source code is governed by the N-Backup License (Non-Commercial Evaluation)
// that can be found in the LICENSE file.

// Package execsource implements the EXEC ingestion core: it spawns an
// external process, captures its stdout (and optionally stderr) as a lazy
// stream of log events, attaches provenance metadata, and forwards events
// downstream under a shutdown and backpressure discipline.
package execsource

import (
	"errors"
	"time"
)

// Mode selects between the two exec operating modes.
type Mode int

const (
	// ModeScheduled runs the command on a fixed interval with a per-run
	// timeout.
	ModeScheduled Mode = iota
	// ModeStreaming supervises a single long-lived process with optional
	// respawn.
	ModeStreaming
)

// ScheduledConfig configures ModeScheduled.
type ScheduledConfig struct {
	// ExecIntervalSecs is the fixed tick period. Zero means the default (60).
	ExecIntervalSecs uint

	// CronSchedule, if set, drives ticks via a robfig/cron expression
	// instead of a fixed interval, taking precedence over ExecIntervalSecs.
	CronSchedule string
}

// DefaultExecIntervalSecs is used when ScheduledConfig.ExecIntervalSecs is 0.
const DefaultExecIntervalSecs = 60

// Interval returns the resolved tick period, applying the default.
func (c ScheduledConfig) Interval() time.Duration {
	secs := c.ExecIntervalSecs
	if secs == 0 {
		secs = DefaultExecIntervalSecs
	}
	return time.Duration(secs) * time.Second
}

// StreamingConfig configures ModeStreaming.
type StreamingConfig struct {
	// RespawnOnExit respawns the child after it exits. Defaults to true;
	// callers that want false must set RespawnOnExitSet.
	RespawnOnExit    bool
	RespawnOnExitSet bool

	// RespawnIntervalSecs is the cooldown between respawns. Zero means the
	// default (5).
	RespawnIntervalSecs uint
}

// DefaultRespawnIntervalSecs is used when StreamingConfig.RespawnIntervalSecs is 0.
const DefaultRespawnIntervalSecs = 5

// ShouldRespawn resolves RespawnOnExit, applying the true default.
func (c StreamingConfig) ShouldRespawn() bool {
	if !c.RespawnOnExitSet {
		return true
	}
	return c.RespawnOnExit
}

// RespawnInterval returns the resolved cooldown, applying the default.
func (c StreamingConfig) RespawnInterval() time.Duration {
	secs := c.RespawnIntervalSecs
	if secs == 0 {
		secs = DefaultRespawnIntervalSecs
	}
	return time.Duration(secs) * time.Second
}

// DefaultMaximumBufferSizeBytes is used when Config.MaximumBufferSizeBytes is 0.
const DefaultMaximumBufferSizeBytes = 1_000_000

// Config is the immutable per-source configuration for the EXEC core.
type Config struct {
	Mode Mode

	Scheduled ScheduledConfig
	Streaming StreamingConfig

	// Command is the non-empty ordered sequence of strings: element 0 is
	// the executable, the remainder are arguments.
	Command []string

	WorkingDirectory string

	// IncludeStderr defaults to true; set IncludeStderrSet to override with
	// IncludeStderr=false.
	IncludeStderr    bool
	IncludeStderrSet bool

	// EventPerLine selects the line codec when true (default) or the blob
	// codec when false via EventPerLineSet.
	EventPerLine    bool
	EventPerLineSet bool

	// MaximumBufferSizeBytes defaults to 1,000,000 when MaximumBufferSizeBytesSet
	// is false. When set explicitly, it must be > 0 (enforced by Validate).
	MaximumBufferSizeBytes    uint
	MaximumBufferSizeBytesSet bool

	// Environment and ClearEnvironment give explicit control over the
	// child's environment, supplementing spec.md's "environment is
	// inherited" default (original_source's CommandBuilder exposes the
	// same knobs).
	Environment      map[string]string
	ClearEnvironment bool
}

var (
	// ErrEmptyCommand is a ConfigValidation error: command must be non-empty.
	ErrEmptyCommand = errors.New("execsource: command must not be empty")
	// ErrZeroBufferSize is a ConfigValidation error: maximum_buffer_size_bytes must be > 0.
	ErrZeroBufferSize = errors.New("execsource: maximum_buffer_size_bytes must be greater than zero")
)

// IncludeStderrResolved resolves IncludeStderr, applying the true default.
func (c Config) IncludeStderrResolved() bool {
	if !c.IncludeStderrSet {
		return true
	}
	return c.IncludeStderr
}

// EventPerLineResolved resolves EventPerLine, applying the true default.
func (c Config) EventPerLineResolved() bool {
	if !c.EventPerLineSet {
		return true
	}
	return c.EventPerLine
}

// MaximumBufferSize resolves MaximumBufferSizeBytes, applying the default.
func (c Config) MaximumBufferSize() int {
	if !c.MaximumBufferSizeBytesSet {
		return DefaultMaximumBufferSizeBytes
	}
	return int(c.MaximumBufferSizeBytes)
}

// Validate checks the invariants from spec.md §3.
func (c Config) Validate() error {
	if len(c.Command) == 0 {
		return ErrEmptyCommand
	}
	if c.MaximumBufferSizeBytesSet && c.MaximumBufferSizeBytes == 0 {
		return ErrZeroBufferSize
	}
	return nil
}
