// Copyright (c) 2025 Nishisan. All rights reserved.
// Use of this source code is governed by the N-Backup License (Non-Commercial Evaluation)
// that can be found in the LICENSE file.

// Package telemetry provides the opaque event hooks the two ingestion
// sources emit as a side effect of their normal operation (spec.md §6).
// Emission is a thin structured-logging facade: this codebase has no metrics
// pipeline of its own, so every telemetry event becomes one structured log
// line, following the slog usage throughout internal/logging and
// internal/server.
package telemetry

import (
	"log/slog"
	"time"
)

// Emitter emits the named telemetry events as structured log records.
type Emitter struct {
	logger *slog.Logger
}

// NewEmitter wraps logger as an Emitter.
func NewEmitter(logger *slog.Logger) Emitter {
	return Emitter{logger: logger}
}

// EmitExecEventReceived logs ExecEventReceived{command, byte_size}.
func (e Emitter) EmitExecEventReceived(command []string, byteSize int) {
	e.logger.Debug("exec_event_received", "command", command, "byte_size", byteSize)
}

// EmitExecCommandExecuted logs ExecCommandExecuted{command, exit_status, exec_duration}.
func (e Emitter) EmitExecCommandExecuted(command []string, exitCode int, hasExitCode bool, duration time.Duration) {
	if hasExitCode {
		e.logger.Info("exec_command_executed", "command", command, "exit_status", exitCode, "exec_duration", duration)
		return
	}
	e.logger.Info("exec_command_executed", "command", command, "exit_status", nil, "exec_duration", duration)
}

// EmitExecFailed logs ExecFailed{command, error}.
func (e Emitter) EmitExecFailed(command []string, err error) {
	e.logger.Error("exec_failed", "command", command, "error", err)
}

// EmitExecTimeout logs ExecTimeout{command, elapsed_seconds}.
func (e Emitter) EmitExecTimeout(command []string, elapsed time.Duration) {
	e.logger.Warn("exec_timeout", "command", command, "elapsed_seconds", elapsed.Seconds())
}

// EmitConnectionOpen logs ConnectionOpen{count}.
func (e Emitter) EmitConnectionOpen(count int64) {
	e.logger.Debug("connection_open", "count", count)
}

// EmitTCPSocketConnectionError logs TcpSocketConnectionError{error}.
func (e Emitter) EmitTCPSocketConnectionError(err error) {
	e.logger.Warn("tcp_socket_connection_error", "error", err)
}

// EmitTCPSendAckError logs TcpSendAckError{error}.
func (e Emitter) EmitTCPSendAckError(err error) {
	e.logger.Warn("tcp_send_ack_error", "error", err)
}
