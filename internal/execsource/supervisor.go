// Copyright (c) 2025 Nishisan. All rights reserved.
// Use of this source code is governed by the N-Backup License (Non-Commercial Evaluation)
// that can be found in the LICENSE file.

package execsource

import (
	"context"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/hsinghkalsi/ingestcore/internal/shutdown"
	"github.com/hsinghkalsi/ingestcore/internal/telemetry"
)

// Supervisor drives a Runner under Scheduled or Streaming mode.
type Supervisor struct {
	cfg     Config
	runner  *Runner
	emitter telemetry.Emitter
	logger  *slog.Logger
}

// NewSupervisor builds a Supervisor over an existing Runner.
func NewSupervisor(cfg Config, runner *Runner, emitter telemetry.Emitter, logger *slog.Logger) *Supervisor {
	return &Supervisor{cfg: cfg, runner: runner, emitter: emitter, logger: logger}
}

// Run blocks until sig fires, driving the runner per the configured mode.
func (s *Supervisor) Run(sig shutdown.Signal) {
	switch s.cfg.Mode {
	case ModeScheduled:
		s.runScheduled(sig)
	default:
		s.runStreaming(sig)
	}
}

// runScheduled runs the command on a fixed interval (or cron expression
// when configured), wrapping each invocation in a timeout equal to the
// interval. Without a cron schedule the first tick fires immediately,
// matching the interval-timer contract described in spec.md §4.E; with one,
// every run (the first included) waits for the schedule's next time.
func (s *Supervisor) runScheduled(sig shutdown.Signal) {
	interval := s.cfg.Scheduled.Interval()

	var cronSchedule cron.Schedule
	if s.cfg.Scheduled.CronSchedule != "" {
		sched, err := cron.ParseStandard(s.cfg.Scheduled.CronSchedule)
		if err != nil {
			s.logger.Error("exec supervisor: invalid cron schedule", "schedule", s.cfg.Scheduled.CronSchedule, "error", err)
			return
		}
		cronSchedule = sched
	}

	first := true
	for {
		var wait time.Duration
		switch {
		case cronSchedule != nil:
			wait = time.Until(cronSchedule.Next(time.Now()))
		case first:
			wait = 0
		default:
			wait = interval
		}
		first = false

		timer := time.NewTimer(wait)
		select {
		case <-sig.Done():
			timer.Stop()
			return
		case <-timer.C:
		}

		s.runOnceWithTimeout(sig, interval)
	}
}

func (s *Supervisor) runOnceWithTimeout(sig shutdown.Signal, timeout time.Duration) {
	runCtx, cancel := context.WithTimeout(sig.Context(), timeout)
	defer cancel()

	_, err := s.runner.Run(runCtx)
	switch {
	case err != nil:
		s.emitter.EmitExecFailed(s.cfg.Command, err)
	case runCtx.Err() == context.DeadlineExceeded:
		s.emitter.EmitExecTimeout(s.cfg.Command, timeout)
	}
}

// runStreaming supervises a single long-lived process, respawning it after
// exit per spec.md §4.E's state machine (Idle -> Running -> Cooldown -> ...).
func (s *Supervisor) runStreaming(sig shutdown.Signal) {
	if !s.cfg.Streaming.ShouldRespawn() {
		runCtx, cancel := context.WithCancel(sig.Context())
		defer cancel()
		if _, err := s.runner.Run(runCtx); err != nil {
			s.emitter.EmitExecFailed(s.cfg.Command, err)
		}
		return
	}

	for {
		if sig.Poll() {
			return
		}

		if !s.runStreamingOnce(sig) {
			return
		}
	}
}

// runStreamingOnce runs the child once, racing completion against shutdown,
// then waits out the respawn cooldown. It returns false when the caller
// should stop looping (shutdown fired).
func (s *Supervisor) runStreamingOnce(sig shutdown.Signal) bool {
	runCtx, cancel := context.WithCancel(sig.Context())
	defer cancel()

	done := make(chan struct{})
	var runErr error
	go func() {
		defer close(done)
		_, runErr = s.runner.Run(runCtx)
	}()

	select {
	case <-sig.Done():
		cancel()
		<-done
		return false
	case <-done:
	}

	if runErr != nil {
		s.emitter.EmitExecFailed(s.cfg.Command, runErr)
	}
	if !sig.Poll() {
		s.logger.Info("exec streaming process ended before shutdown", "command", s.cfg.Command)
	}

	timer := time.NewTimer(s.cfg.Streaming.RespawnInterval())
	select {
	case <-sig.Done():
		timer.Stop()
		return false
	case <-timer.C:
		return true
	}
}
