// Copyright (c) 2025 Nishisan. All rights reserved.
// Use of this source code is governed by the N-Backup License (Non-Commercial Evaluation)
// that can be found in the LICENSE file.

package execsource

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"sync"
	"time"

	"github.com/hsinghkalsi/ingestcore/internal/hostname"
	"github.com/hsinghkalsi/ingestcore/internal/logevent"
	"github.com/hsinghkalsi/ingestcore/internal/sink"
	"github.com/hsinghkalsi/ingestcore/internal/telemetry"
)

// frameChannelCapacity is the bounded channel size between reader tasks and
// the runner's receive loop; it is the only intra-run backpressure
// mechanism (spec.md §9 — do not add intermediate unbounded buffers).
const frameChannelCapacity = 1024

// ExitStatus is the outcome of one child run. A signal-killed process
// (e.g. via kill-on-drop) still resolves to HasCode=true with a negative
// Code, matching os.ProcessState.ExitCode(). HasCode is false only when
// Wait itself fails to produce exit information at all — see spec.md §9's
// open question on try_wait ambiguity: this is deliberately conflated with
// "still running" rather than surfaced as a distinct error kind.
type ExitStatus struct {
	Code    int
	HasCode bool
}

// Runner spawns one child process, drains its stdout/stderr into events,
// forwards them downstream, and awaits exit. The child is killed whenever
// the context passed to Run is canceled, for any reason (kill-on-drop).
type Runner struct {
	cfg          Config
	sink         sink.Sink
	emitter      telemetry.Emitter
	hostProvider hostname.Provider
	schema       logevent.Schema
	logger       *slog.Logger
}

// NewRunner builds a Runner for cfg. schema and hostProvider may be nil;
// logevent.DefaultSchema and no host field are used respectively.
func NewRunner(cfg Config, sk sink.Sink, emitter telemetry.Emitter, hostProvider hostname.Provider, schema logevent.Schema, logger *slog.Logger) *Runner {
	return &Runner{
		cfg:          cfg,
		sink:         sk,
		emitter:      emitter,
		hostProvider: hostProvider,
		schema:       schema,
		logger:       logger,
	}
}

// Run executes one child invocation to completion. It returns a non-nil
// error only for spawn/stdio-attach failures (spec.md §4.D); once the child
// has started, Run always returns (ExitStatus, nil) — a non-zero exit code
// is telemetry, not an error. Canceling ctx kills the child.
func (r *Runner) Run(ctx context.Context) (ExitStatus, error) {
	cmd := exec.CommandContext(ctx, r.cfg.Command[0], r.cfg.Command[1:]...)
	if r.cfg.WorkingDirectory != "" {
		cmd.Dir = r.cfg.WorkingDirectory
	}
	env := []string{}
	if !r.cfg.ClearEnvironment {
		env = append(env, os.Environ()...)
	}
	for k, v := range r.cfg.Environment {
		env = append(env, k+"="+v)
	}
	cmd.Env = env

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return ExitStatus{}, fmt.Errorf("%w: stdout: %v", ErrMissingStdio, err)
	}

	includeStderr := r.cfg.IncludeStderrResolved()
	var stderr io.Reader
	if includeStderr {
		sp, err := cmd.StderrPipe()
		if err != nil {
			return ExitStatus{}, fmt.Errorf("%w: stderr: %v", ErrMissingStdio, err)
		}
		stderr = sp
	}

	start := time.Now()
	if err := cmd.Start(); err != nil {
		return ExitStatus{}, fmt.Errorf("execsource: spawn failed: %w", err)
	}

	pid := int64(cmd.Process.Pid)
	eventPerLine := r.cfg.EventPerLineResolved()
	maxLength := r.cfg.MaximumBufferSize()

	ch := make(chan frame, frameChannelCapacity)
	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		runReaderTask(ctx, stdout, eventPerLine, maxLength, "stdout", ch, r.logger)
	}()

	if includeStderr {
		wg.Add(1)
		go func() {
			defer wg.Done()
			runReaderTask(ctx, stderr, eventPerLine, maxLength, "stderr", ch, r.logger)
		}()
	}

	go func() {
		wg.Wait()
		close(ch)
	}()

	builder := newEventBuilder(r.schema, r.cfg.Command, r.hostProvider, r.emitter)
	sendCtx := context.Background()

	for f := range ch {
		ev := builder.build(f, pid, true)
		if err := r.sink.Send(sendCtx, ev); err != nil {
			if errors.Is(err, sink.ErrClosed) {
				r.logger.Warn("exec sink closed, dropping event", "error", err)
			} else {
				r.logger.Warn("exec sink send failed", "error", err)
			}
			continue
		}
	}

	exitStatus := waitExitStatus(cmd, pid, r.logger)
	r.emitter.EmitExecCommandExecuted(r.cfg.Command, exitStatus.Code, exitStatus.HasCode, time.Since(start))

	if err := r.sink.Flush(sendCtx); err != nil {
		r.logger.Warn("exec sink flush failed", "error", err)
	}

	return exitStatus, nil
}

// waitExitStatus reaps cmd and resolves its exit status. By the time the
// frame channel has closed both pipes have hit EOF, so Wait returns
// promptly; it stands in for the non-blocking try_wait of the source
// design (spec.md §9 open question). When Wait fails without producing an
// *exec.ExitError, the outcome is ambiguous: the process may genuinely be
// gone with no recoverable status, or the reap may have raced a still-alive
// child. ProcessAlive disambiguates which warning to log; HasCode is false
// either way, since neither case yields a usable exit code.
func waitExitStatus(cmd *exec.Cmd, pid int64, logger *slog.Logger) ExitStatus {
	err := cmd.Wait()
	if err == nil {
		return ExitStatus{Code: 0, HasCode: true}
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return ExitStatus{Code: exitErr.ExitCode(), HasCode: true}
	}
	if hostname.ProcessAlive(int32(pid)) {
		logger.Warn("exec wait failed but process still appears alive", "pid", pid, "error", err)
	} else {
		logger.Warn("exec wait failed, exit status unavailable", "pid", pid, "error", err)
	}
	return ExitStatus{}
}
