// Copyright (c) 2025 Nishisan. All rights reserved.
// Use of this source code is governed by the N-Backup License (Non-Commercial Evaluation)
// that can be found in the LICENSE file.

package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"info":    slog.LevelInfo,
		"":        slog.LevelInfo,
		"warn":    slog.LevelWarn,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"bogus":   slog.LevelInfo,
	}
	for in, want := range cases {
		if got := parseLevel(in); got != want {
			t.Errorf("parseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestNewLoggerReturnsUsableLoggerAndEmitter(t *testing.T) {
	logger, emitter, closer := NewLogger("info", "json", "")
	defer closer.Close()

	if logger == nil {
		t.Fatal("expected non-nil logger")
	}
	// emitter shares logger's handler; exercising it must not panic and
	// must not require a separate construction step at the call site.
	emitter.EmitExecFailed([]string{"/bin/true"}, os.ErrClosed)
}

func TestNewLoggerUnknownFormatFallsBackToJSON(t *testing.T) {
	logger, _, closer := NewLogger("info", "unknown", "")
	defer closer.Close()
	if logger == nil {
		t.Fatal("expected non-nil logger for an unrecognized format")
	}
	logger.Info("probe")
}

func TestNewLoggerWritesToFileAndStdout(t *testing.T) {
	dir := t.TempDir()
	logFile := filepath.Join(dir, "out.log")

	logger, _, closer := NewLogger("info", "json", logFile)
	logger.Info("hello", "n", 1)
	closer.Close()

	data, err := os.ReadFile(logFile)
	if err != nil {
		t.Fatalf("reading log file: %v", err)
	}

	var rec map[string]any
	if err := json.Unmarshal(bytes.TrimSpace(data), &rec); err != nil {
		t.Fatalf("log file line is not valid JSON: %v (content: %s)", err, data)
	}
	if rec["msg"] != "hello" {
		t.Errorf("msg = %v, want %q", rec["msg"], "hello")
	}
	if rec["n"] != float64(1) {
		t.Errorf("n = %v, want 1", rec["n"])
	}
}

func TestNewLoggerInvalidFilePathFallsBackToStdoutOnly(t *testing.T) {
	logger, _, closer := NewLogger("info", "json", "/nonexistent/dir/out.log")
	defer closer.Close()

	if logger == nil {
		t.Fatal("expected non-nil logger even with an unwritable file path")
	}
	// Must not panic; there is no file handle behind closer in this case.
	logger.Info("still works")
}

func TestNewLoggerEmptyFilePathClosesAsNoop(t *testing.T) {
	_, _, closer := NewLogger("debug", "text", "")
	if err := closer.Close(); err != nil {
		t.Fatalf("no-op closer returned an error: %v", err)
	}
}
