// Copyright (c) 2025 Nishisan. All rights reserved.
// Use of this source code is governed by the N-Backup License (Non-Commercial Evaluation)
// that can be found in the LICENSE file.

package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/hsinghkalsi/ingestcore/internal/telemetry"
)

// NewLogger builds the slog.Logger and telemetry.Emitter a demo binary
// shares for its whole run: every telemetry event a source emits lands on
// the same handler as its ordinary log lines, so an operator tailing one
// log stream sees both. Supported formats: "json" (default) and "text".
// Supported levels: "debug", "info" (default), "warn", "error". If filePath
// is non-empty, logs are written to stdout and the file (MultiWriter). The
// returned io.Closer must be called on shutdown to close the file; it is a
// no-op when filePath is empty.
func NewLogger(level, format, filePath string) (*slog.Logger, telemetry.Emitter, io.Closer) {
	lvl := parseLevel(level)
	opts := &slog.HandlerOptions{Level: lvl}

	var w io.Writer = os.Stdout
	var closer io.Closer = io.NopCloser(strings.NewReader(""))

	if filePath != "" {
		f, err := os.OpenFile(filePath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			// Could not open the log file: fall back to stdout only.
			fmt.Fprintf(os.Stderr, "WARNING: could not open log file %q: %v (logging to stdout only)\n", filePath, err)
		} else {
			w = io.MultiWriter(os.Stdout, f)
			closer = f
		}
	}

	var handler slog.Handler
	switch strings.ToLower(format) {
	case "text":
		handler = slog.NewTextHandler(w, opts)
	default:
		handler = slog.NewJSONHandler(w, opts)
	}

	logger := slog.New(handler)
	return logger, telemetry.NewEmitter(logger), closer
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
