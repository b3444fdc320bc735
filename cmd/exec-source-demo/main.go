// Copyright (c) 2025 Nishisan. All rights reserved.
// Use of this source code is governed by the N-Backup License (Non-Commercial Evaluation)
// that can be found in the LICENSE file.

// Command exec-source-demo wires internal/execsource against a JSON-lines
// stdout sink.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/hsinghkalsi/ingestcore/internal/config"
	"github.com/hsinghkalsi/ingestcore/internal/execsource"
	"github.com/hsinghkalsi/ingestcore/internal/hostname"
	"github.com/hsinghkalsi/ingestcore/internal/logevent"
	"github.com/hsinghkalsi/ingestcore/internal/logging"
	"github.com/hsinghkalsi/ingestcore/internal/shutdown"
	"github.com/hsinghkalsi/ingestcore/internal/sink"
)

func main() {
	configPath := flag.String("config", "/etc/ingestcore/exec-source.yaml", "path to exec source config file")
	flag.Parse()

	cfg, err := config.LoadExecDemoConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	logger, emitter, logCloser := logging.NewLogger(cfg.Logging.Level, cfg.Logging.Format, "")
	defer logCloser.Close()

	execCfg, err := cfg.ToExecConfig()
	if err != nil {
		logger.Error("invalid exec config", "error", err)
		os.Exit(1)
	}

	sk := sink.NewStdout(os.Stdout)
	src, err := execsource.New(execCfg, sk, logevent.DefaultSchema{}, hostname.NewOSProvider(), emitter, logger)
	if err != nil {
		logger.Error("failed to build exec source", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGTERM, syscall.SIGINT)
	go func() {
		s := <-sigCh
		logger.Info("received signal, shutting down", "signal", s)
		cancel()
	}()

	logger.Info("exec source starting", "command", execCfg.Command, "mode", execCfg.Mode)
	src.Run(shutdown.New(ctx))
	logger.Info("exec source stopped")
}
