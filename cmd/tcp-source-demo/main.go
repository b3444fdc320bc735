// Copyright (c) 2025 Nishisan. All rights reserved.
// Use of this source code is governed by the N-Backup License (Non-Commercial Evaluation)
// that can be found in the LICENSE file.

// Command tcp-source-demo wires internal/tcpsource against a JSON-lines
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
	"github.com/hsinghkalsi/ingestcore/internal/logevent"
	"github.com/hsinghkalsi/ingestcore/internal/logging"
	"github.com/hsinghkalsi/ingestcore/internal/shutdown"
	"github.com/hsinghkalsi/ingestcore/internal/sink"
	"github.com/hsinghkalsi/ingestcore/internal/tcpsource"
)

func main() {
	configPath := flag.String("config", "/etc/ingestcore/tcp-source.yaml", "path to tcp source config file")
	flag.Parse()

	cfg, err := config.LoadTCPDemoConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	logger, emitter, logCloser := logging.NewLogger(cfg.Logging.Level, cfg.Logging.Format, "")
	defer logCloser.Close()

	tcpCfg, err := cfg.ToTCPConfig()
	if err != nil {
		logger.Error("invalid tcp config", "error", err)
		os.Exit(1)
	}

	sk := sink.NewStdout(os.Stdout)
	src, err := tcpsource.New(tcpCfg, sk, logevent.DefaultSchema{}, nil, emitter, logger)
	if err != nil {
		logger.Error("failed to build tcp source", "error", err)
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

	logger.Info("tcp source starting", "address", tcpCfg.Addr)
	src.Run(shutdown.New(ctx))
	logger.Info("tcp source stopped")
}
