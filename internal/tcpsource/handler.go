// Copyright (c) 2025 Nishisan. All rights reserved.
// Use of this source code is governed by the N-Backup License (Non-Commercial Evaluation)
// that can be found in the LICENSE file.

package tcpsource

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net"

	"github.com/hsinghkalsi/ingestcore/internal/shutdown"
	"github.com/hsinghkalsi/ingestcore/internal/sink"
	"github.com/hsinghkalsi/ingestcore/internal/telemetry"
	"github.com/hsinghkalsi/ingestcore/internal/tlsconfig"
)

// handlerDeps bundles the per-connection collaborators: the capability
// table spec.md §9 asks for (decoder factory, event lifter) supplied
// explicitly instead of a deep type hierarchy.
type handlerDeps struct {
	binder  tlsconfig.Binder
	factory DecoderFactory
	lifter  EventLifter
	sink    sink.Sink
	emitter telemetry.Emitter
	logger  *slog.Logger
	cfg     Config
}

type decodeResult struct {
	item     []byte
	byteSize int
	err      error
}

// handleConnection runs one connection's full lifecycle: handshake, socket
// tuning, framed read loop, and ack writing (spec.md §4.G). The gauge token
// is released on return by the caller.
func handleConnection(sig shutdown.Signal, rawConn net.Conn, tripwire *Tripwire, deps handlerDeps) {
	host := rawConn.RemoteAddr().String()
	logger := deps.logger.With("remote", host)

	conn, ok := handshake(sig, rawConn, deps.binder, deps.emitter, logger)
	if !ok {
		return
	}
	defer conn.Close()

	tuneSocket(rawConn, deps.cfg, logger)

	decoder := deps.factory.NewDecoder(conn)
	decodeCh := make(chan decodeResult)
	stopPump := make(chan struct{})
	defer close(stopPump)
	go pumpDecoder(decoder, decodeCh, stopPump)

	runReadLoop(sig, conn, tripwire, decoder, decodeCh, host, deps, logger)
}

// handshake races the TLS (or identity) handshake against shutdown. It
// returns ok=false if the connection should be abandoned without serving.
func handshake(sig shutdown.Signal, rawConn net.Conn, binder tlsconfig.Binder, emitter telemetry.Emitter, logger *slog.Logger) (net.Conn, bool) {
	type result struct {
		conn net.Conn
		err  error
	}
	resCh := make(chan result, 1)
	go func() {
		c, err := binder.Handshake(sig.Context(), rawConn)
		resCh <- result{conn: c, err: err}
	}()

	select {
	case <-sig.Done():
		rawConn.Close()
		return nil, false
	case res := <-resCh:
		if res.err != nil {
			emitter.EmitTCPSocketConnectionError(res.err)
			rawConn.Close()
			return nil, false
		}
		return res.conn, true
	}
}

// tuneSocket applies best-effort keepalive, buffer-size and DSCP tuning to
// the underlying TCP connection. Failures are warnings, never fatal.
func tuneSocket(rawConn net.Conn, cfg Config, logger *slog.Logger) {
	// A TLS listener hands out *tls.Conn; tune the TCP connection beneath it.
	if wrapped, ok := rawConn.(interface{ NetConn() net.Conn }); ok {
		rawConn = wrapped.NetConn()
	}
	tcpConn, ok := rawConn.(*net.TCPConn)
	if !ok {
		return
	}

	if cfg.Keepalive != nil {
		if err := tcpConn.SetKeepAliveConfig(net.KeepAliveConfig{
			Enable:   true,
			Idle:     cfg.Keepalive.Idle,
			Interval: cfg.Keepalive.Interval,
			Count:    cfg.Keepalive.Retries,
		}); err != nil {
			logger.Warn("tcp keepalive tuning failed", "error", err)
		}
	}

	if cfg.ReceiveBufferBytes > 0 {
		if err := tcpConn.SetReadBuffer(cfg.ReceiveBufferBytes); err != nil {
			logger.Warn("tcp SO_RCVBUF tuning failed", "error", err)
		}
	}
	if cfg.SendBufferBytes > 0 {
		if err := tcpConn.SetWriteBuffer(cfg.SendBufferBytes); err != nil {
			logger.Warn("tcp SO_SNDBUF tuning failed", "error", err)
		}
	}

	if cfg.DSCP != "" {
		dscp, err := ParseDSCP(cfg.DSCP)
		if err != nil {
			logger.Warn("tcp dscp config invalid", "error", err)
		} else if err := applyDSCP(tcpConn, dscp); err != nil {
			logger.Warn("tcp dscp tuning failed", "error", err)
		}
	}
}

// pumpDecoder drives decoder.Next() in a loop, relaying every result
// (including recoverable errors) until io.EOF or stop fires. This keeps the
// blocking decode call off the handler's select loop.
func pumpDecoder(decoder Decoder, out chan<- decodeResult, stop <-chan struct{}) {
	for {
		item, n, err := decoder.Next()
		select {
		case out <- decodeResult{item: item, byteSize: n, err: err}:
		case <-stop:
			return
		}
		if errors.Is(err, io.EOF) {
			return
		}
	}
}

type halfCloser interface {
	CloseWrite() error
}

// runReadLoop implements spec.md §4.G step 3: select among the drain
// tripwire, the shutdown signal (write-half shutdown, then keep reading),
// and the next decoded frame.
func runReadLoop(sig shutdown.Signal, conn net.Conn, tripwire *Tripwire, decoder Decoder, decodeCh <-chan decodeResult, host string, deps handlerDeps, logger *slog.Logger) {
	sendCtx := context.Background()
	shutdownCh := sig.Done()

	for {
		select {
		case <-tripwire.Done():
			return

		case <-shutdownCh:
			if hc, ok := conn.(halfCloser); ok {
				if err := hc.CloseWrite(); err != nil {
					logger.Warn("tcp write-half shutdown failed", "error", err)
				}
			}
			shutdownCh = nil // disabled: keep reading until EOF or tripwire

		case res, chOK := <-decodeCh:
			if !chOK {
				return
			}
			if res.err != nil {
				if errors.Is(res.err, io.EOF) {
					return
				}
				if !decoder.CanContinue(res.err) {
					logger.Warn("tcp decode error, closing connection", "error", res.err)
					return
				}
				logger.Warn("tcp decode error, continuing", "error", res.err)
				continue
			}

			events := deps.lifter.Lift(res.item, host, res.byteSize)
			sent := true
			for _, ev := range events {
				if err := deps.sink.Send(sendCtx, ev); err != nil {
					logger.Warn("tcp sink send failed", "error", err)
					sent = false
					break
				}
			}
			if !sent {
				return
			}

			if ack := deps.lifter.BuildAck(res.item); len(ack) > 0 {
				if _, err := conn.Write(ack); err != nil {
					deps.emitter.EmitTCPSendAckError(err)
					return
				}
			}
		}
	}
}
