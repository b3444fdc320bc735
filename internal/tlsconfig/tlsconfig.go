// Copyright (c) 2025 Nishisan. All rights reserved.
// Use of this source code is governed by the N-Backup License (Non-Commercial Evaluation)
// that can be found in the LICENSE file.

// Package tlsconfig is the TLS settings collaborator: it binds/wraps
// listening sockets and performs handshakes. Adapted from the
// certificate-loading idiom used for the mandatory mutual-TLS backup
// protocol, generalized to the optional, server-auth-only-by-default TCP
// source TLS.
package tlsconfig

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"fmt"
	"net"
	"os"
)

// Config describes the TLS settings for a listening TCP source. A nil
// *Config (or Enabled == false) means plain TCP.
type Config struct {
	Enabled bool

	CertPath string
	KeyPath  string

	// CACertPath, if set, enables mutual TLS: incoming connections must
	// present a certificate verified against this CA.
	CACertPath string
}

// Binder binds a listening socket (optionally TLS-wrapped) and performs the
// handshake on accepted connections.
type Binder interface {
	Bind(ctx context.Context, addr string) (net.Listener, error)
	Handshake(ctx context.Context, conn net.Conn) (net.Conn, error)
}

// plainBinder implements Binder for plain TCP: Bind uses net.Listen and
// Handshake is a no-op identity function.
type plainBinder struct{}

func (plainBinder) Bind(_ context.Context, addr string) (net.Listener, error) {
	return net.Listen("tcp", addr)
}

func (plainBinder) Handshake(_ context.Context, conn net.Conn) (net.Conn, error) {
	return conn, nil
}

// tlsBinder implements Binder over crypto/tls.
type tlsBinder struct {
	cfg *tls.Config
}

func (b tlsBinder) Bind(_ context.Context, addr string) (net.Listener, error) {
	return tls.Listen("tcp", addr, b.cfg)
}

func (b tlsBinder) Handshake(ctx context.Context, conn net.Conn) (net.Conn, error) {
	tlsConn, ok := conn.(*tls.Conn)
	if !ok {
		// conn was obtained from a plain listener (e.g. an inherited fd);
		// wrap it for the handshake.
		tlsConn = tls.Server(conn, b.cfg)
	}
	if err := tlsConn.HandshakeContext(ctx); err != nil {
		return nil, fmt.Errorf("tlsconfig: handshake: %w", err)
	}
	return tlsConn, nil
}

// WrapListener wraps an already-bound listener (e.g. one adopted from an
// inherited file descriptor) with TLS per cfg. A nil or disabled cfg
// returns ln unchanged.
func WrapListener(ln net.Listener, cfg *Config) (net.Listener, error) {
	if cfg == nil || !cfg.Enabled {
		return ln, nil
	}
	binder, err := NewBinder(cfg)
	if err != nil {
		return nil, err
	}
	tb, ok := binder.(tlsBinder)
	if !ok {
		return ln, nil
	}
	return tls.NewListener(ln, tb.cfg), nil
}

// NewBinder builds a Binder from cfg. A nil cfg or a disabled cfg yields a
// plain-TCP Binder whose Handshake is the identity function, so callers can
// always race "handshake" against shutdown uniformly (spec.md §4.G step 1).
func NewBinder(cfg *Config) (Binder, error) {
	if cfg == nil || !cfg.Enabled {
		return plainBinder{}, nil
	}

	cert, err := tls.LoadX509KeyPair(cfg.CertPath, cfg.KeyPath)
	if err != nil {
		return nil, fmt.Errorf("tlsconfig: loading server certificate: %w", err)
	}

	tlsCfg := &tls.Config{
		MinVersion:   tls.VersionTLS13,
		Certificates: []tls.Certificate{cert},
	}

	if cfg.CACertPath != "" {
		pool, err := loadCACertPool(cfg.CACertPath)
		if err != nil {
			return nil, err
		}
		tlsCfg.ClientCAs = pool
		tlsCfg.ClientAuth = tls.RequireAndVerifyClientCert
	}

	return tlsBinder{cfg: tlsCfg}, nil
}

func loadCACertPool(path string) (*x509.CertPool, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("tlsconfig: reading CA certificate: %w", err)
	}
	pool := x509.NewCertPool()
	if !pool.AppendCertsFromPEM(raw) {
		return nil, fmt.Errorf("tlsconfig: failed to parse CA certificate from %s", path)
	}
	return pool, nil
}
