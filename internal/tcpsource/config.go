// Copyright (c) 2025 Nishisan. All rights reserved.
// Use of this source code is governed by the N-Backup License (Non-Commercial Evaluation)
// that can be found in the LICENSE file.

// Package tcpsource implements the TCP ingestion core: it accepts inbound
// TCP (optionally TLS) connections from a listen address or an inherited
// socket, frames each connection's byte stream via a pluggable decoder,
// lifts decoded frames into events, writes acknowledgements back to the
// peer, and coordinates graceful connection drain on shutdown.
package tcpsource

import (
	"errors"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/hsinghkalsi/ingestcore/internal/tlsconfig"
)

// AddressKind discriminates the two Address variants.
type AddressKind int

const (
	// AddressKindSocket is a concrete host:port to bind.
	AddressKindSocket AddressKind = iota
	// AddressKindFD is an inherited socket-activation offset.
	AddressKindFD
)

// Address is the listen-address sum type: either a concrete socket address
// or an inherited file-descriptor offset (systemd socket activation).
type Address struct {
	Kind     AddressKind
	Socket   string
	FDOffset int
}

var (
	// ErrSystemdIndexFromOne is returned for "systemd#0" — systemd indices
	// are 1-based at the config boundary (offset 0 is spelled "systemd") —
	// and for any other string beginning with "systemd" that is not a valid
	// systemd reference (e.g. "systemd#x", "systemdfoo").
	ErrSystemdIndexFromOne = errors.New("tcpsource: systemd indices start from 1")
	// ErrAddressMustStartWithSystemd is returned for any string that is
	// neither a valid host:port nor begins with "systemd".
	ErrAddressMustStartWithSystemd = errors.New("tcpsource: address must start with 'systemd'")
)

// ParseAddress implements the address grammar of spec.md §6:
//
//	"host:port"    -> AddressKindSocket
//	"systemd"      -> AddressKindFD, offset 0
//	"systemd#N"    -> AddressKindFD, offset N-1 (N >= 1)
//	"systemd#0"    -> ErrSystemdIndexFromOne
//	other "systemd..." strings (bad or non-positive index) -> ErrSystemdIndexFromOne
//	anything else  -> ErrAddressMustStartWithSystemd
func ParseAddress(s string) (Address, error) {
	if s == "systemd" {
		return Address{Kind: AddressKindFD, FDOffset: 0}, nil
	}

	if rest, ok := strings.CutPrefix(s, "systemd#"); ok {
		n, err := strconv.Atoi(rest)
		if err != nil || n < 1 {
			return Address{}, ErrSystemdIndexFromOne
		}
		return Address{Kind: AddressKindFD, FDOffset: n - 1}, nil
	}

	if host, port, err := net.SplitHostPort(s); err == nil {
		if _, err := strconv.Atoi(port); err == nil {
			return Address{Kind: AddressKindSocket, Socket: net.JoinHostPort(host, port)}, nil
		}
	}

	if strings.HasPrefix(s, "systemd") {
		return Address{}, ErrSystemdIndexFromOne
	}
	return Address{}, ErrAddressMustStartWithSystemd
}

// KeepaliveConfig carries TCP keepalive tuning, following the original
// source's three-field shape (idle delay, probe interval, probe count)
// rather than a bare on/off boolean.
type KeepaliveConfig struct {
	Idle     time.Duration
	Interval time.Duration
	Retries  int
}

// DefaultShutdownTimeout is used when Config.ShutdownTimeout is zero.
const DefaultShutdownTimeout = 30 * time.Second

// Config is the immutable per-source configuration for the TCP core.
type Config struct {
	Addr Address

	Keepalive *KeepaliveConfig

	// ShutdownTimeout is the drain deadline after shutdown is signaled.
	// Zero resolves to DefaultShutdownTimeout.
	ShutdownTimeout time.Duration

	TLS *tlsconfig.Config

	// ReceiveBufferBytes optionally sets SO_RCVBUF. Zero leaves the OS
	// default.
	ReceiveBufferBytes int
	// SendBufferBytes optionally sets SO_SNDBUF, symmetric to
	// ReceiveBufferBytes (original source tunes both directions).
	SendBufferBytes int

	// EventPerLine selects the line codec (default) or the blob codec when
	// false, mirroring execsource.Config's framing choice.
	EventPerLine    bool
	EventPerLineSet bool

	// Compressed wraps the line codec in a pgzip reader when true; only
	// meaningful with the line codec.
	Compressed bool

	// MaxFrameLength bounds a single decoded frame. Zero resolves to
	// DefaultMaxFrameLength.
	MaxFrameLength int

	// DSCP optionally sets the accepted connection's IP_TOS field to the
	// named DSCP code point ("EF", "AF41", "CS5", ...). Empty disables it.
	DSCP string
}

// ShutdownTimeoutResolved resolves ShutdownTimeout, applying the default.
func (c Config) ShutdownTimeoutResolved() time.Duration {
	if c.ShutdownTimeout <= 0 {
		return DefaultShutdownTimeout
	}
	return c.ShutdownTimeout
}

// EventPerLineResolved resolves EventPerLine, applying the true default.
func (c Config) EventPerLineResolved() bool {
	if !c.EventPerLineSet {
		return true
	}
	return c.EventPerLine
}

// DefaultMaxFrameLength is used when Config.MaxFrameLength is zero.
const DefaultMaxFrameLength = 1_000_000

// MaxFrameLengthResolved resolves MaxFrameLength, applying the default.
func (c Config) MaxFrameLengthResolved() int {
	if c.MaxFrameLength <= 0 {
		return DefaultMaxFrameLength
	}
	return c.MaxFrameLength
}
