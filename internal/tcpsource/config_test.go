// Copyright (c) 2025 Nishisan. All rights reserved.
// Use of this source code is governed by the N-Backup License (Non-Commercial Evaluation)
// that can be found in the LICENSE file.

package tcpsource

import (
	"errors"
	"testing"
)

func TestParseAddressConcreteSocket(t *testing.T) {
	addr, err := ParseAddress("127.1.2.3:1234")
	if err != nil {
		t.Fatalf("ParseAddress: %v", err)
	}
	if addr.Kind != AddressKindSocket {
		t.Fatalf("Kind = %v, want AddressKindSocket", addr.Kind)
	}
	if addr.Socket != "127.1.2.3:1234" {
		t.Fatalf("Socket = %q, want 127.1.2.3:1234", addr.Socket)
	}
}

func TestParseAddressSystemdBare(t *testing.T) {
	addr, err := ParseAddress("systemd")
	if err != nil {
		t.Fatalf("ParseAddress: %v", err)
	}
	if addr.Kind != AddressKindFD || addr.FDOffset != 0 {
		t.Fatalf("addr = %+v, want FD offset 0", addr)
	}
}

func TestParseAddressSystemdIndexed(t *testing.T) {
	addr, err := ParseAddress("systemd#3")
	if err != nil {
		t.Fatalf("ParseAddress: %v", err)
	}
	if addr.Kind != AddressKindFD || addr.FDOffset != 2 {
		t.Fatalf("addr = %+v, want FD offset 2", addr)
	}
}

func TestParseAddressSystemdZeroRejected(t *testing.T) {
	_, err := ParseAddress("systemd#0")
	if !errors.Is(err, ErrSystemdIndexFromOne) {
		t.Fatalf("err = %v, want ErrSystemdIndexFromOne", err)
	}
}

func TestParseAddressGarbageRejected(t *testing.T) {
	_, err := ParseAddress("http://x")
	if !errors.Is(err, ErrAddressMustStartWithSystemd) {
		t.Fatalf("err = %v, want ErrAddressMustStartWithSystemd", err)
	}
}

func TestParseAddressSystemdIndexRoundTrip(t *testing.T) {
	for n := 1; n <= 5; n++ {
		s := "systemd#" + string(rune('0'+n))
		addr, err := ParseAddress(s)
		if err != nil {
			t.Fatalf("ParseAddress(%q): %v", s, err)
		}
		if addr.Kind != AddressKindFD || addr.FDOffset != n-1 {
			t.Fatalf("ParseAddress(%q) = %+v, want offset %d", s, addr, n-1)
		}
	}
}

func TestShutdownTimeoutResolvedDefault(t *testing.T) {
	c := Config{}
	if got := c.ShutdownTimeoutResolved(); got != DefaultShutdownTimeout {
		t.Fatalf("ShutdownTimeoutResolved() = %v, want %v", got, DefaultShutdownTimeout)
	}
}

func TestMaxFrameLengthResolvedDefault(t *testing.T) {
	c := Config{}
	if got := c.MaxFrameLengthResolved(); got != DefaultMaxFrameLength {
		t.Fatalf("MaxFrameLengthResolved() = %d, want %d", got, DefaultMaxFrameLength)
	}
}
