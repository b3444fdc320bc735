// Copyright (c) 2025 Nishisan. All rights reserved.
// Use of this source code is governed by the N-Backup License (Non-Commercial Evaluation)
// that can be found in the LICENSE file.

// Package fdtable implements the socket-inheritance table collaborator: it
// hands back a pre-bound listening socket by numeric offset, following the
// systemd socket-activation convention (LISTEN_FDS / LISTEN_PID / the
// well-known first-inherited-fd number 3). Adapted from the raw
// syscall-level socket access in internal/agent/dscp.go, generalized from
// "tune an existing fd" to "adopt an inherited fd".
package fdtable

import (
	"fmt"
	"net"
	"os"
	"strconv"
)

// listenFDStart is the first file descriptor number systemd guarantees for
// socket-activated services (stdin/stdout/stderr occupy 0-2).
const listenFDStart = 3

// Table returns a pre-bound listening socket by numeric offset.
type Table interface {
	// Listener adopts the inherited socket at offset as a net.Listener, or
	// reports ok=false if no such socket was inherited.
	Listener(offset int) (ln net.Listener, ok bool, err error)
}

// EnvTable reads LISTEN_FDS (and optionally LISTEN_PID) from the process
// environment, the systemd socket-activation protocol.
type EnvTable struct{}

// NewEnvTable creates an EnvTable.
func NewEnvTable() EnvTable { return EnvTable{} }

// Listener implements Table.
func (EnvTable) Listener(offset int) (net.Listener, bool, error) {
	if offset < 0 {
		return nil, false, fmt.Errorf("fdtable: negative offset %d", offset)
	}

	if pidStr := os.Getenv("LISTEN_PID"); pidStr != "" {
		pid, err := strconv.Atoi(pidStr)
		if err != nil {
			return nil, false, fmt.Errorf("fdtable: parsing LISTEN_PID: %w", err)
		}
		if pid != os.Getpid() {
			return nil, false, nil
		}
	}

	countStr := os.Getenv("LISTEN_FDS")
	if countStr == "" {
		return nil, false, nil
	}
	count, err := strconv.Atoi(countStr)
	if err != nil {
		return nil, false, fmt.Errorf("fdtable: parsing LISTEN_FDS: %w", err)
	}
	if offset >= count {
		return nil, false, nil
	}

	fd := listenFDStart + offset
	file := os.NewFile(uintptr(fd), fmt.Sprintf("listen-fd-%d", fd))
	if file == nil {
		return nil, false, fmt.Errorf("fdtable: fd %d is not valid", fd)
	}
	defer file.Close()

	ln, err := net.FileListener(file)
	if err != nil {
		return nil, false, fmt.Errorf("fdtable: adopting fd %d: %w", fd, err)
	}
	return ln, true, nil
}
