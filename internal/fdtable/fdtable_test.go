// Copyright (c) 2025 Nishisan. All rights reserved.
// Use of this source code is governed by the N-Backup License (Non-Commercial Evaluation)
// that can be found in the LICENSE file.

package fdtable

import "testing"

func TestEnvTableNoListenFDs(t *testing.T) {
	t.Setenv("LISTEN_FDS", "")
	t.Setenv("LISTEN_PID", "")

	tab := NewEnvTable()
	ln, ok, err := tab.Listener(0)
	if err != nil {
		t.Fatalf("Listener: %v", err)
	}
	if ok {
		t.Fatal("ok = true, want false with no LISTEN_FDS set")
	}
	if ln != nil {
		t.Fatal("expected nil listener")
	}
}

func TestEnvTableWrongPID(t *testing.T) {
	t.Setenv("LISTEN_FDS", "1")
	t.Setenv("LISTEN_PID", "1")

	tab := NewEnvTable()
	_, ok, err := tab.Listener(0)
	if err != nil {
		t.Fatalf("Listener: %v", err)
	}
	if ok {
		t.Fatal("ok = true, want false when LISTEN_PID does not match this process")
	}
}

func TestEnvTableOffsetBeyondCount(t *testing.T) {
	t.Setenv("LISTEN_FDS", "1")
	t.Setenv("LISTEN_PID", "")

	tab := NewEnvTable()
	_, ok, err := tab.Listener(3)
	if err != nil {
		t.Fatalf("Listener: %v", err)
	}
	if ok {
		t.Fatal("ok = true, want false for an offset beyond LISTEN_FDS count")
	}
}
