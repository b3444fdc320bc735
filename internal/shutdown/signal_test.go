// Copyright (c) 2025 Nishisan. All rights reserved.
// Use of this source code is governed by the N-Backup License (Non-Commercial Evaluation)
// that can be found in the LICENSE file.

package shutdown

import (
	"context"
	"testing"
	"time"
)

func TestSignalPollAndDone(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	sig := New(ctx)

	if sig.Poll() {
		t.Fatal("Poll() reported fired before cancel")
	}

	cancel()

	if !sig.Poll() {
		t.Fatal("Poll() reported not fired after cancel")
	}

	select {
	case <-sig.Done():
	case <-time.After(time.Second):
		t.Fatal("Done() did not close after cancel")
	}
}

func TestSignalFork(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	parent := New(ctx)

	child, childCancel := parent.Fork()
	defer childCancel()

	if child.Poll() {
		t.Fatal("forked signal fired prematurely")
	}

	childCancel()
	if !child.Poll() {
		t.Fatal("forked signal did not fire after its own cancel")
	}
	if parent.Poll() {
		t.Fatal("cancelling fork must not cancel the parent")
	}
}

func TestSignalForkFiresWithParent(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	parent := New(ctx)
	child, childCancel := parent.Fork()
	defer childCancel()

	cancel()

	select {
	case <-child.Done():
	case <-time.After(time.Second):
		t.Fatal("forked signal did not fire when parent was cancelled")
	}
}
