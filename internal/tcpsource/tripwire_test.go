// Copyright (c) 2025 Nishisan. All rights reserved.
// Use of this source code is governed by the N-Backup License (Non-Commercial Evaluation)
// that can be found in the LICENSE file.

package tcpsource

import (
	"context"
	"testing"
	"time"

	"github.com/hsinghkalsi/ingestcore/internal/shutdown"
)

func TestTripwireDoesNotFireBeforeShutdown(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	sig := shutdown.New(ctx)

	tw := NewTripwire(sig, 50*time.Millisecond)

	select {
	case <-tw.Done():
		t.Fatal("tripwire fired before shutdown was even signaled")
	case <-time.After(20 * time.Millisecond):
	}
}

func TestTripwireDoesNotFireImmediatelyAfterShutdown(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	sig := shutdown.New(ctx)

	tw := NewTripwire(sig, 200*time.Millisecond)
	cancel()

	select {
	case <-tw.Done():
		t.Fatal("tripwire fired immediately on shutdown, before its timeout elapsed")
	case <-time.After(20 * time.Millisecond):
	}
}

func TestTripwireFiresAfterShutdownPlusTimeout(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	sig := shutdown.New(ctx)

	tw := NewTripwire(sig, 20*time.Millisecond)
	cancel()

	select {
	case <-tw.Done():
	case <-time.After(time.Second):
		t.Fatal("tripwire never fired after shutdown plus timeout")
	}
}
