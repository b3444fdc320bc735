// Copyright (c) 2025 Nishisan. All rights reserved.
// Use of this source code is governed by the N-Backup License (Non-Commercial Evaluation)
// that can be found in the LICENSE file.

// Package backoff paces retries with golang.org/x/time/rate instead of a
// hand-rolled exponential ramp, adapted from the token-bucket shape of
// internal/agent/throttle.go's ThrottledWriter (construct-with-bypass,
// Wait-blocks-respecting-the-rate).
package backoff

import (
	"context"
	"time"

	"golang.org/x/time/rate"
)

// Limiter paces repeated attempts (the TCP supervisor's accept-loop error
// retries) so a persistently failing operation cannot spin hot.
type Limiter struct {
	limiter *rate.Limiter
}

// NewLimiter creates a Limiter allowing at most one event per interval, with
// a burst of one (the first attempt is never delayed). An interval <= 0
// disables pacing: Wait always returns immediately.
func NewLimiter(interval time.Duration) *Limiter {
	if interval <= 0 {
		return &Limiter{}
	}
	return &Limiter{limiter: rate.NewLimiter(rate.Every(interval), 1)}
}

// Wait blocks until the next attempt is allowed, or ctx is cancelled.
func (l *Limiter) Wait(ctx context.Context) error {
	if l.limiter == nil {
		return nil
	}
	return l.limiter.Wait(ctx)
}
