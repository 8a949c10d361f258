package serialport

import (
	"context"
	"time"
)

// Backoff is the polling reconnect policy applied between port
// acquisition attempts. Ports appear and disappear only on human
// action, so a fixed interval poll is enough; the policy is a value
// rather than a bare sleep so tests can shrink the interval and bound
// the attempts.
type Backoff struct {
	// Interval is the pause between attempts.
	Interval time.Duration
	// MaxAttempts bounds consecutive failed attempts; zero retries
	// forever.
	MaxAttempts int
}

// DefaultBackoff polls once a second, forever.
func DefaultBackoff() Backoff {
	return Backoff{Interval: time.Second}
}

// Wait pauses before attempt number attempt (1-based). It returns
// false when the attempt budget is exhausted or ctx is cancelled.
func (b Backoff) Wait(ctx context.Context, attempt int) bool {
	if b.MaxAttempts > 0 && attempt > b.MaxAttempts {
		return false
	}

	t := time.NewTimer(b.Interval)
	defer t.Stop()
	select {
	case <-t.C:
		return true
	case <-ctx.Done():
		return false
	}
}
