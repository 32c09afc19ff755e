// ABOUTME: Exponential backoff schedule with bounded jitter for retried backend calls
// ABOUTME: Used by the task poller between status checks
package util

import (
	"math/rand/v2"
	"time"
)

// DefaultMaxBackoff caps any single wait when Backoff.Max is unset.
const DefaultMaxBackoff = 30 * time.Second

// Backoff doubles Base per attempt up to Max, then spreads it by ±Jitter.
type Backoff struct {
	Base time.Duration
	Max  time.Duration
	// Jitter is a fraction of the delay, e.g. 0.25 for ±25%. Zero disables it.
	Jitter float64
}

// Delay is the wait before retry number attempt (1-based). Attempt 1 waits about Base.
func (b Backoff) Delay(attempt int) time.Duration {
	if attempt <= 0 || b.Base <= 0 {
		return 0
	}
	limit := b.Max
	if limit <= 0 {
		limit = DefaultMaxBackoff
	}
	d := b.Base
	for i := 1; i < attempt && d < limit; i++ {
		d *= 2
	}
	d = min(d, limit)
	if b.Jitter <= 0 {
		return d
	}
	spread := time.Duration(float64(d) * min(b.Jitter, 1))
	if spread <= 0 {
		return d
	}
	return d - spread + time.Duration(rand.Int64N(int64(2*spread)+1))
}
