// Package backoff implements the capped exponential reconnect delay used
// by transient-source-error handling (§7): 1 -> 2 -> 4 -> ... -> 60s. A
// golang.org/x/time/rate limiter additionally gates Wait to at most one
// attempt per second; Next itself is not rate-limited.
package backoff

import (
	"context"
	"time"

	"golang.org/x/time/rate"
)

const maxDelay = 60 * time.Second

// Backoff produces the capped exponential delay sequence for reconnect
// attempts. It is not safe for concurrent use by multiple goroutines.
type Backoff struct {
	attempt int
	limiter *rate.Limiter
}

// New returns a Backoff starting at 1s, doubling up to maxDelay.
func New() *Backoff {
	return &Backoff{
		limiter: rate.NewLimiter(rate.Every(time.Second), 1),
	}
}

// Next returns the delay for the next attempt and advances the sequence.
func (b *Backoff) Next() time.Duration {
	delay := time.Duration(1<<uint(b.attempt)) * time.Second
	if delay > maxDelay {
		delay = maxDelay
	}
	b.attempt++
	return delay
}

// Reset returns the sequence to its initial state, called after a
// successful (re)connect.
func (b *Backoff) Reset() {
	b.attempt = 0
}

// Wait blocks for Next()'s delay or until ctx is canceled, and also
// respects the limiter so callers cannot retry faster than one attempt
// per second even at attempt 0.
func (b *Backoff) Wait(ctx context.Context) error {
	if err := b.limiter.Wait(ctx); err != nil {
		return err
	}
	delay := b.Next()
	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
