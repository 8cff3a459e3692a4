// Package resilience retries dataset connections that fail for transient
// network reasons.
package resilience

import (
	"context"
	"math/rand/v2"
	"time"

	"go.uber.org/zap"
)

// Policy controls how often and how slowly a connection attempt is retried.
type Policy struct {
	// Attempts is the total number of tries including the first. Values
	// below 1 mean a single try.
	Attempts int

	// Backoff is the delay before the first retry. It doubles per retry
	// up to MaxBackoff.
	Backoff    time.Duration
	MaxBackoff time.Duration

	// Jitter spreads each delay by up to this fraction in either direction.
	Jitter float64

	// Retryable reports whether err is worth another try. Nil means
	// IsTransient.
	Retryable func(err error) bool

	// Target names the dataset being connected to in retry logs.
	Target string
}

// ConnectPolicy is the policy used when opening database-backed datasets.
func ConnectPolicy(target string) Policy {
	return Policy{
		Attempts:   3,
		Backoff:    250 * time.Millisecond,
		MaxBackoff: 4 * time.Second,
		Jitter:     0.2,
		Target:     target,
	}
}

// Retry calls fn until it succeeds, returns a non-retryable error, the
// attempts run out or ctx is done. The last error is returned.
func Retry[T any](ctx context.Context, p Policy, fn func(ctx context.Context) (T, error)) (T, error) {
	retryable := p.Retryable
	if retryable == nil {
		retryable = IsTransient
	}
	attempts := max(p.Attempts, 1)

	var zero T
	var err error
	for attempt := 1; ; attempt++ {
		var v T
		v, err = fn(ctx)
		if err == nil {
			return v, nil
		}
		if attempt >= attempts || ctx.Err() != nil || !retryable(err) {
			return zero, err
		}

		delay := p.delay(attempt)
		zap.L().Warn("resilience: retrying connect",
			zap.String("target", p.Target),
			zap.Int("attempt", attempt),
			zap.Duration("delay", delay),
			zap.Error(err),
		)

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return zero, err
		case <-timer.C:
		}
	}
}

// delay returns the wait after the given failed attempt (1-based).
func (p Policy) delay(attempt int) time.Duration {
	d := p.Backoff << (attempt - 1)
	if p.MaxBackoff > 0 && (d > p.MaxBackoff || d <= 0) {
		d = p.MaxBackoff
	}
	if p.Jitter > 0 {
		d += time.Duration((rand.Float64()*2 - 1) * p.Jitter * float64(d))
	}
	return max(d, 0)
}
