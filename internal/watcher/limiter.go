package watcher

import (
	"context"
	"time"

	"golang.org/x/time/rate"
)

// Limiter is a token bucket bounding how often file churn may trigger a
// full re-analysis.
type Limiter struct {
	inner *rate.Limiter
}

// NewLimiter creates a limiter allowing r rescans per second with the
// given burst size.
func NewLimiter(r float64, b int) *Limiter {
	return &Limiter{inner: rate.NewLimiter(rate.Limit(r), b)}
}

// Allow reports whether an event with weight n may happen now.
func (l *Limiter) Allow(n int) bool {
	return l.inner.AllowN(time.Now(), n)
}

// Wait blocks until n tokens are available.
func (l *Limiter) Wait(ctx context.Context, n int) error {
	return l.inner.WaitN(ctx, n)
}
