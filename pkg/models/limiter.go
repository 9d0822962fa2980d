package models

import (
	"context"

	"golang.org/x/time/rate"
)

// Limiter throttles calls to remote inference APIs. A nil Limiter never
// blocks.
type Limiter struct {
	limiter *rate.Limiter
}

func NewLimiter(requestsPerSecond float64, burst int) *Limiter {
	if requestsPerSecond <= 0 {
		return nil
	}
	if burst <= 0 {
		burst = 1
	}
	return &Limiter{limiter: rate.NewLimiter(rate.Limit(requestsPerSecond), burst)}
}

func (l *Limiter) Wait(ctx context.Context) error {
	if l == nil {
		return ctx.Err()
	}
	return l.limiter.Wait(ctx)
}
