// Package ratelimit paces browser actions so target applications see a
// polite, human-ish interaction rate.
package ratelimit

import (
	"context"
	"time"

	"golang.org/x/time/rate"
)

// Pacer spaces out page actions. A nil or zero-interval pacer is a
// no-op, which keeps call sites unconditional.
type Pacer struct {
	limiter *rate.Limiter
}

// NewPacer creates a pacer that allows one action per interval. A
// non-positive interval disables pacing.
func NewPacer(interval time.Duration) *Pacer {
	if interval <= 0 {
		return &Pacer{}
	}
	return &Pacer{limiter: rate.NewLimiter(rate.Every(interval), 1)}
}

// Wait blocks until the next action is allowed or the context ends.
func (p *Pacer) Wait(ctx context.Context) error {
	if p == nil || p.limiter == nil {
		return nil
	}
	return p.limiter.Wait(ctx)
}

// Allow reports whether an action may run right now without waiting.
func (p *Pacer) Allow() bool {
	if p == nil || p.limiter == nil {
		return true
	}
	return p.limiter.Allow()
}
