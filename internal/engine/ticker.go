package engine

import (
	"context"
	"errors"
	"time"

	"golang.org/x/time/rate"
)

// ErrTicksExhausted is returned by a counted source after its last tick.
var ErrTicksExhausted = errors.New("engine: tick source exhausted")

// TickSource paces animation cycles. Next blocks until the next cycle may
// run or ctx is done.
type TickSource interface {
	Next(ctx context.Context) error
}

// RateTicker releases at most fps ticks per second.
type RateTicker struct {
	lim *rate.Limiter
}

// NewRateTicker creates a ticker for the given frame rate. Rates below one
// are raised to one.
func NewRateTicker(fps int) *RateTicker {
	if fps < 1 {
		fps = 1
	}
	return &RateTicker{lim: rate.NewLimiter(rate.Limit(fps), 1)}
}

// Next blocks until the limiter releases a tick or ctx is done.
func (t *RateTicker) Next(ctx context.Context) error {
	r := t.lim.Reserve()
	delay := r.Delay()
	if delay == 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(delay)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		r.Cancel()
		return ctx.Err()
	}
}

type countedTicker struct {
	src  TickSource
	left int
}

// CountedTicker passes through n ticks from src and then reports
// ErrTicksExhausted. A nil src ticks immediately.
func CountedTicker(src TickSource, n int) TickSource {
	return &countedTicker{src: src, left: n}
}

func (c *countedTicker) Next(ctx context.Context) error {
	if c.left <= 0 {
		return ErrTicksExhausted
	}
	c.left--
	if c.src == nil {
		return ctx.Err()
	}
	return c.src.Next(ctx)
}
