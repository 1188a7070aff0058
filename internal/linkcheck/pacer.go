package linkcheck

import (
	"context"
	"time"

	"golang.org/x/time/rate"
)

// Pacer spaces out consecutive link checks.
type Pacer interface {
	Wait(ctx context.Context, d time.Duration)
}

// RatePacer holds each caller for a full d measured from the call, or until
// ctx is done. A fresh single-token limiter is drained on entry so time spent
// in the previous check never shortens the gap.
type RatePacer struct{}

func (RatePacer) Wait(ctx context.Context, d time.Duration) {
	if d <= 0 {
		return
	}
	limiter := rate.NewLimiter(rate.Every(d), 1)
	limiter.Allow()
	// An error means ctx ended first or its deadline falls inside the gap.
	_ = limiter.Wait(ctx)
}
