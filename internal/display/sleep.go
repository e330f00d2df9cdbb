package display

import (
	"context"
	"time"
)

// Sleeper blocks for a page dwell
type Sleeper interface {
	// Sleep returns after d, or with ctx.Err() once ctx is done
	Sleep(ctx context.Context, d time.Duration) error
}

// RealSleeper sleeps on the wall clock
type RealSleeper struct{}

// Sleep implements Sleeper
func (RealSleeper) Sleep(ctx context.Context, d time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if d <= 0 {
		return nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
