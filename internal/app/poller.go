package app

import (
	"context"
	"log"
	"time"
)

const maxBackoff = 15 * time.Minute

// watchLoop runs batch immediately and then once per interval until ctx is
// cancelled. Consecutive failures stretch the wait. Cancellation is only
// observed between batches.
func watchLoop(ctx context.Context, interval time.Duration, batch func() error) error {
	failures := 0
	for {
		if ctx.Err() != nil {
			return ErrInterrupted
		}
		if err := batch(); err != nil {
			failures++
			log.Printf("watch batch failed (%d in a row): %v", failures, err)
		} else {
			failures = 0
		}

		timer := time.NewTimer(calculateBackoff(failures, interval))
		select {
		case <-ctx.Done():
			timer.Stop()
			return ErrInterrupted
		case <-timer.C:
		}
	}
}

// calculateBackoff doubles interval per failure, capped at maxBackoff. An
// interval already above the cap is returned unchanged.
func calculateBackoff(failures int, interval time.Duration) time.Duration {
	if failures <= 0 || interval >= maxBackoff {
		return interval
	}
	wait := interval
	for i := 0; i < failures; i++ {
		wait *= 2
		if wait >= maxBackoff {
			return maxBackoff
		}
	}
	return wait
}
