package worker

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// Sweeper evicts idle sessions.
type Sweeper interface {
	Sweep() int
	Len() int
}

// RunSessionSweeper sweeps every interval until ctx is done.
func RunSessionSweeper(ctx context.Context, sessions Sweeper, interval time.Duration, logger *zap.Logger) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if evicted := sessions.Sweep(); evicted > 0 {
				logger.Info("idle sessions evicted",
					zap.Int("evicted", evicted),
					zap.Int("remaining", sessions.Len()))
			}
		}
	}
}
