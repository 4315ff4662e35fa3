package app

import (
	"context"
	"time"
)

// StartSweep periodically removes expired KV entries. It blocks until ctx is
// cancelled.
func (a *App) StartSweep(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := a.KV.SweepExpired(ctx); err != nil {
				a.log.Debug().Err(err).Msg("kv sweep failed")
			}
		}
	}
}
