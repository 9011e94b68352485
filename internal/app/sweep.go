package app

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
)

// HistoryRetention is how long action history is kept by the sweeper.
const HistoryRetention = 90 * 24 * time.Hour

// Sweep removes expired local state and history past HistoryRetention.
// Failures are logged.
func (a *App) Sweep(ctx context.Context) {
	if n, err := a.KV.SweepExpired(ctx); err != nil {
		log.Debug().Err(err).Msg("kv sweep failed")
	} else if n > 0 {
		log.Debug().Int64("removed", n).Msg("swept expired state")
	}

	before := a.Clock.Now().Add(-HistoryRetention)
	if n, err := a.History.Prune(ctx, before); err != nil {
		log.Debug().Err(err).Msg("history prune failed")
	} else if n > 0 {
		log.Debug().Int64("removed", n).Msg("pruned action history")
	}
}

// RunSweeper sweeps once and then on every tick until ctx is cancelled.
func (a *App) RunSweeper(ctx context.Context, interval time.Duration) {
	a.Sweep(ctx)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			a.Sweep(ctx)
		}
	}
}
