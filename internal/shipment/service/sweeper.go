package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// Refresher re-derives time-dependent state.
type Refresher interface {
	RefreshAll(ctx context.Context) error
}

// Sweeper refreshes open shipments on an interval so free-days alerts expire
// without waiting for an edit.
type Sweeper struct {
	target   Refresher
	interval time.Duration
	logger   *slog.Logger
}

func NewSweeper(target Refresher, interval time.Duration, logger *slog.Logger) (*Sweeper, error) {
	if target == nil {
		return nil, fmt.Errorf("refresher is required")
	}
	if interval <= 0 {
		return nil, fmt.Errorf("sweep interval must be positive")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Sweeper{target: target, interval: interval, logger: logger}, nil
}

// Run sweeps until ctx is cancelled.
func (w *Sweeper) Run(ctx context.Context) error {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	w.logger.InfoContext(ctx, "free-days sweeper started", "interval", w.interval)
	for {
		select {
		case <-ctx.Done():
			w.logger.InfoContext(ctx, "free-days sweeper stopped")
			return nil
		case <-ticker.C:
			if err := w.target.RefreshAll(ctx); err != nil {
				w.logger.WarnContext(ctx, "free-days sweep failed", "error", err)
			}
		}
	}
}
