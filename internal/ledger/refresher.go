package ledger

import (
	"context"
	"time"

	"go.uber.org/zap"

	"venueRouter/internal/router"
)

// BlockhashSource reads the latest sync token.
type BlockhashSource interface {
	LatestBlockhash(ctx context.Context) (router.SyncToken, error)
}

// RefresherConfig controls how often the sync token is refreshed.
type RefresherConfig struct {
	Interval     time.Duration
	MaxRetries   int
	RetryBackoff time.Duration
}

// Refresher keeps a SyncCell current. It is the cell's only writer.
type Refresher struct {
	source BlockhashSource
	cell   *router.SyncCell
	cfg    RefresherConfig
	logger *zap.Logger
}

func NewRefresher(source BlockhashSource, cell *router.SyncCell, cfg RefresherConfig, logger *zap.Logger) *Refresher {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.Interval <= 0 {
		cfg.Interval = 2 * time.Second
	}
	return &Refresher{source: source, cell: cell, cfg: cfg, logger: logger}
}

// Refresh reads one token, retrying with backoff, and stores it.
func (r *Refresher) Refresh(ctx context.Context) error {
	var token router.SyncToken
	err := withRetry(ctx, r.cfg.MaxRetries, r.cfg.RetryBackoff, func(ctx context.Context) error {
		var err error
		token, err = r.source.LatestBlockhash(ctx)
		return err
	})
	if err != nil {
		return err
	}
	r.cell.Set(token)
	r.logger.Debug("sync token refreshed", zap.Uint64("slot", token.Slot), zap.Stringer("blockhash", token.Blockhash))
	return nil
}

// Run refreshes immediately and then on every interval until ctx ends.
// Failed refreshes keep the previous token.
func (r *Refresher) Run(ctx context.Context) error {
	ticker := time.NewTicker(r.cfg.Interval)
	defer ticker.Stop()
	for {
		if err := r.Refresh(ctx); err != nil && ctx.Err() == nil {
			r.logger.Warn("sync token refresh failed", zap.Error(err))
		}
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}
