package repository

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// SweepTokens prunes tokens idle for longer than ttl every interval until
// ctx is done. A failed prune is logged and retried on the next tick.
func SweepTokens(ctx context.Context, tokens TokenRepositoryInterface, ttl, interval time.Duration, logger *zap.Logger) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			n, err := tokens.Prune(ctx, now.Add(-ttl))
			if err != nil {
				if ctx.Err() == nil {
					logger.Warn("⚠️  Token sweep failed", zap.Error(err))
				}
				continue
			}
			logger.Debug("Token sweep done", zap.Int64("pruned", n))
		}
	}
}
