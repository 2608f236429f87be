package persistence

import (
	"context"
	"time"

	"github.com/sethvargo/go-retry"
	"go.uber.org/zap"
)

const connectBackoffBase = 200 * time.Millisecond

// connectWithRetry calls ping with exponential backoff until it succeeds,
// attempts are exhausted or ctx is done. Every failure is retryable.
func connectWithRetry(ctx context.Context, logger *zap.Logger, backend string, attempts int, ping func(context.Context) error) error {
	if attempts < 1 {
		attempts = 1
	}
	backoff := retry.WithMaxRetries(uint64(attempts-1), retry.NewExponential(connectBackoffBase))

	attempt := 0
	return retry.Do(ctx, backoff, func(ctx context.Context) error {
		attempt++
		if err := ping(ctx); err != nil {
			logger.Warn("backend not reachable",
				zap.String("backend", backend),
				zap.Int("attempt", attempt),
				zap.Error(err))
			return retry.RetryableError(err)
		}
		return nil
	})
}
