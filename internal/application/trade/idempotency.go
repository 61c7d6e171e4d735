package trade

import (
	"context"
	"fmt"
	"time"

	"github.com/erp/tilestock/internal/domain/shared"
	"go.uber.org/zap"
)

// DefaultIdempotencyTTL is how long a request key is remembered
const DefaultIdempotencyTTL = 24 * time.Hour

// idempotencyGuard rejects a request whose key was already applied. A key is
// recorded before the work runs and forgotten again when the work fails, so a
// failed request can be retried with the same key.
type idempotencyGuard struct {
	store  shared.IdempotencyStore
	ttl    time.Duration
	logger *zap.Logger
}

func (g *idempotencyGuard) run(ctx context.Context, key string, fn func() error) error {
	if g.store == nil || key == "" {
		return fn()
	}

	marked, err := g.store.MarkProcessed(ctx, key, g.ttl)
	if err != nil {
		return fmt.Errorf("failed to record idempotency key: %w", err)
	}
	if !marked {
		return shared.ErrDuplicateRequest
	}

	if err := fn(); err != nil {
		if forgetErr := g.store.Forget(ctx, key); forgetErr != nil {
			g.logger.Warn("failed to forget idempotency key", zap.String("key", key), zap.Error(forgetErr))
		}
		return err
	}
	return nil
}
