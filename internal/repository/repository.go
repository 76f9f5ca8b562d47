package repository

import (
	"context"
	"time"
)

// queryTimeout bounds every relational call so an unreachable database fails
// fast instead of holding a webhook request open. Callers treat the failure
// as retryable and fall back where they can.
const queryTimeout = 5 * time.Second

func withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, queryTimeout)
}
