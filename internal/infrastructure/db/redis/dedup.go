package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/minutehire/auth-gateway/internal/core/domain"
)

const dedupTTL = time.Hour

// DedupChecker provides webhook idempotency checks backed by Redis.
// Key format: dedup:payment:<transaction_id>:<state>
type DedupChecker struct {
	client redis.Cmdable
}

// NewDedupChecker creates a DedupChecker wrapping the given Redis client.
func NewDedupChecker(client redis.Cmdable) *DedupChecker {
	return &DedupChecker{client: client}
}

// IsDuplicate reports whether this transaction state was already handled.
func (d *DedupChecker) IsDuplicate(ctx context.Context, transactionID string, state domain.PaymentState) (bool, error) {
	n, err := d.client.Exists(ctx, d.key(transactionID, state)).Result()
	if err != nil {
		return false, fmt.Errorf("dedup check: %w", err)
	}
	return n > 0, nil
}

// Mark records that this transaction state was handled (expires after an hour).
func (d *DedupChecker) Mark(ctx context.Context, transactionID string, state domain.PaymentState) error {
	return d.client.Set(ctx, d.key(transactionID, state), "1", dedupTTL).Err()
}

func (d *DedupChecker) key(transactionID string, state domain.PaymentState) string {
	return fmt.Sprintf("dedup:payment:%s:%s", transactionID, state)
}
