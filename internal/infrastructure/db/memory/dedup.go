package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/minutehire/auth-gateway/internal/core/domain"
)

// DedupChecker remembers handled webhook transaction states in process
// memory. It backs replay protection when the gateway runs without Redis.
type DedupChecker struct {
	mu   sync.Mutex
	seen map[string]time.Time
	ttl  time.Duration
	now  func() time.Time
}

func NewDedupChecker(ttl time.Duration) *DedupChecker {
	return &DedupChecker{seen: make(map[string]time.Time), ttl: ttl, now: time.Now}
}

func (d *DedupChecker) IsDuplicate(_ context.Context, transactionID string, state domain.PaymentState) (bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	expires, ok := d.seen[key(transactionID, state)]
	return ok && d.now().Before(expires), nil
}

// Mark records the state and drops expired entries.
func (d *DedupChecker) Mark(_ context.Context, transactionID string, state domain.PaymentState) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	now := d.now()
	for k, expires := range d.seen {
		if !now.Before(expires) {
			delete(d.seen, k)
		}
	}
	d.seen[key(transactionID, state)] = now.Add(d.ttl)
	return nil
}

func key(transactionID string, state domain.PaymentState) string {
	return fmt.Sprintf("%s:%s", transactionID, state)
}
