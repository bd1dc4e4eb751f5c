package cache

import (
	"context"
	"time"
)

// sweepLoop periodically removes expired entries so that keys written once
// and never read again do not pin memory forever. Lazy expiration alone
// would leave them in place indefinitely.
func (c *Cache[K, V]) sweepLoop(ctx context.Context, every time.Duration) {
	defer c.wg.Done()

	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			c.mu.Lock()
			c.removeExpiredLocked(now)
			c.mu.Unlock()
		}
	}
}
