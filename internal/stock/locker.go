package stock

import (
	"context"
	"time"

	"github.com/opsdash/inventory-service/pkg/cache"
)

// LockHandle is a held per-SKU lock.
type LockHandle interface {
	Release(ctx context.Context) error
}

// Locker serializes ledger read-modify-write per tenant+SKU. Adjustments to
// different SKUs proceed in parallel.
type Locker interface {
	Obtain(ctx context.Context, key string, ttl time.Duration) (LockHandle, error)
}

// RedisLocker adapts the shared redis locker to the Locker interface.
type RedisLocker struct {
	Cache *cache.RedisClient
}

func (l RedisLocker) Obtain(ctx context.Context, key string, ttl time.Duration) (LockHandle, error) {
	lock, err := l.Cache.ObtainLock(ctx, key, ttl)
	if err != nil {
		return nil, err
	}
	return lock, nil
}
