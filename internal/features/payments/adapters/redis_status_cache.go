package adapters

import (
	"context"
	"errors"
	"fmt"
	"time"

	"payurl-service/internal/core/cache"
	"payurl-service/internal/features/payments/domain"
)

const statusKeyPrefix = "pay_status:"

// RedisStatusCache implements ports.StatusCache on the shared cache.
type RedisStatusCache struct {
	cache cache.Cache
	ttl   time.Duration
}

// NewRedisStatusCache creates a status cache whose entries live for ttl.
func NewRedisStatusCache(c cache.Cache, ttl time.Duration) *RedisStatusCache {
	return &RedisStatusCache{
		cache: c,
		ttl:   ttl,
	}
}

// Get returns the cached status of orderID.
func (r *RedisStatusCache) Get(ctx context.Context, orderID domain.OrderID) (string, bool, error) {
	data, err := r.cache.Get(ctx, statusKeyPrefix+orderID)
	if errors.Is(err, cache.ErrCacheMiss) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to read cached status: %w", err)
	}
	return string(data), true, nil
}

// Set stores the status of orderID.
func (r *RedisStatusCache) Set(ctx context.Context, orderID domain.OrderID, status string) error {
	if err := r.cache.Set(ctx, statusKeyPrefix+orderID, []byte(status), r.ttl); err != nil {
		return fmt.Errorf("failed to cache status: %w", err)
	}
	return nil
}
