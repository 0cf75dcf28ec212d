package mongodb

import (
	"context"
	"time"
)

const cacheTTL = 10 * time.Minute

// CacheService is the subset of the application cache the repositories use.
type CacheService interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error
	Delete(ctx context.Context, keys ...string) error
}

func cacheGet(ctx context.Context, cache CacheService, key string, dest interface{}) bool {
	if cache == nil {
		return false
	}
	return cache.Get(ctx, key, dest) == nil
}

func cacheSet(ctx context.Context, cache CacheService, key string, value interface{}) {
	if cache != nil {
		_ = cache.Set(ctx, key, value, cacheTTL)
	}
}

func cacheDelete(ctx context.Context, cache CacheService, keys ...string) {
	if cache != nil {
		_ = cache.Delete(ctx, keys...)
	}
}
