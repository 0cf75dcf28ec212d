package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"shelterfund/pkg/cache"
	"shelterfund/pkg/logger"
)

// CacheService is a JSON read-through cache for read-mostly documents
// (shelters, animals, item prices). Cached values are never used for wallet
// balances.
type CacheService interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error
	Delete(ctx context.Context, keys ...string) error
	Ping(ctx context.Context) error
}

type RedisClient interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value []byte, expiration time.Duration) error
	Del(ctx context.Context, keys ...string) error
	Ping(ctx context.Context) error
}

type cacheService struct {
	redisClient RedisClient
	logger      *logger.Logger
	defaultTTL  time.Duration
	keyPrefix   string
}

func NewCacheService(redisClient RedisClient, keyPrefix string, defaultTTL time.Duration, logger *logger.Logger) CacheService {
	return &cacheService{
		redisClient: redisClient,
		logger:      logger,
		defaultTTL:  defaultTTL,
		keyPrefix:   keyPrefix,
	}
}

func (s *cacheService) Get(ctx context.Context, key string, dest interface{}) error {
	data, err := s.redisClient.Get(ctx, s.buildKey(key))
	if err != nil {
		if errors.Is(err, cache.ErrCacheMiss) {
			return err
		}
		return fmt.Errorf("failed to get cache key %s: %w", key, err)
	}

	if err := json.Unmarshal([]byte(data), dest); err != nil {
		// A value we cannot decode is as good as absent.
		s.logger.WithError(err).WithField("key", key).Warn("Dropping undecodable cache entry")
		_ = s.redisClient.Del(ctx, s.buildKey(key))
		return cache.ErrCacheMiss
	}

	return nil
}

func (s *cacheService) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal cache value: %w", err)
	}

	if expiration <= 0 {
		expiration = s.defaultTTL
	}

	if err := s.redisClient.Set(ctx, s.buildKey(key), data, expiration); err != nil {
		s.logger.WithError(err).WithField("key", key).Warn("Failed to set cache")
		return err
	}

	return nil
}

func (s *cacheService) Delete(ctx context.Context, keys ...string) error {
	prefixed := make([]string, len(keys))
	for i, key := range keys {
		prefixed[i] = s.buildKey(key)
	}
	return s.redisClient.Del(ctx, prefixed...)
}

func (s *cacheService) Ping(ctx context.Context) error {
	return s.redisClient.Ping(ctx)
}

func (s *cacheService) buildKey(key string) string {
	if s.keyPrefix == "" {
		return key
	}
	return s.keyPrefix + ":" + key
}
