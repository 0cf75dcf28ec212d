package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"shelterfund/internal/models"
	"shelterfund/pkg/cache"
	"shelterfund/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRedisClient struct {
	mu   sync.Mutex
	data map[string]string
	ttls map[string]time.Duration
}

func newFakeRedisClient() *fakeRedisClient {
	return &fakeRedisClient{data: map[string]string{}, ttls: map[string]time.Duration{}}
}

func (f *fakeRedisClient) Get(ctx context.Context, key string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	value, ok := f.data[key]
	if !ok {
		return "", cache.ErrCacheMiss
	}
	return value, nil
}

func (f *fakeRedisClient) Set(ctx context.Context, key string, value []byte, expiration time.Duration) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.data[key] = string(value)
	f.ttls[key] = expiration
	return nil
}

func (f *fakeRedisClient) Del(ctx context.Context, keys ...string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, key := range keys {
		delete(f.data, key)
	}
	return nil
}

func (f *fakeRedisClient) Ping(ctx context.Context) error {
	return nil
}

func TestCacheServiceRoundTripWithPrefix(t *testing.T) {
	client := newFakeRedisClient()
	svc := NewCacheService(client, "sf", time.Minute, logger.NewNop())
	ctx := context.Background()

	price := &models.DonationItemPrice{Type: models.DonationTypeFood, UnitPrice: 50, Currency: "TRY", Active: true}
	require.NoError(t, svc.Set(ctx, "price:Mama", price, 0))

	assert.Contains(t, client.data, "sf:price:Mama")
	assert.Equal(t, time.Minute, client.ttls["sf:price:Mama"])

	var got models.DonationItemPrice
	require.NoError(t, svc.Get(ctx, "price:Mama", &got))
	assert.Equal(t, 50.0, got.UnitPrice)

	require.NoError(t, svc.Delete(ctx, "price:Mama"))
	err := svc.Get(ctx, "price:Mama", &got)
	assert.ErrorIs(t, err, cache.ErrCacheMiss)
}

func TestCacheServiceDropsCorruptEntries(t *testing.T) {
	client := newFakeRedisClient()
	client.data["sf:shelters:Ankara"] = "{not json"
	svc := NewCacheService(client, "sf", time.Minute, logger.NewNop())

	var shelters []*models.Shelter
	err := svc.Get(context.Background(), "shelters:Ankara", &shelters)

	assert.ErrorIs(t, err, cache.ErrCacheMiss)
	assert.NotContains(t, client.data, "sf:shelters:Ankara")
}
