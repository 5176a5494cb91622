package redis

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mistvale/storefront/internal/domain"
)

func setupCache(t *testing.T) (*HomepageCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewHomepageCache(client, 5*time.Minute), mr
}

func sampleSection() *domain.HomepageSection {
	return &domain.HomepageSection{
		Key:       "hero",
		Content:   json.RawMessage(`{"title":"Nuevos sabores","cta":"/products"}`),
		UpdatedAt: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func TestHomepageCache_SetGet_RoundTrip(t *testing.T) {
	cache, mr := setupCache(t)
	ctx := context.Background()

	s := sampleSection()
	require.NoError(t, cache.Set(ctx, s))
	assert.True(t, mr.Exists("homepage:hero"))

	got, err := cache.Get(ctx, "hero")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "hero", got.Key)
	assert.JSONEq(t, string(s.Content), string(got.Content))
}

func TestHomepageCache_Get_MissReturnsNil(t *testing.T) {
	cache, _ := setupCache(t)

	got, err := cache.Get(context.Background(), "banners")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestHomepageCache_Set_TTL(t *testing.T) {
	cache, mr := setupCache(t)

	require.NoError(t, cache.Set(context.Background(), sampleSection()))

	ttl := mr.TTL("homepage:hero")
	assert.True(t, ttl > 4*time.Minute, "expected TTL > 4m, got %v", ttl)
	assert.True(t, ttl <= 5*time.Minute, "expected TTL <= 5m, got %v", ttl)
}

func TestHomepageCache_Invalidate(t *testing.T) {
	cache, mr := setupCache(t)
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, sampleSection()))
	require.True(t, mr.Exists("homepage:hero"))

	require.NoError(t, cache.Invalidate(ctx, "hero"))
	assert.False(t, mr.Exists("homepage:hero"))

	// Invalidating an absent key is not an error.
	assert.NoError(t, cache.Invalidate(ctx, "hero"))
}
