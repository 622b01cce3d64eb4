package ban

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStoreStrikeWindow(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return now }

	for want := 1; want <= 3; want++ {
		got, err := s.Strike(ctx, "10.0.0.1", time.Minute)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}

	now = now.Add(2 * time.Minute)
	got, err := s.Strike(ctx, "10.0.0.1", time.Minute)
	require.NoError(t, err)
	assert.Equal(t, 1, got, "window expired")
}

func TestMemoryStoreBanExpires(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return now }

	_, _ = s.Strike(ctx, "10.0.0.2", time.Minute)
	require.NoError(t, s.Ban(ctx, "10.0.0.2", "/api/products", 5, time.Minute))

	banned, err := s.IsBanned(ctx, "10.0.0.2")
	require.NoError(t, err)
	assert.True(t, banned)

	other, err := s.IsBanned(ctx, "10.0.0.3")
	require.NoError(t, err)
	assert.False(t, other)

	now = now.Add(time.Minute)
	banned, err = s.IsBanned(ctx, "10.0.0.2")
	require.NoError(t, err)
	assert.False(t, banned)

	entries, err := s.Log(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "/api/products", entries[0].Route)
	assert.Equal(t, 5, entries[0].Strikes)
}

func TestRedisStore(t *testing.T) {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		t.Skip("REDIS_ADDR not set")
	}
	ctx := context.Background()
	rdb := redis.NewClient(&redis.Options{Addr: addr})
	t.Cleanup(func() { _ = rdb.Close() })
	require.NoError(t, rdb.Ping(ctx).Err())

	target := "test-" + time.Now().Format("150405.000000")
	t.Cleanup(func() {
		rdb.Del(ctx, strikeKey(target), banKey(target))
	})

	s := NewRedisStore(rdb)
	n, err := s.Strike(ctx, target, time.Minute)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	n, err = s.Strike(ctx, target, time.Minute)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	require.NoError(t, s.Ban(ctx, target, "/api/transactions", n, time.Minute))
	banned, err := s.IsBanned(ctx, target)
	require.NoError(t, err)
	assert.True(t, banned)

	ttl, err := rdb.TTL(ctx, banKey(target)).Result()
	require.NoError(t, err)
	assert.Greater(t, ttl, time.Duration(0))
}
