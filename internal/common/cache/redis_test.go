package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tennis-booking/internal/common/config"
)

func createTestClient(t *testing.T) (*RedisClient, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	c := NewRedis(config.RedisConfig{Address: mr.Addr()})
	t.Cleanup(func() { _ = c.Close() })
	return c, mr
}

func TestRedisClient_RoundTrip(t *testing.T) {
	c, mr := createTestClient(t)
	ctx := context.Background()

	require.NoError(t, c.Ping(ctx))
	require.NoError(t, c.Set(ctx, "booking:completion:abc", `{"date_time":"today at 10:00"}`, time.Minute))

	val, err := c.Get(ctx, "booking:completion:abc")
	require.NoError(t, err)
	assert.Equal(t, `{"date_time":"today at 10:00"}`, val)
	assert.Equal(t, time.Minute, mr.TTL("booking:completion:abc"))

	require.NoError(t, c.Del(ctx, "booking:completion:abc"))
	_, err = c.Get(ctx, "booking:completion:abc")
	assert.ErrorIs(t, err, ErrMiss)
}

func TestRedisClient_Expiry(t *testing.T) {
	c, mr := createTestClient(t)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "k", "v", time.Second))
	mr.FastForward(2 * time.Second)

	_, err := c.Get(ctx, "k")
	assert.ErrorIs(t, err, ErrMiss)
}

func TestRedisClient_Unreachable(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	c := NewRedis(config.RedisConfig{Address: mr.Addr()})
	defer c.Close()
	mr.Close()

	err = c.Ping(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "redis ping failed")

	_, err = c.Get(context.Background(), "k")
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrMiss)
}
