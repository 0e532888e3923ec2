package cache

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKey(t *testing.T) {
	k := Key("default", "# hi")
	assert.Len(t, k, 64)
	assert.Equal(t, k, Key("default", "# hi"))
	assert.NotEqual(t, k, Key("classic", "# hi"))
	assert.NotEqual(t, Key("ab", "c"), Key("a", "bc"))
}

func TestRedisRoundTrip(t *testing.T) {
	addr := os.Getenv("MDFANCY_REDIS_ADDR")
	if addr == "" {
		t.Skip("MDFANCY_REDIS_ADDR not set")
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	c, err := NewRedis(ctx, Options{Addr: addr, Prefix: "mdfancy-test:", TTL: time.Minute})
	require.NoError(t, err)
	defer func() { _ = c.Close() }()

	key := Key("default", t.Name())
	_, ok, err := c.Get(ctx, key+"-missing")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, c.Set(ctx, key, "𝗵𝗶"))
	val, ok, err := c.Get(ctx, key)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "𝗵𝗶", val)
}

func TestNewRedisUnreachable(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
	defer cancel()
	_, err := NewRedis(ctx, Options{Addr: "127.0.0.1:1"})
	assert.Error(t, err)
}
