package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/prospect-cli/internal/config"
)

type entry struct {
	Name  string `json:"name"`
	Pages int    `json:"pages"`
}

func setupRedis(t *testing.T) (*miniredis.Miniredis, *Redis) {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	c := NewRedis(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
	t.Cleanup(func() { _ = c.Close() })
	return mr, c
}

func TestRedis_SetGet(t *testing.T) {
	mr, c := setupRedis(t)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "crawl:acme.com", entry{Name: "Acme", Pages: 3}, time.Hour))

	var got entry
	found, err := c.Get(ctx, "crawl:acme.com", &got)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, entry{Name: "Acme", Pages: 3}, got)
	assert.Equal(t, time.Hour, mr.TTL("crawl:acme.com"))
}

func TestRedis_Miss(t *testing.T) {
	_, c := setupRedis(t)

	var got entry
	found, err := c.Get(context.Background(), "missing", &got)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestRedis_Expiry(t *testing.T) {
	mr, c := setupRedis(t)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "k", entry{Name: "x"}, time.Minute))
	mr.FastForward(2 * time.Minute)

	found, err := c.Get(ctx, "k", &entry{})
	require.NoError(t, err)
	assert.False(t, found)
}

func TestRedis_CorruptValue(t *testing.T) {
	mr, c := setupRedis(t)
	require.NoError(t, mr.Set("k", "{not json"))

	found, err := c.Get(context.Background(), "k", &entry{})
	assert.False(t, found)
	assert.Error(t, err)
}

func TestRedis_Ping(t *testing.T) {
	mr, c := setupRedis(t)
	assert.NoError(t, c.Ping(context.Background()))

	mr.Close()
	assert.Error(t, c.Ping(context.Background()))
}

func TestNew(t *testing.T) {
	assert.IsType(t, Noop{}, New(config.RedisConfig{}))

	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()

	c := New(config.RedisConfig{Addr: mr.Addr()})
	defer c.Close() //nolint:errcheck
	assert.IsType(t, &Redis{}, c)
	assert.NoError(t, c.Ping(context.Background()))
}

func TestNoop(t *testing.T) {
	var c Cache = Noop{}
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "k", entry{Name: "x"}, time.Hour))
	found, err := c.Get(ctx, "k", &entry{})
	require.NoError(t, err)
	assert.False(t, found)
	assert.NoError(t, c.Ping(ctx))
	assert.NoError(t, c.Close())
}
