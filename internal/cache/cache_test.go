package cache_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	backend "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thywilljoshua/pdf-mindmap/internal/cache"
)

func newRedis(t *testing.T, opts ...cache.Option) (*cache.Redis, *miniredis.Miniredis) {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)
	client := backend.NewClient(&backend.Options{Addr: mr.Addr()})
	r := cache.NewFromClient(client, opts...)
	t.Cleanup(func() { _ = r.Close() })
	return r, mr
}

func TestRedis_RoundTrip(t *testing.T) {
	ctx := context.Background()
	r, mr := newRedis(t, cache.WithPrefix("test:"))

	_, hit, err := r.Get(ctx, "k")
	require.NoError(t, err)
	assert.False(t, hit)

	require.NoError(t, r.Set(ctx, "k", []byte("v"), time.Minute))
	data, hit, err := r.Get(ctx, "k")
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, "v", string(data))
	assert.True(t, mr.Exists("test:k"))

	require.NoError(t, r.Delete(ctx, "k"))
	_, hit, err = r.Get(ctx, "k")
	require.NoError(t, err)
	assert.False(t, hit)
}

func TestRedis_TTL(t *testing.T) {
	ctx := context.Background()
	r, mr := newRedis(t, cache.WithTTL(time.Hour))

	require.NoError(t, r.Set(ctx, "default", []byte("x"), 0))
	require.NoError(t, r.Set(ctx, "explicit", []byte("x"), time.Second))
	assert.Equal(t, time.Hour, mr.TTL("mindmap:default"))
	assert.Equal(t, time.Second, mr.TTL("mindmap:explicit"))

	mr.FastForward(2 * time.Second)
	_, hit, err := r.Get(ctx, "explicit")
	require.NoError(t, err)
	assert.False(t, hit)
}

func TestNewRedis_Unreachable(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	_, err := cache.NewRedis(ctx, "127.0.0.1:1")
	assert.Error(t, err)
}

func TestNullCache(t *testing.T) {
	ctx := context.Background()
	c := cache.NewNullCache()
	require.NoError(t, c.Set(ctx, "k", []byte("v"), 0))
	_, hit, err := c.Get(ctx, "k")
	require.NoError(t, err)
	assert.False(t, hit)
	assert.NoError(t, c.Delete(ctx, "k"))
	assert.NoError(t, c.Close())
}

func TestOutlineKey(t *testing.T) {
	a := cache.OutlineKey("gemini", "pdf", []byte("same"))
	assert.Equal(t, a, cache.OutlineKey("gemini", "pdf", []byte("same")))
	assert.NotEqual(t, a, cache.OutlineKey("headings", "pdf", []byte("same")))
	assert.NotEqual(t, a, cache.OutlineKey("gemini", "text", []byte("same")))
	assert.NotEqual(t, a, cache.OutlineKey("gemini", "pdf", []byte("other")))
	assert.Contains(t, cache.OutlineKey("", "pdf", nil), "outline:default:pdf:")
	assert.Len(t, cache.Hash([]byte("x")), 64)
}
