package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/snacktrack/snacktrack-api/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticSource struct {
	client *goredis.Client
}

func (s staticSource) Client(context.Context) *goredis.Client { return s.client }
func (s staticSource) Connected() bool                        { return s.client != nil }

func newMiniSource(t *testing.T) (*miniredis.Miniredis, staticSource) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr(), MaxRetries: -1})
	t.Cleanup(func() { _ = client.Close() })
	return mr, staticSource{client: client}
}

type recipe struct {
	ID       int      `json:"id"`
	Title    string   `json:"title"`
	Calories float64  `json:"calories"`
	Tags     []string `json:"tags"`
}

func TestRedisStore_GetSetDelete(t *testing.T) {
	mr, src := newMiniSource(t)
	s := NewRedisStore(src, "st:")
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, "k", []byte("v"), time.Minute))
	assert.True(t, mr.Exists("st:k"))
	assert.Equal(t, time.Minute, mr.TTL("st:k"))

	got, err := s.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "v", string(got))

	require.NoError(t, s.Delete(ctx, "k"))
	_, err = s.Get(ctx, "k")
	assert.ErrorIs(t, err, ErrCacheMiss)
}

func TestRedisStore_Expiry(t *testing.T) {
	mr, src := newMiniSource(t)
	s := NewRedisStore(src, "")
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, "k", []byte("v"), time.Second))
	mr.FastForward(2 * time.Second)
	_, err := s.Get(ctx, "k")
	assert.ErrorIs(t, err, ErrCacheMiss)
}

func TestRedisStore_SubSecondExpiry(t *testing.T) {
	mr, src := newMiniSource(t)
	s := NewRedisStore(src, "")
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, "k", []byte("v"), 500*time.Millisecond))
	assert.Equal(t, 500*time.Millisecond, mr.TTL("k"))

	mr.FastForward(600 * time.Millisecond)
	_, err := s.Get(ctx, "k")
	assert.ErrorIs(t, err, ErrCacheMiss)
}

func TestRedisStore_NonPositiveTTLIsExpired(t *testing.T) {
	mr, src := newMiniSource(t)
	s := NewRedisStore(src, "")
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, "k", []byte("old"), time.Minute))
	require.NoError(t, s.Set(ctx, "k", []byte("new"), 0))
	assert.False(t, mr.Exists("k"))

	_, err := s.Get(ctx, "k")
	assert.ErrorIs(t, err, ErrCacheMiss)
}

func TestFallbackStore_SubSecondTTLMatchesMemory(t *testing.T) {
	mr, src := newMiniSource(t)
	ctx := context.Background()
	redisBacked := NewFallbackStore(Config{}, src, logger.Nop())
	memoryOnly := NewFallbackStore(Config{}, nil, logger.Nop())
	now := time.Unix(1_700_000_000, 0)
	memoryOnly.fallback.now = func() time.Time { return now }

	for _, ttl := range []time.Duration{0, 500 * time.Millisecond} {
		key := "recipe:" + ttl.String()
		redisBacked.SetJSON(ctx, key, recipe{ID: 1}, ttl)
		memoryOnly.SetJSON(ctx, key, recipe{ID: 1}, ttl)

		mr.FastForward(ttl + 100*time.Millisecond)
		now = now.Add(ttl + 100*time.Millisecond)

		var got recipe
		assert.False(t, redisBacked.GetJSON(ctx, key, &got), "redis-backed ttl=%v", ttl)
		assert.False(t, memoryOnly.GetJSON(ctx, key, &got), "memory-only ttl=%v", ttl)
	}
}

func TestRedisStore_Unavailable(t *testing.T) {
	s := NewRedisStore(staticSource{}, "")
	_, err := s.Get(context.Background(), "k")
	assert.ErrorIs(t, err, ErrStoreUnavailable)
	assert.ErrorIs(t, s.Set(context.Background(), "k", nil, time.Minute), ErrStoreUnavailable)
}

func TestRedisStore_BackendErrorIsWrapped(t *testing.T) {
	mr, src := newMiniSource(t)
	s := NewRedisStore(src, "")
	mr.SetError("ERR boom")

	_, err := s.Get(context.Background(), "k")
	assert.ErrorIs(t, err, ErrStoreGet)
	assert.ErrorIs(t, s.Set(context.Background(), "k", []byte("v"), time.Minute), ErrStoreSet)
}

func TestFallbackStore_PrefersRedis(t *testing.T) {
	mr, src := newMiniSource(t)
	s := NewFallbackStore(Config{}, src, logger.Nop())
	ctx := context.Background()

	in := recipe{ID: 7, Title: "Herb Quinoa", Calories: 420, Tags: []string{"vegan"}}
	s.SetJSON(ctx, "spoonacular:recipe:7", in, TTLOneDay)

	assert.True(t, mr.Exists("spoonacular:recipe:7"))
	assert.Equal(t, 0, s.fallback.Len())

	var out recipe
	require.True(t, s.GetJSON(ctx, "spoonacular:recipe:7", &out))
	assert.Equal(t, in, out)
	assert.True(t, s.Connected())
}

func TestFallbackStore_DegradesToMemoryOnError(t *testing.T) {
	mr, src := newMiniSource(t)
	log, logs := logger.NewTestLogger("cache")
	s := NewFallbackStore(Config{}, src, log)
	ctx := context.Background()

	mr.SetError("ERR down")
	s.SetJSON(ctx, "k", map[string]int{"n": 1}, time.Minute)

	var out map[string]int
	require.True(t, s.GetJSON(ctx, "k", &out), "served from memory")
	assert.Equal(t, 1, out["n"])
	assert.Equal(t, 1, s.fallback.Len())
	assert.GreaterOrEqual(t, logs.FilterMessage("Cache set error").Len(), 1)
	assert.GreaterOrEqual(t, logs.FilterMessage("Cache get error").Len(), 1)
	assert.GreaterOrEqual(t, s.Stats().Errors, int64(2))
}

func TestFallbackStore_MemoryOnlyWithoutSource(t *testing.T) {
	s := NewFallbackStore(Config{MaxMemoryEntries: 2}, nil, logger.Nop())
	ctx := context.Background()

	assert.False(t, s.Connected())
	s.SetJSON(ctx, "a", 1, time.Minute)
	s.SetJSON(ctx, "b", 2, time.Minute)
	s.SetJSON(ctx, "c", 3, time.Minute)

	var n int
	assert.False(t, s.GetJSON(ctx, "a", &n))
	assert.True(t, s.GetJSON(ctx, "c", &n))
	assert.Equal(t, 3, n)
}

func TestFallbackStore_DeleteRemovesFromBoth(t *testing.T) {
	mr, src := newMiniSource(t)
	s := NewFallbackStore(Config{}, src, logger.Nop())
	ctx := context.Background()

	require.NoError(t, s.fallback.Set(ctx, "k", []byte("1"), time.Minute))
	require.NoError(t, mr.Set("k", "1"))

	require.NoError(t, s.Delete(ctx, "k"))
	assert.False(t, mr.Exists("k"))
	_, err := s.fallback.Get(ctx, "k")
	assert.ErrorIs(t, err, ErrCacheMiss)
}

func TestFallbackStore_UndecodableValueIsMiss(t *testing.T) {
	mr, src := newMiniSource(t)
	s := NewFallbackStore(Config{}, src, logger.Nop())
	require.NoError(t, mr.Set("k", "not json"))

	var out recipe
	assert.False(t, s.GetJSON(context.Background(), "k", &out))
	assert.Equal(t, int64(1), s.Stats().Misses)
}
