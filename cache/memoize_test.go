package cache

import (
	"context"
	"errors"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/snacktrack/snacktrack-api/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildKey_SortsKwargsAndSkipsNil(t *testing.T) {
	diet := "vegan"
	var none *string

	a := BuildKey("spoonacular:search", []any{"salad", nil}, map[string]any{
		"diet": &diet, "limit": 20, "cuisine": none, "offset": 0,
	})
	b := BuildKey("spoonacular:search", []any{"salad"}, map[string]any{
		"offset": 0, "limit": 20, "diet": "vegan",
	})

	assert.Equal(t, "spoonacular:search:salad:diet:vegan:limit:20:offset:0", a)
	assert.Equal(t, a, b)
}

func TestBuildKey_DifferentArgsDiffer(t *testing.T) {
	a := BuildKey("usda:food", []any{1001}, nil)
	b := BuildKey("usda:food", []any{1002}, nil)
	assert.NotEqual(t, a, b)
	assert.Equal(t, "usda:food:1001", a)
}

func TestBuildKey_HashesLongKeys(t *testing.T) {
	long := strings.Repeat("x", 250)
	key := BuildKey("usda:search", []any{long}, nil)

	require.True(t, strings.HasPrefix(key, "usda:search:hash:"))
	assert.Len(t, strings.TrimPrefix(key, "usda:search:hash:"), 32)
	assert.Equal(t, key, BuildKey("usda:search", []any{long}, nil))
	assert.NotEqual(t, key, BuildKey("usda:search", []any{long + "y"}, nil))
}

func TestBuildKey_ExactlyMaxLengthIsKept(t *testing.T) {
	arg := strings.Repeat("a", MaxKeyLength-len("p:"))
	key := BuildKey("p", []any{arg}, nil)
	assert.Len(t, key, MaxKeyLength)
	assert.NotContains(t, key, ":hash:")
}

func TestMemoize_HitSkipsProducer(t *testing.T) {
	store := NewFallbackStore(Config{}, nil, logger.Nop())
	ctx := context.Background()
	calls := 0
	produce := func(context.Context) (recipe, error) {
		calls++
		return recipe{ID: 1, Title: "Gazpacho"}, nil
	}

	first, err := Memoize(ctx, store, "recipe", time.Minute, []any{1}, nil, produce)
	require.NoError(t, err)
	second, err := Memoize(ctx, store, "recipe", time.Minute, []any{1}, nil, produce)
	require.NoError(t, err)

	assert.Equal(t, 1, calls)
	assert.Equal(t, first, second)
	assert.Equal(t, int64(1), store.Stats().Hits)
}

func TestMemoize_ErrorsAreNotCached(t *testing.T) {
	store := NewFallbackStore(Config{}, nil, logger.Nop())
	ctx := context.Background()
	boom := errors.New("provider down")
	calls := 0
	produce := func(context.Context) (int, error) {
		calls++
		if calls == 1 {
			return 0, boom
		}
		return 42, nil
	}

	_, err := Memoize(ctx, store, "n", time.Minute, nil, nil, produce)
	assert.ErrorIs(t, err, boom)

	v, err := Memoize(ctx, store, "n", time.Minute, nil, nil, produce)
	require.NoError(t, err)
	assert.Equal(t, 42, v)
	assert.Equal(t, 2, calls)
}

func TestMemoize_ExpiredEntryRecomputes(t *testing.T) {
	store := NewFallbackStore(Config{}, nil, logger.Nop())
	now := time.Unix(1_700_000_000, 0)
	store.fallback.now = func() time.Time { return now }
	ctx := context.Background()
	calls := 0
	produce := func(context.Context) (int, error) { calls++; return calls, nil }

	v, _ := Memoize(ctx, store, "n", time.Second, nil, nil, produce)
	assert.Equal(t, 1, v)
	now = now.Add(2 * time.Second)
	v, _ = Memoize(ctx, store, "n", time.Second, nil, nil, produce)
	assert.Equal(t, 2, v)
}

func TestMemoize_ConcurrentMissesAreNotDeduplicated(t *testing.T) {
	store := NewFallbackStore(Config{}, nil, logger.Nop())
	ctx := context.Background()
	release := make(chan struct{})
	var calls atomic.Int32
	produce := func(context.Context) (int, error) {
		calls.Add(1)
		<-release
		return 7, nil
	}

	var wg sync.WaitGroup
	results := make([]int, 3)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], _ = Memoize(ctx, store, "shared", time.Minute, nil, nil, produce)
		}(i)
	}
	require.Eventually(t, func() bool { return calls.Load() == 3 }, time.Second, time.Millisecond)
	close(release)
	wg.Wait()

	assert.Equal(t, []int{7, 7, 7}, results)
}
