package cache

import (
	"context"
	"time"
)

// JSONStore is the value-level view of a store used by Memoize.
type JSONStore interface {
	GetJSON(ctx context.Context, key string, dest any) bool
	SetJSON(ctx context.Context, key string, v any, ttl time.Duration)
}

// Memoize returns the value cached under BuildKey(prefix, args, kwargs). On a miss it
// calls produce once, caches the result for ttl and returns it. Errors from produce are
// returned and never cached. Concurrent misses for the same key each call produce.
func Memoize[T any](
	ctx context.Context,
	store JSONStore,
	prefix string,
	ttl time.Duration,
	args []any,
	kwargs map[string]any,
	produce func(context.Context) (T, error),
) (T, error) {
	key := BuildKey(prefix, args, kwargs)

	var cached T
	if store.GetJSON(ctx, key, &cached) {
		return cached, nil
	}

	result, err := produce(ctx)
	if err != nil {
		var zero T
		return zero, err
	}
	store.SetJSON(ctx, key, result, ttl)
	return result, nil
}
