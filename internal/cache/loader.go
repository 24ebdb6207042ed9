package cache

import (
	"context"
	"strconv"

	"golang.org/x/sync/singleflight"
)

// Loader fills an LRUCache on misses. Concurrent misses for the same key
// share one call to the load function.
type Loader[T any] struct {
	cache *LRUCache[T]
	group singleflight.Group
}

func NewLoader[T any](c *LRUCache[T]) *Loader[T] {
	return &Loader[T]{cache: c}
}

// Get returns the cached value for key or computes it with load. Errors are
// not cached.
func (l *Loader[T]) Get(ctx context.Context, key string, load func(context.Context) (T, error)) (T, error) {
	if v, ok := l.cache.Get(key); ok {
		return v, nil
	}

	gen := l.cache.Generation()
	// A purge starts a new flight rather than joining one that read old data.
	flightKey := key + "@" + strconv.FormatUint(gen, 10)
	v, err, _ := l.group.Do(flightKey, func() (any, error) {
		val, err := load(ctx)
		if err != nil {
			return val, err
		}
		l.cache.SetIfGeneration(key, val, gen)
		return val, nil
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return v.(T), nil
}

// Invalidate drops every cached value.
func (l *Loader[T]) Invalidate() {
	l.cache.Purge()
}
