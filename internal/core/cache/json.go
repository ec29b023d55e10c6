package cache

import (
	"bytes"
	"context"
	"encoding/json"
	"time"
)

// JSON is a typed view of one cache key whose value is stored as JSON.
// A nil value is stored as "null" so absent records are cached too.
type JSON[T any] struct {
	c   *Cache
	key string
	ttl time.Duration
}

func NewJSON[T any](c *Cache, key string, ttl time.Duration) JSON[T] {
	return JSON[T]{c: c, key: key, ttl: ttl}
}

func (j JSON[T]) Get(ctx context.Context, load func(context.Context) (*T, error)) (*T, error) {
	b, err := j.c.GetOrLoad(ctx, j.key, j.ttl, func(ctx context.Context) ([]byte, error) {
		v, err := load(ctx)
		if err != nil {
			return nil, err
		}
		return json.Marshal(v)
	})
	if err != nil {
		return nil, err
	}
	if bytes.Equal(b, []byte("null")) {
		return nil, nil
	}
	out := new(T)
	if err := json.Unmarshal(b, out); err != nil {
		return nil, err
	}
	return out, nil
}

// Invalidate drops the cached value; the next Get reloads it.
func (j JSON[T]) Invalidate(ctx context.Context) error { return j.c.Del(ctx, j.key) }
