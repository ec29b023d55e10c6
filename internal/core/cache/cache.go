// Package cache is an optional redis read-through cache. A nil *Cache is
// valid everywhere and always goes to the loader.
package cache

import (
	"context"
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"
)

var lookups = prometheus.NewCounterVec(
	prometheus.CounterOpts{Name: "cache_lookups_total", Help: "Cache lookups by result"},
	[]string{"result"}, // hit / miss / error
)

func init() { prometheus.MustRegister(lookups) }

type Options struct {
	Addr     string
	Password string
	DB       int
	Prefix   string // 所有 key 的前缀，多个服务共用一个 redis 时区分
}

type Cache struct {
	rdb    *redis.Client
	prefix string
	sf     singleflight.Group
}

func New(o Options) *Cache {
	return &Cache{
		rdb:    redis.NewClient(&redis.Options{Addr: o.Addr, Password: o.Password, DB: o.DB}),
		prefix: o.Prefix,
	}
}

func (c *Cache) key(k string) string { return c.prefix + k }

func (c *Cache) Ping(ctx context.Context) error {
	if c == nil {
		return nil
	}
	return c.rdb.Ping(ctx).Err()
}

// GetOrLoad returns the cached bytes for key or calls load and stores the
// result for ttl. Concurrent misses on one key share a single load, which
// runs detached from any one caller's cancellation. Redis failures fall back
// to the loader.
//
// A load that started before Del may still store the old value afterwards;
// readers can then see it for up to ttl.
func (c *Cache) GetOrLoad(ctx context.Context, key string, ttl time.Duration, load func(context.Context) ([]byte, error)) ([]byte, error) {
	if c == nil {
		return load(ctx)
	}
	k := c.key(key)
	b, err := c.rdb.Get(ctx, k).Bytes()
	switch {
	case err == nil:
		lookups.WithLabelValues("hit").Inc()
		return b, nil
	case errors.Is(err, redis.Nil):
		lookups.WithLabelValues("miss").Inc()
	default:
		lookups.WithLabelValues("error").Inc()
	}

	// 共享的加载不能因为第一个调用方取消而让其他等待者一起失败
	lctx := context.WithoutCancel(ctx)
	v, err, _ := c.sf.Do(k, func() (any, error) {
		b, err := load(lctx)
		if err != nil {
			return nil, err
		}
		// 写缓存失败不影响本次结果
		_ = c.rdb.Set(lctx, k, b, ttl).Err()
		return b, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]byte), nil
}

// Del drops keys after a write.
func (c *Cache) Del(ctx context.Context, keys ...string) error {
	if c == nil || len(keys) == 0 {
		return nil
	}
	full := make([]string, len(keys))
	for i, k := range keys {
		full[i] = c.key(k)
	}
	return c.rdb.Del(ctx, full...).Err()
}

func (c *Cache) Close() error {
	if c == nil {
		return nil
	}
	return c.rdb.Close()
}
