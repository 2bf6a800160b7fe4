package cache

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"
)

// DefaultLoadTimeout bounds a shared load once it is detached from the
// caller that started it.
const DefaultLoadTimeout = 10 * time.Second

type Cache struct {
	RDB *redis.Client
	// LoadTimeout 为 0 时使用 DefaultLoadTimeout
	LoadTimeout time.Duration
	sf          singleflight.Group
}

func New(addr, pass string, db int) *Cache {
	return NewWithClient(redis.NewClient(&redis.Options{Addr: addr, Password: pass, DB: db}))
}

func NewWithClient(rdb *redis.Client) *Cache { return &Cache{RDB: rdb} }

func (c *Cache) Ping(ctx context.Context) error { return c.RDB.Ping(ctx).Err() }

func (c *Cache) Close() error { return c.RDB.Close() }

// GetOrLoad returns the cached bytes for key, or calls load once for all
// concurrent callers and stores its result for ttl. Load errors are not
// cached. A failing Redis degrades to calling load directly.
//
// load runs on a context detached from the first caller, so one caller
// going away does not fail the others waiting on the same key.
func (c *Cache) GetOrLoad(ctx context.Context, key string, ttl time.Duration, load func(context.Context) ([]byte, error)) ([]byte, error) {
	b, err := c.RDB.Get(ctx, key).Bytes()
	if err == nil {
		return b, nil
	}
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}
	missed := errors.Is(err, redis.Nil)

	ch := c.sf.DoChan(key, func() (any, error) {
		lctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.loadTimeout())
		defer cancel()
		b, e := load(lctx)
		if e != nil {
			return nil, e
		}
		if missed {
			// redis 读失败时不再写回
			_ = c.RDB.Set(lctx, key, b, ttl).Err()
		}
		return b, nil
	})
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case r := <-ch:
		if r.Err != nil {
			return nil, r.Err
		}
		return r.Val.([]byte), nil
	}
}

func (c *Cache) loadTimeout() time.Duration {
	if c.LoadTimeout > 0 {
		return c.LoadTimeout
	}
	return DefaultLoadTimeout
}
