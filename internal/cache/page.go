package cache

import (
	"context"
	"errors"
	"time"

	"quill/internal/observability"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
)

const (
	// IndexPagePrefix namespaces cached feed page bodies.
	IndexPagePrefix = "index_page:"
	// IndexPageTTL bounds how stale a cached feed page can get.
	IndexPageTTL = 20 * time.Second
)

// IndexPageKey builds the cache key for a feed route. The key is the route
// identity alone: all viewers and all ?page= values share one entry, so
// within the TTL every reader sees the same rendered body.
func IndexPageKey(route string) string {
	return IndexPagePrefix + route
}

// PageCache returns a middleware that serves the cached body for key when
// present and otherwise stores the downstream 200 response for ttl.
// With a nil client it degrades to a pass-through.
func PageCache(rdb *redis.Client, key string, ttl time.Duration) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if rdb == nil {
			return c.Next()
		}

		ctx := c.UserContext()
		body, err := rdb.Get(ctx, key).Bytes()
		if err == nil {
			observability.PageCacheHits.WithLabelValues(key).Inc()
			c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
			return c.Send(body)
		}
		if !errors.Is(err, redis.Nil) {
			observability.RecordRedisError("page_cache_get")
		}
		observability.PageCacheMisses.WithLabelValues(key).Inc()

		if err := c.Next(); err != nil {
			return err
		}

		if c.Response().StatusCode() == fiber.StatusOK {
			// The response buffer is reused by fasthttp; store a copy.
			stored := make([]byte, len(c.Response().Body()))
			copy(stored, c.Response().Body())
			if err := rdb.Set(ctx, key, stored, ttl).Err(); err != nil {
				observability.RecordRedisError("page_cache_set")
			}
		}
		return nil
	}
}

// ClearPage drops a cached page body. Clearing a missing key is not an error.
func ClearPage(ctx context.Context, rdb *redis.Client, key string) error {
	if rdb == nil {
		return nil
	}
	if err := rdb.Del(ctx, key).Err(); err != nil {
		observability.RecordRedisError("page_cache_del")
		return err
	}
	observability.PageCacheClears.Inc()
	return nil
}
