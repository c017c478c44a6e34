// Package httpcache short-circuits repeated identical read requests
// with a shared TTL store. Mutating requests always pass through and
// error responses are never written back, so a transient upstream
// failure cannot be replayed to later callers.
package httpcache

import (
	"sort"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"reporting-service/internal/cache"
)

type cachedResponse struct {
	status      int
	contentType string
	body        []byte
}

// Key derives the cache key from the normalized request identity: the
// path plus the query string with parameters sorted by name, so two
// logically identical requests collide regardless of parameter order.
func Key(path, rawQuery string) string {
	if rawQuery == "" {
		return path
	}

	params := strings.Split(rawQuery, "&")
	sort.Strings(params)
	return path + "?" + strings.Join(params, "&")
}

// New returns a middleware that serves GET responses from store for up
// to ttl. Route groups with different volatility get different TTLs.
func New(store *cache.Store, ttl time.Duration) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if c.Method() != fiber.MethodGet {
			return c.Next()
		}

		key := Key(c.Path(), string(c.Request().URI().QueryString()))

		if v, ok := store.Get(key); ok {
			resp := v.(cachedResponse)
			c.Set("X-Cache", "HIT")
			c.Set(fiber.HeaderContentType, resp.contentType)
			return c.Status(resp.status).Send(resp.body)
		}

		c.Set("X-Cache", "MISS")
		if err := c.Next(); err != nil {
			// The error handler will shape the response; never cache it.
			return err
		}

		status := c.Response().StatusCode()
		if status >= fiber.StatusBadRequest {
			return nil
		}

		body := make([]byte, len(c.Response().Body()))
		copy(body, c.Response().Body())

		store.Set(key, cachedResponse{
			status:      status,
			contentType: string(c.Response().Header.ContentType()),
			body:        body,
		}, ttl)

		return nil
	}
}
