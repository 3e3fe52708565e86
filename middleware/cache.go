package middleware

import (
	"bytes"
	"crypto/sha1"
	"fmt"
	"net/http"

	"dinesphere-backend/config"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// cacheWriter captures the response body while forwarding it to the client.
type cacheWriter struct {
	gin.ResponseWriter
	buf bytes.Buffer
}

func (cw *cacheWriter) Write(b []byte) (int, error) {
	cw.buf.Write(b)
	return cw.ResponseWriter.Write(b)
}

// cacheKey hashes the concrete request path, not the route template, so
// /restaurants/A and /restaurants/B get separate entries.
func cacheKey(prefix string, c *gin.Context) string {
	sum := sha1.Sum([]byte(c.Request.URL.Path + "?" + c.Request.URL.RawQuery))
	return fmt.Sprintf("%s:%x", prefix, sum)
}

// ResponseCache caches successful GET responses in Redis. Only JSON bodies
// are stored; anything else passes through untouched. A nil client or a
// disabled config yields a no-op middleware.
func ResponseCache(cfg config.CacheConfig, rdb *redis.Client) gin.HandlerFunc {
	if !cfg.Enabled || rdb == nil {
		return func(c *gin.Context) { c.Next() }
	}

	return func(c *gin.Context) {
		if c.Request.Method != http.MethodGet {
			c.Next()
			return
		}

		ctx := c.Request.Context()
		key := cacheKey(cfg.Prefix, c)

		if body, err := rdb.Get(ctx, key).Bytes(); err == nil {
			c.Header("X-Cache", "HIT")
			c.Data(http.StatusOK, "application/json; charset=utf-8", body)
			c.Abort()
			return
		}

		cw := &cacheWriter{ResponseWriter: c.Writer}
		c.Writer = cw
		c.Header("X-Cache", "MISS")
		c.Next()

		if cw.Status() == http.StatusOK && cw.buf.Len() > 0 {
			// Best effort; a failed SET only means the next request misses too.
			rdb.Set(ctx, key, cw.buf.Bytes(), cfg.TTL)
		}
	}
}
