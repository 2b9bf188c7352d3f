package middleware

import (
	"bytes"
	"context"
	"crypto/sha1"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/kward/rescue-animal-service/internal/config"
)

// cachedResponse is the stored form of a cacheable reply. Only the
// status, content type, and body are kept; per-request headers are not
// replayed.
type cachedResponse struct {
	Status      int    `json:"status"`
	ContentType string `json:"content_type"`
	Body        []byte `json:"body"`
}

// bodyCapture tees the response body into a buffer (up to limit bytes)
// while streaming it to the client.
type bodyCapture struct {
	http.ResponseWriter
	status int
	buf    bytes.Buffer
	limit  int64
}

func (w *bodyCapture) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

func (w *bodyCapture) Write(b []byte) (int, error) {
	if remain := w.limit - int64(w.buf.Len()); remain > 0 {
		if int64(len(b)) <= remain {
			w.buf.Write(b)
		} else {
			w.buf.Write(b[:remain])
		}
	}
	return w.ResponseWriter.Write(b)
}

// ResponseCache serves GET responses from Redis for the configured TTL.
// Only 200 responses within the size limit are stored. A nil Redis
// client or disabled config makes this a pass-through. Cache hits carry
// an X-Cache: HIT header.
func ResponseCache(cfg config.CacheConfig, rdb *redis.Client) echo.MiddlewareFunc {
	if !cfg.Enabled || rdb == nil {
		return passthrough
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if c.Request().Method != http.MethodGet {
				return next(c)
			}
			key := cacheKey(cfg.Prefix, c)
			ctx := c.Request().Context()

			if raw, err := rdb.Get(ctx, key).Bytes(); err == nil {
				var cached cachedResponse
				if json.Unmarshal(raw, &cached) == nil && cached.Status != 0 {
					h := c.Response().Header()
					h.Set(echo.HeaderContentType, cached.ContentType)
					h.Set("X-Cache", "HIT")
					c.Response().WriteHeader(cached.Status)
					_, _ = c.Response().Write(cached.Body)
					return nil
				}
			}

			capture := &bodyCapture{
				ResponseWriter: c.Response().Writer,
				status:         http.StatusOK,
				limit:          int64(cfg.MaxBodyBytes),
			}
			c.Response().Writer = capture
			c.Response().Header().Set("X-Cache", "MISS")

			if err := next(c); err != nil {
				return err
			}

			if capture.status == http.StatusOK && int64(capture.buf.Len()) < int64(cfg.MaxBodyBytes) {
				cached := cachedResponse{
					Status:      capture.status,
					ContentType: c.Response().Header().Get(echo.HeaderContentType),
					Body:        capture.buf.Bytes(),
				}
				if raw, err := json.Marshal(cached); err == nil {
					// Detached context: the request may already be done.
					_ = rdb.SetEx(context.Background(), key, raw, cfg.TTL).Err()
				}
			}
			return nil
		}
	}
}

// cacheKey hashes route + query so distinct filters cache separately.
func cacheKey(prefix string, c echo.Context) string {
	tail := strings.Join([]string{c.Path(), c.Request().URL.RawQuery}, "?")
	sum := sha1.Sum([]byte(tail))
	return fmt.Sprintf("%s:%x", prefix, sum[:])
}
