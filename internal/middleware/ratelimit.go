package middleware

import (
	"context"
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sakhi-app/core/internal/pkg/response"
	"go.uber.org/zap"
)

const (
	rateLimitMax    = 50
	rateLimitWindow = time.Second
)

// WindowCounter counts hits in a fixed window; the redis client implements it.
type WindowCounter interface {
	IncrWindow(ctx context.Context, key string, window time.Duration) (int64, error)
}

// RateLimit caps anonymous callers at 50 requests per second per IP.
// Counter failures let the request through.
func RateLimit(counter WindowCounter, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if counter == nil || IsAuthenticated(c) {
			c.Next()
			return
		}

		ip := c.ClientIP()
		if ip == "" {
			c.Next()
			return
		}

		key := fmt.Sprintf("sakhi:rate_limit:%s:%d", ip, time.Now().Unix())
		count, err := counter.IncrWindow(c.Request.Context(), key, rateLimitWindow+time.Second)
		if err != nil {
			c.Next()
			return
		}

		if count > rateLimitMax {
			if count == rateLimitMax+1 {
				log.Warn("rate limited", zap.String("ip", ip), zap.String("path", c.Request.URL.Path))
			}
			c.Header("Retry-After", "1")
			response.TooManyRequests(c)
			return
		}
		c.Next()
	}
}
