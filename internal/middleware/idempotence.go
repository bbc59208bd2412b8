package middleware

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sakhi-app/core/internal/pkg/response"
)

const (
	idempotenceHeader = "X-Idempotency-Key"
	idempotenceTTL    = 60 * time.Second

	idempotencePending = "0"
	idempotenceDone    = "1"
)

// IdempotenceStore is the key store behind Idempotence; the redis client implements it.
type IdempotenceStore interface {
	SetNX(ctx context.Context, key string, value interface{}, ttl time.Duration) (bool, error)
	Get(ctx context.Context, key string) (string, error)
	Replace(ctx context.Context, key string, value interface{}) error
	Del(ctx context.Context, keys ...string) error
}

// Idempotence rejects a repeated write within 60 seconds of an identical one,
// which mobile clients on flaky networks tend to send twice. Store failures
// let the request through.
func Idempotence(store IdempotenceStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		if store == nil || !isWriteMethod(c.Request.Method) || skipIdempotence(c.Request.URL.Path) {
			c.Next()
			return
		}

		key, err := idempotenceKey(c)
		if err != nil || key == "" {
			c.Next()
			return
		}

		ctx := c.Request.Context()
		storeKey := "sakhi:idempotence:" + key
		fresh, err := store.SetNX(ctx, storeKey, idempotencePending, idempotenceTTL)
		if err != nil {
			c.Next()
			return
		}
		if !fresh {
			msg := "The same request can only be sent once per minute"
			if val, _ := store.Get(ctx, storeKey); val == idempotencePending {
				msg = "The same request is still being processed"
			}
			response.Conflict(c, msg)
			return
		}

		c.Next()

		if status := c.Writer.Status(); status >= 200 && status < 300 {
			_ = store.Replace(ctx, storeKey, idempotenceDone)
		} else {
			_ = store.Del(ctx, storeKey)
		}
	}
}

func isWriteMethod(method string) bool {
	switch method {
	case http.MethodPost, http.MethodPut, http.MethodPatch:
		return true
	default:
		return false
	}
}

func skipIdempotence(path string) bool {
	p := strings.TrimRight(strings.ToLower(strings.TrimSpace(path)), "/")
	switch p {
	case "/api/v1/auth/login", "/api/v1/auth/register":
		return true
	}
	return strings.HasPrefix(p, "/api/v1/translation/")
}

// idempotenceKey prefers the client key, else hashes the request identity.
func idempotenceKey(c *gin.Context) (string, error) {
	if hdr := strings.TrimSpace(c.GetHeader(idempotenceHeader)); hdr != "" {
		return fmt.Sprintf("%s|%s", extractToken(c), hdr), nil
	}

	var body []byte
	if c.Request.Body != nil {
		var err error
		body, err = io.ReadAll(c.Request.Body)
		if err != nil {
			return "", err
		}
		c.Request.Body = io.NopCloser(bytes.NewBuffer(body))
	}

	raw := strings.Join([]string{
		c.Request.Method,
		c.Request.URL.String(),
		string(body),
		c.Request.UserAgent(),
		c.ClientIP(),
		extractToken(c),
	}, "|")
	h := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(h[:]), nil
}
