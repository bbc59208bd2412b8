package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sakhi-app/core/internal/pkg/jwt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func init() { gin.SetMode(gin.TestMode) }

func TestAuth(t *testing.T) {
	signer := jwt.NewSigner("secret", time.Hour)
	r := gin.New()
	r.GET("/me", Auth(signer), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"uid": CurrentUserID(c)})
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/me", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	token, err := signer.Sign(9)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"uid":9}`, w.Body.String())
}

func TestOptionalAuth_AllowsAnonymous(t *testing.T) {
	signer := jwt.NewSigner("secret", time.Hour)
	r := gin.New()
	r.GET("/x", OptionalAuth(signer), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"auth": IsAuthenticated(c)})
	})

	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set("Authorization", "Bearer broken")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.JSONEq(t, `{"auth":false}`, w.Body.String())
}

func TestNormalizeToken(t *testing.T) {
	assert.Equal(t, "abc", NormalizeToken("  Bearer abc "))
	assert.Equal(t, "abc", NormalizeToken("bearer abc"))
	assert.Equal(t, "abc", NormalizeToken("abc"))
	assert.Equal(t, "", NormalizeToken("   "))
}

func TestLogger_SetsRequestID(t *testing.T) {
	r := gin.New()
	r.Use(Logger(zap.NewNop()))
	r.GET("/", func(c *gin.Context) { c.String(http.StatusOK, RequestID(c)) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.NotEmpty(t, w.Header().Get(HeaderRequestID))
	assert.Equal(t, w.Header().Get(HeaderRequestID), w.Body.String())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(HeaderRequestID, "abc-123")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "abc-123", w.Body.String())
}

type memCounter struct {
	mu     sync.Mutex
	counts map[string]int64
	err    error
}

func (m *memCounter) IncrWindow(_ context.Context, key string, _ time.Duration) (int64, error) {
	if m.err != nil {
		return 0, m.err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.counts == nil {
		m.counts = map[string]int64{}
	}
	m.counts[key]++
	return m.counts[key], nil
}

func TestRateLimit(t *testing.T) {
	r := gin.New()
	r.Use(RateLimit(&memCounter{}, zap.NewNop()))
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	// All requests land in the same or adjacent second windows; at least
	// one request past the limit in a window must be rejected.
	var limited int
	for i := 0; i < 2*rateLimitMax+2; i++ {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
		if w.Code == http.StatusTooManyRequests {
			limited++
			assert.Equal(t, "1", w.Header().Get("Retry-After"))
		}
	}
	assert.Greater(t, limited, 0)
}

func TestRateLimit_FailsOpen(t *testing.T) {
	r := gin.New()
	r.Use(RateLimit(&memCounter{err: errors.New("down")}, zap.NewNop()))
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	for i := 0; i < rateLimitMax+5; i++ {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
		require.Equal(t, http.StatusOK, w.Code)
	}
}

type memStore struct {
	mu   sync.Mutex
	data map[string]string
}

func (m *memStore) SetNX(_ context.Context, key string, value interface{}, _ time.Duration) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.data == nil {
		m.data = map[string]string{}
	}
	if _, ok := m.data[key]; ok {
		return false, nil
	}
	m.data[key] = value.(string)
	return true, nil
}

func (m *memStore) Get(_ context.Context, key string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.data[key], nil
}

func (m *memStore) Replace(_ context.Context, key string, value interface{}) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value.(string)
	return nil
}

func (m *memStore) Del(_ context.Context, keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, k := range keys {
		delete(m.data, k)
	}
	return nil
}

func TestIdempotence(t *testing.T) {
	status := http.StatusCreated
	r := gin.New()
	r.Use(Idempotence(&memStore{}))
	r.POST("/api/v1/community/posts", func(c *gin.Context) { c.Status(status) })
	r.POST("/api/v1/auth/login", func(c *gin.Context) { c.Status(http.StatusOK) })

	send := func(path, body string) int {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, path, strings.NewReader(body)))
		return w.Code
	}

	assert.Equal(t, http.StatusCreated, send("/api/v1/community/posts", `{"content":"hi"}`))
	assert.Equal(t, http.StatusConflict, send("/api/v1/community/posts", `{"content":"hi"}`))
	assert.Equal(t, http.StatusCreated, send("/api/v1/community/posts", `{"content":"other"}`))

	assert.Equal(t, http.StatusOK, send("/api/v1/auth/login", `{}`))
	assert.Equal(t, http.StatusOK, send("/api/v1/auth/login", `{}`))

	// failed writes release the key
	status = http.StatusBadRequest
	assert.Equal(t, http.StatusBadRequest, send("/api/v1/community/posts", `{"content":"x"}`))
	assert.Equal(t, http.StatusBadRequest, send("/api/v1/community/posts", `{"content":"x"}`))
}
