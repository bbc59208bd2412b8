package health

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sakhi-app/core/internal/pkg/cron"
	"github.com/sakhi-app/core/internal/pkg/testdb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakePinger struct{ err error }

func (f fakePinger) Ping(context.Context) error { return f.err }

func serve(t *testing.T, h *Handler, path string) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h.RegisterRoutes(r.Group("/api/v1"))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return w, body
}

func TestHealth(t *testing.T) {
	db := testdb.New(t)

	w, body := serve(t, NewHandler(db, fakePinger{errors.New("down")}, nil, nil), "/api/v1/health")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, true, body["database"])
	assert.Equal(t, false, body["redis"])

	_, body = serve(t, NewHandler(db, nil, nil, nil), "/api/v1/health")
	assert.NotContains(t, body, "redis")

	sqlDB, err := db.DB()
	require.NoError(t, err)
	require.NoError(t, sqlDB.Close())
	w, body = serve(t, NewHandler(db, nil, nil, nil), "/api/v1/health")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Equal(t, "degraded", body["status"])
}

func TestRootPingAndCron(t *testing.T) {
	db := testdb.New(t)
	sched := cron.New(zap.NewNop())
	sched.Register(cron.Job{Name: "auto_backup", Interval: time.Hour, Fn: func(context.Context) error { return nil }})
	h := NewHandler(db, nil, sched, gin.H{"name": "sakhi-core"})

	_, body := serve(t, h, "/api/v1")
	assert.Equal(t, "sakhi-core", body["name"])
	assert.Contains(t, body, "uptime")

	_, body = serve(t, h, "/api/v1/ping")
	assert.Equal(t, "pong", body["data"])

	_, body = serve(t, h, "/api/v1/health/cron")
	jobs, ok := body["data"].([]interface{})
	require.True(t, ok)
	require.Len(t, jobs, 1)
	assert.Equal(t, "auto_backup", jobs[0].(map[string]interface{})["name"])
}
