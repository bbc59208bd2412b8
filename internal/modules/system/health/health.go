// Package health serves liveness and readiness probes.
package health

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sakhi-app/core/internal/database"
	"github.com/sakhi-app/core/internal/pkg/cron"
	"github.com/sakhi-app/core/internal/pkg/response"
	"gorm.io/gorm"
)

const pingTimeout = 2 * time.Second

// Pinger is satisfied by the redis client.
type Pinger interface {
	Ping(ctx context.Context) error
}

type Handler struct {
	db      *gorm.DB
	cache   Pinger
	sched   *cron.Scheduler
	info    gin.H
	started time.Time
}

// NewHandler builds the probe handler. cache and sched may be nil.
func NewHandler(db *gorm.DB, cache Pinger, sched *cron.Scheduler, info gin.H) *Handler {
	return &Handler{db: db, cache: cache, sched: sched, info: info, started: time.Now()}
}

// RegisterRoutes mounts / /ping /health and /health/cron on rg.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("", h.root)
	rg.GET("/ping", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"data": "pong"}) })
	rg.GET("/health", h.health)
	rg.GET("/health/cron", h.cron)
}

func (h *Handler) root(c *gin.Context) {
	out := gin.H{"uptime": time.Since(h.started).Truncate(time.Second).String()}
	for k, v := range h.info {
		out[k] = v
	}
	c.PureJSON(http.StatusOK, out)
}

// health is 200 when the database answers, 503 otherwise. Redis is
// optional and only reported.
func (h *Handler) health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), pingTimeout)
	defer cancel()

	dbOK := false
	if sqlDB, err := h.db.DB(); err == nil {
		dbOK = sqlDB.PingContext(ctx) == nil
	}
	out := gin.H{
		"status":         "ok",
		"database":       dbOK,
		"schema_version": database.LatestVersion(),
	}
	if h.cache != nil {
		out["redis"] = h.cache.Ping(ctx) == nil
	}
	if !dbOK {
		out["status"] = "degraded"
		c.JSON(http.StatusServiceUnavailable, out)
		return
	}
	c.JSON(http.StatusOK, out)
}

func (h *Handler) cron(c *gin.Context) {
	if h.sched == nil {
		response.OK(c, []cron.JobInfo{})
		return
	}
	response.OK(c, h.sched.List())
}
