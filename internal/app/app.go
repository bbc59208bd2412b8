package app

import (
	"context"
	"fmt"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sakhi-app/core/internal/config"
	"github.com/sakhi-app/core/internal/database"
	"github.com/sakhi-app/core/internal/middleware"
	"github.com/sakhi-app/core/internal/modules/processing/ai"
	"github.com/sakhi-app/core/internal/modules/storage/backup"
	pkgcron "github.com/sakhi-app/core/internal/pkg/cron"
	pkgredis "github.com/sakhi-app/core/internal/pkg/redis"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Version is stamped at build time via -ldflags.
var Version = "dev"

// App wires the database, optional redis, scheduler and the HTTP router.
type App struct {
	cfg       *config.AppConfig
	router    *gin.Engine
	db        *gorm.DB
	rc        *pkgredis.Client
	sched     *pkgcron.Scheduler
	logger    *zap.Logger
	services  *services
	cancel    context.CancelFunc
	startedAt time.Time
}

func New(logger *zap.Logger, cfg *config.AppConfig) (*App, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg == nil {
		cfg = config.Default()
	}
	if !cfg.IsDev() {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.Connect(cfg, true)
	if err != nil {
		return nil, fmt.Errorf("database: %w", err)
	}

	var rc *pkgredis.Client
	if cfg.RedisURL != "" {
		rc, err = pkgredis.Connect(cfg.RedisURL)
		if err != nil {
			// rate limiting and idempotence are skipped without redis
			logger.Warn("redis unavailable, continuing without it", zap.Error(err))
			rc = nil
		}
	}

	a := &App{
		cfg:       cfg,
		db:        db,
		rc:        rc,
		logger:    logger,
		sched:     pkgcron.New(logger.Named("CronService")),
		startedAt: time.Now(),
	}
	a.services, err = buildServices(db, cfg, logger)
	if err != nil {
		if rc != nil {
			_ = rc.Close()
		}
		_ = database.Close(db)
		return nil, err
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.Logger(logger.Named("HTTP")))
	r.Use(cors.New(corsConfig(cfg)))
	if rc != nil {
		r.Use(middleware.RateLimit(rc, logger.Named("RateLimit")))
		r.Use(middleware.Idempotence(rc))
	}
	a.router = r
	a.registerRoutes()
	registerCronJobs(a.sched, a.services, cfg, logger)

	ctx, cancel := context.WithCancel(context.Background())
	a.cancel = cancel
	a.sched.Start(ctx)
	return a, nil
}

func (a *App) Router() *gin.Engine { return a.router }

func (a *App) Addr() string { return fmt.Sprintf(":%d", a.cfg.Port) }

// Backup exposes the backup service for the CLI.
func (a *App) Backup() *backup.Service { return a.services.backup }

// Shutdown stops the scheduler and releases connections.
func (a *App) Shutdown() {
	if a.cancel != nil {
		a.cancel()
	}
	a.sched.Wait()
	if a.rc != nil {
		if err := a.rc.Close(); err != nil {
			a.logger.Warn("close redis", zap.Error(err))
		}
	}
	if err := database.Close(a.db); err != nil {
		a.logger.Warn("close database", zap.Error(err))
	}
}

// NewBackupService builds a backup service without the HTTP stack.
func NewBackupService(db *gorm.DB, cfg *config.AppConfig, logger *zap.Logger) (*backup.Service, error) {
	var uploader backup.Uploader
	if cfg.S3Enabled() {
		u, err := backup.NewS3Uploader(cfg.Backup.S3)
		if err != nil {
			return nil, fmt.Errorf("s3 uploader: %w", err)
		}
		uploader = u
	}
	return backup.NewService(db, cfg.BackupDir(), cfg.Backup.S3.Prefix, uploader, logger.Named("BackupService")), nil
}

// newAIClient is split out so tests can see which provider is active.
func newAIClient(cfg *config.AppConfig, logger *zap.Logger) *ai.Client {
	return ai.New(cfg.AI, logger.Named("AI"))
}
