package app

import (
	"runtime"

	"github.com/gin-gonic/gin"
	"github.com/sakhi-app/core/internal/config"
	"github.com/sakhi-app/core/internal/database"
	"github.com/sakhi-app/core/internal/middleware"
	"github.com/sakhi-app/core/internal/modules/assistant/chat"
	"github.com/sakhi-app/core/internal/modules/auth/user"
	"github.com/sakhi-app/core/internal/modules/community/meetup"
	"github.com/sakhi-app/core/internal/modules/community/post"
	"github.com/sakhi-app/core/internal/modules/health/insights"
	"github.com/sakhi-app/core/internal/modules/health/menopause"
	"github.com/sakhi-app/core/internal/modules/health/period"
	"github.com/sakhi-app/core/internal/modules/i18n/translation"
	"github.com/sakhi-app/core/internal/modules/storage/backup"
	"github.com/sakhi-app/core/internal/modules/system/health"
	"github.com/sakhi-app/core/internal/pkg/jwt"
	"github.com/sakhi-app/core/internal/pkg/response"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type services struct {
	signer      *jwt.Signer
	user        *user.Service
	period      *period.Service
	menopause   *menopause.Service
	insights    *insights.Service
	translation *translation.Service
	post        *post.Service
	meetup      *meetup.Service
	chat        *chat.Service
	backup      *backup.Service
}

func buildServices(db *gorm.DB, cfg *config.AppConfig, logger *zap.Logger) (*services, error) {
	aiClient := newAIClient(cfg, logger)
	languages := cfg.Translation.Languages

	s := &services{signer: jwt.NewSigner(cfg.JWTSecret, cfg.TokenTTL)}
	s.translation = translation.NewService(
		translation.NewStore(db),
		translation.NewProvider(cfg.Translation, aiClient),
		languages,
		cfg.Translation.Timeout,
		logger.Named("TranslationService"),
	)
	s.user = user.NewService(db, languages)
	s.period = period.NewService(db)
	s.menopause = menopause.NewService(db, s.period)
	s.insights = insights.NewService(db, s.period, aiClient, logger.Named("InsightsService"))
	s.post = post.NewService(db, s.translation)
	s.meetup = meetup.NewService(db)
	s.chat = chat.NewService(db, s.period, s.post, aiClient, languages, logger.Named("ChatService"))

	b, err := NewBackupService(db, cfg, logger)
	if err != nil {
		return nil, err
	}
	s.backup = b
	return s, nil
}

func (a *App) registerRoutes() {
	s := a.services
	authMW := middleware.Auth(s.signer)
	api := a.router.Group("/api/v1")

	var cache health.Pinger
	if a.rc != nil {
		cache = a.rc
	}
	health.NewHandler(a.db, cache, a.sched, gin.H{
		"name":           "sakhi",
		"version":        Version,
		"env":            a.cfg.Env,
		"go":             runtime.Version(),
		"schema_version": database.LatestVersion(),
		"languages":      a.cfg.Translation.Languages,
	}).RegisterRoutes(api)

	user.NewHandler(s.user, s.signer).RegisterRoutes(api, authMW)
	period.NewHandler(s.period).RegisterRoutes(api, authMW)
	menopause.NewHandler(s.menopause).RegisterRoutes(api, authMW)
	insights.NewHandler(s.insights).RegisterRoutes(api, authMW)
	translation.NewHandler(s.translation).RegisterRoutes(api, authMW)
	post.NewHandler(s.post).RegisterRoutes(api, authMW)
	meetup.NewHandler(s.meetup, s.signer).RegisterRoutes(api, authMW)
	chat.NewHandler(s.chat).RegisterRoutes(api, authMW)

	a.router.NoRoute(func(c *gin.Context) {
		response.NotFoundMsg(c, "route not found")
	})
}
