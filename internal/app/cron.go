package app

import (
	"context"
	"time"

	"github.com/sakhi-app/core/internal/config"
	pkgcron "github.com/sakhi-app/core/internal/pkg/cron"
	"go.uber.org/zap"
)

const (
	chatCleanupInterval = 24 * time.Hour
	cacheReportInterval = 6 * time.Hour
)

func registerCronJobs(sched *pkgcron.Scheduler, s *services, cfg *config.AppConfig, logger *zap.Logger) {
	log := logger.Named("CronService")

	if cfg.Backup.Enabled {
		keep := cfg.Backup.Keep
		sched.Register(pkgcron.Job{
			Name:        "auto_backup",
			Description: "Archive every table and prune old archives",
			Interval:    cfg.Backup.Interval,
			Fn: func(ctx context.Context) error {
				art, err := s.backup.Create(ctx)
				if err != nil && art == nil {
					return err
				}
				if keep > 0 {
					removed, perr := s.backup.Prune(keep)
					if perr != nil {
						log.Warn("prune backups", zap.Error(perr))
					} else if removed > 0 {
						log.Info("pruned backups", zap.Int("removed", removed))
					}
				}
				// local archive exists, the upload failed
				return err
			},
		})
	}

	if days := cfg.Chat.HistoryRetentionDays; days > 0 {
		sched.Register(pkgcron.Job{
			Name:        "cleanup_chat_history",
			Description: "Delete chat exchanges past the retention window",
			Interval:    chatCleanupInterval,
			Fn: func(ctx context.Context) error {
				cutoff := time.Now().AddDate(0, 0, -days)
				n, err := s.chat.PurgeBefore(cutoff)
				if err != nil {
					return err
				}
				log.Info("purged chat history", zap.Int64("rows", n), zap.Time("before", cutoff))
				return nil
			},
		})
	}

	sched.Register(pkgcron.Job{
		Name:        "translation_cache_report",
		Description: "Log translation cache size and hit rate",
		Interval:    cacheReportInterval,
		Fn: func(ctx context.Context) error {
			st, err := s.translation.Stats(ctx)
			if err != nil {
				return err
			}
			log.Info("translation cache",
				zap.Int64("entries", st.CachedTranslations),
				zap.Int64("accesses", st.TotalAccesses),
				zap.String("hit_rate", st.CacheHitRate),
				zap.String("cost_saved", st.EstimatedCostSaved),
			)
			return nil
		},
	})
}
