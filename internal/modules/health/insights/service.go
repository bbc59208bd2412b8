package insights

import (
	"context"
	"errors"

	"github.com/sakhi-app/core/internal/analytics"
	"github.com/sakhi-app/core/internal/models"
	"github.com/sakhi-app/core/internal/modules/processing/ai"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// PeriodSource supplies a member's recent period logs, newest first.
type PeriodSource interface {
	Recent(userID uint, n int) ([]models.PeriodLog, error)
}

type Service struct {
	db        *gorm.DB
	periods   PeriodSource
	completer ai.Completer
	log       *zap.Logger
}

func NewService(db *gorm.DB, periods PeriodSource, completer ai.Completer, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{db: db, periods: periods, completer: completer, log: log.Named("insights")}
}

// PeriodInsights analyzes the last 12 periods. Model output is preferred;
// any model failure falls back to rule-based insights.
func (s *Service) PeriodInsights(ctx context.Context, userID uint) (Report, error) {
	logs, err := s.periods.Recent(userID, historyWindow)
	if err != nil {
		return Report{}, err
	}
	if len(logs) < minLogs {
		return notEnoughData(), nil
	}
	stats := analytics.ComputeCycleStats(logs)

	if s.completer == nil || !s.completer.Enabled() {
		return ruleBased(stats, logs), nil
	}
	report, err := s.generate(ctx, logs, stats)
	if err != nil {
		s.log.Warn("ai insights unavailable, using rules", zap.Uint("user_id", userID), zap.Error(err))
		return ruleBased(stats, logs), nil
	}
	return report, nil
}

var errNoInsights = errors.New("model returned no insights")

func (s *Service) generate(ctx context.Context, logs []models.PeriodLog, stats analytics.CycleStats) (Report, error) {
	raw, err := s.completer.Complete(ctx, systemPrompt, buildPrompt(logs, stats))
	if err != nil {
		return Report{}, err
	}
	var report Report
	if err := ai.UnmarshalJSON(raw, &report); err != nil {
		return Report{}, err
	}
	if len(report.Insights) == 0 {
		return Report{}, errNoInsights
	}
	if report.Recommendations == nil {
		report.Recommendations = []string{}
	}
	if report.HealthFlags == nil {
		report.HealthFlags = []string{}
	}
	if report.LifestyleTips == nil {
		report.LifestyleTips = []string{}
	}
	report.CycleStats = &stats
	report.AIPowered = true
	return report, nil
}

// Summary reports how actively the member tracks.
func (s *Service) Summary(userID uint) (HealthSummary, error) {
	var out HealthSummary
	if err := s.db.Model(&models.PeriodLog{}).Where("user_id = ?", userID).Count(&out.TotalCyclesTracked).Error; err != nil {
		return out, err
	}
	if err := s.db.Model(&models.SymptomLog{}).Where("user_id = ?", userID).Count(&out.SymptomLogs).Error; err != nil {
		return out, err
	}
	today := models.Today()
	if err := s.db.Model(&models.Treatment{}).
		Where("user_id = ? AND (end_date IS NULL OR end_date >= ?)", userID, today).
		Count(&out.ActiveTreatments).Error; err != nil {
		return out, err
	}
	latest, err := s.periods.Recent(userID, 1)
	if err != nil {
		return out, err
	}
	if len(latest) > 0 {
		d := latest[0].StartDate.String()
		out.LastPeriodDate = &d
	}
	out.TrackingActive = out.TotalCyclesTracked > 0
	return out, nil
}
