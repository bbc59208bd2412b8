package period

import (
	"errors"
	"time"

	"github.com/sakhi-app/core/internal/analytics"
	"github.com/sakhi-app/core/internal/models"
	"gorm.io/gorm"
)

type Service struct {
	db  *gorm.DB
	now func() time.Time
}

func NewService(db *gorm.DB) *Service { return &Service{db: db, now: time.Now} }

// Recent returns up to n logs of userID, newest start first. n <= 0 means all.
func (s *Service) Recent(userID uint, n int) ([]models.PeriodLog, error) {
	tx := s.db.Where("user_id = ?", userID).Order("start_date DESC").Order("id DESC")
	if n > 0 {
		tx = tx.Limit(n)
	}
	var logs []models.PeriodLog
	return logs, tx.Find(&logs).Error
}

func (s *Service) Create(userID uint, dto *CreateLogDTO) (*models.PeriodLog, error) {
	if dto.StartDate.IsZero() {
		return nil, errStartRequired
	}
	if dto.StartDate.After(models.NewDate(s.now())) {
		return nil, errStartInFuture
	}
	end := dto.EndDate
	if end != nil && end.IsZero() {
		end = nil
	}
	if end != nil && end.Before(dto.StartDate) {
		return nil, errEndBeforeStart
	}
	l := models.PeriodLog{
		UserID:    userID,
		StartDate: dto.StartDate,
		EndDate:   end,
		FlowLevel: dto.FlowLevel,
		Symptoms:  dto.Symptoms,
		Notes:     dto.Notes,
	}
	return &l, s.db.Create(&l).Error
}

func (s *Service) Get(userID, id uint) (*models.PeriodLog, error) {
	var l models.PeriodLog
	if err := s.db.Where("id = ? AND user_id = ?", id, userID).First(&l).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errLogNotFound
		}
		return nil, err
	}
	return &l, nil
}

// Update closes or amends a log, typically to record the end date.
func (s *Service) Update(userID, id uint, dto *UpdateLogDTO) (*models.PeriodLog, error) {
	l, err := s.Get(userID, id)
	if err != nil {
		return nil, err
	}
	updates := map[string]interface{}{}
	if dto.EndDate != nil {
		if dto.EndDate.Before(l.StartDate) {
			return nil, errEndBeforeStart
		}
		updates["end_date"] = *dto.EndDate
		l.EndDate = dto.EndDate
	}
	if dto.FlowLevel != nil {
		updates["flow_level"] = *dto.FlowLevel
		l.FlowLevel = *dto.FlowLevel
	}
	if dto.Symptoms != nil {
		updates["symptoms"] = *dto.Symptoms
		l.Symptoms = *dto.Symptoms
	}
	if dto.Notes != nil {
		updates["notes"] = *dto.Notes
		l.Notes = *dto.Notes
	}
	if len(updates) == 0 {
		return l, nil
	}
	return l, s.db.Model(l).Updates(updates).Error
}

func (s *Service) Delete(userID, id uint) error {
	res := s.db.Where("id = ? AND user_id = ?", id, userID).Delete(&models.PeriodLog{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return errLogNotFound
	}
	return nil
}

// Analytics summarizes the most recent logs.
func (s *Service) Analytics(userID uint) (analytics.CycleAnalytics, error) {
	logs, err := s.Recent(userID, analyticsWindow)
	if err != nil {
		return analytics.CycleAnalytics{}, err
	}
	return analytics.SummarizeCycles(logs), nil
}
