package menopause

import (
	"errors"
	"strings"
	"time"

	"github.com/sakhi-app/core/internal/analytics"
	"github.com/sakhi-app/core/internal/models"
	"gorm.io/gorm"
)

// PeriodSource supplies a member's recent period logs, newest first.
type PeriodSource interface {
	Recent(userID uint, n int) ([]models.PeriodLog, error)
}

type Service struct {
	db      *gorm.DB
	periods PeriodSource
	now     func() time.Time
}

func NewService(db *gorm.DB, periods PeriodSource) *Service {
	return &Service{db: db, periods: periods, now: time.Now}
}

func (s *Service) LogSymptoms(userID uint, dto *SymptomDTO) (*models.SymptomLog, error) {
	day := dto.LogDate
	if day.IsZero() {
		day = models.NewDate(s.now())
	}
	l := models.SymptomLog{
		UserID:            userID,
		LogDate:           day,
		HotFlashes:        dto.HotFlashes,
		NightSweats:       dto.NightSweats,
		MoodChanges:       dto.MoodChanges,
		SleepIssues:       dto.SleepIssues,
		JointPain:         dto.JointPain,
		BrainFog:          dto.BrainFog,
		VaginalDryness:    dto.VaginalDryness,
		Fatigue:           dto.Fatigue,
		WeightGain:        dto.WeightGain,
		Anxiety:           dto.Anxiety,
		HeartPalpitations: dto.HeartPalpitations,
		Notes:             dto.Notes,
	}
	return &l, s.db.Create(&l).Error
}

// RecentSymptoms returns up to limit observations, newest first.
func (s *Service) RecentSymptoms(userID uint, limit int) ([]models.SymptomLog, error) {
	if limit <= 0 {
		limit = defaultSymptomLimit
	}
	var logs []models.SymptomLog
	err := s.db.Where("user_id = ?", userID).
		Order("log_date DESC").Order("id DESC").
		Limit(limit).Find(&logs).Error
	return logs, err
}

func (s *Service) AddTreatment(userID uint, dto *TreatmentDTO) (*models.Treatment, error) {
	if dto.StartDate.IsZero() {
		return nil, errDateRequired
	}
	end := dto.EndDate
	if end != nil && end.IsZero() {
		end = nil
	}
	if end != nil && end.Before(dto.StartDate) {
		return nil, errEndBeforeStart
	}
	t := models.Treatment{
		UserID:        userID,
		TreatmentType: strings.TrimSpace(dto.TreatmentType),
		TreatmentName: strings.TrimSpace(dto.TreatmentName),
		StartDate:     dto.StartDate,
		EndDate:       end,
		Dosage:        dto.Dosage,
		Effectiveness: dto.Effectiveness,
		SideEffects:   dto.SideEffects,
		Notes:         dto.Notes,
	}
	return &t, s.db.Create(&t).Error
}

func (s *Service) Treatments(userID uint) ([]models.Treatment, error) {
	var items []models.Treatment
	err := s.db.Where("user_id = ?", userID).
		Order("start_date DESC").Order("id DESC").
		Find(&items).Error
	return items, err
}

func (s *Service) getTreatment(userID, id uint) (*models.Treatment, error) {
	var t models.Treatment
	if err := s.db.Where("id = ? AND user_id = ?", id, userID).First(&t).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errTreatmentNotFound
		}
		return nil, err
	}
	return &t, nil
}

// UpdateTreatment records an end date, dosage change or effectiveness rating.
func (s *Service) UpdateTreatment(userID, id uint, dto *UpdateTreatmentDTO) (*models.Treatment, error) {
	t, err := s.getTreatment(userID, id)
	if err != nil {
		return nil, err
	}
	updates := map[string]interface{}{}
	if dto.EndDate != nil {
		if dto.EndDate.Before(t.StartDate) {
			return nil, errEndBeforeStart
		}
		updates["end_date"] = *dto.EndDate
		t.EndDate = dto.EndDate
	}
	if dto.Dosage != nil {
		updates["dosage"] = *dto.Dosage
		t.Dosage = *dto.Dosage
	}
	if dto.Effectiveness != nil {
		updates["effectiveness"] = *dto.Effectiveness
		t.Effectiveness = dto.Effectiveness
	}
	if dto.SideEffects != nil {
		updates["side_effects"] = *dto.SideEffects
		t.SideEffects = *dto.SideEffects
	}
	if dto.Notes != nil {
		updates["notes"] = *dto.Notes
		t.Notes = *dto.Notes
	}
	if len(updates) == 0 {
		return t, nil
	}
	return t, s.db.Model(t).Updates(updates).Error
}

func (s *Service) DeleteTreatment(userID, id uint) error {
	res := s.db.Where("id = ? AND user_id = ?", id, userID).Delete(&models.Treatment{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return errTreatmentNotFound
	}
	return nil
}

// Analytics builds the full menopause report from the member's profile,
// 20 newest period logs, 90 newest symptom logs and treatments.
func (s *Service) Analytics(userID uint) (analytics.MenopauseReport, error) {
	var u models.User
	if err := s.db.Select("id", "age", "menopause_stage").First(&u, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return analytics.MenopauseReport{}, errUserNotFound
		}
		return analytics.MenopauseReport{}, err
	}
	periodLogs, err := s.periods.Recent(userID, periodWindow)
	if err != nil {
		return analytics.MenopauseReport{}, err
	}
	symptoms, err := s.RecentSymptoms(userID, symptomWindow)
	if err != nil {
		return analytics.MenopauseReport{}, err
	}
	treatments, err := s.Treatments(userID)
	if err != nil {
		return analytics.MenopauseReport{}, err
	}
	stage := u.MenopauseStage
	if stage == "" {
		stage = models.StagePreMenopause
	}
	return analytics.BuildMenopauseReport(analytics.MenopauseInput{
		Age:        u.Age,
		Stage:      stage,
		PeriodLogs: periodLogs,
		Symptoms:   symptoms,
		Treatments: treatments,
		Now:        s.now(),
	}), nil
}
