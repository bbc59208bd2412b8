package models

import "strings"

// Flow levels recorded on a period log.
const (
	FlowLight  = 1
	FlowMedium = 2
	FlowHeavy  = 3
)

// FlowName returns the human label of a flow level.
func FlowName(level int) string {
	switch level {
	case FlowLight:
		return "light"
	case FlowMedium:
		return "medium"
	case FlowHeavy:
		return "heavy"
	default:
		return "unknown"
	}
}

// PeriodLog is one recorded period.
type PeriodLog struct {
	Model
	UserID    uint        `json:"user_id"    gorm:"not null;index:idx_period_logs_user_start,priority:1"`
	StartDate Date        `json:"start_date" gorm:"not null;index:idx_period_logs_user_start,priority:2"`
	EndDate   *Date       `json:"end_date"`
	FlowLevel int         `json:"flow_level" gorm:"not null"`
	Symptoms  StringArray `json:"symptoms"   gorm:"type:text"`
	Notes     string      `json:"notes"      gorm:"type:text"`
}

func (PeriodLog) TableName() string { return "period_logs" }

// DurationDays is the inclusive length of the period, or 0 while it is ongoing.
func (p PeriodLog) DurationDays() int {
	if p.EndDate == nil || p.EndDate.IsZero() {
		return 0
	}
	return p.EndDate.DaysSince(p.StartDate) + 1
}

// SymptomFields lists the severity columns of a symptom log in a fixed order.
var SymptomFields = []string{
	"hot_flashes",
	"night_sweats",
	"mood_changes",
	"sleep_issues",
	"joint_pain",
	"brain_fog",
	"vaginal_dryness",
	"fatigue",
	"anxiety",
	"heart_palpitations",
}

// SymptomLog is a daily menopause symptom record. Hot flashes is a count,
// the other fields are 0-10 severities.
type SymptomLog struct {
	Model
	UserID            uint    `json:"user_id"            gorm:"not null;index:idx_menopause_symptoms_user_date,priority:1"`
	LogDate           Date    `json:"log_date"           gorm:"not null;index:idx_menopause_symptoms_user_date,priority:2"`
	HotFlashes        int     `json:"hot_flashes"        gorm:"default:0"`
	NightSweats       int     `json:"night_sweats"       gorm:"default:0"`
	MoodChanges       int     `json:"mood_changes"       gorm:"default:0"`
	SleepIssues       int     `json:"sleep_issues"       gorm:"default:0"`
	JointPain         int     `json:"joint_pain"         gorm:"default:0"`
	BrainFog          int     `json:"brain_fog"          gorm:"default:0"`
	VaginalDryness    int     `json:"vaginal_dryness"    gorm:"default:0"`
	Fatigue           int     `json:"fatigue"            gorm:"default:0"`
	WeightGain        float64 `json:"weight_gain"        gorm:"default:0"`
	Anxiety           int     `json:"anxiety"            gorm:"default:0"`
	HeartPalpitations int     `json:"heart_palpitations" gorm:"default:0"`
	Notes             string  `json:"notes"              gorm:"type:text"`
}

func (SymptomLog) TableName() string { return "menopause_symptoms" }

// Severities returns the values of SymptomFields in the same order.
func (s SymptomLog) Severities() []int {
	return []int{
		s.HotFlashes,
		s.NightSweats,
		s.MoodChanges,
		s.SleepIssues,
		s.JointPain,
		s.BrainFog,
		s.VaginalDryness,
		s.Fatigue,
		s.Anxiety,
		s.HeartPalpitations,
	}
}

// Treatment is a menopause treatment course (HRT, supplement, lifestyle...).
type Treatment struct {
	Model
	UserID        uint   `json:"user_id"        gorm:"not null;index"`
	TreatmentType string `json:"treatment_type" gorm:"size:64;not null"`
	TreatmentName string `json:"treatment_name" gorm:"size:255;not null"`
	StartDate     Date   `json:"start_date"     gorm:"not null"`
	EndDate       *Date  `json:"end_date"`
	Dosage        string `json:"dosage"         gorm:"size:255"`
	Effectiveness *int   `json:"effectiveness"`
	SideEffects   string `json:"side_effects"   gorm:"type:text"`
	Notes         string `json:"notes"          gorm:"type:text"`
}

func (Treatment) TableName() string { return "menopause_treatments" }

// ActiveOn reports whether the course has not ended before day.
func (t Treatment) ActiveOn(day Date) bool {
	return t.EndDate == nil || t.EndDate.IsZero() || !t.EndDate.Before(day)
}

// IsHRT reports whether the treatment is hormone replacement therapy.
func (t Treatment) IsHRT() bool {
	return strings.EqualFold(strings.TrimSpace(t.TreatmentType), "HRT")
}
