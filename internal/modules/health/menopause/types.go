package menopause

import (
	"errors"

	"github.com/sakhi-app/core/internal/models"
)

const (
	defaultSymptomLimit = 30
	periodWindow        = 20
	symptomWindow       = 90
)

type SymptomDTO struct {
	LogDate           models.Date `json:"log_date"`
	HotFlashes        int         `json:"hot_flashes"        binding:"min=0,max=100"`
	NightSweats       int         `json:"night_sweats"       binding:"min=0,max=10"`
	MoodChanges       int         `json:"mood_changes"       binding:"min=0,max=10"`
	SleepIssues       int         `json:"sleep_issues"       binding:"min=0,max=10"`
	JointPain         int         `json:"joint_pain"         binding:"min=0,max=10"`
	BrainFog          int         `json:"brain_fog"          binding:"min=0,max=10"`
	VaginalDryness    int         `json:"vaginal_dryness"    binding:"min=0,max=10"`
	Fatigue           int         `json:"fatigue"            binding:"min=0,max=10"`
	WeightGain        float64     `json:"weight_gain"`
	Anxiety           int         `json:"anxiety"            binding:"min=0,max=10"`
	HeartPalpitations int         `json:"heart_palpitations" binding:"min=0,max=10"`
	Notes             string      `json:"notes"`
}

type TreatmentDTO struct {
	TreatmentType string       `json:"treatment_type" binding:"required,max=64"`
	TreatmentName string       `json:"treatment_name" binding:"required,max=255"`
	StartDate     models.Date  `json:"start_date"`
	EndDate       *models.Date `json:"end_date"`
	Dosage        string       `json:"dosage"`
	Effectiveness *int         `json:"effectiveness"  binding:"omitempty,min=0,max=10"`
	SideEffects   string       `json:"side_effects"`
	Notes         string       `json:"notes"`
}

type UpdateTreatmentDTO struct {
	EndDate       *models.Date `json:"end_date"`
	Dosage        *string      `json:"dosage"`
	Effectiveness *int         `json:"effectiveness" binding:"omitempty,min=0,max=10"`
	SideEffects   *string      `json:"side_effects"`
	Notes         *string      `json:"notes"`
}

type treatmentResponse struct {
	models.Treatment
	Active bool `json:"active"`
}

var (
	errDateRequired      = errors.New("date is required")
	errEndBeforeStart    = errors.New("end_date must be on or after start_date")
	errTreatmentNotFound = errors.New("treatment not found")
	errUserNotFound      = errors.New("user not found")
)
