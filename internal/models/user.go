package models

import "strings"

// Menopause stages accepted on the user profile.
const (
	StagePreMenopause       = "pre-menopause"
	StageEarlyPerimenopause = "early-perimenopause"
	StageLatePerimenopause  = "late-perimenopause"
	StageMenopause          = "menopause"
	StagePostMenopause      = "post-menopause"
)

var menopauseStages = []string{
	StagePreMenopause,
	StageEarlyPerimenopause,
	StageLatePerimenopause,
	StageMenopause,
	StagePostMenopause,
}

// ValidMenopauseStage reports whether stage is one of the known stages.
func ValidMenopauseStage(stage string) bool {
	stage = strings.TrimSpace(stage)
	for _, s := range menopauseStages {
		if s == stage {
			return true
		}
	}
	return false
}

// User is an app member. Phone is optional; anonymous members post under
// a generated display name.
type User struct {
	Model
	Phone          *string `json:"phone"           gorm:"size:32;uniqueIndex"`
	Name           string  `json:"name"            gorm:"size:128"`
	LanguagePref   string  `json:"language_pref"   gorm:"size:8;default:en"`
	City           string  `json:"city"            gorm:"size:128"`
	Anonymous      bool    `json:"anonymous"       gorm:"default:false"`
	Age            *int    `json:"age"`
	MenopauseStage string  `json:"menopause_stage" gorm:"size:32;default:pre-menopause"`
	PinHash        string  `json:"-"               gorm:"size:255"`
}

func (User) TableName() string { return "users" }
