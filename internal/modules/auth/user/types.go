package user

import (
	"errors"
	"time"

	"github.com/sakhi-app/core/internal/models"
)

type RegisterDTO struct {
	Name           string  `json:"name"            binding:"required,max=128"`
	Phone          *string `json:"phone"`
	Pin            string  `json:"pin"`
	LanguagePref   string  `json:"language_pref"`
	City           string  `json:"city"`
	Anonymous      bool    `json:"anonymous"`
	Age            *int    `json:"age"`
	MenopauseStage string  `json:"menopause_stage"`
}

type LoginDTO struct {
	Phone string `json:"phone"`
	Pin   string `json:"pin"`
}

type LanguageDTO struct {
	Language string `json:"language" binding:"required"`
}

type UpdateProfileDTO struct {
	Name           *string `json:"name"`
	City           *string `json:"city"`
	Age            *int    `json:"age"`
	MenopauseStage *string `json:"menopause_stage"`
	Pin            *string `json:"pin"`
}

type userResponse struct {
	ID             uint      `json:"id"`
	Phone          *string   `json:"phone,omitempty"`
	Name           string    `json:"name"`
	LanguagePref   string    `json:"language_pref"`
	City           string    `json:"city"`
	Anonymous      bool      `json:"anonymous"`
	Age            *int      `json:"age"`
	MenopauseStage string    `json:"menopause_stage"`
	HasPin         bool      `json:"has_pin"`
	CreatedAt      time.Time `json:"created_at"`
}

type authResponse struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expires_at"`
	User      userResponse `json:"user"`
}

var (
	errPhoneRequired       = errors.New("phone number is required")
	errPhoneTaken          = errors.New("phone number already registered")
	errUserNotFound        = errors.New("mobile number not registered, please sign up first")
	errWrongPin            = errors.New("wrong pin")
	errInvalidPin          = errors.New("pin must be 4 to 8 digits")
	errInvalidAge          = errors.New("age must be between 10 and 120")
	errInvalidStage        = errors.New("unknown menopause stage")
	errUnsupportedLanguage = errors.New("unsupported language")
)

// toResponse hides the phone number unless the viewer is the owner.
func toResponse(u *models.User, self bool) userResponse {
	r := userResponse{
		ID:             u.ID,
		Name:           u.Name,
		LanguagePref:   u.LanguagePref,
		City:           u.City,
		Anonymous:      u.Anonymous,
		Age:            u.Age,
		MenopauseStage: u.MenopauseStage,
		HasPin:         u.PinHash != "",
		CreatedAt:      u.CreatedAt,
	}
	if self {
		r.Phone = u.Phone
	}
	return r
}
