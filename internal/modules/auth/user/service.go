package user

import (
	"errors"
	"strings"
	"unicode"

	"github.com/sakhi-app/core/internal/models"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type Service struct {
	db        *gorm.DB
	languages []string
}

func NewService(db *gorm.DB, languages []string) *Service {
	return &Service{db: db, languages: languages}
}

func (s *Service) supported(lang string) bool {
	for _, l := range s.languages {
		if l == lang {
			return true
		}
	}
	return false
}

func (s *Service) GetByID(id uint) (*models.User, error) {
	var u models.User
	if err := s.db.First(&u, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &u, nil
}

func (s *Service) getByPhone(phone string) (*models.User, error) {
	var u models.User
	if err := s.db.Where("phone = ?", phone).First(&u).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &u, nil
}

// Register creates a member. Anonymous members never store a phone number.
func (s *Service) Register(dto *RegisterDTO) (*models.User, error) {
	lang := strings.TrimSpace(dto.LanguagePref)
	if lang == "" {
		lang = "en"
	}
	if !s.supported(lang) {
		return nil, errUnsupportedLanguage
	}
	if err := validateAge(dto.Age); err != nil {
		return nil, err
	}
	stage := strings.TrimSpace(dto.MenopauseStage)
	if stage == "" {
		stage = models.StagePreMenopause
	}
	if !models.ValidMenopauseStage(stage) {
		return nil, errInvalidStage
	}

	u := models.User{
		Name:           strings.TrimSpace(dto.Name),
		LanguagePref:   lang,
		City:           strings.TrimSpace(dto.City),
		Anonymous:      dto.Anonymous,
		Age:            dto.Age,
		MenopauseStage: stage,
	}

	if !dto.Anonymous {
		phone := normalizePhone(dto.Phone)
		if phone == "" {
			return nil, errPhoneRequired
		}
		existing, err := s.getByPhone(phone)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			return nil, errPhoneTaken
		}
		u.Phone = &phone

		if dto.Pin != "" {
			hash, err := hashPin(dto.Pin)
			if err != nil {
				return nil, err
			}
			u.PinHash = hash
		}
	}
	return &u, s.db.Create(&u).Error
}

// Login finds the member by phone. Members without a pin log in with the
// phone alone.
func (s *Service) Login(phone, pin string) (*models.User, error) {
	phone = normalizePhone(&phone)
	if phone == "" {
		return nil, errPhoneRequired
	}
	u, err := s.getByPhone(phone)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, errUserNotFound
	}
	if u.PinHash != "" {
		if err := bcrypt.CompareHashAndPassword([]byte(u.PinHash), []byte(pin)); err != nil {
			return nil, errWrongPin
		}
	}
	return u, nil
}

func (s *Service) UpdateLanguage(id uint, lang string) (*models.User, error) {
	lang = strings.TrimSpace(lang)
	if !s.supported(lang) {
		return nil, errUnsupportedLanguage
	}
	u, err := s.GetByID(id)
	if err != nil || u == nil {
		return u, err
	}
	u.LanguagePref = lang
	return u, s.db.Model(u).Update("language_pref", lang).Error
}

func (s *Service) UpdateProfile(id uint, dto *UpdateProfileDTO) (*models.User, error) {
	u, err := s.GetByID(id)
	if err != nil || u == nil {
		return u, err
	}
	updates := map[string]interface{}{}
	if dto.Name != nil {
		name := strings.TrimSpace(*dto.Name)
		updates["name"] = name
		u.Name = name
	}
	if dto.City != nil {
		city := strings.TrimSpace(*dto.City)
		updates["city"] = city
		u.City = city
	}
	if dto.Age != nil {
		if err := validateAge(dto.Age); err != nil {
			return nil, err
		}
		updates["age"] = *dto.Age
		u.Age = dto.Age
	}
	if dto.MenopauseStage != nil {
		stage := strings.TrimSpace(*dto.MenopauseStage)
		if !models.ValidMenopauseStage(stage) {
			return nil, errInvalidStage
		}
		updates["menopause_stage"] = stage
		u.MenopauseStage = stage
	}
	if dto.Pin != nil {
		hash, err := hashPin(*dto.Pin)
		if err != nil {
			return nil, err
		}
		updates["pin_hash"] = hash
		u.PinHash = hash
	}
	if len(updates) == 0 {
		return u, nil
	}
	return u, s.db.Model(u).Updates(updates).Error
}

func hashPin(pin string) (string, error) {
	if len(pin) < 4 || len(pin) > 8 {
		return "", errInvalidPin
	}
	for _, r := range pin {
		if !unicode.IsDigit(r) {
			return "", errInvalidPin
		}
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(pin), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func validateAge(age *int) error {
	if age != nil && (*age < 10 || *age > 120) {
		return errInvalidAge
	}
	return nil
}

func normalizePhone(phone *string) string {
	if phone == nil {
		return ""
	}
	return strings.Join(strings.Fields(*phone), "")
}
