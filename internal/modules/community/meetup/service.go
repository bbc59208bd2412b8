package meetup

import (
	"errors"
	"strings"
	"time"

	"github.com/sakhi-app/core/internal/models"
	"gorm.io/gorm"
)

type Service struct {
	db  *gorm.DB
	now func() time.Time
}

func NewService(db *gorm.DB) *Service { return &Service{db: db, now: time.Now} }

func normalize(dto *MeetupDTO) (models.Meetup, error) {
	if dto.Date.IsZero() {
		return models.Meetup{}, errDateRequired
	}
	clock := strings.TrimSpace(dto.Time)
	if _, err := time.Parse("15:04", clock); err != nil {
		return models.Meetup{}, errInvalidTime
	}
	kind := strings.TrimSpace(dto.MeetupType)
	switch {
	case kind == "":
		kind = models.MeetupInPerson
	case strings.EqualFold(kind, models.MeetupInPerson):
		kind = models.MeetupInPerson
	case strings.EqualFold(kind, models.MeetupVirtual):
		kind = models.MeetupVirtual
	default:
		return models.Meetup{}, errInvalidType
	}
	lang := strings.TrimSpace(dto.Language)
	if lang == "" {
		lang = defaultMeetupLanguage
	}
	return models.Meetup{
		Title:       strings.TrimSpace(dto.Title),
		Description: strings.TrimSpace(dto.Description),
		City:        strings.TrimSpace(dto.City),
		Date:        dto.Date,
		Time:        clock,
		MeetupType:  kind,
		Location:    strings.TrimSpace(dto.Location),
		Language:    lang,
	}, nil
}

func (s *Service) Create(userID uint, dto *MeetupDTO) (*meetupResponse, error) {
	m, err := normalize(dto)
	if err != nil {
		return nil, err
	}
	m.CreatedBy = userID
	if err := s.db.Create(&m).Error; err != nil {
		return nil, err
	}
	return &meetupResponse{Meetup: m, IsCreator: true}, nil
}

// List returns meetups by date. userID 0 leaves the per-user flags false.
func (s *Service) List(userID uint, q ListQuery) ([]meetupResponse, error) {
	tx := s.db.Model(&models.Meetup{}).Order("date ASC").Order("time ASC").Order("id ASC")
	if city := strings.TrimSpace(q.City); city != "" {
		tx = tx.Where("LOWER(city) = ?", strings.ToLower(city))
	}
	if q.Upcoming {
		tx = tx.Where("date >= ?", models.NewDate(s.now()))
	}
	var meetups []models.Meetup
	if err := tx.Find(&meetups).Error; err != nil {
		return nil, err
	}
	return s.decorate(userID, meetups)
}

func (s *Service) Get(userID, id uint) (*meetupResponse, error) {
	m, err := s.find(id)
	if err != nil {
		return nil, err
	}
	out, err := s.decorate(userID, []models.Meetup{*m})
	if err != nil {
		return nil, err
	}
	return &out[0], nil
}

// Update replaces every editable field. Only the creator may update.
func (s *Service) Update(userID, id uint, dto *MeetupDTO) (*meetupResponse, error) {
	m, err := s.owned(userID, id)
	if err != nil {
		return nil, err
	}
	next, err := normalize(dto)
	if err != nil {
		return nil, err
	}
	next.Model = m.Model
	next.CreatedBy = m.CreatedBy
	next.Stars = m.Stars
	err = s.db.Model(m).Select("title", "description", "city", "date", "time", "meetup_type", "location", "language").
		Updates(&next).Error
	if err != nil {
		return nil, err
	}
	return s.Get(userID, id)
}

func (s *Service) Delete(userID, id uint) error {
	if _, err := s.owned(userID, id); err != nil {
		return err
	}
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("meetup_id = ?", id).Delete(&models.MeetupParticipant{}).Error; err != nil {
			return err
		}
		if err := tx.Where("meetup_id = ?", id).Delete(&models.MeetupStar{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Meetup{}, id).Error
	})
}

func (s *Service) Join(userID, id uint) error {
	if _, err := s.find(id); err != nil {
		return err
	}
	joined, err := s.exists(&models.MeetupParticipant{}, id, userID)
	if err != nil {
		return err
	}
	if joined {
		return errAlreadyJoined
	}
	return s.db.Create(&models.MeetupParticipant{MeetupID: id, UserID: userID}).Error
}

func (s *Service) Leave(userID, id uint) error {
	if _, err := s.find(id); err != nil {
		return err
	}
	res := s.db.Where("meetup_id = ? AND user_id = ?", id, userID).Delete(&models.MeetupParticipant{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return errNotJoined
	}
	return nil
}

// Star records one star per user and bumps the meetup counter.
func (s *Service) Star(userID, id uint) (int, error) {
	var stars int
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var m models.Meetup
		if err := tx.First(&m, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return errMeetupNotFound
			}
			return err
		}
		var n int64
		if err := tx.Model(&models.MeetupStar{}).Where("meetup_id = ? AND user_id = ?", id, userID).Count(&n).Error; err != nil {
			return err
		}
		if n > 0 {
			return errAlreadyStarred
		}
		if err := tx.Create(&models.MeetupStar{MeetupID: id, UserID: userID}).Error; err != nil {
			return err
		}
		if err := tx.Model(&models.Meetup{}).Where("id = ?", id).
			UpdateColumn("stars", gorm.Expr("stars + 1")).Error; err != nil {
			return err
		}
		stars = m.Stars + 1
		return nil
	})
	return stars, err
}

func (s *Service) find(id uint) (*models.Meetup, error) {
	var m models.Meetup
	if err := s.db.First(&m, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errMeetupNotFound
		}
		return nil, err
	}
	return &m, nil
}

func (s *Service) owned(userID, id uint) (*models.Meetup, error) {
	m, err := s.find(id)
	if err != nil {
		return nil, err
	}
	if m.CreatedBy != userID {
		return nil, errNotCreator
	}
	return m, nil
}

func (s *Service) exists(model interface{}, meetupID, userID uint) (bool, error) {
	var n int64
	err := s.db.Model(model).Where("meetup_id = ? AND user_id = ?", meetupID, userID).Count(&n).Error
	return n > 0, err
}

func (s *Service) decorate(userID uint, meetups []models.Meetup) ([]meetupResponse, error) {
	out := make([]meetupResponse, len(meetups))
	if len(meetups) == 0 {
		return out, nil
	}
	ids := make([]uint, len(meetups))
	for i, m := range meetups {
		ids[i] = m.ID
	}

	var counts []struct {
		MeetupID uint
		N        int64
	}
	err := s.db.Model(&models.MeetupParticipant{}).Select("meetup_id, COUNT(*) AS n").
		Where("meetup_id IN ?", ids).Group("meetup_id").Scan(&counts).Error
	if err != nil {
		return nil, err
	}
	countOf := make(map[uint]int64, len(counts))
	for _, c := range counts {
		countOf[c.MeetupID] = c.N
	}

	joined := map[uint]bool{}
	starred := map[uint]bool{}
	if userID != 0 {
		var joinedIDs, starredIDs []uint
		if err := s.db.Model(&models.MeetupParticipant{}).Where("user_id = ? AND meetup_id IN ?", userID, ids).
			Pluck("meetup_id", &joinedIDs).Error; err != nil {
			return nil, err
		}
		if err := s.db.Model(&models.MeetupStar{}).Where("user_id = ? AND meetup_id IN ?", userID, ids).
			Pluck("meetup_id", &starredIDs).Error; err != nil {
			return nil, err
		}
		for _, id := range joinedIDs {
			joined[id] = true
		}
		for _, id := range starredIDs {
			starred[id] = true
		}
	}

	for i, m := range meetups {
		out[i] = meetupResponse{
			Meetup:            m,
			ParticipantsCount: countOf[m.ID],
			UserJoined:        joined[m.ID],
			UserStarred:       starred[m.ID],
			IsCreator:         userID != 0 && m.CreatedBy == userID,
		}
	}
	return out, nil
}
