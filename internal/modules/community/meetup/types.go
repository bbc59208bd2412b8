package meetup

import (
	"errors"

	"github.com/sakhi-app/core/internal/models"
)

const defaultMeetupLanguage = "English"

type MeetupDTO struct {
	Title       string      `json:"title"       binding:"required,max=255"`
	Description string      `json:"description"`
	City        string      `json:"city"        binding:"required,max=128"`
	Date        models.Date `json:"date"`
	Time        string      `json:"time"        binding:"required"`
	MeetupType  string      `json:"meetup_type"`
	Location    string      `json:"location"    binding:"max=512"`
	Language    string      `json:"language"`
}

// ListQuery filters the meetup listing.
type ListQuery struct {
	City     string
	Upcoming bool
}

type meetupResponse struct {
	models.Meetup
	ParticipantsCount int64 `json:"participants_count"`
	UserJoined        bool  `json:"user_joined"`
	UserStarred       bool  `json:"user_starred"`
	IsCreator         bool  `json:"is_creator"`
}

var (
	errMeetupNotFound = errors.New("meetup not found")
	errNotCreator     = errors.New("only the creator can change this meetup")
	errAlreadyJoined  = errors.New("already joined this meetup")
	errNotJoined      = errors.New("not a participant of this meetup")
	errAlreadyStarred = errors.New("already starred this meetup")
	errDateRequired   = errors.New("date is required")
	errInvalidTime    = errors.New("time must be HH:MM")
	errInvalidType    = errors.New("meetup_type must be In-Person or Virtual")
)

func isValidationError(err error) bool {
	return errors.Is(err, errDateRequired) || errors.Is(err, errInvalidTime) || errors.Is(err, errInvalidType)
}
