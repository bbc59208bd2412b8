package models

import "time"

const (
	MeetupInPerson = "In-Person"
	MeetupVirtual  = "Virtual"
)

// Meetup is a local or virtual gathering. Location holds an address for
// in-person meetups and a link for virtual ones.
type Meetup struct {
	Model
	Title       string `json:"title"       gorm:"size:255;not null"`
	Description string `json:"description" gorm:"type:text"`
	City        string `json:"city"        gorm:"size:128;not null;index"`
	Date        Date   `json:"date"        gorm:"not null;index"`
	Time        string `json:"time"        gorm:"size:16;not null"`
	MeetupType  string `json:"meetup_type" gorm:"size:32;default:In-Person"`
	Location    string `json:"location"    gorm:"size:512"`
	Language    string `json:"language"    gorm:"size:32;default:English"`
	CreatedBy   uint   `json:"created_by"  gorm:"not null;index"`
	Stars       int    `json:"stars"       gorm:"default:0"`
}

func (Meetup) TableName() string { return "meetups" }

type MeetupParticipant struct {
	MeetupID uint      `json:"meetup_id" gorm:"primaryKey;autoIncrement:false"`
	UserID   uint      `json:"user_id"   gorm:"primaryKey;autoIncrement:false"`
	JoinedAt time.Time `json:"joined_at" gorm:"autoCreateTime"`
}

func (MeetupParticipant) TableName() string { return "meetup_participants" }

type MeetupStar struct {
	MeetupID  uint      `json:"meetup_id"  gorm:"primaryKey;autoIncrement:false"`
	UserID    uint      `json:"user_id"    gorm:"primaryKey;autoIncrement:false"`
	CreatedAt time.Time `json:"created_at"`
}

func (MeetupStar) TableName() string { return "meetup_stars" }
