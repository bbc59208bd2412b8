package models

import "time"

// Model is embedded by every table: auto-increment id plus creation timestamp.
type Model struct {
	ID        uint      `json:"id"         gorm:"primaryKey;autoIncrement"`
	CreatedAt time.Time `json:"created_at" gorm:"not null"`
}
