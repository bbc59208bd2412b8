package models

// ChatHistory is one question/answer exchange with the assistant.
type ChatHistory struct {
	Model
	UserID    uint   `json:"user_id"    gorm:"not null;index"`
	Question  string `json:"question"   gorm:"type:text;not null"`
	Answer    string `json:"answer"     gorm:"type:text;not null"`
	Language  string `json:"language"   gorm:"size:8;default:en"`
	AIPowered bool   `json:"ai_powered" gorm:"default:false"`
}

func (ChatHistory) TableName() string { return "chat_history" }
