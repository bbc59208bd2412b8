package chat

import (
	"errors"
	"fmt"
	"time"
)

const (
	contextWindow       = 6
	describedCycles     = 3
	defaultHistoryLimit = 10
	maxQuestionLength   = 2000
)

type AskDTO struct {
	Question string `json:"question" binding:"required"`
	Language string `json:"language"`
}

type Answer struct {
	Answer         string `json:"answer"`
	Language       string `json:"language"`
	Translated     bool   `json:"translated"`
	AIPowered      bool   `json:"ai_powered"`
	HasUserContext bool   `json:"has_user_context"`
}

type historyEntry struct {
	ID        uint      `json:"id"`
	Question  string    `json:"question"`
	Answer    string    `json:"answer"`
	Language  string    `json:"language"`
	AIPowered bool      `json:"ai_powered"`
	CreatedAt time.Time `json:"created_at"`
}

var (
	errEmptyQuestion       = errors.New("question is required")
	errQuestionTooLong     = fmt.Errorf("question must be at most %d characters", maxQuestionLength)
	errUnsupportedLanguage = errors.New("unsupported language")
)
