package models

import (
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// TranslationCacheEntry memoizes one (text, source, target) translation.
type TranslationCacheEntry struct {
	Model
	SourceHash     string    `json:"source_hash"     gorm:"size:64;not null;uniqueIndex:idx_translation_cache_key,priority:1"`
	SourceText     string    `json:"source_text"     gorm:"type:text;not null"`
	SourceLang     string    `json:"source_lang"     gorm:"size:8;not null;uniqueIndex:idx_translation_cache_key,priority:2"`
	TargetLang     string    `json:"target_lang"     gorm:"size:8;not null;uniqueIndex:idx_translation_cache_key,priority:3"`
	TranslatedText string    `json:"translated_text" gorm:"type:text;not null"`
	Provider       string    `json:"provider"        gorm:"size:32"`
	AccessCount    int64     `json:"access_count"    gorm:"not null;default:1"`
	UpdatedAt      time.Time `json:"updated_at"`
}

func (TranslationCacheEntry) TableName() string { return "translation_cache" }

// HashText returns the hex sha256 of text, used as the cache lookup key.
func HashText(text string) string {
	sum := sha256.Sum256([]byte(text))
	return hex.EncodeToString(sum[:])
}
