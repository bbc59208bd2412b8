package translation

import (
	"context"
	"errors"
	"fmt"

	"github.com/sakhi-app/core/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Store is the persistent translation cache.
type Store struct{ db *gorm.DB }

func NewStore(db *gorm.DB) *Store { return &Store{db: db} }

// Lookup returns the cached translation for the exact (text, src, dst) triple.
// A hit bumps the entry's access count.
func (s *Store) Lookup(ctx context.Context, text, src, dst string) (string, bool, error) {
	var entry models.TranslationCacheEntry
	err := s.db.WithContext(ctx).
		Where("source_hash = ? AND source_lang = ? AND target_lang = ?", models.HashText(text), src, dst).
		First(&entry).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	// sha256 collisions are not a practical concern but the source is stored anyway.
	if entry.SourceText != text {
		return "", false, nil
	}
	if err := s.db.WithContext(ctx).Model(&models.TranslationCacheEntry{}).
		Where("id = ?", entry.ID).
		UpdateColumn("access_count", gorm.Expr("access_count + 1")).Error; err != nil {
		return "", false, err
	}
	return entry.TranslatedText, true, nil
}

// Store upserts a translation. An existing key keeps its access count and
// takes the new text and provider.
func (s *Store) Store(ctx context.Context, text, src, dst, translated, provider string) error {
	entry := models.TranslationCacheEntry{
		SourceHash:     models.HashText(text),
		SourceText:     text,
		SourceLang:     src,
		TargetLang:     dst,
		TranslatedText: translated,
		Provider:       provider,
		AccessCount:    1,
	}
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "source_hash"}, {Name: "source_lang"}, {Name: "target_lang"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"source_text", "translated_text", "provider", "updated_at",
		}),
	}).Create(&entry).Error
}

// Stats aggregates cache usage.
func (s *Store) Stats(ctx context.Context) (Stats, error) {
	db := s.db.WithContext(ctx).Model(&models.TranslationCacheEntry{})

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return Stats{}, err
	}
	var accesses struct{ Sum int64 }
	if err := s.db.WithContext(ctx).Model(&models.TranslationCacheEntry{}).
		Select("COALESCE(SUM(access_count), 0) AS sum").Scan(&accesses).Error; err != nil {
		return Stats{}, err
	}
	var rows []struct {
		Provider string
		Count    int64
	}
	if err := s.db.WithContext(ctx).Model(&models.TranslationCacheEntry{}).
		Select("provider, COUNT(*) AS count").Group("provider").Scan(&rows).Error; err != nil {
		return Stats{}, err
	}

	providers := make(map[string]int64, len(rows))
	for _, r := range rows {
		providers[r.Provider] = r.Count
	}
	saved := accesses.Sum - total
	if saved < 0 {
		saved = 0
	}
	hitRate := 0.0
	if accesses.Sum > 0 {
		hitRate = float64(saved) / float64(accesses.Sum) * 100
	}
	return Stats{
		CachedTranslations:     total,
		TotalAccesses:          accesses.Sum,
		Providers:              providers,
		CacheHitRate:           fmt.Sprintf("%.2f%%", hitRate),
		EstimatedAPICallsSaved: saved,
		EstimatedCostSaved:     fmt.Sprintf("$%.2f", float64(saved)*costPerCall),
	}, nil
}

// Clear removes every cached translation and returns how many were dropped.
func (s *Store) Clear(ctx context.Context) (int64, error) {
	res := s.db.WithContext(ctx).Session(&gorm.Session{AllowGlobalUpdate: true}).
		Delete(&models.TranslationCacheEntry{})
	return res.RowsAffected, res.Error
}
