package translation

import "errors"

const (
	ProviderGoogle = "google"
	ProviderLLM    = "llm"
	ProviderNone   = "none"

	// costPerCall is the estimated remote price of one uncached translation.
	costPerCall = 0.002
	maxBatch    = 100
)

var errEmptyTranslation = errors.New("empty translation")

// Stats summarizes cache usage.
type Stats struct {
	CachedTranslations     int64            `json:"cached_translations"`
	TotalAccesses          int64            `json:"total_accesses"`
	Providers              map[string]int64 `json:"providers"`
	CacheHitRate           string           `json:"cache_hit_rate"`
	EstimatedAPICallsSaved int64            `json:"estimated_api_calls_saved"`
	EstimatedCostSaved     string           `json:"estimated_cost_saved"`
}

type TranslateDTO struct {
	Text       string `json:"text"        binding:"required"`
	SourceLang string `json:"source_lang" binding:"required"`
	TargetLang string `json:"target_lang" binding:"required"`
}

type BatchDTO struct {
	Texts      []string `json:"texts"       binding:"required"`
	SourceLang string   `json:"source_lang" binding:"required"`
	TargetLang string   `json:"target_lang" binding:"required"`
}

type translateResponse struct {
	Text       string `json:"text"`
	Translated string `json:"translated"`
	SourceLang string `json:"source_lang"`
	TargetLang string `json:"target_lang"`
	Changed    bool   `json:"changed"`
}
