package translation

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// Service is the cache-first translation gateway.
type Service struct {
	store     *Store
	provider  Provider
	languages map[string]struct{}
	timeout   time.Duration
	log       *zap.Logger
}

func NewService(store *Store, provider Provider, languages []string, timeout time.Duration, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	set := make(map[string]struct{}, len(languages))
	for _, l := range languages {
		set[l] = struct{}{}
	}
	return &Service{store: store, provider: provider, languages: set, timeout: timeout, log: log.Named("translation")}
}

// Supported reports whether lang is one of the configured languages.
func (s *Service) Supported(lang string) bool {
	_, ok := s.languages[lang]
	return ok
}

// ShouldTranslate reports whether content in contentLang needs translating for userLang.
func ShouldTranslate(userLang, contentLang string) bool {
	return userLang != contentLang
}

// Translate returns text in dst. It never fails: an unsupported pair, a
// provider error or a missing provider all yield the original text.
func (s *Service) Translate(ctx context.Context, text, src, dst string) string {
	if src == dst || text == "" {
		return text
	}
	if !s.Supported(src) || !s.Supported(dst) {
		s.log.Warn("unsupported language pair", zap.String("src", src), zap.String("dst", dst))
		return text
	}

	cached, ok, err := s.store.Lookup(ctx, text, src, dst)
	if err != nil {
		s.log.Warn("cache lookup failed", zap.Error(err))
	}
	if ok {
		s.log.Debug("cache hit", zap.String("src", src), zap.String("dst", dst))
		return cached
	}

	if s.provider == nil {
		return text
	}
	s.log.Debug("cache miss", zap.String("src", src), zap.String("dst", dst), zap.String("provider", s.provider.Name()))

	callCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	translated, err := s.provider.Translate(callCtx, text, src, dst)
	if err != nil {
		s.log.Warn("remote translation failed", zap.String("provider", s.provider.Name()), zap.Error(err))
		return text
	}

	if err := s.store.Store(ctx, text, src, dst, translated, s.provider.Name()); err != nil {
		s.log.Warn("cache store failed", zap.Error(err))
	}
	return translated
}

// TranslateBatch translates each text in order.
func (s *Service) TranslateBatch(ctx context.Context, texts []string, src, dst string) []string {
	out := make([]string, len(texts))
	for i, t := range texts {
		out[i] = s.Translate(ctx, t, src, dst)
	}
	return out
}

func (s *Service) Stats(ctx context.Context) (Stats, error) {
	return s.store.Stats(ctx)
}

func (s *Service) Clear(ctx context.Context) (int64, error) {
	n, err := s.store.Clear(ctx)
	if err == nil {
		s.log.Info("translation cache cleared", zap.Int64("entries", n))
	}
	return n, err
}
