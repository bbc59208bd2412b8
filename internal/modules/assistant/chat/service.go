package chat

import (
	"context"
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/sakhi-app/core/internal/models"
	"github.com/sakhi-app/core/internal/modules/processing/ai"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// PeriodSource supplies a member's recent period logs, newest first.
type PeriodSource interface {
	Recent(userID uint, n int) ([]models.PeriodLog, error)
}

// PostCounter reports how many community posts a member wrote.
type PostCounter interface {
	CountByUser(userID uint) (int64, error)
}

type Service struct {
	db        *gorm.DB
	periods   PeriodSource
	posts     PostCounter
	completer ai.Completer
	languages map[string]struct{}
	faq       *faqBook
	log       *zap.Logger
}

func NewService(db *gorm.DB, periods PeriodSource, posts PostCounter, completer ai.Completer, languages []string, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	set := make(map[string]struct{}, len(languages))
	for _, l := range languages {
		set[l] = struct{}{}
	}
	return &Service{
		db:        db,
		periods:   periods,
		posts:     posts,
		completer: completer,
		languages: set,
		faq:       defaultFAQ,
		log:       log.Named("chat"),
	}
}

// Ask answers a question, preferring the model and falling back to the FAQ.
// Every answer is written to the member's history.
func (s *Service) Ask(ctx context.Context, userID uint, dto *AskDTO) (*Answer, error) {
	question := strings.TrimSpace(dto.Question)
	if question == "" {
		return nil, errEmptyQuestion
	}
	if utf8.RuneCountInString(question) > maxQuestionLength {
		return nil, errQuestionTooLong
	}

	user, err := s.user(userID)
	if err != nil {
		return nil, err
	}
	lang := strings.TrimSpace(dto.Language)
	if lang == "" && user != nil {
		lang = user.LanguagePref
	}
	if lang == "" {
		lang = fallbackLang
	}
	if len(s.languages) > 0 {
		if _, ok := s.languages[lang]; !ok {
			return nil, errUnsupportedLanguage
		}
	}
	// Unknown members are treated like anonymous ones.
	anonymous := user == nil || user.Anonymous

	out := s.answer(ctx, userID, question, lang, anonymous)
	entry := models.ChatHistory{
		UserID:    userID,
		Question:  question,
		Answer:    out.Answer,
		Language:  lang,
		AIPowered: out.AIPowered,
	}
	if err := s.db.Create(&entry).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Service) answer(ctx context.Context, userID uint, question, lang string, anonymous bool) *Answer {
	fallback := &Answer{Answer: s.faq.Answer(question, lang), Language: lang}
	if s.completer == nil || !s.completer.Enabled() {
		return fallback
	}

	var userContext string
	if !anonymous {
		userContext = s.userContext(userID)
	}
	reply, err := s.completer.Complete(ctx, systemPrompt, buildPrompt(question, userContext, lang, anonymous))
	if err == nil && strings.TrimSpace(reply) == "" {
		err = ai.ErrEmptyResponse
	}
	if err != nil {
		s.log.Warn("model answer unavailable, using faq", zap.Uint("user_id", userID), zap.Error(err))
		return fallback
	}
	return &Answer{
		Answer:         strings.TrimSpace(reply),
		Language:       lang,
		AIPowered:      true,
		HasUserContext: userContext != "",
	}
}

// userContext never fails the request; missing data just means less context.
func (s *Service) userContext(userID uint) string {
	var logs []models.PeriodLog
	if s.periods != nil {
		var err error
		if logs, err = s.periods.Recent(userID, contextWindow); err != nil {
			s.log.Warn("load period logs", zap.Uint("user_id", userID), zap.Error(err))
			logs = nil
		}
	}
	var posts int64
	if s.posts != nil {
		var err error
		if posts, err = s.posts.CountByUser(userID); err != nil {
			s.log.Warn("count posts", zap.Uint("user_id", userID), zap.Error(err))
			posts = 0
		}
	}
	return buildUserContext(logs, posts)
}

func (s *Service) user(userID uint) (*models.User, error) {
	var u models.User
	if err := s.db.First(&u, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &u, nil
}

// History returns the newest limit exchanges of userID.
func (s *Service) History(userID uint, limit int) ([]historyEntry, error) {
	if limit <= 0 {
		limit = defaultHistoryLimit
	}
	var rows []models.ChatHistory
	err := s.db.Where("user_id = ?", userID).Order("created_at DESC").Order("id DESC").Limit(limit).Find(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make([]historyEntry, len(rows))
	for i, r := range rows {
		out[i] = historyEntry{
			ID:        r.ID,
			Question:  r.Question,
			Answer:    r.Answer,
			Language:  r.Language,
			AIPowered: r.AIPowered,
			CreatedAt: r.CreatedAt,
		}
	}
	return out, nil
}

func (s *Service) ClearHistory(userID uint) (int64, error) {
	res := s.db.Where("user_id = ?", userID).Delete(&models.ChatHistory{})
	return res.RowsAffected, res.Error
}

// PurgeBefore deletes every exchange older than cutoff. Used by the retention job.
func (s *Service) PurgeBefore(cutoff time.Time) (int64, error) {
	res := s.db.Where("created_at < ?", cutoff).Delete(&models.ChatHistory{})
	return res.RowsAffected, res.Error
}
