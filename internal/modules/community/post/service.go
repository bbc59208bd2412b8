package post

import (
	"context"
	"errors"
	"strings"
	"unicode/utf8"

	"github.com/sakhi-app/core/internal/models"
	"github.com/sakhi-app/core/internal/modules/i18n/translation"
	"github.com/sakhi-app/core/internal/modules/processing/markdown"
	"github.com/sakhi-app/core/internal/pkg/pagination"
	"github.com/sakhi-app/core/internal/pkg/response"
	"gorm.io/gorm"
)

type Service struct {
	db         *gorm.DB
	translator Translator
}

func NewService(db *gorm.DB, translator Translator) *Service {
	return &Service{db: db, translator: translator}
}

func (s *Service) normalize(content, lang string) (string, string, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return "", "", errEmptyContent
	}
	if utf8.RuneCountInString(content) > maxContentLength {
		return "", "", errContentTooLong
	}
	lang = strings.TrimSpace(lang)
	if lang == "" {
		lang = defaultLanguage
	}
	if s.translator != nil && !s.translator.Supported(lang) {
		return "", "", errUnsupportedLanguage
	}
	return content, lang, nil
}

func (s *Service) Create(userID uint, dto *CreatePostDTO) (*postResponse, error) {
	content, lang, err := s.normalize(dto.Content, dto.Language)
	if err != nil {
		return nil, err
	}
	p := models.Post{UserID: userID, Content: content, Language: lang}
	if dto.Anonymous {
		name := AnonymousName(userID)
		p.AnonymousName = &name
	}
	if err := s.db.Create(&p).Error; err != nil {
		return nil, err
	}
	authors, err := s.authors([]uint{userID})
	if err != nil {
		return nil, err
	}
	out := s.toResponse(context.Background(), p, authors, lang)
	return &out, nil
}

// List returns one page of posts, newest first, translated to userLang.
func (s *Service) List(ctx context.Context, q pagination.Query, userLang string) ([]postResponse, response.Pagination, error) {
	var posts []models.Post
	tx := s.db.Model(&models.Post{}).Order("created_at DESC").Order("id DESC")
	page, err := pagination.Paginate(tx, q, &posts)
	if err != nil {
		return nil, page, err
	}

	ids := make([]uint, 0, len(posts))
	postIDs := make([]uint, 0, len(posts))
	for _, p := range posts {
		ids = append(ids, p.UserID)
		postIDs = append(postIDs, p.ID)
	}
	authors, err := s.authors(ids)
	if err != nil {
		return nil, page, err
	}
	counts, err := s.commentCounts(postIDs)
	if err != nil {
		return nil, page, err
	}

	out := make([]postResponse, len(posts))
	for i, p := range posts {
		out[i] = s.toResponse(ctx, p, authors, userLang)
		out[i].CommentCount = counts[p.ID]
	}
	return out, page, nil
}

func (s *Service) Get(ctx context.Context, id uint, userLang string) (*postResponse, error) {
	p, err := s.find(id)
	if err != nil {
		return nil, err
	}
	authors, err := s.authors([]uint{p.UserID})
	if err != nil {
		return nil, err
	}
	counts, err := s.commentCounts([]uint{p.ID})
	if err != nil {
		return nil, err
	}
	out := s.toResponse(ctx, *p, authors, userLang)
	out.CommentCount = counts[p.ID]
	return &out, nil
}

// Delete removes a post with its comments and upvotes. Only the author may delete.
func (s *Service) Delete(userID, id uint) error {
	p, err := s.find(id)
	if err != nil {
		return err
	}
	if p.UserID != userID {
		return errNotAuthor
	}
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("post_id = ?", id).Delete(&models.Comment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("post_id = ?", id).Delete(&models.PostUpvote{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Post{}, id).Error
	})
}

// Upvote records one upvote per user and bumps the post counter.
func (s *Service) Upvote(userID, id uint) (int, error) {
	var upvotes int
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var p models.Post
		if err := tx.First(&p, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return errPostNotFound
			}
			return err
		}
		var n int64
		if err := tx.Model(&models.PostUpvote{}).Where("post_id = ? AND user_id = ?", id, userID).Count(&n).Error; err != nil {
			return err
		}
		if n > 0 {
			return errAlreadyUpvoted
		}
		if err := tx.Create(&models.PostUpvote{PostID: id, UserID: userID}).Error; err != nil {
			return err
		}
		if err := tx.Model(&models.Post{}).Where("id = ?", id).
			UpdateColumn("upvotes", gorm.Expr("upvotes + 1")).Error; err != nil {
			return err
		}
		upvotes = p.Upvotes + 1
		return nil
	})
	return upvotes, err
}

func (s *Service) AddComment(userID, postID uint, dto *CommentDTO) (*commentResponse, error) {
	if _, err := s.find(postID); err != nil {
		return nil, err
	}
	content, lang, err := s.normalize(dto.Content, dto.Language)
	if err != nil {
		return nil, err
	}
	c := models.Comment{PostID: postID, UserID: userID, Content: content, Language: lang}
	if err := s.db.Create(&c).Error; err != nil {
		return nil, err
	}
	authors, err := s.authors([]uint{userID})
	if err != nil {
		return nil, err
	}
	out := s.toCommentResponse(context.Background(), c, authors, lang)
	return &out, nil
}

// Comments lists a post's comments oldest first, translated to userLang.
func (s *Service) Comments(ctx context.Context, postID uint, userLang string) ([]commentResponse, error) {
	if _, err := s.find(postID); err != nil {
		return nil, err
	}
	var comments []models.Comment
	if err := s.db.Where("post_id = ?", postID).Order("created_at ASC").Order("id ASC").Find(&comments).Error; err != nil {
		return nil, err
	}
	ids := make([]uint, len(comments))
	for i, c := range comments {
		ids[i] = c.UserID
	}
	authors, err := s.authors(ids)
	if err != nil {
		return nil, err
	}
	out := make([]commentResponse, len(comments))
	for i, c := range comments {
		out[i] = s.toCommentResponse(ctx, c, authors, userLang)
	}
	return out, nil
}

// CountByUser is used by the assistant to describe community activity.
func (s *Service) CountByUser(userID uint) (int64, error) {
	var n int64
	return n, s.db.Model(&models.Post{}).Where("user_id = ?", userID).Count(&n).Error
}

func (s *Service) find(id uint) (*models.Post, error) {
	var p models.Post
	if err := s.db.First(&p, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errPostNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (s *Service) authors(ids []uint) (map[uint]author, error) {
	out := map[uint]author{}
	if len(ids) == 0 {
		return out, nil
	}
	var rows []author
	if err := s.db.Model(&models.User{}).Select("id, name, anonymous").Where("id IN ?", ids).Scan(&rows).Error; err != nil {
		return nil, err
	}
	for _, r := range rows {
		out[r.ID] = r
	}
	return out, nil
}

func (s *Service) commentCounts(postIDs []uint) (map[uint]int64, error) {
	out := map[uint]int64{}
	if len(postIDs) == 0 {
		return out, nil
	}
	var rows []struct {
		PostID uint
		N      int64
	}
	err := s.db.Model(&models.Comment{}).Select("post_id, COUNT(*) AS n").
		Where("post_id IN ?", postIDs).Group("post_id").Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, r := range rows {
		out[r.PostID] = r.N
	}
	return out, nil
}

func (s *Service) translate(ctx context.Context, text, src, dst string) (string, bool) {
	if s.translator == nil || dst == "" || !translation.ShouldTranslate(dst, src) {
		return text, false
	}
	out := s.translator.Translate(ctx, text, src, dst)
	return out, out != text
}

func (s *Service) toResponse(ctx context.Context, p models.Post, authors map[uint]author, userLang string) postResponse {
	content, translated := s.translate(ctx, p.Content, p.Language, userLang)
	a, known := authors[p.UserID]
	out := postResponse{
		ID:            p.ID,
		UserID:        p.UserID,
		Content:       content,
		ContentHTML:   markdown.Render(content),
		Excerpt:       markdown.Excerpt(content, excerptLength),
		Language:      p.Language,
		AnonymousName: p.AnonymousName,
		DisplayName:   postDisplayName(p, a, known),
		Upvotes:       p.Upvotes,
		Translated:    translated,
		CreatedAt:     p.CreatedAt,
	}
	if p.AnonymousName == nil && known {
		out.AuthorName = a.Name
	}
	return out
}

func (s *Service) toCommentResponse(ctx context.Context, c models.Comment, authors map[uint]author, userLang string) commentResponse {
	content, translated := s.translate(ctx, c.Content, c.Language, userLang)
	name := "Anonymous"
	if a, ok := authors[c.UserID]; ok {
		name = a.displayName()
	}
	return commentResponse{
		ID:          c.ID,
		PostID:      c.PostID,
		UserID:      c.UserID,
		Content:     content,
		Language:    c.Language,
		DisplayName: name,
		Translated:  translated,
		CreatedAt:   c.CreatedAt,
	}
}
