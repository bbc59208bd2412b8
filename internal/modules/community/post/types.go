package post

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sakhi-app/core/internal/models"
)

const (
	maxContentLength = 5000
	excerptLength    = 140
	defaultLanguage  = "en"
)

// Translator is the slice of the translation gateway the forum needs.
type Translator interface {
	Supported(lang string) bool
	Translate(ctx context.Context, text, src, dst string) string
}

type CreatePostDTO struct {
	Content   string `json:"content"   binding:"required"`
	Language  string `json:"language"`
	Anonymous bool   `json:"anonymous"`
}

type CommentDTO struct {
	Content  string `json:"content"  binding:"required"`
	Language string `json:"language"`
}

type postResponse struct {
	ID            uint      `json:"id"`
	UserID        uint      `json:"user_id"`
	Content       string    `json:"content"`
	ContentHTML   string    `json:"content_html"`
	Excerpt       string    `json:"excerpt"`
	Language      string    `json:"language"`
	AnonymousName *string   `json:"anonymous_name"`
	AuthorName    string    `json:"author_name,omitempty"`
	DisplayName   string    `json:"display_name"`
	Upvotes       int       `json:"upvotes"`
	CommentCount  int64     `json:"comment_count"`
	Translated    bool      `json:"translated"`
	CreatedAt     time.Time `json:"created_at"`
}

type commentResponse struct {
	ID          uint      `json:"id"`
	PostID      uint      `json:"post_id"`
	UserID      uint      `json:"user_id"`
	Content     string    `json:"content"`
	Language    string    `json:"language"`
	DisplayName string    `json:"display_name"`
	Translated  bool      `json:"translated"`
	CreatedAt   time.Time `json:"created_at"`
}

var (
	errEmptyContent        = errors.New("content is required")
	errContentTooLong      = fmt.Errorf("content must be at most %d characters", maxContentLength)
	errUnsupportedLanguage = errors.New("unsupported language")
	errPostNotFound        = errors.New("post not found")
	errNotAuthor           = errors.New("only the author can delete this post")
	errAlreadyUpvoted      = errors.New("already upvoted")
)

// AnonymousName is the stable pseudonym shown for a member posting anonymously.
func AnonymousName(userID uint) string {
	return fmt.Sprintf("User%04d", userID)
}

// author is the subset of a user row shown next to forum content.
type author struct {
	ID        uint
	Name      string
	Anonymous bool
}

func (a author) displayName() string {
	if a.Anonymous {
		return AnonymousName(a.ID)
	}
	if a.Name == "" {
		return "Anonymous"
	}
	return a.Name
}

func postDisplayName(p models.Post, a author, known bool) string {
	if p.AnonymousName != nil && *p.AnonymousName != "" {
		return *p.AnonymousName
	}
	if !known {
		return "Anonymous"
	}
	return a.displayName()
}
