package models

import "time"

// Post is a community forum post. AnonymousName is set when the author
// chose to post anonymously and replaces the author's name in listings.
type Post struct {
	Model
	UserID        uint    `json:"user_id"        gorm:"not null;index"`
	Content       string  `json:"content"        gorm:"type:text;not null"`
	Language      string  `json:"language"       gorm:"size:8;default:en"`
	AnonymousName *string `json:"anonymous_name" gorm:"size:64"`
	Upvotes       int     `json:"upvotes"        gorm:"default:0"`
}

func (Post) TableName() string { return "posts" }

// PostUpvote records that a user upvoted a post; a user can upvote once.
type PostUpvote struct {
	PostID    uint      `json:"post_id"    gorm:"primaryKey;autoIncrement:false"`
	UserID    uint      `json:"user_id"    gorm:"primaryKey;autoIncrement:false"`
	CreatedAt time.Time `json:"created_at"`
}

func (PostUpvote) TableName() string { return "post_upvotes" }

// Comment is a reply to a post.
type Comment struct {
	Model
	PostID   uint   `json:"post_id"  gorm:"not null;index"`
	UserID   uint   `json:"user_id"  gorm:"not null;index"`
	Content  string `json:"content"  gorm:"type:text;not null"`
	Language string `json:"language" gorm:"size:8;default:en"`
}

func (Comment) TableName() string { return "comments" }
