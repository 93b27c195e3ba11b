package models

import (
	"time"
)

type Comment struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	PostID    uint      `gorm:"not null;index" json:"post_id"`
	Post      Post      `json:"-"`
	UserID    uint      `gorm:"not null;index" json:"user_id"`
	User      User      `json:"user"`
	Text      string    `gorm:"type:text;not null" json:"text"`
	CreatedAt time.Time `json:"created_at"`
}

// CommentOrder keeps the newest comment on top; comments written in
// the same instant fall back to insertion order, newest first.
const CommentOrder = "comments.created_at DESC, comments.id DESC"
