package models

import (
	"time"
)

// Follow is the edge from a follower (UserID) to the author they read (AuthorID).
type Follow struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_follow_user_author" json:"user_id"`
	User      User      `json:"-"`
	AuthorID  uint      `gorm:"not null;uniqueIndex:idx_follow_user_author;index" json:"author_id"`
	Author    User      `gorm:"foreignKey:AuthorID" json:"-"`
	CreatedAt time.Time `json:"created_at"`
}
