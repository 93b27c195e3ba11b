package models

import (
	"time"
)

type Post struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Text      string    `gorm:"type:text;not null" json:"text"`
	UserID    uint      `gorm:"not null;index" json:"user_id"`
	User      User      `json:"user"`
	GroupID   *uint     `gorm:"index" json:"group_id"` // unset when the group is deleted
	Group     *Group    `json:"group"`
	Image     string    `json:"image"` // blob key, e.g. posts/<uuid>.gif
	CreatedAt time.Time `gorm:"index" json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// PostOrder is the total order of every post listing.
const PostOrder = "posts.created_at DESC, posts.id DESC"

// HasGroup reports whether the post still belongs to a group.
func (p Post) HasGroup() bool {
	return p.GroupID != nil && p.Group != nil
}
