package models

import (
	"time"
)

// User is an author: anyone who can write posts, comment and follow.
type User struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Username  string    `gorm:"uniqueIndex;size:150;not null" json:"username"`
	Password  string    `gorm:"not null" json:"-"` // bcrypt hash
	CreatedAt time.Time `json:"created_at"`
	// No DeletedAt for hard delete
}
