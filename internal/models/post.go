package models

import (
	"time"

	"gorm.io/gorm"
)

// Post represents a post. Soft-deleted posts keep their row but are hidden from every read.
type Post struct {
	ID              uint   `gorm:"primaryKey" json:"id"`
	UserID          uint   `gorm:"not null;index" json:"user_id"`
	Content         string `gorm:"type:text;not null" json:"content"`
	MediaURL        string `json:"media_url,omitempty"`
	CommentsEnabled bool   `gorm:"not null" json:"comments_enabled"`
	// Author identity, joined at query time
	Username string `gorm:"->;-:migration" json:"username,omitempty"`
	FullName string `gorm:"->;-:migration" json:"full_name,omitempty"`
	// LikesCount is not persisted; computed at query time
	LikesCount int64 `gorm:"->;-:migration" json:"likes_count"`
	// CommentsCount is not persisted; computed at query time
	CommentsCount int64 `gorm:"->;-:migration" json:"comments_count"`
	// Liked indicates whether the current requesting user liked this post (computed)
	Liked     bool           `gorm:"->;-:migration" json:"liked"`
	CreatedAt time.Time      `gorm:"index" json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// PostChanges is a partial update; nil fields are left untouched.
type PostChanges struct {
	Content         *string
	MediaURL        *string
	CommentsEnabled *bool
}

// Empty reports whether no field is set.
func (c PostChanges) Empty() bool {
	return c.Content == nil && c.MediaURL == nil && c.CommentsEnabled == nil
}
