// Package models contains data structures for the application's domain models.
package models

import (
	"time"

	"gorm.io/gorm"
)

// User represents an account. Users are soft-deleted, never hard-removed.
type User struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	Username     string         `gorm:"uniqueIndex;not null" json:"username"`
	Email        string         `gorm:"uniqueIndex;not null" json:"email,omitempty"`
	FullName     string         `json:"full_name"`
	PasswordHash string         `gorm:"not null" json:"-"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
}

// UserSummary is the public identity shown in follow and like listings.
type UserSummary struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
	FullName string `json:"full_name"`
}

// FollowCounts holds the derived follow statistics for a user.
type FollowCounts struct {
	FollowingCount int64 `json:"following_count"`
	FollowersCount int64 `json:"followers_count"`
}

// UserProfile is a user with live follow counts.
type UserProfile struct {
	User
	FollowCounts
}

// ProfileChanges is a partial profile update; nil fields are left untouched.
type ProfileChanges struct {
	Username *string
	Email    *string
	FullName *string
}

// Empty reports whether no field is set.
func (c ProfileChanges) Empty() bool {
	return c.Username == nil && c.Email == nil && c.FullName == nil
}
