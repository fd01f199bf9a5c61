package models

import "time"

// Like represents a user's like on a post.
// The combination of UserID and PostID is the identity.
type Like struct {
	UserID    uint      `gorm:"primaryKey;autoIncrement:false" json:"user_id"`
	PostID    uint      `gorm:"primaryKey;autoIncrement:false;index" json:"post_id"`
	CreatedAt time.Time `json:"created_at"`
}

// Follow is a directed edge: FollowerID follows FollowedID.
type Follow struct {
	FollowerID uint      `gorm:"primaryKey;autoIncrement:false" json:"follower_id"`
	FollowedID uint      `gorm:"primaryKey;autoIncrement:false;index" json:"followed_id"`
	CreatedAt  time.Time `json:"created_at"`
}

// PostLikes is the like count and liking users of one post.
type PostLikes struct {
	PostID uint          `json:"post_id"`
	Count  int           `json:"count"`
	Users  []UserSummary `json:"users"`
}
