package repository

import (
	"context"

	"socialfeed/internal/models"

	"gorm.io/gorm"
)

// FeedRepository composes the home feed and content search.
type FeedRepository interface {
	Feed(ctx context.Context, userID uint, limit, offset int) ([]*models.Post, error)
	SearchByContent(ctx context.Context, key string, limit, offset int, currentUserID uint) ([]*models.Post, error)
}

type feedRepository struct {
	db *gorm.DB
}

// NewFeedRepository creates a new feed repository
func NewFeedRepository(db *gorm.DB) FeedRepository {
	return &feedRepository{db: db}
}

// Feed returns posts by userID and by everyone userID follows, newest first.
func (r *feedRepository) Feed(ctx context.Context, userID uint, limit, offset int) ([]*models.Post, error) {
	var posts []*models.Post
	err := readDB(ctx, r.db).
		Scopes(visiblePosts, withAuthor, postDetails(userID), newestFirst).
		Where("(posts.user_id = ? OR posts.user_id IN (SELECT followed_id FROM follows WHERE follower_id = ?))", userID, userID).
		Limit(limit).
		Offset(offset).
		Find(&posts).Error
	if err != nil {
		return nil, classifyError(ctx, "feed.list", err)
	}
	return posts, nil
}

// SearchByContent matches content case-insensitively as a substring.
func (r *feedRepository) SearchByContent(ctx context.Context, key string, limit, offset int, currentUserID uint) ([]*models.Post, error) {
	var posts []*models.Post
	err := readDB(ctx, r.db).
		Scopes(visiblePosts, withAuthor, postDetails(currentUserID), newestFirst).
		Where(`LOWER(posts.content) LIKE ? ESCAPE '\'`, containsPattern(key)).
		Limit(limit).
		Offset(offset).
		Find(&posts).Error
	if err != nil {
		return nil, classifyError(ctx, "feed.search", err)
	}
	return posts, nil
}
