package repository

import (
	"context"

	"socialfeed/internal/models"

	"gorm.io/gorm"
)

// LikeRepository stores likes. A like never exists on a user's own post and
// likes on soft-deleted posts read as absent.
type LikeRepository interface {
	Create(ctx context.Context, userID, postID uint) (bool, error)
	Delete(ctx context.Context, userID, postID uint) (bool, error)
	LikesFor(ctx context.Context, postID uint) ([]models.UserSummary, error)
	HasLiked(ctx context.Context, userID, postID uint) (bool, error)
	LikedPostIDs(ctx context.Context, userID uint) ([]uint, error)
}

type likeRepository struct {
	db *gorm.DB
}

// NewLikeRepository creates a new like repository
func NewLikeRepository(db *gorm.DB) LikeRepository {
	return &likeRepository{db: db}
}

const insertLikeIfAllowed = `INSERT INTO likes (user_id, post_id, created_at)
SELECT CAST(? AS BIGINT), posts.id, CURRENT_TIMESTAMP
FROM posts
JOIN users ON users.id = posts.user_id AND users.deleted_at IS NULL
WHERE posts.id = ? AND posts.deleted_at IS NULL AND posts.user_id <> ?
ON CONFLICT (user_id, post_id) DO NOTHING`

// Create inserts a like when the post is visible and not owned by userID.
// It reports false when nothing was inserted.
func (r *likeRepository) Create(ctx context.Context, userID, postID uint) (bool, error) {
	result := r.db.WithContext(ctx).Exec(insertLikeIfAllowed, userID, postID, userID)
	if result.Error != nil {
		if isUniqueViolation(result.Error) {
			return false, nil
		}
		return false, classifyError(ctx, "like.create", result.Error)
	}
	return result.RowsAffected > 0, nil
}

// Delete removes a like on a visible post and reports whether one existed.
func (r *likeRepository) Delete(ctx context.Context, userID, postID uint) (bool, error) {
	result := r.db.WithContext(ctx).
		Where("user_id = ? AND post_id = ?", userID, postID).
		Where("post_id IN (?)", r.db.Model(&models.Post{}).Scopes(visiblePosts).Select("posts.id").Where("posts.id = ?", postID)).
		Delete(&models.Like{})
	if result.Error != nil {
		return false, classifyError(ctx, "like.delete", result.Error)
	}
	return result.RowsAffected > 0, nil
}

// LikesFor returns every user who liked a visible post. Unbounded.
func (r *likeRepository) LikesFor(ctx context.Context, postID uint) ([]models.UserSummary, error) {
	users := []models.UserSummary{}
	err := readDB(ctx, r.db).
		Table("likes").
		Select("users.id, users.username, users.full_name").
		Joins("JOIN posts ON posts.id = likes.post_id AND posts.deleted_at IS NULL").
		Joins("JOIN users ON users.id = likes.user_id AND users.deleted_at IS NULL").
		Where("likes.post_id = ?", postID).
		Order("likes.created_at ASC").
		Order("users.id ASC").
		Scan(&users).Error
	if err != nil {
		return nil, classifyError(ctx, "like.list", err)
	}
	return users, nil
}

// HasLiked is false for missing and soft-deleted posts.
func (r *likeRepository) HasLiked(ctx context.Context, userID, postID uint) (bool, error) {
	var count int64
	err := readDB(ctx, r.db).
		Model(&models.Like{}).
		Joins("JOIN posts ON posts.id = likes.post_id AND posts.deleted_at IS NULL").
		Where("likes.user_id = ? AND likes.post_id = ?", userID, postID).
		Count(&count).Error
	if err != nil {
		return false, classifyError(ctx, "like.exists", err)
	}
	return count > 0, nil
}

func (r *likeRepository) LikedPostIDs(ctx context.Context, userID uint) ([]uint, error) {
	ids := []uint{}
	err := readDB(ctx, r.db).
		Model(&models.Like{}).
		Joins("JOIN posts ON posts.id = likes.post_id AND posts.deleted_at IS NULL").
		Where("likes.user_id = ?", userID).
		Order("likes.created_at DESC").
		Pluck("likes.post_id", &ids).Error
	if err != nil {
		return nil, classifyError(ctx, "like.liked_post_ids", err)
	}
	return ids, nil
}
