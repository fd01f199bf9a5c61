package repository

import (
	"context"

	"socialfeed/internal/models"

	"gorm.io/gorm"
)

// FollowRepository stores directed follow edges between users.
type FollowRepository interface {
	Create(ctx context.Context, followerID, followedID uint) (bool, error)
	Delete(ctx context.Context, followerID, followedID uint) (bool, error)
	ListFollowing(ctx context.Context, userID uint) ([]models.UserSummary, error)
	ListFollowers(ctx context.Context, userID uint) ([]models.UserSummary, error)
	Counts(ctx context.Context, userID uint) (models.FollowCounts, error)
	IsFollowing(ctx context.Context, followerID, followedID uint) (bool, error)
}

type followRepository struct {
	db *gorm.DB
}

// NewFollowRepository creates a new follow repository
func NewFollowRepository(db *gorm.DB) FollowRepository {
	return &followRepository{db: db}
}

const insertFollowIfVisible = `INSERT INTO follows (follower_id, followed_id, created_at)
SELECT CAST(? AS BIGINT), users.id, CURRENT_TIMESTAMP
FROM users
WHERE users.id = ? AND users.deleted_at IS NULL
ON CONFLICT (follower_id, followed_id) DO NOTHING`

// Create inserts the edge when the followed user is visible. It reports
// false when the edge already existed or the user is gone.
func (r *followRepository) Create(ctx context.Context, followerID, followedID uint) (bool, error) {
	result := r.db.WithContext(ctx).Exec(insertFollowIfVisible, followerID, followedID)
	if result.Error != nil {
		if isUniqueViolation(result.Error) {
			return false, nil
		}
		return false, classifyError(ctx, "follow.create", result.Error)
	}
	return result.RowsAffected > 0, nil
}

func (r *followRepository) Delete(ctx context.Context, followerID, followedID uint) (bool, error) {
	result := r.db.WithContext(ctx).
		Where("follower_id = ? AND followed_id = ?", followerID, followedID).
		Delete(&models.Follow{})
	if result.Error != nil {
		return false, classifyError(ctx, "follow.delete", result.Error)
	}
	return result.RowsAffected > 0, nil
}

// ListFollowing returns the users userID follows, by username. Unbounded.
func (r *followRepository) ListFollowing(ctx context.Context, userID uint) ([]models.UserSummary, error) {
	return r.list(ctx, "follow.list_following", "follows.followed_id", "follows.follower_id", userID)
}

// ListFollowers returns the users following userID, by username. Unbounded.
func (r *followRepository) ListFollowers(ctx context.Context, userID uint) ([]models.UserSummary, error) {
	return r.list(ctx, "follow.list_followers", "follows.follower_id", "follows.followed_id", userID)
}

func (r *followRepository) list(ctx context.Context, op, otherEnd, ownEnd string, userID uint) ([]models.UserSummary, error) {
	users := []models.UserSummary{}
	err := readDB(ctx, r.db).
		Table("follows").
		Select("users.id, users.username, users.full_name").
		Joins("JOIN users ON users.id = "+otherEnd+" AND users.deleted_at IS NULL").
		Where(ownEnd+" = ?", userID).
		Order("users.username ASC").
		Scan(&users).Error
	if err != nil {
		return nil, classifyError(ctx, op, err)
	}
	return users, nil
}

// Counts computes both follow counts on every call.
func (r *followRepository) Counts(ctx context.Context, userID uint) (models.FollowCounts, error) {
	var counts models.FollowCounts
	err := readDB(ctx, r.db).Model(&models.Follow{}).
		Where("follower_id = ?", userID).
		Count(&counts.FollowingCount).Error
	if err != nil {
		return counts, classifyError(ctx, "follow.count_following", err)
	}
	err = readDB(ctx, r.db).Model(&models.Follow{}).
		Where("followed_id = ?", userID).
		Count(&counts.FollowersCount).Error
	if err != nil {
		return counts, classifyError(ctx, "follow.count_followers", err)
	}
	return counts, nil
}

func (r *followRepository) IsFollowing(ctx context.Context, followerID, followedID uint) (bool, error) {
	var count int64
	err := readDB(ctx, r.db).Model(&models.Follow{}).
		Where("follower_id = ? AND followed_id = ?", followerID, followedID).
		Count(&count).Error
	if err != nil {
		return false, classifyError(ctx, "follow.exists", err)
	}
	return count > 0, nil
}
