package repository

import (
	"context"
	"errors"

	"socialfeed/internal/models"

	"gorm.io/gorm"
)

// PostRepository defines the interface for post data operations
type PostRepository interface {
	Create(ctx context.Context, post *models.Post) error
	GetByID(ctx context.Context, id uint, currentUserID uint) (*models.Post, error)
	GetByUserID(ctx context.Context, userID uint, limit, offset int, currentUserID uint) ([]*models.Post, error)
	OwnerOf(ctx context.Context, id uint) (uint, error)
	Update(ctx context.Context, id, ownerID uint, changes models.PostChanges) (int64, error)
	SoftDelete(ctx context.Context, id, ownerID uint) (int64, error)
	IsDeleted(ctx context.Context, id uint) (bool, error)
}

// postRepository implements PostRepository
type postRepository struct {
	db *gorm.DB
}

// NewPostRepository creates a new post repository
func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{db: db}
}

// visiblePosts is the single predicate hiding soft-deleted posts. Every
// post-returning read composes through it.
func visiblePosts(db *gorm.DB) *gorm.DB {
	return db.Unscoped().Where("posts.deleted_at IS NULL")
}

// withAuthor joins the post author and hides posts of soft-deleted users.
func withAuthor(db *gorm.DB) *gorm.DB {
	return db.Joins("JOIN users ON users.id = posts.user_id AND users.deleted_at IS NULL")
}

// postDetails selects author identity and live engagement counts.
func postDetails(currentUserID uint) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		selectQuery := "posts.*, users.username, users.full_name, " +
			"(SELECT COUNT(*) FROM comments WHERE comments.post_id = posts.id) AS comments_count, " +
			"(SELECT COUNT(*) FROM likes JOIN users AS likers ON likers.id = likes.user_id AND likers.deleted_at IS NULL " +
			"WHERE likes.post_id = posts.id) AS likes_count"

		if currentUserID != 0 {
			return db.Select(selectQuery+", EXISTS(SELECT 1 FROM likes WHERE likes.post_id = posts.id AND likes.user_id = ?) AS liked", currentUserID)
		}
		return db.Select(selectQuery + ", false AS liked")
	}
}

// newestFirst orders by creation time with id as a stable tiebreak.
func newestFirst(db *gorm.DB) *gorm.DB {
	return db.Order("posts.created_at DESC").Order("posts.id DESC")
}

func (r *postRepository) Create(ctx context.Context, post *models.Post) error {
	if err := r.db.WithContext(ctx).Create(post).Error; err != nil {
		return classifyError(ctx, "post.create", err)
	}
	return nil
}

func (r *postRepository) GetByID(ctx context.Context, id uint, currentUserID uint) (*models.Post, error) {
	var post models.Post
	err := writeDB(ctx, r.db).
		Scopes(visiblePosts, withAuthor, postDetails(currentUserID)).
		Where("posts.id = ?", id).
		Take(&post).Error
	if err != nil {
		return nil, notFoundOr(ctx, "post.get", err, "Post", id)
	}
	return &post, nil
}

func (r *postRepository) GetByUserID(ctx context.Context, userID uint, limit, offset int, currentUserID uint) ([]*models.Post, error) {
	var posts []*models.Post
	err := readDB(ctx, r.db).
		Scopes(visiblePosts, withAuthor, postDetails(currentUserID), newestFirst).
		Where("posts.user_id = ?", userID).
		Limit(limit).
		Offset(offset).
		Find(&posts).Error
	if err != nil {
		return nil, classifyError(ctx, "post.list_by_user", err)
	}
	return posts, nil
}

// OwnerOf returns the owner of a visible post, reading from the primary.
func (r *postRepository) OwnerOf(ctx context.Context, id uint) (uint, error) {
	var post models.Post
	err := writeDB(ctx, r.db).
		Scopes(visiblePosts, withAuthor).
		Select("posts.id", "posts.user_id").
		Where("posts.id = ?", id).
		Take(&post).Error
	if err != nil {
		return 0, notFoundOr(ctx, "post.owner", err, "Post", id)
	}
	return post.UserID, nil
}

// Update writes the provided fields of a visible post owned by ownerID and
// returns the number of rows changed.
func (r *postRepository) Update(ctx context.Context, id, ownerID uint, changes models.PostChanges) (int64, error) {
	if changes.Empty() {
		return 0, models.NewValidationError("No changes made to the post").WithReason(models.ReasonNoChanges)
	}

	updates := map[string]interface{}{}
	if changes.Content != nil {
		updates["content"] = *changes.Content
	}
	if changes.MediaURL != nil {
		updates["media_url"] = *changes.MediaURL
	}
	if changes.CommentsEnabled != nil {
		updates["comments_enabled"] = *changes.CommentsEnabled
	}

	result := r.db.WithContext(ctx).
		Model(&models.Post{}).
		Where("id = ? AND user_id = ?", id, ownerID).
		Updates(updates)
	if result.Error != nil {
		return 0, classifyError(ctx, "post.update", result.Error)
	}
	return result.RowsAffected, nil
}

// SoftDelete marks a post deleted. A caller that does not own the post
// matches zero rows.
func (r *postRepository) SoftDelete(ctx context.Context, id, ownerID uint) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, ownerID).
		Delete(&models.Post{})
	if result.Error != nil {
		return 0, classifyError(ctx, "post.soft_delete", result.Error)
	}
	return result.RowsAffected, nil
}

func (r *postRepository) IsDeleted(ctx context.Context, id uint) (bool, error) {
	var post models.Post
	err := writeDB(ctx, r.db).Unscoped().
		Select("id", "deleted_at").
		Where("id = ?", id).
		Take(&post).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, models.NewNotFoundError("Post", id)
		}
		return false, classifyError(ctx, "post.is_deleted", err)
	}
	return post.DeletedAt.Valid, nil
}
