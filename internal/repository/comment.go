package repository

import (
	"context"

	"socialfeed/internal/models"

	"gorm.io/gorm"
)

// CommentRepository defines the interface for comment data operations
type CommentRepository interface {
	CreateIfAllowed(ctx context.Context, comment *models.Comment) (bool, error)
	GetByID(ctx context.Context, id uint) (*models.Comment, error)
	ListByPost(ctx context.Context, postID uint, limit, offset int) ([]*models.Comment, error)
	Update(ctx context.Context, id uint, content string) error
	Delete(ctx context.Context, id uint) error
}

// commentRepository implements CommentRepository
type commentRepository struct {
	db *gorm.DB
}

// NewCommentRepository creates a new comment repository
func NewCommentRepository(db *gorm.DB) CommentRepository {
	return &commentRepository{db: db}
}

const insertCommentIfAllowed = `INSERT INTO comments (post_id, user_id, content, created_at, updated_at)
SELECT posts.id, CAST(? AS BIGINT), ?, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP
FROM posts
JOIN users ON users.id = posts.user_id AND users.deleted_at IS NULL
WHERE posts.id = ? AND posts.deleted_at IS NULL AND posts.comments_enabled = ?
RETURNING id`

// CreateIfAllowed inserts the comment only when its post is visible and has
// comments enabled. It reports false when the guard matched no post.
func (r *commentRepository) CreateIfAllowed(ctx context.Context, comment *models.Comment) (bool, error) {
	var ids []uint
	err := r.db.WithContext(ctx).
		Raw(insertCommentIfAllowed, comment.UserID, comment.Content, comment.PostID, true).
		Scan(&ids).Error
	if err != nil {
		return false, classifyError(ctx, "comment.create", err)
	}
	if len(ids) == 0 {
		return false, nil
	}

	created, err := r.get(ctx, writeDB(ctx, r.db), ids[0])
	if err != nil {
		return false, err
	}
	*comment = *created
	return true, nil
}

func withCommentAuthor(db *gorm.DB) *gorm.DB {
	return db.Select("comments.*, users.username").
		Joins("LEFT JOIN users ON users.id = comments.user_id")
}

func (r *commentRepository) GetByID(ctx context.Context, id uint) (*models.Comment, error) {
	return r.get(ctx, readDB(ctx, r.db), id)
}

func (r *commentRepository) get(ctx context.Context, db *gorm.DB, id uint) (*models.Comment, error) {
	var comment models.Comment
	err := db.Scopes(withCommentAuthor).Where("comments.id = ?", id).Take(&comment).Error
	if err != nil {
		return nil, notFoundOr(ctx, "comment.get", err, "Comment", id)
	}
	return &comment, nil
}

// ListByPost returns comments of a visible post, oldest first.
func (r *commentRepository) ListByPost(ctx context.Context, postID uint, limit, offset int) ([]*models.Comment, error) {
	var comments []*models.Comment
	err := readDB(ctx, r.db).
		Scopes(withCommentAuthor).
		Joins("JOIN posts ON posts.id = comments.post_id AND posts.deleted_at IS NULL").
		Where("comments.post_id = ?", postID).
		Order("comments.created_at ASC").
		Order("comments.id ASC").
		Limit(limit).
		Offset(offset).
		Find(&comments).Error
	if err != nil {
		return nil, classifyError(ctx, "comment.list", err)
	}
	return comments, nil
}

func (r *commentRepository) Update(ctx context.Context, id uint, content string) error {
	result := r.db.WithContext(ctx).
		Model(&models.Comment{}).
		Where("id = ?", id).
		Update("content", content)
	if result.Error != nil {
		return classifyError(ctx, "comment.update", result.Error)
	}
	if result.RowsAffected == 0 {
		return models.NewNotFoundError("Comment", id)
	}
	return nil
}

// Delete removes the comment row.
func (r *commentRepository) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&models.Comment{}, id)
	if result.Error != nil {
		return classifyError(ctx, "comment.delete", result.Error)
	}
	if result.RowsAffected == 0 {
		return models.NewNotFoundError("Comment", id)
	}
	return nil
}
