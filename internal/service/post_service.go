package service

import (
	"context"
	"strings"
	"unicode/utf8"

	"socialfeed/internal/models"
	"socialfeed/internal/notifications"
	"socialfeed/internal/repository"
)

const maxContentLen = 5000

type PostService struct {
	postRepo  repository.PostRepository
	publisher notifications.Publisher
}

type CreatePostInput struct {
	UserID          uint
	Content         string
	MediaURL        string
	CommentsEnabled *bool
}

type UpdatePostInput struct {
	UserID  uint
	PostID  uint
	Changes models.PostChanges
}

func NewPostService(postRepo repository.PostRepository, publisher notifications.Publisher) *PostService {
	if publisher == nil {
		publisher = notifications.NoopPublisher{}
	}
	return &PostService{postRepo: postRepo, publisher: publisher}
}

// validateContent counts characters, matching the request validator.
func validateContent(content string) error {
	if strings.TrimSpace(content) == "" {
		return models.NewValidationError("Content is required")
	}
	if utf8.RuneCountInString(content) > maxContentLen {
		return models.NewValidationError("Content too long (max 5000 characters)")
	}
	return nil
}

func (s *PostService) CreatePost(ctx context.Context, in CreatePostInput) (post *models.Post, err error) {
	ctx, end := startSpan(ctx, "PostService.CreatePost", idAttr("user.id", in.UserID))
	defer end(&err)

	if err := validateContent(in.Content); err != nil {
		return nil, err
	}
	commentsEnabled := true
	if in.CommentsEnabled != nil {
		commentsEnabled = *in.CommentsEnabled
	}

	post = &models.Post{
		UserID:          in.UserID,
		Content:         in.Content,
		MediaURL:        strings.TrimSpace(in.MediaURL),
		CommentsEnabled: commentsEnabled,
	}
	if err := s.postRepo.Create(ctx, post); err != nil {
		return nil, err
	}

	event := notifications.NewEvent(notifications.EventPostCreated, in.UserID)
	event.PostID = post.ID
	notifications.Emit(ctx, s.publisher, event)

	return s.postRepo.GetByID(ctx, post.ID, in.UserID)
}

func (s *PostService) GetPost(ctx context.Context, id uint, currentUserID uint) (post *models.Post, err error) {
	ctx, end := startSpan(ctx, "PostService.GetPost", idAttr("post.id", id))
	defer end(&err)

	return s.postRepo.GetByID(ctx, id, currentUserID)
}

// UpdatePost writes the provided fields of a post the caller owns.
func (s *PostService) UpdatePost(ctx context.Context, in UpdatePostInput) (post *models.Post, err error) {
	ctx, end := startSpan(ctx, "PostService.UpdatePost", idAttr("post.id", in.PostID))
	defer end(&err)

	if in.Changes.Content != nil {
		if err := validateContent(*in.Changes.Content); err != nil {
			return nil, err
		}
	}

	existing, err := s.postRepo.GetByID(ctx, in.PostID, in.UserID)
	if err != nil {
		return nil, err
	}
	if err := RequireOwner(existing.UserID, in.UserID, "update this post"); err != nil {
		return nil, err
	}

	rows, err := s.postRepo.Update(ctx, in.PostID, in.UserID, in.Changes)
	if err != nil {
		return nil, err
	}
	if rows == 0 {
		// deleted between the read and the write
		return nil, models.NewNotFoundError("Post", in.PostID)
	}
	return s.postRepo.GetByID(ctx, in.PostID, in.UserID)
}

// DeletePost soft-deletes a post the caller owns.
func (s *PostService) DeletePost(ctx context.Context, userID, postID uint) (err error) {
	ctx, end := startSpan(ctx, "PostService.DeletePost", idAttr("post.id", postID))
	defer end(&err)

	existing, err := s.postRepo.GetByID(ctx, postID, userID)
	if err != nil {
		return err
	}
	if err := RequireOwner(existing.UserID, userID, "delete this post"); err != nil {
		return err
	}

	rows, err := s.postRepo.SoftDelete(ctx, postID, userID)
	if err != nil {
		return err
	}
	if rows == 0 {
		return models.NewNotFoundError("Post", postID)
	}
	return nil
}
