package service

import (
	"context"

	"socialfeed/internal/models"
	"socialfeed/internal/notifications"
	"socialfeed/internal/pagination"
	"socialfeed/internal/repository"
)

type CommentService struct {
	commentRepo repository.CommentRepository
	postRepo    repository.PostRepository
	publisher   notifications.Publisher
}

type CreateCommentInput struct {
	UserID  uint
	PostID  uint
	Content string
}

func NewCommentService(
	commentRepo repository.CommentRepository,
	postRepo repository.PostRepository,
	publisher notifications.Publisher,
) *CommentService {
	if publisher == nil {
		publisher = notifications.NoopPublisher{}
	}
	return &CommentService{commentRepo: commentRepo, postRepo: postRepo, publisher: publisher}
}

// CreateComment adds a comment to a visible post that has comments enabled.
func (s *CommentService) CreateComment(ctx context.Context, in CreateCommentInput) (comment *models.Comment, err error) {
	ctx, end := startSpan(ctx, "CommentService.CreateComment", idAttr("post.id", in.PostID))
	defer end(&err)

	if err := validateContent(in.Content); err != nil {
		return nil, err
	}

	comment = &models.Comment{PostID: in.PostID, UserID: in.UserID, Content: in.Content}
	created, err := s.commentRepo.CreateIfAllowed(ctx, comment)
	if err != nil {
		return nil, err
	}
	ownerID, ownerErr := s.postRepo.OwnerOf(ctx, in.PostID)
	if !created {
		if ownerErr != nil {
			return nil, ownerErr
		}
		return nil, models.NewForbiddenError("Comments are disabled for this post").
			WithReason(models.ReasonCommentsDisabled)
	}

	if ownerErr == nil && ownerID != in.UserID {
		event := notifications.NewEvent(notifications.EventCommentCreated, in.UserID)
		event.TargetUserID = ownerID
		event.PostID = in.PostID
		event.CommentID = comment.ID
		notifications.Emit(ctx, s.publisher, event)
	}
	return comment, nil
}

// ListComments returns a visible post's comments, oldest first.
func (s *CommentService) ListComments(ctx context.Context, postID uint, params pagination.Params) (page pagination.Page[*models.Comment], err error) {
	ctx, end := startSpan(ctx, "CommentService.ListComments", idAttr("post.id", postID))
	defer end(&err)

	if _, err := s.postRepo.OwnerOf(ctx, postID); err != nil {
		return page, err
	}
	comments, err := s.commentRepo.ListByPost(ctx, postID, params.Limit, params.Offset)
	if err != nil {
		return page, err
	}
	return pagination.NewPage(comments, params), nil
}

// UpdateComment edits a comment. Only its author may edit it.
func (s *CommentService) UpdateComment(ctx context.Context, userID, commentID uint, content string) (comment *models.Comment, err error) {
	ctx, end := startSpan(ctx, "CommentService.UpdateComment", idAttr("comment.id", commentID))
	defer end(&err)

	if err := validateContent(content); err != nil {
		return nil, err
	}
	existing, err := s.commentRepo.GetByID(ctx, commentID)
	if err != nil {
		return nil, err
	}
	if err := RequireOwner(existing.UserID, userID, "edit this comment"); err != nil {
		return nil, err
	}
	if err := s.commentRepo.Update(ctx, commentID, content); err != nil {
		return nil, err
	}
	return s.commentRepo.GetByID(ctx, commentID)
}

// DeleteComment removes a comment. Its author and the owner of a visible
// parent post may delete it.
func (s *CommentService) DeleteComment(ctx context.Context, userID, commentID uint) (err error) {
	ctx, end := startSpan(ctx, "CommentService.DeleteComment", idAttr("comment.id", commentID))
	defer end(&err)

	existing, err := s.commentRepo.GetByID(ctx, commentID)
	if err != nil {
		return err
	}
	if !IsOwner(existing.UserID, userID) {
		postOwner, err := s.postRepo.OwnerOf(ctx, existing.PostID)
		if err != nil && !models.HasCode(err, models.CodeNotFound) {
			return err
		}
		if err := RequireOwner(postOwner, userID, "delete this comment"); err != nil {
			return err
		}
	}
	return s.commentRepo.Delete(ctx, commentID)
}
