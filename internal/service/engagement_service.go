package service

import (
	"context"

	"socialfeed/internal/models"
	"socialfeed/internal/notifications"
	"socialfeed/internal/observability"
	"socialfeed/internal/repository"
)

// EngagementService handles likes and their aggregates.
type EngagementService struct {
	likeRepo  repository.LikeRepository
	postRepo  repository.PostRepository
	publisher notifications.Publisher
}

func NewEngagementService(
	likeRepo repository.LikeRepository,
	postRepo repository.PostRepository,
	publisher notifications.Publisher,
) *EngagementService {
	if publisher == nil {
		publisher = notifications.NoopPublisher{}
	}
	return &EngagementService{likeRepo: likeRepo, postRepo: postRepo, publisher: publisher}
}

// Like records userID's like on postID. When nothing is inserted the cause is
// resolved from the post: missing is NotFound, own post is Forbidden and an
// existing like is Conflict, each with its reason code.
func (s *EngagementService) Like(ctx context.Context, userID, postID uint) (err error) {
	ctx, end := startSpan(ctx, "EngagementService.Like", idAttr("user.id", userID), idAttr("post.id", postID))
	defer end(&err)

	created, err := s.likeRepo.Create(ctx, userID, postID)
	if err != nil {
		return err
	}

	ownerID, ownerErr := s.postRepo.OwnerOf(ctx, postID)
	if !created {
		switch {
		case models.HasCode(ownerErr, models.CodeNotFound):
			observability.RecordEngagement("like", "rejected")
			return models.NewNotFoundError("Post", postID).WithReason(models.ReasonPostMissing)
		case ownerErr != nil:
			return ownerErr
		case ownerID == userID:
			observability.RecordEngagement("like", "rejected")
			return models.NewForbiddenError("You cannot like your own post").WithReason(models.ReasonOwnPost)
		default:
			observability.RecordEngagement("like", "conflict")
			return models.NewConflictError("You have already liked this post").WithReason(models.ReasonAlreadyLiked)
		}
	}

	observability.RecordEngagement("like", "created")
	if ownerErr == nil {
		event := notifications.NewEvent(notifications.EventPostLiked, userID)
		event.TargetUserID = ownerID
		event.PostID = postID
		notifications.Emit(ctx, s.publisher, event)
	}
	return nil
}

// Unlike removes a like on a visible post.
func (s *EngagementService) Unlike(ctx context.Context, userID, postID uint) (err error) {
	ctx, end := startSpan(ctx, "EngagementService.Unlike", idAttr("user.id", userID), idAttr("post.id", postID))
	defer end(&err)

	removed, err := s.likeRepo.Delete(ctx, userID, postID)
	if err != nil {
		return err
	}
	if !removed {
		observability.RecordEngagement("unlike", "rejected")
		return models.NewNotFoundError("Like", postID)
	}
	observability.RecordEngagement("unlike", "deleted")
	return nil
}

// LikesFor returns the like count and liking users of a visible post.
func (s *EngagementService) LikesFor(ctx context.Context, postID uint) (likes *models.PostLikes, err error) {
	ctx, end := startSpan(ctx, "EngagementService.LikesFor", idAttr("post.id", postID))
	defer end(&err)

	users, err := s.likeRepo.LikesFor(ctx, postID)
	if err != nil {
		return nil, err
	}
	return &models.PostLikes{PostID: postID, Count: len(users), Users: users}, nil
}

// HasLiked is false for missing or deleted posts.
func (s *EngagementService) HasLiked(ctx context.Context, userID, postID uint) (bool, error) {
	return s.likeRepo.HasLiked(ctx, userID, postID)
}

// LikedPostIDs lists visible posts liked by userID, most recent like first.
func (s *EngagementService) LikedPostIDs(ctx context.Context, userID uint) ([]uint, error) {
	return s.likeRepo.LikedPostIDs(ctx, userID)
}
