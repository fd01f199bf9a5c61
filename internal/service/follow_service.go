package service

import (
	"context"

	"socialfeed/internal/models"
	"socialfeed/internal/notifications"
	"socialfeed/internal/observability"
	"socialfeed/internal/repository"
)

// FollowService maintains the directed follow graph.
type FollowService struct {
	followRepo repository.FollowRepository
	userRepo   repository.UserRepository
	publisher  notifications.Publisher
}

func NewFollowService(
	followRepo repository.FollowRepository,
	userRepo repository.UserRepository,
	publisher notifications.Publisher,
) *FollowService {
	if publisher == nil {
		publisher = notifications.NoopPublisher{}
	}
	return &FollowService{followRepo: followRepo, userRepo: userRepo, publisher: publisher}
}

// Follow creates the edge followerID -> followedID. Following someone twice
// is a Conflict, not a silent success.
func (s *FollowService) Follow(ctx context.Context, followerID, followedID uint) (err error) {
	ctx, end := startSpan(ctx, "FollowService.Follow", idAttr("follower.id", followerID), idAttr("followed.id", followedID))
	defer end(&err)

	if followerID == followedID {
		observability.RecordEngagement("follow", "rejected")
		return models.NewValidationError("Cannot follow yourself").WithReason(models.ReasonSelfFollow)
	}

	created, err := s.followRepo.Create(ctx, followerID, followedID)
	if err != nil {
		return err
	}
	if !created {
		if _, err := s.userRepo.GetByID(ctx, followedID); err != nil {
			observability.RecordEngagement("follow", "rejected")
			return err
		}
		observability.RecordEngagement("follow", "conflict")
		return models.NewConflictError("Already following this user").WithReason(models.ReasonAlreadyFollowing)
	}

	observability.RecordEngagement("follow", "created")
	event := notifications.NewEvent(notifications.EventUserFollowed, followerID)
	event.TargetUserID = followedID
	notifications.Emit(ctx, s.publisher, event)
	return nil
}

// Unfollow removes the edge. A missing edge is a Conflict and changes nothing.
func (s *FollowService) Unfollow(ctx context.Context, followerID, followedID uint) (err error) {
	ctx, end := startSpan(ctx, "FollowService.Unfollow", idAttr("follower.id", followerID), idAttr("followed.id", followedID))
	defer end(&err)

	removed, err := s.followRepo.Delete(ctx, followerID, followedID)
	if err != nil {
		return err
	}
	if !removed {
		observability.RecordEngagement("unfollow", "conflict")
		return models.NewConflictError("You do not follow this user").WithReason(models.ReasonNotFollowing)
	}
	observability.RecordEngagement("unfollow", "deleted")
	return nil
}

// ListFollowing returns every visible user userID follows.
func (s *FollowService) ListFollowing(ctx context.Context, userID uint) (users []models.UserSummary, err error) {
	ctx, end := startSpan(ctx, "FollowService.ListFollowing", idAttr("user.id", userID))
	defer end(&err)

	return s.followRepo.ListFollowing(ctx, userID)
}

// ListFollowers returns every visible user following userID.
func (s *FollowService) ListFollowers(ctx context.Context, userID uint) (users []models.UserSummary, err error) {
	ctx, end := startSpan(ctx, "FollowService.ListFollowers", idAttr("user.id", userID))
	defer end(&err)

	return s.followRepo.ListFollowers(ctx, userID)
}

// Counts returns live follow counts of a visible user.
func (s *FollowService) Counts(ctx context.Context, userID uint) (counts models.FollowCounts, err error) {
	ctx, end := startSpan(ctx, "FollowService.Counts", idAttr("user.id", userID))
	defer end(&err)

	if _, err := s.userRepo.GetByID(ctx, userID); err != nil {
		return counts, err
	}
	return s.followRepo.Counts(ctx, userID)
}

func (s *FollowService) IsFollowing(ctx context.Context, followerID, followedID uint) (bool, error) {
	return s.followRepo.IsFollowing(ctx, followerID, followedID)
}
