package service

import (
	"context"
	"strings"

	"socialfeed/internal/models"
	"socialfeed/internal/pagination"
	"socialfeed/internal/repository"
)

// FeedService composes paginated post listings.
type FeedService struct {
	feedRepo repository.FeedRepository
	postRepo repository.PostRepository
	userRepo repository.UserRepository
}

func NewFeedService(
	feedRepo repository.FeedRepository,
	postRepo repository.PostRepository,
	userRepo repository.UserRepository,
) *FeedService {
	return &FeedService{feedRepo: feedRepo, postRepo: postRepo, userRepo: userRepo}
}

// Feed returns the posts of userID and everyone userID follows, newest first.
func (s *FeedService) Feed(ctx context.Context, userID uint, params pagination.Params) (page pagination.Page[*models.Post], err error) {
	ctx, end := startSpan(ctx, "FeedService.Feed", idAttr("user.id", userID))
	defer end(&err)

	posts, err := s.feedRepo.Feed(ctx, userID, params.Limit, params.Offset)
	if err != nil {
		return page, err
	}
	return pagination.NewPage(posts, params), nil
}

// Search matches post content as a case-insensitive substring.
func (s *FeedService) Search(ctx context.Context, query string, params pagination.Params, currentUserID uint) (page pagination.Page[*models.Post], err error) {
	ctx, end := startSpan(ctx, "FeedService.Search")
	defer end(&err)

	query = strings.TrimSpace(query)
	if query == "" {
		return page, models.NewValidationError("Search query is required")
	}
	posts, err := s.feedRepo.SearchByContent(ctx, query, params.Limit, params.Offset, currentUserID)
	if err != nil {
		return page, err
	}
	return pagination.NewPage(posts, params), nil
}

// UserPosts lists one visible author's posts, newest first.
func (s *FeedService) UserPosts(ctx context.Context, authorID uint, params pagination.Params, currentUserID uint) (page pagination.Page[*models.Post], err error) {
	ctx, end := startSpan(ctx, "FeedService.UserPosts", idAttr("user.id", authorID))
	defer end(&err)

	if _, err := s.userRepo.GetByID(ctx, authorID); err != nil {
		return page, err
	}
	posts, err := s.postRepo.GetByUserID(ctx, authorID, params.Limit, params.Offset, currentUserID)
	if err != nil {
		return page, err
	}
	return pagination.NewPage(posts, params), nil
}
