package server

import (
	"socialfeed/internal/models"
	"socialfeed/internal/pagination"
	"socialfeed/internal/service"
	"socialfeed/internal/validation"

	"github.com/gofiber/fiber/v2"
)

type createPostRequest struct {
	Content         string `json:"content" validate:"required,max=5000"`
	MediaURL        string `json:"media_url" validate:"omitempty,url"`
	CommentsEnabled *bool  `json:"comments_enabled"`
}

type updatePostRequest struct {
	Content         *string `json:"content" validate:"omitempty,max=5000"`
	MediaURL        *string `json:"media_url" validate:"omitempty,url"`
	CommentsEnabled *bool   `json:"comments_enabled"`
}

// GetFeed handles GET /api/feed
func (s *Server) GetFeed(c *fiber.Ctx) error {
	page, err := s.feedService.Feed(c.UserContext(), currentUserID(c), parsePagination(c, pagination.DefaultLimit))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(page)
}

// SearchPosts handles GET /api/posts/search?q=...
func (s *Server) SearchPosts(c *fiber.Ctx) error {
	viewer, _ := s.optionalUserID(c)

	page, err := s.feedService.Search(c.UserContext(), c.Query("q"),
		parsePagination(c, pagination.DefaultSearchLimit), viewer)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(page)
}

// CreatePost handles POST /api/posts
func (s *Server) CreatePost(c *fiber.Ctx) error {
	var req createPostRequest
	if err := parseBody(c, &req); err != nil {
		return nil
	}

	post, err := s.postService.CreatePost(c.UserContext(), service.CreatePostInput{
		UserID:          currentUserID(c),
		Content:         validation.SanitizeContent(req.Content),
		MediaURL:        req.MediaURL,
		CommentsEnabled: req.CommentsEnabled,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(post)
}

// GetPost handles GET /api/posts/:id
func (s *Server) GetPost(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	viewer, _ := s.optionalUserID(c)

	post, err := s.postService.GetPost(c.UserContext(), id, viewer)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(post)
}

// UpdatePost handles PUT /api/posts/:id
func (s *Server) UpdatePost(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	var req updatePostRequest
	if err := parseBody(c, &req); err != nil {
		return nil
	}

	changes := models.PostChanges{MediaURL: req.MediaURL, CommentsEnabled: req.CommentsEnabled}
	if req.Content != nil {
		content := validation.SanitizeContent(*req.Content)
		changes.Content = &content
	}

	post, err := s.postService.UpdatePost(c.UserContext(), service.UpdatePostInput{
		UserID:  currentUserID(c),
		PostID:  id,
		Changes: changes,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(post)
}

// DeletePost handles DELETE /api/posts/:id
func (s *Server) DeletePost(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.postService.DeletePost(c.UserContext(), currentUserID(c), id); err != nil {
		return respondError(c, err)
	}
	return respondMessage(c, "Post deleted successfully")
}

// LikePost handles POST /api/posts/:id/like
func (s *Server) LikePost(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.engagementService.Like(c.UserContext(), currentUserID(c), id); err != nil {
		return respondError(c, err)
	}
	return respondMessage(c, "Post liked")
}

// UnlikePost handles DELETE /api/posts/:id/like
func (s *Server) UnlikePost(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.engagementService.Unlike(c.UserContext(), currentUserID(c), id); err != nil {
		return respondError(c, err)
	}
	return respondMessage(c, "Post unliked")
}

// GetPostLikes handles GET /api/posts/:id/likes
func (s *Server) GetPostLikes(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	likes, err := s.engagementService.LikesFor(c.UserContext(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(likes)
}

// HasLikedPost handles GET /api/posts/:id/liked
func (s *Server) HasLikedPost(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	liked, err := s.engagementService.HasLiked(c.UserContext(), currentUserID(c), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"post_id": id, "liked": liked})
}
