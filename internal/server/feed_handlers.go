package server

import (
	"github.com/gofiber/fiber/v2"
)

// GetHomeFeed handles GET /api/posts. The route sits behind the page cache
// middleware, so within the TTL repeated requests are served the stored body
// without reaching this handler.
func (s *Server) GetHomeFeed(c *fiber.Ctx) error {
	feed, err := s.feedService.HomeFeed(c.Context(), parsePage(c))
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(feed)
}

// GetGroupFeed handles GET /api/groups/:slug/posts
func (s *Server) GetGroupFeed(c *fiber.Ctx) error {
	group, feed, err := s.feedService.GroupFeed(c.Context(), c.Params("slug"), parsePage(c))
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{
		"group": group,
		"feed":  feed,
	})
}

// GetProfileFeed handles GET /api/users/:username/posts. An authenticated
// viewer additionally learns whether they follow the author.
func (s *Server) GetProfileFeed(c *fiber.Ctx) error {
	author, feed, err := s.feedService.AuthorFeed(c.Context(), c.Params("username"), parsePage(c))
	if err != nil {
		return respondServiceError(c, err)
	}

	following := false
	if viewerID, ok := s.optionalUserID(c); ok {
		following, err = s.followService.IsFollowing(c.Context(), viewerID, author.ID)
		if err != nil {
			return respondServiceError(c, err)
		}
	}

	return c.JSON(fiber.Map{
		"author":    author,
		"following": following,
		"feed":      feed,
	})
}

// GetFollowingFeed handles GET /api/feed/following
func (s *Server) GetFollowingFeed(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	feed, err := s.feedService.FollowingFeed(c.Context(), userID, parsePage(c))
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(feed)
}

// GetPost handles GET /api/posts/:id, returning the post with its comments,
// newest first.
func (s *Server) GetPost(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	post, err := s.postRepo.GetByID(c.Context(), id)
	if err != nil {
		return respondServiceError(c, err)
	}

	comments, err := s.commentService.ListComments(c.Context(), id)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(fiber.Map{
		"post":     post,
		"comments": comments,
	})
}

// GetGroups handles GET /api/groups
func (s *Server) GetGroups(c *fiber.Ctx) error {
	groups, err := s.groupRepo.List(c.Context())
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"groups": groups})
}
