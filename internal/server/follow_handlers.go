package server

import (
	"github.com/gofiber/fiber/v2"
)

// FollowAuthor handles POST /api/users/:username/follow. Redirects back to
// the author's profile; self-follow silently changes nothing.
func (s *Server) FollowAuthor(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)
	username := c.Params("username")

	if err := s.followService.Follow(c.Context(), userID, username); err != nil {
		return respondServiceError(c, err)
	}

	return c.Redirect("/api/users/"+username+"/posts", fiber.StatusFound)
}

// UnfollowAuthor handles DELETE /api/users/:username/follow. Unfollowing
// someone you don't follow is a no-op; either way the client lands back on
// the profile.
func (s *Server) UnfollowAuthor(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)
	username := c.Params("username")

	if err := s.followService.Unfollow(c.Context(), userID, username); err != nil {
		return respondServiceError(c, err)
	}

	return c.Redirect("/api/users/"+username+"/posts", fiber.StatusFound)
}
