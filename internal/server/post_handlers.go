package server

import (
	"fmt"

	"quill/internal/models"
	"quill/internal/service"

	"github.com/gofiber/fiber/v2"
)

// CreatePost handles POST /api/posts. On success the client is redirected
// to the author's profile feed. The cached home feed is deliberately left
// alone: it ages out on its own TTL.
func (s *Server) CreatePost(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	var req struct {
		Text      string `json:"text"`
		GroupSlug string `json:"group"`
		ImageURL  string `json:"image_url"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	post, err := s.postService.CreatePost(c.Context(), service.CreatePostInput{
		UserID:    userID,
		Text:      req.Text,
		GroupSlug: req.GroupSlug,
		ImageURL:  req.ImageURL,
	})
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.Redirect("/api/users/"+post.User.Username+"/posts", fiber.StatusFound)
}

// UpdatePost handles PUT /api/posts/:id. An edit attempt by a non-author is
// a soft failure: the client is redirected to the post detail with nothing
// changed, instead of receiving a 403.
func (s *Server) UpdatePost(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req struct {
		Text      string `json:"text"`
		GroupSlug string `json:"group"`
		ImageURL  string `json:"image_url"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	detailURL := fmt.Sprintf("/api/posts/%d", id)

	_, err = s.postService.UpdatePost(c.Context(), service.UpdatePostInput{
		UserID:    userID,
		PostID:    id,
		Text:      req.Text,
		GroupSlug: req.GroupSlug,
		ImageURL:  req.ImageURL,
	})
	if err != nil {
		if models.IsUnauthorized(err) {
			return c.Redirect(detailURL, fiber.StatusFound)
		}
		return respondServiceError(c, err)
	}

	return c.Redirect(detailURL, fiber.StatusFound)
}

// DeletePost handles DELETE /api/posts/:id
func (s *Server) DeletePost(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.postService.DeletePost(c.Context(), service.DeletePostInput{
		UserID: userID,
		PostID: id,
	}); err != nil {
		return respondServiceError(c, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}
