package server

import (
	"fmt"

	"quill/internal/models"

	"github.com/gofiber/fiber/v2"
)

// CreateComment handles POST /api/posts/:id/comments. On success the client
// is redirected back to the post detail.
func (s *Server) CreateComment(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)
	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req struct {
		Text string `json:"text"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	if _, err := s.commentService.AddComment(c.Context(), userID, postID, req.Text); err != nil {
		return respondServiceError(c, err)
	}

	return c.Redirect(fmt.Sprintf("/api/posts/%d", postID), fiber.StatusFound)
}
