package server

import (
	"quill/internal/cache"
	"quill/internal/models"

	"github.com/gofiber/fiber/v2"
)

// ClearFeedCache handles POST /api/admin/cache/clear. It drops the cached
// home feed body so the next request renders current state; this is the only
// way to see a write before the TTL elapses.
func (s *Server) ClearFeedCache(c *fiber.Ctx) error {
	key := cache.IndexPageKey(homeFeedRoute)
	if err := cache.ClearPage(c.Context(), s.redis, key); err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}

	return c.JSON(fiber.Map{"status": "cleared"})
}
