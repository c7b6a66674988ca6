package server

import (
	"campuslink/internal/models"

	"github.com/gofiber/fiber/v2"
)

// GetInternships handles GET /api/internships?domain=...
func (s *Server) GetInternships(c *fiber.Ctx) error {
	domain := c.Query("domain")
	if domain == "" {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("domain query parameter is required"))
	}

	internships, err := s.internships.ListByDomain(c.UserContext(), domain)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}

	return c.JSON(fiber.Map{"internships": internships})
}
