package server

import (
	"campuslink/internal/middleware"
	"campuslink/internal/models"

	"github.com/gofiber/fiber/v2"
)

// GetCurrentUser handles GET /api/users/me. The user was re-hydrated from
// the credential store by the auth middleware on this very request.
func (s *Server) GetCurrentUser(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"user": middleware.CurrentUser(c)})
}

// UpdateCurrentUser handles PUT /api/users/me. Updates are scoped to the
// authenticated user; the moodle ID in the token decides whose record
// changes, never anything in the body.
func (s *Server) UpdateCurrentUser(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)

	var req models.ProfileUpdate
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	if err := s.userService.UpdateProfile(c.UserContext(), user.MoodleID, req); err != nil {
		return models.RespondWithError(c, models.HTTPStatus(err), err)
	}

	return c.JSON(fiber.Map{"message": "User info updated successfully"})
}

// DeleteCurrentUser handles DELETE /api/users/me.
func (s *Server) DeleteCurrentUser(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)

	if err := s.userService.Delete(c.UserContext(), user.MoodleID); err != nil {
		return models.RespondWithError(c, models.HTTPStatus(err), err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

// ToggleBookmark handles POST /api/posts/:id/bookmark. The toggle mutates
// the user's bookmark list; the post ID is not checked against the post store.
func (s *Server) ToggleBookmark(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)
	postID, err := parsePostID(c)
	if err != nil {
		return nil
	}

	outcome, err := s.userService.ToggleBookmark(c.UserContext(), user.MoodleID, postID)
	if err != nil {
		return models.RespondWithError(c, models.HTTPStatus(err), err)
	}

	return c.JSON(fiber.Map{"status": outcome})
}
