package server

import (
	"campuslink/internal/models"
	"campuslink/internal/service"

	"github.com/gofiber/fiber/v2"
)

// Register handles POST /api/auth/register.
// On success it returns 201 with a session token and the public user fields;
// the password hash is excluded from the response by the model's json tags.
func (s *Server) Register(c *fiber.Ctx) error {
	var req service.RegisterInput
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	user, err := s.userService.Register(c.UserContext(), req)
	if err != nil {
		return models.RespondWithError(c, models.HTTPStatus(err), err)
	}

	token, err := s.authn.Issue(user.MoodleID, s.config.RegisterTokenTTL)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"accessToken": token,
		"user":        user,
	})
}

// Login handles POST /api/auth/login.
func (s *Server) Login(c *fiber.Ctx) error {
	var req struct {
		MoodleID string `json:"moodleId"`
		Password string `json:"password"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	user, err := s.userService.Authenticate(c.UserContext(), req.MoodleID, req.Password)
	if err != nil {
		return models.RespondWithError(c, models.HTTPStatus(err), err)
	}

	token, err := s.authn.Issue(user.MoodleID, s.config.LoginTokenTTL)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}

	return c.JSON(fiber.Map{
		"accessToken": token,
		"user":        user,
	})
}
