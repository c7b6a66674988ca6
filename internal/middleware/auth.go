// Package middleware provides authentication, logging, and metrics middleware
// for the application.
package middleware

import (
	"context"
	"strings"

	"campuslink/internal/auth"
	"campuslink/internal/models"
	"campuslink/internal/repository"

	"github.com/gofiber/fiber/v2"
)

const currentUserKey = "currentUser"

// RequireAuth enforces bearer-token authentication. On success the current
// user is re-hydrated from the credential store (exactly one lookup per
// request, no caching) and stored in Fiber locals.
//
// A token that verifies but names a moodle ID with no user record is
// surfaced as a 500 AUTH_UNKNOWN_USER rather than a 401: the record was
// deleted out from under a live token, which is a server-side anomaly.
func RequireAuth(authn *auth.Authenticator, users repository.UserRepository) fiber.Handler {
	return func(c *fiber.Ctx) error {
		header := c.Get("Authorization")
		if header == "" {
			return models.RespondWithError(c, fiber.StatusUnauthorized,
				models.NewAuthError(models.CodeAuthMissing, "Authentication token is missing"))
		}

		parts := strings.Split(header, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			return models.RespondWithError(c, fiber.StatusUnauthorized,
				models.NewAuthError(models.CodeAuthInvalid, "Invalid authorization header format"))
		}

		moodleID, err := authn.Verify(parts[1])
		if err != nil {
			return models.RespondWithError(c, fiber.StatusUnauthorized, err)
		}

		user, err := users.GetByMoodleID(c.UserContext(), moodleID)
		if err != nil {
			return models.RespondWithError(c, fiber.StatusInternalServerError,
				models.NewInternalError(err))
		}
		if user == nil {
			return models.RespondWithError(c, fiber.StatusInternalServerError,
				models.NewAuthError(models.CodeAuthUnknownUser, "Token subject no longer exists"))
		}

		c.Locals(currentUserKey, user)
		c.SetUserContext(context.WithValue(c.UserContext(), MoodleIDKey, user.MoodleID))

		return c.Next()
	}
}

// CurrentUser returns the authenticated user placed in locals by RequireAuth.
func CurrentUser(c *fiber.Ctx) *models.User {
	user, _ := c.Locals(currentUserKey).(*models.User)
	return user
}
