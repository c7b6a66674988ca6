package server

import (
	"errors"

	"campuslink/internal/models"

	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/v2/bson"
)

// errResponseWritten is a sentinel indicating the HTTP response was already
// committed by a helper. Handlers must return nil (not this error) to avoid
// Fiber's ErrorHandler overwriting the response.
var errResponseWritten = errors.New("response already written")

// parsePostID extracts the :id route parameter as a hex ObjectID.
// On failure it writes a 400 JSON response and returns errResponseWritten.
// Callers should check: if err != nil { return nil }
func parsePostID(c *fiber.Ctx) (string, error) {
	id := c.Params("id")
	if _, err := bson.ObjectIDFromHex(id); err != nil {
		_ = models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid post ID"))
		return "", errResponseWritten
	}
	return id, nil
}
