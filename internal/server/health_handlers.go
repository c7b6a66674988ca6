package server

import (
	"context"
	"time"

	"campuslink/internal/cache"

	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/v2/mongo/readpref"
)

// Hello handles GET /, the public greeting endpoint.
func (s *Server) Hello(c *fiber.Ctx) error {
	return c.SendString("Hello! This is the campus community backend")
}

// HealthCheck handles GET /health. Reports the database as degraded rather
// than failing the whole check, so orchestrators can still see the process.
func (s *Server) HealthCheck(c *fiber.Ctx) error {
	status := fiber.Map{"status": "ok"}

	ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
	defer cancel()

	// The cache is best-effort, so its state never degrades the overall status.
	if rc := cache.GetClient(); rc == nil {
		status["cache"] = "disabled"
	} else if err := rc.Ping(ctx).Err(); err != nil {
		status["cache"] = "unreachable"
	} else {
		status["cache"] = "ok"
	}

	if s.db != nil {
		if err := s.db.Client().Ping(ctx, readpref.Primary()); err != nil {
			status["status"] = "degraded"
			status["database"] = "unreachable"
			return c.Status(fiber.StatusServiceUnavailable).JSON(status)
		}
		status["database"] = "ok"
	}

	return c.JSON(status)
}
