package server

import (
	"campuslink/internal/middleware"
	"campuslink/internal/models"
	"campuslink/internal/service"

	"github.com/gofiber/fiber/v2"
)

// CreatePost handles POST /api/posts. The payload passes the admission gate
// before any store write; rejected payloads land in quarantine and the
// client sees 422 CONTENT_REJECTED.
func (s *Server) CreatePost(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)

	var req service.CreatePostInput
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	id, err := s.postService.CreatePost(c.UserContext(), user.AuthorSnapshot(), req)
	if err != nil {
		return models.RespondWithError(c, models.HTTPStatus(err), err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"id": id})
}

// GetPosts handles GET /api/posts. The listing is newest-first with heavy
// and sensitive fields elided.
func (s *Server) GetPosts(c *fiber.Ctx) error {
	posts, err := s.postService.ListPosts(c.UserContext())
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}

	return c.JSON(fiber.Map{"posts": posts})
}

// GetPost handles GET /api/posts/:id.
func (s *Server) GetPost(c *fiber.Ctx) error {
	id, err := parsePostID(c)
	if err != nil {
		return nil
	}

	post, err := s.postService.GetPost(c.UserContext(), id)
	if err != nil {
		return models.RespondWithError(c, models.HTTPStatus(err), err)
	}

	return c.JSON(fiber.Map{"post": post})
}

// UpdatePost handles PUT /api/posts/:id. Edited text fields are re-admitted
// through the gate.
func (s *Server) UpdatePost(c *fiber.Ctx) error {
	id, err := parsePostID(c)
	if err != nil {
		return nil
	}

	var req service.EditPostInput
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	if err := s.postService.EditPost(c.UserContext(), id, req); err != nil {
		return models.RespondWithError(c, models.HTTPStatus(err), err)
	}

	return c.JSON(fiber.Map{"message": "Post updated successfully"})
}

// DeletePost handles DELETE /api/posts/:id.
func (s *Server) DeletePost(c *fiber.Ctx) error {
	id, err := parsePostID(c)
	if err != nil {
		return nil
	}

	if err := s.postService.DeletePost(c.UserContext(), id); err != nil {
		return models.RespondWithError(c, models.HTTPStatus(err), err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

// GetUserPosts handles GET /api/users/:moodleId/posts.
func (s *Server) GetUserPosts(c *fiber.Ctx) error {
	moodleID := c.Params("moodleId")
	if moodleID == "" {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid moodle ID"))
	}

	posts, err := s.postService.ListPostsByAuthor(c.UserContext(), moodleID)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}

	return c.JSON(fiber.Map{"posts": posts})
}

// AddComment handles POST /api/posts/:id/comments. The comment message is
// gated; accepted comments are appended with the counter bump.
func (s *Server) AddComment(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)
	id, err := parsePostID(c)
	if err != nil {
		return nil
	}

	var req struct {
		Message string `json:"message"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	post, err := s.postService.AddComment(c.UserContext(), id, user.AuthorSnapshot(), req.Message)
	if err != nil {
		return models.RespondWithError(c, models.HTTPStatus(err), err)
	}

	return c.JSON(fiber.Map{
		"message":       "Comment added successfully",
		"totalComments": post.TotalComments,
	})
}

// ToggleLike handles POST /api/posts/:id/like. The effect depends on current
// membership in the like set, not on anything the caller chose.
func (s *Server) ToggleLike(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)
	id, err := parsePostID(c)
	if err != nil {
		return nil
	}

	outcome, post, err := s.postService.ToggleLike(c.UserContext(), id, user.MoodleID)
	if err != nil {
		return models.RespondWithError(c, models.HTTPStatus(err), err)
	}

	return c.JSON(fiber.Map{
		"status": outcome,
		"likes":  len(post.Likes),
	})
}
