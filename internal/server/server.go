// Package server contains the HTTP handlers and route wiring for the API.
package server

import (
	"context"
	"fmt"

	"campuslink/internal/auth"
	"campuslink/internal/cache"
	"campuslink/internal/config"
	"campuslink/internal/database"
	"campuslink/internal/middleware"
	"campuslink/internal/moderation"
	"campuslink/internal/repository"
	"campuslink/internal/service"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"go.mongodb.org/mongo-driver/v2/mongo"
)

// Server holds all dependencies and provides handlers.
type Server struct {
	config         *config.Config
	db             *mongo.Database
	authn          *auth.Authenticator
	promMiddleware *fiberprometheus.FiberPrometheus

	users       repository.UserRepository
	posts       repository.PostRepository
	internships repository.InternshipRepository
	quarantine  repository.QuarantineRepository

	userService *service.UserService
	postService *service.PostService
}

// NewServer creates a server instance with all production dependencies:
// MongoDB, Redis cache, the stock profanity classifier, and repositories.
func NewServer(cfg *config.Config) (*Server, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, fmt.Errorf("database connection failed: %w", err)
	}

	cache.InitRedis(cfg.RedisURL)

	s := newServer(cfg,
		repository.NewUserRepository(db),
		repository.NewPostRepository(db),
		repository.NewInternshipRepository(db),
		repository.NewQuarantineRepository(db),
		moderation.Default(),
	)
	s.db = db
	return s, nil
}

func newServer(
	cfg *config.Config,
	users repository.UserRepository,
	posts repository.PostRepository,
	internships repository.InternshipRepository,
	quarantine repository.QuarantineRepository,
	classify moderation.Classifier,
) *Server {
	gate := moderation.NewGate(classify, quarantine)

	return &Server{
		config:         cfg,
		authn:          auth.New(cfg.JWTSecret),
		promMiddleware: fiberprometheus.New("campuslink-api"),
		users:          users,
		posts:          posts,
		internships:    internships,
		quarantine:     quarantine,
		userService:    service.NewUserService(users),
		postService:    service.NewPostService(posts, gate),
	}
}

// SetupMiddleware configures middleware for the Fiber app.
func (s *Server) SetupMiddleware(app *fiber.App) {
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(middleware.ContextMiddleware())

	if s.promMiddleware != nil {
		app.Use(s.promMiddleware.Middleware)
	}

	app.Use(helmet.New())
	app.Use(middleware.StructuredLogger())

	origins := s.config.AllowedOrigins
	if origins == "" {
		origins = "*"
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins: origins,
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))
}

// SetupRoutes configures all routes for the application. Everything under
// /api except the auth endpoints requires a valid session token.
func (s *Server) SetupRoutes(app *fiber.App) {
	app.Get("/", s.Hello)
	app.Get("/health", s.HealthCheck)

	if s.promMiddleware != nil {
		s.promMiddleware.RegisterAt(app, "/metrics")
	}

	api := app.Group("/api")

	authGroup := api.Group("/auth")
	authGroup.Post("/register", s.Register)
	authGroup.Post("/login", s.Login)

	protected := api.Group("", middleware.RequireAuth(s.authn, s.users))

	protected.Get("/users/me", s.GetCurrentUser)
	protected.Put("/users/me", s.UpdateCurrentUser)
	protected.Delete("/users/me", s.DeleteCurrentUser)
	protected.Get("/users/:moodleId/posts", s.GetUserPosts)

	protected.Post("/posts", s.CreatePost)
	protected.Get("/posts", s.GetPosts)
	protected.Get("/posts/:id", s.GetPost)
	protected.Put("/posts/:id", s.UpdatePost)
	protected.Delete("/posts/:id", s.DeletePost)
	protected.Post("/posts/:id/comments", s.AddComment)
	protected.Post("/posts/:id/like", s.ToggleLike)
	protected.Post("/posts/:id/bookmark", s.ToggleBookmark)

	protected.Get("/internships", s.GetInternships)
}

// Shutdown releases server resources: the Mongo client and the Redis connection.
func (s *Server) Shutdown(ctx context.Context) error {
	cache.Close()
	return database.Disconnect(ctx, s.db)
}
