// Package server contains the HTTP handlers for the application's API endpoints.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	_ "dailyverse/docs" // swagger docs
	"dailyverse/internal/config"
	"dailyverse/internal/featureflags"
	"dailyverse/internal/identity"
	"dailyverse/internal/middleware"
	"dailyverse/internal/models"
	"dailyverse/internal/repository"
	"dailyverse/internal/service"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/gofiber/swagger"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Server holds all dependencies and provides handlers
type Server struct {
	config         *config.Config
	db             *gorm.DB
	redis          *redis.Client
	app            *fiber.App
	promMiddleware *fiberprometheus.FiberPrometheus
	store          repository.Store
	verifier       identity.Verifier
	directory      *identity.RedisDirectory
	featureFlags   *featureflags.Manager
	rateLimiter    *middleware.Limiter

	usernameService   *service.UsernameService
	followService     *service.FollowService
	livePostService   *service.LivePostService
	engagementService *service.EngagementService
}

// NewServerWithDeps creates a Server using already-initialized dependencies.
// Use this in tests or when a bootstrap layer establishes DB/Redis.
func NewServerWithDeps(cfg *config.Config, db *gorm.DB, redisClient *redis.Client) (*Server, error) {
	if cfg == nil || db == nil {
		return nil, errors.New("server requires config and database")
	}

	store := repository.NewStore(db, repository.TxOptions{
		MaxAttempts:    cfg.Rules.TxMaxAttempts,
		InitialBackoff: cfg.Rules.TxInitialBackoff,
	})
	directory := identity.NewRedisDirectory(redisClient)
	profiles := identity.NewProfileChain(store.Repos().Users, directory)

	server := &Server{
		config:         cfg,
		db:             db,
		redis:          redisClient,
		promMiddleware: middleware.InitMetrics("dailyverse-api"),
		store:          store,
		verifier:       identity.NewJWTVerifier(cfg.JWTSecret, cfg.JWTIssuer, cfg.JWTAudience),
		directory:      directory,
		featureFlags:   featureflags.NewManager(cfg.FeatureFlags, featureflags.WithRedis(redisClient)),
		rateLimiter:    middleware.NewLimiter(redisClient, cfg.Env),
	}

	server.usernameService = service.NewUsernameService(store)
	server.followService = service.NewFollowService(store)
	server.livePostService = service.NewLivePostService(store, profiles, cfg.Rules, nil)
	server.engagementService = service.NewEngagementService(store, redisClient, cfg.Rules, nil)

	return server, nil
}

// SetupMiddleware configures global middleware in order: recovery, request
// context, metrics, security headers, logging, CORS and the global limiter.
func (s *Server) SetupMiddleware(app *fiber.App) {
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(middleware.ContextMiddleware())
	app.Use(middleware.TracingMiddleware())

	if s.promMiddleware != nil {
		app.Use(middleware.MetricsMiddleware(s.promMiddleware))
	}

	app.Use(helmet.New())
	app.Use(middleware.StructuredLogger())

	// CORS runs before the limiter so rejected browser requests still get CORS headers.
	origins := s.config.AllowedOrigins
	if origins == "" {
		origins = "http://localhost:5173,http://localhost:3000,http://127.0.0.1:5173"
	}

	app.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization, " + adminKeyHeader,
		AllowCredentials: origins != "*",
		MaxAge:           86400,
	}))

	// Global rate limiting (100 requests per minute per IP)
	app.Use(limiter.New(limiter.Config{
		Max:        100,
		Expiration: 1 * time.Minute,
		Next: func(c *fiber.Ctx) bool {
			return c.Method() == fiber.MethodOptions
		},
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(models.ErrorResponse{
				Error: "Too many requests, please try again later.",
				Code:  models.CodeRateLimited,
			})
		},
	}))
}

// SetupRoutes configures all routes for the application
func (s *Server) SetupRoutes(app *fiber.App) {
	app.Get("/health/live", s.LivenessCheck)
	app.Get("/health/ready", s.ReadinessCheck)

	if s.promMiddleware != nil {
		s.promMiddleware.RegisterAt(app, "/metrics")
	}
	app.Get("/swagger/*", swagger.HandlerDefault)

	api := app.Group("/api")

	// Maintenance routes authenticate with the admin key, not a user token.
	admin := api.Group("/admin", s.AdminKeyRequired())
	admin.Post("/live-posts/expire", s.ExpireLivePosts)

	protected := api.Group("", middleware.AuthRequired(s.verifier, s.directory))

	protected.Get("/feature-flags", s.GetFeatureFlags)

	protected.Put("/me/username", s.rateLimiter.RateLimit(
		10, time.Minute, "username"), s.ClaimUsername)

	users := protected.Group("/users")
	users.Post("/:id/follow", s.rateLimiter.RateLimit(
		60, time.Minute, "follow"), s.Follow)
	users.Delete("/:id/follow", s.rateLimiter.RateLimit(
		60, time.Minute, "follow"), s.Unfollow)
	users.Get("/:id/followers", s.GetFollowers)
	users.Get("/:id/following", s.GetFollowing)

	livePosts := protected.Group("/live-posts")
	livePosts.Post("/", s.rateLimiter.RateLimitWithPolicy(
		5, time.Minute, middleware.FailOpen, "live_posts"), s.CreateLivePost)
	livePosts.Get("/:id", s.GetLivePost)

	engagement := protected.Group("/engagement")
	engagement.Get("/", s.GetEngagement)
	engagement.Post("/active", s.MarkActiveToday)
	engagement.Post("/missions/complete", s.CompleteAllMissions)
	engagement.Post("/verses", s.rateLimiter.RateLimit(
		120, time.Minute, "engagement"), s.IncrementVerseRead)
	engagement.Post("/prayers", s.rateLimiter.RateLimit(
		120, time.Minute, "engagement"), s.IncrementPrayerCompleted)
	engagement.Post("/posts", s.rateLimiter.RateLimit(
		120, time.Minute, "engagement"), s.IncrementPostCreated)
}

// LivenessCheck handles liveness probe requests
func (s *Server) LivenessCheck(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status": "up",
		"time":   time.Now().UTC(),
	})
}

// ReadinessCheck handles readiness probe requests
func (s *Server) ReadinessCheck(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), 5*time.Second)
	defer cancel()

	dbStatus := "healthy"
	sqlDB, err := s.db.DB()
	if err != nil {
		dbStatus = "unhealthy"
	} else if err := sqlDB.PingContext(ctx); err != nil {
		dbStatus = "unhealthy"
	}

	redisStatus := "healthy"
	if s.redis != nil {
		if err := s.redis.Ping(ctx).Err(); err != nil {
			redisStatus = "unhealthy"
		}
	} else {
		redisStatus = "unavailable"
	}

	status := fiber.StatusOK
	overallStatus := "healthy"
	if dbStatus == "unhealthy" || redisStatus != "healthy" {
		status = fiber.StatusServiceUnavailable
		overallStatus = "unhealthy"
	}

	return c.Status(status).JSON(fiber.Map{
		"status": overallStatus,
		"services": fiber.Map{
			"database": dbStatus,
			"redis":    redisStatus,
		},
		"time": time.Now().UTC(),
	})
}

// App builds the Fiber application with middleware and routes installed.
func (s *Server) App() *fiber.App {
	if s.app != nil {
		return s.app
	}

	app := fiber.New(fiber.Config{
		AppName:   "Dailyverse API",
		BodyLimit: 1 * 1024 * 1024,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			var fiberErr *fiber.Error
			if errors.As(err, &fiberErr) {
				return c.Status(fiberErr.Code).JSON(models.ErrorResponse{Error: fiberErr.Message})
			}
			middleware.Logger.ErrorContext(c.UserContext(), "Unhandled request error",
				slog.String("error", err.Error()),
			)
			return models.RespondWithError(c, fiber.StatusInternalServerError, models.NewInternalError(err))
		},
	})

	s.SetupMiddleware(app)
	s.SetupRoutes(app)
	s.app = app
	return app
}

// Start starts the server
func (s *Server) Start() error {
	app := s.App()
	middleware.Logger.Info("Server starting", slog.String("port", s.config.Port))
	return app.Listen(":" + s.config.Port)
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	var errs []error

	if s.app != nil {
		if err := s.app.ShutdownWithContext(ctx); err != nil {
			errs = append(errs, fmt.Errorf("shutdown http server: %w", err))
		}
	}

	if sqlDB, err := s.db.DB(); err == nil {
		if cerr := sqlDB.Close(); cerr != nil {
			errs = append(errs, fmt.Errorf("close sql DB: %w", cerr))
		}
	}

	if s.redis != nil {
		if rerr := s.redis.Close(); rerr != nil {
			errs = append(errs, fmt.Errorf("close redis: %w", rerr))
		}
	}

	middleware.Logger.InfoContext(ctx, "Server shutdown complete")
	return errors.Join(errs...)
}
