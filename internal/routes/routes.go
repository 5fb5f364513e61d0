package routes

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"gorm.io/gorm"

	"github.com/loocate/loocate-backend/internal/config"
	"github.com/loocate/loocate-backend/internal/handlers"
	"github.com/loocate/loocate-backend/internal/middleware"
)

func Setup(
	app *fiber.App,
	cfg *config.Config,
	db *gorm.DB,
	authHandler *handlers.AuthHandler,
	healthHandler *handlers.HealthHandler,
	moderationHandler *handlers.ModerationHandler,
	contentHandler *handlers.ContentHandler,
) {
	api := app.Group("/api")

	// General API rate limiter: 60 req/min per IP
	api.Use(limiter.New(limiter.Config{
		Max:               60,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	}))

	api.Get("/health", healthHandler.Check)

	// Auth — public, with a stricter rate limit: 10 req/min per IP
	auth := api.Group("/auth")
	auth.Use(limiter.New(limiter.Config{
		Max:               10,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	}))
	auth.Post("/register", authHandler.Register)
	auth.Post("/login", authHandler.Login)
	auth.Post("/refresh", authHandler.Refresh)
	auth.Post("/apple", authHandler.AppleSignIn)

	api.Post("/auth/logout", middleware.JWTProtected(cfg), authHandler.Logout)
	api.Delete("/auth/account", middleware.JWTProtected(cfg), authHandler.DeleteAccount)

	// Content — reads public, writes gated by the moderation core
	api.Get("/toilets", contentHandler.ListToilets)
	api.Post("/toilets", middleware.JWTProtected(cfg), contentHandler.CreateToilet)
	api.Post("/toilets/:id/reviews", middleware.JWTProtected(cfg), contentHandler.CreateReview)
	api.Post("/reviews/:id/comments", middleware.JWTProtected(cfg), contentHandler.CreateComment)
	api.Post("/reviews/:id/votes", middleware.JWTProtected(cfg), contentHandler.VoteReview)

	// Moderation — user endpoints
	api.Post("/reports", middleware.JWTProtected(cfg), moderationHandler.CreateReport)
	api.Get("/restrictions/me", middleware.JWTProtected(cfg), moderationHandler.MyRestrictions)
	api.Get("/restrictions/check", middleware.JWTProtected(cfg), moderationHandler.CheckRestriction)
	api.Post("/blocks", middleware.JWTProtected(cfg), moderationHandler.BlockUser)
	api.Delete("/blocks/:id", middleware.JWTProtected(cfg), moderationHandler.UnblockUser)

	// Admin moderation panel
	admin := api.Group("/admin", middleware.JWTProtected(cfg), middleware.AdminRequired(db, cfg))
	admin.Get("/moderation/reports", moderationHandler.ListReports)
	admin.Put("/moderation/reports/:id", moderationHandler.ReviewReport)
	admin.Post("/moderation/violations", moderationHandler.CreateViolation)
	admin.Get("/moderation/users/:id/violations", moderationHandler.UserViolations)
	admin.Get("/moderation/users/:id/restrictions", moderationHandler.UserRestrictions)
	admin.Delete("/moderation/restrictions/:id", moderationHandler.LiftRestriction)
}
