package router

import (
	"github.com/gin-gonic/gin"

	"github.com/workhub/workhub-backend/internal/config"
	"github.com/workhub/workhub-backend/internal/http/handlers"
	"github.com/workhub/workhub-backend/internal/http/middleware"
	"github.com/workhub/workhub-backend/internal/service"
)

// SetupRouter собирает все маршруты приложения.
func SetupRouter(
	cfg *config.Config,
	authHandler *handlers.AuthHandler,
	profileHandler *handlers.ProfileHandler,
	jobHandler *handlers.JobHandler,
	proposalHandler *handlers.ProposalHandler,
	counterBidHandler *handlers.CounterBidHandler,
	notificationHandler *handlers.NotificationHandler,
	wsHandler *handlers.WSHandler,
	healthHandler *handlers.HealthHandler,
	seedHandler *handlers.SeedHandler,
	tokenManager *service.TokenManager,
) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.Default()
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.CORSMiddleware(cfg.AllowedOrigins))

	r.GET("/health", healthHandler.Health)

	api := r.Group("/api")

	if seedHandler != nil && cfg.Env == "development" {
		api.POST("/seed", seedHandler.Seed)
	}

	authGroup := api.Group("/auth")
	authGroup.Use(middleware.RateLimitMiddleware(cfg.RateLimitLimit, cfg.RateLimitPeriod))
	{
		authGroup.POST("/register", authHandler.Register)
		authGroup.POST("/login", authHandler.Login)
		authGroup.POST("/refresh", authHandler.Refresh)
		authGroup.POST("/logout", authHandler.Logout)
	}

	// Публичные маршруты
	api.GET("/jobs", jobHandler.List)
	api.GET("/ws", wsHandler.Handle)

	// Защищённые маршруты
	protected := api.Group("/")
	protected.Use(middleware.AuthMiddleware(tokenManager))
	{
		protected.GET("/profile/me", profileHandler.Me)
		protected.PUT("/profile/me", profileHandler.UpdateMe)

		protected.POST("/jobs", jobHandler.Create)
		protected.GET("/jobs/my", jobHandler.ListMy)
		protected.PUT("/jobs/:id", middleware.UUIDValidator("id"), jobHandler.Update)
		protected.DELETE("/jobs/:id", middleware.UUIDValidator("id"), jobHandler.Delete)

		protected.POST("/proposals", proposalHandler.Create)
		protected.GET("/proposals/my", proposalHandler.ListMy)
		protected.GET("/proposals/job/:jobId", middleware.UUIDValidator("jobId"), proposalHandler.ListByJob)

		// Статические сегменты counter-bids регистрируются до
		// параметрических :proposalId, gin разводит их корректно.
		protected.POST("/proposals/counter-bids", counterBidHandler.Create)
		protected.GET("/proposals/counter-bids/user", counterBidHandler.ListMine)
		protected.PUT("/proposals/counter-bids/:counterBidId", middleware.UUIDValidator("counterBidId"), counterBidHandler.Respond)

		protected.PUT("/proposals/:proposalId", middleware.UUIDValidator("proposalId"), proposalHandler.UpdateStatus)
		protected.GET("/proposals/:proposalId/counter-bids", middleware.UUIDValidator("proposalId"), counterBidHandler.ListByProposal)

		protected.GET("/notifications", notificationHandler.List)
		protected.GET("/notifications/unread-count", notificationHandler.CountUnread)
		protected.PUT("/notifications/read-all", notificationHandler.MarkAllAsRead)
		protected.PUT("/notifications/:id/read", middleware.UUIDValidator("id"), notificationHandler.MarkAsRead)
	}

	// GET /api/jobs/:id объявляется после /api/jobs/my,
	// чтобы статический сегмент имел приоритет.
	api.GET("/jobs/:id", middleware.UUIDValidator("id"), jobHandler.Get)

	return r
}
