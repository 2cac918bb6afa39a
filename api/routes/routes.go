package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/roamly/roamly-backend/internal/config"
	"github.com/roamly/roamly-backend/internal/handlers"
	"github.com/roamly/roamly-backend/internal/middleware"
)

// HandlerDependencies bundles the handlers the router wires up
type HandlerDependencies struct {
	AuthHandler    *handlers.AuthHandler
	RewardHandler  *handlers.RewardHandler
	OrderHandler   *handlers.OrderHandler
	LoyaltyHandler *handlers.LoyaltyHandler
}

// SetupRouter sets up the router
func SetupRouter(cfg *config.Config, deps HandlerDependencies) *gin.Engine {
	router := gin.Default()

	// Add middleware
	router.Use(middleware.CORSMiddleware(cfg))
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.LoggerMiddleware())

	// Public routes. redeem-reward and process-order are server-trusted
	// operations invoked by backend collaborators, not end users.
	public := router.Group("/api")
	{
		public.GET("/health", func(c *gin.Context) {
			c.JSON(200, gin.H{"status": "ok"})
		})

		auth := public.Group("/auth")
		{
			auth.POST("/register", deps.AuthHandler.Register)
			auth.POST("/login", deps.AuthHandler.Login)
		}

		public.POST("/redeem-reward", deps.RewardHandler.Redeem)
		public.POST("/process-order", deps.OrderHandler.Process)
		public.GET("/rewards", deps.RewardHandler.List)
	}

	// Bearer-token protected routes
	protected := router.Group("/api")
	protected.Use(middleware.JWTAuthMiddleware(cfg))
	{
		rewards := protected.Group("/rewards")
		{
			rewards.GET("/valid", deps.RewardHandler.Valid)
			rewards.POST("/apply", deps.RewardHandler.Apply)
		}

		loyalty := protected.Group("/loyalty")
		{
			loyalty.GET("/summary", deps.LoyaltyHandler.Summary)
			loyalty.GET("/activity", deps.LoyaltyHandler.Activity)
		}
	}

	return router
}
