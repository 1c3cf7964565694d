package api

import (
	"context"
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"workout-tracker/internal/config"
	"workout-tracker/internal/seed"
	"workout-tracker/internal/service"
)

// HealthChecker reports store reachability for the health endpoint.
type HealthChecker func(ctx context.Context) error

// SetupRoutes wires handlers, middleware and CORS onto the router.
// seedRunner may be nil when the deployment does not expose reseeding.
func SetupRoutes(
	router *gin.Engine,
	cfg config.Config,
	sessionService service.SessionService,
	seedRunner *seed.Runner,
	healthCheck HealthChecker,
) {
	corsCfg := cors.DefaultConfig()
	if origins := cfg.Server.Origins(); len(origins) > 0 {
		corsCfg.AllowOrigins = origins
		corsCfg.AllowCredentials = true
	} else {
		corsCfg.AllowAllOrigins = true
	}
	corsCfg.AllowMethods = []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"}
	corsCfg.AllowHeaders = []string{"Origin", "Content-Type", "Authorization", "x-user-id", "x-admin-key"}
	router.Use(cors.New(corsCfg))

	sessionHandler := NewSessionHandler(sessionService)
	authMiddleware := AuthMiddleware(cfg.Auth)

	// Liveness/readiness. db state is reported, never fails the request.
	router.GET("/health", func(c *gin.Context) {
		db := "up"
		if healthCheck != nil {
			if err := healthCheck(c.Request.Context()); err != nil {
				db = "down"
			}
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok", "db": db})
	})

	api := router.Group("/api")
	{
		sessions := api.Group("/sessions")
		{
			// Listing is read-only and auth-free; visibility widens via
			// the userId query parameter.
			sessions.GET("", sessionHandler.ListSessions)

			sessions.POST("", authMiddleware, sessionHandler.CreateSession)
			sessions.DELETE("/:id", authMiddleware, sessionHandler.DeleteSession)
			sessions.POST("/:id/exercise", authMiddleware, sessionHandler.AddExercise)
			sessions.DELETE("/:id/exercise/:idx", authMiddleware, sessionHandler.RemoveExercise)
			sessions.PATCH("/:id/exercise/:idx", authMiddleware, sessionHandler.UpdateExercise)
		}

		if seedRunner != nil {
			admin := api.Group("/admin")
			admin.Use(AdminKeyMiddleware(cfg.Seed))
			{
				seedHandler := NewSeedHandler(seedRunner)
				admin.POST("/seed", seedHandler.Reseed)
			}
		}
	}
}
