package api

import (
	"github.com/gin-gonic/gin"
	"github.com/playmatatu/poolsim/internal/api/handlers"
	"github.com/playmatatu/poolsim/internal/config"
	"github.com/playmatatu/poolsim/internal/middleware"
	"github.com/rs/zerolog"
)

// SetupRoutes configures all API routes. socket serves the game WebSocket
// and may be nil when streaming is disabled.
func SetupRoutes(router *gin.Engine, games handlers.Games, socket gin.HandlerFunc, cfg *config.Config, logger zerolog.Logger) {
	router.Use(middleware.RequestLogger(logger))
	router.Use(middleware.CORSMiddleware(cfg, logger))

	if cfg.Environment != "production" {
		router.Use(middleware.NoCache())
		logger.Debug().Msg("no-cache headers enabled for all routes")
	}

	// API v1 group
	v1 := router.Group("/api/v1")
	{
		v1.GET("/health", handlers.HealthCheck)

		gameRoutes := v1.Group("/games")
		{
			gameRoutes.POST("", handlers.CreateGame(games, logger))
			gameRoutes.GET("/:id", handlers.GetGame(games, logger))
			gameRoutes.GET("/:id/table", handlers.GetTable(games, logger))
			gameRoutes.POST("/:id/shots", handlers.TakeShot(games, logger))
			if socket != nil {
				gameRoutes.GET("/:id/ws", socket)
			}
		}

		v1.GET("/shots/:id/frames.csv", handlers.GetShotFrames(games, logger))
	}
}
