package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/playmatatu/poolsim/internal/api"
	"github.com/playmatatu/poolsim/internal/config"
	"github.com/playmatatu/poolsim/internal/database"
	"github.com/playmatatu/poolsim/internal/logging"
	"github.com/playmatatu/poolsim/internal/manager"
	"github.com/playmatatu/poolsim/internal/middleware"
	"github.com/playmatatu/poolsim/internal/migrations"
	"github.com/playmatatu/poolsim/internal/redis"
	"github.com/playmatatu/poolsim/internal/store"
	"github.com/playmatatu/poolsim/internal/ws"
)

func main() {
	// Initialize configuration (also loads .env when present)
	cfg, err := config.Load()
	if err != nil {
		bootLogger := logging.New("info", "production")
		bootLogger.Fatal().Err(err).Msg("invalid configuration")
	}

	logger := logging.New(cfg.LogLevel, cfg.Environment)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Initialize database
	connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	db, err := database.Connect(connectCtx, cfg.DatabaseURL)
	cancel()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	// Run migrations on start if requested
	if cfg.MigrateOnStart {
		logger.Info().Msg("running DB migrations on startup")
		if err := migrations.RunMigrations(cfg.DatabaseURL, logging.Component(logger, "migrations")); err != nil {
			logger.Fatal().Err(err).Msg("failed to run migrations")
		}
	}

	// Initialize Redis
	rdb, err := redis.Connect(ctx, cfg.RedisURL)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to redis")
	}
	defer rdb.Close()

	st := store.New(db, cfg.Physics, logging.Component(logger, "store"))
	cache := redis.NewSnapshotCache(rdb, time.Duration(cfg.SnapshotTTLMinutes)*time.Minute)
	games := manager.New(st, cache, cfg.Physics, cfg.FrameInterval, logging.Component(logger, "manager"))

	// WebSocket hub and cross-instance shot events
	wsLogger := logging.Component(logger, "ws")
	hub := ws.NewHub(wsLogger)
	defer hub.Close()
	events := ws.NewRedisEvents(rdb, wsLogger)
	events.Subscribe(ctx, hub)
	socket := ws.NewHandler(ctx, hub, games, events, middleware.OriginChecker(cfg), wsLogger)

	// Set up Gin router
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	api.SetupRoutes(router, games, socket.ServeGame, cfg, logging.Component(logger, "api"))

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		logger.Info().Str("port", cfg.Port).Msg("starting pool simulation server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	<-ctx.Done()
	logger.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("graceful shutdown failed")
	}
}
