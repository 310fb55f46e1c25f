package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/playmatatu/poolsim/internal/config"
	"github.com/rs/zerolog"
)

// devOrigins are accepted in development in addition to FRONTEND_URL.
var devOrigins = []string{
	"http://localhost:5173", // Vite dev server
	"http://127.0.0.1:5173",
}

// AllowedOrigins lists the browser origins permitted for cfg.
func AllowedOrigins(cfg *config.Config) []string {
	var origins []string
	if cfg.Environment == "development" {
		origins = append(origins, devOrigins...)
	}
	if cfg.FrontendURL != "" && !contains(origins, cfg.FrontendURL) {
		origins = append(origins, cfg.FrontendURL)
	}
	return origins
}

// CORSMiddleware returns a CORS middleware configured for the environment
func CORSMiddleware(cfg *config.Config, logger zerolog.Logger) gin.HandlerFunc {
	origins := AllowedOrigins(cfg)
	logger.Info().Str("environment", cfg.Environment).Strs("origins", origins).Msg("cors configured")

	return cors.New(cors.Config{
		AllowOrigins: origins,
		AllowMethods: []string{"GET", "POST", "OPTIONS"},
		AllowHeaders: []string{
			"Origin", "Content-Length", "Content-Type", "Accept",
			"Cache-Control", "X-Requested-With",
		},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour, // Cache preflight responses
	})
}

// OriginChecker validates WebSocket upgrade origins. Requests without an
// Origin header come from non-browser clients and are accepted.
func OriginChecker(cfg *config.Config) func(r *http.Request) bool {
	origins := AllowedOrigins(cfg)
	dev := cfg.Environment == "development"
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		if dev && (strings.HasPrefix(origin, "http://localhost:") || strings.HasPrefix(origin, "http://127.0.0.1:")) {
			return true
		}
		return contains(origins, origin)
	}
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
