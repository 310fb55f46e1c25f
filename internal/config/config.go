package config

import (
	_ "embed"
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/playmatatu/poolsim/internal/game"
	"gopkg.in/yaml.v3"
)

//go:embed physics.yaml
var defaultPhysicsYAML []byte

type Config struct {
	// Environment
	Environment string
	LogLevel    string

	// Database
	DatabaseURL    string
	MigrateOnStart bool

	// Redis
	RedisURL           string
	SnapshotTTLMinutes int

	// Server
	Port        string
	FrontendURL string

	// Simulation
	Physics       game.Params
	FrameInterval float64
}

func Load() (*Config, error) {
	// Load .env file if it exists
	godotenv.Load()

	physics, err := LoadPhysics(os.Getenv("PHYSICS_CONFIG"))
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		// Environment
		Environment: getEnv("APP_ENV", "development"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),

		// Database
		DatabaseURL:    getEnv("DATABASE_URL", "postgres://localhost:5432/poolsim?sslmode=disable"),
		MigrateOnStart: getEnv("MIGRATE_ON_START", "false") == "true",

		// Redis
		RedisURL:           getEnv("REDIS_URL", "redis://localhost:6379/0"),
		SnapshotTTLMinutes: getEnvInt("SNAPSHOT_TTL_MINUTES", 60),

		// Server
		Port:        getEnv("APP_PORT", "8080"),
		FrontendURL: getEnv("FRONTEND_URL", "http://localhost:5173"),

		// Simulation
		Physics:       physics,
		FrameInterval: getEnvFloat("FRAME_INTERVAL", game.FrameInterval),
	}

	if cfg.FrameInterval <= 0 {
		return nil, fmt.Errorf("FRAME_INTERVAL must be positive, got %v", cfg.FrameInterval)
	}
	return cfg, nil
}

// LoadPhysics reads the embedded physics defaults, then the YAML file at path
// (if any), then PHYSICS_* environment overrides, and validates the result.
func LoadPhysics(path string) (game.Params, error) {
	var p game.Params
	if err := yaml.Unmarshal(defaultPhysicsYAML, &p); err != nil {
		return p, fmt.Errorf("parsing default physics: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return p, fmt.Errorf("reading physics config: %w", err)
		}
		if err := yaml.Unmarshal(data, &p); err != nil {
			return p, fmt.Errorf("parsing physics config %s: %w", path, err)
		}
	}

	p.SimRate = getEnvFloat("PHYSICS_SIM_RATE", p.SimRate)
	p.VelEpsilon = getEnvFloat("PHYSICS_VEL_EPSILON", p.VelEpsilon)
	p.Drag = getEnvFloat("PHYSICS_DRAG", p.Drag)
	p.MaxTime = getEnvFloat("PHYSICS_MAX_TIME", p.MaxTime)

	if err := p.Validate(); err != nil {
		return p, err
	}
	return p, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}
