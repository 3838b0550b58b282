package config

import (
	"fmt"
	"os"
	"strings"
	"time"
)

// Config holds all externally supplied configuration. Secrets have no
// built-in defaults; Load fails fast when a required value is missing.
type Config struct {
	Port string

	// Database
	DatabaseURL string

	// Admin auth
	AdminUsername     string
	AdminPassword     string // plain comparison, dev only
	AdminPasswordHash string // bcrypt hash, preferred in production
	JWTSecret         string
	JWTExpiry         time.Duration

	// HTTP
	AllowedOrigins []string

	// Observability
	LogLevel     string
	LogFile      string
	OTLPEndpoint string
	Environment  string

	// Optional Redis for distributed rate limiting
	RedisHost     string
	RedisPort     string
	RedisPassword string
}

// Load reads configuration from the environment.
func Load() (*Config, error) {
	cfg := &Config{
		Port:              getEnvOrDefault("PORT", "5007"),
		DatabaseURL:       os.Getenv("DATABASE_URL"),
		AdminUsername:     os.Getenv("ADMIN_USERNAME"),
		AdminPassword:     os.Getenv("ADMIN_PASSWORD"),
		AdminPasswordHash: os.Getenv("ADMIN_PASSWORD_HASH"),
		JWTSecret:         os.Getenv("JWT_SECRET"),
		LogLevel:          getEnvOrDefault("LOG_LEVEL", "info"),
		LogFile:           getEnvOrDefault("LOG_FILE", "server.log"),
		OTLPEndpoint:      os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"),
		Environment:       getEnvOrDefault("ENVIRONMENT", "development"),
		RedisHost:         os.Getenv("REDIS_HOST"),
		RedisPort:         getEnvOrDefault("REDIS_PORT", "6379"),
		RedisPassword:     os.Getenv("REDIS_PASSWORD"),
	}

	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET environment variable is required")
	}
	if cfg.AdminUsername == "" {
		return nil, fmt.Errorf("ADMIN_USERNAME environment variable is required")
	}
	if cfg.AdminPassword == "" && cfg.AdminPasswordHash == "" {
		return nil, fmt.Errorf("ADMIN_PASSWORD or ADMIN_PASSWORD_HASH environment variable is required")
	}

	expiry := getEnvOrDefault("JWT_EXPIRES_IN", "24h")
	d, err := time.ParseDuration(expiry)
	if err != nil {
		return nil, fmt.Errorf("invalid JWT_EXPIRES_IN %q: %w", expiry, err)
	}
	cfg.JWTExpiry = d

	if origins := os.Getenv("ALLOWED_ORIGINS"); origins != "" {
		for _, o := range strings.Split(origins, ",") {
			if o = strings.TrimSpace(o); o != "" {
				cfg.AllowedOrigins = append(cfg.AllowedOrigins, o)
			}
		}
	}
	if len(cfg.AllowedOrigins) == 0 {
		cfg.AllowedOrigins = []string{"http://localhost:5173"}
	}

	return cfg, nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
