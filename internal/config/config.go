package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	// Server
	Port string
	Env  string

	// Database
	DatabaseURL string

	// Redis
	RedisURL string

	// Admin auth
	JWTSecret         string
	AdminUsername     string
	AdminPasswordHash string

	// Logging
	LogLevel string

	// Demand intake
	DemandCooldown     time.Duration
	DemandIdentityMode string // "request" | "lookup"
	IPLookupURL        string

	// Rails
	RailCacheTTL time.Duration

	// Workers
	CleanupWorkers      int
	OrphanAuditSchedule string

	// Frontend
	FrontendURL string

	// Set when a reverse proxy overwrites X-Forwarded-For / X-Real-IP.
	TrustProxyHeaders bool
}

func Load() *Config {
	// Load .env file if it exists
	godotenv.Load()

	cfg := &Config{
		Port:                getEnvOrDefault("PORT", "8080"),
		Env:                 getEnvOrDefault("ENV", "development"),
		DatabaseURL:         mustGetEnv("DATABASE_URL"),
		RedisURL:            mustGetEnv("REDIS_URL"),
		JWTSecret:           mustGetEnv("JWT_SECRET"),
		AdminUsername:       getEnvOrDefault("ADMIN_USERNAME", "admin"),
		AdminPasswordHash:   mustGetEnv("ADMIN_PASSWORD_HASH"),
		LogLevel:            getEnvOrDefault("LOG_LEVEL", "info"),
		DemandCooldown:      time.Duration(getEnvAsIntOrDefault("DEMAND_COOLDOWN_MINUTES", 30)) * time.Minute,
		DemandIdentityMode:  getEnvOrDefault("DEMAND_IDENTITY_MODE", "request"),
		IPLookupURL:         getEnvOrDefault("IP_LOOKUP_URL", "https://api.ipify.org?format=json"),
		RailCacheTTL:        time.Duration(getEnvAsIntOrDefault("RAIL_CACHE_TTL_SECONDS", 300)) * time.Second,
		CleanupWorkers:      getEnvAsIntOrDefault("CLEANUP_WORKERS", 2),
		OrphanAuditSchedule: getEnvOrDefault("ORPHAN_AUDIT_SCHEDULE", "@hourly"),
		FrontendURL:         getEnvOrDefault("FRONTEND_URL", "http://localhost:5173"),
		TrustProxyHeaders:   getEnvOrDefault("TRUST_PROXY_HEADERS", "false") == "true",
	}

	return cfg
}

func mustGetEnv(key string) string {
	val := os.Getenv(key)
	if val == "" {
		panic(fmt.Sprintf("required environment variable %s is not set", key))
	}
	return val
}

func getEnvOrDefault(key, defaultVal string) string {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	return val
}

func getEnvAsIntOrDefault(key string, defaultVal int) int {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	n, err := strconv.Atoi(val)
	if err != nil {
		return defaultVal
	}
	return n
}
