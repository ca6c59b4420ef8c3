// Package config provides centralized default values for the survey backend.
package config

import (
	"os"
	"strconv"
	"time"
)

// getEnvString reads environment variable with string fallback
func getEnvString(key string, defaultValue string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultValue
}

// getEnvInt reads environment variable with fallback to default
func getEnvInt(key string, defaultValue int) int {
	if val := os.Getenv(key); val != "" {
		if parsed, err := strconv.Atoi(val); err == nil {
			return parsed
		}
	}
	return defaultValue
}

// getEnvBool reads environment variable as boolean with fallback
func getEnvBool(key string, defaultValue bool) bool {
	if val := os.Getenv(key); val != "" {
		if parsed, err := strconv.ParseBool(val); err == nil {
			return parsed
		}
	}
	return defaultValue
}

// Server Configuration
var (
	Port = getEnvString("PORT", "8080")
	// Host is the public base URL baked into generated embed scripts.
	Host        = getEnvString("HOST", "http://localhost:8080")
	Development = getEnvString("ENV", "development") == "development"
)

// Database Configuration
var (
	SQLitePath    = getEnvString("SQLITE_PATH", "./data/compra.db")
	TursoDatabase = getEnvString("TURSO_DATABASE_URL", "")
	TursoToken    = getEnvString("TURSO_AUTH_TOKEN", "")

	DBMaxOpenConns = getEnvInt("DB_MAX_OPEN_CONNS", 10)
	DBMaxIdleConns = getEnvInt("DB_MAX_IDLE_CONNS", 3)
)

// Auth Configuration
var (
	JWTSecret = getEnvString("JWT_SECRET", "")
	// AdminPasswordHash is a bcrypt hash; when empty the dashboard endpoints
	// are left open (development mode).
	AdminPasswordHash = getEnvString("ADMIN_PASSWORD_HASH", "")
	TokenLifetime     = time.Duration(getEnvInt("TOKEN_LIFETIME_HOURS", 24)) * time.Hour
)

// Delivery Configuration
var (
	// DefaultMaxDisplays caps per-visitor displays when a survey sets no
	// maxDisplaysPerUser of its own. Zero means unlimited.
	DefaultMaxDisplays = getEnvInt("DEFAULT_MAX_DISPLAYS_PER_USER", 0)
	ScriptCacheTTL     = time.Duration(getEnvInt("SCRIPT_CACHE_TTL_MINUTES", 60)) * time.Minute
)

// Digest Configuration
var (
	DigestEnabled       = getEnvBool("DIGEST_ENABLED", false)
	DigestCheckInterval = time.Duration(getEnvInt("DIGEST_CHECK_INTERVAL_MINUTES", 60)) * time.Minute
)
