package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	ServerPort     string
	DatabaseType   string
	DatabasePath   string
	DatabaseURL    string
	MigrationsPath string

	// Oracle settings. An empty API key disables live analysis and the
	// deterministic stand-in is used instead.
	GeminiAPIKey string
	GeminiModel  string

	// Alert email settings. An empty from-address disables email.
	AWSRegion    string
	SESFromEmail string
	SESFromName  string
	AppBaseURL   string

	SessionSecret     string
	SessionDuration   time.Duration
	NotificationDwell time.Duration
}

// Load reads configuration from the environment with sensible defaults.
// A .env file in the working directory is honored when present.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		ServerPort:        getEnv("PORT", "8080"),
		DatabaseType:      getEnv("DB_TYPE", "sqlite"),
		DatabasePath:      getEnv("DB_PATH", "./carebridge.db"),
		DatabaseURL:       getEnv("DATABASE_URL", ""),
		MigrationsPath:    getEnv("MIGRATIONS_PATH", "./migrations"),
		GeminiAPIKey:      getEnv("GEMINI_API_KEY", ""),
		GeminiModel:       getEnv("GEMINI_MODEL", "gemini-3-flash-preview"),
		AWSRegion:         getEnv("AWS_REGION", "us-east-1"),
		SESFromEmail:      getEnv("SES_FROM_EMAIL", ""),
		SESFromName:       getEnv("SES_FROM_NAME", "CareBridge"),
		AppBaseURL:        getEnv("APP_BASE_URL", "http://localhost:8080"),
		SessionSecret:     getEnv("SESSION_SECRET", "carebridge-dev-secret"),
		SessionDuration:   getDuration("SESSION_DURATION", 24*time.Hour),
		NotificationDwell: getDuration("NOTIFICATION_DWELL", 6*time.Second),
	}
}

// getEnv reads an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getDuration reads a duration environment variable, accepting either a
// Go duration string or a plain number of seconds
func getDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	if d, err := time.ParseDuration(value); err == nil {
		return d
	}
	if secs, err := strconv.Atoi(value); err == nil {
		return time.Duration(secs) * time.Second
	}
	return defaultValue
}
