package app

import (
	"errors"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/aussiebroadwan/taskboard/pkg/httpx"
	"github.com/joho/godotenv"
)

type Config struct {
	Env                  string        // Environment (development, staging, production) (default: development)
	LogLevel             string        // Log level (debug, info, warn, error) (default: info)
	LogFormat            string        // Log format (json, text) (default: json)
	Port                 int           // HTTP server port (default: 8080)
	ShutdownGracePeriod  time.Duration // Graceful shutdown timeout (default: 10s)
	HousekeepingInterval time.Duration // Expired token purge interval (default: 1h)

	DatabaseDriver string // sqlite or postgres (default: sqlite)
	DatabaseFile   string // SQLite database file (default: taskboard.db)
	DatabaseURL    string // Postgres DSN, required with the postgres driver

	PepperFile     string        // Password pepper file, generated if missing (default: pepper.key)
	SigningKeyFile string        // Optional: Ed25519 PEM; empty means an ephemeral key
	TokenIssuer    string        // JWT iss claim (default: taskboard)
	TokenTTL       time.Duration // Access token lifetime (default: 168h)

	AdminName     string // Seeded admin display name (default: Administrator)
	AdminEmail    string // Optional: seeded admin email, no admin is seeded when empty
	AdminPassword string // Optional: generated and logged once when empty

	CORSAllowedOrigins []string
	RateLimits         httpx.RateLimits
}

// LoadConfig reads the environment, after loading a .env file from the
// working directory when there is one. Variables already set win over .env.
func LoadConfig() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, err
	}

	cfg := Config{
		Env:                  getEnvOrDefault("ENV", "development"),
		LogLevel:             getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:            getEnvOrDefault("LOG_FORMAT", "json"),
		Port:                 getEnvIntOrDefault("PORT", 8080),
		ShutdownGracePeriod:  getEnvDurationOrDefault("SHUTDOWN_GRACE_PERIOD", 10*time.Second),
		HousekeepingInterval: getEnvDurationOrDefault("HOUSEKEEPING_INTERVAL", time.Hour),

		DatabaseDriver: strings.ToLower(getEnvOrDefault("DATABASE_DRIVER", "sqlite")),
		DatabaseFile:   getEnvOrDefault("DATABASE_FILE", "taskboard.db"),
		DatabaseURL:    os.Getenv("DATABASE_URL"),

		PepperFile:     getEnvOrDefault("PEPPER_FILE", "pepper.key"),
		SigningKeyFile: os.Getenv("SIGNING_KEY_FILE"),
		TokenIssuer:    getEnvOrDefault("TOKEN_ISSUER", "taskboard"),
		TokenTTL:       getEnvDurationOrDefault("TOKEN_TTL", 7*24*time.Hour),

		AdminName:     getEnvOrDefault("ADMIN_NAME", "Administrator"),
		AdminEmail:    os.Getenv("ADMIN_EMAIL"),
		AdminPassword: os.Getenv("ADMIN_PASSWORD"),

		CORSAllowedOrigins: httpx.ParseOrigins(getEnvOrDefault("CORS_ALLOWED_ORIGINS", "*")),
		RateLimits:         httpx.RateLimitsFromEnv(os.Getenv, httpx.DefaultRateLimits()),
	}

	return cfg, cfg.Validate()
}

// Validate reports settings the application cannot start with.
func (c Config) Validate() error {
	switch c.DatabaseDriver {
	case "sqlite":
	case "postgres":
		if c.DatabaseURL == "" {
			return errors.New("DATABASE_URL is required when DATABASE_DRIVER=postgres")
		}
	default:
		return errors.New("DATABASE_DRIVER must be sqlite or postgres")
	}
	if c.TokenTTL <= 0 {
		return errors.New("TOKEN_TTL must be positive")
	}
	return nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if intValue, err := strconv.Atoi(value); err == nil {
		return intValue
	}

	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if duration, err := time.ParseDuration(value); err == nil {
		return duration
	}

	// Bare integers are minutes
	if minutes, err := strconv.Atoi(value); err == nil {
		return time.Duration(minutes) * time.Minute
	}

	return defaultValue
}
