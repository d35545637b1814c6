package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/fx"
)

// Module provides the loaded configuration.
var Module = fx.Module("config", fx.Provide(Load))

// Config holds application configuration.
type Config struct {
	AppName          string
	AppVersion       string
	Environment      string
	HTTPAddr         string
	LogLevel         string
	AuthCookieSecure bool

	DBType            string
	DBHost            string
	DBPort            string
	DBName            string
	DBUser            string
	DBPassword        string
	DBSSLMode         string
	DBMaxIdleConn     int
	DBMaxOpenConn     int
	DBConnMaxLifetime int

	RateLimit RateLimitConfig
	Media     MediaConfig
	Seed      SeedConfig
}

// RateLimitConfig controls the subscribe rate limiter.
type RateLimitConfig struct {
	Limit         int
	Window        time.Duration
	SweepInterval time.Duration
	Backend       string
	RedisAddr     string
	RedisPassword string
	RedisDB       int
}

// MediaConfig controls the blob store for uploaded media.
type MediaConfig struct {
	Dir     string
	BaseURL string
}

// SeedConfig controls the bootstrap admin account.
type SeedConfig struct {
	AdminEmail    string
	AdminPassword string
}

const (
	BackendMemory = "memory"
	BackendRedis  = "redis"
)

// Load loads configuration from environment variables and .env file.
func Load() Config {
	_ = godotenv.Load()

	environment := getenv("ENVIRONMENT", "development")
	authCookieSecure := environment == "production"
	if !authCookieSecure {
		authCookieSecure = getenvBool("AUTH_COOKIE_SECURE", false)
	}

	return Config{
		AppName:          getenv("APP_SERVICE", "momta"),
		AppVersion:       getenv("APP_VERSION", "0.1.0"),
		Environment:      environment,
		HTTPAddr:         getenv("HTTP_ADDR", ":8080"),
		LogLevel:         getenv("LOG_LEVEL", "info"),
		AuthCookieSecure: authCookieSecure,

		DBType:            getenv("DATABASE_TYPE", "postgres"),
		DBHost:            getenv("DATABASE_HOST", "localhost"),
		DBPort:            getenv("DATABASE_PORT", "5432"),
		DBName:            getenv("DATABASE_NAME", "momta"),
		DBUser:            getenv("DATABASE_USER", "postgres"),
		DBPassword:        getenv("DATABASE_PASSWORD", "postgres"),
		DBSSLMode:         getenv("DATABASE_SSLMODE", "disable"),
		DBMaxIdleConn:     getenvInt("DATABASE_MAX_IDLE_CONN", 5),
		DBMaxOpenConn:     getenvInt("DATABASE_MAX_OPEN_CONN", 20),
		DBConnMaxLifetime: getenvInt("DATABASE_CONN_MAX_LIFETIME", 3600),

		RateLimit: RateLimitConfig{
			Limit:         getenvInt("RATE_LIMIT_LIMIT", 3),
			Window:        getenvDuration("RATE_LIMIT_WINDOW", 15*time.Minute),
			SweepInterval: getenvDuration("RATE_LIMIT_SWEEP_INTERVAL", 5*time.Minute),
			Backend:       normalizeBackend(getenv("RATE_LIMIT_BACKEND", BackendMemory)),
			RedisAddr:     strings.TrimSpace(getenv("RATE_LIMIT_REDIS_ADDR", "")),
			RedisPassword: strings.TrimSpace(getenv("RATE_LIMIT_REDIS_PASSWORD", "")),
			RedisDB:       getenvInt("RATE_LIMIT_REDIS_DB", 0),
		},
		Media: MediaConfig{
			Dir:     getenv("MEDIA_DIR", "./media"),
			BaseURL: strings.TrimRight(getenv("MEDIA_BASE_URL", "/media"), "/"),
		},
		Seed: SeedConfig{
			AdminEmail:    strings.TrimSpace(getenv("SEED_ADMIN_EMAIL", "")),
			AdminPassword: getenv("SEED_ADMIN_PASSWORD", ""),
		},
	}
}

func (c Config) IsProduction() bool {
	return c.Environment == "production"
}

func normalizeBackend(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case BackendRedis:
		return BackendRedis
	default:
		return BackendMemory
	}
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvBool(key string, def bool) bool {
	value := strings.ToLower(strings.TrimSpace(os.Getenv(key)))
	if value == "" {
		return def
	}
	switch value {
	case "1", "true", "yes", "y", "on":
		return true
	case "0", "false", "no", "n", "off":
		return false
	default:
		return def
	}
}

func getenvInt(key string, def int) int {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return def
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return def
	}
	return parsed
}

func getenvDuration(key string, def time.Duration) time.Duration {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return def
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		return def
	}
	return parsed
}
