package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const minTokenSecretLen = 16

// Session store backends.
const (
	SessionStoreRedis  = "redis"
	SessionStoreMemory = "memory"
)

// Config aggregates runtime configuration for the service.
type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Logger   LoggerConfig
	Auth     AuthConfig
	Session  SessionConfig
}

// AppConfig controls server level behavior.
type AppConfig struct {
	Name                  string
	Env                   string
	Host                  string
	Port                  string
	Version               string
	RequestTimeoutSeconds int
}

// DatabaseConfig holds DB connection values.
type DatabaseConfig struct {
	URL                   string
	MaxOpenConns          int
	MaxIdleConns          int
	ConnectTimeoutSeconds int
	RunMigrations         bool
}

// RedisConfig holds Redis connection values.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// LoggerConfig configures logging behavior.
type LoggerConfig struct {
	Level string
}

// AuthConfig defines authentication parameters.
type AuthConfig struct {
	TokenSecret             string
	LoginTokenTTLHours      int
	BcryptCost              int
	UsernameCaseInsensitive bool
	CookieSecure            bool
}

// SessionConfig controls where per-browser state is kept.
type SessionConfig struct {
	Store      string
	TTLMinutes int
}

// Load reads configuration from environment variables, applying defaults where possible.
func Load() (*Config, error) {
	_ = godotenv.Load()

	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	store := strings.ToLower(getEnv("SESSION_STORE", SessionStoreRedis))
	if store != SessionStoreRedis && store != SessionStoreMemory {
		return nil, fmt.Errorf("invalid SESSION_STORE %q: want %s or %s", store, SessionStoreRedis, SessionStoreMemory)
	}

	tokenSecret := strings.TrimSpace(os.Getenv("AUTH_TOKEN_SECRET"))
	if tokenSecret == "" {
		return nil, errors.New("AUTH_TOKEN_SECRET is required")
	}
	if len(tokenSecret) < minTokenSecretLen {
		return nil, fmt.Errorf("AUTH_TOKEN_SECRET must be at least %d bytes", minTokenSecretLen)
	}

	cfg := &Config{
		App: AppConfig{
			Name:                  getEnv("APP_NAME", "process-desk"),
			Env:                   getEnv("APP_ENV", "development"),
			Host:                  getEnv("APP_HOST", "0.0.0.0"),
			Port:                  getEnv("APP_PORT", "8080"),
			Version:               getEnv("APP_VERSION", "dev"),
			RequestTimeoutSeconds: getEnvAsInt("HTTP_REQUEST_TIMEOUT_SECONDS", 30),
		},
		Database: DatabaseConfig{
			URL:                   strings.TrimSpace(os.Getenv("DATABASE_URL")),
			MaxOpenConns:          getEnvAsInt("DB_MAX_OPEN_CONNS", 10),
			MaxIdleConns:          getEnvAsInt("DB_MAX_IDLE_CONNS", 0),
			ConnectTimeoutSeconds: getEnvAsInt("DB_CONNECT_TIMEOUT_SECONDS", 5),
			RunMigrations:         getEnvAsBool("DB_RUN_MIGRATIONS", false),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "127.0.0.1:6379"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       redisDB,
		},
		Logger: LoggerConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
		Auth: AuthConfig{
			TokenSecret:             tokenSecret,
			LoginTokenTTLHours:      getEnvAsInt("AUTH_LOGIN_TOKEN_TTL_HOURS", 24),
			BcryptCost:              getEnvAsInt("AUTH_BCRYPT_COST", 12),
			UsernameCaseInsensitive: getEnvAsBool("AUTH_USERNAME_CASE_INSENSITIVE", false),
			CookieSecure:            getEnvAsBool("AUTH_COOKIE_SECURE", false),
		},
		Session: SessionConfig{
			Store:      store,
			TTLMinutes: getEnvAsInt("SESSION_TTL_MINUTES", 720),
		},
	}

	return cfg, nil
}

// Addr returns the HTTP bind address.
func (a AppConfig) Addr() string {
	return fmt.Sprintf("%s:%s", a.Host, a.Port)
}

// RequestTimeout returns the configured request timeout duration.
func (a AppConfig) RequestTimeout() time.Duration {
	if a.RequestTimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(a.RequestTimeoutSeconds) * time.Second
}

// Configured reports whether a connection string was supplied.
func (d DatabaseConfig) Configured() bool {
	return d.URL != ""
}

// ConnectTimeout bounds the startup ping.
func (d DatabaseConfig) ConnectTimeout() time.Duration {
	if d.ConnectTimeoutSeconds <= 0 {
		return 5 * time.Second
	}
	return time.Duration(d.ConnectTimeoutSeconds) * time.Second
}

// LoginTokenTTL returns how long the persistent login cookie stays valid.
func (a AuthConfig) LoginTokenTTL() time.Duration {
	if a.LoginTokenTTLHours <= 0 {
		return 24 * time.Hour
	}
	return time.Duration(a.LoginTokenTTLHours) * time.Hour
}

// TTL returns the sliding lifetime of a server-side session.
func (s SessionConfig) TTL() time.Duration {
	if s.TTLMinutes <= 0 {
		return 12 * time.Hour
	}
	return time.Duration(s.TTLMinutes) * time.Minute
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvAsBool(key string, fallback bool) bool {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(val)
	if err != nil {
		return fallback
	}
	return parsed
}
