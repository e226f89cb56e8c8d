package config

import (
	"fmt"
	"log"
	"net"
	"os"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/joho/godotenv"
)

// Data sources selectable with DATA_SOURCE
const (
	DataSourcePostgres = "postgres"
	DataSourceFixture  = "fixture"
)

// Config holds all configuration for the application
type Config struct {
	// Server configuration
	Server ServerConfig

	// DataSource selects the store implementation: postgres or fixture
	DataSource string

	// Database configuration
	Database DatabaseConfig

	// JWT configuration
	JWT JWTConfig

	// CORS configuration
	CORS CORSConfig

	// Redis cache configuration
	Redis RedisConfig

	// AI chat configuration
	AI AIConfig

	// Cron configuration
	Cron CronConfig
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port             string
	Environment      string // development, staging, production
	LogLevel         string // debug, info, warn, error
	EnableRequestLog bool

	// Proxy IPs or CIDRs whose X-Forwarded-For / X-Real-IP headers are
	// believed. Empty means the socket peer is the client.
	TrustedProxies []string
}

// DatabaseConfig holds database-related configuration
type DatabaseConfig struct {
	URL                string
	MaxConnections     int
	MaxIdleConnections int
	ConnMaxLifetime    time.Duration
	RequireSSL         bool
	SimpleProtocol     bool // for transaction-mode poolers that reject prepared statements
}

// JWTConfig holds JWT-related configuration
type JWTConfig struct {
	Secret            string
	Issuer            string
	AccessTokenExpiry time.Duration
}

// CORSConfig holds CORS-related configuration
type CORSConfig struct {
	AllowedOrigins []string
	AllowedMethods []string
	AllowedHeaders []string
}

// RedisConfig holds the location cache configuration. An empty URL disables the cache.
type RedisConfig struct {
	URL         string
	Password    string
	DB          int
	LocationTTL time.Duration
}

// AIConfig holds the chat model configuration. An empty key selects template replies.
type AIConfig struct {
	GeminiAPIKey string
	Model        string
	Timeout      time.Duration

	// Chat requests allowed per client IP within RateWindow. Zero disables the limit.
	RateLimit  int
	RateWindow time.Duration
}

// CronConfig holds background job configuration
type CronConfig struct {
	Enabled            bool
	CompletionSchedule string // second minute hour day month weekday
	Timezone           string
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists (for local development)
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	config := &Config{
		Server: ServerConfig{
			Port:             getEnv("PORT", "8080"),
			Environment:      getEnv("ENVIRONMENT", "development"),
			LogLevel:         getEnv("LOG_LEVEL", "info"),
			EnableRequestLog: getEnvAsBool("ENABLE_REQUEST_LOGGING", true),
			TrustedProxies:   getEnvAsSlice("TRUSTED_PROXIES", nil),
		},
		DataSource: strings.ToLower(getEnv("DATA_SOURCE", DataSourcePostgres)),
		Database: DatabaseConfig{
			URL:                getEnv("DATABASE_URL", ""),
			MaxConnections:     getEnvAsInt("DATABASE_MAX_CONNECTIONS", 10),
			MaxIdleConnections: getEnvAsInt("DATABASE_MAX_IDLE_CONNECTIONS", 5),
			ConnMaxLifetime:    time.Duration(getEnvAsInt("DATABASE_CONN_MAX_LIFETIME", 300)) * time.Second,
			RequireSSL:         getEnvAsBool("DATABASE_REQUIRE_SSL", false),
			SimpleProtocol:     getEnvAsBool("DATABASE_SIMPLE_PROTOCOL", false),
		},
		JWT: JWTConfig{
			Secret:            getEnv("JWT_SECRET", ""),
			Issuer:            getEnv("JWT_ISSUER", "jelajah"),
			AccessTokenExpiry: time.Duration(getEnvAsInt("JWT_ACCESS_TOKEN_EXPIRY", 3600)) * time.Second,
		},
		CORS: CORSConfig{
			AllowedOrigins: getEnvAsSlice("CORS_ALLOWED_ORIGINS", []string{"http://localhost:3000"}),
			AllowedMethods: getEnvAsSlice("CORS_ALLOWED_METHODS", []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}),
			AllowedHeaders: getEnvAsSlice("CORS_ALLOWED_HEADERS", []string{"Content-Type", "Authorization"}),
		},
		Redis: RedisConfig{
			URL:         getEnv("REDIS_URL", ""),
			Password:    getEnv("REDIS_PASSWORD", ""),
			DB:          getEnvAsInt("REDIS_DB", 0),
			LocationTTL: time.Duration(getEnvAsInt("REDIS_LOCATION_TTL", 3600)) * time.Second,
		},
		AI: AIConfig{
			GeminiAPIKey: getEnv("GEMINI_API_KEY", ""),
			Model:        getEnv("GEMINI_MODEL", "gemini-2.0-flash"),
			Timeout:      time.Duration(getEnvAsInt("GEMINI_TIMEOUT", 15)) * time.Second,
			RateLimit:    getEnvAsInt("CHAT_RATE_LIMIT", 20),
			RateWindow:   time.Duration(getEnvAsInt("CHAT_RATE_WINDOW", 600)) * time.Second,
		},
		Cron: CronConfig{
			Enabled:            getEnvAsBool("CRON_ENABLED", true),
			CompletionSchedule: getEnv("CRON_COMPLETION_SCHEDULE", "0 0 1 * * *"),
			Timezone:           getEnv("CRON_TIMEZONE", "Asia/Jakarta"),
		},
	}

	// Validate required configuration
	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	switch c.DataSource {
	case DataSourcePostgres:
		if c.Database.URL == "" {
			return fmt.Errorf("DATABASE_URL is required when DATA_SOURCE=%s", DataSourcePostgres)
		}
	case DataSourceFixture:
	default:
		return fmt.Errorf("invalid DATA_SOURCE: %s (must be '%s' or '%s')", c.DataSource, DataSourcePostgres, DataSourceFixture)
	}

	for _, proxy := range c.Server.TrustedProxies {
		if net.ParseIP(proxy) == nil {
			if _, _, err := net.ParseCIDR(proxy); err != nil {
				return fmt.Errorf("invalid TRUSTED_PROXIES entry %q", proxy)
			}
		}
	}

	if c.JWT.Secret == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}

	if c.Cron.Enabled {
		if _, err := time.LoadLocation(c.Cron.Timezone); err != nil {
			return fmt.Errorf("invalid CRON_TIMEZONE %q: %w", c.Cron.Timezone, err)
		}
	}

	return nil
}

// IsProduction reports whether the server runs in production
func (c *Config) IsProduction() bool {
	return c.Server.Environment == "production"
}

// Helper functions to get environment variables

func getEnv(key string, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		log.Printf("Invalid integer value for %s, using default: %d", key, defaultValue)
		return defaultValue
	}
	return value
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		log.Printf("Invalid boolean value for %s, using default: %t", key, defaultValue)
		return defaultValue
	}
	return value
}

func getEnvAsSlice(key string, defaultValue []string) []string {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	var result []string
	for _, v := range strings.Split(valueStr, ",") {
		if trimmed := strings.TrimSpace(v); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	if len(result) == 0 {
		return defaultValue
	}
	return result
}
